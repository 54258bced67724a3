// Command genmock writes a synthetic OMNI2 archive and a matching CME catalog
// so the service and cmd/predict can run offline. Solar-wind speed follows a
// 27-day rotation cycle and catalog transit times are derived from the event
// speed and the ambient wind at onset, so a trained engine has a real signal
// to recover.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -from 2014 -to 2016 -events 120
//	OMNI_BASE_URL=file://$PWD/data/mock CME_CATALOG_SOURCE=data/mock/catalog.txt go run ./cmd/arrival
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
)

const (
	omniColumns = 55
	auKm        = 1.496e8
	fillEvery   = 17 // every n-th hour carries fill values
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "output directory for omni2_<year>.dat and catalog.txt")
	from := flag.Int("from", 2014, "first archive year")
	to := flag.Int("to", 2016, "last archive year")
	events := flag.Int("events", 100, "number of catalog events")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *to < *from {
		return fmt.Errorf("-to %d is before -from %d", *to, *from)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	for year := *from; year <= *to; year++ {
		path := filepath.Join(*outDir, fmt.Sprintf("omni2_%d.dat", year))
		n, err := writeYear(path, year)
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Printf("%d: %d hourly rows", year, n)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	path := filepath.Join(*outDir, "catalog.txt")
	if err := writeCatalog(path, rng, *from, *to, *events); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	log.Printf("catalog: %d events -> %s", *events, path)
	return nil
}

// ambientSpeed is the synthetic bulk speed (km/s) at t.
func ambientSpeed(t time.Time) float64 {
	days := float64(t.Unix()) / 86400
	return 420 + 90*math.Sin(2*math.Pi*days/27)
}

func writeYear(path string, year int) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	n := 0
	for t := start; t.Before(end); t = t.Add(time.Hour) {
		if _, err := fmt.Fprintln(w, omniRow(t, n)); err != nil {
			return 0, err
		}
		n++
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}
	return n, f.Close()
}

func omniRow(t time.Time, hour int) string {
	row := make([]string, omniColumns)
	for c := range row {
		row[c] = "0"
	}
	row[0] = fmt.Sprint(t.Year())
	row[1] = fmt.Sprint(t.YearDay())
	row[2] = fmt.Sprint(t.Hour())

	if hour%fillEvery == fillEvery-1 {
		for _, q := range domain.Quantities {
			row[q.Column()] = fmt.Sprintf("%.0f", q.Sentinel())
		}
		return strings.Join(row, " ")
	}

	v := ambientSpeed(t)
	phase := 2 * math.Pi * float64(t.Unix()) / (27 * 86400)
	row[domain.QuantityV.Column()] = fmt.Sprintf("%.0f.", v)
	row[domain.QuantityBz.Column()] = fmt.Sprintf("%.1f", 3*math.Cos(phase))
	row[domain.QuantityBx.Column()] = fmt.Sprintf("%.1f", 2*math.Sin(3*phase))
	row[domain.QuantityT.Column()] = fmt.Sprintf("%.0f.", 40*v*v/100)
	row[domain.QuantityP.Column()] = fmt.Sprintf("%.2f", 1.2e-6*6*v*v)
	row[domain.QuantityLon.Column()] = fmt.Sprintf("%.1f", math.Sin(phase))
	row[domain.QuantityLat.Column()] = fmt.Sprintf("%.1f", -math.Cos(phase))
	row[domain.QuantityRatio.Column()] = ".040"
	return strings.Join(row, " ")
}

// writeCatalog writes events in the LASCO catalog column layout. The transit
// time assumes the CME travels at the mean of its own speed and the ambient
// wind, plus a few hours of noise.
func writeCatalog(path string, rng *rand.Rand, from, to, count int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# date      time      pa    speed  accel  width  transit")

	start := time.Date(from, time.January, 2, 0, 0, 0, 0, time.UTC)
	// Leave room at the end of the range for the averaging window.
	span := time.Date(to, time.December, 30, 0, 0, 0, 0, time.UTC).Sub(start)
	for range count {
		onset := start.Add(time.Duration(rng.Int64N(int64(span)))).Truncate(time.Minute)
		speed := 400 + rng.Float64()*1400
		width := 360.0
		pa := "Halo"
		if rng.IntN(3) == 0 {
			width = 120 + rng.Float64()*200
			pa = fmt.Sprintf("%.0f", rng.Float64()*359)
		}
		effective := (speed + ambientSpeed(onset)) / 2
		transit := auKm/effective/3600 + rng.NormFloat64()*3

		fmt.Fprintf(w, "%s  %5s  %6.0f  %5.1f  %5.0f  %6.1f\n",
			onset.Format("2006/01/02 15:04:05"), pa, speed, rng.NormFloat64()*10, width, transit)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
