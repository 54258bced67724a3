// Package catalog reads historical CME events with observed transit times
// for training the arrival engine.
package catalog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
	"github.com/couchcryptid/cme-arrival-service/internal/observability"
)

// Column layout of a catalog line.
const (
	colDate     = 0 // YYYY/MM/DD
	colTime     = 1 // HH:MM or HH:MM:SS
	colPA       = 2 // central position angle, "Halo" for full halos
	colSpeed    = 3 // linear speed, km/s
	colWidth    = 5 // angular width, deg
	colTransit  = 6 // observed Sun-Earth transit, hours
	minColumns  = colTransit + 1
	haloPA      = 360.0
	haloLabel   = "Halo"
	commentChar = "#"
)

var onsetLayouts = []string{
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
}

// Loader reads a catalog from an http(s) URL or a local file.
type Loader struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewLoader creates a catalog loader. timeout bounds remote downloads.
func NewLoader(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Load opens source and parses every line. Malformed rows are dropped and counted.
func (l *Loader) Load(ctx context.Context, source string) (*domain.Catalog, error) {
	rc, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	cat, err := l.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", source, err)
	}

	l.logger.Info("catalog loaded", "source", source, "samples", len(cat.Samples), "dropped", cat.Dropped)
	return cat, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("catalog error: status %d: %s", resp.StatusCode, body)
	}
	return resp.Body, nil
}

// Parse reads catalog lines from r. Blank lines and lines starting with '#' are skipped.
func (l *Loader) Parse(r io.Reader) (*domain.Catalog, error) {
	cat := &domain.Catalog{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, commentChar) {
			continue
		}
		sample, err := ParseRow(strings.Fields(line))
		if err != nil {
			cat.Dropped++
			l.metrics.CatalogRowsDropped.Inc()
			l.logger.Debug("catalog row dropped", "line", lineNo, "error", err)
			continue
		}
		cat.Samples = append(cat.Samples, sample)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cat, nil
}

// ParseRow converts one tokenised catalog line to a training sample.
// Every failure wraps domain.ErrMalformedRow.
func ParseRow(fields []string) (domain.TrainingSample, error) {
	if len(fields) < minColumns {
		return domain.TrainingSample{}, fmt.Errorf("%w: %d columns, want at least %d", domain.ErrMalformedRow, len(fields), minColumns)
	}

	onset, err := parseOnset(fields[colDate], fields[colTime])
	if err != nil {
		return domain.TrainingSample{}, err
	}

	speed, err := parseField("speed", fields[colSpeed])
	if err != nil {
		return domain.TrainingSample{}, err
	}
	width, err := parseField("width", fields[colWidth])
	if err != nil {
		return domain.TrainingSample{}, err
	}
	transit, err := parseField("transit", fields[colTransit])
	if err != nil {
		return domain.TrainingSample{}, err
	}
	if !(transit > 0) {
		return domain.TrainingSample{}, fmt.Errorf("%w: transit %v is not positive", domain.ErrMalformedRow, transit)
	}

	pa, err := parsePositionAngle(fields[colPA])
	if err != nil {
		return domain.TrainingSample{}, err
	}

	return domain.TrainingSample{
		Onset: onset,
		Event: domain.EventParameters{
			Speed:         speed,
			Width:         width,
			PositionAngle: pa,
		},
		TransitHours: transit,
	}, nil
}

// parsePositionAngle accepts an angle in degrees or the "Halo" label full halos carry.
func parsePositionAngle(raw string) (float64, error) {
	if strings.EqualFold(raw, haloLabel) {
		return haloPA, nil
	}
	return parseField("pa", raw)
}

func parseOnset(date, clock string) (time.Time, error) {
	s := date + " " + clock
	for _, layout := range onsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: onset %q", domain.ErrMalformedRow, s)
}

func parseField(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q", domain.ErrMalformedRow, name, raw)
	}
	return v, nil
}
