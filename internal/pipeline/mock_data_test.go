package pipeline_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cme-arrival-service/internal/adapter/catalog"
	"github.com/couchcryptid/cme-arrival-service/internal/adapter/omniweb"
	"github.com/couchcryptid/cme-arrival-service/internal/domain"
	"github.com/couchcryptid/cme-arrival-service/internal/observability"
	"github.com/couchcryptid/cme-arrival-service/internal/pipeline"
)

// mockOMNIYear renders a whole year in OMNI2 text layout. Solar-wind speed
// ramps with the day of year so snapshots differ between events; every
// twelfth hour carries fill values to exercise gap filling.
func mockOMNIYear(year int) string {
	hours := 365 * 24
	if time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		hours = 366 * 24
	}

	var b strings.Builder
	for h := range hours {
		row := make([]string, omniColumns)
		for c := range row {
			row[c] = "0"
		}
		row[0] = fmt.Sprint(year)
		row[1] = fmt.Sprint(h/24 + 1)
		row[2] = fmt.Sprint(h % 24)

		speed, bz, temp := fmt.Sprint(350+h/24), "-2.5", "90000"
		if h%12 == 5 {
			speed, bz, temp = "9999.", "999.9", "9999999."
		}
		row[domain.QuantityV.Column()] = speed
		row[domain.QuantityBz.Column()] = bz
		row[domain.QuantityT.Column()] = temp
		row[domain.QuantityBx.Column()] = "3.1"
		row[domain.QuantityLon.Column()] = "-1.0"
		row[domain.QuantityLat.Column()] = "0.5"
		row[domain.QuantityRatio.Column()] = ".030"
		row[domain.QuantityP.Column()] = "2.10"

		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}
	return b.String()
}

const mockCatalogText = `# date      time     pa    speed  accel  width  transit
2015/01/07 06:12     Halo  1120   -4.0   360    52.1
2015/03/15 01:48     240   719     5.4   360    41.0
2015/06/21 02:36     Halo  1366   12.0   360    39.5
2015/06/25 08:36:05  Halo  1627  -15.2   360    42.8
2015/09/20 18:12     Halo  1239    3.3   360    45.6
2015/11/04 14:48     Halo   578    1.1   360    71.4
2015/13/40 14:48     Halo   578    1.1   360    71.4
`

func TestService_WithMockArchiveAndCatalog(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
	)
	seen := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), requests...)
	}
	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.URL.Path)
		mu.Unlock()
		if r.URL.Path != "/omni2_2015.dat" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(mockOMNIYear(2015)))
	}))
	defer archive.Close()

	catalogPath := filepath.Join(t.TempDir(), "catalog.txt")
	require.NoError(t, os.WriteFile(catalogPath, []byte(mockCatalogText), 0o600))

	metrics := observability.NewMetricsForTesting()
	logger := discardLogger()
	client := omniweb.NewClient(archive.URL, 5*time.Second, 1000, metrics, logger)
	provider := omniweb.NewCachedProvider(client, 2, metrics)
	loader := catalog.NewLoader(5*time.Second, metrics, logger)

	svc := pipeline.New(provider, loader, nil, pipeline.Options{
		FetchTimeout: 5 * time.Second,
		Features:     domain.FeatureRequest{"speed", "width", "sw_speed", "sw_bz"},
	}, logger, metrics)

	require.NoError(t, svc.Train(context.Background(), catalogPath))
	assert.Equal(t, []string{"/omni2_2015.dat"}, seen(), "one download serves the whole catalog")

	p, err := svc.Predict(context.Background(), exampleRequest(t))
	require.NoError(t, err)

	assert.False(t, p.Degraded)
	assert.Equal(t, -2.5, p.SolarWind[domain.QuantityBz])
	assert.Greater(t, p.SolarWind[domain.QuantityV], 350.0)
	assert.Greater(t, p.TransitHours, 0.0)
	assert.Len(t, seen(), 1, "prediction served from the table cache")

	// A year the archive does not have degrades without failing.
	req := exampleRequest(t)
	req.Onset = req.Onset.AddDate(-3, 0, 0)
	old, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, old.Degraded)
}
