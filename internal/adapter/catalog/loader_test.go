package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
	"github.com/couchcryptid/cme-arrival-service/internal/observability"
)

const sampleCatalog = `# date      time   pa    speed  accel width transit
2015/12/28 12:12   Halo  1212   -3.1  360   66.8

2015/06/21 02:36:00 Halo  1366   12.0  360   39.5
2015/03/15 01:48   240   719    5.4   360   -1
2014/01/07 18:24   Halo  1830  -62.5  360   bad
2013/04/11 07:24   Halo  861    4.2   360
2012/07/12 16:48   Halo  885   14.8   360   48.5
`

func testLoader() *Loader {
	return NewLoader(5*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLoader_Parse(t *testing.T) {
	l := testLoader()
	cat, err := l.Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	require.Len(t, cat.Samples, 3)
	assert.Equal(t, 3, cat.Dropped)
	assert.Equal(t, 3.0, testutil.ToFloat64(l.metrics.CatalogRowsDropped))

	first := cat.Samples[0]
	assert.Equal(t, time.Date(2015, time.December, 28, 12, 12, 0, 0, time.UTC), first.Onset)
	assert.Equal(t, 1212.0, first.Event.Speed)
	assert.Equal(t, 360.0, first.Event.Width)
	assert.Equal(t, 360.0, first.Event.PositionAngle, "halo maps to 360")
	assert.Equal(t, 66.8, first.TransitHours)

	assert.Equal(t, time.Date(2015, time.June, 21, 2, 36, 0, 0, time.UTC), cat.Samples[1].Onset)
	assert.Equal(t, 48.5, cat.Samples[2].TransitHours)
}

func TestParseRow_NumericPositionAngle(t *testing.T) {
	s, err := ParseRow(strings.Fields("2015/03/15 01:48 240 719 5.4 120 55"))
	require.NoError(t, err)
	assert.Equal(t, 240.0, s.Event.PositionAngle)
	assert.Equal(t, 120.0, s.Event.Width)
}

func TestParseRow_HaloLabelCaseInsensitive(t *testing.T) {
	for _, label := range []string{"Halo", "HALO", "halo"} {
		s, err := ParseRow(strings.Fields("2015/12/28 12:12 " + label + " 1212 -3.1 360 66.8"))
		require.NoError(t, err, label)
		assert.Equal(t, 360.0, s.Event.PositionAngle, label)
	}
}

func TestParseRow_Malformed(t *testing.T) {
	tests := map[string]string{
		"too few columns": "2015/03/15 01:48 240 719",
		"bad date":        "2015-03-15 01:48 240 719 5.4 120 55",
		"bad time":        "2015/03/15 1h48 240 719 5.4 120 55",
		"bad speed":       "2015/03/15 01:48 240 fast 5.4 120 55",
		"bad width":       "2015/03/15 01:48 240 719 5.4 wide 55",
		"zero transit":    "2015/03/15 01:48 240 719 5.4 120 0",
		"negative":        "2015/03/15 01:48 240 719 5.4 120 -4",
		"nan transit":     "2015/03/15 01:48 240 719 5.4 120 NaN",
		"inf speed":       "2015/03/15 01:48 240 Inf 5.4 120 55",
		"unknown pa":      "2015/03/15 01:48 Partial 719 5.4 120 55",
		"garbled pa":      "2015/03/15 01:48 24O 719 5.4 120 55",
	}
	for name, line := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRow(strings.Fields(line))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedRow))
		})
	}
}

func TestLoader_Load_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	cat, err := testLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, cat.Samples, 3)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	_, err := testLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}

func TestLoader_Load_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleCatalog))
	}))
	defer srv.Close()

	cat, err := testLoader().Load(context.Background(), srv.URL+"/catalog.txt")
	require.NoError(t, err)
	assert.Len(t, cat.Samples, 3)
	assert.Equal(t, 3, cat.Dropped)
}

func TestLoader_Load_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testLoader().Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
