//go:build omniweb

package omniweb

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
	"github.com/couchcryptid/cme-arrival-service/internal/observability"
)

// These tests download from the real NASA SPDF archive.
// Run with: go test -tags=omniweb ./internal/adapter/omniweb/ -v -count=1

func smokeClient() *Client {
	return NewClient(DefaultBaseURL, 60*time.Second, 1, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_FetchYear(t *testing.T) {
	table, err := smokeClient().FetchYear(context.Background(), 2015)
	require.NoError(t, err)

	assert.Equal(t, 8760, table.Len(), "one row per hour of a non-leap year")
	assert.Equal(t, "2015", table.Rows[0][0])
	assert.GreaterOrEqual(t, len(table.Rows[0]), domain.QuantityP.Column()+1)
}

func TestSmoke_ExampleEventSnapshot(t *testing.T) {
	cached := NewCachedProvider(smokeClient(), 2, observability.NewMetricsForTesting())

	onset, err := domain.ParseTimestamp("2015-12-28T12:12:00")
	require.NoError(t, err)

	table, err := cached.FetchYear(context.Background(), onset.Year())
	require.NoError(t, err)

	snap := domain.BuildSnapshot(table, onset, domain.DefaultAveragingHours)
	assert.Equal(t, len(domain.Quantities), snap.Len())

	// Second call is served from the cache.
	again, err := cached.FetchYear(context.Background(), onset.Year())
	require.NoError(t, err)
	assert.Same(t, table, again)
}
