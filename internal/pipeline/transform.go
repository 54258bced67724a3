package pipeline

import (
	"context"
	"time"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
)

// table fetches the yearly solar-wind table under the configured timeout.
// Any failure is logged and yields nil, which degrades the snapshot to empty.
func (s *Service) table(ctx context.Context, year int) *domain.SeriesTable {
	if s.provider == nil {
		return nil
	}
	if s.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()
	}

	table, err := s.provider.FetchYear(ctx, year)
	if err != nil {
		s.logger.Warn("solar wind data unavailable, continuing without it", "year", year, "error", err)
		return nil
	}
	return table
}

// snapshot averages the table around onset and records degraded and fallback outcomes.
func (s *Service) snapshot(onset time.Time, table *domain.SeriesTable) domain.Snapshot {
	snap := domain.BuildSnapshot(table, onset, s.opts.AveragingHours)
	if snap.Empty() {
		s.metrics.DegradedSnapshots.Inc()
		return snap
	}
	for _, q := range snap.Fallbacks() {
		s.metrics.SnapshotFallbacks.WithLabelValues(string(q)).Inc()
		s.logger.Debug("no valid reading in reach, using fallback", "quantity", q, "onset", domain.FormatTimestamp(onset))
	}
	return snap
}

// trainingSet vectorises every sample through the same snapshot path as Predict.
// Each year is fetched at most once; a failed year degrades all of its samples.
func (s *Service) trainingSet(ctx context.Context, samples []domain.TrainingSample) ([]domain.FeatureVector, []float64) {
	tables := make(map[int]*domain.SeriesTable)
	x := make([]domain.FeatureVector, 0, len(samples))
	y := make([]float64, 0, len(samples))

	for _, sample := range samples {
		year := sample.Onset.Year()
		table, seen := tables[year]
		if !seen {
			table = s.table(ctx, year)
			tables[year] = table
		}
		snap := s.snapshot(sample.Onset, table)
		x = append(x, domain.BuildFeatureVector(s.opts.Features, sample.Event, snap))
		y = append(y, sample.TransitHours)
	}
	return x, y
}
