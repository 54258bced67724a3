package domain

import (
	"maps"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultAveragingHours is the window averaged after onset when none is given.
const DefaultAveragingHours = 6

// SeriesTable is one year of hourly OMNI2 rows, each split on whitespace.
// Tables are shared read-only once fetched.
type SeriesTable struct {
	Year int
	Rows [][]string
}

// Len returns the number of hourly rows.
func (t *SeriesTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnRange extracts rows [low, high] of one column, clipped to the table.
// Rows too short to hold the column yield "". The second result is the row
// index of the first value.
func (t *SeriesTable) ColumnRange(col, low, high int) ([]string, int) {
	low = max(low, 0)
	high = min(high, t.Len()-1)
	if low > high {
		return nil, low
	}
	out := make([]string, high-low+1)
	for i, row := range t.Rows[low : high+1] {
		if col < len(row) {
			out[i] = row[col]
		}
	}
	return out, low
}

// Snapshot holds the averaged solar-wind conditions for one event.
type Snapshot struct {
	values    map[Quantity]float64
	fallbacks []Quantity
}

// Value returns the resolved value of q, or false when the snapshot has none.
func (s Snapshot) Value(q Quantity) (float64, bool) {
	v, ok := s.values[q]
	return v, ok
}

// Len returns the number of resolved quantities: 8, or 0 when the table was unavailable.
func (s Snapshot) Len() int {
	return len(s.values)
}

// Empty reports whether the snapshot was built without data.
func (s Snapshot) Empty() bool {
	return len(s.values) == 0
}

// Values returns a copy of the snapshot.
func (s Snapshot) Values() map[Quantity]float64 {
	return maps.Clone(s.values)
}

// Fallbacks lists the quantities that had no valid reading in reach and hold FallbackValue.
func (s Snapshot) Fallbacks() []Quantity {
	return append([]Quantity(nil), s.fallbacks...)
}

// BuildSnapshot averages every quantity over [idx, idx+hours] where idx is the
// onset row. A nil or empty table yields an empty snapshot. hours <= 0 uses
// DefaultAveragingHours.
func BuildSnapshot(table *SeriesTable, onset time.Time, hours int) Snapshot {
	if table.Len() == 0 {
		return Snapshot{}
	}
	if hours <= 0 {
		hours = DefaultAveragingHours
	}

	idx := HourIndex(onset)
	// Widening never reaches further than maxSearchWidth rows past the window.
	reachLow, reachHigh := idx-maxSearchWidth, idx+hours+maxSearchWidth

	type result struct {
		value    float64
		resolved bool
	}
	results := make([]result, len(Quantities))

	var g errgroup.Group
	for i, q := range Quantities {
		g.Go(func() error {
			values, first := table.ColumnRange(q.Column(), reachLow, reachHigh)
			v, ok := gapFilledMean(values, idx-first, idx+hours-first, q.Sentinel())
			results[i] = result{value: v, resolved: ok}
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	snap := Snapshot{values: make(map[Quantity]float64, len(Quantities))}
	for i, q := range Quantities {
		snap.values[q] = results[i].value
		if !results[i].resolved {
			snap.fallbacks = append(snap.fallbacks, q)
		}
	}
	return snap
}
