package domain

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"
)

const (
	// FallbackValue is returned when no valid reading exists near the requested range.
	FallbackValue = 1e-5

	// maxSearchWidth bounds the expanding-window search, in rows.
	maxSearchWidth = 24

	meanPrecision = 5
)

// GapFilledMean averages values over the closed range [low, high], skipping
// fill values and non-numeric tokens. An empty range is widened by one row on
// each side until a reading is found; once the width exceeds 24 rows the
// search stops and FallbackValue is returned. Reversed bounds are swapped.
func GapFilledMean(values []string, low, high int, sentinel float64) float64 {
	mean, _ := gapFilledMean(values, low, high, sentinel)
	return mean
}

// gapFilledMean reports whether the result came from real readings.
func gapFilledMean(values []string, low, high int, sentinel float64) (float64, bool) {
	if low > high {
		low, high = high, low
	}

	var valid []float64
	for {
		valid = collectReadings(valid[:0], values, low, high, sentinel)
		if len(valid) > 0 {
			mean := stat.Mean(valid, nil)
			if math.IsNaN(mean) || math.IsInf(mean, 0) {
				// Readings near the float64 limit overflow the sum.
				return FallbackValue, false
			}
			return scalar.Round(mean, meanPrecision), true
		}

		low--
		high++
		if high-low > maxSearchWidth {
			return FallbackValue, false
		}
	}
}

// collectReadings appends the valid readings of values[low..high] to dst.
// Indices outside values are ignored.
func collectReadings(dst []float64, values []string, low, high int, sentinel float64) []float64 {
	low = max(low, 0)
	high = min(high, len(values)-1)
	for i := low; i <= high; i++ {
		if v, ok := parseReading(values[i], sentinel); ok {
			dst = append(dst, v)
		}
	}
	return dst
}

// parseReading converts a raw token once and applies both the numeric and the
// sentinel test to that same value.
func parseReading(token string, sentinel float64) (float64, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if math.Trunc(v) == sentinel {
		return 0, false
	}
	return v, true
}
