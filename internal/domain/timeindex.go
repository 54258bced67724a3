package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the second-precision format used for onset and arrival times.
const TimestampLayout = "2006-01-02T15:04:05"

var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
}

// HourIndex returns the 0-based row of t in an hourly table that starts at
// January 1, 00:00 of t's own year. Out-of-range results are left to the caller.
func HourIndex(t time.Time) int {
	return (t.YearDay()-1)*24 + t.Hour()
}

// ParseTimestamp parses an onset or arrival time. Zone-less layouts are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: unrecognized layout", s)
}

// FormatTimestamp renders t with TimestampLayout in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
