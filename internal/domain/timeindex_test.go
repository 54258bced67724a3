package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHourIndex(t *testing.T) {
	tests := []struct {
		ts   string
		want int
	}{
		{"2015-01-01T00:00:00", 0},
		{"2015-01-01T23:59:59", 23},
		{"2015-01-02T00:00:00", 24},
		{"2015-12-28T12:12:00", 8676},
		{"2015-12-31T23:00:00", 8759},
		{"2016-12-31T23:00:00", 8783}, // leap year
	}
	for _, tc := range tests {
		t.Run(tc.ts, func(t *testing.T) {
			ts, err := ParseTimestamp(tc.ts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, HourIndex(ts))
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2015, time.December, 28, 12, 12, 0, 0, time.UTC)

	for _, s := range []string{
		"2015-12-28T12:12:00",
		"2015-12-28T12:12:00Z",
		"2015-12-28 12:12:00",
		"2015-12-28T12:12",
		"2015/12/28 12:12:00",
		"2015/12/28 12:12",
		"  2015-12-28T12:12:00 ",
	} {
		t.Run(s, func(t *testing.T) {
			got, err := ParseTimestamp(s)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}

	t.Run("offset converted to UTC", func(t *testing.T) {
		got, err := ParseTimestamp("2015-12-28T14:12:00+02:00")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseTimestamp("28 Dec 2015")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "28 Dec 2015")
	})
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2015, time.December, 31, 7, 0, 0, 0, time.UTC)
	assert.Equal(t, "2015-12-31T07:00:00", FormatTimestamp(ts))
}
