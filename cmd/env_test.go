package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVisitDate(t *testing.T) {
	t.Run("explicit date", func(t *testing.T) {
		d, err := resolveVisitDate("2025-03-06")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		d, err := resolveVisitDate("")
		require.NoError(t, err)
		assert.Equal(t, 0, d.Hour())
		assert.WithinDuration(t, time.Now(), d, 25*time.Hour)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := resolveVisitDate("03/06/2025")
		assert.Error(t, err)
	})
}

func TestTimesheetDate(t *testing.T) {
	fallback := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		scanned string
		want    time.Time
	}{
		{"us format", "03/06/2025", fallback},
		{"short us format", "3/6/2025", fallback},
		{"iso format", "2025-03-06", fallback},
		{"weekday falls back", "Monday", fallback},
		{"garbage falls back", "not a date", fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.scanned
			assert.Equal(t, tt.want, timesheetDate(&s, fallback))
		})
	}

	t.Run("nil falls back", func(t *testing.T) {
		assert.Equal(t, fallback, timesheetDate(nil, fallback))
	})
}

func TestDateFromFilename(t *testing.T) {
	d, ok := dateFromFilename("/uploads/route_2025-03-06.pdf")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC), d)

	_, ok = dateFromFilename("/uploads/route.pdf")
	assert.False(t, ok)
}
