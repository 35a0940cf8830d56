package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlace = "10 km NE of Ridgecrest, CA"

func TestParseRecord(t *testing.T) {
	t.Run("full usgs row", func(t *testing.T) {
		rec := RawRecord{
			Time:      "2025-05-28T23:41:08.410Z",
			Latitude:  "35.7011667",
			Longitude: "-117.5075",
			Mag:       "1.43",
			Depth:     "7.93",
			Place:     " " + testPlace + " ",
			ID:        "ci40937080",
			MagType:   "ml",
			Type:      "earthquake",
		}

		e, err := ParseRecord(rec)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.May, 28, 23, 41, 8, 410_000_000, time.UTC), e.Time)
		assert.Equal(t, 35.7011667, e.Latitude)
		assert.Equal(t, -117.5075, e.Longitude)
		assert.Equal(t, 1.43, e.Magnitude)
		assert.Equal(t, 7.93, e.Depth)
		assert.Equal(t, testPlace, e.Place)
		assert.Equal(t, "ci40937080", e.ID)
		assert.Equal(t, "ml", e.MagType)
		assert.Equal(t, "earthquake", e.Type)
		assert.Empty(t, e.Region, "region is assigned by NewDataset")
	})

	t.Run("missing magnitude and depth become NaN", func(t *testing.T) {
		e, err := ParseRecord(RawRecord{Time: "2025-05-28T00:00:00Z", Latitude: "1", Longitude: "2"})
		require.NoError(t, err)
		assert.True(t, math.IsNaN(e.Magnitude))
		assert.True(t, math.IsNaN(e.Depth))
	})

	t.Run("bad time rejected", func(t *testing.T) {
		_, err := ParseRecord(RawRecord{Time: "yesterday", Latitude: "1", Longitude: "2"})
		assert.ErrorIs(t, err, ErrInvalidTime)
	})

	t.Run("missing latitude rejected", func(t *testing.T) {
		_, err := ParseRecord(RawRecord{Time: "2025-05-28T00:00:00Z", Longitude: "2"})
		require.ErrorIs(t, err, ErrInvalidCoordinate)
		assert.Contains(t, err.Error(), "latitude")
	})

	t.Run("out of range longitude rejected", func(t *testing.T) {
		_, err := ParseRecord(RawRecord{Time: "2025-05-28T00:00:00Z", Latitude: "1", Longitude: "200"})
		require.ErrorIs(t, err, ErrInvalidCoordinate)
		assert.Contains(t, err.Error(), "longitude")
	})

	t.Run("NaN latitude rejected", func(t *testing.T) {
		_, err := ParseRecord(RawRecord{Time: "2025-05-28T00:00:00Z", Latitude: "NaN", Longitude: "2"})
		assert.ErrorIs(t, err, ErrInvalidCoordinate)
	})
}

func TestParseEventTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"rfc3339 millis", "2025-05-28T23:41:08.410Z", time.Date(2025, 5, 28, 23, 41, 8, 410_000_000, time.UTC)},
		{"rfc3339 offset", "2025-05-28T20:00:00-03:00", time.Date(2025, 5, 28, 23, 0, 0, 0, time.UTC)},
		{"no zone", "2025-05-28T23:41:08", time.Date(2025, 5, 28, 23, 41, 8, 0, time.UTC)},
		{"space separated", "2025-05-28 23:41:08", time.Date(2025, 5, 28, 23, 41, 8, 0, time.UTC)},
		{"space separated with zone", "2025-05-28 23:41:08+00:00", time.Date(2025, 5, 28, 23, 41, 8, 0, time.UTC)},
		{"date only", "2025-05-28", time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEventTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "want %s got %s", tt.expected, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	for _, bad := range []string{"", "   ", "28/05/2025", "2025-13-01"} {
		_, err := ParseEventTime(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, "input %q", bad)
	}
}

func TestParseFloatOrNaN(t *testing.T) {
	assert.Equal(t, 4.5, parseFloatOrNaN(" 4.5 "))
	assert.Equal(t, -0.2, parseFloatOrNaN("-0.2"))
	assert.True(t, math.IsNaN(parseFloatOrNaN("")))
	assert.True(t, math.IsNaN(parseFloatOrNaN("UNK")))
}
