package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidTime       = errors.New("invalid time")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// timeLayouts are tried in order. Layouts without a zone parse as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseRecord converts a raw CSV row into an Event. Rows without a usable
// time, latitude, or longitude are rejected; missing magnitude or depth
// become NaN. The Region is assigned later by NewDataset.
func ParseRecord(rec RawRecord) (Event, error) {
	t, err := ParseEventTime(rec.Time)
	if err != nil {
		return Event{}, err
	}

	lat, err := parseCoordinate("latitude", rec.Latitude, 90)
	if err != nil {
		return Event{}, err
	}
	lon, err := parseCoordinate("longitude", rec.Longitude, 180)
	if err != nil {
		return Event{}, err
	}

	return Event{
		ID:        strings.TrimSpace(rec.ID),
		Time:      t,
		Latitude:  lat,
		Longitude: lon,
		Magnitude: parseFloatOrNaN(rec.Mag),
		Depth:     parseFloatOrNaN(rec.Depth),
		MagType:   strings.TrimSpace(rec.MagType),
		Type:      strings.TrimSpace(rec.Type),
		Place:     strings.TrimSpace(rec.Place),
	}, nil
}

// ParseEventTime parses a feed timestamp and normalizes it to UTC.
func ParseEventTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTime)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// parseCoordinate parses a finite value within [-limit, limit].
func parseCoordinate(name, s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidCoordinate, name, s)
	}
	if v < -limit || v > limit {
		return 0, fmt.Errorf("%w: %s %g out of range", ErrInvalidCoordinate, name, v)
	}
	return v, nil
}

// parseFloatOrNaN parses a string as float64, returning NaN on failure.
func parseFloatOrNaN(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
