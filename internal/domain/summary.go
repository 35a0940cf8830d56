package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// NotAvailable is shown in place of a value that cannot be computed from an
// empty subset.
const NotAvailable = "N/A"

// Summary holds the aggregate scalars shown above the charts.
type Summary struct {
	Total             int
	MaxMagnitude      float64 // NaN when no event has a magnitude
	MostFrequentPlace string  // NotAvailable when no event has a place
}

// Summarize computes the summary of events. Missing magnitudes and empty
// places are skipped. The most frequent place breaks ties in favour of the
// place that occurs first in events.
func Summarize(events []Event) Summary {
	maxMag := math.NaN()
	counts := make(map[string]int)
	var order []string

	for _, e := range events {
		if !math.IsNaN(e.Magnitude) && (math.IsNaN(maxMag) || e.Magnitude > maxMag) {
			maxMag = e.Magnitude
		}
		if e.Place == "" {
			continue
		}
		if _, seen := counts[e.Place]; !seen {
			order = append(order, e.Place)
		}
		counts[e.Place]++
	}

	mode, best := NotAvailable, 0
	for _, place := range order {
		if counts[place] > best {
			mode, best = place, counts[place]
		}
	}

	return Summary{
		Total:             len(events),
		MaxMagnitude:      maxMag,
		MostFrequentPlace: mode,
	}
}

// HasMaxMagnitude reports whether MaxMagnitude holds a value.
func (s Summary) HasMaxMagnitude() bool { return !math.IsNaN(s.MaxMagnitude) }

// MaxMagnitudeText formats MaxMagnitude with two decimals, or NotAvailable.
func (s Summary) MaxMagnitudeText() string {
	if !s.HasMaxMagnitude() {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", s.MaxMagnitude)
}

// Lines returns the summary text block, one line per scalar.
func (s Summary) Lines() []string {
	return []string{
		fmt.Sprintf("Total Earthquakes: %d", s.Total),
		"Max Magnitude: " + s.MaxMagnitudeText(),
		"Most Frequent Location: " + s.MostFrequentPlace,
	}
}

// MarshalJSON encodes MaxMagnitude as a number, or as "N/A" when missing.
func (s Summary) MarshalJSON() ([]byte, error) {
	var maxMag any = NotAvailable
	if s.HasMaxMagnitude() {
		maxMag = s.MaxMagnitude
	}
	return json.Marshal(struct {
		Total             int      `json:"total"`
		MaxMagnitude      any      `json:"max_magnitude"`
		MostFrequentPlace string   `json:"most_frequent_place"`
		Lines             []string `json:"lines"`
	}{
		Total:             s.Total,
		MaxMagnitude:      maxMag,
		MostFrequentPlace: s.MostFrequentPlace,
		Lines:             s.Lines(),
	})
}
