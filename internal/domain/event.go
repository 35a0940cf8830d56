package domain

import (
	"slices"
	"time"
)

// RawRecord holds one CSV row as strings, keyed by the feed's column names.
type RawRecord struct {
	Time      string
	Latitude  string
	Longitude string
	Mag       string
	Depth     string
	Place     string
	ID        string
	MagType   string
	Type      string
}

// Event is one seismic reading after parsing and classification.
type Event struct {
	ID        string
	Time      time.Time
	Latitude  float64
	Longitude float64
	Magnitude float64 // NaN when the feed has no value
	Depth     float64 // km, NaN when the feed has no value
	MagType   string
	Type      string
	Place     string
	Region    Region
}

// LoadReport describes how a Dataset was built.
type LoadReport struct {
	Source       string
	RowsRead     int
	RowsRejected int
}

// Dataset is the immutable, classified event table shared by all requests.
type Dataset struct {
	events []Event
	report LoadReport
}

// NewDataset copies events, assigns each one its Region, and freezes the result.
func NewDataset(events []Event, report LoadReport) *Dataset {
	classified := make([]Event, len(events))
	for i, e := range events {
		e.Region = Classify(e.Latitude, e.Longitude)
		classified[i] = e
	}
	return &Dataset{events: classified, report: report}
}

// Len returns the number of events.
func (d *Dataset) Len() int { return len(d.events) }

// Events returns a copy of the event table in load order.
func (d *Dataset) Events() []Event { return slices.Clone(d.events) }

func (d *Dataset) Report() LoadReport { return d.report }

// Filter applies sel to the whole dataset. See [Filter].
func (d *Dataset) Filter(sel Selection, reference time.Time) []Event {
	return Filter(d.events, sel, reference)
}

// RegionCounts returns the number of events per region. Regions without
// events are present with a zero count.
func (d *Dataset) RegionCounts() map[Region]int {
	counts := make(map[Region]int, len(regionOrder))
	for _, r := range regionOrder {
		counts[r] = 0
	}
	for _, e := range d.events {
		counts[e.Region]++
	}
	return counts
}

// TimeSpan returns the earliest and latest event times. Both are zero for an
// empty dataset.
func (d *Dataset) TimeSpan() (first, last time.Time) {
	for i, e := range d.events {
		if i == 0 || e.Time.Before(first) {
			first = e.Time
		}
		if i == 0 || e.Time.After(last) {
			last = e.Time
		}
	}
	return first, last
}
