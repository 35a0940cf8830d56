package domain

import (
	"encoding/json"
	"math"
	"time"

	"github.com/golang/geo/s2"
)

// DefaultHistogramBins matches the bin count of the magnitude histogram.
const DefaultHistogramBins = 20

// Float is a float64 that encodes NaN and infinities as JSON null.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// LineChart is a time series specification.
type LineChart struct {
	Title  string      `json:"title"`
	XField string      `json:"x_field"`
	YField string      `json:"y_field"`
	X      []time.Time `json:"x"`
	Y      []Float     `json:"y"`
}

// Bounds is the lat/lon rectangle enclosing a set of points, in degrees.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// GeoScatter is a map scatter specification with marker size bound to
// magnitude.
type GeoScatter struct {
	Title      string    `json:"title"`
	Projection string    `json:"projection"`
	Lat        []float64 `json:"lat"`
	Lon        []float64 `json:"lon"`
	Size       []Float   `json:"size"`
	Hover      []string  `json:"hover"`
	Bounds     *Bounds   `json:"bounds,omitempty"`
}

// HistogramBin counts values in [Lo, Hi). The last bin also includes Hi.
type HistogramBin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram is a binned distribution specification.
type Histogram struct {
	Title  string         `json:"title"`
	Field  string         `json:"field"`
	Bins   []HistogramBin `json:"bins"`
	Values []Float        `json:"values"`
}

// Columns is the filtered subset as columnar arrays keyed by attribute name.
type Columns struct {
	Time      []time.Time `json:"time"`
	Latitude  []float64   `json:"latitude"`
	Longitude []float64   `json:"longitude"`
	Mag       []Float     `json:"mag"`
	Depth     []Float     `json:"depth"`
	Place     []string    `json:"place"`
	Region    []Region    `json:"region"`
}

// View is everything the page needs to redraw after a control change.
type View struct {
	Selection             Selection  `json:"selection"`
	Reference             time.Time  `json:"reference"`
	MagnitudeOverTime     LineChart  `json:"magnitude_over_time"`
	DepthOverTime         LineChart  `json:"depth_over_time"`
	Locations             GeoScatter `json:"locations"`
	MagnitudeDistribution Histogram  `json:"magnitude_distribution"`
	Summary               Summary    `json:"summary"`
	Columns               Columns    `json:"columns"`
}

// Render filters the dataset with sel and builds every chart and the summary
// from the resulting subset. bins <= 0 selects DefaultHistogramBins.
func Render(ds *Dataset, sel Selection, reference time.Time, bins int) View {
	return RenderEvents(ds.Filter(sel, reference), sel, reference, bins)
}

// RenderEvents builds the view for an already-filtered subset.
func RenderEvents(subset []Event, sel Selection, reference time.Time, bins int) View {
	cols := BuildColumns(subset)
	return View{
		Selection: sel,
		Reference: reference,
		MagnitudeOverTime: LineChart{
			Title:  "Magnitude Over Time",
			XField: "time",
			YField: "mag",
			X:      cols.Time,
			Y:      cols.Mag,
		},
		DepthOverTime: LineChart{
			Title:  "Depth Over Time",
			XField: "time",
			YField: "depth",
			X:      cols.Time,
			Y:      cols.Depth,
		},
		Locations:             buildGeoScatter(subset, cols),
		MagnitudeDistribution: BuildHistogram(subset, bins),
		Summary:               Summarize(subset),
		Columns:               cols,
	}
}

// BuildColumns splits events into per-attribute arrays. Every array is
// non-nil, even for an empty subset.
func BuildColumns(events []Event) Columns {
	n := len(events)
	cols := Columns{
		Time:      make([]time.Time, n),
		Latitude:  make([]float64, n),
		Longitude: make([]float64, n),
		Mag:       make([]Float, n),
		Depth:     make([]Float, n),
		Place:     make([]string, n),
		Region:    make([]Region, n),
	}
	for i, e := range events {
		cols.Time[i] = e.Time
		cols.Latitude[i] = e.Latitude
		cols.Longitude[i] = e.Longitude
		cols.Mag[i] = Float(e.Magnitude)
		cols.Depth[i] = Float(e.Depth)
		cols.Place[i] = e.Place
		cols.Region[i] = e.Region
	}
	return cols
}

func buildGeoScatter(events []Event, cols Columns) GeoScatter {
	return GeoScatter{
		Title:      "Earthquake Locations",
		Projection: "natural earth",
		Lat:        cols.Latitude,
		Lon:        cols.Longitude,
		Size:       cols.Mag,
		Hover:      cols.Place,
		Bounds:     BoundsOf(events),
	}
}

// BoundsOf returns the smallest rectangle enclosing every event, or nil when
// events is empty. Longitude spans wrap across the antimeridian when that
// gives the tighter fit, in which case West > East.
func BoundsOf(events []Event) *Bounds {
	rect := s2.EmptyRect()
	for _, e := range events {
		rect = rect.AddPoint(s2.LatLngFromDegrees(e.Latitude, e.Longitude))
	}
	if rect.IsEmpty() {
		return nil
	}
	lo, hi := rect.Lo(), rect.Hi()
	return &Bounds{
		South: lo.Lat.Degrees(),
		West:  lo.Lng.Degrees(),
		North: hi.Lat.Degrees(),
		East:  hi.Lng.Degrees(),
	}
}

// BuildHistogram bins the non-missing magnitudes into equal-width bins
// spanning [min, max]. When every value is equal a single bin is returned.
func BuildHistogram(events []Event, bins int) Histogram {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	h := Histogram{
		Title:  "Magnitude Distribution",
		Field:  "mag",
		Bins:   []HistogramBin{},
		Values: make([]Float, 0, len(events)),
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, e := range events {
		if math.IsNaN(e.Magnitude) {
			continue
		}
		h.Values = append(h.Values, Float(e.Magnitude))
		lo = math.Min(lo, e.Magnitude)
		hi = math.Max(hi, e.Magnitude)
	}
	if len(h.Values) == 0 {
		return h
	}

	if lo == hi {
		h.Bins = append(h.Bins, HistogramBin{Lo: lo, Hi: hi, Count: len(h.Values)})
		return h
	}

	width := (hi - lo) / float64(bins)
	h.Bins = make([]HistogramBin, bins)
	for i := range h.Bins {
		h.Bins[i].Lo = lo + float64(i)*width
		h.Bins[i].Hi = lo + float64(i+1)*width
	}
	h.Bins[bins-1].Hi = hi

	for _, v := range h.Values {
		idx := int((float64(v) - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		h.Bins[idx].Count++
	}
	return h
}
