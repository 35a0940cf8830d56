package domain

import "github.com/golang/geo/r1"

// Region is a coarse continent-or-sea label derived from coordinates.
type Region string

const (
	Europe       Region = "Europe"
	NorthAmerica Region = "North America"
	SouthAmerica Region = "South America"
	Africa       Region = "Africa"
	Asia         Region = "Asia"
	Oceania      Region = "Oceania"
	Sea          Region = "Sea"
)

// AllRegions is the region filter value that disables region filtering.
const AllRegions = "All"

// regionOrder is the order regions are offered to users.
var regionOrder = []Region{Africa, Europe, NorthAmerica, SouthAmerica, Asia, Oceania, Sea}

// Regions returns every Region value in display order.
func Regions() []Region {
	out := make([]Region, len(regionOrder))
	copy(out, regionOrder)
	return out
}

// IsValid reports whether r is one of the known regions.
func (r Region) IsValid() bool {
	for _, known := range regionOrder {
		if r == known {
			return true
		}
	}
	return false
}

type regionBox struct {
	region Region
	lat    r1.Interval // degrees
	lon    r1.Interval // degrees
}

// regionBoxes are evaluated in order; earlier boxes win where they overlap
// (Europe takes the Mediterranean strip that Africa also covers).
var regionBoxes = []regionBox{
	newRegionBox(Europe, 35, 70, -25, 60),
	newRegionBox(NorthAmerica, 7, 72, -170, -50),
	newRegionBox(SouthAmerica, -60, 15, -90, -30),
	newRegionBox(Africa, -35, 37, -20, 55),
	newRegionBox(Asia, 5, 80, 60, 180),
	newRegionBox(Oceania, -50, 10, 110, 180),
}

// newRegionBox builds a closed lat/lon box. Longitudes are plain degree
// ranges: -180 is not folded onto 180, so no box reaches across the
// antimeridian.
func newRegionBox(region Region, latLo, latHi, lonLo, lonHi float64) regionBox {
	return regionBox{
		region: region,
		lat:    r1.Interval{Lo: latLo, Hi: latHi},
		lon:    r1.Interval{Lo: lonLo, Hi: lonHi},
	}
}

func (b regionBox) contains(lat, lon float64) bool {
	return b.lat.Contains(lat) && b.lon.Contains(lon)
}

// Classify maps a coordinate to the first region box containing it, or Sea.
// Non-finite or out-of-range coordinates are Sea.
func Classify(lat, lon float64) Region {
	for _, box := range regionBoxes {
		if box.contains(lat, lon) {
			return box.region
		}
	}
	return Sea
}
