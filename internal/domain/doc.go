// Package domain models USGS earthquake catalog data for the dashboard.
//
// # Data Source
//
// The dashboard reads a single snapshot of the USGS "all earthquakes, past 30
// days" CSV feed (https://earthquake.usgs.gov/earthquakes/feed/). The file is
// loaded once at startup and never refreshed.
//
// # Feed Conventions
//
// Columns used by the dashboard:
//
//	time       ISO-8601 instant, e.g. "2025-05-28T23:41:08.410Z" (UTC)
//	latitude   decimal degrees, -90..90
//	longitude  decimal degrees, -180..180
//	mag        event magnitude; scale varies by magType (ml, md, mb, mww, ...)
//	depth      hypocenter depth in km; may be slightly negative for events
//	           above the geoid reference
//	place      free-text description, e.g. "10 km NE of Ridgecrest, CA"
//
// Optional columns carried when present: id, magType, type.
//
// Rows with an unparseable time, latitude, or longitude are rejected at load
// and counted in the [LoadReport]. Empty mag or depth values are kept as NaN
// and skipped by aggregation.
//
// # Regions
//
// Every event is tagged with a coarse [Region] derived from its coordinates
// by an ordered list of latitude/longitude boxes (see [Classify]). Boxes
// overlap; the first match wins and "Sea" is the fallback.
//
//	Europe         lat  35..70   lon  -25..60
//	North America  lat   7..72   lon -170..-50
//	South America  lat -60..15   lon  -90..-30
//	Africa         lat -35..37   lon  -20..55
//	Asia           lat   5..80   lon   60..180
//	Oceania        lat -50..10   lon  110..180
//
// # Time Windows
//
// A [Selection] picks a window of 0, 7, 14, or 30 days ending at a reference
// instant. The window is closed on both ends: [reference-days, reference].
// With days=0 the window is the single instant reference.
package domain
