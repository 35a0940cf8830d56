// Command validate loads an earthquake CSV with the dashboard's loader and
// reports what the dashboard would see: row counts, rejected rows, events
// per region, the covered time span, and the default-selection summary.
//
// Usage:
//
//	go run ./cmd/validate -data earthquakes_last30d.csv -reference 2025-05-29T00:00:00Z
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/quake-dashboard/internal/adapter/csvsource"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

func main() {
	data := flag.String("data", "earthquakes_last30d.csv", "path to the earthquake CSV")
	reference := flag.String("reference", "2025-05-29T00:00:00Z", "RFC 3339 instant closing the time windows")
	verbose := flag.Bool("v", false, "log rejected rows")
	flag.Parse()

	if code := run(os.Stdout, *data, *reference, *verbose); code != 0 {
		os.Exit(code)
	}
}

func run(out io.Writer, path, reference string, verbose bool) int {
	ref, err := time.Parse(time.RFC3339, reference)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: invalid -reference: %v\n", err)
		return 1
	}
	ref = ref.UTC()

	level := "error"
	if verbose {
		level = "warn"
	}
	logger := sharedobs.NewLogger(level, "text")

	ds, err := csvsource.LoadFile(path, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	report(out, ds, ref)
	return 0
}

func report(out io.Writer, ds *domain.Dataset, ref time.Time) {
	rep := ds.Report()
	fmt.Fprintln(out, "=== Earthquake Dataset Check ===")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Source:        %s\n", rep.Source)
	fmt.Fprintf(out, "Rows read:     %d\n", rep.RowsRead)
	fmt.Fprintf(out, "Rows rejected: %d\n", rep.RowsRejected)
	fmt.Fprintf(out, "Events:        %d\n", ds.Len())

	if first, last := ds.TimeSpan(); !first.IsZero() {
		fmt.Fprintf(out, "Time span:     %s .. %s\n", first.Format(time.RFC3339), last.Format(time.RFC3339))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Events per region:")
	counts := ds.RegionCounts()
	for _, r := range domain.Regions() {
		fmt.Fprintf(out, "  %-14s %d\n", r, counts[r])
	}

	sel := domain.DefaultSelection()
	from, to := sel.Window(ref)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Default selection (%d days, %s, %s .. %s):\n",
		sel.Days, sel.Region, from.Format(time.RFC3339), to.Format(time.RFC3339))
	for _, line := range domain.Summarize(ds.Filter(sel, ref)).Lines() {
		fmt.Fprintf(out, "  %s\n", line)
	}
}
