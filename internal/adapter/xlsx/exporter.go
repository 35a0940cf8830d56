// Package xlsx writes filtered earthquake subsets as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// Sheet names.
const (
	EventsSheet  = "Events"
	SummarySheet = "Summary"
)

// EventHeader is the first row of the Events sheet.
var EventHeader = []any{"time", "latitude", "longitude", "mag", "depth", "place", "region", "id", "magType", "type"}

// Exporter renders a subset and its summary into a two-sheet workbook.
type Exporter struct{}

// NewExporter returns an Exporter.
func NewExporter() *Exporter { return &Exporter{} }

func (*Exporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (*Exporter) Extension() string { return ".xlsx" }

// Export writes the workbook to w. Missing magnitudes and depths are left as
// empty cells.
func (*Exporter) Export(w io.Writer, sel domain.Selection, reference time.Time, events []domain.Event, summary domain.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", EventsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeEvents(f, events); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, sel, reference, summary); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeEvents(f *excelize.File, events []domain.Event) error {
	if err := f.SetSheetRow(EventsSheet, "A1", &EventHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, e := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			e.Time.Format(time.RFC3339),
			e.Latitude,
			e.Longitude,
			optional(e.Magnitude),
			optional(e.Depth),
			e.Place,
			string(e.Region),
			e.ID,
			e.MagType,
			e.Type,
		}
		if err := f.SetSheetRow(EventsSheet, cell, &row); err != nil {
			return fmt.Errorf("write event row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, sel domain.Selection, reference time.Time, summary domain.Summary) error {
	from, to := sel.Window(reference)
	rows := [][]any{
		{"Region", sel.Region},
		{"Days", sel.Days},
		{"Window Start", from.Format(time.RFC3339)},
		{"Window End", to.Format(time.RFC3339)},
		{"Total Earthquakes", summary.Total},
		{"Max Magnitude", summary.MaxMagnitudeText()},
		{"Most Frequent Location", summary.MostFrequentPlace},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return nil
}

// optional returns nil for NaN so the cell stays empty.
func optional(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
