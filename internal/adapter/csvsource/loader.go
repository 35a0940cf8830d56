// Package csvsource loads the earthquake CSV snapshot into a domain.Dataset.
package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// RequiredColumns must all be present in the header row.
var RequiredColumns = []string{"time", "latitude", "longitude", "mag", "depth", "place"}

var optionalColumns = []string{"id", "magType", "type"}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, logger *slog.Logger) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Load(f, path, logger)
}

// Load reads a CSV with a header row, parses every data row, and returns the
// classified dataset. Rows with an unusable time or coordinate are skipped
// and counted as rejected; a missing header or required column is an error.
func Load(r io.Reader, source string, logger *slog.Logger) (*domain.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty file %s", source)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var events []domain.Event
	report := domain.LoadReport{Source: source}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s at line %d: %w", source, errorLine(err), err)
		}
		report.RowsRead++

		event, err := domain.ParseRecord(cols.raw(record))
		if err != nil {
			report.RowsRejected++
			line, _ := cr.FieldPos(0)
			logger.Warn("rejecting row", "source", source, "line", line, "error", err)
			continue
		}
		events = append(events, event)
	}

	ds := domain.NewDataset(events, report)
	logger.Info("dataset loaded",
		"source", source,
		"rows_read", report.RowsRead,
		"rows_rejected", report.RowsRejected,
		"events", ds.Len(),
	)
	return ds, nil
}

// errorLine returns the line a failed record starts on. Quoted fields may
// span lines, so row counts cannot be used.
func errorLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine
	}
	return 0
}

// columnIndex maps feed column names to their positions in the header.
type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columnIndex) field(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func (c columnIndex) raw(record []string) domain.RawRecord {
	return domain.RawRecord{
		Time:      c.field(record, "time"),
		Latitude:  c.field(record, "latitude"),
		Longitude: c.field(record, "longitude"),
		Mag:       c.field(record, "mag"),
		Depth:     c.field(record, "depth"),
		Place:     c.field(record, "place"),
		ID:        c.field(record, optionalColumns[0]),
		MagType:   c.field(record, optionalColumns[1]),
		Type:      c.field(record, optionalColumns[2]),
	}
}
