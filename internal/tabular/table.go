// Package tabular reads and writes column-keyed tables stored as CSV or XLSX files.
package tabular

import (
	"fmt"
	"log/slog"
)

// Row maps column names to cell values
type Row map[string]string

// Table is an ordered set of rows sharing a column layout
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable returns an empty table with the given columns
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// HasColumn reports whether the table has the named column
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// EnsureColumns appends missing columns and backfills them with empty values
func (t *Table) EnsureColumns(columns []string) {
	for _, c := range columns {
		if t.HasColumn(c) {
			continue
		}
		t.Columns = append(t.Columns, c)
		for _, r := range t.Rows {
			r[c] = ""
		}
	}
}

// Append adds a row, keeping only known columns
func (t *Table) Append(r Row) {
	row := make(Row, len(t.Columns))
	for _, c := range t.Columns {
		row[c] = r[c]
	}
	t.Rows = append(t.Rows, row)
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	c := NewTable(t.Columns...)
	for _, r := range t.Rows {
		c.Append(r)
	}
	return c
}

// Records returns the header followed by each row in column order
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, append([]string(nil), t.Columns...))
	for _, r := range t.Rows {
		rec := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			rec[i] = r[c]
		}
		records = append(records, rec)
	}
	return records
}

// MalformedRowError describes a source row that was skipped while loading
type MalformedRowError struct {
	Source string
	Line   int
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("%s: row %d skipped: %s", e.Source, e.Line, e.Reason)
}

// fromRecords builds a table from a header and data records. Records whose
// width does not match the header are reported through the logger and skipped.
func fromRecords(source string, header []string, records [][]string, firstLine int, logger *slog.Logger) *Table {
	t := NewTable(header...)
	for i, rec := range records {
		if isBlank(rec) {
			continue
		}
		if len(rec) != len(header) {
			warnMalformed(logger, &MalformedRowError{
				Source: source,
				Line:   firstLine + i,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(header), len(rec)),
			})
			continue
		}
		row := make(Row, len(header))
		for j, c := range header {
			row[c] = rec[j]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}

func warnMalformed(logger *slog.Logger, err *MalformedRowError) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("malformed row skipped", "source", err.Source, "line", err.Line, "reason", err.Reason)
}
