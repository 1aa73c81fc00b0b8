package tabular

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet written by WriteXLSX when none is given
const DefaultSheet = "Sheet1"

// ReadXLSX loads a sheet of an Excel workbook. The first row is the header.
// An empty sheet name selects the first sheet of the workbook.
func ReadXLSX(path, sheet string, expected []string, logger *slog.Logger) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return NewTable(expected...), nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return NewTable(expected...), nil
	}

	header := make([]string, len(rows[0]))
	for i, c := range rows[0] {
		header[i] = strings.TrimSpace(c)
	}

	// Trailing empty cells are not returned by excelize, so short rows are padded
	records := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		if len(r) < len(header) {
			padded := make([]string, len(header))
			copy(padded, r)
			r = padded
		}
		records = append(records, r)
	}

	t := fromRecords(path+"#"+sheet, header, records, 2, logger)
	t.EnsureColumns(expected)
	return t, nil
}

// WriteXLSX saves the table as a single-sheet workbook
func WriteXLSX(t *Table, path, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = DefaultSheet
	}
	if sheet != DefaultSheet {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		f.SetActiveSheet(idx)
	}

	for i, rec := range t.Records() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(rec))
		for j, v := range rec {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}
