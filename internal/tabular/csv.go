package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ReadCSV loads a UTF-8 CSV file. A missing file is created with the expected
// columns as its header. Malformed rows are skipped with a warning and missing
// expected columns are backfilled with empty values.
func ReadCSV(path string, expected []string, logger *slog.Logger) (*Table, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		t := NewTable(expected...)
		if err := WriteCSV(t, path); err != nil {
			return nil, err
		}
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Width is checked against the header below
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return NewTable(expected...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header of %s: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			warnMalformed(logger, &MalformedRowError{Source: path, Line: parseErr.Line, Reason: parseErr.Err.Error()})
			records = append(records, nil)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV %s: %w", path, err)
		}
		records = append(records, rec)
	}

	t := fromRecords(path, header, records, 2, logger)
	t.EnsureColumns(expected)
	return t, nil
}

// WriteCSV overwrites path with the table. The file is written to a temporary
// sibling first and renamed into place, so readers never see a partial table.
func WriteCSV(t *Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(t.Records()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write CSV %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
