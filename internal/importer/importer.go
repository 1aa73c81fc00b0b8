// Package importer loads spreadsheet and CSV word lists into reference tables
// and exports the diary to a spreadsheet.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabdiary/internal/storage"
	"github.com/example/vocabdiary/internal/tabular"
	"github.com/example/vocabdiary/pkg/models"
)

// ErrReservedName is returned when an import would overwrite the diary or one
// of the internal tables
var ErrReservedName = errors.New("table name is reserved")

// Config defines the import configuration
type Config struct {
	FilePath        string // Path to the Excel or CSV file
	Name            string // Target table; derived from the file name when empty
	SheetName       string // Sheet to import; the first sheet when empty
	WordClassColumn string // Column with the word class
	EnglishColumn   string // Column with the English word
	GermanColumn    string // Column with the German translation
	PastColumn      string // Column with the past tense, optional
	PerfectColumn   string // Column with the perfect tense, optional
	DefaultClass    models.WordClass
	StartRow        int // The row to start importing from (1-based index)
}

// DefaultConfig returns the column layout of the tables written by this program
func DefaultConfig(path string) Config {
	return Config{
		FilePath:        path,
		WordClassColumn: "A",
		EnglishColumn:   "B",
		GermanColumn:    "C",
		PastColumn:      "D",
		PerfectColumn:   "E",
		DefaultClass:    models.Noun,
		StartRow:        2, // By default, start from the second row (skip header)
	}
}

// Result holds the result of an import operation
type Result struct {
	Table          string
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// Importer writes imported word lists through a store
type Importer struct {
	store  storage.Store
	logger *slog.Logger
}

// New creates an importer
func New(store storage.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, logger: logger}
}

// TableName derives a table name from a file path: the base name without
// extension, lower-cased, with spaces replaced by underscores
func TableName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(base)), " ", "_")
}

// Import reads the configured file and stores its words as a table. Rows that
// cannot be used are reported in Result.Errors; duplicate English words keep
// their first occurrence.
func (im *Importer) Import(ctx context.Context, cfg Config) (*Result, error) {
	name := cfg.Name
	if name == "" {
		name = TableName(cfg.FilePath)
	}
	if name == "" || name == storage.TableDiary || storage.IsInternal(name) {
		return nil, fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	if cfg.StartRow < 1 {
		cfg.StartRow = 1
	}
	if cfg.DefaultClass == "" {
		cfg.DefaultClass = models.Noun
	}

	rows, err := readRows(cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{Table: name, Errors: make([]string, 0)}
	seen := make(map[string]bool)
	var entries []models.VocabEntry

	for i, row := range rows {
		rowNum := i + 1
		// Skip header rows
		if rowNum < cfg.StartRow || isSectionHeader(row) {
			continue
		}
		result.TotalProcessed++

		entry, err := processRow(row, cfg)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if seen[entry.Key()] {
			result.Skipped++
			continue
		}
		seen[entry.Key()] = true
		entries = append(entries, entry)
	}

	if err := im.store.WriteTable(ctx, name, tabular.EncodeEntries(entries)); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", name, err)
	}
	result.Imported = len(entries)
	im.logger.Info("word list imported", "file", cfg.FilePath, "table", name,
		"imported", result.Imported, "skipped", result.Skipped, "errors", len(result.Errors))
	return result, nil
}

// Export writes the diary to path. A .csv extension writes CSV, anything else
// an Excel workbook. It returns the number of exported words.
func (im *Importer) Export(ctx context.Context, path, sheet string) (int, error) {
	t, err := im.store.ReadTable(ctx, storage.TableDiary, tabular.VocabColumns)
	if err != nil {
		return 0, fmt.Errorf("failed to load diary: %w", err)
	}
	entries := tabular.DecodeEntries(t, storage.TableDiary, im.logger)
	out := tabular.EncodeEntries(entries)

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		err = tabular.WriteCSV(out, path)
	} else {
		err = tabular.WriteXLSX(out, path, sheet)
	}
	if err != nil {
		return 0, err
	}
	im.logger.Info("diary exported", "file", path, "words", len(entries))
	return len(entries), nil
}

func readRows(cfg Config) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(cfg.FilePath), ".csv") {
		return readCSVRows(cfg.FilePath)
	}
	return readExcelRows(cfg.FilePath, cfg.SheetName)
}

// readExcelRows returns the raw rows of a sheet
func readExcelRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// isSectionHeader reports blank rows and rows such as "Movement,," that name
// a group of words rather than a word
func isSectionHeader(row []string) bool {
	if len(row) == 0 {
		return true
	}
	for _, c := range row[1:] {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func processRow(row []string, cfg Config) (models.VocabEntry, error) {
	english := cleanWord(cell(row, cfg.EnglishColumn))
	german := strings.TrimSpace(cell(row, cfg.GermanColumn))
	if english == "" {
		return models.VocabEntry{}, errors.New("english word cannot be empty")
	}
	if german == "" {
		return models.VocabEntry{}, errors.New("translation cannot be empty")
	}

	class := cfg.DefaultClass
	if raw := cell(row, cfg.WordClassColumn); strings.TrimSpace(raw) != "" {
		parsed, err := models.ParseWordClass(raw)
		if err != nil {
			return models.VocabEntry{}, err
		}
		class = parsed
	}

	entry := models.VocabEntry{
		WordClass: class,
		English:   models.Key(english),
		German:    models.Normalize(german),
	}
	if class == models.Verb {
		entry.Tenses = models.NewTenses(cell(row, cfg.PastColumn), cell(row, cfg.PerfectColumn))
	}
	return entry, nil
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

// cleanWord drops extra information in parentheses, e.g. "go (went, gone)"
func cleanWord(word string) string {
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}

// columnToIndex converts an Excel column letter to a 0-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
