package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/vocabdiary/internal/tabular"
)

const (
	csvExt  = ".csv"
	xlsxExt = ".xlsx"
)

// FileStore keeps one UTF-8 CSV file per table in a data folder. Excel
// workbooks found in the folder are exposed as read-only sources under their
// file name, e.g. "verbs.xlsx".
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates the data folder if needed
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Dir returns the data folder
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.HasSuffix(name, xlsxExt) {
		return filepath.Join(s.dir, name), nil
	}
	return filepath.Join(s.dir, name+csvExt), nil
}

// ReadTable loads a table, creating an empty CSV file for a missing table
func (s *FileStore) ReadTable(ctx context.Context, name string, columns []string) (*tabular.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(name, xlsxExt) {
		return tabular.ReadXLSX(path, "", columns, s.logger)
	}
	return tabular.ReadCSV(path, columns, s.logger)
}

// WriteTable overwrites a table
func (s *FileStore) WriteTable(ctx context.Context, name string, t *tabular.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if strings.HasSuffix(name, xlsxExt) {
		return fmt.Errorf("%s: %w", name, ErrReadOnly)
	}
	return tabular.WriteCSV(t, path)
}

// CopyTable overwrites dst with the contents of src. CSV tables are copied
// byte for byte, rows that do not parse included.
func (s *FileStore) CopyTable(ctx context.Context, src, dst string) error {
	ok, err := s.Exists(ctx, src)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", src, ErrTableNotFound)
	}
	if strings.HasSuffix(src, xlsxExt) {
		t, err := s.ReadTable(ctx, src, nil)
		if err != nil {
			return err
		}
		return s.WriteTable(ctx, dst, t)
	}
	if strings.HasSuffix(dst, xlsxExt) {
		return fmt.Errorf("%s: %w", dst, ErrReadOnly)
	}

	srcPath, err := s.path(src)
	if err != nil {
		return err
	}
	dstPath, err := s.path(dst)
	if err != nil {
		return err
	}
	return copyFile(srcPath, dstPath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to replace %s: %w", dst, err)
	}
	return nil
}

// Exists reports whether the table's file is present
func (s *FileStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := s.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return true, nil
}

// ListSources lists the CSV and Excel vocabulary files of the data folder
func (s *FileStore) ListSources(ctx context.Context) ([]Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	var names []string
	for _, f := range files {
		if f.IsDir() || strings.HasPrefix(f.Name(), ".") {
			continue
		}
		switch filepath.Ext(f.Name()) {
		case csvExt:
			names = append(names, strings.TrimSuffix(f.Name(), csvExt))
		case xlsxExt:
			names = append(names, f.Name())
		}
	}
	return SourcesFromNames(names), nil
}
