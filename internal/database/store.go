package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabdiary/internal/storage"
	"github.com/example/vocabdiary/internal/tabular"
)

var _ storage.Store = (*Store)(nil)

// Store keeps tables as column and cell rows in a SQL database
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

type cell struct {
	RowIdx int    `db:"row_idx"`
	Column string `db:"column_name"`
	Value  string `db:"value"`
}

// NewStore wraps an open connection
func NewStore(db *sqlx.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Open connects to the database and returns a store backed by it
func Open(driver, dsn string, logger *slog.Logger) (*Store, error) {
	db, err := Connect(driver, dsn)
	if err != nil {
		return nil, err
	}
	return NewStore(db, logger), nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// ReadTable loads a table, creating it with the given columns when absent
func (s *Store) ReadTable(ctx context.Context, name string, columns []string) (*tabular.Table, error) {
	ok, err := s.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		t := tabular.NewTable(columns...)
		if err := s.WriteTable(ctx, name, t); err != nil {
			return nil, err
		}
		return t, nil
	}

	var header []string
	query := s.db.Rebind("SELECT name FROM vocab_columns WHERE table_name = ? ORDER BY col_idx")
	if err := s.db.SelectContext(ctx, &header, query, name); err != nil {
		return nil, fmt.Errorf("failed to get columns of %s: %w", name, err)
	}

	var cells []cell
	query = s.db.Rebind("SELECT row_idx, column_name, value FROM vocab_cells WHERE table_name = ? ORDER BY row_idx")
	if err := s.db.SelectContext(ctx, &cells, query, name); err != nil {
		return nil, fmt.Errorf("failed to get cells of %s: %w", name, err)
	}

	t := tabular.NewTable(header...)
	var row tabular.Row
	current := -1
	for _, c := range cells {
		if c.RowIdx != current {
			if row != nil {
				t.Append(row)
			}
			row = tabular.Row{}
			current = c.RowIdx
		}
		row[c.Column] = c.Value
	}
	if row != nil {
		t.Append(row)
	}

	t.EnsureColumns(columns)
	return t, nil
}

// WriteTable replaces the table inside a single transaction
func (s *Store) WriteTable(ctx context.Context, name string, t *tabular.Table) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := resetTable(ctx, tx, name); err != nil {
		return err
	}

	colStmt, err := tx.PreparexContext(ctx, tx.Rebind("INSERT INTO vocab_columns (table_name, col_idx, name) VALUES (?, ?, ?)"))
	if err != nil {
		return fmt.Errorf("failed to prepare column insert: %w", err)
	}
	defer colStmt.Close()
	for i, c := range t.Columns {
		if _, err := colStmt.ExecContext(ctx, name, i, c); err != nil {
			return fmt.Errorf("failed to insert column %s: %w", c, err)
		}
	}

	cellStmt, err := tx.PreparexContext(ctx, tx.Rebind("INSERT INTO vocab_cells (table_name, row_idx, column_name, value) VALUES (?, ?, ?, ?)"))
	if err != nil {
		return fmt.Errorf("failed to prepare cell insert: %w", err)
	}
	defer cellStmt.Close()
	for i, r := range t.Rows {
		for _, c := range t.Columns {
			if _, err := cellStmt.ExecContext(ctx, name, i, c, r[c]); err != nil {
				return fmt.Errorf("failed to insert row %d of %s: %w", i, name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}
	s.logger.Debug("table written", "table", name, "rows", len(t.Rows))
	return nil
}

// CopyTable overwrites dst with the contents of src
func (s *Store) CopyTable(ctx context.Context, src, dst string) error {
	ok, err := s.Exists(ctx, src)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", src, storage.ErrTableNotFound)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := resetTable(ctx, tx, dst); err != nil {
		return err
	}
	copies := []string{
		"INSERT INTO vocab_columns (table_name, col_idx, name) SELECT CAST(? AS TEXT), col_idx, name FROM vocab_columns WHERE table_name = ?",
		"INSERT INTO vocab_cells (table_name, row_idx, column_name, value) SELECT CAST(? AS TEXT), row_idx, column_name, value FROM vocab_cells WHERE table_name = ?",
	}
	for _, q := range copies {
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), dst, src); err != nil {
			return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", dst, err)
	}
	return nil
}

// Exists reports whether the table has been created
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, s.db.Rebind("SELECT COUNT(*) FROM vocab_tables WHERE name = ?"), name)
	if err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", name, err)
	}
	return count > 0, nil
}

// ListSources lists the vocabulary tables stored in the database
func (s *Store) ListSources(ctx context.Context) ([]storage.Source, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, "SELECT name FROM vocab_tables ORDER BY name"); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return storage.SourcesFromNames(names), nil
}

// resetTable registers the table and removes its previous contents
func resetTable(ctx context.Context, tx *sqlx.Tx, name string) error {
	upsert := tx.Rebind(`
		INSERT INTO vocab_tables (name, updated_at) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET updated_at = excluded.updated_at`)
	if _, err := tx.ExecContext(ctx, upsert, name, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to register table %s: %w", name, err)
	}
	for _, q := range []string{
		"DELETE FROM vocab_columns WHERE table_name = ?",
		"DELETE FROM vocab_cells WHERE table_name = ?",
	} {
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), name); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", name, err)
		}
	}
	return nil
}
