package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Connect establishes a connection to the database and initializes the schema
func Connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		// Create data directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	statements := []struct {
		table string
		query string
	}{
		{"vocab_tables", `
			CREATE TABLE IF NOT EXISTS vocab_tables (
				name TEXT PRIMARY KEY,
				updated_at TIMESTAMP NOT NULL
			)`},
		{"vocab_columns", `
			CREATE TABLE IF NOT EXISTS vocab_columns (
				table_name TEXT NOT NULL REFERENCES vocab_tables(name) ON DELETE CASCADE,
				col_idx INTEGER NOT NULL,
				name TEXT NOT NULL,
				PRIMARY KEY (table_name, col_idx)
			)`},
		{"vocab_cells", `
			CREATE TABLE IF NOT EXISTS vocab_cells (
				table_name TEXT NOT NULL REFERENCES vocab_tables(name) ON DELETE CASCADE,
				row_idx INTEGER NOT NULL,
				column_name TEXT NOT NULL,
				value TEXT NOT NULL,
				PRIMARY KEY (table_name, row_idx, column_name)
			)`},
	}

	for _, s := range statements {
		if _, err := db.Exec(s.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", s.table, err)
		}
	}
	return nil
}
