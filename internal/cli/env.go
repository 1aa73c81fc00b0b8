// Package cli holds the subcommands of the vocab binary.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/vocabdiary/internal/config"
	"github.com/example/vocabdiary/internal/database"
	"github.com/example/vocabdiary/internal/diary"
	"github.com/example/vocabdiary/internal/quiz"
	"github.com/example/vocabdiary/internal/score"
	"github.com/example/vocabdiary/internal/storage"
)

// Command is a subcommand of the vocab binary
type Command interface {
	ParseFlags(args []string) error
	Run(ctx context.Context, env *Env) error
}

// Env holds what every command shares: configuration, logger and the store
type Env struct {
	Config *config.Config
	Logger *slog.Logger
	Store  storage.Store
	close  func() error
}

// NewEnv opens the store selected by the configuration
func NewEnv(cfg *config.Config, logger *slog.Logger) (*Env, error) {
	if logger == nil {
		logger = slog.Default()
	}
	env := &Env{Config: cfg, Logger: logger, close: func() error { return nil }}

	switch cfg.Storage.Backend {
	case config.BackendCSV, "":
		store, err := storage.NewFileStore(cfg.Storage.DataDir, logger)
		if err != nil {
			return nil, err
		}
		env.Store = store
	case config.BackendSQLite, config.BackendPostgres:
		driver, dsn := database.DriverSQLite, cfg.Storage.DatabasePath
		if cfg.Storage.Backend == config.BackendPostgres {
			driver, dsn = database.DriverPostgres, cfg.Storage.DatabaseURL
		}
		store, err := database.Open(driver, dsn, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
		}
		env.Store = store
		env.close = store.Close
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	logger.Debug("store opened", "backend", cfg.Storage.Backend)
	return env, nil
}

// Close releases the store
func (e *Env) Close() error {
	return e.close()
}

// Diary returns a diary repository on the store
func (e *Env) Diary() *diary.Repository {
	return diary.NewRepository(e.Store, e.Logger)
}

// Tracker returns a score tracker on the store
func (e *Env) Tracker() *score.Tracker {
	return score.NewTracker(e.Store, e.Logger)
}

// Engine returns a quiz engine seeded from the configuration
func (e *Env) Engine() *quiz.Engine {
	return quiz.NewEngine(e.Config.Quiz.Seed)
}
