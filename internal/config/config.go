// Package config reads settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	BackendCSV      = "csv"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

const (
	DefaultDataDir      = "vocab_data"
	DefaultDatabasePath = "vocab_data/vocab.db"
	DefaultReminderHour = 18
)

type (
	Config struct {
		Storage
		Log
		Telegram
		Reminder
		Quiz
	}

	Storage struct {
		Backend      string
		DataDir      string
		DatabasePath string
		DatabaseURL  string // postgres connection string
	}
	Log struct {
		Level  string
		Format string // text or json
	}
	Telegram struct {
		Token  string
		ChatID int64 // the only chat the bot answers
	}
	Reminder struct {
		Enabled bool
		Hour    int
	}
	Quiz struct {
		Seed int64 // 0 means time based
	}
)

// Load reads the given .env files, when present, and builds the configuration
// from the environment. Variables already set in the environment win over the
// files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("vocab_data_dir", DefaultDataDir)
	v.SetDefault("storage_backend", BackendCSV)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_url", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("telegram_bot_token", "")
	v.SetDefault("telegram_chat_id", 0)
	v.SetDefault("reminder_enabled", false)
	v.SetDefault("reminder_hour", DefaultReminderHour)
	v.SetDefault("quiz_seed", 0)

	return &Config{
		Storage: Storage{
			Backend:      strings.ToLower(v.GetString("STORAGE_BACKEND")),
			DataDir:      v.GetString("VOCAB_DATA_DIR"),
			DatabasePath: v.GetString("DATABASE_PATH"),
			DatabaseURL:  v.GetString("DATABASE_URL"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Telegram: Telegram{
			Token:  v.GetString("TELEGRAM_BOT_TOKEN"),
			ChatID: v.GetInt64("TELEGRAM_CHAT_ID"),
		},
		Reminder: Reminder{
			Enabled: v.GetBool("REMINDER_ENABLED"),
			Hour:    v.GetInt("REMINDER_HOUR"),
		},
		Quiz: Quiz{
			Seed: v.GetInt64("QUIZ_SEED"),
		},
	}
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendCSV, BackendSQLite:
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Reminder.Hour < 0 || c.Reminder.Hour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be between 0 and 23, got %d", c.Reminder.Hour)
	}
	return nil
}
