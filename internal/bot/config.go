package bot

import (
	"time"
)

// Config represents the configuration for the bot
type Config struct {
	// The only chat the bot talks to
	ChatID int64
	// Number of questions of a /quiz without arguments
	DefaultQuizSize int
	// How long the bot waits for an answer before the quiz is aborted
	AnswerTimeout time.Duration
	// Maximum number of words listed by /diary
	DiaryPageSize int
}

// DefaultConfig returns the default bot configuration for chatID
func DefaultConfig(chatID int64) Config {
	return Config{
		ChatID:          chatID,
		DefaultQuizSize: 10,
		AnswerTimeout:   10 * time.Minute,
		DiaryPageSize:   50,
	}
}
