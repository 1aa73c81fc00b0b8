// Package logging builds the slog logger used by every command.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ParseLevel maps a level name to a slog level. Unknown names fall back to
// warn and report ok=false.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning", "":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelWarn, false
	}
}

// New returns a logger writing to w. Format "json" selects the JSON handler,
// anything else the tint console handler.
func New(w io.Writer, level, format string) *slog.Logger {
	lvl := new(slog.LevelVar)
	parsed, ok := ParseLevel(level)
	lvl.Set(parsed)

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.DateTime,
		})
	}
	logger := slog.New(handler)
	if !ok {
		logger.Warn("unknown log level, defaulting to warn", "level", level)
	}
	return logger
}
