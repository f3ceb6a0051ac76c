package logger

import (
	"log/slog"
	"strings"
)

// HandlerFactory builds a slog.Handler for the given minimum level.
type HandlerFactory func(level slog.Level) slog.Handler

func New(level string, handler HandlerFactory) *slog.Logger {
	h := handler(ParseLevel(level))
	return slog.New(h)
}

// ForFormat picks the handler used in deployed ("cloudrun") or local ("text") runs.
func ForFormat(format string) HandlerFactory {
	switch strings.ToLower(format) {
	case "text":
		return NewTextHandler
	default:
		return func(level slog.Level) slog.Handler { return NewCloudRunHandler(level) }
	}
}

// ---- Helpers ----
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
