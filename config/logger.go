package config

import (
	"log/slog"
	"os"
	"strings"
)

// Logger builds the process logger: JSON in production, text otherwise.
func Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(Env().LogLevel)}
	var handler slog.Handler
	if IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("service", "archers-edge"))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
