// Package logger provides structured logging functionality for the application.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lexcraft/cardgen/internal/config"
)

// Setup initializes the application's logging system from the server
// configuration. It creates a structured JSON logger at the configured level,
// sets it as the process default, and returns it.
func Setup(cfg config.ServerConfig) *slog.Logger {
	return setup(cfg, os.Stdout)
}

func setup(cfg config.ServerConfig, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.LogLevel)

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)

	// Setting the default lets package-level slog calls share the handler.
	slog.SetDefault(logger)

	return logger
}

// parseLevel maps a configured level name to a slog.Level, falling back to
// info for anything unrecognized. Config validation normally rejects bad
// levels before this runs.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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
