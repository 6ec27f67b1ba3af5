// Package logging provides structured logging configuration using log/slog.
//
// The default text format renders one line per record in the layout
//
//	2006-01-02 15:04:05 - INFO - root - message key=value
//
// which keeps run logs readable by the tooling that already consumes them.
// The json format uses slog's JSON handler unchanged.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// DefaultName is the logger name rendered in text output.
const DefaultName = "root"

// New builds a logger writing to w at the given level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func New(w io.Writer, level, format string) *slog.Logger {
	lvl := parseLevel(level)

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = NewLineHandler(w, DefaultName, lvl)
	}

	return slog.New(handler)
}

// Setup configures the global slog logger and returns it.
func Setup(w io.Writer, level, format string) *slog.Logger {
	logger := New(w, level, format)
	slog.SetDefault(logger)
	return logger
}

// parseLevel converts a string log level to slog.Level.
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
