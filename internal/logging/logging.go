// Package logging configures the process-wide slog logger.
//
// All log output goes to stderr: stdout carries the MCP stdio transport
// and must stay clean.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

func init() {
	Setup(os.Stderr, os.Getenv("LOG_LEVEL"))
}

// Setup installs a text handler on w at the named level ("debug",
// "info", "warn", "error"; anything else means info).
func Setup(w io.Writer, level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
}

// Debug logs a message at debug level.
func Debug(msg string, args ...any) { slog.Debug(msg, args...) }

// Info logs a message at info level.
func Info(msg string, args ...any) { slog.Info(msg, args...) }

// Warn logs a message at warn level.
func Warn(msg string, args ...any) { slog.Warn(msg, args...) }

// Error logs a message at error level.
func Error(msg string, args ...any) { slog.Error(msg, args...) }
