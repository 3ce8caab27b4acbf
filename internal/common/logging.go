// Package common holds helpers shared by the CLI actions.
package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// ParseLogLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// SetupLogger logs JSON to stderr and, when logFile is set, also appends JSON
// lines to that file. quiet raises the stderr level to error; the file keeps
// the configured level. The returned cleanup closes the file.
func SetupLogger(level slog.Level, quiet bool, logFile string) (*slog.Logger, func() error, error) {
	if logFile == "" {
		return slog.New(stderrHandler(os.Stderr, level, quiet)), func() error { return nil }, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}
	return SetupLoggerWithWriters(os.Stderr, file, level, quiet), file.Close, nil
}

// SetupLoggerWithWriters fans out to stderr (error only when quiet) and file.
func SetupLoggerWithWriters(stderr, file io.Writer, level slog.Level, quiet bool) *slog.Logger {
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(stderrHandler(stderr, level, quiet), fileHandler))
}

func stderrHandler(w io.Writer, level slog.Level, quiet bool) slog.Handler {
	if quiet {
		level = slog.LevelError
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
