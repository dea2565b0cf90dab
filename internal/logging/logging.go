// Package logging builds the structured loggers used across bangumi.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DebugLogPath is the log file used by --debug when no file is configured.
const DebugLogPath = "bangumi-debug.log"

// Options controls logger construction.
type Options struct {
	Level      string // "debug", "info", "warn", "error"
	File       string // empty writes text to Stderr
	MaxSizeMB  int
	MaxBackups int

	// Debug forces debug level and a log file.
	Debug bool
	// Quiet discards output when no file is set, for full-screen modes.
	Quiet  bool
	Stderr io.Writer
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a logger and a function that releases its output.
// File output is JSON and rotated; terminal output is text.
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	file := opts.File
	if opts.Debug {
		level = slog.LevelDebug
		if file == "" {
			file = DebugLogPath
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	if file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    max(1, opts.MaxSizeMB),
			MaxBackups: opts.MaxBackups,
		}
		logger := slog.New(slog.NewJSONHandler(rotator, handlerOpts))
		return logger, rotator.Close, nil
	}

	out := opts.Stderr
	if out == nil {
		out = os.Stderr
	}
	if opts.Quiet {
		out = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(out, handlerOpts))
	return logger, func() error { return nil }, nil
}

// Component returns a child logger tagged with a component name.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("component", name)
}
