// Package logging sets up the diagnostic channel.
//
// The chat TUI owns the terminal, so diagnostics go to a file by default.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Stderr is the file name that routes logs to standard error
const Stderr = "-"

// Options configures the logger
type Options struct {
	File  string
	Level string
	// Console switches to zerolog's human readable writer.
	Console bool
}

// ParseLevel converts a configured level name; "" means info
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// New creates a logger for the given options. The returned closer
// releases the log file and must be called on shutdown.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	if level == zerolog.Disabled || opts.File == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}

	var (
		out    io.Writer
		closer io.Closer = nopCloser{}
	)
	if opts.File == Stderr {
		out = os.Stderr
	} else {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	}

	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, NoColor: opts.File != Stderr, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", "vistulabot").
		Logger()

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
