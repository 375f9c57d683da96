// Package logging builds the per-run logger. There is no package level
// logger: callers construct one and pass it down.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text logger writing to w. Verbose runs log at debug level,
// which is where per-file progress is reported.
func New(w io.Writer, verbose bool) *slog.Logger {
	return NewAt(w, Level(verbose))
}

// NewAt returns a text logger writing to w at the given level.
func NewAt(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Level maps the verbosity flag to a slog level.
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// ParseLevel accepts slog level names ("debug", "INFO", "warn+2") and falls
// back to info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
