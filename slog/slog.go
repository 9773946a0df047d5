// Package slog wraps pagewatch services with structured logging.
package slog

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger writing timestamped lines to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts a level name such as "debug" or "WARN" to a slog.Level.
// Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}
