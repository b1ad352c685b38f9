// Package dlog provides the module's structured logging convention: a thin
// wrapper around log/slog with per-component child loggers, the same shape
// used elsewhere for the lite-client's logging package and for per-subsystem
// loggers in node services. The delegation core is a library first — callers
// that don't want logs simply never pass a *Logger in, and every entry point
// here tolerates a nil *Logger.
package dlog

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with a stable "component" attribute.
type Logger struct {
	inner *slog.Logger
}

// New creates a Logger that writes JSON to stderr at the given level.
func New(level slog.Level) *Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &Logger{inner: slog.New(h)}
}

// NewWithHandler creates a Logger backed by the supplied slog.Handler.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{inner: slog.New(h)}
}

// Component returns a child logger tagged with the given component name.
// Safe to call on a nil receiver; returns nil so call sites need not guard.
func (l *Logger) Component(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{inner: l.inner.With("component", name)}
}

func (l *Logger) Debug(msg string, args ...any) {
	if l == nil {
		return
	}
	l.inner.Debug(msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	if l == nil {
		return
	}
	l.inner.Info(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	if l == nil {
		return
	}
	l.inner.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	if l == nil {
		return
	}
	l.inner.Error(msg, args...)
}
