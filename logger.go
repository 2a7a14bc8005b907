package activedb

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with store-specific helpers so operation logs
// carry consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. A nil handler means a
// text handler to stderr at Info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON lines to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// LogAddTable logs an add-table operation.
func (l *Logger) LogAddTable(table string, err error) {
	if err != nil {
		l.Warn("add table failed", "table", table, "error", err)
	} else {
		l.Debug("table added", "table", table)
	}
}

// LogAddRow logs an add-row operation.
func (l *Logger) LogAddRow(table, key string, err error) {
	if err != nil {
		l.Warn("add row failed", "table", table, "key", key, "error", err)
	} else {
		l.Debug("row added", "table", table, "key", key)
	}
}

// LogGetRow logs a row read.
func (l *Logger) LogGetRow(table, key string, err error) {
	if err != nil {
		l.Debug("get row failed", "table", table, "key", key, "error", err)
	} else {
		l.Debug("row read", "table", table, "key", key)
	}
}

// LogIncrement logs a counter increment.
func (l *Logger) LogIncrement(table, key string, err error) {
	if err != nil {
		l.Debug("increment failed", "table", table, "key", key, "error", err)
	} else {
		l.Debug("incremented", "table", table, "key", key)
	}
}

// LogCredential logs a credential lookup. The secret itself is never
// logged.
func (l *Logger) LogCredential(table, key string, err error) {
	if err != nil {
		l.Debug("credential lookup failed", "table", table, "key", key, "error", err)
	} else {
		l.Debug("credential read", "table", table, "key", key)
	}
}

// LogSnapshot logs a snapshot save.
func (l *Logger) LogSnapshot(ctx context.Context, tables int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot save failed", "error", err)
	} else {
		l.InfoContext(ctx, "snapshot saved", "tables", tables)
	}
}
