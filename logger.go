package nativeio

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with nativeio-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// LogOpen logs a descriptor open.
func (l *Logger) LogOpen(ctx context.Context, path string, direct, readOnly bool, fd int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"path", path,
			"direct", direct,
			"read_only", readOnly,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "open completed",
		"path", path,
		"direct", direct,
		"read_only", readOnly,
		"fd", fd,
		"duration", d,
	)
}

// LogClose logs a descriptor close.
func (l *Logger) LogClose(ctx context.Context, path string, fd int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed",
			"path", path,
			"fd", fd,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "close completed",
		"path", path,
		"fd", fd,
	)
}

// LogMap logs a mapping being established.
func (l *Logger) LogMap(ctx context.Context, path string, length int64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "map failed",
			"path", path,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "map completed",
		"path", path,
		"length", length,
		"duration", d,
	)
}

// LogAdvise logs an advisory call. scope is "file" or "memory".
func (l *Logger) LogAdvise(ctx context.Context, scope, path, advice string, offset, length int64, err error) {
	if err != nil {
		l.WarnContext(ctx, "advise failed",
			"scope", scope,
			"path", path,
			"advice", advice,
			"offset", offset,
			"length", length,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "advise completed",
		"scope", scope,
		"path", path,
		"advice", advice,
		"offset", offset,
		"length", length,
	)
}

// LogRelease logs a mapping teardown.
func (l *Logger) LogRelease(ctx context.Context, path string, length int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "release failed",
			"path", path,
			"length", length,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "release completed",
		"path", path,
		"length", length,
	)
}
