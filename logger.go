package vecwire

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vecwire-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithCollection adds a collection name field to the logger.
func (l *Logger) WithCollection(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("collection", name),
	}
}

// WithField adds a field name to the logger.
func (l *Logger) WithField(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("field", name),
	}
}

// WithBatch adds a bulk batch directory to the logger.
func (l *Logger) WithBatch(batch string) *Logger {
	return &Logger{
		Logger: l.Logger.With("batch", batch),
	}
}

// LogEncode logs an encode operation.
func (l *Logger) LogEncode(ctx context.Context, rows, columns int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "encode failed",
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "encode completed",
			"rows", rows,
			"columns", columns,
		)
	}
}

// LogDecode logs a decode operation.
func (l *Logger) LogDecode(ctx context.Context, rows, columns int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "decode failed",
			"rows", rows,
			"columns", columns,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "decode completed",
			"rows", rows,
			"columns", columns,
		)
	}
}

// LogFlush logs a bulk file upload.
func (l *Logger) LogFlush(ctx context.Context, file string, rows, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "bulk flush failed",
			"file", file,
			"rows", rows,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "bulk file written",
			"file", file,
			"rows", rows,
			"bytes", bytes,
		)
	}
}
