package multibuffer

import (
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/multibuffer/buffer"
)

// Logger wraps slog.Logger with multibuffer-specific context.
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
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithBuffer adds a buffer field to the logger.
func (l *Logger) WithBuffer(id buffer.ID) *Logger {
	return &Logger{
		Logger: l.Logger.With("buffer", id.String()),
	}
}

// LogInsert logs an insert_excerpts call.
func (l *Logger) LogInsert(ranges, keys, excerpts int) {
	l.Debug("excerpts inserted",
		"ranges", ranges,
		"keys", keys,
		"excerpts", excerpts,
	)
}

// LogSync logs a sync that found changed buffers.
func (l *Logger) LogSync(edited, renamed int) {
	l.Debug("buffers synced",
		"edited", edited,
		"renamed", renamed,
	)
}

// LogRename logs the relocation of a buffer's excerpts.
func (l *Logger) LogRename(id buffer.ID, oldPath, newPath string, excerpts int) {
	l.WithBuffer(id).Info("buffer renamed",
		"old_path", oldPath,
		"new_path", newPath,
		"excerpts", excerpts,
	)
}

// LogDropped logs excerpts that edits collapsed to nothing.
func (l *Logger) LogDropped(id buffer.ID, dropped int) {
	l.WithBuffer(id).Warn("excerpts collapsed by edits",
		"dropped", dropped,
	)
}
