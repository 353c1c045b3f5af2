// Package logging provides structured logging configuration using log/slog.
//
// Log records go to stderr by default so they never interleave with the
// interactive menu on stdout. Session and operation IDs stored in a context
// are attached to every record logged through FromContext.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxKeySessionID contextKey = "session_id"
	ctxKeyOpID      contextKey = "op_id"
)

// Setup configures the global slog logger.
//
// Level values: "debug", "info", "warn", "error". Unrecognized values fall
// back to "info"; the configured default is "warn" (LOG_LEVEL).
// Format values: "text", "json" (default: "text")
// Output values: "stderr", "stdout", or a file path opened for append.
//
// The returned closer releases the log file, if any; it is always non-nil.
func Setup(level, format, output string) (io.Closer, error) {
	w, closer, err := openOutput(output)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(newHandler(w, level, format)))
	return closer, nil
}

func newHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func openOutput(output string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(output)) {
	case "", "stderr":
		return os.Stderr, nopCloser{}, nil
	case "stdout":
		return os.Stdout, nopCloser{}, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f, nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// NewSession returns a context carrying a fresh session ID for this process run.
func NewSession(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeySessionID, uuid.NewString())
}

// NewOperation returns a context carrying a fresh operation ID, along with the ID.
func NewOperation(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, ctxKeyOpID, id), id
}

// SessionID returns the session ID stored in ctx, or "".
func SessionID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeySessionID).(string)
	return v
}

// OperationID returns the operation ID stored in ctx, or "".
func OperationID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyOpID).(string)
	return v
}

// FromContext returns the default logger enriched with the session and
// operation IDs found in ctx.
//
// Usage:
//
//	ctx, _ = logging.NewOperation(ctx)
//	logging.FromContext(ctx).Info("student created", "student_id", id)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if id := SessionID(ctx); id != "" {
		logger = logger.With("session_id", id)
	}
	if id := OperationID(ctx); id != "" {
		logger = logger.With("op_id", id)
	}

	return logger
}

// WithFields returns a context-enriched logger with additional structured fields.
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
