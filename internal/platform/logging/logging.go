// Package logging builds the slog logger used by every layer and carries it
// through context.Context.
//
// The CLI builds one logger per invocation and scopes it to the command and
// the acting user:
//
//	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
//	ctx = logging.WithCommand(logging.WithLogger(ctx, logger), "task status", actorID)
//
// Application services and adapters never receive a logger directly; they
// call logging.FromContext(ctx). Failures are logged with the operation name,
// the ids involved and slog.Any("error", err) so the domain error code and
// details survive in structured output.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type contextKey struct{}

// Attribute keys shared by the CLI, the application runtime and the adapters.
const (
	KeyCommand   = "command"
	KeyActor     = "actor_user_id"
	KeyOperation = "operation"
)

// New returns a logger writing to w. format is "text" or "json"; anything
// else falls back to JSON. level accepts the slog level names in any case
// and falls back to info. Debug logging adds the source location.
func New(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: redactor(),
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// WithAttrs returns a context whose logger carries the given attributes.
func WithAttrs(ctx context.Context, attrs ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(attrs...))
}

// WithCommand scopes the context logger to one CLI command. An empty actor
// is left out rather than logged as "".
func WithCommand(ctx context.Context, command, actorUserID string) context.Context {
	attrs := []any{slog.String(KeyCommand, command)}
	if actorUserID != "" {
		attrs = append(attrs, slog.String(KeyActor, actorUserID))
	}
	return WithAttrs(ctx, attrs...)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
