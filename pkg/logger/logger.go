package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// New returns the console's structured logger. Every line is stamped with
// the service name so console output is distinguishable from the upstream
// data engine's when both land in the same aggregator.
func New(appEnv string) *slog.Logger {
	return newLogger(appEnv, os.Stdout)
}

func newLogger(appEnv string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if appEnv == "local" || appEnv == "dev" {
		level = slog.LevelDebug
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", "turret-console")
}

type ctxKey struct{}

// With stores a logger in context.
func With(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From gets a logger from context, falling back to slog.Default().
// Code below the HTTP layer reaches request-scoped logging through this;
// the middleware plants the logger in the request context.
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}
