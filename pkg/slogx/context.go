package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithSource tags the context logger with the component that is logging,
// e.g. "http/clients" or "service/onboarding".
func WithSource(ctx context.Context, source string) context.Context {
	return WithContext(ctx, FromContext(ctx).With("source", source))
}
