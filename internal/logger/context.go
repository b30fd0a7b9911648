package logger

import (
	"context"
	"log/slog"
)

type runIDKey struct{}

type requestIDKey struct{}

// WithRunID stores a dispatch run id in ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the dispatch run id stored in ctx.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// WithRequestID stores an HTTP request id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the HTTP request id stored in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RunIDExtractor adds run_id to records logged within a dispatch run.
func RunIDExtractor() ContextExtractor {
	return stringExtractor("run_id", RunID)
}

// RequestIDExtractor adds request_id to records logged while serving a request.
func RequestIDExtractor() ContextExtractor {
	return stringExtractor("request_id", RequestID)
}

func stringExtractor(key string, get func(context.Context) string) ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v := get(ctx); v != "" {
			return slog.String(key, v), true
		}
		return slog.Attr{}, false
	}
}
