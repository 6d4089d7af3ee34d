package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID stamps the id used to correlate all log lines of one request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom returns the request id, or "" when the context has none.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// FromCtx returns the global logger, tagged with the context's request id
// when one is present.
func FromCtx(ctx context.Context) *zap.Logger {
	id := RequestIDFrom(ctx)
	if id == "" {
		return L()
	}
	return L().With(zap.String("request_id", id))
}
