package obs

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "req_id"
	loggerKey    ctxKey = "logger"
)

// NewLogger builds the process logger. format is "json" or "console".
func NewLogger(level, format string) (*zap.Logger, error) {
	var cfg zap.Config
	switch format {
	case "", "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("new logger: unknown format %q", format)
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("new logger: parse level %q: %w", level, err)
	}
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stdout"}

	return cfg.Build()
}

// WithRequest returns a context carrying the request id and a logger tagged with it.
func WithRequest(ctx context.Context, base *zap.Logger, reqID string) context.Context {
	ctx = context.WithValue(ctx, RequestIDKey, reqID)
	return context.WithValue(ctx, loggerKey, base.With(zap.String("req_id", reqID)))
}

// Logger returns the request-scoped logger, or the global zap logger when none is set.
func Logger(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.L()
}

func RequestID(ctx context.Context) string {
	reqID, _ := ctx.Value(RequestIDKey).(string)
	return reqID
}
