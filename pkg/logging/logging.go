// Package logging builds the gateway's slog logger and carries the
// request-scoped one through contexts.
//
// The access-log middleware stores a logger holding request_id and
// correlation_id; actor runs extend it with actor and call_id:
//
//	ctx = logging.WithLogger(ctx, logger.With(slog.String("request_id", id)))
//	logging.FromContext(ctx).InfoContext(ctx, "stock reserved", slog.String("sku", sku))
//
// Error lines name what failed and carry the whole chain:
//
//	logger.ErrorContext(ctx, "actor call failed",
//	    slog.String("actor", name),
//	    slog.Any("error", err),
//	)
package logging

import (
	"context"
	"io"
	"log/slog"
)

type contextKey struct{}

// New returns a logger writing to w at level, one of debug, info, warn or
// error; anything else means info. format "text" selects slog's text
// handler and everything else JSON. Debug loggers add the source location.
// Card data and credentials are masked before they reach w.
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

// WithLogger returns ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored by WithLogger, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// HasLogger reports whether a logger was stored with WithLogger.
func HasLogger(ctx context.Context) bool {
	_, ok := ctx.Value(contextKey{}).(*slog.Logger)
	return ok
}
