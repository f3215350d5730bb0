package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-actor/internal/platform/httpclient"
	"github.com/jsamuelsen11/go-actor/pkg/logging"
)

// Logging attaches a request logger, carrying the request and correlation
// IDs, to the context and writes one access-log line per request. On actor
// routes the line also names the actor, the run outcome and its call ID.
// Request headers are logged at Debug with credentials redacted.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ids := httpclient.ForwardedFrom(r.Context())
			reqLogger := logger.With(
				slog.String("request_id", ids.RequestID),
				slog.String("correlation_id", ids.CorrelationID),
			)
			ctx := logging.WithLogger(r.Context(), reqLogger)

			if reqLogger.Enabled(ctx, slog.LevelDebug) {
				reqLogger.LogAttrs(ctx, slog.LevelDebug, "request headers",
					slog.Attr{Key: "headers", Value: slog.GroupValue(RedactHeaders(r.Header)...)})
			}

			rec := record(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.Status()),
				slog.Duration("duration", time.Since(start)),
			}
			if _, name := route(r); name != "" {
				attrs = append(attrs, slog.String("actor", name))
			}
			if outcome := rec.Header().Get(dto.HeaderActorOutcome); outcome != "" {
				attrs = append(attrs, slog.String("outcome", outcome))
			}
			if callID := rec.Header().Get(dto.HeaderActorCallID); callID != "" {
				attrs = append(attrs, slog.String("call_id", callID))
			}

			level := slog.LevelInfo
			if rec.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			reqLogger.LogAttrs(ctx, level, "request completed", attrs...)
		})
	}
}
