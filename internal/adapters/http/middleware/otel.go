package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-actor/pkg/telemetry"
)

// OpenTelemetry opens a server span per request, continuing a W3C trace
// from the incoming headers, and records the request metrics. Once routing
// has run the span is renamed to the route pattern and tagged with the
// actor and its outcome, so actor spans started by the handler nest under
// a span that says what was called.
//
// metrics, when non-nil, is also stored on the context for actor runs.
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := otel.Tracer("middleware").Start(ctx, "HTTP "+r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(telemetry.AttrHTTPMethod.String(r.Method)),
			)
			defer span.End()
			if metrics != nil {
				ctx = telemetry.WithMetrics(ctx, metrics)
			}

			rec := record(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			pattern, name := route(r)
			status := rec.Status()
			span.SetAttributes(telemetry.AttrHTTPStatus.Int(status))
			if pattern != "" {
				span.SetName(r.Method + " " + pattern)
				span.SetAttributes(telemetry.AttrHTTPRoute.String(pattern))
			} else {
				pattern = "unmatched"
			}
			if name != "" {
				span.SetAttributes(telemetry.AttrActor.String(name))
			}
			if outcome := rec.Header().Get(dto.HeaderActorOutcome); outcome != "" {
				span.SetAttributes(telemetry.AttrOutcome.String(outcome))
			}
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			metrics.RecordServerRequest(ctx, r.Method, pattern, name, status, time.Since(start))
		})
	}
}
