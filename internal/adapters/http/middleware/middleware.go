// Package middleware is the inbound pipeline of the actor gateway. Stack
// returns it outermost first:
//
//	Recovery → RequestIDs → OpenTelemetry → Logging → Timeout → router
//
// The access log, the server span and the request metrics all name the
// actor a request ran and how the run ended. They read the actor from the
// chi route and the outcome from the X-Actor-Outcome response header the
// actor handler sets.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-actor/pkg/telemetry"
)

// Config carries what the gateway's middleware needs. Metrics may be nil
// and a zero Timeout disables the deadline.
type Config struct {
	Logger  *slog.Logger
	Metrics *telemetry.Metrics
	Timeout time.Duration
}

// Stack returns the gateway middleware in the order chi should Use it.
func Stack(cfg Config) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		Recovery(cfg.Logger),
		RequestIDs(),
		OpenTelemetry(cfg.Metrics),
		Logging(cfg.Logger),
		Timeout(cfg.Timeout),
	}
}

// route returns the matched chi pattern and the actor it names. Both are
// empty before routing, for unmatched paths, and outside a chi router.
func route(r *http.Request) (pattern, actorName string) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "", ""
	}
	return rctx.RoutePattern(), rctx.URLParam("name")
}
