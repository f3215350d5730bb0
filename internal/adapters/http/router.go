// Package http is the gateway's inbound HTTP adapter: the chi router that
// exposes the actor catalog and the server that runs it.
package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-actor/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-actor/internal/domain"
)

// NewRouter registers the gateway routes behind middlewares, applied in the
// order given. Unknown paths and methods get problem responses like every
// other gateway error.
//
//	GET  /health/live
//	GET  /health/ready
//	GET  /api/v1/actors
//	POST /api/v1/actors/{name}/call
//	POST /api/v1/actors/{name}/result
func NewRouter(
	actorHandler *handlers.ActorHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteErrorResponse(w, r, fmt.Errorf("%w: no route for %s %s", domain.ErrNotFound, r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteProblem(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("%s is not allowed on %s", r.Method, r.URL.Path))
	})

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Route("/api/v1/actors", func(r chi.Router) {
		r.Get("/", actorHandler.ListActors)
		r.Post("/{name}/call", actorHandler.CallActor)
		r.Post("/{name}/result", actorHandler.ResultActor)
	})

	return r
}
