// Package handlers provides the inbound HTTP handlers for the actor gateway.
package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-actor/internal/ports"
	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

// ActorHandler handles the actor catalog endpoints.
type ActorHandler struct {
	svc ports.ActorService
}

// NewActorHandler creates a new ActorHandler backed by the given service.
func NewActorHandler(svc ports.ActorService) *ActorHandler {
	return &ActorHandler{svc: svc}
}

// ListActors handles GET /api/v1/actors.
func (h *ActorHandler) ListActors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.ToActorListResponse(h.svc.List(r.Context())))
}

// CallActor handles POST /api/v1/actors/{name}/call. A business failure is
// answered with 422 and the failed result in the problem body. Every run
// answer carries the X-Actor-Outcome header.
func (h *ActorHandler) CallActor(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.svc.Call)
}

// ResultActor handles POST /api/v1/actors/{name}/result. A business failure
// is answered with 200 and failure set in the body.
func (h *ActorHandler) ResultActor(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.svc.Result)
}

type runFunc func(ctx context.Context, name string, values actor.Values) (*actor.Result, error)

func (h *ActorHandler) run(w http.ResponseWriter, r *http.Request, fn runFunc) {
	values, ok := decodeValues(w, r)
	if !ok {
		return
	}

	res, err := fn(r.Context(), chi.URLParam(r, "name"), values)
	dto.SetRunHeaders(w.Header(), res, err)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToResultResponse(res))
}
