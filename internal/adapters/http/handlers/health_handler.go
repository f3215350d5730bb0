package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-actor/internal/ports"
)

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a HealthHandler over registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. The process answering is the check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready: 200 when the inventory and every
// remote actor gateway are usable, 503 naming the failing checks otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	resp := dto.NewReadinessResponse(h.registry.CheckAll(r.Context()))
	status := http.StatusOK
	if !resp.Ready() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, resp)
}
