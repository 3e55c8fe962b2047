// HTTP handler for the health endpoint.
// GET /health — overall status plus per-pipeline slot states, the
// degraded-mode dashboard for fail-soft routing.
package handlers

import (
	"net/http"

	"github.com/carevox/medgate/internal/domain/registry"
)

// HealthHandler reports service and pipeline health.
type HealthHandler struct {
	reg *registry.Registry
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(reg *registry.Registry) *HealthHandler {
	return &HealthHandler{reg: reg}
}

// healthResponse is the JSON response body for GET /health.
type healthResponse struct {
	Status    string            `json:"status"`
	Pipelines map[string]string `json:"pipelines"`
}

// Health handles GET /health. The endpoint reports 200 even when
// pipelines failed to load: a degraded gateway still serves requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	states := h.reg.States()
	pipelines := make(map[string]string, len(states))
	degraded := false
	for name, state := range states {
		pipelines[string(name)] = string(state)
		if state != registry.StateReady {
			degraded = true
		}
	}

	status := "ok"
	if degraded {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: status, Pipelines: pipelines})
}
