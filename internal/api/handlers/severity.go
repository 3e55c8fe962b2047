// HTTP handler for patient message severity triage.
// POST /patient-query — classifies a patient message into a severity label.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carevox/medgate/internal/domain/activity"
	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/domain/severity"
	"github.com/carevox/medgate/internal/infra/eventbus"
)

// SeverityHandler handles patient message triage requests.
type SeverityHandler struct {
	classifier *severity.Service
	bus        eventbus.EventBus
	timeout    time.Duration
}

// NewSeverityHandler creates a SeverityHandler.
func NewSeverityHandler(classifier *severity.Service, bus eventbus.EventBus, timeout time.Duration) *SeverityHandler {
	return &SeverityHandler{classifier: classifier, bus: bus, timeout: timeout}
}

// patientQueryRequest is the JSON request body for POST /patient-query.
type patientQueryRequest struct {
	Message string `json:"message"`
}

// patientQueryResponse is the JSON response body for POST /patient-query.
type patientQueryResponse struct {
	Response string `json:"response"`
}

// Classify handles POST /patient-query.
func (h *SeverityHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req patientQueryRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	label, err := h.classifier.Classify(ctx, req.Message)
	activity.Publish(h.bus, string(registry.SlotSeverity), err)
	if errors.Is(err, registry.ErrModelUnavailable) {
		// Degraded mode: the unloaded pipeline answers in-band with 200.
		writeJSON(w, http.StatusOK, patientQueryResponse{Response: msgModelUnavailable})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to classify message")
		return
	}

	writeJSON(w, http.StatusOK, patientQueryResponse{Response: label})
}
