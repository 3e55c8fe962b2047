// HTTP handler for patient/doctor conversation summarization.
// POST /summarize — produces an abstractive summary of a conversation.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carevox/medgate/internal/domain/activity"
	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/domain/summary"
	"github.com/carevox/medgate/internal/infra/eventbus"
)

// ConversationHandler handles conversation summarization requests.
type ConversationHandler struct {
	summaries *summary.ConversationService
	bus       eventbus.EventBus
	timeout   time.Duration
}

// NewConversationHandler creates a ConversationHandler.
func NewConversationHandler(summaries *summary.ConversationService, bus eventbus.EventBus, timeout time.Duration) *ConversationHandler {
	return &ConversationHandler{summaries: summaries, bus: bus, timeout: timeout}
}

// summarizeRequest is the JSON request body for POST /summarize.
type summarizeRequest struct {
	Conversation string `json:"conversation"`
}

// summarizeResponse is the JSON response body for POST /summarize.
type summarizeResponse struct {
	Summary string `json:"summary"`
}

// Summarize handles POST /summarize.
func (h *ConversationHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	if req.Conversation == "" {
		// Validation short-circuit: the model is never invoked.
		writeError(w, http.StatusBadRequest, "No conversation provided")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	text, err := h.summaries.Summarize(ctx, req.Conversation)
	activity.Publish(h.bus, string(registry.SlotConvSummary), err)
	if errors.Is(err, registry.ErrModelUnavailable) {
		writeError(w, http.StatusInternalServerError, msgModelUnavailable)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to summarize conversation")
		return
	}

	writeJSON(w, http.StatusOK, summarizeResponse{Summary: text})
}
