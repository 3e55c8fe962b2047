// HTTP handler for extractive document question answering.
// POST /query — answers a free-text question against an uploaded document.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carevox/medgate/internal/domain/activity"
	"github.com/carevox/medgate/internal/domain/document"
	"github.com/carevox/medgate/internal/domain/qa"
	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/infra/eventbus"
)

// msgUploadFirst is returned when a question arrives without a resolvable
// document context. Business short-circuit, HTTP 200.
const msgUploadFirst = "Please upload a document to ask questions about it."

// QueryHandler handles document QA requests.
type QueryHandler struct {
	qa      *qa.Service
	docs    *document.Service
	bus     eventbus.EventBus
	timeout time.Duration
}

// NewQueryHandler creates a QueryHandler.
func NewQueryHandler(qaSvc *qa.Service, docs *document.Service, bus eventbus.EventBus, timeout time.Duration) *QueryHandler {
	return &QueryHandler{qa: qaSvc, docs: docs, bus: bus, timeout: timeout}
}

// queryRequest is the JSON request body for POST /query. FilePath is a
// stored document ID or a filesystem path.
type queryRequest struct {
	Message  string `json:"message"`
	FilePath string `json:"file_path,omitempty"`
}

// queryResponse is the JSON response body for POST /query.
type queryResponse struct {
	Response string `json:"response"`
}

// Query handles POST /query.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}
	if req.FilePath == "" {
		writeJSON(w, http.StatusOK, queryResponse{Response: msgUploadFirst})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	text, err := h.docs.Text(ctx, req.FilePath)
	if errors.Is(err, document.ErrNotFound) {
		writeJSON(w, http.StatusOK, queryResponse{Response: msgUploadFirst})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read document")
		return
	}

	answer, err := h.qa.Answer(ctx, text, req.Message)
	activity.Publish(h.bus, string(registry.SlotQA), err)
	switch {
	case errors.Is(err, registry.ErrModelUnavailable):
		writeJSON(w, http.StatusOK, queryResponse{Response: msgModelUnavailable})
		return
	case errors.Is(err, qa.ErrEncoding):
		writeError(w, http.StatusUnprocessableEntity, "question and document exceed the model input limit")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to answer question")
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{Response: answer})
}
