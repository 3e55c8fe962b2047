// HTTP handlers for document upload, processing and listing.
// POST /upload-pdf — persist an uploaded PDF, extract and summarize it.
// POST /process-pdf — summarize a stored document or a PDF on disk.
// GET /documents — list stored documents, newest first.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carevox/medgate/internal/domain/activity"
	"github.com/carevox/medgate/internal/domain/document"
	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/domain/summary"
	"github.com/carevox/medgate/internal/infra/eventbus"
)

// uploadMaxMemory bounds the in-memory part of multipart parsing; larger
// files spill to temp storage.
const uploadMaxMemory = 32 << 20

// DocumentHandler handles document upload, summarization and listing.
type DocumentHandler struct {
	docs      *document.Service
	summaries *summary.DocumentService
	bus       eventbus.EventBus
	timeout   time.Duration
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(docs *document.Service, summaries *summary.DocumentService, bus eventbus.EventBus, timeout time.Duration) *DocumentHandler {
	return &DocumentHandler{docs: docs, summaries: summaries, bus: bus, timeout: timeout}
}

// processRequest is the JSON request body for POST /process-pdf. FilePath
// is a stored document ID or a filesystem path.
type processRequest struct {
	FilePath string `json:"file_path"`
}

// summaryResponse is the JSON response body for both PDF endpoints:
// the summary plus the full extracted text the summary was drawn from.
type summaryResponse struct {
	Response string `json:"response"`
	PDFData  string `json:"pdfData"`
	ID       string `json:"id,omitempty"`
}

// Upload handles POST /upload-pdf.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMaxMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	doc, err := h.docs.SaveUpload(ctx, header.Filename, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store document")
		return
	}

	h.summarizeDocument(ctx, w, doc.ID)
}

// Process handles POST /process-pdf.
func (h *DocumentHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	if req.FilePath == "" {
		writeError(w, http.StatusBadRequest, "No file path provided")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.summarizeDocument(ctx, w, req.FilePath)
}

// List handles GET /documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []document.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// summarizeDocument resolves ref to text, summarizes it and writes the
// shared response shape.
func (h *DocumentHandler) summarizeDocument(ctx context.Context, w http.ResponseWriter, ref string) {
	text, err := h.docs.Text(ctx, ref)
	if errors.Is(err, document.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to extract document text")
		return
	}

	result, err := h.summaries.Summarize(ctx, text)
	activity.Publish(h.bus, string(registry.SlotDocSummary), err)
	if errors.Is(err, registry.ErrModelUnavailable) {
		writeError(w, http.StatusInternalServerError, msgModelUnavailable)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to summarize document")
		return
	}

	resp := summaryResponse{Response: result.Summary, PDFData: result.SourceText}
	if doc, getErr := h.docs.Get(ctx, ref); getErr == nil {
		resp.ID = doc.ID
	}
	writeJSON(w, http.StatusOK, resp)
}
