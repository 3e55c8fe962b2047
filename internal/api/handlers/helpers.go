// Shared helpers for the HTTP handlers.
package handlers

import (
	"encoding/json"
	"net/http"
)

const (
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"

	errInvalidBody        = "invalid request body"
	errFailedToEncodeJSON = `{"error":"failed to encode response"}`

	// msgModelUnavailable mirrors the degraded-mode contract: an unloaded
	// pipeline answers in the response field with HTTP 200, never a fault.
	msgModelUnavailable = "Model not loaded"
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, errFailedToEncodeJSON, http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
