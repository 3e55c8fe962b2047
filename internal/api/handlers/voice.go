// HTTP handler for audio transcription.
// POST /process-voice — transcribes a recorded audio file to text.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carevox/medgate/internal/domain/activity"
	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/domain/transcribe"
	"github.com/carevox/medgate/internal/infra/eventbus"
)

// VoiceHandler handles audio transcription requests.
type VoiceHandler struct {
	transcriber *transcribe.Service
	bus         eventbus.EventBus
	timeout     time.Duration
}

// NewVoiceHandler creates a VoiceHandler.
func NewVoiceHandler(transcriber *transcribe.Service, bus eventbus.EventBus, timeout time.Duration) *VoiceHandler {
	return &VoiceHandler{transcriber: transcriber, bus: bus, timeout: timeout}
}

// processVoiceRequest is the JSON request body for POST /process-voice.
type processVoiceRequest struct {
	AudioPath string `json:"audio_path"`
}

// processVoiceResponse is the JSON response body for POST /process-voice.
// Message carries the transcript or a human-readable reason; unintelligible
// audio and recognizer outages are normal 200 results, not faults.
type processVoiceResponse struct {
	Message string `json:"message"`
}

// Process handles POST /process-voice.
func (h *VoiceHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req processVoiceRequest
	if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	if req.AudioPath == "" {
		writeError(w, http.StatusBadRequest, "No audio path provided")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.transcriber.Transcribe(ctx, req.AudioPath)
	activity.Publish(h.bus, string(registry.SlotTranscription), err)
	if errors.Is(err, registry.ErrModelUnavailable) {
		writeError(w, http.StatusInternalServerError, msgModelUnavailable)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio file")
		return
	}

	writeJSON(w, http.StatusOK, processVoiceResponse{Message: result.Message})
}
