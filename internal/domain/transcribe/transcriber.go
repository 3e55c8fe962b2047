// Package transcribe converts recorded patient audio into text.
//
// Recognition has three terminal outcomes: Recognized (confident text),
// Unintelligible (the recognizer produced no confident hypothesis — a
// normal result, not an error) and ServiceError (the recognition backend
// is unreachable or failing — non-fatal, reported with its diagnostic).
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/infra/inference"
)

// Outcome is the terminal state of one recognition attempt.
type Outcome string

const (
	OutcomeRecognized     Outcome = "recognized"
	OutcomeUnintelligible Outcome = "unintelligible"
	OutcomeServiceError   Outcome = "service_error"
)

// User-facing messages for non-recognized outcomes.
const (
	msgUnintelligible   = "Sorry, could not understand audio"
	msgServiceErrFormat = "Could not request results from speech recognition service; %v"
)

// Result is the outcome of transcribing one audio file. Message always
// carries user-facing text: the transcript when recognized, otherwise a
// human-readable explanation.
type Result struct {
	Outcome Outcome
	Message string
}

// Service transcribes audio files.
type Service struct {
	reg     *registry.Registry
	backend inference.SpeechBackend
}

// NewService creates a transcription Service.
func NewService(reg *registry.Registry, backend inference.SpeechBackend) *Service {
	return &Service{reg: reg, backend: backend}
}

// Transcribe reads the audio file at audioPath and submits it for
// recognition. Unintelligible audio and recognizer outages both produce a
// defined Result, never an error escaping to the caller; the only error
// returns are an unready pipeline (registry.ErrModelUnavailable) and an
// unreadable audio file.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if err := s.reg.CheckReady(registry.SlotTranscription); err != nil {
		return nil, err
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: read audio %q: %w", audioPath, err)
	}

	text, err := s.backend.Recognize(ctx, audio)
	switch {
	case errors.Is(err, inference.ErrUnintelligible):
		return &Result{Outcome: OutcomeUnintelligible, Message: msgUnintelligible}, nil
	case err != nil:
		return &Result{Outcome: OutcomeServiceError, Message: fmt.Sprintf(msgServiceErrFormat, err)}, nil
	}
	return &Result{Outcome: OutcomeRecognized, Message: text}, nil
}
