// Package inference defines the model-agnostic backend abstraction for the
// gateway's pipelines. All types here are shared between the backend
// interfaces and adapters.
package inference

import "errors"

// ErrTokenLimit is returned when an input pair exceeds the absolute token
// limit of the underlying model even after shaping. Callers propagate it;
// nothing silently truncates a second time.
var ErrTokenLimit = errors.New("input exceeds model token limit")

// ErrUnintelligible is returned by speech backends when the audio cannot be
// mapped to any confident text. It is a normal, expected outcome.
var ErrUnintelligible = errors.New("could not understand audio")

// SpanScores is the output of the QA scoring call: the joint token sequence
// of (question, context) plus one start- and one end-likelihood score per
// token position. StartScores and EndScores have the same length as Tokens.
type SpanScores struct {
	Tokens      []string  `json:"tokens"`
	StartScores []float64 `json:"start_scores"`
	EndScores   []float64 `json:"end_scores"`
}

// SummaryRequest is the input for an abstractive summarization call.
// Decoding is always deterministic (no sampling) for reproducibility.
type SummaryRequest struct {
	// Model overrides the backend default when non-empty.
	Model     string
	Text      string
	MaxLength int // max summary length in tokens; 0 means backend default
	MinLength int // min summary length in tokens
}

// ModelMeta describes a served model's identity.
type ModelMeta struct {
	ID        string // e.g. "distilbert-base-cased-distilled-squad"
	Provider  string // e.g. "modelserver"
	MaxTokens int    // absolute context window size
}
