package qa

import (
	"context"
	"errors"
	"fmt"

	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/domain/shaping"
	"github.com/carevox/medgate/internal/infra/inference"
)

// ErrEncoding is returned when the (question, context) pair exceeds the
// absolute token limit of the underlying model even after shaping.
var ErrEncoding = errors.New("input pair exceeds model encoding limit")

// Service answers free-text questions against document text.
type Service struct {
	reg     *registry.Registry
	backend inference.QABackend
	policy  shaping.Policy
}

// NewService creates a QA Service. policy is the context-shaping budget
// applied before every backend call.
func NewService(reg *registry.Registry, backend inference.QABackend, policy shaping.Policy) *Service {
	return &Service{reg: reg, backend: backend, policy: policy}
}

// Answer selects the most likely answer span for question within
// contextText.
//
// The context is shaped to the QA budget, the backend jointly encodes the
// pair and scores every token position, and the answer is the decoded
// text of tokens [argmax(start), argmax(end)+1). Ties resolve to the
// lowest index. An end index preceding the start decodes to the empty
// string (defined degenerate case).
//
// Fails with registry.ErrModelUnavailable when the QA slot is not Ready
// and with ErrEncoding when the shaped pair still exceeds the model's
// absolute token limit.
func (s *Service) Answer(ctx context.Context, contextText, question string) (string, error) {
	if err := s.reg.CheckReady(registry.SlotQA); err != nil {
		return "", err
	}

	shaped := shaping.Shape(contextText, s.policy)
	scores, err := s.backend.ScoreSpans(ctx, question, shaped)
	if err != nil {
		if errors.Is(err, inference.ErrTokenLimit) {
			return "", fmt.Errorf("%w: %w", ErrEncoding, err)
		}
		return "", fmt.Errorf("qa: score spans: %w", err)
	}
	if len(scores.Tokens) == 0 ||
		len(scores.StartScores) != len(scores.Tokens) ||
		len(scores.EndScores) != len(scores.Tokens) {
		return "", fmt.Errorf("qa: backend returned misaligned scores (%d tokens, %d start, %d end)",
			len(scores.Tokens), len(scores.StartScores), len(scores.EndScores))
	}

	start, end := selectSpan(scores.StartScores, scores.EndScores)
	if start >= end {
		// Degenerate span: end precedes start, the answer is empty.
		return "", nil
	}
	return decodeTokens(scores.Tokens[start:end]), nil
}
