// Package severity classifies the severity of a patient message into one
// of a closed label set exposed by the classification model at load time.
package severity

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/domain/shaping"
	"github.com/carevox/medgate/internal/infra/inference"
)

// Service classifies patient messages.
type Service struct {
	reg     *registry.Registry
	backend inference.SeverityBackend
	policy  shaping.Policy

	mu     sync.RWMutex
	labels []string
}

// NewService creates a severity classification Service. The label map is
// populated by the registry loader (SetLabels) at process start.
func NewService(reg *registry.Registry, backend inference.SeverityBackend, policy shaping.Policy) *Service {
	return &Service{reg: reg, backend: backend, policy: policy}
}

// SetLabels records the classifier's closed label set, in index order.
// Called once from the pipeline loader; concurrent reads are safe after.
func (s *Service) SetLabels(labels []string) {
	s.mu.Lock()
	s.labels = append([]string(nil), labels...)
	s.mu.Unlock()
}

// Labels returns the declared label set.
func (s *Service) Labels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.labels...)
}

// Classify returns the highest-probability label for text.
//
// The input is shaped to the classifier's (short) budget, the backend
// returns one raw score per label, softmax normalizes them and the argmax
// label wins, ties resolving to the lowest index.
//
// Fails with registry.ErrModelUnavailable when the classification slot is
// not Ready; the HTTP layer converts that into the defined "Model not
// loaded" result rather than an error status.
func (s *Service) Classify(ctx context.Context, text string) (string, error) {
	if err := s.reg.CheckReady(registry.SlotSeverity); err != nil {
		return "", err
	}

	shaped := shaping.Shape(text, s.policy)
	scores, err := s.backend.ScoreLabels(ctx, shaped)
	if err != nil {
		return "", fmt.Errorf("severity: score labels: %w", err)
	}

	labels := s.Labels()
	if len(scores) == 0 || len(scores) != len(labels) {
		return "", fmt.Errorf("severity: %d scores for %d labels", len(scores), len(labels))
	}

	probs := softmax(scores)
	return labels[argmax(probs)], nil
}

// softmax converts raw scores into a probability distribution.
// Scores are shifted by their maximum before exponentiation for numeric
// stability; the argmax is unaffected.
func softmax(scores []float64) []float64 {
	maxScore := scores[argmax(scores)]

	exps := make([]float64, len(scores))
	var sum float64
	for i, v := range scores {
		exps[i] = math.Exp(v - maxScore)
		sum += exps[i]
	}
	for i := range exps {
		exps[i] /= sum
	}
	return exps
}

// argmax returns the index of the largest value, ties to the lowest index.
func argmax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}
