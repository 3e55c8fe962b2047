// Package summary produces abstractive summaries of clinical documents and
// of patient/doctor conversations. The two summarizers are backed by
// independently loaded models and degrade independently.
package summary

import (
	"context"
	"fmt"

	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/domain/shaping"
	"github.com/carevox/medgate/internal/infra/inference"
)

// Summary length constraints for document summaries, in tokens.
// Decoding is always deterministic; see inference.SummaryRequest.
const (
	docSummaryMaxLength = 100
	docSummaryMinLength = 40
)

// DocumentResult is the document summarizer's output: the summary plus the
// full extracted source text, echoed back for the caller's display.
type DocumentResult struct {
	Summary    string
	SourceText string
}

// DocumentService summarizes uploaded documents.
type DocumentService struct {
	reg     *registry.Registry
	backend inference.SummaryBackend
	policy  shaping.Policy
}

// NewDocumentService creates a document summarizer. policy is the
// character budget applied before every backend call — content beyond the
// budget is never considered. This position bias is deliberate: it bounds
// latency and keeps the input inside the model's window.
func NewDocumentService(reg *registry.Registry, backend inference.SummaryBackend, policy shaping.Policy) *DocumentService {
	return &DocumentService{reg: reg, backend: backend, policy: policy}
}

// Summarize shapes text to the document budget and generates a summary of
// 40-100 tokens. The result echoes the full, unshaped source text.
// Fails with registry.ErrModelUnavailable when the slot is not Ready.
func (s *DocumentService) Summarize(ctx context.Context, text string) (*DocumentResult, error) {
	if err := s.reg.CheckReady(registry.SlotDocSummary); err != nil {
		return nil, err
	}

	shaped := shaping.Shape(text, s.policy)
	summaryText, err := s.backend.Summarize(ctx, inference.SummaryRequest{
		Text:      shaped,
		MaxLength: docSummaryMaxLength,
		MinLength: docSummaryMinLength,
	})
	if err != nil {
		return nil, fmt.Errorf("summary: summarize document: %w", err)
	}
	return &DocumentResult{Summary: summaryText, SourceText: text}, nil
}

// ConversationService summarizes multi-turn patient/doctor conversations.
type ConversationService struct {
	reg     *registry.Registry
	backend inference.SummaryBackend
}

// NewConversationService creates a conversation summarizer. Conversations
// are sent to the model unshaped — they are assumed short relative to the
// model's window.
func NewConversationService(reg *registry.Registry, backend inference.SummaryBackend) *ConversationService {
	return &ConversationService{reg: reg, backend: backend}
}

// Summarize generates a summary over the full conversation text.
// Fails with registry.ErrModelUnavailable when the slot is not Ready.
func (s *ConversationService) Summarize(ctx context.Context, conversation string) (string, error) {
	if err := s.reg.CheckReady(registry.SlotConvSummary); err != nil {
		return "", err
	}

	summaryText, err := s.backend.Summarize(ctx, inference.SummaryRequest{Text: conversation})
	if err != nil {
		return "", fmt.Errorf("summary: summarize conversation: %w", err)
	}
	return summaryText, nil
}
