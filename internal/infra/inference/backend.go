// Backend interfaces, one per capability. Adapters (the model server
// client, test stubs) implement these so the domain services are never
// coupled to a specific serving stack.
package inference

import "context"

// QABackend jointly encodes a (question, context) pair and scores every
// token position for answer start/end likelihood. The encoding scheme is
// opaque to callers; span selection over the scores is the caller's job.
type QABackend interface {
	ScoreSpans(ctx context.Context, question, contextText string) (*SpanScores, error)
}

// SeverityBackend exposes the classifier's closed label set and raw
// (pre-softmax) per-label scores.
type SeverityBackend interface {
	// Labels returns the label map in index order. Known at model-load time.
	Labels(ctx context.Context) ([]string, error)

	// ScoreLabels returns one raw score per label, index-aligned with Labels.
	ScoreLabels(ctx context.Context, text string) ([]float64, error)
}

// SummaryBackend performs abstractive sequence-to-sequence summarization.
type SummaryBackend interface {
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
}

// SpeechBackend maps recorded audio to text. Returns ErrUnintelligible when
// recognition produces no confident text; any other error is a service
// failure of the recognition backend.
type SpeechBackend interface {
	Recognize(ctx context.Context, audio []byte) (string, error)
}

// HealthChecker is implemented by backends that can be probed at load time.
type HealthChecker interface {
	// HealthCheck returns nil if the backing model is loaded and usable.
	HealthCheck(ctx context.Context) error
}
