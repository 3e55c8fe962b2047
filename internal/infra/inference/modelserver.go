// Model server HTTP adapter. ModelServer calls a local model-serving
// sidecar over its REST API using stdlib net/http.
// Endpoints used:
//   - POST /v1/qa/score          — joint (question, context) span scoring
//   - POST /v1/classify/score    — raw per-label scores
//   - GET  /v1/classify/labels   — the classifier's label map
//   - POST /v1/summarize         — abstractive summarization
//   - POST /v1/transcribe        — speech recognition over raw audio bytes
//   - GET  /v1/models/{model}    — load-time health probe
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	mimeJSON          = "application/json"
	mimeOctetStream   = "application/octet-stream"
	headerContentType = "Content-Type"
)

// ModelServer implements the backend interfaces against one served model.
// Each pipeline gets its own instance bound to its own model name.
type ModelServer struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewModelServer creates a ModelServer client with a 60s default timeout.
// Inference latency is unbounded in principle; the request-level timeout
// at the handler boundary is the tighter limit.
func NewModelServer(baseURL, model string) *ModelServer {
	return &ModelServer{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ─── internal wire types ─────────────────────────────────────────────────────

type qaScoreRequest struct {
	Model    string `json:"model"`
	Question string `json:"question"`
	Context  string `json:"context"`
}

type classifyScoreRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

type classifyScoreResponse struct {
	Scores []float64 `json:"scores"`
}

type classifyLabelsResponse struct {
	Labels []string `json:"labels"`
}

type summarizeRequest struct {
	Model     string `json:"model"`
	Text      string `json:"text"`
	MaxLength int    `json:"max_length,omitempty"`
	MinLength int    `json:"min_length,omitempty"`
	DoSample  bool   `json:"do_sample"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// ─── backend implementations ────────────────────────────────────────────────

// ScoreSpans scores every token position of the jointly encoded
// (question, context) pair via POST /v1/qa/score.
// A 413 from the server means the pair exceeds the model's absolute token
// limit and maps to ErrTokenLimit.
func (m *ModelServer) ScoreSpans(ctx context.Context, question, contextText string) (*SpanScores, error) {
	body, err := json.Marshal(qaScoreRequest{Model: m.model, Question: question, Context: contextText})
	if err != nil {
		return nil, err
	}

	respBody, postErr := m.doPost(ctx, "/v1/qa/score", mimeJSON, body)
	if postErr != nil {
		return nil, postErr
	}
	defer respBody.Close() //nolint:errcheck

	var scores SpanScores
	if decodeErr := json.NewDecoder(respBody).Decode(&scores); decodeErr != nil {
		return nil, fmt.Errorf("decode qa score response: %w", decodeErr)
	}
	return &scores, nil
}

// Labels returns the classifier's label map via GET /v1/classify/labels.
func (m *ModelServer) Labels(ctx context.Context) ([]string, error) {
	respBody, err := m.doGet(ctx, "/v1/classify/labels?model="+url.QueryEscape(m.model))
	if err != nil {
		return nil, err
	}
	defer respBody.Close() //nolint:errcheck

	var resp classifyLabelsResponse
	if decodeErr := json.NewDecoder(respBody).Decode(&resp); decodeErr != nil {
		return nil, fmt.Errorf("decode labels response: %w", decodeErr)
	}
	return resp.Labels, nil
}

// ScoreLabels returns raw (pre-softmax) per-label scores via POST /v1/classify/score.
func (m *ModelServer) ScoreLabels(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(classifyScoreRequest{Model: m.model, Text: text})
	if err != nil {
		return nil, err
	}

	respBody, postErr := m.doPost(ctx, "/v1/classify/score", mimeJSON, body)
	if postErr != nil {
		return nil, postErr
	}
	defer respBody.Close() //nolint:errcheck

	var resp classifyScoreResponse
	if decodeErr := json.NewDecoder(respBody).Decode(&resp); decodeErr != nil {
		return nil, fmt.Errorf("decode classify score response: %w", decodeErr)
	}
	return resp.Scores, nil
}

// Summarize performs deterministic abstractive summarization via POST /v1/summarize.
func (m *ModelServer) Summarize(ctx context.Context, req SummaryRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = m.model
	}

	body, err := json.Marshal(summarizeRequest{
		Model:     model,
		Text:      req.Text,
		MaxLength: req.MaxLength,
		MinLength: req.MinLength,
		DoSample:  false,
	})
	if err != nil {
		return "", err
	}

	respBody, postErr := m.doPost(ctx, "/v1/summarize", mimeJSON, body)
	if postErr != nil {
		return "", postErr
	}
	defer respBody.Close() //nolint:errcheck

	var resp summarizeResponse
	if decodeErr := json.NewDecoder(respBody).Decode(&resp); decodeErr != nil {
		return "", fmt.Errorf("decode summarize response: %w", decodeErr)
	}
	return resp.Summary, nil
}

// Recognize submits raw audio bytes via POST /v1/transcribe.
// A 422 from the recognizer means no confident transcription exists and
// maps to ErrUnintelligible.
func (m *ModelServer) Recognize(ctx context.Context, audio []byte) (string, error) {
	respBody, err := m.doPost(ctx, "/v1/transcribe?model="+url.QueryEscape(m.model), mimeOctetStream, audio)
	if err != nil {
		return "", err
	}
	defer respBody.Close() //nolint:errcheck

	var resp transcribeResponse
	if decodeErr := json.NewDecoder(respBody).Decode(&resp); decodeErr != nil {
		return "", fmt.Errorf("decode transcribe response: %w", decodeErr)
	}
	return resp.Text, nil
}

// ModelInfo returns static metadata for this client's model.
func (m *ModelServer) ModelInfo() ModelMeta {
	return ModelMeta{
		ID:       m.model,
		Provider: "modelserver",
	}
}

// HealthCheck probes GET /v1/models/{model} — returns nil if the model is
// loaded and servable.
func (m *ModelServer) HealthCheck(ctx context.Context) error {
	respBody, err := m.doGet(ctx, "/v1/models/"+url.PathEscape(m.model))
	if err != nil {
		return fmt.Errorf("modelserver healthcheck %s: %w", m.model, err)
	}
	respBody.Close() //nolint:errcheck
	return nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// doPost sends a POST request to baseURL+path and returns the response body.
// Caller is responsible for closing the returned ReadCloser.
func (m *ModelServer) doPost(ctx context.Context, path, contentType string, body []byte) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("modelserver post %s: build request: %w", path, err)
	}
	req.Header.Set(headerContentType, contentType)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("modelserver post %s: %w", path, err)
	}
	if sentinelErr := statusSentinel(resp.StatusCode); sentinelErr != nil {
		resp.Body.Close() //nolint:errcheck
		return nil, sentinelErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("modelserver post %s: status %d", path, resp.StatusCode)
	}
	return resp.Body, nil
}

// doGet sends a GET request to baseURL+path and returns the response body.
func (m *ModelServer) doGet(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("modelserver get %s: build request: %w", path, err)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("modelserver get %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("modelserver get %s: status %d", path, resp.StatusCode)
	}
	return resp.Body, nil
}

// statusSentinel maps well-known model-server statuses to typed errors.
func statusSentinel(status int) error {
	switch status {
	case http.StatusRequestEntityTooLarge:
		return ErrTokenLimit
	case http.StatusUnprocessableEntity:
		return ErrUnintelligible
	default:
		return nil
	}
}
