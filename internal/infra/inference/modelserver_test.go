// Unit tests for the ModelServer HTTP adapter.
// Uses httptest.NewServer to mock the model-server REST API — no real
// model server needed.
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestModelServer_ScoreSpans_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/qa/score" || r.Method != http.MethodPost {
			http.Error(w, "unexpected path", http.StatusNotFound)
			return
		}
		var req qaScoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SpanScores{ //nolint:errcheck
			Tokens:      []string{"[CLS]", "what", "[SEP]", "fever", "101f"},
			StartScores: []float64{0.1, 0.2, 0.1, 0.9, 0.3},
			EndScores:   []float64{0.1, 0.1, 0.1, 0.2, 0.8},
		})
	}))
	defer srv.Close()

	m := NewModelServer(srv.URL, "distilbert-squad")
	scores, err := m.ScoreSpans(context.Background(), "What is the temperature?", "fever of 101F")
	if err != nil {
		t.Fatalf("ScoreSpans failed: %v", err)
	}
	if len(scores.Tokens) != 5 || len(scores.StartScores) != 5 || len(scores.EndScores) != 5 {
		t.Errorf("expected 5 aligned positions, got %d/%d/%d",
			len(scores.Tokens), len(scores.StartScores), len(scores.EndScores))
	}
}

func TestModelServer_ScoreSpans_TokenLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too long", http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	m := NewModelServer(srv.URL, "distilbert-squad")
	_, err := m.ScoreSpans(context.Background(), "q", "very long context")
	if !errors.Is(err, ErrTokenLimit) {
		t.Errorf("expected ErrTokenLimit, got %v", err)
	}
}

func TestModelServer_Labels_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/classify/labels" {
			http.Error(w, "unexpected path", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(classifyLabelsResponse{Labels: []string{"low", "medium", "high"}}) //nolint:errcheck
	}))
	defer srv.Close()

	m := NewModelServer(srv.URL, "severity-bert")
	labels, err := m.Labels(context.Background())
	if err != nil {
		t.Fatalf("Labels failed: %v", err)
	}
	if len(labels) != 3 || labels[2] != "high" {
		t.Errorf("unexpected labels: %v", labels)
	}
}

func TestModelServer_ScoreLabels_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/classify/score" {
			http.Error(w, "unexpected path", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(classifyScoreResponse{Scores: []float64{-1.2, 0.4, 3.1}}) //nolint:errcheck
	}))
	defer srv.Close()

	m := NewModelServer(srv.URL, "severity-bert")
	scores, err := m.ScoreLabels(context.Background(), "severe chest pain")
	if err != nil {
		t.Fatalf("ScoreLabels failed: %v", err)
	}
	if len(scores) != 3 {
		t.Errorf("expected 3 scores, got %d", len(scores))
	}
}

func TestModelServer_Summarize_SendsDeterministicDecoding(t *testing.T) {
	t.Parallel()

	var got summarizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summarizeResponse{Summary: "short summary"}) //nolint:errcheck
	}))
	defer srv.Close()

	m := NewModelServer(srv.URL, "bart-clinical")
	summary, err := m.Summarize(context.Background(), SummaryRequest{Text: "long document", MaxLength: 100, MinLength: 40})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary != "short summary" {
		t.Errorf("summary = %q", summary)
	}
	if got.DoSample {
		t.Error("do_sample must always be false")
	}
	if got.MaxLength != 100 || got.MinLength != 40 {
		t.Errorf("length constraints not forwarded: max=%d min=%d", got.MaxLength, got.MinLength)
	}
}

func TestModelServer_Recognize_Unintelligible(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no confident hypothesis", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m := NewModelServer(srv.URL, "asr-base")
	_, err := m.Recognize(context.Background(), []byte{0x52, 0x49, 0x46, 0x46})
	if !errors.Is(err, ErrUnintelligible) {
		t.Errorf("expected ErrUnintelligible, got %v", err)
	}
}

func TestModelServer_Recognize_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != mimeOctetStream {
			http.Error(w, "bad content type", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transcribeResponse{Text: "I have a headache"}) //nolint:errcheck
	}))
	defer srv.Close()

	m := NewModelServer(srv.URL, "asr-base")
	text, err := m.Recognize(context.Background(), []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "I have a headache" {
		t.Errorf("text = %q", text)
	}
}

func TestModelServer_HealthCheck(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models/good-model" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	if err := NewModelServer(srv.URL, "good-model").HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck(good-model) = %v; want nil", err)
	}
	if err := NewModelServer(srv.URL, "missing-model").HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck(missing-model) should fail")
	}
}

func TestModelServer_ServerError_ReturnsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewModelServer(srv.URL, "any")
	if _, err := m.ScoreLabels(context.Background(), "text"); err == nil {
		t.Error("expected error for 500 response, got nil")
	}
	if _, err := m.Summarize(context.Background(), SummaryRequest{Text: "t"}); err == nil {
		t.Error("expected error for 500 response, got nil")
	}
}
