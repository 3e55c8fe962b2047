// Shared test harness for the HTTP handlers: stub inference backends and
// a registry helper that marks the given pipelines Ready.
package handlers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/carevox/medgate/internal/domain/document"
	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/infra/inference"
	"github.com/carevox/medgate/internal/infra/sqlite"
)

// readyRegistry returns a registry with the given slots Ready and every
// other slot Unloaded.
func readyRegistry(t *testing.T, slots ...registry.SlotName) *registry.Registry {
	t.Helper()
	reg := registry.New()
	loaders := make(map[registry.SlotName]registry.Loader, len(slots))
	for _, name := range slots {
		loaders[name] = func(context.Context) error { return nil }
	}
	reg.Load(context.Background(), loaders)
	return reg
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func newDocumentService(t *testing.T) *document.Service {
	t.Helper()
	svc, err := document.NewService(setupTestDB(t), t.TempDir())
	if err != nil {
		t.Fatalf("document.NewService error = %v", err)
	}
	return svc
}

// qaBackendStub returns fixed span scores.
type qaBackendStub struct {
	scores *inference.SpanScores
	err    error
}

func (s *qaBackendStub) ScoreSpans(context.Context, string, string) (*inference.SpanScores, error) {
	return s.scores, s.err
}

// severityBackendStub returns a fixed label set and fixed raw scores.
type severityBackendStub struct {
	labels []string
	scores []float64
	err    error
}

func (s *severityBackendStub) Labels(context.Context) ([]string, error) {
	return s.labels, nil
}

func (s *severityBackendStub) ScoreLabels(context.Context, string) ([]float64, error) {
	return s.scores, s.err
}

// summaryBackendStub records requests and returns a fixed summary.
type summaryBackendStub struct {
	out   string
	err   error
	calls int
}

func (s *summaryBackendStub) Summarize(_ context.Context, req inference.SummaryRequest) (string, error) {
	s.calls++
	return s.out, s.err
}

// speechBackendStub returns a fixed transcript or error.
type speechBackendStub struct {
	text string
	err  error
}

func (s *speechBackendStub) Recognize(context.Context, []byte) (string, error) {
	return s.text, s.err
}
