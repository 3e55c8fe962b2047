package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/domain/severity"
	"github.com/carevox/medgate/internal/domain/shaping"
	"github.com/carevox/medgate/internal/infra/eventbus"
)

func newSeverityHandler(t *testing.T, backend *severityBackendStub, reg *registry.Registry) *SeverityHandler {
	t.Helper()
	svc := severity.NewService(reg, backend, shaping.DefaultPolicies().Severity)
	svc.SetLabels(backend.labels)
	return NewSeverityHandler(svc, eventbus.New(), time.Second)
}

func TestClassify_ReturnsLabel(t *testing.T) {
	backend := &severityBackendStub{
		labels: []string{"low", "medium", "high"},
		scores: []float64{0.1, 0.3, 2.5},
	}
	h := newSeverityHandler(t, backend, readyRegistry(t, registry.SlotSeverity))

	rr := postJSON(t, h.Classify, `{"message":"I have severe chest pain"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (%s)", rr.Code, rr.Body.String())
	}
	if got := decodeBody(t, rr)["response"]; got != "high" {
		t.Errorf("response = %q; want %q", got, "high")
	}
}

func TestClassify_ModelNotLoadedDegradesTo200(t *testing.T) {
	backend := &severityBackendStub{labels: []string{"low", "medium", "high"}}
	h := newSeverityHandler(t, backend, registry.New())

	rr := postJSON(t, h.Classify, `{"message":"I feel dizzy"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rr.Code)
	}
	if got := decodeBody(t, rr)["response"]; got != msgModelUnavailable {
		t.Errorf("response = %q; want %q", got, msgModelUnavailable)
	}
}

func TestClassify_NoMessage(t *testing.T) {
	backend := &severityBackendStub{labels: []string{"low", "medium", "high"}}
	h := newSeverityHandler(t, backend, readyRegistry(t, registry.SlotSeverity))

	rr := postJSON(t, h.Classify, `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rr.Code)
	}
}

func TestClassify_InvalidBody(t *testing.T) {
	backend := &severityBackendStub{labels: []string{"low"}}
	h := newSeverityHandler(t, backend, readyRegistry(t, registry.SlotSeverity))

	rr := postJSON(t, h.Classify, `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rr.Code)
	}
}
