// Route registration and go-chi router setup.
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carevox/medgate/internal/api/handlers"
	"github.com/carevox/medgate/internal/domain/document"
	"github.com/carevox/medgate/internal/domain/qa"
	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/domain/severity"
	"github.com/carevox/medgate/internal/domain/summary"
	"github.com/carevox/medgate/internal/domain/transcribe"
	"github.com/carevox/medgate/internal/infra/eventbus"
)

// Deps carries the constructed services the routes are built on. All
// fields are required.
type Deps struct {
	Registry    *registry.Registry
	QA          *qa.Service
	Severity    *severity.Service
	DocSummary  *summary.DocumentService
	ConvSummary *summary.ConversationService
	Transcriber *transcribe.Service
	Documents   *document.Service
	Bus         eventbus.EventBus

	// InferenceTimeout bounds each adapter call; inference latency is
	// otherwise unbounded.
	InferenceTimeout time.Duration
}

// NewRouter creates and configures a new chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	queryHandler := handlers.NewQueryHandler(deps.QA, deps.Documents, deps.Bus, deps.InferenceTimeout)
	documentHandler := handlers.NewDocumentHandler(deps.Documents, deps.DocSummary, deps.Bus, deps.InferenceTimeout)
	severityHandler := handlers.NewSeverityHandler(deps.Severity, deps.Bus, deps.InferenceTimeout)
	voiceHandler := handlers.NewVoiceHandler(deps.Transcriber, deps.Bus, deps.InferenceTimeout)
	conversationHandler := handlers.NewConversationHandler(deps.ConvSummary, deps.Bus, deps.InferenceTimeout)
	healthHandler := handlers.NewHealthHandler(deps.Registry)

	// Health check — used by load balancers and health probes; reports
	// per-pipeline states for degraded-mode visibility.
	r.Get("/health", healthHandler.Health)

	r.Post("/query", queryHandler.Query)
	r.Post("/upload-pdf", documentHandler.Upload)
	r.Post("/process-pdf", documentHandler.Process)
	r.Get("/documents", documentHandler.List)
	r.Post("/patient-query", severityHandler.Classify)
	r.Post("/process-voice", voiceHandler.Process)
	r.Post("/summarize", conversationHandler.Summarize)

	return r
}
