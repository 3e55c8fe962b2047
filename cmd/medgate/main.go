// MedGate - document and speech intelligence gateway.
// Entry point: flags, env, pipeline loading, graceful shutdown.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/carevox/medgate/internal/api"
	"github.com/carevox/medgate/internal/domain/activity"
	"github.com/carevox/medgate/internal/domain/document"
	"github.com/carevox/medgate/internal/domain/qa"
	"github.com/carevox/medgate/internal/domain/registry"
	"github.com/carevox/medgate/internal/domain/severity"
	"github.com/carevox/medgate/internal/domain/shaping"
	"github.com/carevox/medgate/internal/domain/summary"
	"github.com/carevox/medgate/internal/domain/transcribe"
	"github.com/carevox/medgate/internal/infra/config"
	"github.com/carevox/medgate/internal/infra/eventbus"
	"github.com/carevox/medgate/internal/infra/inference"
	"github.com/carevox/medgate/internal/infra/sqlite"
	"github.com/carevox/medgate/internal/server"
	"github.com/carevox/medgate/internal/version"
)

const loadTimeout = 30 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("medgate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	if err := serve(); err != nil {
		slog.Error("medgate exited", "error", err)
		return 1
	}
	return 0
}

func serve() error {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	policies := shaping.DefaultPolicies()
	if cfg.ShapingPolicies != "" {
		policies, err = shaping.LoadPolicies(cfg.ShapingPolicies)
		if err != nil {
			return err
		}
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := sqlite.MigrateUp(db); err != nil {
		return err
	}

	docs, err := document.NewService(db, cfg.UploadDir)
	if err != nil {
		return err
	}

	qaBackend := inference.NewModelServer(cfg.ModelServerURL, cfg.QAModel)
	severityBackend := inference.NewModelServer(cfg.ModelServerURL, cfg.SeverityModel)
	docSummaryBackend := inference.NewModelServer(cfg.ModelServerURL, cfg.DocSummaryModel)
	convSummaryBackend := inference.NewModelServer(cfg.ModelServerURL, cfg.ConvSummaryModel)
	speechBackend := inference.NewModelServer(cfg.ModelServerURL, cfg.TranscriptionModel)

	reg := registry.New()
	severityService := severity.NewService(reg, severityBackend, policies.Severity)

	// Load every pipeline once; a failed probe leaves its slot Failed and
	// the gateway serves the remaining capabilities.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), loadTimeout)
	defer cancelLoad()
	reg.Load(loadCtx, map[registry.SlotName]registry.Loader{
		registry.SlotQA:            qaBackend.HealthCheck,
		registry.SlotDocSummary:    docSummaryBackend.HealthCheck,
		registry.SlotConvSummary:   convSummaryBackend.HealthCheck,
		registry.SlotTranscription: speechBackend.HealthCheck,
		registry.SlotSeverity: func(ctx context.Context) error {
			if err := severityBackend.HealthCheck(ctx); err != nil {
				return err
			}
			labels, err := severityBackend.Labels(ctx)
			if err != nil {
				return err
			}
			severityService.SetLabels(labels)
			return nil
		},
	})
	for name, state := range reg.States() {
		if state != registry.StateReady {
			slog.Warn("pipeline unavailable", "pipeline", name, "state", state, "error", reg.Get(name).Err())
		}
	}

	bus := eventbus.New()
	busCtx, cancelBus := context.WithCancel(context.Background())
	defer cancelBus()
	recorder := activity.NewRecorder(db, slog.Default())
	go recorder.Start(busCtx, bus)

	router := api.NewRouter(api.Deps{
		Registry:         reg,
		QA:               qa.NewService(reg, qaBackend, policies.QA),
		Severity:         severityService,
		DocSummary:       summary.NewDocumentService(reg, docSummaryBackend, policies.DocumentSummary),
		ConvSummary:      summary.NewConversationService(reg, convSummaryBackend),
		Transcriber:      transcribe.NewService(reg, speechBackend),
		Documents:        docs,
		Bus:              bus,
		InferenceTimeout: cfg.InferenceTimeout,
	})

	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.Host
	srvCfg.Port = cfg.Port
	srv := server.NewServer(router, db, srvCfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(context.Background())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-stop:
		slog.Info("signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printHelp(out io.Writer) {
	helpText := `MedGate - document and speech intelligence gateway

Usage:
  medgate [options]

Options:
  --version    Show version information
  --help       Show this help message

Environment:
  PORT                  HTTP port (default 8080)
  DB_PATH               SQLite database path (default medgate.sqlite)
  UPLOAD_DIR            Directory for uploaded PDFs (default uploads)
  MODEL_SERVER_URL      Inference model server base URL
  INFERENCE_TIMEOUT     Per-request inference timeout (default 60s)
  SHAPING_POLICIES      Optional YAML file overriding input budgets

Examples:
  medgate --version
  PORT=8081 medgate`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
