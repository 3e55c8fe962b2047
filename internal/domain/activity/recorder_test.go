package activity

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/carevox/medgate/internal/infra/eventbus"
	"github.com/carevox/medgate/internal/infra/sqlite"
)

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

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAppend_PersistsEvent(t *testing.T) {
	rec := NewRecorder(setupTestDB(t), discardLogger())

	err := rec.Append(context.Background(), Event{Task: "qa", Outcome: OutcomeOK})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	records, err := rec.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records; want 1", len(records))
	}
	if records[0].Task != "qa" || records[0].Outcome != OutcomeOK {
		t.Errorf("record = %+v", records[0])
	}
	if records[0].ID == "" {
		t.Error("record ID is empty")
	}
}

func TestPublish_ErrorOutcomeCarriesDetail(t *testing.T) {
	bus := eventbus.New()
	ch := bus.Subscribe(TopicInferenceCompleted)

	Publish(bus, "severity", errors.New("model not loaded"))

	select {
	case evt := <-ch:
		payload, ok := evt.Payload.(Event)
		if !ok {
			t.Fatalf("payload type = %T", evt.Payload)
		}
		if payload.Outcome != OutcomeError {
			t.Errorf("Outcome = %q; want %q", payload.Outcome, OutcomeError)
		}
		if payload.Detail != "model not loaded" {
			t.Errorf("Detail = %q", payload.Detail)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for published event")
	}
}

func TestStart_ConsumesPublishedEvents(t *testing.T) {
	rec := NewRecorder(setupTestDB(t), discardLogger())
	bus := eventbus.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rec.Start(ctx, bus)

	Publish(bus, "transcription", nil)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		records, err := rec.Recent(context.Background(), 10)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(records) == 1 {
			if records[0].Task != "transcription" || records[0].Outcome != OutcomeOK {
				t.Errorf("record = %+v", records[0])
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("event was not recorded before deadline")
}
