// Package activity records one row per inference request in SQLite.
// Services publish TopicInferenceCompleted events on the in-memory bus;
// the Recorder consumes them asynchronously so the request path never
// waits on the activity log.
package activity

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/carevox/medgate/internal/infra/eventbus"
	"github.com/carevox/medgate/pkg/uuid"
)

// TopicInferenceCompleted is published after every inference request,
// successful or not.
const TopicInferenceCompleted = "inference.completed"

// Outcome values recorded per event.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Event is the bus payload for one completed inference request.
type Event struct {
	Task    string
	Outcome string
	Detail  string
}

// Record is one persisted activity row.
type Record struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}

// Publish emits an inference event for task. err == nil records an ok
// outcome; otherwise the error text becomes the detail.
func Publish(bus eventbus.EventBus, task string, err error) {
	evt := Event{Task: task, Outcome: OutcomeOK}
	if err != nil {
		evt.Outcome = OutcomeError
		evt.Detail = err.Error()
	}
	bus.Publish(TopicInferenceCompleted, evt)
}

// Recorder consumes inference events and appends them to inference_events.
// The log is append-only; no updates or deletes are supported.
type Recorder struct {
	db  *sql.DB
	log *slog.Logger
}

// NewRecorder creates a Recorder backed by the given DB.
func NewRecorder(db *sql.DB, log *slog.Logger) *Recorder {
	return &Recorder{db: db, log: log}
}

// Start subscribes to TopicInferenceCompleted and persists each event.
// Runs in the calling goroutine — launch with: go rec.Start(ctx, bus)
// Stops when ctx is cancelled.
func (r *Recorder) Start(ctx context.Context, bus eventbus.EventBus) {
	ch := bus.Subscribe(TopicInferenceCompleted)
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-ch:
			payload, ok := evt.Payload.(Event)
			if !ok {
				continue
			}
			// Best-effort: log the failure but keep consuming.
			if err := r.Append(ctx, payload); err != nil {
				r.log.Error("activity append failed", "task", payload.Task, "error", err)
			}
		}
	}
}

// Append writes one activity row. Exposed for synchronous use in tests.
func (r *Recorder) Append(ctx context.Context, evt Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inference_events (id, task, outcome, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewV7().String(), evt.Task, evt.Outcome, evt.Detail,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("activity: insert event: %w", err)
	}
	return nil
}

// Recent returns the latest activity rows, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task, outcome, detail, created_at
		 FROM inference_events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("activity: query recent: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var records []Record
	for rows.Next() {
		var (
			rec       Record
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Task, &rec.Outcome, &rec.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("activity: scan event: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity: iterate events: %w", err)
	}
	return records, nil
}
