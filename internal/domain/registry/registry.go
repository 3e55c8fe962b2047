// Package registry tracks the lifecycle of the inference pipelines.
//
// Each capability (QA, severity, document summary, conversation summary,
// transcription) gets one slot. A slot transitions
// Unloaded → Loading → {Ready, Failed} exactly once at process start and
// never changes again: a failed load is terminal for the process lifetime
// and is never retried per request. Slots are read-only after Load, so
// concurrent readers need no synchronization at request time.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// SlotName identifies one inference pipeline.
type SlotName string

const (
	SlotQA            SlotName = "qa"
	SlotSeverity      SlotName = "severity"
	SlotDocSummary    SlotName = "doc_summary"
	SlotConvSummary   SlotName = "conv_summary"
	SlotTranscription SlotName = "transcription"
)

// AllSlots lists every pipeline slot in a stable order.
func AllSlots() []SlotName {
	return []SlotName{SlotQA, SlotSeverity, SlotDocSummary, SlotConvSummary, SlotTranscription}
}

// State is the lifecycle state of a pipeline slot.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateFailed   State = "failed"
)

// ErrModelUnavailable is returned by services when their pipeline slot is
// not Ready. It is reported to the caller, never retried in-process.
var ErrModelUnavailable = errors.New("model not loaded")

// Slot is the lifecycle container for one pipeline.
type Slot struct {
	Name    SlotName
	state   State
	lastErr error
}

// State returns the slot's lifecycle state.
func (s *Slot) State() State { return s.state }

// Err returns the load error; non-nil iff the slot is Failed.
func (s *Slot) Err() error { return s.lastErr }

// Loader probes or constructs the backing model for one slot.
// A nil return means the pipeline is usable.
type Loader func(ctx context.Context) error

// Registry owns all pipeline slots for the process lifetime.
type Registry struct {
	mu    sync.RWMutex
	slots map[SlotName]*Slot
}

// New creates a Registry with every slot Unloaded.
func New() *Registry {
	slots := make(map[SlotName]*Slot, len(AllSlots()))
	for _, name := range AllSlots() {
		slots[name] = &Slot{Name: name, state: StateUnloaded}
	}
	return &Registry{slots: slots}
}

// Load runs each slot's loader once and records the outcome. A failing
// loader marks its slot Failed (error recorded) and never crashes the
// process; the remaining slots still load. Slots without a loader stay
// Unloaded. Load must be called once, before the registry is shared.
func (r *Registry) Load(ctx context.Context, loaders map[SlotName]Loader) {
	for _, name := range AllSlots() {
		loader, ok := loaders[name]
		if !ok {
			continue
		}
		r.setState(name, StateLoading, nil)
		if err := loader(ctx); err != nil {
			r.setState(name, StateFailed, fmt.Errorf("load %s pipeline: %w", name, err))
			continue
		}
		r.setState(name, StateReady, nil)
	}
}

// Get returns the slot for name. Unknown names return a Failed slot so
// callers always get a defined degraded answer.
func (r *Registry) Get(name SlotName) *Slot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.slots[name]; ok {
		return s
	}
	return &Slot{Name: name, state: StateFailed, lastErr: fmt.Errorf("unknown pipeline slot %q", name)}
}

// Ready reports whether the slot for name is usable.
func (r *Registry) Ready(name SlotName) bool {
	return r.Get(name).State() == StateReady
}

// CheckReady returns ErrModelUnavailable unless the slot is Ready.
func (r *Registry) CheckReady(name SlotName) error {
	if !r.Ready(name) {
		return ErrModelUnavailable
	}
	return nil
}

// States returns a snapshot of every slot's state, keyed by slot name.
func (r *Registry) States() map[SlotName]State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[SlotName]State, len(r.slots))
	for name, s := range r.slots {
		out[name] = s.state
	}
	return out
}

func (r *Registry) setState(name SlotName, state State, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.slots[name]
	s.state = state
	s.lastErr = err
}
