package registry

import (
	"context"
	"errors"
	"testing"
)

func TestNew_AllSlotsUnloaded(t *testing.T) {
	r := New()

	for _, name := range AllSlots() {
		if got := r.Get(name).State(); got != StateUnloaded {
			t.Errorf("slot %s state = %s; want %s", name, got, StateUnloaded)
		}
	}
}

func TestLoad_ReadyAndFailedAreIndependent(t *testing.T) {
	r := New()
	loadErr := errors.New("artifact missing")

	r.Load(context.Background(), map[SlotName]Loader{
		SlotQA:       func(context.Context) error { return nil },
		SlotSeverity: func(context.Context) error { return loadErr },
	})

	if got := r.Get(SlotQA).State(); got != StateReady {
		t.Errorf("qa state = %s; want %s", got, StateReady)
	}
	if got := r.Get(SlotSeverity).State(); got != StateFailed {
		t.Errorf("severity state = %s; want %s", got, StateFailed)
	}
	if err := r.Get(SlotSeverity).Err(); err == nil || !errors.Is(err, loadErr) {
		t.Errorf("severity Err() = %v; want wrapped %v", err, loadErr)
	}
	// A failed sibling must not block the others.
	if !r.Ready(SlotQA) {
		t.Error("qa should be Ready despite severity failure")
	}
}

func TestLoad_SlotWithoutLoaderStaysUnloaded(t *testing.T) {
	r := New()
	r.Load(context.Background(), map[SlotName]Loader{
		SlotQA: func(context.Context) error { return nil },
	})

	if got := r.Get(SlotTranscription).State(); got != StateUnloaded {
		t.Errorf("transcription state = %s; want %s", got, StateUnloaded)
	}
	if r.Ready(SlotTranscription) {
		t.Error("unloaded slot must not report Ready")
	}
}

func TestCheckReady(t *testing.T) {
	r := New()
	r.Load(context.Background(), map[SlotName]Loader{
		SlotQA: func(context.Context) error { return nil },
	})

	if err := r.CheckReady(SlotQA); err != nil {
		t.Errorf("CheckReady(qa) = %v; want nil", err)
	}
	if err := r.CheckReady(SlotSeverity); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("CheckReady(severity) = %v; want ErrModelUnavailable", err)
	}
}

func TestGet_UnknownSlotIsFailed(t *testing.T) {
	r := New()

	s := r.Get(SlotName("bogus"))
	if s.State() != StateFailed {
		t.Errorf("unknown slot state = %s; want %s", s.State(), StateFailed)
	}
	if s.Err() == nil {
		t.Error("unknown slot should carry an error")
	}
}

func TestStates_Snapshot(t *testing.T) {
	r := New()
	r.Load(context.Background(), map[SlotName]Loader{
		SlotConvSummary: func(context.Context) error { return nil },
	})

	states := r.States()
	if len(states) != len(AllSlots()) {
		t.Fatalf("States() has %d entries; want %d", len(states), len(AllSlots()))
	}
	if states[SlotConvSummary] != StateReady {
		t.Errorf("conv_summary = %s; want %s", states[SlotConvSummary], StateReady)
	}
}
