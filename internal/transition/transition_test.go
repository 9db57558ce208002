package transition

import (
	"testing"
	"time"

	"github.com/atomicstack/menubar/internal/schedule"
)

func newTestTransition() (*Transition, *schedule.Loop, *schedule.ManualClock) {
	clock := schedule.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	loop := schedule.NewLoop(clock)
	return New(loop), loop, clock
}

func TestEnterIsImmediate(t *testing.T) {
	tr, _, _ := newTestTransition()
	if tr.State() != Exited {
		t.Fatalf("expected initial exited state, got %s", tr.State())
	}
	tr.Set(true, true, 200*time.Millisecond)
	if tr.State() != Entered {
		t.Fatalf("expected entered, got %s", tr.State())
	}
}

func TestExitWaitsForTimeout(t *testing.T) {
	tr, loop, clock := newTestTransition()
	var seen []State
	tr.OnChange = func(s State) { seen = append(seen, s) }
	tr.Set(true, true, 0)
	tr.Set(false, true, 600*time.Millisecond)
	if !tr.Exiting() {
		t.Fatalf("expected exiting, got %s", tr.State())
	}
	clock.Advance(599 * time.Millisecond)
	loop.RunDue()
	if !tr.Exiting() {
		t.Fatalf("expected still exiting before timeout")
	}
	clock.Advance(time.Millisecond)
	loop.RunDue()
	if tr.State() != Exited {
		t.Fatalf("expected exited after timeout, got %s", tr.State())
	}
	if len(seen) != 3 {
		t.Fatalf("expected entered/exiting/exited, got %v", seen)
	}
}

func TestExitDisabledIsImmediate(t *testing.T) {
	tr, _, _ := newTestTransition()
	tr.Set(true, false, 0)
	tr.Set(false, false, 200*time.Millisecond)
	if tr.State() != Exited {
		t.Fatalf("expected immediate exit, got %s", tr.State())
	}
}

func TestReenterCancelsPendingExit(t *testing.T) {
	tr, loop, clock := newTestTransition()
	tr.Set(true, true, 0)
	tr.Set(false, true, 200*time.Millisecond)
	clock.Advance(100 * time.Millisecond)
	tr.Set(true, true, 0)
	if tr.State() != Entered {
		t.Fatalf("expected re-entered, got %s", tr.State())
	}
	clock.Advance(time.Second)
	loop.RunDue()
	if tr.State() != Entered {
		t.Fatalf("expected stale exit timer cancelled, got %s", tr.State())
	}
	tr.Set(false, true, 200*time.Millisecond)
	clock.Advance(200 * time.Millisecond)
	loop.RunDue()
	if tr.State() != Exited {
		t.Fatalf("expected second exit to complete on its own timer, got %s", tr.State())
	}
}
