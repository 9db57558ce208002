package transition

import (
	"time"

	"github.com/atomicstack/menubar/internal/schedule"
)

// State is the visual lifecycle phase of a popup.
type State int

const (
	Exited State = iota
	Entered
	Exiting
)

func (s State) String() string {
	switch s {
	case Entered:
		return "entered"
	case Exiting:
		return "exiting"
	default:
		return "exited"
	}
}

// Transition drives the enter/exit state machine. Entering is immediate;
// exiting lasts for the timeout given to the Set call that started it. The
// newest Set always wins: showing again while an exit is pending cancels it.
type Transition struct {
	loop     *schedule.Loop
	state    State
	cancel   func()
	OnChange func(State)
}

// New creates a transition in the Exited state.
func New(loop *schedule.Loop) *Transition {
	return &Transition{loop: loop}
}

// State reports the current phase.
func (t *Transition) State() State {
	return t.state
}

// Exiting reports whether an exit is in progress.
func (t *Transition) Exiting() bool {
	return t.state == Exiting
}

// Set moves the machine toward shown (in) or hidden. When exit is false or
// timeout is not positive, hiding is immediate.
func (t *Transition) Set(in, exit bool, timeout time.Duration) {
	if in {
		t.stopPending()
		t.move(Entered)
		return
	}
	switch t.state {
	case Entered:
		if !exit || timeout <= 0 || t.loop == nil {
			t.move(Exited)
			return
		}
		t.move(Exiting)
		t.cancel = t.loop.After(timeout, func() {
			t.cancel = nil
			t.move(Exited)
		})
	case Exiting:
		if !exit {
			t.stopPending()
			t.move(Exited)
		}
	}
}

// Stop cancels a pending exit and settles in Exited.
func (t *Transition) Stop() {
	t.stopPending()
	t.state = Exited
}

func (t *Transition) stopPending() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Transition) move(s State) {
	if t.state == s {
		return
	}
	t.state = s
	if t.OnChange != nil {
		t.OnChange(s)
	}
}
