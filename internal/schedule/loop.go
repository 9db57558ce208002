package schedule

import (
	"sort"
	"sync"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}

// ManualClock is a Clock advanced explicitly by tests.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock starts a manual clock at t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type task struct {
	fn       func()
	due      time.Time
	seq      uint64
	canceled bool
}

// Loop queues next-frame callbacks and delayed callbacks. It is driven by
// the host calling RunFrame and RunDue from its update cycle; it never runs
// anything on its own goroutine.
type Loop struct {
	clock  Clock
	frame  []*task
	timers []*task
	seq    uint64
}

// NewLoop creates a loop reading time from clock (the wall clock when nil).
func NewLoop(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock
	}
	return &Loop{clock: clock}
}

// Now returns the loop's current time.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// NextFrame queues fn for the next RunFrame. The returned func cancels it.
func (l *Loop) NextFrame(fn func()) func() {
	l.seq++
	t := &task{fn: fn, seq: l.seq}
	l.frame = append(l.frame, t)
	return func() { t.canceled = true }
}

// After queues fn to run once d has elapsed. The returned func cancels it.
func (l *Loop) After(d time.Duration, fn func()) func() {
	l.seq++
	t := &task{fn: fn, due: l.clock.Now().Add(d), seq: l.seq}
	l.timers = append(l.timers, t)
	return func() { t.canceled = true }
}

// RunFrame runs the callbacks queued before the call. Callbacks queued while
// running wait for the following frame.
func (l *Loop) RunFrame() int {
	batch := l.frame
	l.frame = nil
	ran := 0
	for _, t := range batch {
		if t.canceled {
			continue
		}
		t.canceled = true
		t.fn()
		ran++
	}
	return ran
}

// RunDue runs every delayed callback whose deadline has passed, earliest
// first.
func (l *Loop) RunDue() int {
	ran := 0
	for {
		now := l.clock.Now()
		next := -1
		for i, t := range l.timers {
			if t.canceled || t.due.After(now) {
				continue
			}
			if next < 0 || t.due.Before(l.timers[next].due) ||
				(t.due.Equal(l.timers[next].due) && t.seq < l.timers[next].seq) {
				next = i
			}
		}
		if next < 0 {
			break
		}
		t := l.timers[next]
		l.timers = append(l.timers[:next], l.timers[next+1:]...)
		t.canceled = true
		t.fn()
		ran++
	}
	l.compact()
	return ran
}

func (l *Loop) compact() {
	kept := l.timers[:0]
	for _, t := range l.timers {
		if !t.canceled {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(l.timers); i++ {
		l.timers[i] = nil
	}
	l.timers = kept
}

// Pending reports whether any callback is still queued.
func (l *Loop) Pending() bool {
	for _, t := range l.frame {
		if !t.canceled {
			return true
		}
	}
	for _, t := range l.timers {
		if !t.canceled {
			return true
		}
	}
	return false
}

// NextDue returns the earliest delayed deadline.
func (l *Loop) NextDue() (time.Time, bool) {
	var due []time.Time
	for _, t := range l.timers {
		if !t.canceled {
			due = append(due, t.due)
		}
	}
	if len(due) == 0 {
		return time.Time{}, false
	}
	sort.Slice(due, func(i, j int) bool { return due[i].Before(due[j]) })
	return due[0], true
}
