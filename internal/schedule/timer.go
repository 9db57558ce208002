package schedule

import "time"

// Timer records the callbacks one component scheduled so they can all be
// cancelled when the component goes away.
type Timer struct {
	loop     *Loop
	cleanups []func()
}

// NewTimer binds a cleanup list to loop.
func NewTimer(loop *Loop) *Timer {
	return &Timer{loop: loop}
}

// Schedule runs fn on the next frame when timeout is zero, otherwise after
// timeout.
func (t *Timer) Schedule(fn func(), timeout time.Duration) {
	if t == nil || t.loop == nil {
		return
	}
	if timeout <= 0 {
		t.cleanups = append(t.cleanups, t.loop.NextFrame(fn))
		return
	}
	t.cleanups = append(t.cleanups, t.loop.After(timeout, fn))
}

// Stop cancels everything scheduled through t. It is safe to call twice.
func (t *Timer) Stop() {
	if t == nil {
		return
	}
	for len(t.cleanups) > 0 {
		n := len(t.cleanups) - 1
		cancel := t.cleanups[n]
		t.cleanups = t.cleanups[:n]
		cancel()
	}
}

// Len reports how many callbacks were scheduled since the last Stop.
func (t *Timer) Len() int {
	if t == nil {
		return 0
	}
	return len(t.cleanups)
}
