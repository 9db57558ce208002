package backend

import "time"

// settleDelay is how long a changed file must stay unchanged before it is
// reloaded. Editors often save in several writes.
var settleDelay = 250 * time.Millisecond

// settle tracks the file stamps seen by the poller and reports a change once
// the new stamp has held still for quiet.
type settle struct {
	quiet time.Duration

	current fileStamp
	pending fileStamp
	since   time.Time
	waiting bool
}

func newSettle(baseline fileStamp, quiet time.Duration) *settle {
	if quiet < 0 {
		quiet = 0
	}
	return &settle{quiet: quiet, current: baseline}
}

// observe records st seen at now and reports whether it should be loaded.
func (s *settle) observe(st fileStamp, now time.Time) bool {
	if st == s.current {
		s.waiting = false
		return false
	}
	if !s.waiting || st != s.pending {
		s.pending, s.since, s.waiting = st, now, true
	}
	if now.Sub(s.since) < s.quiet {
		return false
	}
	s.current = st
	s.waiting = false
	return true
}
