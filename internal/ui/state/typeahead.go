package state

import (
	"strings"
	"time"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultTypeAheadTimeout is how long a type-ahead query survives between
// keystrokes.
const DefaultTypeAheadTimeout = time.Second

// Candidate is an entry type-ahead can land on.
type Candidate struct {
	ID    string
	Label string
}

// TypeAhead accumulates printable keystrokes into a query that expires
// after a pause.
type TypeAhead struct {
	Query   string
	Timeout time.Duration
	last    time.Time
}

// Append adds text to the query, starting over when the previous keystroke
// is older than the timeout. It returns the resulting query.
func (t *TypeAhead) Append(text string, now time.Time) string {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultTypeAheadTimeout
	}
	if t.last.IsZero() || now.Sub(t.last) > timeout {
		t.Query = ""
	}
	t.last = now
	for _, r := range text {
		if unicode.IsPrint(r) {
			t.Query += string(r)
		}
	}
	return t.Query
}

// DeleteRuneBackward removes the last rune of the query.
func (t *TypeAhead) DeleteRuneBackward() bool {
	runes := []rune(t.Query)
	if len(runes) == 0 {
		return false
	}
	t.Query = string(runes[:len(runes)-1])
	return true
}

// Reset clears the query.
func (t *TypeAhead) Reset() {
	t.Query = ""
	t.last = time.Time{}
}

// BestMatchIndex returns the best candidate for query, or -1 when nothing
// matches. Exact matches win, then label prefixes, id prefixes, substring
// matches, and finally the closest fuzzy match.
func BestMatchIndex(items []Candidate, query string) int {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || len(items) == 0 {
		return -1
	}
	lower := strings.ToLower(trimmed)
	for i, item := range items {
		if strings.EqualFold(item.Label, trimmed) || strings.EqualFold(item.ID, trimmed) {
			return i
		}
	}
	for i, item := range items {
		if strings.HasPrefix(strings.ToLower(item.Label), lower) {
			return i
		}
	}
	for i, item := range items {
		if item.ID != "" && strings.HasPrefix(strings.ToLower(item.ID), lower) {
			return i
		}
	}
	for i, item := range items {
		if strings.Contains(strings.ToLower(item.Label), lower) {
			return i
		}
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return -1
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
			continue
		}
		if rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(items) {
		return -1
	}
	return best.OriginalIndex
}
