package state

import "sync/atomic"

// ID identifies a choice. IDs come from a process-wide counter and are never
// reused; the zero ID means "none".
type ID uint64

var idSeq atomic.Uint64

// NextID allocates a fresh choice ID.
func NextID() ID {
	return ID(idSeq.Add(1))
}

type choiceEntry[H any] struct {
	id      ID
	version uint64
	handle  H
}

// ChoiceList tracks which one of a dynamic list of siblings is active.
// Activating an entry implicitly deactivates the previous one.
//
// Entries register in mount order, which can drift from render order when
// siblings are inserted between passes. Every mutation marks the list
// unsettled; Settle restores render order and starts a new version, and
// callers run another layout pass when it reports a change so index-based
// lookups never act on a stale order.
type ChoiceList[H any] struct {
	entries []choiceEntry[H]
	version uint64
	dirty   bool
	active  ID

	// OnChange runs after the active entry or the membership changes.
	OnChange func()
}

// NewChoiceList creates an empty list.
func NewChoiceList[H any]() *ChoiceList[H] {
	return &ChoiceList[H]{}
}

// Register adds id with its handle, or replaces the handle of a known id.
func (c *ChoiceList[H]) Register(id ID, handle H) {
	for i := range c.entries {
		if c.entries[i].id == id {
			c.entries[i].handle = handle
			return
		}
	}
	c.entries = append(c.entries, choiceEntry[H]{id: id, version: c.version, handle: handle})
	c.dirty = true
	c.changed()
}

// Unregister removes id. An active id is cleared with it.
func (c *ChoiceList[H]) Unregister(id ID) {
	for i := range c.entries {
		if c.entries[i].id != id {
			continue
		}
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
		c.dirty = true
		if c.active == id {
			c.active = 0
		}
		c.changed()
		return
	}
}

// Activate makes id the active entry. Unknown ids are ignored; the zero ID
// clears the selection.
func (c *ChoiceList[H]) Activate(id ID) {
	if id != 0 && c.indexOf(id) < 0 {
		return
	}
	if c.active == id {
		return
	}
	c.active = id
	c.changed()
}

// Clear drops the active entry.
func (c *ChoiceList[H]) Clear() {
	c.Activate(0)
}

// ActiveID returns the active id, if any.
func (c *ChoiceList[H]) ActiveID() (ID, bool) {
	return c.active, c.active != 0
}

// IsActive reports whether id is the active entry.
func (c *ChoiceList[H]) IsActive(id ID) bool {
	return id != 0 && c.active == id
}

// ActiveIndex returns the position of the active entry.
func (c *ChoiceList[H]) ActiveIndex() (int, bool) {
	if c.active == 0 {
		return -1, false
	}
	idx := c.indexOf(c.active)
	return idx, idx >= 0
}

// Active returns the handle of the active entry.
func (c *ChoiceList[H]) Active() (H, bool) {
	var zero H
	idx, ok := c.ActiveIndex()
	if !ok {
		return zero, false
	}
	return c.entries[idx].handle, true
}

// SetActiveIndex activates the entry at index; out of range is a no-op.
func (c *ChoiceList[H]) SetActiveIndex(index int) {
	if index < 0 || index >= len(c.entries) {
		return
	}
	c.Activate(c.entries[index].id)
}

// List returns handles in order.
func (c *ChoiceList[H]) List() []H {
	out := make([]H, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.handle
	}
	return out
}

// Len reports the number of registered entries.
func (c *ChoiceList[H]) Len() int {
	return len(c.entries)
}

// Navigate activates the first entry strictly after (dir > 0) or before the
// active one that is not disabled. With nothing active the scan starts just
// outside the list. It reports whether the selection moved; when no
// eligible entry exists the state is left unchanged.
func (c *ChoiceList[H]) Navigate(dir int, disabled func(H) bool) bool {
	if dir == 0 || len(c.entries) == 0 {
		return false
	}
	if dir > 0 {
		dir = 1
	} else {
		dir = -1
	}
	start, ok := c.ActiveIndex()
	if !ok {
		if dir > 0 {
			start = -1
		} else {
			start = len(c.entries)
		}
	}
	for i := start + dir; i >= 0 && i < len(c.entries); i += dir {
		if disabled != nil && disabled(c.entries[i].handle) {
			continue
		}
		c.Activate(c.entries[i].id)
		return true
	}
	return false
}

// Version returns the current settled version.
func (c *ChoiceList[H]) Version() uint64 {
	return c.version
}

// Stable reports whether the list has not changed shape since the last
// Settle.
func (c *ChoiceList[H]) Stable() bool {
	if c.dirty {
		return false
	}
	for _, e := range c.entries {
		if e.version != c.version {
			return false
		}
	}
	return true
}

// Settle reorders entries to match order (ids missing from order keep their
// relative position at the end) and starts a new version. It returns false
// when the list was already stable and in order.
func (c *ChoiceList[H]) Settle(order []ID) bool {
	if c.Stable() && c.inOrder(order) {
		return false
	}
	rank := make(map[ID]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	sorted := make([]choiceEntry[H], 0, len(c.entries))
	for _, id := range order {
		if idx := c.indexOf(id); idx >= 0 {
			sorted = append(sorted, c.entries[idx])
		}
	}
	for _, e := range c.entries {
		if _, ok := rank[e.id]; !ok {
			sorted = append(sorted, e)
		}
	}
	c.version++
	for i := range sorted {
		sorted[i].version = c.version
	}
	c.entries = sorted
	c.dirty = false
	return true
}

func (c *ChoiceList[H]) inOrder(order []ID) bool {
	i := 0
	for _, id := range order {
		if c.indexOf(id) < 0 {
			continue
		}
		if c.entries[i].id != id {
			return false
		}
		i++
	}
	return true
}

func (c *ChoiceList[H]) indexOf(id ID) int {
	for i, e := range c.entries {
		if e.id == id {
			return i
		}
	}
	return -1
}

func (c *ChoiceList[H]) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

// Choice is one entry's view of its ChoiceList.
type Choice[H any] struct {
	list *ChoiceList[H]
	id   ID
}

// NewChoice registers handle under a fresh id.
func (c *ChoiceList[H]) NewChoice(handle H) *Choice[H] {
	ch := &Choice[H]{list: c, id: NextID()}
	c.Register(ch.id, handle)
	return ch
}

// ID returns the choice's id.
func (ch *Choice[H]) ID() ID { return ch.id }

// Active reports whether this choice is the active one in its list.
func (ch *Choice[H]) Active() bool { return ch.list.IsActive(ch.id) }

// Activate makes this choice the active one.
func (ch *Choice[H]) Activate() { ch.list.Activate(ch.id) }

// Deactivate clears the selection when this choice holds it.
func (ch *Choice[H]) Deactivate() {
	if ch.Active() {
		ch.list.Clear()
	}
}

// Unregister removes the choice from its list.
func (ch *Choice[H]) Unregister() { ch.list.Unregister(ch.id) }
