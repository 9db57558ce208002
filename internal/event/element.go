package event

import "github.com/atomicstack/menubar/internal/geom"

// Element is a node of the interaction tree. Its parent link is the logical
// component parent: events bubble along it, across portal boundaries.
// Containment, visibility and focus search use the mounted ancestry, which
// ends at the first element flagged as a Portal.
type Element struct {
	Name      string
	Bounds    geom.Rect
	Hidden    bool
	Inert     bool
	Focusable bool
	Portal    bool

	doc      *Document
	parent   *Element
	seq      uint64
	depth    int
	handlers map[Kind][]Handler
	removed  bool
}

// Parent returns the logical parent element.
func (el *Element) Parent() *Element {
	if el == nil {
		return nil
	}
	return el.parent
}

// On attaches a handler for events of kind targeted at or bubbling through
// the element.
func (el *Element) On(kind Kind, h Handler) {
	if el == nil || h == nil {
		return
	}
	if el.handlers == nil {
		el.handlers = make(map[Kind][]Handler)
	}
	el.handlers[kind] = append(el.handlers[kind], h)
}

// Mounted reports whether the element is still part of its document.
func (el *Element) Mounted() bool {
	return el != nil && !el.removed
}

// Contains reports whether other is el or one of its mounted descendants.
func (el *Element) Contains(other *Element) bool {
	if el == nil || other == nil {
		return false
	}
	for n := other; n != nil; n = n.domParent() {
		if n == el {
			return true
		}
	}
	return false
}

// Visible reports whether neither the element nor a mounted ancestor is
// hidden.
func (el *Element) Visible() bool {
	if el == nil || el.removed {
		return false
	}
	for n := el; n != nil; n = n.domParent() {
		if n.Hidden {
			return false
		}
	}
	return true
}

// Interactive reports whether the element is visible and accepts pointer
// input.
func (el *Element) Interactive() bool {
	if !el.Visible() {
		return false
	}
	for n := el; n != nil; n = n.domParent() {
		if n.Inert {
			return false
		}
	}
	return true
}

func (el *Element) domParent() *Element {
	if el.Portal {
		return nil
	}
	return el.parent
}

func (el *Element) layer() int {
	n := 0
	for p := el; p != nil; p = p.parent {
		if p.Portal {
			n++
		}
	}
	return n
}

func (el *Element) fire(ev *Event) {
	for _, h := range el.handlers[ev.Kind] {
		h(ev)
	}
}
