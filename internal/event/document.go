package event

// Options configure a document-level listener.
type Options struct {
	// Capture listeners run before any element handler; the others run after
	// the event bubbled through the element tree without being stopped.
	Capture bool
	// Once removes the listener before its first invocation.
	Once bool
}

type listener struct {
	kind    Kind
	handler Handler
	opts    Options
	removed bool
}

// Document owns the element tree, document-level listeners, hover tracking
// and keyboard focus.
type Document struct {
	body      *Element
	elements  []*Element
	listeners []*listener
	focused   *Element
	hover     []*Element
	seq       uint64
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	d := &Document{}
	d.body = &Element{Name: "body", doc: d}
	return d
}

// Body returns the root element. It is the target of key events when
// nothing has focus and of pointer events that hit no element.
func (d *Document) Body() *Element {
	return d.body
}

// NewElement mounts a new element under parent, or under the body when
// parent is nil.
func (d *Document) NewElement(parent *Element, name string) *Element {
	if parent == nil {
		parent = d.body
	}
	d.seq++
	el := &Element{
		Name:   name,
		doc:    d,
		parent: parent,
		seq:    d.seq,
		depth:  parent.depth + 1,
	}
	d.elements = append(d.elements, el)
	return el
}

// Remove unmounts el together with its logical descendants.
func (d *Document) Remove(el *Element) {
	if el == nil || el == d.body || el.removed {
		return
	}
	kept := d.elements[:0]
	for _, n := range d.elements {
		if isAncestor(el, n) {
			n.removed = true
			continue
		}
		kept = append(kept, n)
	}
	for i := len(kept); i < len(d.elements); i++ {
		d.elements[i] = nil
	}
	d.elements = kept
	if d.focused != nil && d.focused.removed {
		d.focused = nil
	}
	hover := d.hover[:0]
	for _, n := range d.hover {
		if !n.removed {
			hover = append(hover, n)
		}
	}
	d.hover = hover
}

func isAncestor(anc, el *Element) bool {
	for n := el; n != nil; n = n.parent {
		if n == anc {
			return true
		}
	}
	return false
}

// On registers a document-level listener and returns a func removing it.
// The returned func is safe to call more than once.
func (d *Document) On(kind Kind, h Handler, opts Options) func() {
	l := &listener{kind: kind, handler: h, opts: opts}
	d.listeners = append(d.listeners, l)
	return func() { d.off(l) }
}

func (d *Document) off(l *listener) {
	if l.removed {
		return
	}
	l.removed = true
	for i, cur := range d.listeners {
		if cur == l {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

// Listeners counts attached document-level listeners for kind.
func (d *Document) Listeners(kind Kind) int {
	n := 0
	for _, l := range d.listeners {
		if l.kind == kind {
			n++
		}
	}
	return n
}

// ListenerCount counts all attached document-level listeners.
func (d *Document) ListenerCount() int {
	return len(d.listeners)
}

func (d *Document) snapshot(kind Kind, capture bool) []*listener {
	var out []*listener
	for _, l := range d.listeners {
		if l.kind == kind && l.opts.Capture == capture {
			out = append(out, l)
		}
	}
	return out
}

func (d *Document) invoke(ev *Event, ls []*listener) {
	for _, l := range ls {
		if l.removed {
			continue
		}
		if l.opts.Once {
			d.off(l)
		}
		l.handler(ev)
	}
}

// HitTest returns the topmost interactive element under x,y, or the body.
// Elements mounted through more portals win, then deeper elements, then
// later mounts.
func (d *Document) HitTest(x, y int) *Element {
	var best *Element
	bestLayer := -1
	for _, el := range d.elements {
		if el.Bounds.Width <= 0 || el.Bounds.Height <= 0 || !el.Bounds.Contains(x, y) {
			continue
		}
		if !el.Interactive() {
			continue
		}
		layer := el.layer()
		switch {
		case best == nil,
			layer > bestLayer,
			layer == bestLayer && el.depth > best.depth,
			layer == bestLayer && el.depth == best.depth && el.seq > best.seq:
			best, bestLayer = el, layer
		}
	}
	if best == nil {
		return d.body
	}
	return best
}

// Focused returns the element holding keyboard focus, or nil.
func (d *Document) Focused() *Element {
	return d.focused
}

// Focus moves keyboard focus to el, firing blur and focus handlers.
func (d *Document) Focus(el *Element) {
	if el == nil || el == d.body {
		d.Blur()
		return
	}
	if el == d.focused || !el.Mounted() {
		return
	}
	prev := d.focused
	d.focused = el
	if prev != nil {
		prev.fire(&Event{Kind: Blur, Target: prev, RelatedTarget: el})
	}
	if d.focused == el {
		el.fire(&Event{Kind: Focus, Target: el, RelatedTarget: prev})
	}
}

// Blur drops keyboard focus back to the body.
func (d *Document) Blur() {
	prev := d.focused
	if prev == nil {
		return
	}
	d.focused = nil
	prev.fire(&Event{Kind: Blur, Target: prev})
}

// Dispatch delivers ev: capture listeners, then the target and its logical
// ancestors until propagation stops, then bubble listeners, then the default
// action. Pointer events are targeted by hit testing and key events at the
// focused element when ev.Target is nil.
func (d *Document) Dispatch(ev *Event) {
	if ev == nil {
		return
	}
	if ev.Target == nil {
		switch {
		case ev.Kind.IsPointer():
			ev.Target = d.HitTest(ev.X, ev.Y)
		case ev.Kind == KeyDown && d.focused != nil:
			ev.Target = d.focused
		default:
			ev.Target = d.body
		}
	}
	if ev.Kind.IsPointer() {
		d.updateHover(ev)
	}

	d.invoke(ev, d.snapshot(ev.Kind, true))
	for el := ev.Target; el != nil && !ev.stopped; el = el.parent {
		el.fire(ev)
	}
	if !ev.stopped {
		d.invoke(ev, d.snapshot(ev.Kind, false))
	}
	if !ev.prevented {
		d.defaultAction(ev)
	}
}

func (d *Document) defaultAction(ev *Event) {
	switch ev.Kind {
	case PointerDown:
		for n := ev.Target; n != nil; n = n.domParent() {
			if n.Focusable && n.Interactive() {
				d.Focus(n)
				return
			}
		}
		d.Blur()
	case KeyDown:
		if ev.Key == "Tab" {
			if ev.Shift {
				d.FocusNext(-1)
			} else {
				d.FocusNext(1)
			}
		}
	}
}

// FocusNext moves focus to the next (dir > 0) or previous focusable element
// in mount order, wrapping around.
func (d *Document) FocusNext(dir int) {
	var ring []*Element
	for _, el := range d.elements {
		if el.Focusable && el.Interactive() {
			ring = append(ring, el)
		}
	}
	if len(ring) == 0 {
		return
	}
	idx := -1
	for i, el := range ring {
		if el == d.focused {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && dir < 0:
		idx = len(ring) - 1
	case idx < 0:
		idx = 0
	default:
		idx = (idx + dir + len(ring)) % len(ring)
	}
	d.Focus(ring[idx])
}

func (d *Document) updateHover(ev *Event) {
	var next []*Element
	if ev.Target != nil && ev.Target != d.body {
		for n := ev.Target; n != nil; n = n.domParent() {
			next = append(next, n)
		}
	}
	prev := d.hover
	var prevTarget *Element
	if len(prev) > 0 {
		prevTarget = prev[0]
	}
	d.hover = next
	for _, el := range prev {
		if !containsElement(next, el) && el.Mounted() {
			el.fire(&Event{
				Kind:          PointerLeave,
				X:             ev.X,
				Y:             ev.Y,
				PointerType:   ev.PointerType,
				Time:          ev.Time,
				Target:        el,
				RelatedTarget: ev.Target,
			})
		}
	}
	for i := len(next) - 1; i >= 0; i-- {
		el := next[i]
		if !containsElement(prev, el) && el.Mounted() {
			el.fire(&Event{
				Kind:          PointerEnter,
				X:             ev.X,
				Y:             ev.Y,
				PointerType:   ev.PointerType,
				Time:          ev.Time,
				Target:        el,
				RelatedTarget: prevTarget,
			})
		}
	}
}

func containsElement(list []*Element, el *Element) bool {
	for _, n := range list {
		if n == el {
			return true
		}
	}
	return false
}
