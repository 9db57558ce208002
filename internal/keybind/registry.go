package keybind

import (
	"sync"

	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/logging/events"
)

// Binding pairs a trigger with the callback it runs.
type Binding struct {
	Trigger  Trigger
	Callback func()
}

// Registry holds the shortcuts bound on a document. It keeps exactly one
// document keydown listener while at least one binding is registered.
type Registry struct {
	doc *event.Document

	mu       sync.Mutex
	bindings []*Binding
	off      func()
}

// NewRegistry creates an empty registry for doc.
func NewRegistry(doc *event.Document) *Registry {
	return &Registry{doc: doc}
}

// Register adds b and returns a func removing it. Removing twice is a no-op.
func (r *Registry) Register(b *Binding) func() {
	if b == nil {
		return func() {}
	}
	r.mu.Lock()
	if len(r.bindings) == 0 {
		r.off = r.doc.On(event.KeyDown, r.keydown, event.Options{})
		events.Keybind.Listen(true)
	}
	r.bindings = append(r.bindings, b)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.unregister(b) })
	}
}

func (r *Registry) unregister(b *Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.bindings {
		if cur == b {
			r.bindings = append(r.bindings[:i], r.bindings[i+1:]...)
			break
		}
	}
	if len(r.bindings) == 0 && r.off != nil {
		r.off()
		r.off = nil
		events.Keybind.Listen(false)
	}
}

// Len reports how many bindings are registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bindings)
}

// Installed reports whether the shared keydown listener is attached.
func (r *Registry) Installed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.off != nil
}

func (r *Registry) keydown(ev *event.Event) {
	if ev.Target != r.doc.Body() {
		return
	}
	r.mu.Lock()
	snapshot := append([]*Binding(nil), r.bindings...)
	r.mu.Unlock()
	for _, b := range snapshot {
		if b.Trigger.Match(ev) {
			events.Keybind.Fire(b.Trigger.String())
			ev.PreventDefault()
			if b.Callback != nil {
				b.Callback()
			}
		}
	}
}
