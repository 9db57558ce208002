package pulldown

import (
	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/logging"
	"github.com/atomicstack/menubar/internal/logging/events"
)

// Options configure a Pulldown.
type Options struct {
	// Name labels the controller in traces and warnings.
	Name string
	// ActivateOnContextMenu opens on a context-menu request (right click)
	// instead of a primary press.
	ActivateOnContextMenu bool
	OnActivate            func(*event.Event)
	OnDeactivate          func()
	Click                 event.ClickThresholds

	// Exactly one of Children and Render should be set.
	Children func() string
	Render   func(active bool) string
}

// Pulldown owns the open/closed state of one popup trigger.
//
// A press on the trigger activates it and arms document listeners: Escape
// closes; a release that completes a click arms a one-shot listener that
// closes on the next press anywhere; any other release that reaches the
// document (a drag released outside the popup) closes at once. Every armed
// listener is removed on each way back to idle.
type Pulldown struct {
	doc      *event.Document
	el       *event.Element
	opts     Options
	active   bool
	handlers []func()

	// OnChange runs whenever the active state flips.
	OnChange func()
}

// New attaches a controller to el, the element enclosing the trigger and
// everything that should count as "inside" while open.
func New(doc *event.Document, el *event.Element, opts Options) *Pulldown {
	if (opts.Children == nil) == (opts.Render == nil) {
		logging.Warnf("pulldown %q: exactly one of Render or Children must be set", opts.Name)
	}
	if opts.Click == (event.ClickThresholds{}) {
		opts.Click = event.DefaultClick
	}
	p := &Pulldown{doc: doc, el: el, opts: opts}
	el.On(event.PointerDown, func(ev *event.Event) {
		if !p.opts.ActivateOnContextMenu || p.active {
			p.onPointerDown(ev)
		}
	})
	el.On(event.ContextMenu, func(ev *event.Event) {
		if p.opts.ActivateOnContextMenu {
			ev.PreventDefault()
			p.onPointerDown(ev)
		}
	})
	return p
}

// Element returns the element the controller listens on.
func (p *Pulldown) Element() *event.Element {
	return p.el
}

// Active reports whether the popup is open.
func (p *Pulldown) Active() bool {
	return p.active
}

// Armed reports how many listener teardowns are pending.
func (p *Pulldown) Armed() int {
	return len(p.handlers)
}

func (p *Pulldown) onPointerDown(down *event.Event) {
	if !p.active && down.Kind == event.PointerDown && down.Button != event.ButtonPrimary {
		return
	}
	if !down.Claim() {
		return
	}
	if p.active {
		down.StopPropagation()
		return
	}
	p.activate(down)

	p.handlers = append(p.handlers, p.doc.On(event.KeyDown, func(ev *event.Event) {
		if ev.Key == "Escape" {
			p.Deactivate()
		}
	}, event.Options{}))
	p.handlers = append(p.handlers, p.doc.On(event.PointerUp, func(up *event.Event) {
		if p.opts.Click.IsClick(down, up) {
			events.Pulldown.ArmOutsideClose(p.opts.Name)
			p.handlers = append(p.handlers, p.doc.On(event.PointerDown, func(*event.Event) {
				p.Deactivate()
			}, event.Options{Once: true}))
			up.StopPropagation()
		}
	}, event.Options{Once: true, Capture: true}))
	p.handlers = append(p.handlers, p.doc.On(event.PointerUp, func(*event.Event) {
		p.Deactivate()
	}, event.Options{Once: true}))
}

func (p *Pulldown) activate(ev *event.Event) {
	events.Pulldown.Activate(p.opts.Name, ev.Kind == event.ContextMenu)
	if p.opts.OnActivate != nil {
		p.opts.OnActivate(ev)
	}
	p.setActive(true)
}

// Deactivate removes every armed listener, runs OnDeactivate and returns to
// idle.
func (p *Pulldown) Deactivate() {
	drained := p.cleanup()
	events.Pulldown.Deactivate(p.opts.Name, true, drained)
	if p.opts.OnDeactivate != nil {
		p.opts.OnDeactivate()
	}
	p.setActive(false)
}

// DeactivateWithoutCallback returns to idle without running OnDeactivate.
// It serves owners that are already closing on their own.
func (p *Pulldown) DeactivateWithoutCallback() {
	drained := p.cleanup()
	events.Pulldown.Deactivate(p.opts.Name, false, drained)
	p.setActive(false)
}

// Unmount tears the controller down silently.
func (p *Pulldown) Unmount() {
	p.cleanup()
	p.active = false
}

func (p *Pulldown) cleanup() int {
	n := 0
	for len(p.handlers) > 0 {
		last := len(p.handlers) - 1
		off := p.handlers[last]
		p.handlers = p.handlers[:last]
		off()
		n++
	}
	return n
}

func (p *Pulldown) setActive(active bool) {
	if p.active == active {
		return
	}
	p.active = active
	if p.OnChange != nil {
		p.OnChange()
	}
}

// View renders the controller's content.
func (p *Pulldown) View() string {
	out := ""
	if p.opts.Render != nil {
		out += p.opts.Render(p.active)
	}
	if p.opts.Children != nil {
		out += p.opts.Children()
	}
	return out
}
