package menu

import (
	"time"

	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/geom"
	"github.com/atomicstack/menubar/internal/layer"
	"github.com/atomicstack/menubar/internal/logging/events"
	"github.com/atomicstack/menubar/internal/transition"
)

// Root mounts a top-level panel in the floating layer and drives its
// enter/exit lifecycle. While exiting, the panel stays drawn but ignores
// the pointer.
type Root struct {
	env   *Env
	name  string
	el    *event.Element
	panel *Panel
	trans *transition.Transition

	active    bool
	exitDelay bool
	fadeAt    time.Time

	onCloseRequest func()
	release        func()
}

// newRoot mounts a root whose element bubbles into owner.
func newRoot(env *Env, owner *event.Element, name string, items []Item, onCloseRequest func()) *Root {
	r := &Root{env: env, name: name, onCloseRequest: onCloseRequest}
	r.el = env.Doc.NewElement(owner, "root:"+name)
	r.el.Portal = true
	r.el.Hidden = true
	r.trans = transition.New(env.Loop)
	r.trans.OnChange = func(s transition.State) {
		events.Menu.Transition(r.name, s.String())
		env.Invalidate()
	}
	r.panel = newPanel(env, r, nil, r.el, name, items)
	r.release = env.Layer.Acquire(r)
	return r
}

// Menu returns the top-level panel handle.
func (r *Root) Menu() *Panel {
	return r.panel
}

// Active reports whether the root was last laid out as open.
func (r *Root) Active() bool {
	return r.active
}

// State reports the visual lifecycle phase.
func (r *Root) State() transition.State {
	return r.trans.State()
}

// Element returns the root's portal element.
func (r *Root) Element() *event.Element {
	return r.el
}

// DelayClose asks the owner to close and stretches the exit by the fade
// delay, so a fired row's flash stays visible before the fade starts.
func (r *Root) DelayClose() {
	r.exitDelay = true
	events.Menu.Close(r.name, true)
	if r.onCloseRequest != nil {
		r.onCloseRequest()
	}
}

// layout syncs the root with its owner's state. fadeOnExit selects an
// animated exit over an immediate one.
func (r *Root) layout(active, fadeOnExit bool, anchor *geom.Rect) {
	r.panel.anchor = anchor
	if active != r.active {
		r.active = active
		timeout := r.env.Fade.Duration
		if active {
			r.exitDelay = false
		} else {
			r.fadeAt = r.env.Loop.Now()
			if r.exitDelay {
				timeout += r.env.Fade.Delay
				r.fadeAt = r.fadeAt.Add(r.env.Fade.Delay)
			}
		}
		r.trans.Set(active, fadeOnExit, timeout)
		r.env.Invalidate()
	}
	s := r.trans.State()
	r.el.Hidden = !active && s == transition.Exited
	r.el.Inert = s == transition.Exiting
	r.panel.layout()
}

// Patches draws the open panel chain. The fade renders faint once its
// delay has passed.
func (r *Root) Patches() []layer.Patch {
	if r.el.Hidden {
		return nil
	}
	faint := r.trans.Exiting() && !r.env.Loop.Now().Before(r.fadeAt)
	return r.panel.patches(faint, nil)
}

func (r *Root) destroy() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
	r.trans.Stop()
	r.panel.destroy()
	r.env.Doc.Remove(r.el)
}
