package menu

import (
	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/geom"
	"github.com/atomicstack/menubar/internal/pulldown"
	"github.com/atomicstack/menubar/internal/schedule"
)

// Position selects where a headless menu opens.
type Position int

const (
	// PositionBottom opens below the trigger.
	PositionBottom Position = iota
	// PositionCursor opens at the pointer.
	PositionCursor
)

// HeadlessOptions configure a Headless menu.
type HeadlessOptions struct {
	Name string
	// Trigger is the text drawn for the trigger.
	Trigger               string
	ActivateOnContextMenu bool
	Position              Position
	Items                 []Item
}

// Headless is a menu opened from an arbitrary trigger: a button, or an area
// that reacts to context-menu requests.
type Headless struct {
	env     *Env
	opts    HeadlessOptions
	el      *event.Element
	trigger *event.Element
	pd      *pulldown.Pulldown
	root    *Root
	nav     *Navigator
	timer   *schedule.Timer

	active bool
	anchor *geom.Rect
}

// NewHeadless mounts a headless menu under parent (nil for the document
// body). Nested menus pass their enclosing trigger element so a press is
// claimed by the innermost one only.
func NewHeadless(env *Env, parent *event.Element, opts HeadlessOptions) *Headless {
	if opts.Name == "" {
		opts.Name = opts.Trigger
	}
	h := &Headless{env: env, opts: opts, timer: schedule.NewTimer(env.Loop)}
	h.el = env.Doc.NewElement(parent, "headless:"+opts.Name)
	h.trigger = env.Doc.NewElement(h.el, "trigger:"+opts.Name)
	h.trigger.Focusable = true
	h.pd = pulldown.New(env.Doc, h.el, pulldown.Options{
		Name:                  opts.Name,
		ActivateOnContextMenu: opts.ActivateOnContextMenu,
		Click:                 env.Click,
		OnActivate:            h.onActivate,
		OnDeactivate:          h.onDeactivate,
		Children:              h.renderTrigger,
	})
	h.root = newRoot(env, h.el, opts.Name, opts.Items, h.onDeactivate)
	h.nav = &Navigator{
		Root:      h.root.Menu,
		Opened:    h.Active,
		SetOpened: h.setOpenedByKeyboard,
		Timer:     h.timer,
	}
	h.trigger.On(event.KeyDown, h.nav.HandleKey)
	env.mount(h)
	return h
}

// NewContextMenu mounts a menu that opens at the pointer on a context-menu
// request inside its area.
func NewContextMenu(env *Env, parent *event.Element, name string, items []Item) *Headless {
	return NewHeadless(env, parent, HeadlessOptions{
		Name:                  name,
		ActivateOnContextMenu: true,
		Position:              PositionCursor,
		Items:                 items,
	})
}

// Active reports whether the menu is open.
func (h *Headless) Active() bool {
	return h.active
}

// Root returns the menu root.
func (h *Headless) Root() *Root {
	return h.root
}

// Menu returns the top-level panel.
func (h *Headless) Menu() *Panel {
	return h.root.panel
}

// Element returns the element enclosing the trigger.
func (h *Headless) Element() *event.Element {
	return h.el
}

// TriggerElement returns the focusable trigger.
func (h *Headless) TriggerElement() *event.Element {
	return h.trigger
}

// Pulldown exposes the activation controller.
func (h *Headless) Pulldown() *pulldown.Pulldown {
	return h.pd
}

// Place sets the trigger's cell rectangle.
func (h *Headless) Place(r geom.Rect) {
	if h.el.Bounds == r {
		return
	}
	h.el.Bounds = r
	h.trigger.Bounds = r
	h.env.Invalidate()
}

// SetItems replaces the rows, keeping entries whose identity survives.
func (h *Headless) SetItems(items []Item) {
	h.opts.Items = items
	h.root.panel.SetItems(items)
	h.env.Invalidate()
}

// SetTrigger replaces the trigger text.
func (h *Headless) SetTrigger(text string) {
	if h.opts.Trigger == text {
		return
	}
	h.opts.Trigger = text
	h.env.Invalidate()
}

// Open opens the menu below the trigger, as the keyboard does.
func (h *Headless) Open() {
	h.setOpenedByKeyboard(true)
}

func (h *Headless) onActivate(ev *event.Event) {
	switch h.opts.Position {
	case PositionCursor:
		h.anchor = &geom.Rect{Left: ev.X, Top: ev.Y}
	default:
		h.anchor = h.bottomAnchor()
	}
	h.setActive(true)
}

func (h *Headless) onDeactivate() {
	h.setActive(false)
	h.pd.DeactivateWithoutCallback()
}

func (h *Headless) setOpenedByKeyboard(opened bool) {
	if !opened {
		h.onDeactivate()
		return
	}
	h.anchor = h.bottomAnchor()
	h.setActive(true)
}

func (h *Headless) bottomAnchor() *geom.Rect {
	r := h.trigger.Bounds
	return &geom.Rect{Left: r.Left, Top: r.Bottom(), Width: r.Width, Height: 0}
}

func (h *Headless) setActive(active bool) {
	if h.active == active {
		return
	}
	h.active = active
	if !active {
		h.timer.Stop()
	}
	h.env.Invalidate()
}

func (h *Headless) layout() {
	h.root.layout(h.active, true, h.anchor)
}

func (h *Headless) renderTrigger() string {
	if h.opts.Trigger == "" {
		return ""
	}
	return h.env.Theme.Trigger.Render(h.opts.Trigger)
}

// View renders the trigger.
func (h *Headless) View() string {
	return h.pd.View()
}

// Unmount removes the menu.
func (h *Headless) Unmount() {
	h.timer.Stop()
	h.pd.Unmount()
	h.root.destroy()
	h.env.Doc.Remove(h.el)
	h.env.unmount(h)
}
