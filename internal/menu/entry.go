package menu

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/geom"
	"github.com/atomicstack/menubar/internal/keybind"
	"github.com/atomicstack/menubar/internal/logging"
	"github.com/atomicstack/menubar/internal/logging/events"
	"github.com/atomicstack/menubar/internal/schedule"
	"github.com/atomicstack/menubar/internal/ui/state"
)

// OpenOptions tune Entry.Open.
type OpenOptions struct {
	// ActivateFirstItem highlights the first enabled row of the submenu on
	// the frame after it opens.
	ActivateFirstItem bool
}

// Entry is the live handle of one menu row. Handles stay stable across
// layout passes and item updates, so ancestors and the keyboard navigator
// can hold on to them.
type Entry struct {
	panel  *Panel
	item   Item
	el     *event.Element
	choice *state.Choice[*Entry]
	child  *Panel

	opened   bool
	flashing bool
	watched  bool

	timer   *schedule.Timer
	trigger *keybind.Trigger
	unbind  func()
}

func newEntry(p *Panel, item Item) *Entry {
	e := &Entry{panel: p, item: item, timer: schedule.NewTimer(p.env.Loop)}
	if item.Separator {
		e.el = p.env.Doc.NewElement(p.el, "separator")
		return e
	}
	e.el = p.env.Doc.NewElement(p.el, "item:"+item.Title())
	e.choice = p.choices.NewChoice(e)
	if item.HasChildren() {
		if item.OnClick != nil {
			logging.Warnf("menu item %q has both OnClick and child items; OnClick is ignored", item.Title())
		}
		e.child = newPanel(p.env, p.root, p, e.el, item.Title(), item.Items)
		e.child.el.Hidden = true
	}
	e.bind()
	e.el.On(event.PointerEnter, e.onPointerEnter)
	e.el.On(event.PointerLeave, e.onPointerLeave)
	e.el.On(event.PointerUp, e.onPointerUp)
	return e
}

// Item returns the row's current declaration.
func (e *Entry) Item() Item {
	return e.item
}

// Label returns the displayed label.
func (e *Entry) Label() string {
	return e.item.Title()
}

// Active reports whether the row is highlighted.
func (e *Entry) Active() bool {
	return e.choice != nil && e.choice.Active()
}

// Opened reports whether the row is highlighted with its submenu open.
func (e *Entry) Opened() bool {
	return e.opened && e.Active()
}

// Disabled reports whether the row ignores activation.
func (e *Entry) Disabled() bool {
	return e.item.Disabled || e.item.Separator
}

// HasChild reports whether the row owns a submenu.
func (e *Entry) HasChild() bool {
	return e.child != nil
}

// Flashing reports whether the row shows the fired acknowledgement.
func (e *Entry) Flashing() bool {
	return e.flashing
}

// Menu returns the submenu handle, or nil for a leaf.
func (e *Entry) Menu() *Panel {
	return e.child
}

// ChildList returns the submenu rows, or nil for a leaf.
func (e *Entry) ChildList() []*Entry {
	if e.child == nil {
		return nil
	}
	return e.child.ChildList()
}

// Element returns the row's element.
func (e *Entry) Element() *event.Element {
	return e.el
}

// Activate highlights the row.
func (e *Entry) Activate() {
	if e.choice != nil {
		e.choice.Activate()
	}
}

// Open highlights the row and opens its submenu.
func (e *Entry) Open(opts OpenOptions) {
	e.Activate()
	if e.child == nil {
		return
	}
	e.setOpened(true)
	if !opts.ActivateFirstItem {
		return
	}
	// The submenu clears its highlight and settles its row order when it
	// positions itself, which happens on the commit before the next frame.
	e.timer.Schedule(e.activateFirstChild, 0)
}

func (e *Entry) activateFirstChild() {
	if e.child == nil || !e.Opened() {
		return
	}
	for _, c := range e.child.ChildList() {
		if !c.Disabled() {
			c.Activate()
			return
		}
	}
}

// Close closes the submenu and keeps the row highlighted.
func (e *Entry) Close() {
	e.setOpened(false)
}

// Fire runs a leaf row: it flashes, schedules OnClick after the fade delay
// (or runs it at once with NoDelay) and asks the root menu to close.
// Rows with a submenu ignore it.
func (e *Entry) Fire() {
	if e.child != nil || e.item.Separator {
		return
	}
	e.flashing = true
	e.panel.env.Invalidate()
	events.Menu.Fire(e.Label(), e.item.NoDelay)
	if onClick := e.item.OnClick; onClick != nil {
		if e.item.NoDelay {
			onClick()
		} else {
			e.timer.Schedule(onClick, e.panel.env.Fade.Delay)
		}
	}
	e.panel.root.DelayClose()
}

func (e *Entry) setOpened(opened bool) {
	if e.opened == opened {
		return
	}
	e.opened = opened
	e.panel.env.Invalidate()
}

func (e *Entry) onParentOpen() {
	e.flashing = false
	e.opened = false
	e.watched = false
}

func (e *Entry) layout() {
	if e.child == nil {
		return
	}
	open := e.Opened()
	if open != e.watched {
		e.watched = open
		if open {
			r := e.el.Bounds
			e.child.anchor = &r
			if e.item.OnOpen != nil {
				e.item.OnOpen()
			}
			e.panel.env.Invalidate()
		}
	}
	e.child.el.Hidden = !open
	e.child.layout()
}

func (e *Entry) onPointerEnter(ev *event.Event) {
	if ev.PointerType != event.Mouse || e.Disabled() {
		return
	}
	if e.child != nil {
		e.setOpened(true)
	}
	e.Activate()
}

func (e *Entry) onPointerLeave(ev *event.Event) {
	if ev.PointerType != event.Mouse || e.choice == nil {
		return
	}
	if e.child != nil && e.child.el.Contains(ev.RelatedTarget) {
		return
	}
	e.choice.Deactivate()
}

func (e *Entry) onPointerUp(*event.Event) {
	if e.Disabled() {
		return
	}
	e.panel.env.Doc.Blur()
	e.Fire()
}

func (e *Entry) bind() {
	if e.item.Keybind == "" {
		return
	}
	trigger := keybind.MustParse(e.item.Keybind)
	e.trigger = &trigger
	e.unbind = e.panel.env.Keys.Register(&keybind.Binding{Trigger: trigger, Callback: e.onShortcut})
}

func (e *Entry) unbindShortcut() {
	if e.unbind != nil {
		e.unbind()
		e.unbind = nil
	}
	e.trigger = nil
}

func (e *Entry) onShortcut() {
	onClick := e.item.OnClick
	if e.Disabled() || e.child != nil || onClick == nil {
		return
	}
	if e.item.NoDelay {
		onClick()
		return
	}
	e.timer.Schedule(onClick, 0)
}

func (e *Entry) update(item Item) {
	old := e.item
	e.item = item
	e.el.Name = "item:" + item.Title()
	if old.Keybind != item.Keybind {
		e.unbindShortcut()
		e.bind()
	}
	if e.child != nil {
		e.child.name = item.Title()
		e.child.SetItems(item.Items)
	}
	e.panel.env.Invalidate()
}

func (e *Entry) right() string {
	var b strings.Builder
	if e.trigger != nil {
		b.WriteString(e.trigger.Display())
	}
	if e.child != nil {
		b.WriteString(submenuMark)
	}
	return b.String()
}

func (e *Entry) render(faint bool) string {
	p := e.panel
	width := p.rowWidth()
	if e.item.Separator {
		style := *p.env.Theme.Separator
		if faint {
			style = style.Faint(true)
		}
		return style.Render(strings.Repeat("─", width))
	}
	check := "  "
	if e.item.Checked {
		check = checkMark
	}
	label := p.fitLabel(e.Label())
	var b strings.Builder
	b.WriteString(check)
	b.WriteString(label)
	b.WriteString(strings.Repeat(" ", max(0, p.labelWidth-ansi.StringWidth(label))))
	if p.rightWidth > 0 {
		right := e.right()
		b.WriteString(strings.Repeat(" ", rightGap+p.rightWidth-ansi.StringWidth(right)))
		b.WriteString(right)
	}
	style := p.env.Theme.Item(e.Active(), e.Disabled(), e.flashing).Width(width)
	if faint {
		style = style.Faint(true)
	}
	return style.Render(b.String())
}

// Bounds returns the row's cell rectangle.
func (e *Entry) Bounds() geom.Rect {
	return e.el.Bounds
}

func (e *Entry) destroy() {
	e.timer.Stop()
	e.unbindShortcut()
	if e.choice != nil {
		e.choice.Unregister()
	}
	if e.child != nil {
		e.child.destroy()
	}
	e.panel.env.Doc.Remove(e.el)
}
