package menu

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/geom"
	"github.com/atomicstack/menubar/internal/pulldown"
	"github.com/atomicstack/menubar/internal/schedule"
	"github.com/atomicstack/menubar/internal/ui/state"
)

// Bar is a menu bar: a row of entries sharing one activation controller and
// one keyboard focus ring.
type Bar struct {
	env     *Env
	el      *event.Element
	pd      *pulldown.Pulldown
	choices *state.ChoiceList[*BarItem]
	items   []*BarItem
	active  bool

	// Left and Top place the bar in the view.
	Left, Top int
}

// NewBar mounts a bar with one entry per menu.
func NewBar(env *Env, menus []BarMenu) *Bar {
	b := &Bar{env: env, choices: state.NewChoiceList[*BarItem]()}
	b.choices.OnChange = env.Invalidate
	b.el = env.Doc.NewElement(nil, "menubar")
	b.pd = pulldown.New(env.Doc, b.el, pulldown.Options{
		Name:         "menubar",
		Click:        env.Click,
		OnActivate:   func(*event.Event) { b.setActive(true) },
		OnDeactivate: func() { b.setActive(false) },
		Render:       b.render,
	})
	for _, m := range menus {
		b.items = append(b.items, newBarItem(b, m))
	}
	env.mount(b)
	return b
}

// Active reports whether the bar's controller is engaged.
func (b *Bar) Active() bool {
	return b.active
}

// Items returns the bar entries in order.
func (b *Bar) Items() []*BarItem {
	return b.choices.List()
}

// Item finds an entry by menu ID.
func (b *Bar) Item(id string) (*BarItem, bool) {
	for _, it := range b.items {
		if it.menu.ID == id {
			return it, true
		}
	}
	return nil, false
}

// ActiveItem returns the highlighted entry, or nil.
func (b *Bar) ActiveItem() *BarItem {
	it, ok := b.choices.Active()
	if !ok {
		return nil
	}
	return it
}

// Pulldown exposes the bar's activation controller.
func (b *Bar) Pulldown() *pulldown.Pulldown {
	return b.pd
}

// Cancel closes the bar.
func (b *Bar) Cancel() {
	b.setActive(false)
	b.pd.Deactivate()
}

func (b *Bar) setActive(active bool) {
	if b.active == active {
		return
	}
	b.active = active
	b.env.Invalidate()
}

func (b *Bar) moveFocus(dir int) {
	list := b.choices.List()
	n := len(list)
	idx, ok := b.choices.ActiveIndex()
	if !ok || n == 0 {
		return
	}
	list[(idx+dir+n)%n].Focus()
}

// SetMenus replaces the entries, keeping those whose ID matches.
func (b *Bar) SetMenus(menus []BarMenu) {
	existing := make(map[string]*BarItem, len(b.items))
	for _, it := range b.items {
		existing[it.key()] = it
	}
	items := make([]*BarItem, 0, len(menus))
	for _, m := range menus {
		key := barKey(m)
		if it, ok := existing[key]; ok {
			delete(existing, key)
			it.update(m)
			items = append(items, it)
			continue
		}
		items = append(items, newBarItem(b, m))
	}
	for _, it := range existing {
		it.destroy()
	}
	b.items = items
	b.env.Invalidate()
}

func (b *Bar) layout() {
	style := b.env.Theme.MenuBar
	b.el.Bounds = geom.Rect{Left: b.Left, Top: b.Top, Width: max(0, b.env.Viewport.Width-b.Left), Height: 1}
	x := b.Left + style.GetBorderLeftSize() + style.GetPaddingLeft()
	y := b.Top + style.GetBorderTopSize() + style.GetPaddingTop()
	order := make([]state.ID, 0, len(b.items))
	for _, it := range b.items {
		w := lipgloss.Width(it.view())
		it.el.Bounds = geom.Rect{Left: x, Top: y, Width: w, Height: 1}
		x += w
		order = append(order, it.choice.ID())
	}
	if b.choices.Settle(order) {
		b.env.Invalidate()
	}
	for _, it := range b.items {
		it.layout()
	}
}

func (b *Bar) render(bool) string {
	parts := make([]string, 0, len(b.items))
	for _, it := range b.items {
		parts = append(parts, it.view())
	}
	style := *b.env.Theme.MenuBar
	if b.env.Viewport.Width > b.Left {
		style = style.Width(b.env.Viewport.Width - b.Left)
	}
	return style.Render(strings.Join(parts, ""))
}

// View renders the bar row.
func (b *Bar) View() string {
	return b.pd.View()
}

// Unmount removes the bar and its menus.
func (b *Bar) Unmount() {
	for _, it := range b.items {
		it.destroy()
	}
	b.items = nil
	b.pd.Unmount()
	b.env.Doc.Remove(b.el)
	b.env.unmount(b)
}

// BarItem is one entry of a Bar and the owner of its drop-down menu.
type BarItem struct {
	bar    *Bar
	menu   BarMenu
	el     *event.Element
	choice *state.Choice[*BarItem]
	root   *Root
	nav    *Navigator
	timer  *schedule.Timer

	opened  bool
	watched bool
	anchor  *geom.Rect
}

func newBarItem(b *Bar, m BarMenu) *BarItem {
	env := b.env
	it := &BarItem{bar: b, menu: m, timer: schedule.NewTimer(env.Loop)}
	it.el = env.Doc.NewElement(b.el, "baritem:"+m.Title())
	it.el.Focusable = true
	it.choice = b.choices.NewChoice(it)
	it.root = newRoot(env, b.el, m.Title(), m.Items, func() {
		b.Cancel()
		it.setOpened(false)
	})
	it.nav = &Navigator{
		Root:      it.root.Menu,
		Opened:    it.Active,
		SetOpened: it.setOpenedByKeyboard,
		Next:      func() { b.moveFocus(1) },
		Prev:      func() { b.moveFocus(-1) },
		Timer:     it.timer,
	}

	it.el.On(event.PointerDown, func(*event.Event) {
		it.choice.Activate()
	})
	it.el.On(event.PointerEnter, func(ev *event.Event) {
		if b.active && ev.PointerType == event.Mouse {
			it.choice.Activate()
		}
	})
	it.el.On(event.PointerLeave, func(ev *event.Event) {
		if it.menu.DeactivateOnPointerLeave && !it.root.panel.el.Contains(ev.RelatedTarget) {
			it.choice.Deactivate()
		}
	})
	it.el.On(event.Focus, func(*event.Event) {
		if !it.choice.Active() {
			it.setOpened(true)
			it.choice.Activate()
		}
	})
	it.el.On(event.Blur, func(*event.Event) {
		it.setOpened(false)
	})
	it.el.On(event.KeyDown, it.nav.HandleKey)
	return it
}

// Label returns the displayed label.
func (it *BarItem) Label() string {
	return it.menu.Title()
}

// ID returns the menu ID.
func (it *BarItem) ID() string {
	return it.menu.ID
}

// Active reports whether the entry's menu is shown: it is the highlighted
// entry and either the bar is engaged or the entry was opened by focus.
func (it *BarItem) Active() bool {
	return it.choice.Active() && (it.bar.active || it.opened)
}

// Root returns the entry's menu root.
func (it *BarItem) Root() *Root {
	return it.root
}

// Menu returns the entry's top-level panel.
func (it *BarItem) Menu() *Panel {
	return it.root.panel
}

// Element returns the entry's element.
func (it *BarItem) Element() *event.Element {
	return it.el
}

// Focus moves keyboard focus to the entry.
func (it *BarItem) Focus() {
	it.bar.env.Doc.Focus(it.el)
}

// Open focuses the entry and opens its menu.
func (it *BarItem) Open() {
	it.choice.Activate()
	it.setOpened(true)
	it.Focus()
}

func (it *BarItem) setOpened(opened bool) {
	if it.opened == opened {
		return
	}
	it.opened = opened
	it.bar.env.Invalidate()
}

// setOpenedByKeyboard closing also disengages the bar, so Escape closes a
// menu opened by the pointer as well.
func (it *BarItem) setOpenedByKeyboard(opened bool) {
	it.setOpened(opened)
	if !opened {
		it.bar.Cancel()
	}
}

func (it *BarItem) layout() {
	active := it.Active()
	if active != it.watched {
		it.watched = active
		if active {
			r := it.el.Bounds
			it.anchor = &geom.Rect{Top: r.Bottom(), Left: r.Left, Width: r.Width, Height: 0}
			if it.menu.OnOpen != nil && len(it.menu.Items) > 0 {
				it.menu.OnOpen()
			}
			it.Focus()
		} else {
			it.timer.Stop()
		}
	}
	it.root.layout(active, it.choice.Active(), it.anchor)
}

func (it *BarItem) view() string {
	return it.bar.env.Theme.BarItem(it.Active()).Render(it.Label())
}

func (it *BarItem) key() string {
	return barKey(it.menu)
}

func barKey(m BarMenu) string {
	if m.ID != "" {
		return "id:" + m.ID
	}
	return "label:" + m.Label
}

func (it *BarItem) update(m BarMenu) {
	it.menu = m
	it.el.Name = "baritem:" + m.Title()
	it.root.name = m.Title()
	it.root.panel.name = m.Title()
	it.root.panel.SetItems(m.Items)
}

func (it *BarItem) destroy() {
	it.timer.Stop()
	it.choice.Unregister()
	it.root.destroy()
	it.bar.env.Doc.Remove(it.el)
}
