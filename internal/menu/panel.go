package menu

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/geom"
	"github.com/atomicstack/menubar/internal/layer"
	"github.com/atomicstack/menubar/internal/logging/events"
	"github.com/atomicstack/menubar/internal/ui/state"
)

const (
	checkMark   = "✓ "
	submenuMark = "▸"
	rightGap    = 2
)

// Panel is one level of a menu tree. It owns the choice scope of its rows
// and positions itself whenever it receives a new anchor.
type Panel struct {
	env    *Env
	root   *Root
	parent *Panel
	name   string
	el     *event.Element

	choices *state.ChoiceList[*Entry]
	rows    []*Entry

	// anchor is compared by identity: every open hands over a fresh rect.
	anchor      *geom.Rect
	placedFor   *geom.Rect
	submenu     bool
	dir         geom.Direction
	place       geom.Placement
	size        geom.Size
	labelWidth  int
	rightWidth  int
	typeAhead   state.TypeAhead
	placedWidth int
}

func newPanel(env *Env, root *Root, parent *Panel, parentEl *event.Element, name string, items []Item) *Panel {
	p := &Panel{
		env:     env,
		root:    root,
		parent:  parent,
		name:    name,
		submenu: parent != nil,
		dir:     geom.Rightward,
		choices: state.NewChoiceList[*Entry](),
	}
	p.choices.OnChange = env.Invalidate
	p.el = env.Doc.NewElement(parentEl, "menu:"+name)
	p.el.On(event.PointerUp, func(ev *event.Event) {
		ev.StopPropagation()
	})
	for _, item := range items {
		p.rows = append(p.rows, newEntry(p, item))
	}
	return p
}

// ChildList returns the selectable rows in render order.
func (p *Panel) ChildList() []*Entry {
	return p.choices.List()
}

// ActiveItem returns the highlighted row, or nil.
func (p *Panel) ActiveItem() *Entry {
	e, ok := p.choices.Active()
	if !ok {
		return nil
	}
	return e
}

// ActivateNextItem highlights the next enabled row.
func (p *Panel) ActivateNextItem() {
	p.choices.Navigate(1, (*Entry).Disabled)
}

// ActivatePrevItem highlights the previous enabled row.
func (p *Panel) ActivatePrevItem() {
	p.choices.Navigate(-1, (*Entry).Disabled)
}

// TypeAhead extends the panel's search query with text and highlights the
// best matching enabled row.
func (p *Panel) TypeAhead(text string) bool {
	query := p.typeAhead.Append(text, p.env.Loop.Now())
	var candidates []state.Candidate
	var targets []*Entry
	for _, e := range p.ChildList() {
		if e.Disabled() {
			continue
		}
		candidates = append(candidates, state.Candidate{ID: e.item.ID, Label: e.Label()})
		targets = append(targets, e)
	}
	idx := state.BestMatchIndex(candidates, query)
	if idx < 0 {
		return false
	}
	targets[idx].Activate()
	return true
}

// Anchor returns the rectangle the panel was last opened against.
func (p *Panel) Anchor() (geom.Rect, bool) {
	if p.anchor == nil {
		return geom.Rect{}, false
	}
	return *p.anchor, true
}

// Placement returns the computed origin.
func (p *Panel) Placement() geom.Placement {
	return p.place
}

// Size returns the rendered size.
func (p *Panel) Size() geom.Size {
	return p.size
}

// Direction is the growth direction handed to submenus.
func (p *Panel) Direction() geom.Direction {
	return p.dir
}

// Element returns the panel's element.
func (p *Panel) Element() *event.Element {
	return p.el
}

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool {
	return p.anchor != nil && p.el.Visible()
}

func (p *Panel) inherited() geom.Direction {
	if p.parent == nil {
		return geom.Rightward
	}
	return p.parent.dir
}

func (p *Panel) contentsTop() int {
	if !p.submenu {
		return 0
	}
	return p.env.Theme.Menu.GetBorderTopSize() + p.env.Theme.Menu.GetPaddingTop()
}

// layout measures and positions the panel, then lays out its rows. It runs
// on every commit pass and must be idempotent.
func (p *Panel) layout() {
	if p.anchor == nil {
		p.el.Bounds = geom.Rect{}
		return
	}
	p.measure()
	if p.anchor != p.placedFor {
		p.placedFor = p.anchor
		p.choices.Clear()
		p.typeAhead.Reset()
		for _, e := range p.rows {
			e.onParentOpen()
		}
		p.position()
		events.Menu.Open(p.name, p.place.Top, p.place.Left, p.place.Flipped)
		p.env.Invalidate()
	} else if p.size.Width != p.placedWidth {
		p.position()
	}

	menu := p.env.Theme.Menu
	p.el.Bounds = geom.Rect{Left: p.place.Left, Top: p.place.Top, Width: p.size.Width, Height: p.size.Height}
	left := p.place.Left + menu.GetBorderLeftSize() + menu.GetPaddingLeft()
	top := p.place.Top + menu.GetBorderTopSize() + menu.GetPaddingTop()
	for i, e := range p.rows {
		e.el.Bounds = geom.Rect{Left: left, Top: top + i, Width: p.rowWidth(), Height: 1}
	}
	if p.settle() {
		p.env.Invalidate()
	}
	for _, e := range p.rows {
		e.layout()
	}
}

func (p *Panel) position() {
	p.place = geom.Position(p.size, *p.anchor, p.inherited(), p.contentsTop(), p.env.Viewport)
	p.placedWidth = p.size.Width
	p.dir = p.inherited()
	if p.place.Flipped {
		p.dir = p.dir.Flip()
	}
}

func (p *Panel) measure() {
	labelWidth, rightWidth := 0, 0
	for _, e := range p.rows {
		if e.item.Separator {
			continue
		}
		labelWidth = max(labelWidth, ansi.StringWidth(e.Label()))
		rightWidth = max(rightWidth, ansi.StringWidth(e.right()))
	}
	p.labelWidth, p.rightWidth = labelWidth, rightWidth
	if vw := p.env.Viewport.Width; vw > 0 {
		if over := p.frameWidth() + p.rowWidth() - vw; over > 0 {
			p.labelWidth = max(1, p.labelWidth-over)
		}
	}
	view := p.render(false)
	p.size = geom.Size{Width: lipgloss.Width(view), Height: lipgloss.Height(view)}
}

func (p *Panel) frameWidth() int {
	return p.env.Theme.Menu.GetHorizontalFrameSize()
}

func (p *Panel) innerWidth() int {
	w := ansi.StringWidth(checkMark) + p.labelWidth
	if p.rightWidth > 0 {
		w += rightGap + p.rightWidth
	}
	return w
}

func (p *Panel) rowWidth() int {
	return p.innerWidth() + p.env.Theme.MenuItem.GetHorizontalPadding()
}

func (p *Panel) render(faint bool) string {
	lines := make([]string, 0, len(p.rows))
	for _, e := range p.rows {
		lines = append(lines, e.render(faint))
	}
	style := *p.env.Theme.Menu
	if faint {
		style = style.Faint(true)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// View renders the panel alone.
func (p *Panel) View() string {
	return p.render(false)
}

func (p *Panel) patches(faint bool, out []layer.Patch) []layer.Patch {
	if !p.Visible() {
		return out
	}
	out = append(out, layer.Patch{
		X:     p.place.Left,
		Y:     p.place.Top,
		Lines: strings.Split(p.render(faint), "\n"),
	})
	for _, e := range p.rows {
		if e.child != nil && e.Opened() {
			out = e.child.patches(faint, out)
		}
	}
	return out
}

func (p *Panel) fitLabel(label string) string {
	if ansi.StringWidth(label) <= p.labelWidth {
		return label
	}
	return truncate.StringWithTail(label, uint(p.labelWidth), "…")
}

// SetItems replaces the rows, keeping the entries whose ID (or label)
// matches so their state and handles survive.
func (p *Panel) SetItems(items []Item) {
	existing := make(map[string]*Entry, len(p.rows))
	for _, e := range p.rows {
		if key := itemKey(e.item); key != "" {
			if _, dup := existing[key]; !dup {
				existing[key] = e
			}
		}
	}
	kept := make(map[*Entry]bool, len(items))
	rows := make([]*Entry, 0, len(items))
	for _, item := range items {
		key := itemKey(item)
		if e, ok := existing[key]; ok && e.item.HasChildren() == item.HasChildren() {
			delete(existing, key)
			kept[e] = true
			e.update(item)
			rows = append(rows, e)
			continue
		}
		rows = append(rows, newEntry(p, item))
	}
	for _, e := range p.rows {
		if !kept[e] {
			e.destroy()
		}
	}
	p.rows = rows
	p.settle()
	p.env.Invalidate()
}

// settle puts the choice scope in row order.
func (p *Panel) settle() bool {
	order := make([]state.ID, 0, len(p.rows))
	for _, e := range p.rows {
		if e.choice != nil {
			order = append(order, e.choice.ID())
		}
	}
	return p.choices.Settle(order)
}

func (p *Panel) destroy() {
	for _, e := range p.rows {
		e.destroy()
	}
	p.rows = nil
	p.env.Doc.Remove(p.el)
}

func itemKey(item Item) string {
	if item.Separator {
		return ""
	}
	if item.ID != "" {
		return "id:" + item.ID
	}
	return "label:" + item.Label
}
