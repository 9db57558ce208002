package menu

import (
	"testing"
	"time"

	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/geom"
	"github.com/atomicstack/menubar/internal/schedule"
	"github.com/atomicstack/menubar/internal/theme"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type rig struct {
	t     *testing.T
	env   *Env
	clock *schedule.ManualClock
}

func newRig(t *testing.T, width, height int) *rig {
	t.Helper()
	clock := schedule.NewManualClock(epoch)
	return &rig{t: t, env: NewEnv(clock, theme.Default(), geom.Size{Width: width, Height: height}), clock: clock}
}

func (r *rig) send(ev *event.Event) *event.Event {
	ev.Time = r.clock.Now()
	r.env.Dispatch(ev)
	r.env.Flush()
	return ev
}

func (r *rig) press(x, y int) *event.Event {
	return r.send(&event.Event{Kind: event.PointerDown, X: x, Y: y, PointerType: event.Mouse})
}

func (r *rig) release(x, y int) *event.Event {
	return r.send(&event.Event{Kind: event.PointerUp, X: x, Y: y, PointerType: event.Mouse})
}

func (r *rig) move(x, y int) *event.Event {
	return r.send(&event.Event{Kind: event.PointerMove, X: x, Y: y, PointerType: event.Mouse})
}

func (r *rig) click(x, y int) {
	r.press(x, y)
	r.advance(30 * time.Millisecond)
	r.release(x, y)
}

func (r *rig) rightClick(x, y int) {
	r.send(&event.Event{Kind: event.PointerDown, X: x, Y: y, Button: event.ButtonSecondary, PointerType: event.Mouse})
	r.send(&event.Event{Kind: event.ContextMenu, X: x, Y: y, Button: event.ButtonSecondary, PointerType: event.Mouse})
	r.advance(30 * time.Millisecond)
	r.send(&event.Event{Kind: event.PointerUp, X: x, Y: y, Button: event.ButtonSecondary, PointerType: event.Mouse})
}

func (r *rig) key(key string) *event.Event {
	return r.send(&event.Event{Kind: event.KeyDown, Key: key, Code: key})
}

type eventKey struct {
	key, code        string
	ctrl, shift, alt bool
}

func (k eventKey) event() *event.Event {
	return &event.Event{Kind: event.KeyDown, Key: k.key, Code: k.code, Ctrl: k.ctrl, Shift: k.shift, Alt: k.alt}
}

func (r *rig) advance(d time.Duration) {
	r.clock.Advance(d)
	r.env.Tick()
}

func (r *rig) commit() {
	r.env.Commit()
}

func center(rect geom.Rect) (int, int) {
	return rect.Left + rect.Width/2, rect.Top + rect.Height/2
}

func findEntry(t *testing.T, p *Panel, label string) *Entry {
	t.Helper()
	for _, e := range p.ChildList() {
		if e.Label() == label {
			return e
		}
	}
	t.Fatalf("expected entry %q in panel %q", label, p.name)
	return nil
}

func activeLabel(p *Panel) string {
	if e := p.ActiveItem(); e != nil {
		return e.Label()
	}
	return ""
}

// demoMenus mirrors a classic application menu bar.
func demoMenus(clicks map[string]int) []BarMenu {
	count := func(name string) func() {
		return func() { clicks[name]++ }
	}
	return []BarMenu{
		{ID: "file", Label: "File", Items: []Item{
			{ID: "new", Label: "New", OnClick: count("new")},
			{ID: "open", Label: "Open", OnClick: count("open")},
			Separator(),
			{ID: "save", Label: "Save", Disabled: true, OnClick: count("save")},
			{ID: "export", Label: "Export", Items: []Item{
				{ID: "pdf", Label: "PDF...", OnClick: count("pdf")},
				{ID: "png", Label: "PNG...", OnClick: count("png")},
			}},
		}},
		{ID: "edit", Label: "Edit", Items: []Item{
			{ID: "undo", Label: "Undo", Keybind: "ctrl+KeyZ", OnClick: count("undo")},
			Separator(),
			{ID: "cut", Label: "Cut", NoDelay: true, OnClick: count("cut")},
		}},
	}
}
