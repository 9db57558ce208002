package menu

import (
	"testing"
	"time"

	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/geom"
)

func contextItems(label string, clicks map[string]int) []Item {
	return []Item{
		{ID: label + "-1", Label: label + " 1", OnClick: func() { clicks[label+"-1"]++ }},
		{ID: label + "-2", Label: label + " 2", OnClick: func() { clicks[label+"-2"]++ }},
	}
}

func TestContextMenuOpensAtCursor(t *testing.T) {
	r := newRig(t, 80, 24)
	clicks := map[string]int{}
	ctx := NewContextMenu(r.env, nil, "area", contextItems("ctx", clicks))
	ctx.Place(geom.Rect{Left: 10, Top: 10, Width: 20, Height: 3})
	r.commit()

	r.press(12, 11)
	if ctx.Active() {
		t.Fatalf("expected a primary press not to open a context menu")
	}
	r.advance(time.Second)
	r.rightClick(12, 11)
	if !ctx.Active() {
		t.Fatalf("expected context-menu request to open")
	}
	anchor, _ := ctx.Menu().Anchor()
	if anchor != (geom.Rect{Left: 12, Top: 11}) {
		t.Fatalf("expected cursor anchor, got %+v", anchor)
	}
	pl := ctx.Menu().Placement()
	if pl.Left != 12 || pl.Top != 11 {
		t.Fatalf("expected panel at the cursor, got %+v", pl)
	}

	r.advance(time.Second)
	r.press(60, 2)
	if ctx.Active() {
		t.Fatalf("expected outside press to close")
	}
	if ctx.Pulldown().Armed() != 0 {
		t.Fatalf("expected listeners drained, got %d", ctx.Pulldown().Armed())
	}
}

func TestNestedContextMenusClaimOnce(t *testing.T) {
	r := newRig(t, 80, 24)
	clicks := map[string]int{}
	outer := NewContextMenu(r.env, nil, "outer", contextItems("outer", clicks))
	outer.Place(geom.Rect{Left: 10, Top: 10, Width: 30, Height: 8})
	inner := NewContextMenu(r.env, outer.Element(), "inner", contextItems("inner", clicks))
	inner.Place(geom.Rect{Left: 12, Top: 12, Width: 10, Height: 3})
	r.commit()

	r.rightClick(14, 13)
	if !inner.Active() || outer.Active() {
		t.Fatalf("expected only the inner menu to open, inner=%v outer=%v", inner.Active(), outer.Active())
	}
	r.advance(time.Second)
	r.press(70, 22)
	r.advance(time.Second)

	r.rightClick(35, 16)
	if !outer.Active() || inner.Active() {
		t.Fatalf("expected only the outer menu to open, inner=%v outer=%v", inner.Active(), outer.Active())
	}
}

func TestContextMenuRowFiresAndCloses(t *testing.T) {
	r := newRig(t, 80, 24)
	clicks := map[string]int{}
	ctx := NewContextMenu(r.env, nil, "area", contextItems("ctx", clicks))
	ctx.Place(geom.Rect{Left: 10, Top: 10, Width: 20, Height: 3})
	r.commit()
	r.rightClick(12, 11)

	row := findEntry(t, ctx.Menu(), "ctx 2")
	x, y := center(row.Bounds())
	r.move(x, y)
	r.advance(time.Second)
	r.click(x, y)
	if ctx.Active() {
		t.Fatalf("expected firing a row to close the menu")
	}
	if ctx.Pulldown().Active() {
		t.Fatalf("expected the controller to return to idle")
	}
	r.advance(r.env.Fade.Delay)
	if clicks["ctx-2"] != 1 {
		t.Fatalf("expected one callback, got %d", clicks["ctx-2"])
	}
}

func TestPulldownButtonKeyboard(t *testing.T) {
	r := newRig(t, 80, 24)
	clicks := map[string]int{}
	h := NewHeadless(r.env, nil, HeadlessOptions{Name: "pull", Trigger: "Pulldown Here", Items: contextItems("pull", clicks)})
	h.Place(geom.Rect{Left: 40, Top: 2, Width: 15, Height: 1})
	r.commit()

	r.env.Doc.Focus(h.TriggerElement())
	r.key("ArrowDown")
	if !h.Active() {
		t.Fatalf("expected ArrowDown to open")
	}
	anchor, _ := h.Menu().Anchor()
	if anchor != (geom.Rect{Left: 40, Top: 3, Width: 15}) {
		t.Fatalf("expected bottom anchor, got %+v", anchor)
	}
	if got := activeLabel(h.Menu()); got != "pull 1" {
		t.Fatalf("expected first row active, got %q", got)
	}
	r.key("ArrowDown")
	r.key("Enter")
	if h.Active() {
		t.Fatalf("expected Enter on a leaf to close")
	}
	r.advance(r.env.Fade.Delay)
	if clicks["pull-2"] != 1 {
		t.Fatalf("expected pull 2 to run, got %d", clicks["pull-2"])
	}

	r.key("Enter")
	if !h.Active() {
		t.Fatalf("expected Enter to reopen")
	}
	r.key("Escape")
	if h.Active() || h.Pulldown().Active() {
		t.Fatalf("expected Escape to close")
	}
}

func TestPulldownButtonPointer(t *testing.T) {
	r := newRig(t, 80, 24)
	h := NewHeadless(r.env, nil, HeadlessOptions{Name: "pull", Trigger: "Pulldown Here", Items: contextItems("pull", map[string]int{})})
	h.Place(geom.Rect{Left: 40, Top: 2, Width: 15, Height: 1})
	r.commit()

	r.click(45, 2)
	if !h.Active() {
		t.Fatalf("expected click to open")
	}
	anchor, _ := h.Menu().Anchor()
	if anchor.Top != 3 || anchor.Left != 40 || anchor.Height != 0 {
		t.Fatalf("expected bottom anchor, got %+v", anchor)
	}
	r.advance(time.Second)
	r.send(&event.Event{Kind: event.KeyDown, Key: "Escape", Code: "Escape"})
	if h.Active() {
		t.Fatalf("expected Escape to close")
	}
	if h.Pulldown().Armed() != 0 {
		t.Fatalf("expected drained listeners, got %d", h.Pulldown().Armed())
	}
}

func TestHeadlessUnmountReleasesResources(t *testing.T) {
	r := newRig(t, 80, 24)
	h := NewHeadless(r.env, nil, HeadlessOptions{Name: "pull", Trigger: "x", Items: []Item{{Label: "A", Keybind: "alt+KeyA"}}})
	h.Place(geom.Rect{Left: 0, Top: 5, Width: 3, Height: 1})
	r.click(1, 5)
	h.Unmount()
	r.commit()
	if r.env.Doc.ListenerCount() != 0 {
		t.Fatalf("expected no document listeners, got %d", r.env.Doc.ListenerCount())
	}
	if r.env.Layer.Attached() {
		t.Fatalf("expected the layer to detach")
	}
}
