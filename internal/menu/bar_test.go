package menu

import (
	"testing"
	"time"

	"github.com/atomicstack/menubar/internal/geom"
	"github.com/atomicstack/menubar/internal/transition"
)

func openFile(t *testing.T, r *rig, bar *Bar) *BarItem {
	t.Helper()
	file, _ := bar.Item("file")
	x, y := center(file.Element().Bounds)
	r.click(x, y)
	if !file.Active() {
		t.Fatalf("expected File to be active after click")
	}
	return file
}

func TestBarKeyboardScenario(t *testing.T) {
	r := newRig(t, 80, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	r.commit()

	file, _ := bar.Item("file")
	x, y := center(file.Element().Bounds)
	r.press(x, y)
	if !file.Active() || !bar.Active() {
		t.Fatalf("expected pointer-down to activate the bar item")
	}
	anchor, ok := file.Menu().Anchor()
	b := file.Element().Bounds
	want := geom.Rect{Top: b.Bottom(), Left: b.Left, Width: b.Width, Height: 0}
	if !ok || anchor != want {
		t.Fatalf("expected anchor %+v, got %+v (set=%v)", want, anchor, ok)
	}
	if r.env.Doc.Focused() != file.Element() {
		t.Fatalf("expected the bar item to hold focus")
	}
	r.advance(20 * time.Millisecond)
	r.release(x, y)

	menu := file.Menu()
	r.key("ArrowDown")
	if got := activeLabel(menu); got != "New" {
		t.Fatalf("expected New to be active, got %q", got)
	}
	r.key("ArrowDown")
	r.key("ArrowDown")
	if got := activeLabel(menu); got != "Export" {
		t.Fatalf("expected disabled Save to be skipped, got %q", got)
	}

	r.key("ArrowRight")
	export := findEntry(t, menu, "Export")
	if !export.Opened() {
		t.Fatalf("expected Export to be opened")
	}
	if got := activeLabel(export.Menu()); got != "PDF..." {
		t.Fatalf("expected first submenu item to be active, got %q", got)
	}
	if chain := OpenChain(menu); len(chain) != 2 || chain[1] != export.Menu() {
		t.Fatalf("expected open chain to reach the submenu, got %d panels", len(chain))
	}

	r.key("ArrowLeft")
	if export.Opened() {
		t.Fatalf("expected ArrowLeft to close the submenu")
	}
	if got := activeLabel(menu); got != "Export" {
		t.Fatalf("expected Export to stay active, got %q", got)
	}

	r.key("ArrowRight")
	r.key("Escape")
	if file.Active() {
		t.Fatalf("expected Escape to deactivate the bar item")
	}
	if bar.Active() {
		t.Fatalf("expected Escape to disengage the bar")
	}
	if n := bar.Pulldown().Armed(); n != 0 {
		t.Fatalf("expected no armed listeners, got %d", n)
	}
	if file.Root().State() != transition.Exiting {
		t.Fatalf("expected the menu to fade out, got %s", file.Root().State())
	}
	r.advance(r.env.Fade.Duration)
	if file.Root().State() != transition.Exited || file.Root().Element().Visible() {
		t.Fatalf("expected the menu to be hidden after the fade")
	}
}

func TestFireFlashesThenRunsAfterDelay(t *testing.T) {
	r := newRig(t, 80, 24)
	clicks := map[string]int{}
	bar := NewBar(r.env, demoMenus(clicks))
	r.commit()
	file := openFile(t, r, bar)

	entry := findEntry(t, file.Menu(), "New")
	x, y := center(entry.Bounds())
	r.move(x, y)
	if !entry.Active() {
		t.Fatalf("expected hover to activate New")
	}
	r.advance(time.Second)
	r.click(x, y)

	if !entry.Flashing() {
		t.Fatalf("expected New to flash")
	}
	if clicks["new"] != 0 {
		t.Fatalf("expected callback to wait for the fade delay, got %d calls", clicks["new"])
	}
	if file.Active() || bar.Active() {
		t.Fatalf("expected the close request to close the bar")
	}
	root := file.Root()
	if root.State() != transition.Exiting {
		t.Fatalf("expected exiting state, got %s", root.State())
	}
	if !root.Element().Visible() || root.Element().Interactive() {
		t.Fatalf("expected an exiting menu to stay visible and ignore the pointer")
	}

	delay := r.env.Fade.Delay
	r.advance(delay - time.Millisecond)
	if clicks["new"] != 0 {
		t.Fatalf("expected no callback before the delay, got %d", clicks["new"])
	}
	r.advance(time.Millisecond)
	if clicks["new"] != 1 {
		t.Fatalf("expected exactly one callback after the delay, got %d", clicks["new"])
	}
	if root.State() != transition.Exiting {
		t.Fatalf("expected fade to continue after the delay, got %s", root.State())
	}
	r.advance(r.env.Fade.Duration)
	if root.State() != transition.Exited {
		t.Fatalf("expected fade to finish, got %s", root.State())
	}
}

func TestNoDelayFiresImmediately(t *testing.T) {
	r := newRig(t, 80, 24)
	clicks := map[string]int{}
	bar := NewBar(r.env, demoMenus(clicks))
	r.commit()
	edit, _ := bar.Item("edit")
	x, y := center(edit.Element().Bounds)
	r.click(x, y)
	cut := findEntry(t, edit.Menu(), "Cut")
	cx, cy := center(cut.Bounds())
	r.move(cx, cy)
	r.click(cx, cy)
	if clicks["cut"] != 1 {
		t.Fatalf("expected immediate callback, got %d", clicks["cut"])
	}
}

func TestDisabledRowIgnoresPointer(t *testing.T) {
	r := newRig(t, 80, 24)
	clicks := map[string]int{}
	bar := NewBar(r.env, demoMenus(clicks))
	r.commit()
	file := openFile(t, r, bar)
	save := findEntry(t, file.Menu(), "Save")
	x, y := center(save.Bounds())
	r.move(x, y)
	if save.Active() {
		t.Fatalf("expected disabled row not to activate on hover")
	}
	r.click(x, y)
	r.advance(time.Second)
	if clicks["save"] != 0 || !file.Active() {
		t.Fatalf("expected disabled row to ignore clicks, clicks=%d active=%v", clicks["save"], file.Active())
	}
}

func TestHoverKeepsParentWhileInsideSubmenu(t *testing.T) {
	r := newRig(t, 80, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	r.commit()
	file := openFile(t, r, bar)
	export := findEntry(t, file.Menu(), "Export")

	r.move(center(export.Bounds()))
	if !export.Opened() {
		t.Fatalf("expected hover to open Export")
	}
	pdf := findEntry(t, export.Menu(), "PDF...")
	r.move(center(pdf.Bounds()))
	if !export.Opened() || !pdf.Active() {
		t.Fatalf("expected Export to stay open while hovering its submenu")
	}

	open := findEntry(t, file.Menu(), "Open")
	r.move(center(open.Bounds()))
	if export.Active() || export.Menu().Visible() {
		t.Fatalf("expected leaving for a sibling to close the submenu")
	}
	if !open.Active() {
		t.Fatalf("expected Open to be active")
	}
}

func TestHoverSwitchesBarItemsOnlyWhileEngaged(t *testing.T) {
	r := newRig(t, 80, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	r.commit()
	file, _ := bar.Item("file")
	edit, _ := bar.Item("edit")

	r.move(center(edit.Element().Bounds))
	if edit.Active() {
		t.Fatalf("expected hover on an idle bar to do nothing")
	}
	openFile(t, r, bar)
	r.move(center(edit.Element().Bounds))
	if !edit.Active() || file.Active() {
		t.Fatalf("expected hover to move the open menu to Edit")
	}
	if file.Root().State() != transition.Exited {
		t.Fatalf("expected switching menus to hide the previous one at once, got %s", file.Root().State())
	}
}

func TestOutsideClickClosesBar(t *testing.T) {
	r := newRig(t, 80, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	r.commit()
	file := openFile(t, r, bar)
	r.advance(time.Second)
	r.press(70, 20)
	if file.Active() || bar.Active() {
		t.Fatalf("expected outside press to close the menu")
	}
	if bar.Pulldown().Armed() != 0 {
		t.Fatalf("expected listeners drained, got %d", bar.Pulldown().Armed())
	}
}

func TestSecondClickOnTriggerToggles(t *testing.T) {
	r := newRig(t, 80, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	r.commit()
	file := openFile(t, r, bar)
	r.advance(time.Second)
	x, y := center(file.Element().Bounds)
	down := r.press(x, y)
	if !down.Stopped() || !file.Active() {
		t.Fatalf("expected a press on the open trigger to be swallowed")
	}
	r.advance(30 * time.Millisecond)
	r.release(x, y)
	if file.Active() || bar.Pulldown().Armed() != 0 {
		t.Fatalf("expected the release to close the menu and drain listeners")
	}
}

func TestDragReleaseOnRowFires(t *testing.T) {
	r := newRig(t, 80, 24)
	clicks := map[string]int{}
	bar := NewBar(r.env, demoMenus(clicks))
	r.commit()
	file, _ := bar.Item("file")
	x, y := center(file.Element().Bounds)
	r.press(x, y)
	open := findEntry(t, file.Menu(), "Open")
	ox, oy := center(open.Bounds())
	r.move(ox, oy)
	r.advance(500 * time.Millisecond)
	r.release(ox, oy)
	if !open.Flashing() {
		t.Fatalf("expected drag release on a row to fire it")
	}
	r.advance(r.env.Fade.Delay)
	if clicks["open"] != 1 {
		t.Fatalf("expected one callback, got %d", clicks["open"])
	}
}

func TestDragReleaseOutsideCloses(t *testing.T) {
	r := newRig(t, 80, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	r.commit()
	file, _ := bar.Item("file")
	x, y := center(file.Element().Bounds)
	r.press(x, y)
	r.advance(500 * time.Millisecond)
	r.release(70, 20)
	if file.Active() {
		t.Fatalf("expected release outside after a drag to close")
	}
}

func TestArrowKeysMoveAcrossBar(t *testing.T) {
	r := newRig(t, 80, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	r.commit()
	file := openFile(t, r, bar)
	edit, _ := bar.Item("edit")

	r.key("ArrowDown")
	r.key("ArrowRight")
	if !edit.Active() || file.Active() {
		t.Fatalf("expected ArrowRight on a leaf to move to Edit")
	}
	if r.env.Doc.Focused() != edit.Element() {
		t.Fatalf("expected focus to follow")
	}
	r.key("ArrowRight")
	if !file.Active() {
		t.Fatalf("expected focus to wrap back to File")
	}
	r.key("ArrowLeft")
	if !edit.Active() {
		t.Fatalf("expected ArrowLeft to wrap to Edit")
	}
}

func TestFocusOpensAndEnterReopens(t *testing.T) {
	r := newRig(t, 80, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	r.commit()
	file, _ := bar.Item("file")

	r.key("Tab")
	if r.env.Doc.Focused() != file.Element() || !file.Active() {
		t.Fatalf("expected Tab to focus and open File")
	}
	r.key("Escape")
	if file.Active() {
		t.Fatalf("expected Escape to close")
	}
	r.key("Enter")
	if !file.Active() {
		t.Fatalf("expected Enter to reopen")
	}
	r.key("Escape")
	r.key("ArrowDown")
	if !file.Active() || activeLabel(file.Menu()) != "New" {
		t.Fatalf("expected ArrowDown to open with the first row active, got %q", activeLabel(file.Menu()))
	}
}

func TestEnterFiresActiveRow(t *testing.T) {
	r := newRig(t, 80, 24)
	clicks := map[string]int{}
	bar := NewBar(r.env, demoMenus(clicks))
	r.commit()
	file := openFile(t, r, bar)
	r.key("ArrowDown")
	r.key("ArrowDown")
	r.key("Enter")
	open := findEntry(t, file.Menu(), "Open")
	if !open.Flashing() {
		t.Fatalf("expected Enter to fire Open")
	}
	r.advance(r.env.Fade.Delay)
	if clicks["open"] != 1 {
		t.Fatalf("expected callback, got %d", clicks["open"])
	}
}

func TestTypeAheadSelectsRow(t *testing.T) {
	r := newRig(t, 80, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	r.commit()
	file := openFile(t, r, bar)
	r.key("e")
	if got := activeLabel(file.Menu()); got != "Export" {
		t.Fatalf("expected type-ahead to select Export, got %q", got)
	}
	r.advance(2 * time.Second)
	r.key("o")
	if got := activeLabel(file.Menu()); got != "Open" {
		t.Fatalf("expected a fresh query to select Open, got %q", got)
	}
}

func TestSubmenuFlipsNearEdge(t *testing.T) {
	r := newRig(t, 24, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	r.commit()
	file := openFile(t, r, bar)
	export := findEntry(t, file.Menu(), "Export")
	r.move(center(export.Bounds()))
	sub := export.Menu()
	pl := sub.Placement()
	if !pl.Flipped || sub.Direction() != geom.Leftward {
		t.Fatalf("expected submenu to flip, got %+v dir=%s", pl, sub.Direction())
	}
	if pl.Left < 0 || pl.Left+sub.Size().Width > 24 {
		t.Fatalf("expected flipped submenu inside the viewport, got left=%d width=%d", pl.Left, sub.Size().Width)
	}
	anchor, _ := sub.Anchor()
	if pl.Top != anchor.Top-1 {
		t.Fatalf("expected first row aligned with the parent row, got top=%d anchor=%d", pl.Top, anchor.Top)
	}
}

func TestReopenClearsStaleState(t *testing.T) {
	r := newRig(t, 80, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	r.commit()
	file := openFile(t, r, bar)
	r.key("ArrowDown")
	r.key("Escape")
	r.advance(time.Second)
	x, y := center(file.Element().Bounds)
	r.click(x, y)
	if got := activeLabel(file.Menu()); got != "" {
		t.Fatalf("expected reopened menu to start without a highlight, got %q", got)
	}
}

func TestKeybindFiresFromDocumentRoot(t *testing.T) {
	r := newRig(t, 80, 24)
	clicks := map[string]int{}
	bar := NewBar(r.env, demoMenus(clicks))
	r.commit()
	if !r.env.Keys.Installed() || r.env.Keys.Len() != 1 {
		t.Fatalf("expected one shared shortcut binding, got %d", r.env.Keys.Len())
	}
	r.send(eventKey{key: "z", code: "KeyZ", ctrl: true}.event())
	if clicks["undo"] != 1 {
		t.Fatalf("expected shortcut to fire Undo on the next frame, got %d", clicks["undo"])
	}

	file, _ := bar.Item("file")
	r.env.Doc.Focus(file.Element())
	r.commit()
	r.send(eventKey{key: "z", code: "KeyZ", ctrl: true}.event())
	if clicks["undo"] != 1 {
		t.Fatalf("expected focused element to suppress the shortcut, got %d", clicks["undo"])
	}

	bar.Unmount()
	if r.env.Keys.Installed() {
		t.Fatalf("expected the shared listener to go with the last binding")
	}
	if r.env.Layer.Refs() != 0 {
		t.Fatalf("expected the floating layer to be released, got %d refs", r.env.Layer.Refs())
	}
}

func TestSetMenusKeepsHandles(t *testing.T) {
	r := newRig(t, 80, 24)
	clicks := map[string]int{}
	bar := NewBar(r.env, demoMenus(clicks))
	r.commit()
	file := openFile(t, r, bar)
	r.key("ArrowDown")
	before := findEntry(t, file.Menu(), "New")

	menus := demoMenus(clicks)
	menus[0].Items[0].Checked = true
	menus[0].Items = append(menus[0].Items, Item{ID: "close", Label: "Close"})
	bar.SetMenus(menus)
	r.commit()

	after := findEntry(t, file.Menu(), "New")
	if before != after {
		t.Fatalf("expected the entry handle to survive reconciliation")
	}
	if !after.Item().Checked || !after.Active() {
		t.Fatalf("expected updated props and kept highlight")
	}
	list := file.Menu().ChildList()
	if last := list[len(list)-1].Label(); last != "Close" {
		t.Fatalf("expected new row in render order, got %q", last)
	}
}

func TestLayerSharedAcrossRoots(t *testing.T) {
	r := newRig(t, 80, 24)
	bar := NewBar(r.env, demoMenus(map[string]int{}))
	if r.env.Layer.Refs() != 2 || r.env.Layer.Attaches() != 1 {
		t.Fatalf("expected one attach for two roots, refs=%d attaches=%d", r.env.Layer.Refs(), r.env.Layer.Attaches())
	}
	bar.Unmount()
	if r.env.Layer.Attached() {
		t.Fatalf("expected layer detached")
	}
}
