package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/menubar/internal/backend"
	"github.com/atomicstack/menubar/internal/menu"
	"github.com/atomicstack/menubar/internal/theme"
	"github.com/atomicstack/menubar/internal/transition"
)

func TestClickOpensBarMenuAndRendersPanel(t *testing.T) {
	h := newTestHarness(t, Options{})
	h.Send(mousePress(2, 0, tea.MouseButtonLeft))
	h.Send(mouseRelease(2, 0))

	file := barItem(t, h, "file")
	if !file.Active() {
		t.Fatalf("expected File to open on click")
	}
	view := h.View()
	for _, want := range []string{"New", "Export", "▸", "Quit"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q", want)
		}
	}
	if got := len(strings.Split(view, "\n")); got != 24 {
		t.Fatalf("expected 24 lines, got %d", got)
	}

	h.Send(mousePress(70, 20, tea.MouseButtonLeft))
	if file.Active() {
		t.Fatalf("expected outside press to close")
	}
}

func TestKeyboardSelectionRunsEchoAction(t *testing.T) {
	h := newTestHarness(t, Options{})
	h.Send(keyMsg(tea.KeyF10))
	file := barItem(t, h, "file")
	if !file.Active() {
		t.Fatalf("expected F10 to open the first menu")
	}
	h.Send(keyMsg(tea.KeyDown))
	if got := file.Menu().ActiveItem(); got == nil || got.Label() != "New" {
		t.Fatalf("expected New to be active, got %v", got)
	}
	h.Send(keyMsg(tea.KeyEnter))
	if file.Active() {
		t.Fatalf("expected firing to close the bar")
	}
	if h.Model().Info() != "" {
		t.Fatalf("expected the action to wait for the fade delay")
	}
	h.Advance(400 * time.Millisecond)
	if got := h.Model().Info(); got != "New" {
		t.Fatalf("expected status New, got %q", got)
	}
	if !strings.Contains(h.View(), "New") {
		t.Fatalf("expected status in view")
	}
}

func TestZeroFadeRunsActionsWithoutDelay(t *testing.T) {
	h := newTestHarness(t, Options{Fade: &theme.Fade{}})
	if fade := h.Model().Env().Fade; fade != (theme.Fade{}) {
		t.Fatalf("expected zero fade to be kept, got %+v", fade)
	}
	h.Send(keyMsg(tea.KeyF10))
	h.Send(keyMsg(tea.KeyDown))
	h.Send(keyMsg(tea.KeyEnter))
	if got := h.Model().Info(); got != "New" {
		t.Fatalf("expected the action to run on the next frame, got %q", got)
	}
	if state := barItem(t, h, "file").Root().State(); state != transition.Exited {
		t.Fatalf("expected the menu to close without fading, got %s", state)
	}
}

func TestShortcutQuits(t *testing.T) {
	h := newTestHarness(t, Options{})
	h.Send(keyMsg(tea.KeyCtrlQ))
	if !h.Quit() {
		t.Fatalf("expected ctrl+q to quit immediately")
	}
	if h.View() != "" {
		t.Fatalf("expected empty view after quitting")
	}
}

func TestFunctionKeyShortcutRunsAction(t *testing.T) {
	file, err := menu.ParseFile([]byte("bar:\n  - label: View\n    items:\n      - label: Refresh\n        keybind: F5\n        no_delay: true\n        action: echo refreshed\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	h := newTestHarness(t, Options{File: file})
	h.Send(keyMsg(tea.KeyF5))
	if got := h.Model().Info(); got != "refreshed" {
		t.Fatalf("expected F5 shortcut to run its action, got %q", got)
	}
}

func TestCtrlCQuits(t *testing.T) {
	h := newTestHarness(t, Options{})
	h.Send(keyMsg(tea.KeyCtrlC))
	if !h.Quit() {
		t.Fatalf("expected ctrl+c to quit")
	}
}

func TestToggleRefreshesCheckmarks(t *testing.T) {
	h := newTestHarness(t, Options{})
	item := barItem(t, h, "checkmark")
	item.Open()
	h.Model().Env().Flush()

	h.Send(keyMsg(tea.KeyDown))
	h.Send(keyMsg(tea.KeyDown))
	if got := item.Menu().ActiveItem(); got == nil || got.Label() != "Toggle" {
		t.Fatalf("expected Toggle after skipping the disabled row, got %v", got)
	}
	h.Send(keyMsg(tea.KeyEnter))
	h.Advance(400 * time.Millisecond)

	if !h.Model().Flags()["checked"] {
		t.Fatalf("expected checked flag to be set")
	}
	rows := item.Menu().ChildList()
	check := rows[0].Item()
	if !check.Checked || !check.Disabled {
		t.Fatalf("expected Check to be checked and disabled, got %+v", check)
	}
	if rows[1].Disabled() {
		t.Fatalf("expected Uncheck to become enabled")
	}
	if got := h.Model().Info(); got != "checked: true" {
		t.Fatalf("expected flag status, got %q", got)
	}
}

func TestRightClickOpensContextArea(t *testing.T) {
	h := newTestHarness(t, Options{})
	area, ok := h.Model().PopupArea("context")
	if !ok {
		t.Fatalf("expected context area")
	}
	x, y := centerOf(area)
	h.Send(mousePress(x, y, tea.MouseButtonRight))
	h.Send(mouseRelease(x, y))
	ctx, _ := h.Model().Popup("context")
	if !ctx.Active() {
		t.Fatalf("expected context menu to open")
	}
	if pl := ctx.Menu().Placement(); pl.Left != x || pl.Top != y {
		t.Fatalf("expected panel at the cursor, got %+v", pl)
	}
	if !strings.Contains(h.View(), "Context Menu Item1") {
		t.Fatalf("expected context rows in view")
	}
}

func TestNestedContextAreasOpenInnermost(t *testing.T) {
	h := newTestHarness(t, Options{})
	inner, _ := h.Model().PopupArea("inner")
	outer, _ := h.Model().PopupArea("outer")
	if inner.Top <= outer.Top || inner.Bottom() >= outer.Bottom() {
		t.Fatalf("expected inner area inside outer, inner=%+v outer=%+v", inner, outer)
	}
	x, y := centerOf(inner)
	h.Send(mousePress(x, y, tea.MouseButtonRight))
	h.Send(mouseRelease(x, y))
	innerMenu, _ := h.Model().Popup("inner")
	outerMenu, _ := h.Model().Popup("outer")
	if !innerMenu.Active() || outerMenu.Active() {
		t.Fatalf("expected only inner to open, inner=%v outer=%v", innerMenu.Active(), outerMenu.Active())
	}
}

func TestPulldownButtonOpensBelow(t *testing.T) {
	h := newTestHarness(t, Options{})
	area, _ := h.Model().PopupArea("pulldown")
	h.Send(mousePress(area.Left, area.Top, tea.MouseButtonLeft))
	h.Send(mouseRelease(area.Left, area.Top))
	pd, _ := h.Model().Popup("pulldown")
	if !pd.Active() {
		t.Fatalf("expected pull-down to open")
	}
	if pl := pd.Menu().Placement(); pl.Top != area.Bottom() {
		t.Fatalf("expected panel below the button, got %+v", pl)
	}
}

func TestHoverSwitchesOpenMenus(t *testing.T) {
	h := newTestHarness(t, Options{})
	h.Send(mousePress(2, 0, tea.MouseButtonLeft))
	h.Send(mouseRelease(2, 0))
	edit := barItem(t, h, "edit")
	x, y := centerOf(edit.Element().Bounds)
	h.Send(mouseMove(x, y))
	if !edit.Active() || barItem(t, h, "file").Active() {
		t.Fatalf("expected hover to switch to Edit")
	}
}

func TestOpenOptionOpensMenuAtStartup(t *testing.T) {
	h := newTestHarness(t, Options{Open: "edit:undo"})
	if !barItem(t, h, "edit").Active() {
		t.Fatalf("expected Edit to be open")
	}
	h = newTestHarness(t, Options{Open: "nope"})
	if !strings.Contains(h.Model().Err(), `no menu "nope"`) {
		t.Fatalf("expected error for unknown menu, got %q", h.Model().Err())
	}
}

func TestWindowSizeResizesViewport(t *testing.T) {
	h := NewHarness(NewModel(Options{}))
	h.Send(tea.WindowSizeMsg{Width: 100, Height: 30})
	if got := h.Model().Env().Viewport; got.Width != 100 || got.Height != 30 {
		t.Fatalf("expected viewport 100x30, got %+v", got)
	}
	fixed := newTestHarness(t, Options{Width: 60, Height: 20})
	fixed.Send(tea.WindowSizeMsg{Width: 100, Height: 30})
	if got := fixed.Model().Env().Viewport; got.Width != 60 || got.Height != 20 {
		t.Fatalf("expected fixed viewport, got %+v", got)
	}
}

func TestBackendReloadReplacesMenus(t *testing.T) {
	h := newTestHarness(t, Options{})
	file, err := menu.ParseFile([]byte("bar:\n  - label: Help\n    items:\n      - label: About\n        action: echo about\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindMenuFile, Path: "menus.yaml", Data: file}})
	items := h.Model().Bar().Items()
	if len(items) != 1 || items[0].Label() != "Help" {
		t.Fatalf("expected reloaded bar, got %d items", len(items))
	}
	if _, ok := h.Model().Popup("context"); ok {
		t.Fatalf("expected popups to be removed")
	}
	if got := h.Model().Info(); got != "reloaded menus.yaml" {
		t.Fatalf("expected reload notice, got %q", got)
	}

	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindMenuFile, Path: "menus.yaml", Err: errBadFile}})
	if !strings.Contains(h.View(), "reload failed") {
		t.Fatalf("expected reload error in view")
	}
	if len(h.Model().Bar().Items()) != 1 {
		t.Fatalf("expected menus to survive a failed reload")
	}
}

func TestFooterShowsKeyHelp(t *testing.T) {
	h := newTestHarness(t, Options{ShowFooter: true})
	if !strings.Contains(h.View(), "menu bar") {
		t.Fatalf("expected footer help")
	}
	h.Send(keyMsg(tea.KeyF1))
	if !strings.Contains(h.View(), "switch menu") {
		t.Fatalf("expected full help after F1")
	}
}

func TestTickArmsOnlyWhilePending(t *testing.T) {
	m := NewModel(Options{Width: 80, Height: 24})
	if cmd := m.Init(); cmd != nil {
		t.Fatalf("expected no tick while idle")
	}
	m.Update(keyMsg(tea.KeyF10))
	m.Update(keyMsg(tea.KeyDown))
	m.Update(keyMsg(tea.KeyEnter))
	if !m.env.Loop.Pending() || !m.ticking {
		t.Fatalf("expected a frame tick while the fade is pending")
	}
}
