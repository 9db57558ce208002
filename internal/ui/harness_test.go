package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/menubar/internal/geom"
	"github.com/atomicstack/menubar/internal/menu"
	"github.com/atomicstack/menubar/internal/schedule"
)

func newTestHarness(t *testing.T, opts Options) *Harness {
	t.Helper()
	if opts.Clock == nil {
		opts.Clock = schedule.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	}
	if opts.Width == 0 {
		opts.Width = 80
	}
	if opts.Height == 0 {
		opts.Height = 24
	}
	return NewHarness(NewModel(opts))
}

func mousePress(x, y int, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: button, Action: tea.MouseActionPress}
}

func mouseRelease(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease}
}

func mouseMove(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonNone, Action: tea.MouseActionMotion}
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func barItem(t *testing.T, h *Harness, id string) *menu.BarItem {
	t.Helper()
	item, ok := h.Model().Bar().Item(id)
	if !ok {
		t.Fatalf("expected bar item %q", id)
	}
	return item
}

func entryNamed(t *testing.T, p *menu.Panel, label string) *menu.Entry {
	t.Helper()
	for _, e := range p.ChildList() {
		if e.Label() == label {
			return e
		}
	}
	t.Fatalf("expected row %q", label)
	return nil
}

func centerOf(r geom.Rect) (int, int) {
	return r.Left + r.Width/2, r.Top + r.Height/2
}

var errBadFile = errors.New("yaml: line 3: did not find expected key")
