package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/menubar/internal/schedule"
)

// Harness drives the UI model programmatically for integration tests. Frame
// ticks are not scheduled on the wall clock; Advance moves a manual clock
// and delivers the tick instead.
type Harness struct {
	model *Model
	quit  bool
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	if model != nil {
		model.tick = func() tea.Cmd { return nil }
	}
	return &Harness{model: model}
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return
	case tea.QuitMsg:
		h.quit = true
		return
	case tea.BatchMsg:
		for _, c := range msg {
			h.processCmd(c)
		}
		return
	}
	h.Send(msg)
}

// Advance moves the model's manual clock forward by d and runs whatever
// became due. It panics when the model runs on the wall clock.
func (h *Harness) Advance(d time.Duration) {
	clock, ok := h.model.clock.(*schedule.ManualClock)
	if !ok {
		panic("ui: Harness.Advance needs a model built with a schedule.ManualClock")
	}
	clock.Advance(d)
	h.Send(tickMsg{at: clock.Now()})
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
