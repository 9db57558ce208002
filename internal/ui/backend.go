package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/menubar/internal/backend"
	"github.com/atomicstack/menubar/internal/logging/events"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent swaps in a reloaded definition file. A file that fails
// to load keeps the current menus on screen and reports the error.
func (m *Model) applyBackendEvent(evt backend.Event) {
	if evt.Err != nil {
		m.backendErr = evt.Err.Error()
		events.Reload.Error(evt.Path, evt.Err)
		return
	}
	if evt.Data == nil {
		return
	}
	m.backendErr = ""
	m.applyFile(evt.Data)
	m.setInfo("reloaded " + evt.Path)
	events.Reload.Loaded(evt.Path, len(evt.Data.Bar)+len(evt.Data.Popups))
}
