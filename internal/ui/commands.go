package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/logging"
	"github.com/atomicstack/menubar/internal/logging/events"
	"github.com/atomicstack/menubar/internal/menu"
	"github.com/atomicstack/menubar/internal/ui/command"
)

// flagMsg asks the model to apply a flag action on its own goroutine.
type flagMsg struct {
	id     string
	action menu.Action
}

// run is the OnClick of every leaf row that declares an action. It runs
// inside event dispatch, so the command is queued and handed to Bubble Tea
// when the update finishes.
func (m *Model) run(id string) {
	node, ok := m.registry.Find(id)
	if !ok {
		logging.Warnf("menu action for unknown id %q", id)
		return
	}
	action := node.Action
	label := node.Label
	m.queued = append(m.queued, m.bus.Execute(command.Request{
		ID:    id,
		Label: label,
		Handler: func() tea.Msg {
			switch action.Kind {
			case menu.ActionToggle, menu.ActionSet, menu.ActionUnset:
				return flagMsg{id: id, action: action}
			}
			result, _ := action.Apply(nil)
			return result
		},
	}))
}

func (m *Model) handleFlagMsg(msg tea.Msg) tea.Cmd {
	fm, ok := msg.(flagMsg)
	if !ok {
		return nil
	}
	result, changed := fm.action.Apply(m.flags)
	if changed {
		m.rebuild()
	}
	return func() tea.Msg { return result }
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(menu.ActionResult)
	if !ok {
		return nil
	}
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.infoMsg = ""
		events.Action.Error(result.Err)
		return nil
	}
	m.errMsg = ""
	if result.Info != "" {
		m.infoMsg = result.Info
	}
	events.Action.Success(result.Info)
	if result.Quit {
		m.quitting = true
		return tea.Quit
	}
	return nil
}

// applyFile replaces the definitions: bar menus are reconciled in place,
// popups are rebuilt when their declarations change.
func (m *Model) applyFile(file *menu.File) {
	m.file = file
	m.registry = menu.BuildRegistry(file)
	m.bar.SetMenus(m.registry.BarMenus(m.flags, m.run))
	m.syncPopups(m.registry.Popups(m.flags, m.run))
	m.placePopups()
	m.env.Commit()
}

// rebuild re-evaluates flag-dependent rows without touching the layout of
// anything else.
func (m *Model) rebuild() {
	m.bar.SetMenus(m.registry.BarMenus(m.flags, m.run))
	defs := m.registry.Popups(m.flags, m.run)
	for i, p := range m.popups {
		if i < len(defs) {
			p.menu.SetItems(defs[i].Items)
		}
	}
	m.env.Commit()
}

func (m *Model) syncPopups(defs []menu.PopupMenu) {
	if samePopups(m.popups, defs) {
		for i, p := range m.popups {
			p.def = defs[i]
			p.menu.SetItems(defs[i].Items)
			p.menu.SetTrigger(triggerText(defs[i]))
		}
		return
	}
	for i := len(m.popups) - 1; i >= 0; i-- {
		m.popups[i].menu.Unmount()
	}
	m.popups = m.popups[:0]
	for _, def := range defs {
		var parent *menu.Headless
		if def.Parent != "" {
			parent, _ = m.Popup(def.Parent)
		}
		p := &popup{def: def}
		var parentEl *event.Element
		if parent != nil {
			parentEl = parent.Element()
		}
		p.menu = menu.NewHeadless(m.env, parentEl, menu.HeadlessOptions{
			Name:                  def.ID,
			Trigger:               triggerText(def),
			ActivateOnContextMenu: def.Context,
			Position:              def.Position,
			Items:                 def.Items,
		})
		m.popups = append(m.popups, p)
	}
}

func samePopups(cur []*popup, defs []menu.PopupMenu) bool {
	if len(cur) != len(defs) {
		return false
	}
	for i, p := range cur {
		d := defs[i]
		if p.def.ID != d.ID || p.def.Parent != d.Parent || p.def.Context != d.Context || p.def.Position != d.Position {
			return false
		}
	}
	return true
}

// triggerText is what a pull-down button shows; context areas draw their
// label as part of the area instead.
func triggerText(def menu.PopupMenu) string {
	if def.Context {
		return ""
	}
	return def.Label + " ▾"
}

// openMenu opens the bar menu whose id (or any descendant id) is given.
func (m *Model) openMenu(id string) {
	top, ok := m.registry.TopLevel(id)
	if !ok {
		m.errMsg = fmt.Sprintf("no menu %q", id)
		return
	}
	if item, ok := m.bar.Item(top.ID); ok {
		item.Open()
		m.env.Flush()
		return
	}
	if p, ok := m.Popup(top.ID); ok {
		p.Open()
		m.env.Flush()
		return
	}
	m.errMsg = fmt.Sprintf("no menu %q", id)
}

func (m *Model) setInfo(text string) {
	m.infoMsg = text
	m.errMsg = ""
}
