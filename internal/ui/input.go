package ui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/logging/events"
)

// keyMap holds the keys the demo handles itself; everything else is
// delivered to the menus.
type keyMap struct {
	Quit key.Binding
	Menu key.Binding
	Help key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Menu: key.NewBinding(key.WithKeys("f10"), key.WithHelp("f10", "menu bar")),
		Help: key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "more keys")),
	}
}

// ShortHelp is part of the help.KeyMap interface.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Menu, k.Help, k.Quit}
}

// FullHelp is part of the help.KeyMap interface.
func (k keyMap) FullHelp() [][]key.Binding {
	nav := []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "move")),
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "switch menu")),
		key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/select")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
	return [][]key.Binding{k.ShortHelp(), nav}
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(keyMsg, m.keys.Menu):
		m.toggleBar()
		return nil
	}
	ev, ok := translateKey(keyMsg)
	if !ok {
		return nil
	}
	m.dispatch(ev)
	events.UI.Key(ev.Key, ev.Code, ev.Target.Name)
	return nil
}

// toggleBar focuses the first bar menu, or closes the bar when it is open.
func (m *Model) toggleBar() {
	if m.bar.ActiveItem() != nil {
		m.bar.Cancel()
		m.env.Doc.Blur()
		m.env.Flush()
		return
	}
	items := m.bar.Items()
	if len(items) == 0 {
		return
	}
	items[0].Focus()
	m.env.Flush()
}

func (m *Model) dispatch(ev *event.Event) {
	ev.Time = m.env.Loop.Now()
	m.env.Dispatch(ev)
	m.env.Flush()
}

var namedKeys = map[tea.KeyType][2]string{
	tea.KeyUp:        {"ArrowUp", "ArrowUp"},
	tea.KeyDown:      {"ArrowDown", "ArrowDown"},
	tea.KeyLeft:      {"ArrowLeft", "ArrowLeft"},
	tea.KeyRight:     {"ArrowRight", "ArrowRight"},
	tea.KeyEnter:     {"Enter", "Enter"},
	tea.KeyEsc:       {"Escape", "Escape"},
	tea.KeyTab:       {"Tab", "Tab"},
	tea.KeySpace:     {" ", "Space"},
	tea.KeyBackspace: {"Backspace", "Backspace"},
	tea.KeyDelete:    {"Delete", "Delete"},
	tea.KeyHome:      {"Home", "Home"},
	tea.KeyEnd:       {"End", "End"},
	tea.KeyPgUp:      {"PageUp", "PageUp"},
	tea.KeyPgDown:    {"PageDown", "PageDown"},
}

var shiftedKeys = map[tea.KeyType]tea.KeyType{
	tea.KeyShiftTab:   tea.KeyTab,
	tea.KeyShiftUp:    tea.KeyUp,
	tea.KeyShiftDown:  tea.KeyDown,
	tea.KeyShiftLeft:  tea.KeyLeft,
	tea.KeyShiftRight: tea.KeyRight,
}

var functionKeys = map[tea.KeyType]string{
	tea.KeyF1: "F1", tea.KeyF2: "F2", tea.KeyF3: "F3", tea.KeyF4: "F4",
	tea.KeyF5: "F5", tea.KeyF6: "F6", tea.KeyF7: "F7", tea.KeyF8: "F8",
	tea.KeyF9: "F9", tea.KeyF10: "F10", tea.KeyF11: "F11", tea.KeyF12: "F12",
}

var punctuationCodes = map[rune]string{
	'-': "Minus", '=': "Equal", ',': "Comma", '.': "Period", '/': "Slash",
	';': "Semicolon", '\'': "Quote", '[': "BracketLeft", ']': "BracketRight",
	'\\': "Backslash", '`': "Backquote",
}

// translateKey maps a terminal key press to a keydown event: Key is the
// logical key, Code the physical key name ("KeyA", "Digit1", "ArrowDown").
// Terminals cannot report the meta key, so Meta is never set.
func translateKey(msg tea.KeyMsg) (*event.Event, bool) {
	ev := &event.Event{Kind: event.KeyDown, Alt: msg.Alt}
	typ := msg.Type
	if base, ok := shiftedKeys[typ]; ok {
		typ = base
		ev.Shift = true
	}
	if names, ok := namedKeys[typ]; ok {
		ev.Key, ev.Code = names[0], names[1]
		return ev, true
	}
	if typ >= tea.KeyCtrlA && typ <= tea.KeyCtrlZ {
		letter := rune('a' + int(typ-tea.KeyCtrlA))
		ev.Key = string(letter)
		ev.Code = "Key" + strings.ToUpper(ev.Key)
		ev.Ctrl = true
		return ev, true
	}
	if name, ok := functionKeys[typ]; ok {
		ev.Key, ev.Code = name, name
		return ev, true
	}
	if typ != tea.KeyRunes || len(msg.Runes) != 1 {
		return nil, false
	}
	r := msg.Runes[0]
	ev.Key = string(r)
	switch {
	case r == ' ':
		ev.Code = "Space"
	case r < unicode.MaxASCII && unicode.IsLetter(r):
		ev.Code = "Key" + string(unicode.ToUpper(r))
		ev.Shift = unicode.IsUpper(r)
	case r >= '0' && r <= '9':
		ev.Code = "Digit" + string(r)
	default:
		ev.Code = punctuationCodes[r]
	}
	return ev, true
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	base := event.Event{
		X:           mouse.X,
		Y:           mouse.Y,
		PointerType: event.Mouse,
		Shift:       mouse.Shift,
		Alt:         mouse.Alt,
		Ctrl:        mouse.Ctrl,
	}
	switch mouse.Action {
	case tea.MouseActionPress:
		button, ok := pointerButton(mouse.Button)
		if !ok {
			return nil
		}
		m.pressed = button
		m.pointer(base, event.PointerDown, button)
		if button == event.ButtonSecondary {
			m.pointer(base, event.ContextMenu, button)
		}
	case tea.MouseActionRelease:
		m.pointer(base, event.PointerUp, m.pressed)
	case tea.MouseActionMotion:
		m.pointer(base, event.PointerMove, m.pressed)
	}
	return nil
}

func (m *Model) pointer(base event.Event, kind event.Kind, button event.Button) {
	ev := base
	ev.Kind = kind
	ev.Button = button
	m.dispatch(&ev)
	events.UI.Pointer(kind.String(), ev.X, ev.Y, ev.Target.Name)
}

func pointerButton(b tea.MouseButton) (event.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return event.ButtonPrimary, true
	case tea.MouseButtonMiddle:
		return event.ButtonAuxiliary, true
	case tea.MouseButtonRight:
		return event.ButtonSecondary, true
	default:
		return 0, false
	}
}
