package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/menubar/internal/backend"
	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/geom"
	"github.com/atomicstack/menubar/internal/logging/events"
	"github.com/atomicstack/menubar/internal/menu"
	"github.com/atomicstack/menubar/internal/schedule"
	"github.com/atomicstack/menubar/internal/theme"
	"github.com/atomicstack/menubar/internal/ui/command"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	frameInterval = 16 * time.Millisecond
)

type msgHandler func(tea.Msg) tea.Cmd

// Options configure a Model.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
	Theme      *theme.Styles
	// Fade overrides the default fade settings when set; a zero Fade
	// closes menus without delay.
	Fade  *theme.Fade
	Click event.ClickThresholds
	File  *menu.File
	// Open names a bar menu to open once the model is built.
	Open    string
	Watcher *backend.Watcher
	// Clock drives menu timers; the wall clock when nil.
	Clock schedule.Clock
}

// popup is a headless menu placed in the demo body.
type popup struct {
	def  menu.PopupMenu
	menu *menu.Headless
	area geom.Rect
}

// Model implements the Bubble Tea model for the menu bar demo.
type Model struct {
	env      *menu.Env
	file     *menu.File
	registry *menu.Registry
	flags    menu.Flags
	bar      *menu.Bar
	popups   []*popup

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	keys        keyMap
	help        help.Model

	infoMsg    string
	errMsg     string
	backend    *backend.Watcher
	backendErr string

	clock    schedule.Clock
	bus      *command.Bus
	queued   []tea.Cmd
	ticking  bool
	tick     func() tea.Cmd
	quitting bool
	pressed  event.Button

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the menus described by opts.File (the built-in demo when
// nil) and lays them out.
func NewModel(opts Options) *Model {
	width, height := opts.Width, opts.Height
	m := &Model{
		flags:       menu.Flags{},
		width:       defaultWidth,
		height:      defaultHeight,
		fixedWidth:  width > 0,
		fixedHeight: height > 0,
		showFooter:  opts.ShowFooter,
		keys:        defaultKeyMap(),
		help:        help.New(),
		backend:     opts.Watcher,
		bus:         command.New(),
	}
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
	m.tick = m.frameTick
	m.clock = opts.Clock
	if m.clock == nil {
		m.clock = schedule.SystemClock
	}
	m.env = menu.NewEnv(m.clock, opts.Theme, geom.Size{Width: m.width, Height: m.height})
	if opts.Fade != nil {
		m.env.Fade = *opts.Fade
	}
	if opts.Click != (event.ClickThresholds{}) {
		m.env.Click = opts.Click
	}
	if m.env.Theme.Footer != nil {
		m.help.Styles.ShortKey = m.env.Theme.Footer.Bold(true)
		m.help.Styles.ShortDesc = *m.env.Theme.Footer
		m.help.Styles.ShortSeparator = *m.env.Theme.Footer
	}
	file := opts.File
	if file == nil {
		file = menu.DefaultFile()
	}
	m.bar = menu.NewBar(m.env, nil)
	m.applyFile(file)
	if opts.Open != "" {
		m.openMenu(opts.Open)
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if cmd := m.armTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tickMsg{}):           m.handleTickMsg,
		reflect.TypeOf(menu.ActionResult{}): m.handleActionResultMsg,
		reflect.TypeOf(flagMsg{}):           m.handleFlagMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// finishUpdate collects the actions menu callbacks queued during the update
// and keeps the frame tick running while timers are pending.
func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if len(m.queued) > 0 {
		cmds = append(cmds, m.queued...)
		m.queued = nil
	}
	if cmd := m.armTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

type tickMsg struct {
	at time.Time
}

func (m *Model) frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg{at: t}
	})
}

func (m *Model) armTick() tea.Cmd {
	if m.ticking || !m.env.Loop.Pending() {
		return nil
	}
	cmd := m.tick()
	if cmd == nil {
		return nil
	}
	m.ticking = true
	return cmd
}

func (m *Model) handleTickMsg(tea.Msg) tea.Cmd {
	m.ticking = false
	m.env.Tick()
	return nil
}

// Env exposes the menu runtime.
func (m *Model) Env() *menu.Env {
	return m.env
}

// Bar returns the menu bar.
func (m *Model) Bar() *menu.Bar {
	return m.bar
}

// Popup returns the headless menu declared with id.
func (m *Model) Popup(id string) (*menu.Headless, bool) {
	for _, p := range m.popups {
		if p.def.ID == id {
			return p.menu, true
		}
	}
	return nil, false
}

// PopupArea returns the cell rectangle of a popup's trigger area.
func (m *Model) PopupArea(id string) (geom.Rect, bool) {
	for _, p := range m.popups {
		if p.def.ID == id {
			return p.area, true
		}
	}
	return geom.Rect{}, false
}

// Flags returns the demo flags.
func (m *Model) Flags() menu.Flags {
	return m.flags
}

// Info returns the status line message.
func (m *Model) Info() string {
	return m.infoMsg
}

// Err returns the last action error.
func (m *Model) Err() string {
	return m.errMsg
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth && size.Width > 0 {
		m.width = size.Width
	}
	if !m.fixedHeight && size.Height > 0 {
		m.height = size.Height
	}
	events.UI.Resize(m.width, m.height)
	m.placePopups()
	m.env.Commit()
	return nil
}
