package theme

import (
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the nine visual roles of the menu toolkit plus the chrome
// used by the demo surface around it.
type Styles struct {
	MenuBar           *lipgloss.Style
	MenuBarItem       *lipgloss.Style
	MenuBarItemActive *lipgloss.Style
	Menu              *lipgloss.Style
	MenuItem          *lipgloss.Style
	MenuItemActive    *lipgloss.Style
	MenuItemDisabled  *lipgloss.Style
	MenuItemFlashing  *lipgloss.Style
	Separator         *lipgloss.Style

	Trigger *lipgloss.Style
	Info    *lipgloss.Style
	Error   *lipgloss.Style
	Footer  *lipgloss.Style
}

// Palette is the compact description a full style set is derived from.
type Palette struct {
	Color            lipgloss.TerminalColor
	Background       lipgloss.TerminalColor
	ActiveBackground lipgloss.TerminalColor
	ActiveColor      lipgloss.TerminalColor
	DisabledColor    lipgloss.TerminalColor
	SeparatorColor   lipgloss.TerminalColor
	// Font carries text attributes (bold, italic) shared by bar and menus;
	// it is the terminal stand-in for a font family.
	Font lipgloss.Style

	// MenuExtra and MenuBarExtra override properties of the derived menu
	// and menu bar roles.
	MenuExtra    *lipgloss.Style
	MenuBarExtra *lipgloss.Style
}

// Fade controls the close sequence: Delay is the grace period before a
// fired item's callback runs and the menu starts fading, Duration is how
// long the fade lasts.
type Fade struct {
	Delay    time.Duration
	Duration time.Duration
}

// DefaultFade is the stock fade timing.
var DefaultFade = Fade{Delay: 400 * time.Millisecond, Duration: 200 * time.Millisecond}

// FromPalette derives all roles from p.
func FromPalette(p Palette) Styles {
	base := lipgloss.NewStyle().Foreground(p.Color).Background(p.Background).Inherit(p.Font)
	active := lipgloss.NewStyle().Foreground(p.ActiveColor).Background(p.ActiveBackground)

	menuBar := base.Padding(0, 1)
	if p.MenuBarExtra != nil {
		// Inherit never copies padding.
		menuBar = p.MenuBarExtra.Inherit(menuBar)
		if p.MenuBarExtra.GetHorizontalPadding() == 0 {
			menuBar = menuBar.Padding(0, 1)
		}
	}
	menu := base.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.SeparatorColor).
		BorderBackground(p.Background)
	if p.MenuExtra != nil {
		menu = p.MenuExtra.Inherit(menu)
	}

	return Styles{
		MenuBar:           ptr(menuBar),
		MenuBarItem:       ptr(base.Padding(0, 1)),
		MenuBarItemActive: ptr(active),
		Menu:              ptr(menu),
		MenuItem:          ptr(base.Padding(0, 1)),
		MenuItemActive:    ptr(active),
		MenuItemDisabled:  ptr(lipgloss.NewStyle().Foreground(p.DisabledColor)),
		MenuItemFlashing:  ptr(active.Reverse(true).Bold(true)),
		Separator:         ptr(lipgloss.NewStyle().Foreground(p.SeparatorColor).Background(p.Background)),

		Trigger: ptr(base.Padding(0, 1).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(p.SeparatorColor)),
		Info:    ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("249"))),
		Error:   ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)),
		Footer:  ptr(lipgloss.NewStyle().Foreground(lipgloss.Color("241"))),
	}
}

var builtIn = map[string]Styles{
	"white": FromPalette(Palette{
		Color:            lipgloss.Color("#000000"),
		Background:       lipgloss.Color("#f2f2f2"),
		ActiveBackground: lipgloss.Color("#7f7f7f"),
		ActiveColor:      lipgloss.Color("#ffffff"),
		DisabledColor:    lipgloss.Color("#777777"),
		SeparatorColor:   lipgloss.Color("#dddddd"),
	}),
	"metal": FromPalette(Palette{
		Color:            lipgloss.Color("#000000"),
		Background:       lipgloss.Color("#c8c8c8"),
		ActiveBackground: lipgloss.Color("#999999"),
		ActiveColor:      lipgloss.Color("#dddddd"),
		DisabledColor:    lipgloss.Color("#777777"),
		SeparatorColor:   lipgloss.Color("#aaaaaa"),
	}),
	"black": FromPalette(Palette{
		Color:            lipgloss.Color("#cccccc"),
		Background:       lipgloss.Color("#1f1f1f"),
		ActiveBackground: lipgloss.Color("#5f5f5f"),
		ActiveColor:      lipgloss.Color("#ffffff"),
		DisabledColor:    lipgloss.Color("#555555"),
		SeparatorColor:   lipgloss.Color("#555555"),
		MenuExtra:        ptr(lipgloss.NewStyle().BorderForeground(lipgloss.Color("#8f8f8f"))),
		MenuBarExtra:     ptr(lipgloss.NewStyle().Bold(true)),
	}),
	"water": FromPalette(Palette{
		Color:            lipgloss.Color("#e8f4ff"),
		Background:       lipgloss.Color("#1d4e89"),
		ActiveBackground: lipgloss.Color("#00b2ca"),
		ActiveColor:      lipgloss.Color("#ffffff"),
		DisabledColor:    lipgloss.Color("#7d9cbf"),
		SeparatorColor:   lipgloss.Color("#4f83bf"),
		Font:             lipgloss.NewStyle().Italic(true),
	}),
}

// DefaultName is the theme used when none is configured.
const DefaultName = "white"

// Default exposes the standard style set used across the application.
func Default() *Styles {
	s, _ := Lookup(DefaultName)
	return s
}

// Lookup returns a copy of the named built-in theme.
func Lookup(name string) (*Styles, bool) {
	s, ok := builtIn[name]
	if !ok {
		return nil, false
	}
	return &s, true
}

// Names lists the built-in themes in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(builtIn))
	for name := range builtIn {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Item returns the style of a menu row in the given state. Flashing takes
// precedence over active.
func (s *Styles) Item(active, disabled, flashing bool) lipgloss.Style {
	style := *s.MenuItem
	if disabled {
		style = overlay(style, *s.MenuItemDisabled)
	}
	switch {
	case flashing:
		style = overlay(style, *s.MenuItemFlashing)
	case active:
		style = overlay(style, *s.MenuItemActive)
	}
	return style
}

// BarItem returns the style of a menu bar entry.
func (s *Styles) BarItem(active bool) lipgloss.Style {
	style := *s.MenuBarItem
	if active {
		style = overlay(style, *s.MenuBarItemActive)
	}
	return style
}

// overlay copies the colors and text attributes set on top onto base,
// keeping base's spacing.
func overlay(base, top lipgloss.Style) lipgloss.Style {
	if fg := top.GetForeground(); fg != (lipgloss.NoColor{}) {
		base = base.Foreground(fg)
	}
	if bg := top.GetBackground(); bg != (lipgloss.NoColor{}) {
		base = base.Background(bg)
	}
	if top.GetBold() {
		base = base.Bold(true)
	}
	if top.GetItalic() {
		base = base.Italic(true)
	}
	if top.GetFaint() {
		base = base.Faint(true)
	}
	if top.GetReverse() {
		base = base.Reverse(true)
	}
	if top.GetUnderline() {
		base = base.Underline(true)
	}
	return base
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
