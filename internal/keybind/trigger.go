package keybind

import (
	"fmt"
	"strings"

	"github.com/atomicstack/menubar/internal/event"
)

// Modifiers is the set of modifier keys a trigger requires.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// Trigger is a key code plus the exact modifier set that must be held.
type Trigger struct {
	Code      string
	Modifiers Modifiers
}

type modifier struct {
	name  string
	glyph string
	set   func(*Modifiers)
	get   func(Modifiers) bool
}

// modifierOrder is also the display order.
var modifierOrder = []modifier{
	{"shift", "⇧", func(m *Modifiers) { m.Shift = true }, func(m Modifiers) bool { return m.Shift }},
	{"ctrl", "⌃", func(m *Modifiers) { m.Ctrl = true }, func(m Modifiers) bool { return m.Ctrl }},
	{"alt", "⌥", func(m *Modifiers) { m.Alt = true }, func(m Modifiers) bool { return m.Alt }},
	{"meta", "⌘", func(m *Modifiers) { m.Meta = true }, func(m Modifiers) bool { return m.Meta }},
}

// ParseError reports an unknown modifier token.
type ParseError struct {
	Source string
	Token  string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid key trigger %q: missing key code", e.Source)
	}
	return fmt.Sprintf("invalid modifier %q in key trigger %q", e.Token, e.Source)
}

// Parse reads "mod1+...+modN+Code", e.g. "meta+shift+KeyA". Modifier names
// are shift, ctrl, alt and meta, matched case-sensitively.
func Parse(source string) (Trigger, error) {
	parts := strings.Split(source, "+")
	code := parts[len(parts)-1]
	if code == "" {
		return Trigger{}, &ParseError{Source: source}
	}
	var mods Modifiers
	for _, part := range parts[:len(parts)-1] {
		m, ok := lookupModifier(part)
		if !ok {
			return Trigger{}, &ParseError{Source: source, Token: part}
		}
		m.set(&mods)
	}
	return Trigger{Code: code, Modifiers: mods}, nil
}

// MustParse is Parse for bindings declared in code; it panics on error.
func MustParse(source string) Trigger {
	t, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return t
}

func lookupModifier(name string) (modifier, bool) {
	for _, m := range modifierOrder {
		if m.name == name {
			return m, true
		}
	}
	return modifier{}, false
}

// Match reports whether ev is a key event for this code with exactly the
// required modifiers held.
func (t Trigger) Match(ev *event.Event) bool {
	if ev == nil {
		return false
	}
	return ev.Code == t.Code &&
		ev.Shift == t.Modifiers.Shift &&
		ev.Ctrl == t.Modifiers.Ctrl &&
		ev.Alt == t.Modifiers.Alt &&
		ev.Meta == t.Modifiers.Meta
}

// Display renders modifier glyphs in shift, ctrl, alt, meta order followed
// by the code without its Key, Digit or Numpad prefix.
func (t Trigger) Display() string {
	var b strings.Builder
	for _, m := range modifierOrder {
		if m.get(t.Modifiers) {
			b.WriteString(m.glyph)
		}
	}
	b.WriteString(bareCode(t.Code))
	return b.String()
}

// String renders the trigger in the canonical form Parse accepts.
func (t Trigger) String() string {
	var parts []string
	for _, m := range modifierOrder {
		if m.get(t.Modifiers) {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(append(parts, t.Code), "+")
}

func bareCode(code string) string {
	for _, prefix := range []string{"Key", "Digit", "Numpad"} {
		if strings.HasPrefix(code, prefix) && len(code) > len(prefix) {
			return strings.TrimPrefix(code, prefix)
		}
	}
	return code
}
