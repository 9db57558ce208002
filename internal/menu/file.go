package menu

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/atomicstack/menubar/internal/keybind"
)

// File is a menu definition document.
type File struct {
	Theme  string      `yaml:"theme,omitempty"`
	Bar    []FileMenu  `yaml:"bar,omitempty"`
	Popups []FilePopup `yaml:"popups,omitempty"`
}

// FileMenu declares one menu bar entry.
type FileMenu struct {
	ID                       string     `yaml:"id,omitempty"`
	Label                    string     `yaml:"label"`
	DeactivateOnPointerLeave bool       `yaml:"deactivate_on_pointer_leave,omitempty"`
	Items                    []FileItem `yaml:"items"`
}

// Popup kinds.
const (
	PopupContext  = "context"
	PopupPulldown = "pulldown"
)

// FilePopup declares a headless menu shown in the demo body: a context-menu
// area or a pull-down button. Parent nests it inside another popup's area.
type FilePopup struct {
	ID       string     `yaml:"id,omitempty"`
	Label    string     `yaml:"label"`
	Kind     string     `yaml:"kind,omitempty"`
	Position string     `yaml:"position,omitempty"`
	Parent   string     `yaml:"parent,omitempty"`
	Items    []FileItem `yaml:"items"`
}

// FileItem declares one menu row. Checked and DisabledIf name a flag,
// optionally negated with "!".
type FileItem struct {
	ID         string     `yaml:"id,omitempty"`
	Label      string     `yaml:"label,omitempty"`
	Keybind    string     `yaml:"keybind,omitempty"`
	Action     string     `yaml:"action,omitempty"`
	Disabled   bool       `yaml:"disabled,omitempty"`
	DisabledIf string     `yaml:"disabled_if,omitempty"`
	Checked    string     `yaml:"checked,omitempty"`
	NoDelay    bool       `yaml:"no_delay,omitempty"`
	Separator  bool       `yaml:"separator,omitempty"`
	Items      []FileItem `yaml:"items,omitempty"`
}

// ActionKind enumerates what a leaf row can do in the demo.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionQuit
	ActionEcho
	ActionToggle
	ActionSet
	ActionUnset
)

// Action is a parsed row action.
type Action struct {
	Kind ActionKind
	Arg  string
}

var flagPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]*$`)

// ParseAction parses "quit", "echo <text>", "toggle <flag>", "set <flag>"
// and "unset <flag>". The empty string is ActionNone.
func ParseAction(source string) (Action, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Action{}, nil
	}
	verb, arg, _ := strings.Cut(source, " ")
	arg = strings.TrimSpace(arg)
	switch verb {
	case "quit":
		if arg != "" {
			return Action{}, fmt.Errorf("action %q: quit takes no argument", source)
		}
		return Action{Kind: ActionQuit}, nil
	case "echo":
		return Action{Kind: ActionEcho, Arg: arg}, nil
	case "toggle", "set", "unset":
		if !flagPattern.MatchString(arg) {
			return Action{}, fmt.Errorf("action %q: invalid flag name %q", source, arg)
		}
		kind := map[string]ActionKind{"toggle": ActionToggle, "set": ActionSet, "unset": ActionUnset}[verb]
		return Action{Kind: kind, Arg: arg}, nil
	default:
		return Action{}, fmt.Errorf("action %q: unknown verb %q", source, verb)
	}
}

// Flags holds the demo's named booleans.
type Flags map[string]bool

// Eval resolves "flag" or "!flag". The empty expression is false.
func (f Flags) Eval(expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}
	if strings.HasPrefix(expr, "!") {
		return !f[strings.TrimSpace(expr[1:])]
	}
	return f[expr]
}

func validFlagExpr(expr string) bool {
	expr = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(expr), "!"))
	return flagPattern.MatchString(expr)
}

// LoadFile reads and validates a definition file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	f, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseFile decodes and validates a definition document.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks labels, keybinds, actions and popup references.
func (f *File) Validate() error {
	if len(f.Bar) == 0 && len(f.Popups) == 0 {
		return errors.New("menu file defines no menus")
	}
	var errs []error
	seen := make(map[string]bool)
	for i, m := range f.Bar {
		where := fmt.Sprintf("bar[%d]", i)
		if m.Label == "" && m.ID == "" {
			errs = append(errs, fmt.Errorf("%s: label or id required", where))
		}
		id := m.key()
		if strings.Contains(id, ":") {
			errs = append(errs, fmt.Errorf("%s: id %q must not contain ':'", where, id))
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", where, id))
		}
		seen[id] = true
		errs = append(errs, validateItems(where, m.Items)...)
	}
	popups := make(map[string]bool)
	for i, p := range f.Popups {
		where := fmt.Sprintf("popups[%d]", i)
		if p.Label == "" && p.ID == "" {
			errs = append(errs, fmt.Errorf("%s: label or id required", where))
		}
		id := p.key()
		if strings.Contains(id, ":") {
			errs = append(errs, fmt.Errorf("%s: id %q must not contain ':'", where, id))
		}
		if seen[id] {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", where, id))
		}
		seen[id] = true
		switch p.Kind {
		case "", PopupContext, PopupPulldown:
		default:
			errs = append(errs, fmt.Errorf("%s: unknown kind %q", where, p.Kind))
		}
		switch p.Position {
		case "", "bottom", "cursor":
		default:
			errs = append(errs, fmt.Errorf("%s: unknown position %q", where, p.Position))
		}
		if p.Parent != "" && !popups[p.Parent] {
			errs = append(errs, fmt.Errorf("%s: parent %q must be declared before it", where, p.Parent))
		}
		popups[id] = true
		errs = append(errs, validateItems(where, p.Items)...)
	}
	return errors.Join(errs...)
}

func validateItems(where string, items []FileItem) []error {
	var errs []error
	if len(items) == 0 {
		errs = append(errs, fmt.Errorf("%s: no items", where))
	}
	for i, it := range items {
		at := fmt.Sprintf("%s.items[%d]", where, i)
		if it.Separator {
			continue
		}
		if it.Label == "" && it.ID == "" {
			errs = append(errs, fmt.Errorf("%s: label or id required", at))
		}
		if strings.Contains(it.ID, ":") {
			errs = append(errs, fmt.Errorf("%s: id %q must not contain ':'", at, it.ID))
		}
		if it.Keybind != "" {
			if _, err := keybind.Parse(it.Keybind); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", at, err))
			}
		}
		if _, err := ParseAction(it.Action); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", at, err))
		}
		if it.Action != "" && len(it.Items) > 0 {
			errs = append(errs, fmt.Errorf("%s: an item with child items cannot have an action", at))
		}
		for _, expr := range []string{it.Checked, it.DisabledIf} {
			if expr != "" && !validFlagExpr(expr) {
				errs = append(errs, fmt.Errorf("%s: invalid flag expression %q", at, expr))
			}
		}
		if len(it.Items) > 0 {
			errs = append(errs, validateItems(at, it.Items)...)
		}
	}
	return errs
}

func (m FileMenu) key() string {
	return idOrSlug(m.ID, m.Label)
}

func (p FilePopup) key() string {
	return idOrSlug(p.ID, p.Label)
}

func (it FileItem) key() string {
	return idOrSlug(it.ID, it.Label)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func idOrSlug(id, label string) string {
	if id != "" {
		return id
	}
	slug := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(label), "-"), "-")
	if slug == "" {
		return "item"
	}
	return slug
}

// DefaultFile returns the built-in demo definitions.
func DefaultFile() *File {
	f, err := ParseFile([]byte(defaultYAML))
	if err != nil {
		panic(fmt.Sprintf("built-in menu file: %v", err))
	}
	return f
}

const defaultYAML = `
bar:
  - label: File
    items:
      - label: New
        action: echo New
      - label: Open
        action: echo Open
      - separator: true
      - label: Save
        disabled: true
      - label: Export
        items:
          - label: PDF...
            action: echo Export PDF
          - label: PNG...
            action: echo Export PNG
      - separator: true
      - label: Quit
        keybind: ctrl+KeyQ
        action: quit
        no_delay: true
  - label: Edit
    items:
      - label: Undo
        keybind: alt+KeyZ
        action: echo Undo
      - separator: true
      - label: Cut
        keybind: alt+KeyX
        action: echo Cut
      - label: Copy
        keybind: alt+KeyC
        action: echo Copy
      - label: Paste
        keybind: alt+KeyV
        action: echo Paste
  - label: Checkmark
    items:
      - label: Check
        checked: checked
        disabled_if: checked
        action: set checked
      - label: Uncheck
        checked: "!checked"
        disabled_if: "!checked"
        action: unset checked
      - separator: true
      - label: Toggle
        checked: checked
        action: toggle checked
popups:
  - id: context
    label: Right Click Here
    kind: context
    items:
      - label: Context Menu Item1
        action: echo Context Menu Item1
      - label: Context Menu Item2
        action: echo Context Menu Item2
  - id: outer
    label: Right Click Here (outer)
    kind: context
    items:
      - label: Outer Context Menu
        action: echo Outer Context Menu
  - id: inner
    label: Right Click Here (inner)
    kind: context
    parent: outer
    items:
      - label: Inner Context Menu
        action: echo Inner Context Menu
  - id: pulldown
    label: Pulldown Here
    kind: pulldown
    items:
      - label: Pulldown Item1
        action: echo Pulldown Item1
      - label: Pulldown Item2
        action: echo Pulldown Item2
`
