package menu

import (
	"strings"
	"unicode"
)

// Item declares one row of a menu. A row with Items opens a submenu; a row
// without them is a leaf whose OnClick runs when it fires.
type Item struct {
	ID       string
	Label    string
	Checked  bool
	Disabled bool
	// Keybind is parsed with keybind.Parse; an invalid value panics when the
	// item is mounted.
	Keybind string
	// NoDelay runs OnClick immediately instead of after the fade delay.
	NoDelay bool
	OnClick func()
	// OnOpen runs when the item's submenu opens.
	OnOpen    func()
	Items     []Item
	Separator bool
}

// Separator returns a divider row.
func Separator() Item {
	return Item{Separator: true}
}

// HasChildren reports whether the item opens a submenu.
func (i Item) HasChildren() bool {
	return len(i.Items) > 0
}

// Title returns the label, falling back to a prettified ID.
func (i Item) Title() string {
	if i.Label != "" {
		return i.Label
	}
	return prettyLabel(i.ID)
}

// BarMenu declares one entry of a menu bar.
type BarMenu struct {
	ID    string
	Label string
	// DeactivateOnPointerLeave drops the highlight when the pointer leaves
	// the entry for anything but its own menu.
	DeactivateOnPointerLeave bool
	OnOpen                   func()
	Items                    []Item
}

// Title returns the label, falling back to a prettified ID.
func (b BarMenu) Title() string {
	if b.Label != "" {
		return b.Label
	}
	return prettyLabel(b.ID)
}

// ActionResult communicates the outcome of running a menu action.
type ActionResult struct {
	Info string
	Err  error
	Quit bool
}

func prettyLabel(id string) string {
	if id == "" {
		return id
	}
	if idx := strings.LastIndex(id, ":"); idx >= 0 {
		id = id[idx+1:]
	}
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
