package event

import "time"

// Kind identifies an event type.
type Kind int

const (
	PointerDown Kind = iota
	PointerUp
	PointerMove
	PointerEnter
	PointerLeave
	ContextMenu
	KeyDown
	Focus
	Blur
)

var kindNames = [...]string{
	PointerDown:  "pointerdown",
	PointerUp:    "pointerup",
	PointerMove:  "pointermove",
	PointerEnter: "pointerenter",
	PointerLeave: "pointerleave",
	ContextMenu:  "contextmenu",
	KeyDown:      "keydown",
	Focus:        "focus",
	Blur:         "blur",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPointer reports whether events of this kind are routed by hit testing.
func (k Kind) IsPointer() bool {
	switch k {
	case PointerDown, PointerUp, PointerMove, ContextMenu:
		return true
	}
	return false
}

// PointerType names the device that produced a pointer event.
type PointerType string

const (
	Mouse PointerType = "mouse"
	Pen   PointerType = "pen"
	Touch PointerType = "touch"
)

// Button identifies the pointer button that changed state.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonAuxiliary
	ButtonSecondary
)

// Event is a single pointer, keyboard or focus event.
type Event struct {
	Kind        Kind
	X, Y        int
	Button      Button
	PointerType PointerType
	Time        time.Time

	// Key is the logical key ("ArrowDown", "Enter", " ", "a"); Code names
	// the physical key ("ArrowDown", "Enter", "Space", "KeyA").
	Key   string
	Code  string
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool

	Target        *Element
	RelatedTarget *Element

	stopped   bool
	prevented bool
	claimed   bool
}

// StopPropagation prevents the event from reaching further handlers.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool { return e.stopped }

// PreventDefault suppresses the document's default action.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Claim marks the event as consumed by an activation controller. It returns
// false when another controller already claimed it, so nested controllers
// react to a single press only once.
func (e *Event) Claim() bool {
	if e.claimed {
		return false
	}
	e.claimed = true
	return true
}

// Point returns the pointer position.
func (e *Event) Point() (int, int) { return e.X, e.Y }

// Handler reacts to an event.
type Handler func(*Event)

// ClickThresholds bound what counts as a click rather than a drag.
type ClickThresholds struct {
	MaxMove     int
	MaxDuration time.Duration
}

// DefaultClick holds the stock click thresholds.
var DefaultClick = ClickThresholds{MaxMove: 4, MaxDuration: 400 * time.Millisecond}

// IsClick reports whether down and up form a click: both axes moved strictly
// less than MaxMove and strictly less than MaxDuration elapsed.
func (c ClickThresholds) IsClick(down, up *Event) bool {
	if down == nil || up == nil {
		return false
	}
	if c.MaxMove <= 0 && c.MaxDuration <= 0 {
		c = DefaultClick
	}
	return abs(down.X-up.X) < c.MaxMove &&
		abs(down.Y-up.Y) < c.MaxMove &&
		up.Time.Sub(down.Time) < c.MaxDuration
}

// IsClick classifies down/up with the default thresholds.
func IsClick(down, up *Event) bool {
	return DefaultClick.IsClick(down, up)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
