package layer

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Patch is a block of rendered lines drawn with its top-left cell at X,Y.
type Patch struct {
	X, Y  int
	Lines []string
}

// Surface is something mounted into the floating layer.
type Surface interface {
	Patches() []Patch
}

type mount struct {
	surface  Surface
	released bool
}

// Layer is the shared overlay drawn above the base view. It is attached
// while at least one surface holds a reference and detached when the last
// one releases.
type Layer struct {
	mounts   []*mount
	refs     int
	attaches int
}

// New creates a detached layer.
func New() *Layer {
	return &Layer{}
}

// Acquire mounts s and returns its release func. Releasing twice is a no-op.
func (l *Layer) Acquire(s Surface) func() {
	m := &mount{surface: s}
	if l.refs == 0 {
		l.attaches++
	}
	l.refs++
	l.mounts = append(l.mounts, m)
	return func() {
		if m.released {
			return
		}
		m.released = true
		l.refs--
		for i, cur := range l.mounts {
			if cur == m {
				l.mounts = append(l.mounts[:i], l.mounts[i+1:]...)
				break
			}
		}
	}
}

// Attached reports whether any surface holds the layer.
func (l *Layer) Attached() bool {
	return l.refs > 0
}

// Refs reports the number of live references.
func (l *Layer) Refs() int {
	return l.refs
}

// Attaches counts how often the layer went from detached to attached.
func (l *Layer) Attaches() int {
	return l.attaches
}

// Compose draws every mounted surface over base, in mount order. The result
// has at least height lines when height is positive, and patches are clipped
// to width when width is positive.
func (l *Layer) Compose(base string, width, height int) string {
	lines := strings.Split(base, "\n")
	for height > 0 && len(lines) < height {
		lines = append(lines, "")
	}
	if !l.Attached() {
		return strings.Join(lines, "\n")
	}
	for _, m := range l.mounts {
		for _, p := range m.surface.Patches() {
			for i, seg := range p.Lines {
				y := p.Y + i
				if y < 0 || y >= len(lines) {
					continue
				}
				lines[y] = Splice(lines[y], p.X, seg, width)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// Splice overwrites line starting at column x with seg, keeping the cells
// of line on either side.
func Splice(line string, x int, seg string, width int) string {
	if x < 0 {
		seg = ansi.TruncateLeft(seg, -x, "")
		x = 0
	}
	if width > 0 {
		if x >= width {
			return line
		}
		if x+ansi.StringWidth(seg) > width {
			seg = ansi.Truncate(seg, width-x, "")
		}
	}
	segWidth := ansi.StringWidth(seg)
	left := ansi.Truncate(line, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	right := ""
	if ansi.StringWidth(line) > x+segWidth {
		right = ansi.TruncateLeft(line, x+segWidth, "")
	}
	return left + ansi.ResetStyle + seg + ansi.ResetStyle + right
}
