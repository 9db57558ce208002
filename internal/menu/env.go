package menu

import (
	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/geom"
	"github.com/atomicstack/menubar/internal/keybind"
	"github.com/atomicstack/menubar/internal/layer"
	"github.com/atomicstack/menubar/internal/logging"
	"github.com/atomicstack/menubar/internal/schedule"
	"github.com/atomicstack/menubar/internal/theme"
)

// maxPasses bounds how often Commit re-runs layout while components keep
// invalidating each other.
const maxPasses = 8

// Env is the runtime shared by every menu component: the element tree,
// the frame/timer loop, the floating layer, shortcut bindings and styling.
type Env struct {
	Doc      *event.Document
	Loop     *schedule.Loop
	Theme    *theme.Styles
	Fade     theme.Fade
	Keys     *keybind.Registry
	Layer    *layer.Layer
	Viewport geom.Size
	Click    event.ClickThresholds

	mounted []component
	dirty   bool
}

// component is a top-level widget laid out on every commit.
type component interface {
	layout()
}

// NewEnv builds an environment around clock. A nil styles uses the default
// theme.
func NewEnv(clock schedule.Clock, styles *theme.Styles, viewport geom.Size) *Env {
	if styles == nil {
		styles = theme.Default()
	}
	doc := event.NewDocument()
	return &Env{
		Doc:      doc,
		Loop:     schedule.NewLoop(clock),
		Theme:    styles,
		Fade:     theme.DefaultFade,
		Keys:     keybind.NewRegistry(doc),
		Layer:    layer.New(),
		Viewport: viewport,
		Click:    event.DefaultClick,
	}
}

// Invalidate requests another layout pass.
func (e *Env) Invalidate() {
	e.dirty = true
}

// Dirty reports whether a layout pass is pending.
func (e *Env) Dirty() bool {
	return e.dirty
}

// SetViewport records the terminal size. Open panels keep their position
// until they are opened again.
func (e *Env) SetViewport(size geom.Size) {
	if e.Viewport == size {
		return
	}
	e.Viewport = size
	e.Invalidate()
}

func (e *Env) mount(c component) {
	e.mounted = append(e.mounted, c)
	e.Invalidate()
}

func (e *Env) unmount(c component) {
	for i, cur := range e.mounted {
		if cur == c {
			e.mounted = append(e.mounted[:i], e.mounted[i+1:]...)
			break
		}
	}
	e.Invalidate()
}

// Commit runs layout over every mounted component until nothing
// invalidates. It returns the number of passes.
func (e *Env) Commit() int {
	passes := 0
	e.dirty = true
	for e.dirty && passes < maxPasses {
		e.dirty = false
		snapshot := append([]component(nil), e.mounted...)
		for _, c := range snapshot {
			c.layout()
		}
		passes++
	}
	if e.dirty {
		logging.Warnf("menu layout did not settle after %d passes", maxPasses)
		e.dirty = false
	}
	return passes
}

// Dispatch delivers ev and commits the resulting state.
func (e *Env) Dispatch(ev *event.Event) {
	e.Doc.Dispatch(ev)
	e.Commit()
}

// Flush commits, then runs the callbacks waiting for the next frame and
// commits again.
func (e *Env) Flush() {
	e.Commit()
	if e.Loop.RunFrame() > 0 {
		e.Commit()
	}
}

// Tick runs due timers and the next frame, committing after each.
func (e *Env) Tick() {
	if e.Loop.RunDue() > 0 {
		e.Commit()
	}
	e.Flush()
}
