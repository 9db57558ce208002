package menu

import (
	"unicode"
	"unicode/utf8"

	"github.com/atomicstack/menubar/internal/event"
	"github.com/atomicstack/menubar/internal/schedule"
)

// Navigator routes keys for one popup owner over its live panel tree.
type Navigator struct {
	// Root returns the owner's top-level panel.
	Root func() *Panel
	// Opened reports whether the owner's popup is open.
	Opened    func() bool
	SetOpened func(bool)
	// Next and Prev move keyboard focus between menu bar entries; they
	// are nil outside a menu bar.
	Next func()
	Prev func()

	Timer *schedule.Timer
}

// OpenChain lists root and every panel opened below it, outermost first.
func OpenChain(root *Panel) []*Panel {
	if root == nil {
		return nil
	}
	chain := []*Panel{root}
	for p := root; ; {
		var next *Panel
		for _, e := range p.ChildList() {
			if e.Opened() && e.child != nil {
				next = e.child
				break
			}
		}
		if next == nil {
			return chain
		}
		chain = append(chain, next)
		p = next
	}
}

// HandleKey routes a keydown. It always stops propagation so an enclosing
// owner does not handle the key again.
func (n *Navigator) HandleKey(ev *event.Event) {
	ev.StopPropagation()
	root := n.Root()
	if root == nil {
		return
	}
	if !n.Opened() {
		n.handleClosed(ev, root)
		return
	}

	chain := OpenChain(root)
	top := chain[len(chain)-1]
	var parent *Panel
	if len(chain) > 1 {
		parent = chain[len(chain)-2]
	}
	active := top.ActiveItem()

	switch ev.Key {
	case "ArrowDown":
		top.ActivateNextItem()
	case "ArrowUp":
		top.ActivatePrevItem()
	case "ArrowRight":
		if top == root && (active == nil || !active.HasChild()) {
			call(n.Next)
			return
		}
		if active != nil {
			active.Open(OpenOptions{ActivateFirstItem: true})
		}
	case "ArrowLeft":
		if top == root {
			call(n.Prev)
			return
		}
		if owner := parent.ActiveItem(); owner != nil {
			owner.Close()
		}
	case " ", "Enter":
		if active == nil {
			return
		}
		if active.HasChild() {
			active.Open(OpenOptions{ActivateFirstItem: true})
		} else {
			active.Fire()
		}
	case "Escape":
		n.SetOpened(false)
	default:
		if isPrintable(ev) {
			top.TypeAhead(ev.Key)
		}
	}
}

func (n *Navigator) handleClosed(ev *event.Event, root *Panel) {
	switch ev.Key {
	case " ", "Enter":
		n.SetOpened(true)
	case "ArrowDown":
		n.SetOpened(true)
		n.Timer.Schedule(root.ActivateNextItem, 0)
	case "ArrowRight":
		call(n.Next)
	case "ArrowLeft":
		call(n.Prev)
	}
}

func isPrintable(ev *event.Event) bool {
	if ev.Ctrl || ev.Alt || ev.Meta {
		return false
	}
	r, size := utf8.DecodeRuneInString(ev.Key)
	return size == len(ev.Key) && r != utf8.RuneError && r != ' ' && unicode.IsPrint(r)
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
