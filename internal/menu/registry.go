package menu

import (
	"fmt"
	"strings"
)

// NodeKind tells what a registry node was declared as.
type NodeKind int

const (
	NodeRoot NodeKind = iota
	NodeBar
	NodePopup
	NodeItem
)

// Node represents a menu definition within the registry tree. IDs are colon
// paths from the top-level menu down ("file:export:pdf").
type Node struct {
	ID       string
	Kind     NodeKind
	Label    string
	Action   Action
	Item     FileItem
	Popup    FilePopup
	Menu     FileMenu
	Children map[string]*Node
	order    []string
}

// Ordered returns the children in declaration order.
func (n *Node) Ordered() []*Node {
	out := make([]*Node, 0, len(n.order))
	for _, key := range n.order {
		out = append(out, n.Children[key])
	}
	return out
}

// Registry exposes lookup utilities for menu definitions.
type Registry struct {
	root  *Node
	nodes map[string]*Node
}

// BuildRegistry indexes every menu, popup and row of f.
func BuildRegistry(f *File) *Registry {
	r := &Registry{nodes: make(map[string]*Node)}
	r.root = r.ensure("root")
	if f == nil {
		return r
	}
	for _, m := range f.Bar {
		node := r.add(r.root, m.key(), NodeBar)
		node.Label = m.Label
		node.Menu = m
		r.addItems(node, m.Items)
	}
	for _, p := range f.Popups {
		node := r.add(r.root, p.key(), NodePopup)
		node.Label = p.Label
		node.Popup = p
		r.addItems(node, p.Items)
	}
	return r
}

func (r *Registry) ensure(id string) *Node {
	if node, ok := r.nodes[id]; ok {
		return node
	}
	node := &Node{ID: id, Children: make(map[string]*Node)}
	r.nodes[id] = node
	return node
}

func (r *Registry) add(parent *Node, key string, kind NodeKind) *Node {
	base := key
	if parent != r.root {
		base = parent.ID + ":" + key
	}
	id := base
	for i := 2; r.nodes[id] != nil; i++ {
		id = fmt.Sprintf("%s-%d", base, i)
	}
	node := r.ensure(id)
	node.Kind = kind
	_, childKey := parentKey(id)
	parent.Children[childKey] = node
	parent.order = append(parent.order, childKey)
	return node
}

func (r *Registry) addItems(parent *Node, items []FileItem) {
	for i, it := range items {
		key := it.key()
		if it.Separator {
			key = fmt.Sprintf("separator-%d", i)
		}
		node := r.add(parent, key, NodeItem)
		node.Label = it.Label
		node.Item = it
		// validated at load time
		node.Action, _ = ParseAction(it.Action)
		r.addItems(node, it.Items)
	}
}

// Root returns the registry root node.
func (r *Registry) Root() *Node {
	return r.root
}

// Find locates a node by ID.
func (r *Registry) Find(id string) (*Node, bool) {
	node, ok := r.nodes[id]
	return node, ok
}

// Child resolves a child node under the given parent for the provided key.
func (r *Registry) Child(parentID, key string) (*Node, bool) {
	parent, ok := r.nodes[parentID]
	if !ok {
		return nil, false
	}
	node, ok := parent.Children[key]
	return node, ok
}

// TopLevel returns the top-level menu containing id.
func (r *Registry) TopLevel(id string) (*Node, bool) {
	head, _, _ := strings.Cut(id, ":")
	return r.Find(head)
}

// BarMenus converts the bar definitions. Leaf rows with an action call run
// with their ID when they fire.
func (r *Registry) BarMenus(flags Flags, run func(id string)) []BarMenu {
	var out []BarMenu
	for _, node := range r.root.Ordered() {
		if node.Kind != NodeBar {
			continue
		}
		out = append(out, BarMenu{
			ID:                       node.ID,
			Label:                    node.Label,
			DeactivateOnPointerLeave: node.Menu.DeactivateOnPointerLeave,
			Items:                    r.items(node, flags, run),
		})
	}
	return out
}

// PopupMenu is a converted popup definition.
type PopupMenu struct {
	ID       string
	Label    string
	Parent   string
	Context  bool
	Position Position
	Items    []Item
}

// Popups converts the popup definitions in declaration order.
func (r *Registry) Popups(flags Flags, run func(id string)) []PopupMenu {
	var out []PopupMenu
	for _, node := range r.root.Ordered() {
		if node.Kind != NodePopup {
			continue
		}
		p := node.Popup
		context := p.Kind == "" || p.Kind == PopupContext
		pos := PositionBottom
		if p.Position == "cursor" || (p.Position == "" && context) {
			pos = PositionCursor
		}
		out = append(out, PopupMenu{
			ID:       node.ID,
			Label:    node.Label,
			Parent:   p.Parent,
			Context:  context,
			Position: pos,
			Items:    r.items(node, flags, run),
		})
	}
	return out
}

func (r *Registry) items(parent *Node, flags Flags, run func(id string)) []Item {
	children := parent.Ordered()
	out := make([]Item, 0, len(children))
	for _, node := range children {
		it := node.Item
		if it.Separator {
			out = append(out, Separator())
			continue
		}
		item := Item{
			ID:       node.ID,
			Label:    it.Label,
			Keybind:  it.Keybind,
			NoDelay:  it.NoDelay,
			Disabled: it.Disabled || flags.Eval(it.DisabledIf),
			Checked:  flags.Eval(it.Checked),
		}
		if len(node.order) > 0 {
			item.Items = r.items(node, flags, run)
		} else if node.Action.Kind != ActionNone && run != nil {
			id := node.ID
			item.OnClick = func() { run(id) }
		}
		out = append(out, item)
	}
	return out
}

func parentKey(id string) (string, string) {
	if id == "" {
		return "root", ""
	}
	if !strings.Contains(id, ":") {
		return "root", id
	}
	idx := strings.LastIndex(id, ":")
	return id[:idx], id[idx+1:]
}
