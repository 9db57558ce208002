package geom

// Placement is the computed origin of a panel.
type Placement struct {
	Top     int
	Left    int
	Flipped bool
}

// Position places a panel of the given size next to anchor, growing in dir.
//
// An anchor with zero height is a point or an edge to open below (bar items,
// context menus): the panel is aligned with the anchor's left edge when
// growing rightward and with its right edge when growing leftward. Any other
// anchor is a row to open beside (submenus): the panel starts just past the
// anchor's right edge, or ends at its left edge.
//
// contentsTop shifts the panel up so its first row lines up with the anchor
// instead of its own top border.
func Position(panel Size, anchor Rect, dir Direction, contentsTop int, viewport Size) Placement {
	var p Placement

	if anchor.Top+panel.Height > viewport.Height {
		p.Top = max(0, viewport.Height-panel.Height)
	} else {
		p.Top = max(0, anchor.Top-contentsTop)
	}

	if dir == 0 {
		dir = Rightward
	}
	p.Left = horizontal(panel, anchor, dir)
	if p.Left+panel.Width > viewport.Width || p.Left < 0 {
		p.Left = max(0, min(horizontal(panel, anchor, dir.Flip()), viewport.Width-panel.Width))
		p.Flipped = true
	}
	return p
}

func horizontal(panel Size, anchor Rect, dir Direction) int {
	if anchor.Height == 0 {
		if dir > 0 {
			return anchor.Left
		}
		return anchor.Right() - panel.Width
	}
	if dir > 0 {
		return anchor.Right()
	}
	return anchor.Left - panel.Width
}
