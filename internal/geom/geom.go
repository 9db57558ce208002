package geom

// Rect is a viewport-relative rectangle measured in terminal cells.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Contains reports whether the cell at x,y lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// Direction is the horizontal growth sense of a panel and its descendants.
type Direction int

const (
	Rightward Direction = 1
	Leftward  Direction = -1
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction { return -d }

func (d Direction) String() string {
	if d < 0 {
		return "left"
	}
	return "right"
}
