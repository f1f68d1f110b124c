package geom

import "fmt"

type (
	Point struct {
		X int
		Y int
	}

	Size struct {
		W int
		H int
	}

	// Rect is a rectangle in logical units. The origin is the top left corner.
	Rect struct {
		X int
		Y int
		W int
		H int
	}
)

func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

func NewRect(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

func (r Rect) Position() Point {
	return Point{X: r.X, Y: r.Y}
}

func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Shrink subtracts margin from all four sides.
func (r Rect) Shrink(margin int) Rect {
	return Rect{
		X: r.X + margin,
		Y: r.Y + margin,
		W: r.W - 2*margin,
		H: r.H - 2*margin,
	}
}

// SplitHorizontal cuts r at offset from the left edge.
func (r Rect) SplitHorizontal(offset int) (left, right Rect) {
	left = Rect{X: r.X, Y: r.Y, W: offset, H: r.H}
	right = Rect{X: r.X + offset, Y: r.Y, W: r.W - offset, H: r.H}
	return
}

// SplitVertical cuts r at offset from the top edge.
func (r Rect) SplitVertical(offset int) (top, bottom Rect) {
	top = Rect{X: r.X, Y: r.Y, W: r.W, H: offset}
	bottom = Rect{X: r.X, Y: r.Y + offset, W: r.W, H: r.H - offset}
	return
}

// Overlaps reports whether the interiors of r and o intersect. Rectangles
// that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Clamp grows W and H up to min.
func (r Rect) Clamp(min Size) Rect {
	if r.W < min.W {
		r.W = min.W
	}
	if r.H < min.H {
		r.H = min.H
	}
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}
