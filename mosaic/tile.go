package mosaic

import "github.com/ItsNotGoodName/x-tiler/internal/geom"

// Remainder decides where the pixels lost to the integer division of the
// stack column go.
type Remainder int

const (
	// RemainderLast grows the last stack window by the lost pixels.
	RemainderLast Remainder = iota
	// RemainderDrop leaves the lost pixels empty at the bottom of the stack.
	RemainderDrop
)

// LayoutTile is a master/stack layout. The first window takes the left half of
// the output, every other window shares the right column top to bottom.
type LayoutTile struct {
	Gap       int
	Remainder Remainder
}

func NewLayoutTile(gap int, remainder Remainder) LayoutTile {
	return LayoutTile{
		Gap:       gap,
		Remainder: remainder,
	}
}

func (l LayoutTile) Arrange(output geom.Rect, count int) []geom.Rect {
	if count <= 0 {
		return nil
	}

	area := output.Shrink(l.Gap)
	wins := make([]geom.Rect, count)
	if count == 1 {
		wins[0] = area
		return wins
	}

	master, rest := area.SplitHorizontal((area.W - l.Gap) / 2)
	_, column := rest.SplitHorizontal(l.Gap)
	wins[0] = master

	stack := count - 1
	height := column.H / stack
	for i := 1; i < count; i++ {
		_, win := column.SplitVertical(height * (i - 1))
		win.H = height
		if i > 1 {
			win.Y += l.Gap
			win.H -= l.Gap
		}
		if i == count-1 && l.Remainder == RemainderLast {
			win.H += column.H % stack
		}
		wins[i] = win
	}

	return wins
}
