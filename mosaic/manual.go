package mosaic

import (
	"fmt"

	"github.com/ItsNotGoodName/x-tiler/internal/geom"
)

// LayoutManualWindow is a slot expressed in fractions of the usable area.
type LayoutManualWindow struct {
	X float32
	Y float32
	W float32
	H float32
}

func (w LayoutManualWindow) overlaps(o LayoutManualWindow) bool {
	return w.X < o.X+o.W && o.X < w.X+w.W &&
		w.Y < o.Y+o.H && o.Y < w.Y+w.H
}

// LayoutManual places windows into user defined slots. Windows past the last
// slot share the last slot as a tiled sub-layout.
type LayoutManual struct {
	Gap     int
	windows []LayoutManualWindow
}

func NewLayoutManual(gap int, windows []LayoutManualWindow) LayoutManual {
	return LayoutManual{
		Gap:     gap,
		windows: windows,
	}
}

func (l LayoutManual) Count() int {
	return len(l.windows)
}

// Validate rejects slots that fall outside the area or overlap each other.
func (l LayoutManual) Validate() error {
	for i, w := range l.windows {
		if w.W <= 0 || w.H <= 0 {
			return fmt.Errorf("slot %d: empty size", i)
		}
		if w.X < 0 || w.Y < 0 || w.X+w.W > 1 || w.Y+w.H > 1 {
			return fmt.Errorf("slot %d: outside of output", i)
		}
		for j := 0; j < i; j++ {
			if w.overlaps(l.windows[j]) {
				return fmt.Errorf("slot %d: overlaps slot %d", i, j)
			}
		}
	}
	return nil
}

func (l LayoutManual) Arrange(output geom.Rect, count int) []geom.Rect {
	if count <= 0 {
		return nil
	}
	if len(l.windows) == 0 {
		return LayoutTile{Gap: l.Gap}.Arrange(output, count)
	}

	area := output.Shrink(l.Gap)
	slots := make([]geom.Rect, len(l.windows))
	for i, w := range l.windows {
		x := int(w.X * float32(area.W))
		y := int(w.Y * float32(area.H))
		slot := geom.Rect{
			X: area.X + x,
			Y: area.Y + y,
			W: int((w.W+w.X)*float32(area.W)) - x,
			H: int((w.H+w.Y)*float32(area.H)) - y,
		}
		// Only inner edges get a gap, the outer ones already have it.
		if slot.X+slot.W < area.X+area.W {
			slot.W -= l.Gap
		}
		if slot.Y+slot.H < area.Y+area.H {
			slot.H -= l.Gap
		}
		slots[i] = slot
	}

	if count <= len(slots) {
		return slots[:count]
	}

	// Growing the last slot by the gap cancels the shrink done by the tile
	// layout so the sub-layout fills the slot exactly.
	last := len(slots) - 1
	sub := LayoutTile{Gap: l.Gap}.Arrange(slots[last].Shrink(-l.Gap), count-last)
	return append(slots[:last], sub...)
}
