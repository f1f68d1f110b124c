package mosaic

import "github.com/ItsNotGoodName/x-tiler/internal/geom"

// DefaultGap is the spacing between tiled windows and between windows and the
// output edges.
const DefaultGap = 6

type (
	// Layout computes one rectangle per window, in slot order.
	Layout interface {
		Arrange(output geom.Rect, count int) []geom.Rect
	}

	Mosaic struct {
		layout Layout
		clamp  bool
	}
)

var minSize = geom.Size{W: 1, H: 1}

func New(layout Layout, clamp bool) Mosaic {
	return Mosaic{
		layout: layout,
		clamp:  clamp,
	}
}

func (m *Mosaic) SetLayout(layout Layout) {
	m.layout = layout
}

func (m Mosaic) Layout() Layout {
	return m.layout
}

// Windows arranges count windows on output. Degenerate counts the rectangles
// that came out with a non-positive width or height; they are raised to 1x1
// when clamping is enabled.
func (m Mosaic) Windows(output geom.Rect, count int) (wins []geom.Rect, degenerate int) {
	wins = m.layout.Arrange(output, count)
	for i := range wins {
		if !wins[i].Empty() {
			continue
		}
		degenerate++
		if m.clamp {
			wins[i] = wins[i].Clamp(minSize)
		}
	}
	return wins, degenerate
}
