package mosaic

import "github.com/ItsNotGoodName/x-tiler/internal/geom"

// LayoutGrid fills rows left to right with equally sized cells.
type LayoutGrid struct {
	Gap int
}

func NewLayoutGrid(gap int) LayoutGrid {
	return LayoutGrid{
		Gap: gap,
	}
}

// GridSize returns the smallest grid, growing columns first, that holds count
// cells.
func GridSize(count int) (columns, rows int) {
	for columns*rows < count {
		columns++
		if columns*rows >= count {
			break
		}
		rows++
	}
	return
}

func (l LayoutGrid) Arrange(output geom.Rect, count int) []geom.Rect {
	if count <= 0 {
		return nil
	}

	columns, rows := GridSize(count)
	fw := (output.W - (columns+1)*l.Gap) / columns
	fh := (output.H - (rows+1)*l.Gap) / rows

	wins := make([]geom.Rect, count)
	for idx := range wins {
		row, col := idx/columns, idx%columns
		wins[idx] = geom.Rect{
			X: output.X + l.Gap + col*(fw+l.Gap),
			Y: output.Y + l.Gap + row*(fh+l.Gap),
			W: fw,
			H: fh,
		}
	}

	return wins
}
