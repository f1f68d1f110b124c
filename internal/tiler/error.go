package tiler

import (
	"fmt"

	"github.com/ItsNotGoodName/x-tiler/internal/geom"
)

type DegenerateError struct {
	Output     geom.Rect
	Count      int
	Degenerate int
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("%s: %d of %d windows on output %s", ErrDegenerateGeometry, e.Degenerate, e.Count, e.Output)
}

func (e *DegenerateError) Unwrap() error {
	return ErrDegenerateGeometry
}
