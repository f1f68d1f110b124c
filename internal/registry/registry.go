package registry

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/ItsNotGoodName/x-tiler/internal/geom"
	"github.com/google/uuid"
)

var ErrDuplicateSurface = errors.New("duplicate surface")

// SurfaceID identifies a client surface in the protocol layer.
type SurfaceID uint32

func (id SurfaceID) String() string {
	return fmt.Sprintf("surface(%d)", uint32(id))
}

type Window struct {
	ID               string
	Surface          SurfaceID
	Position         geom.Point
	Size             geom.Size
	ConfigurePending bool
}

func (w *Window) Rect() geom.Rect {
	return geom.NewRect(w.Position, w.Size)
}

func (w *Window) String() string {
	return fmt.Sprintf("registry.Window(id=%s, %s)", w.ID, w.Surface)
}

// Registry holds the windows in insertion order and the output they are
// tiled on. Every mutation runs the registered effects.
type Registry struct {
	windows []*Window
	output  *geom.Rect
	effects []func()
}

func New() *Registry {
	return &Registry{}
}

// AddEffect registers fn to run after every mutation.
func (r *Registry) AddEffect(fn func()) {
	r.effects = append(r.effects, fn)
}

func (r *Registry) changed() {
	for _, fn := range r.effects {
		fn()
	}
}

func (r *Registry) Add(surface SurfaceID) (int, *Window, error) {
	if _, ok := r.Lookup(surface); ok {
		return -1, nil, fmt.Errorf("%w: %s", ErrDuplicateSurface, surface)
	}

	window := &Window{
		ID:      uuid.NewString(),
		Surface: surface,
	}
	r.windows = append(r.windows, window)
	idx := len(r.windows) - 1

	r.changed()

	return idx, window, nil
}

func (r *Registry) Remove(surface SurfaceID) (*Window, bool) {
	idx := slices.IndexFunc(r.windows, func(w *Window) bool { return w.Surface == surface })
	if idx == -1 {
		return nil, false
	}

	window := r.windows[idx]
	r.windows = slices.Delete(r.windows, idx, idx+1)

	r.changed()

	return window, true
}

func (r *Registry) Lookup(surface SurfaceID) (*Window, bool) {
	idx := slices.IndexFunc(r.windows, func(w *Window) bool { return w.Surface == surface })
	if idx == -1 {
		return nil, false
	}
	return r.windows[idx], true
}

// All iterates the windows in insertion order. The sequence reads the live
// registry every time it is ranged over.
func (r *Registry) All() iter.Seq2[int, *Window] {
	return func(yield func(int, *Window) bool) {
		for i, w := range r.windows {
			if !yield(i, w) {
				return
			}
		}
	}
}

func (r *Registry) Len() int {
	return len(r.windows)
}

func (r *Registry) SetOutput(output geom.Rect) {
	r.output = &output
	r.changed()
}

func (r *Registry) Output() (geom.Rect, bool) {
	if r.output == nil {
		return geom.Rect{}, false
	}
	return *r.output, true
}
