package tiler

import (
	"errors"
	"log/slog"

	"github.com/ItsNotGoodName/x-tiler/internal/geom"
	"github.com/ItsNotGoodName/x-tiler/internal/registry"
	"github.com/ItsNotGoodName/x-tiler/mosaic"
)

var (
	ErrNoOutput           = errors.New("no output available")
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	errNothingToConfigure = errors.New("nothing to configure")
)

// Configurer asks a client to take a new size.
type Configurer interface {
	SendConfigure(w *registry.Window, size geom.Size)
	MarkInitialConfigureSent(surface registry.SurfaceID)
}

// Mapper places a window in the spatial index of the host.
type Mapper interface {
	MapWindow(w *registry.Window, position geom.Point, activate bool)
}

type Protocol interface {
	Configurer
	Mapper
}

// Placement is the geometry assigned to one window by a recompute.
type Placement struct {
	ID      string
	Surface registry.SurfaceID
	Rect    geom.Rect
}

// Snapshot is the outcome of a recompute.
type Snapshot struct {
	Output  geom.Rect
	Windows []Placement
}

type Engine struct {
	registry *registry.Registry
	protocol Protocol
	mosaic   mosaic.Mosaic
	observer func(Snapshot)
}

func New(reg *registry.Registry, protocol Protocol, m mosaic.Mosaic) *Engine {
	return &Engine{
		registry: reg,
		protocol: protocol,
		mosaic:   m,
	}
}

// Observe registers fn to receive the snapshot of every successful recompute.
func (e *Engine) Observe(fn func(Snapshot)) {
	e.observer = fn
}

func (e *Engine) SetLayout(layout mosaic.Layout) {
	e.mosaic.SetLayout(layout)
}

// Recompute tiles every window of the registry and sends each one a
// configure. It is a no-op without an output.
func (e *Engine) Recompute() {
	snapshot, err := e.recompute()
	switch {
	case errors.Is(err, ErrNoOutput):
		slog.Debug("Skipping recompute", "package", "tiler", "error", err)
		return
	case errors.Is(err, errNothingToConfigure):
	case errors.Is(err, ErrDegenerateGeometry):
		slog.Warn("Layout does not fit output", "package", "tiler", "error", err)
	case err != nil:
		slog.Error("Failed to recompute layout", "package", "tiler", "error", err)
		return
	}

	if e.observer != nil {
		e.observer(snapshot)
	}
}

func (e *Engine) recompute() (Snapshot, error) {
	output, ok := e.registry.Output()
	if !ok {
		return Snapshot{}, ErrNoOutput
	}

	snapshot := Snapshot{Output: output}

	count := e.registry.Len()
	if count == 0 {
		return snapshot, errNothingToConfigure
	}

	rects, degenerate := e.mosaic.Windows(output, count)

	// Layout and configure dispatch happen in the same pass.
	for i, w := range e.registry.All() {
		if i >= len(rects) {
			break
		}
		rect := rects[i]

		w.Size = rect.Size()
		w.ConfigurePending = true
		e.protocol.SendConfigure(w, w.Size)
		e.protocol.MarkInitialConfigureSent(w.Surface)

		e.protocol.MapWindow(w, rect.Position(), false)
		w.Position = rect.Position()
		w.ConfigurePending = false

		slog.Debug("Configured window", "package", "tiler", "window", w.ID, "surface", w.Surface, "rect", rect)

		snapshot.Windows = append(snapshot.Windows, Placement{
			ID:      w.ID,
			Surface: w.Surface,
			Rect:    rect,
		})
	}

	if degenerate > 0 {
		return snapshot, &DegenerateError{Output: output, Count: count, Degenerate: degenerate}
	}

	return snapshot, nil
}
