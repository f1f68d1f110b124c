package xwm

import (
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-tiler/internal/geom"
	"github.com/ItsNotGoodName/x-tiler/internal/lifecycle"
	"github.com/ItsNotGoodName/x-tiler/internal/registry"
	"github.com/ItsNotGoodName/x-tiler/internal/tiler"
	"github.com/ItsNotGoodName/x-tiler/mosaic"
)

// Protocol is everything the compositor needs from the protocol layer.
type Protocol interface {
	tiler.Protocol
	lifecycle.Protocol
}

// Compositor owns the window registry, the layout engine and the lifecycle
// coordinator. It must only be used from one goroutine.
type Compositor struct {
	registry    *registry.Registry
	engine      *tiler.Engine
	coordinator *lifecycle.Coordinator
}

var _ Handler = (*Compositor)(nil)

func NewCompositor(protocol Protocol, m mosaic.Mosaic) *Compositor {
	reg := registry.New()
	engine := tiler.New(reg, protocol, m)
	reg.AddEffect(engine.Recompute)

	return &Compositor{
		registry:    reg,
		engine:      engine,
		coordinator: lifecycle.New(protocol),
	}
}

// Observe registers fn to receive every computed layout.
func (c *Compositor) Observe(fn func(tiler.Snapshot)) {
	c.engine.Observe(fn)
}

func (c *Compositor) Registry() *registry.Registry {
	return c.registry
}

func (c *Compositor) State(surface registry.SurfaceID) lifecycle.State {
	return c.coordinator.State(surface)
}

func (c *Compositor) OnWindowCreated(surface registry.SurfaceID) (*registry.Window, error) {
	idx, window, err := c.registry.Add(surface)
	if err != nil {
		return nil, err
	}

	slog.Info("Window created", "window", window.ID, "surface", surface, "slot", idx)

	return window, nil
}

func (c *Compositor) OnWindowCommitted(surface registry.SurfaceID) error {
	window, ok := c.registry.Lookup(surface)
	if !ok {
		return fmt.Errorf("commit: %w: %s", ErrUnknownSurface, surface)
	}

	c.coordinator.OnCommit(window)

	return nil
}

func (c *Compositor) OnWindowDestroyed(surface registry.SurfaceID) error {
	c.coordinator.Forget(surface)

	window, ok := c.registry.Remove(surface)
	if !ok {
		return fmt.Errorf("destroy: %w: %s", ErrUnknownSurface, surface)
	}

	slog.Info("Window destroyed", "window", window.ID, "surface", surface)

	return nil
}

func (c *Compositor) OnOutputChanged(output geom.Rect) {
	slog.Info("Output changed", "output", output)

	c.registry.SetOutput(output)
}
