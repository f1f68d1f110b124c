package lifecycle

import (
	"log/slog"

	"github.com/ItsNotGoodName/x-tiler/internal/geom"
	"github.com/ItsNotGoodName/x-tiler/internal/registry"
)

type State int

const (
	AwaitingInitialConfigure State = iota
	Acknowledged
)

func (s State) String() string {
	switch s {
	case AwaitingInitialConfigure:
		return "awaiting-initial-configure"
	case Acknowledged:
		return "acknowledged"
	default:
		return "unknown"
	}
}

// AckStore is the protocol layer bookkeeping of configures sent to a surface.
type AckStore interface {
	InitialConfigureSent(surface registry.SurfaceID) bool
	MarkInitialConfigureSent(surface registry.SurfaceID)
}

type BufferSink interface {
	NotifyBufferCommitted(surface registry.SurfaceID)
}

type Protocol interface {
	AckStore
	BufferSink
	SendConfigure(w *registry.Window, size geom.Size)
}

// Coordinator makes sure a surface gets a configure before its content is
// shown.
type Coordinator struct {
	protocol Protocol
	states   map[registry.SurfaceID]State
}

func New(protocol Protocol) *Coordinator {
	return &Coordinator{
		protocol: protocol,
		states:   make(map[registry.SurfaceID]State),
	}
}

func (c *Coordinator) State(surface registry.SurfaceID) State {
	return c.states[surface]
}

// OnCommit handles a commit of a known window.
func (c *Coordinator) OnCommit(w *registry.Window) {
	if c.states[w.Surface] == AwaitingInitialConfigure {
		if c.protocol.InitialConfigureSent(w.Surface) {
			c.states[w.Surface] = Acknowledged
			slog.Debug("Surface acknowledged", "package", "lifecycle", "window", w.ID, "surface", w.Surface)
		} else {
			slog.Debug("Sending initial configure", "package", "lifecycle", "window", w.ID, "surface", w.Surface, "size", w.Size)
			c.protocol.SendConfigure(w, w.Size)
			c.protocol.MarkInitialConfigureSent(w.Surface)
		}
	}

	c.protocol.NotifyBufferCommitted(w.Surface)
}

// Forget drops the state of a destroyed surface.
func (c *Coordinator) Forget(surface registry.SurfaceID) {
	delete(c.states, surface)
}
