package xwm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-tiler/internal/geom"
	"github.com/ItsNotGoodName/x-tiler/internal/registry"
)

var (
	ErrUnknownSurface = errors.New("unknown surface")
	errQuit           = fmt.Errorf("quit")
)

// Msg is an event from the protocol layer. Msgs are applied one at a time by
// HandleEvents.
type Msg interface{}

type (
	WindowCreated struct {
		Surface registry.SurfaceID
	}
	WindowCommitted struct {
		Surface registry.SurfaceID
	}
	WindowDestroyed struct {
		Surface registry.SurfaceID
	}
	OutputChanged struct {
		Output geom.Rect
	}
	Quit struct{}
)

type (
	WindowEvents interface {
		OnWindowCreated(surface registry.SurfaceID) (*registry.Window, error)
		OnWindowDestroyed(surface registry.SurfaceID) error
	}

	BufferEvents interface {
		OnWindowCommitted(surface registry.SurfaceID) error
	}

	OutputEvents interface {
		OnOutputChanged(output geom.Rect)
	}

	Handler interface {
		WindowEvents
		BufferEvents
		OutputEvents
	}
)

// Update applies msg to h.
func Update(h Handler, msg Msg) error {
	switch msg := msg.(type) {
	case WindowCreated:
		_, err := h.OnWindowCreated(msg.Surface)
		return err
	case WindowCommitted:
		return h.OnWindowCommitted(msg.Surface)
	case WindowDestroyed:
		return h.OnWindowDestroyed(msg.Surface)
	case OutputChanged:
		h.OnOutputChanged(msg.Output)
		return nil
	case Quit:
		return errQuit
	default:
		return fmt.Errorf("unknown message: %T", msg)
	}
}

// HandleEvents applies messages from msgC until the context is done, msgC is
// closed or a Quit message arrives. Failed messages are logged and skipped.
func HandleEvents(ctx context.Context, h Handler, msgC <-chan Msg) error {
	slog := slog.With("func", "xwm.HandleEvents")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgC:
			if !ok {
				slog.Debug("exit: message channel closed")
				return nil
			}

			err := Update(h, msg)
			switch {
			case err == nil:
			case errors.Is(err, errQuit):
				slog.Debug("exit: quit message")
				return nil
			case errors.Is(err, ErrUnknownSurface), errors.Is(err, registry.ErrDuplicateSurface):
				slog.Warn("Ignoring event", "event", fmt.Sprintf("%T", msg), "error", err)
			default:
				slog.Error("Failed to handle event", "event", fmt.Sprintf("%T", msg), "error", err)
			}
		}
	}
}
