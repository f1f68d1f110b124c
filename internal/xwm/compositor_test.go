package xwm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ItsNotGoodName/x-tiler/internal/geom"
	"github.com/ItsNotGoodName/x-tiler/internal/lifecycle"
	"github.com/ItsNotGoodName/x-tiler/internal/registry"
	"github.com/ItsNotGoodName/x-tiler/mosaic"
)

type event struct {
	name    string
	surface registry.SurfaceID
}

type recorder struct {
	events []event
	sent   map[registry.SurfaceID]bool
}

func newRecorder() *recorder {
	return &recorder{sent: make(map[registry.SurfaceID]bool)}
}

func (r *recorder) SendConfigure(w *registry.Window, size geom.Size) {
	r.events = append(r.events, event{"configure", w.Surface})
}

func (r *recorder) MapWindow(w *registry.Window, position geom.Point, activate bool) {
	r.events = append(r.events, event{"map", w.Surface})
}

func (r *recorder) InitialConfigureSent(surface registry.SurfaceID) bool {
	return r.sent[surface]
}

func (r *recorder) MarkInitialConfigureSent(surface registry.SurfaceID) {
	r.sent[surface] = true
}

func (r *recorder) NotifyBufferCommitted(surface registry.SurfaceID) {
	r.events = append(r.events, event{"commit", surface})
}

// configuresBeforeCommit returns the number of configures sent to surface
// before each of its buffer commits was forwarded.
func (r *recorder) configuresBeforeCommit(surface registry.SurfaceID) []int {
	var counts []int
	configures := 0
	for _, e := range r.events {
		if e.surface != surface {
			continue
		}
		switch e.name {
		case "configure":
			configures++
		case "commit":
			counts = append(counts, configures)
		}
	}
	return counts
}

func newCompositor(r *recorder) *Compositor {
	return NewCompositor(r, mosaic.New(mosaic.NewLayoutTile(mosaic.DefaultGap, mosaic.RemainderLast), true))
}

func TestCompositor_CommitBeforeOutput(t *testing.T) {
	r := newRecorder()
	c := newCompositor(r)

	if _, err := c.OnWindowCreated(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := c.OnWindowCommitted(1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got := r.configuresBeforeCommit(1)
	want := []int{1, 1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected configures before commits %v, got %v", want, got)
		}
	}
	if c.State(1) != lifecycle.Acknowledged {
		t.Fatalf("expected %s, got %s", lifecycle.Acknowledged, c.State(1))
	}
}

func TestCompositor_CommitAfterLayout(t *testing.T) {
	r := newRecorder()
	c := newCompositor(r)

	c.OnOutputChanged(geom.Rect{W: 800, H: 600})
	c.OnWindowCreated(1)
	c.OnWindowCommitted(1)
	c.OnWindowCommitted(1)

	got := r.configuresBeforeCommit(1)
	if len(got) != 2 || got[0] != 1 || got[1] != 1 {
		t.Fatalf("expected exactly 1 configure before each commit, got %v", got)
	}
}

func TestCompositor_UnknownSurfaceCommit(t *testing.T) {
	r := newRecorder()
	c := newCompositor(r)
	c.OnOutputChanged(geom.Rect{W: 800, H: 600})
	c.OnWindowCreated(1)
	before := len(r.events)

	err := c.OnWindowCommitted(99)
	if !errors.Is(err, ErrUnknownSurface) {
		t.Fatalf("expected ErrUnknownSurface, got %v", err)
	}
	if len(r.events) != before {
		t.Fatalf("unknown commit must not call the protocol: %v", r.events[before:])
	}
	if c.Registry().Len() != 1 {
		t.Fatalf("unknown commit must not change the registry")
	}
}

func TestCompositor_DestroyPromotesMaster(t *testing.T) {
	r := newRecorder()
	c := newCompositor(r)
	c.OnOutputChanged(geom.Rect{W: 800, H: 600})

	first, _ := c.OnWindowCreated(1)
	second, _ := c.OnWindowCreated(2)
	master := first.Rect()

	if err := c.OnWindowDestroyed(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Rect() != master {
		t.Fatalf("expected %v, got %v", master, second.Rect())
	}
	if second.Rect() != (geom.Rect{X: 6, Y: 6, W: 788, H: 588}) {
		t.Fatalf("expected lone window to fill the output, got %v", second.Rect())
	}

	if err := c.OnWindowDestroyed(1); !errors.Is(err, ErrUnknownSurface) {
		t.Fatalf("expected ErrUnknownSurface, got %v", err)
	}
}

func TestCompositor_DuplicateCreate(t *testing.T) {
	c := newCompositor(newRecorder())
	c.OnWindowCreated(1)
	if _, err := c.OnWindowCreated(1); !errors.Is(err, registry.ErrDuplicateSurface) {
		t.Fatalf("expected ErrDuplicateSurface, got %v", err)
	}
}

func TestHandleEvents(t *testing.T) {
	r := newRecorder()
	c := newCompositor(r)

	msgC := make(chan Msg, 8)
	msgC <- WindowCreated{Surface: 1}
	msgC <- WindowCommitted{Surface: 1}
	msgC <- OutputChanged{Output: geom.Rect{W: 800, H: 600}}
	msgC <- WindowCreated{Surface: 2}
	msgC <- WindowCreated{Surface: 2}
	msgC <- WindowCommitted{Surface: 3}
	msgC <- WindowDestroyed{Surface: 1}
	close(msgC)

	if err := HandleEvents(context.Background(), c, msgC); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w, ok := c.Registry().Lookup(2)
	if !ok {
		t.Fatalf("expected surface 2 to be registered")
	}
	if c.Registry().Len() != 1 {
		t.Fatalf("expected 1 window, got %d", c.Registry().Len())
	}
	if w.Rect() != (geom.Rect{X: 6, Y: 6, W: 788, H: 588}) {
		t.Fatalf("unexpected geometry %v", w.Rect())
	}
}

func TestHandleEvents_Quit(t *testing.T) {
	msgC := make(chan Msg, 1)
	msgC <- Quit{}

	if err := HandleEvents(context.Background(), newCompositor(newRecorder()), msgC); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandleEvents_Context(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := HandleEvents(ctx, newCompositor(newRecorder()), make(chan Msg))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
