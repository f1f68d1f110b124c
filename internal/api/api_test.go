package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/ItsNotGoodName/x-tiler/internal/build"
	"github.com/ItsNotGoodName/x-tiler/internal/bus"
	"github.com/ItsNotGoodName/x-tiler/internal/geom"
	"github.com/ItsNotGoodName/x-tiler/internal/tiler"
	"github.com/danielgtaylor/huma/v2/humatest"
)

var snapshot = tiler.Snapshot{
	Output: geom.Rect{W: 800, H: 600},
	Windows: []tiler.Placement{
		{ID: "a", Surface: 1, Rect: geom.Rect{X: 6, Y: 6, W: 391, H: 588}},
		{ID: "b", Surface: 2, Rect: geom.Rect{X: 403, Y: 6, W: 391, H: 588}},
	},
}

func TestGetLayout(t *testing.T) {
	cache := NewCache()
	_, api := humatest.New(t)
	NewServer(cache, bus.NewHub[tiler.Snapshot]()).Register(api)

	resp := api.Get("/api/layout")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var layout Layout
	if err := json.Unmarshal(resp.Body.Bytes(), &layout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if layout.Available || len(layout.Windows) != 0 {
		t.Fatalf("expected empty layout, got %+v", layout)
	}

	if err := cache.Update(context.Background(), snapshot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp = api.Get("/api/layout")
	if err := json.Unmarshal(resp.Body.Bytes(), &layout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !layout.Available || layout.Output.Width != 800 || layout.Output.Height != 600 {
		t.Fatalf("unexpected output %+v", layout)
	}
	if len(layout.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(layout.Windows))
	}
	want := Window{ID: "b", Surface: 2, Rect: Rect{X: 403, Y: 6, Width: 391, Height: 588}}
	if layout.Windows[1] != want {
		t.Fatalf("expected %+v, got %+v", want, layout.Windows[1])
	}
}

func TestGetBuild(t *testing.T) {
	_, api := humatest.New(t)
	NewServer(NewCache(), bus.NewHub[tiler.Snapshot]()).Register(api)

	resp := api.Get("/api/build")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got build.Build
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Version != build.Current.Version {
		t.Fatalf("expected version %q, got %q", build.Current.Version, got.Version)
	}
}

func TestStream(t *testing.T) {
	cache := NewCache()
	hub := bus.NewHub[tiler.Snapshot]()
	server := NewServer(cache, hub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sentC := make(chan Layout)
	errC := make(chan error, 1)
	go func() {
		errC <- server.Stream(ctx, func(v any) error {
			sentC <- v.(Layout)
			return nil
		})
	}()

	if first := <-sentC; first.Available {
		t.Fatalf("expected the empty layout first, got %+v", first)
	}

	// The subscription exists once the first layout was sent.
	if err := hub.Broadcast(ctx, snapshot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := <-sentC
	if !got.Available || len(got.Windows) != 2 || got.Windows[0].ID != "a" {
		t.Fatalf("unexpected layout %+v", got)
	}

	cancel()
	if err := <-errC; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
