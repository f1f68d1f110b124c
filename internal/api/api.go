// Package api serves a read-only view of the compositor over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ItsNotGoodName/x-tiler/internal/build"
	"github.com/ItsNotGoodName/x-tiler/internal/bus"
	"github.com/ItsNotGoodName/x-tiler/internal/tiler"
	"github.com/ItsNotGoodName/x-tiler/pkg/chiext"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Window struct {
	ID      string `json:"id" doc:"Window ID, stable for the lifetime of the window"`
	Surface uint32 `json:"surface" doc:"Surface of the window in the host protocol"`
	Rect
}

type Layout struct {
	Available bool     `json:"available" doc:"False until the first layout was computed"`
	Output    Rect     `json:"output"`
	Windows   []Window `json:"windows"`
}

func NewLayout(snapshot tiler.Snapshot) Layout {
	windows := make([]Window, 0, len(snapshot.Windows))
	for _, p := range snapshot.Windows {
		windows = append(windows, Window{
			ID:      p.ID,
			Surface: uint32(p.Surface),
			Rect:    Rect{X: p.Rect.X, Y: p.Rect.Y, Width: p.Rect.W, Height: p.Rect.H},
		})
	}

	return Layout{
		Available: true,
		Output:    Rect{X: snapshot.Output.X, Y: snapshot.Output.Y, Width: snapshot.Output.W, Height: snapshot.Output.H},
		Windows:   windows,
	}
}

// Cache holds the latest layout.
type Cache struct {
	mu     sync.RWMutex
	layout Layout
}

func NewCache() *Cache {
	return &Cache{layout: Layout{Windows: []Window{}}}
}

// Update is a bus handler for snapshots.
func (c *Cache) Update(ctx context.Context, snapshot tiler.Snapshot) error {
	layout := NewLayout(snapshot)

	c.mu.Lock()
	c.layout = layout
	c.mu.Unlock()

	return nil
}

func (c *Cache) Layout() Layout {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layout
}

type Server struct {
	cache *Cache
	hub   *bus.Hub[tiler.Snapshot]
}

func NewServer(cache *Cache, hub *bus.Hub[tiler.Snapshot]) Server {
	return Server{
		cache: cache,
		hub:   hub,
	}
}

type BuildOutput struct {
	Body build.Build
}

type LayoutOutput struct {
	Body Layout
}

func (s Server) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-build",
		Method:      http.MethodGet,
		Path:        "/api/build",
		Summary:     "Get build information",
	}, func(ctx context.Context, input *struct{}) (*BuildOutput, error) {
		return &BuildOutput{Body: build.Current}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-layout",
		Method:      http.MethodGet,
		Path:        "/api/layout",
		Summary:     "Get the current layout",
	}, func(ctx context.Context, input *struct{}) (*LayoutOutput, error) {
		return &LayoutOutput{Body: s.cache.Layout()}, nil
	})

	sse.Register(api, huma.Operation{
		OperationID: "get-events",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Stream layout changes",
	}, map[string]any{
		"message": Layout{},
	}, func(ctx context.Context, input *struct{}, send sse.Sender) {
		if err := s.Stream(ctx, send.Data); err != nil {
			slog.Debug("Event stream ended", "package", "api", "error", err)
		}
	})
}

// Stream sends the current layout and then every new one until ctx is done
// or send fails.
func (s Server) Stream(ctx context.Context, send func(any) error) error {
	snapshotC, unsubscribe := s.hub.Subscribe(8)
	defer unsubscribe()

	if err := send(s.cache.Layout()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot := <-snapshotC:
			if err := send(NewLayout(snapshot)); err != nil {
				return err
			}
		}
	}
}

func NewHandler(server Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(chiext.Logger())
	r.Use(middleware.Recoverer)

	api := humachi.New(r, huma.DefaultConfig("x-tiler", build.Current.Version))
	server.Register(api)

	return r
}

// Service serves handler on address until the context is done.
type Service struct {
	Address string
	Handler http.Handler
}

func (s Service) String() string {
	return "api.Service(address=" + s.Address + ")"
}

func (s Service) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Address,
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errC := make(chan error, 1)
	go func() { errC <- srv.ListenAndServe() }()

	slog.Info("Serving API", "package", "api", "address", s.Address)

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errC; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
