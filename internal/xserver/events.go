package xserver

import (
	"context"
	"log/slog"

	"github.com/ItsNotGoodName/x-tiler/internal/registry"
	"github.com/ItsNotGoodName/x-tiler/internal/xwm"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

// ReceiveEvents sends events from conn to eventC until conn is closed.
// Request errors are logged and skipped.
func ReceiveEvents(ctx context.Context, conn *xgb.Conn, eventC chan<- xgb.Event) {
	defer close(eventC)
	slog := slog.With("func", "xserver.ReceiveEvents")

	for {
		ev, err := conn.WaitForEvent()
		if ev == nil && err == nil {
			slog.Debug("exit: connection closed")
			return
		}

		if err != nil {
			slog.Debug("Request failed", "error", err)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case eventC <- ev:
		}
	}
}

// Forward reports the output and the already mapped windows, then turns X
// events into compositor messages until the connection closes or ctx is done.
// msgC is closed on return.
func (s *Server) Forward(ctx context.Context, msgC chan<- xwm.Msg) {
	defer close(msgC)

	send := func(msgs ...xwm.Msg) bool {
		for _, msg := range msgs {
			select {
			case <-ctx.Done():
				return false
			case msgC <- msg:
			}
		}
		return true
	}

	if !send(xwm.OutputChanged{Output: s.Output()}) {
		return
	}

	msgs, err := s.adopt()
	if err != nil {
		slog.Error("Failed to adopt existing windows", "package", "xserver", "error", err)
	}
	if !send(msgs...) {
		return
	}

	eventC := make(chan xgb.Event)
	go ReceiveEvents(ctx, s.conn, eventC)

	for ev := range eventC {
		if !send(s.handle(ev)...) {
			return
		}
	}
}

func (s *Server) handle(ev xgb.Event) []xwm.Msg {
	switch ev := ev.(type) {
	case xproto.ConfigureRequestEvent:
		if err := s.configureRequest(ev); err != nil {
			slog.Debug("Failed to handle configure request", "package", "xserver", "window", ev.Window, "error", err)
		}
		return nil
	case xproto.ConfigureNotifyEvent:
		if ev.Window != s.screen.Root {
			return nil
		}
		return []xwm.Msg{xwm.OutputChanged{Output: s.Output()}}
	case randr.ScreenChangeNotifyEvent:
		return []xwm.Msg{xwm.OutputChanged{Output: s.Output()}}
	}

	msg := s.tracker.translate(ev)
	switch msg := msg.(type) {
	case nil:
		return nil
	case xwm.WindowCreated:
		if err := s.watch(xproto.Window(msg.Surface)); err != nil {
			slog.Warn("Commits will only be reported on map", "package", "xserver", "error", err)
		}
	case xwm.WindowDestroyed:
		s.forget(msg.Surface)
	}

	return []xwm.Msg{msg}
}

// adopt manages the windows that were mapped before the server started.
func (s *Server) adopt() ([]xwm.Msg, error) {
	tree, err := xproto.QueryTree(s.conn, s.screen.Root).Reply()
	if err != nil {
		return nil, err
	}

	var msgs []xwm.Msg
	for _, wid := range tree.Children {
		attrs, err := xproto.GetWindowAttributes(s.conn, wid).Reply()
		if err != nil {
			continue
		}
		if attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
			continue
		}

		s.tracker.manage(wid)
		if err := s.watch(wid); err != nil {
			slog.Warn("Commits will only be reported on map", "package", "xserver", "error", err)
		}

		surface := registry.SurfaceID(wid)
		msgs = append(msgs, xwm.WindowCreated{Surface: surface}, xwm.WindowCommitted{Surface: surface})
	}

	return msgs, nil
}

// tracker knows which top level windows are managed.
type tracker struct {
	root    xproto.Window
	managed map[xproto.Window]struct{}
}

func newTracker(root xproto.Window) *tracker {
	return &tracker{
		root:    root,
		managed: make(map[xproto.Window]struct{}),
	}
}

func (t *tracker) manage(wid xproto.Window) {
	t.managed[wid] = struct{}{}
}

func (t *tracker) manages(wid xproto.Window) bool {
	_, ok := t.managed[wid]
	return ok
}

func (t *tracker) unmanage(wid xproto.Window) bool {
	if !t.manages(wid) {
		return false
	}
	delete(t.managed, wid)
	return true
}

// translate returns the window message for ev or nil.
func (t *tracker) translate(ev xgb.Event) xwm.Msg {
	switch ev := ev.(type) {
	case xproto.MapRequestEvent:
		if ev.Parent != t.root || t.manages(ev.Window) {
			return nil
		}
		t.manage(ev.Window)
		return xwm.WindowCreated{Surface: registry.SurfaceID(ev.Window)}
	case xproto.MapNotifyEvent:
		if ev.OverrideRedirect || !t.manages(ev.Window) {
			return nil
		}
		return xwm.WindowCommitted{Surface: registry.SurfaceID(ev.Window)}
	case xproto.ExposeEvent:
		if ev.Count != 0 || !t.manages(ev.Window) {
			return nil
		}
		return xwm.WindowCommitted{Surface: registry.SurfaceID(ev.Window)}
	case xproto.UnmapNotifyEvent:
		if ev.Event != t.root || !t.unmanage(ev.Window) {
			return nil
		}
		return xwm.WindowDestroyed{Surface: registry.SurfaceID(ev.Window)}
	case xproto.DestroyNotifyEvent:
		if !t.unmanage(ev.Window) {
			return nil
		}
		return xwm.WindowDestroyed{Surface: registry.SurfaceID(ev.Window)}
	default:
		return nil
	}
}
