// Package xserver drives the compositor from an X11 display. It becomes the
// window manager of the default screen and implements xwm.Protocol with core
// X requests.
package xserver

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ItsNotGoodName/x-tiler/internal/geom"
	"github.com/ItsNotGoodName/x-tiler/internal/registry"
	"github.com/ItsNotGoodName/x-tiler/internal/xwm"
	"github.com/ItsNotGoodName/x-tiler/xcursor"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

var ErrOtherWindowManager = errors.New("another window manager is running")

const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskStructureNotify

type Server struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	randr  bool

	// tracker is only used by the Forward goroutine.
	tracker *tracker

	mu    sync.Mutex
	acked map[registry.SurfaceID]struct{}
}

var _ xwm.Protocol = (*Server)(nil)

// New redirects the root window of the default screen to conn.
func New(conn *xgb.Conn) (*Server, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)

	cursor, err := xcursor.Create(conn, xcursor.LeftPtr)
	if err != nil {
		return nil, err
	}

	err = xproto.ChangeWindowAttributesChecked(conn, screen.Root,
		xproto.CwEventMask|xproto.CwCursor,
		[]uint32{rootEventMask, uint32(cursor)}).Check()
	if err != nil {
		var accessErr xproto.AccessError
		if errors.As(err, &accessErr) {
			return nil, ErrOtherWindowManager
		}
		return nil, err
	}

	s := &Server{
		conn:    conn,
		screen:  screen,
		tracker: newTracker(screen.Root),
		acked:   make(map[registry.SurfaceID]struct{}),
	}

	if err := randr.Init(conn); err != nil {
		slog.Warn("RandR is not available, using screen size as output", "package", "xserver", "error", err)
	} else if err := randr.SelectInputChecked(conn, screen.Root, randr.NotifyMaskScreenChange).Check(); err != nil {
		slog.Warn("Failed to select RandR events", "package", "xserver", "error", err)
	} else {
		s.randr = true
	}

	return s, nil
}

// Output returns the geometry of the first active CRTC or the size of the
// screen when RandR cannot tell.
func (s *Server) Output() geom.Rect {
	fallback := geom.Rect{W: int(s.screen.WidthInPixels), H: int(s.screen.HeightInPixels)}
	if !s.randr {
		return fallback
	}

	res, err := randr.GetScreenResourcesCurrent(s.conn, s.screen.Root).Reply()
	if err != nil {
		slog.Warn("Failed to get screen resources", "package", "xserver", "error", err)
		return fallback
	}

	for _, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(s.conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			slog.Debug("Failed to get CRTC info", "package", "xserver", "crtc", crtc, "error", err)
			continue
		}
		if info.Width == 0 || info.Height == 0 {
			continue
		}

		return geom.Rect{X: int(info.X), Y: int(info.Y), W: int(info.Width), H: int(info.Height)}
	}

	return fallback
}

// SendConfigure resizes the window. X has no zero sized windows, so an empty
// size leaves the size the client asked for.
func (s *Server) SendConfigure(w *registry.Window, size geom.Size) {
	if size.Empty() {
		return
	}

	err := xproto.ConfigureWindowChecked(s.conn, xproto.Window(w.Surface),
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(size.W), uint32(size.H)}).Check()
	if err != nil {
		slog.Debug("Failed to configure window", "package", "xserver", "window", w, "size", size, "error", err)
	}
}

func (s *Server) MapWindow(w *registry.Window, position geom.Point, activate bool) {
	wid := xproto.Window(w.Surface)

	err := xproto.ConfigureWindowChecked(s.conn, wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(position.X)), uint32(int32(position.Y))}).Check()
	if err != nil {
		slog.Debug("Failed to move window", "package", "xserver", "window", w, "position", position, "error", err)
		return
	}

	if err := xproto.MapWindowChecked(s.conn, wid).Check(); err != nil {
		slog.Debug("Failed to map window", "package", "xserver", "window", w, "error", err)
		return
	}

	if activate {
		xproto.SetInputFocus(s.conn, xproto.InputFocusPointerRoot, wid, xproto.TimeCurrentTime)
	}
}

func (s *Server) InitialConfigureSent(surface registry.SurfaceID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.acked[surface]
	return ok
}

func (s *Server) MarkInitialConfigureSent(surface registry.SurfaceID) {
	s.mu.Lock()
	s.acked[surface] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) NotifyBufferCommitted(surface registry.SurfaceID) {
	slog.Debug("Buffer committed", "package", "xserver", "surface", surface)
}

// forget drops the handshake state of a window that X may reuse the id of.
func (s *Server) forget(surface registry.SurfaceID) {
	s.mu.Lock()
	delete(s.acked, surface)
	s.mu.Unlock()
}

// configureRequest lets unmanaged windows configure themselves. Managed
// windows are told their current geometry instead.
func (s *Server) configureRequest(ev xproto.ConfigureRequestEvent) error {
	if s.tracker.manages(ev.Window) {
		geo, err := xproto.GetGeometry(s.conn, xproto.Drawable(ev.Window)).Reply()
		if err != nil {
			return err
		}

		cne := xproto.ConfigureNotifyEvent{
			Event:       ev.Window,
			Window:      ev.Window,
			X:           geo.X,
			Y:           geo.Y,
			Width:       geo.Width,
			Height:      geo.Height,
			BorderWidth: geo.BorderWidth,
		}
		return xproto.SendEventChecked(s.conn, false, ev.Window,
			xproto.EventMaskStructureNotify, string(cne.Bytes())).Check()
	}

	mask, values := uint16(0), []uint32(nil)
	if ev.ValueMask&xproto.ConfigWindowX != 0 {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(int32(ev.X)))
	}
	if ev.ValueMask&xproto.ConfigWindowY != 0 {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(int32(ev.Y)))
	}
	if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
		mask |= xproto.ConfigWindowWidth
		values = append(values, uint32(ev.Width))
	}
	if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
		mask |= xproto.ConfigWindowHeight
		values = append(values, uint32(ev.Height))
	}
	if ev.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
		mask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(ev.BorderWidth))
	}
	if ev.ValueMask&xproto.ConfigWindowSibling != 0 {
		mask |= xproto.ConfigWindowSibling
		values = append(values, uint32(ev.Sibling))
	}
	if ev.ValueMask&xproto.ConfigWindowStackMode != 0 {
		mask |= xproto.ConfigWindowStackMode
		values = append(values, uint32(ev.StackMode))
	}

	return xproto.ConfigureWindowChecked(s.conn, ev.Window, mask, values).Check()
}

// watch selects the events that count as commits on a managed window.
func (s *Server) watch(wid xproto.Window) error {
	err := xproto.ChangeWindowAttributesChecked(s.conn, wid,
		xproto.CwEventMask, []uint32{xproto.EventMaskExposure}).Check()
	if err != nil {
		return fmt.Errorf("watch window %d: %w", wid, err)
	}
	return nil
}
