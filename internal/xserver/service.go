package xserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/ItsNotGoodName/x-tiler/internal/tiler"
	"github.com/ItsNotGoodName/x-tiler/internal/xwm"
	"github.com/ItsNotGoodName/x-tiler/mosaic"
	"github.com/jezek/xgb"
	"github.com/thejerf/suture/v4"
)

// Service runs a compositor on an X display. Each run opens a new
// connection and starts with an empty registry.
type Service struct {
	// Display is passed to xgb, an empty string means $DISPLAY.
	Display string
	// Mosaic is called on every run so config changes apply on restart.
	Mosaic  func() (mosaic.Mosaic, error)
	Observe func(tiler.Snapshot)
}

func (s Service) String() string {
	return fmt.Sprintf("xserver.Service(display=%q)", s.Display)
}

func (s Service) Serve(ctx context.Context) error {
	m, err := s.Mosaic()
	if err != nil {
		return errors.Join(err, suture.ErrTerminateSupervisorTree)
	}

	conn, err := xgb.NewConnDisplay(s.Display)
	if err != nil {
		return err
	}
	defer conn.Close()

	server, err := New(conn)
	if err != nil {
		if errors.Is(err, ErrOtherWindowManager) {
			return errors.Join(err, suture.ErrTerminateSupervisorTree)
		}
		return err
	}

	compositor := xwm.NewCompositor(server, m)
	if s.Observe != nil {
		compositor.Observe(s.Observe)
	}

	msgC := make(chan xwm.Msg)
	go server.Forward(ctx, msgC)

	if err := xwm.HandleEvents(ctx, compositor, msgC); err != nil {
		return err
	}

	return errors.New("connection closed")
}
