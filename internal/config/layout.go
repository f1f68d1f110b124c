package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ItsNotGoodName/x-tiler/internal/core"
	"github.com/ItsNotGoodName/x-tiler/mosaic"
)

func (c Config) GapOrDefault() int {
	return core.Optional(c.Gap, mosaic.DefaultGap)
}

func (c Config) ClampOrDefault() bool {
	return core.Optional(c.Clamp, true)
}

// Mosaic builds the layout described by the config.
func (c Config) Mosaic() (mosaic.Mosaic, error) {
	layout, err := c.parseLayout()
	if err != nil {
		return mosaic.Mosaic{}, err
	}

	return mosaic.New(layout, c.ClampOrDefault()), nil
}

func (c Config) parseLayout() (mosaic.Layout, error) {
	gap := c.GapOrDefault()
	if gap < 0 {
		return nil, fmt.Errorf("gap=%d: must not be negative", gap)
	}

	var remainder mosaic.Remainder
	switch c.Remainder {
	case "", RemainderLast:
		remainder = mosaic.RemainderLast
	case RemainderDrop:
		remainder = mosaic.RemainderDrop
	default:
		return nil, fmt.Errorf("remainder=%s: not supported", c.Remainder)
	}

	switch c.Layout {
	case "", LayoutTile:
		return mosaic.NewLayoutTile(gap, remainder), nil
	case LayoutGrid:
		return mosaic.NewLayoutGrid(gap), nil
	case LayoutManual:
		windows := make([]mosaic.LayoutManualWindow, 0, len(c.Manual))
		for i, lm := range c.Manual {
			lmw, err := parseLayoutManualWindow(lm)
			if err != nil {
				return nil, fmt.Errorf("manual[%d].%w", i, err)
			}
			windows = append(windows, lmw)
		}

		layout := mosaic.NewLayoutManual(gap, windows)
		if err := layout.Validate(); err != nil {
			return nil, fmt.Errorf("manual: %w", err)
		}

		return layout, nil
	default:
		return nil, fmt.Errorf("layout=%s: not supported", c.Layout)
	}
}

func calculateRatio(ratio string) (float32, error) {
	if num, err := strconv.ParseFloat(ratio, 32); err == nil {
		return float32(num), err
	}

	f := strings.Split(ratio, "/")
	if len(f) == 2 {
		num, err := strconv.ParseFloat(strings.TrimSpace(f[0]), 32)
		if err != nil {
			return 0, err
		}

		den, err := strconv.ParseFloat(strings.TrimSpace(f[1]), 32)
		if err != nil {
			return 0, err
		}
		if den == 0 {
			return 0, fmt.Errorf("%s: division by zero", ratio)
		}

		return float32(num) / float32(den), nil
	}

	return 0, fmt.Errorf("%s: invalid float", ratio)
}

func parseLayoutManualWindow(lm LayoutManual) (mosaic.LayoutManualWindow, error) {
	x, err := calculateRatio(lm.X)
	if err != nil {
		return mosaic.LayoutManualWindow{}, fmt.Errorf("x=%w", err)
	}

	y, err := calculateRatio(lm.Y)
	if err != nil {
		return mosaic.LayoutManualWindow{}, fmt.Errorf("y=%w", err)
	}

	w, err := calculateRatio(lm.W)
	if err != nil {
		return mosaic.LayoutManualWindow{}, fmt.Errorf("w=%w", err)
	}

	h, err := calculateRatio(lm.H)
	if err != nil {
		return mosaic.LayoutManualWindow{}, fmt.Errorf("h=%w", err)
	}

	return mosaic.LayoutManualWindow{
		X: x,
		Y: y,
		W: w,
		H: h,
	}, nil
}
