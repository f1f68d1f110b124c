package mosaic

import (
	"testing"

	"github.com/ItsNotGoodName/x-tiler/internal/geom"
)

var halves = []LayoutManualWindow{
	{X: 0, Y: 0, W: 0.5, H: 1},
	{X: 0.5, Y: 0, W: 0.5, H: 0.5},
	{X: 0.5, Y: 0.5, W: 0.5, H: 0.5},
}

func TestLayoutManual_Arrange(t *testing.T) {
	got := NewLayoutManual(DefaultGap, halves).Arrange(output800x600, 3)
	want := []geom.Rect{
		{X: 6, Y: 6, W: 388, H: 588},
		{X: 400, Y: 6, W: 394, H: 288},
		{X: 400, Y: 300, W: 394, H: 294},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("window %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	assertTiled(t, output800x600, got, DefaultGap)
}

func TestLayoutManual_ArrangeFewerWindows(t *testing.T) {
	got := NewLayoutManual(DefaultGap, halves).Arrange(output800x600, 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 rect, got %d", len(got))
	}
}

func TestLayoutManual_ArrangeExcessWindows(t *testing.T) {
	layout := NewLayoutManual(DefaultGap, halves)
	for count := 4; count <= 12; count++ {
		got := layout.Arrange(output800x600, count)
		if len(got) != count {
			t.Fatalf("expected %d rects, got %d", count, len(got))
		}
		assertTiled(t, output800x600, got, DefaultGap)
	}
}

func TestLayoutManual_ArrangeWithoutSlots(t *testing.T) {
	got := NewLayoutManual(DefaultGap, nil).Arrange(output800x600, 2)
	want := NewLayoutTile(DefaultGap, RemainderLast).Arrange(output800x600, 2)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("window %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestLayoutManual_Validate(t *testing.T) {
	if err := NewLayoutManual(DefaultGap, halves).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	overlapping := []LayoutManualWindow{
		{X: 0, Y: 0, W: 0.6, H: 1},
		{X: 0.5, Y: 0, W: 0.5, H: 1},
	}
	if err := NewLayoutManual(DefaultGap, overlapping).Validate(); err == nil {
		t.Fatalf("expected error for overlapping slots")
	}

	outside := []LayoutManualWindow{{X: 0.5, Y: 0, W: 0.6, H: 1}}
	if err := NewLayoutManual(DefaultGap, outside).Validate(); err == nil {
		t.Fatalf("expected error for slot outside of output")
	}
}

func TestMosaic_WindowsClamp(t *testing.T) {
	tiny := geom.Rect{X: 0, Y: 0, W: 20, H: 20}

	m := New(NewLayoutTile(DefaultGap, RemainderLast), true)
	wins, degenerate := m.Windows(tiny, 5)
	if degenerate == 0 {
		t.Fatalf("expected degenerate windows on a %v output", tiny)
	}
	for i, w := range wins {
		if w.Empty() {
			t.Fatalf("window %d not clamped: %v", i, w)
		}
	}

	m = New(NewLayoutTile(DefaultGap, RemainderLast), false)
	wins, _ = m.Windows(tiny, 5)
	empty := 0
	for _, w := range wins {
		if w.Empty() {
			empty++
		}
	}
	if empty == 0 {
		t.Fatalf("expected unclamped degenerate windows")
	}
}
