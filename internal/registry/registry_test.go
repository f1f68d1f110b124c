package registry

import (
	"errors"
	"testing"

	"github.com/ItsNotGoodName/x-tiler/internal/geom"
)

func surfaces(r *Registry) []SurfaceID {
	var ids []SurfaceID
	for _, w := range r.All() {
		ids = append(ids, w.Surface)
	}
	return ids
}

func TestRegistry_AddKeepsInsertionOrder(t *testing.T) {
	r := New()
	for i, surface := range []SurfaceID{30, 10, 20} {
		idx, w, err := r.Add(surface)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if idx != i {
			t.Fatalf("expected index %d, got %d", i, idx)
		}
		if w.ID == "" {
			t.Fatalf("expected window id")
		}
	}

	got := surfaces(r)
	want := []SurfaceID{30, 10, 20}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestRegistry_AddDuplicate(t *testing.T) {
	r := New()
	if _, _, err := r.Add(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	effects := 0
	r.AddEffect(func() { effects++ })

	_, _, err := r.Add(1)
	if !errors.Is(err, ErrDuplicateSurface) {
		t.Fatalf("expected ErrDuplicateSurface, got %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 window, got %d", r.Len())
	}
	if effects != 0 {
		t.Fatalf("rejected add must not run effects")
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := New()
	r.Add(1)
	r.Add(2)
	r.Add(3)

	effects := 0
	r.AddEffect(func() { effects++ })

	w, ok := r.Remove(1)
	if !ok || w.Surface != 1 {
		t.Fatalf("expected surface 1 to be removed, got %v %v", w, ok)
	}
	if got := surfaces(r); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("unexpected windows after remove: %v", got)
	}
	if effects != 1 {
		t.Fatalf("expected 1 effect, got %d", effects)
	}

	if _, ok := r.Remove(42); ok {
		t.Fatalf("removing an unknown surface must report false")
	}
	if effects != 1 {
		t.Fatalf("removing an unknown surface must not run effects")
	}
}

func TestRegistry_AllIsLiveAndRestartable(t *testing.T) {
	r := New()
	r.Add(1)
	seq := r.All()

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}

	if n := count(); n != 1 {
		t.Fatalf("expected 1, got %d", n)
	}
	r.Add(2)
	if n := count(); n != 2 {
		t.Fatalf("expected sequence to see the new window, got %d", n)
	}

	for i := range seq {
		if i > 0 {
			t.Fatalf("break must stop the iteration")
		}
		break
	}
}

func TestRegistry_Output(t *testing.T) {
	r := New()
	if _, ok := r.Output(); ok {
		t.Fatalf("new registry must not have an output")
	}

	effects := 0
	r.AddEffect(func() { effects++ })

	r.SetOutput(geom.Rect{W: 800, H: 600})
	output, ok := r.Output()
	if !ok || output != (geom.Rect{W: 800, H: 600}) {
		t.Fatalf("unexpected output %v %v", output, ok)
	}
	if effects != 1 {
		t.Fatalf("expected 1 effect, got %d", effects)
	}
}
