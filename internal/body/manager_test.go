package body

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/posejump/internal/detector"
	"github.com/ayusman/posejump/internal/geom"
	"github.com/ayusman/posejump/internal/grid"
	"github.com/ayusman/posejump/internal/physics"
)

func limbRequest() grid.Requests {
	return grid.Requests{
		Limbs: []grid.LimbRequest{{
			Line:       geom.Line{A: r2.Vec{X: 10, Y: 10}, B: r2.Vec{X: 50, Y: 20}},
			Connection: detector.Connection{11, 13},
		}},
		Heads: []grid.HeadRequest{{
			Ellipse: geom.Ellipse{Center: r2.Vec{X: 100, Y: 100}, Width: 30, Height: 40},
		}},
	}
}

func TestNewManager_MinimumTTL(t *testing.T) {
	if m := NewManager(0); m.TTLMax() != 1 {
		t.Errorf("TTLMax() = %d, want 1", m.TTLMax())
	}
	if m := NewManager(4); m.TTLMax() != 4 {
		t.Errorf("TTLMax() = %d, want 4", m.TTLMax())
	}
}

func TestManager_Expires(t *testing.T) {
	for _, ttl := range []int{1, 2, 5} {
		w := physics.New(physics.DefaultConfig())
		m := NewManager(ttl)

		m.Update(w, limbRequest())
		limb := m.Limbs()[0].Handle
		head := m.Heads()[0].Handle

		for n := 1; n <= ttl+1; n++ {
			m.Update(w, grid.Requests{})

			alive := w.Alive(limb) && w.Alive(head)
			gone := !w.Alive(limb) && !w.Alive(head)
			if n <= ttl && !alive {
				t.Errorf("ttl %d: body removed early after %d updates", ttl, n)
			}
			if n > ttl && !gone {
				t.Errorf("ttl %d: body still alive after %d empty updates", ttl, n)
			}
			for _, e := range append(m.Limbs(), m.Heads()...) {
				if want := ttl - n; e.TTL != want {
					t.Errorf("ttl %d, update %d: TTL = %d, want %d", ttl, n, e.TTL, want)
				}
			}
		}

		if m.Len() != 0 || w.Len() != 0 {
			t.Errorf("ttl %d: %d entities and %d bodies left", ttl, m.Len(), w.Len())
		}
	}
}

func TestManager_ZeroTTLLingers(t *testing.T) {
	w := physics.New(physics.DefaultConfig())
	m := NewManager(1)

	m.Update(w, limbRequest())
	limb := m.Limbs()[0].Handle

	m.Update(w, grid.Requests{})
	if !w.Alive(limb) {
		t.Fatal("limb should stay in the world for one update at TTL 0")
	}
	if got := m.Limbs(); len(got) != 1 || got[0].TTL != 0 {
		t.Fatalf("Limbs() = %+v, want one limb with TTL 0", got)
	}
	if len(m.FreshLimbs()) != 0 {
		t.Error("a lingering limb is not fresh")
	}

	m.Update(w, grid.Requests{})
	if w.Alive(limb) {
		t.Error("limb should be removed on the update after reaching TTL 0")
	}
	if m.Len() != 0 || w.Len() != 0 {
		t.Errorf("%d entities and %d bodies left", m.Len(), w.Len())
	}
}

func TestManager_Bound(t *testing.T) {
	for _, ttl := range []int{1, 3} {
		w := physics.New(physics.DefaultConfig())
		m := NewManager(ttl)

		for i := 0; i < 20; i++ {
			m.Update(w, limbRequest())

			if n := len(m.Limbs()); n > ttl+1 {
				t.Fatalf("ttl %d, update %d: %d limbs for one connection", ttl, i, n)
			}
			if n := len(m.Heads()); n > ttl+1 {
				t.Fatalf("ttl %d, update %d: %d heads for one grid", ttl, i, n)
			}
		}

		if n := len(m.Limbs()); n != ttl+1 {
			t.Errorf("ttl %d: steady state holds %d limbs, want %d", ttl, n, ttl+1)
		}
		if len(m.FreshLimbs()) != 1 {
			t.Errorf("ttl %d: %d fresh limbs, want 1", ttl, len(m.FreshLimbs()))
		}
		if w.Len() != m.Len() {
			t.Errorf("world holds %d bodies, manager tracks %d", w.Len(), m.Len())
		}
	}
}

func TestManager_Fresh(t *testing.T) {
	w := physics.New(physics.DefaultConfig())
	m := NewManager(3)

	m.Update(w, limbRequest())
	m.Update(w, limbRequest())

	if len(m.Limbs()) != 2 {
		t.Fatalf("expected 2 limbs, got %d", len(m.Limbs()))
	}
	fresh := m.FreshLimbs()
	if len(fresh) != 1 || fresh[0].TTL != 3 {
		t.Errorf("FreshLimbs() = %+v", fresh)
	}
	if len(m.FreshHeads()) != 1 {
		t.Errorf("expected 1 fresh head, got %d", len(m.FreshHeads()))
	}

	m.Update(w, grid.Requests{})
	if len(m.FreshLimbs()) != 0 {
		t.Error("no limb is fresh after an empty update")
	}
}

func TestManager_Clear(t *testing.T) {
	w := physics.New(physics.DefaultConfig())
	m := NewManager(2)

	m.Update(w, limbRequest())
	m.Update(w, limbRequest())
	m.Clear(w)

	if m.Len() != 0 {
		t.Errorf("Len() = %d after Clear", m.Len())
	}
	if w.Len() != 0 {
		t.Errorf("world still holds %d bodies", w.Len())
	}

	// Clearing twice is harmless.
	m.Clear(w)
}
