// Package body tracks the short-lived limb and head bodies built from each
// pose frame.
package body

import (
	"github.com/ayusman/posejump/internal/detector"
	"github.com/ayusman/posejump/internal/grid"
	"github.com/ayusman/posejump/internal/physics"
)

// DefaultTTL is the lifetime given to new limbs and heads. A body lives
// through TTL+1 updates: it is removed once its TTL has reached zero.
const DefaultTTL = 1

// Entity is one limb or head body and its remaining lifetime.
type Entity struct {
	Handle     physics.Handle
	TTL        int
	Grid       int
	Connection detector.Connection
}

// Manager owns the limb and head collections. It is driven from the game
// loop and is not safe for concurrent use.
type Manager struct {
	ttlMax int
	limbs  []Entity
	heads  []Entity
}

// NewManager creates a Manager whose bodies start with ttlMax. Values below
// 1 are raised to 1.
func NewManager(ttlMax int) *Manager {
	if ttlMax < 1 {
		ttlMax = 1
	}
	return &Manager{ttlMax: ttlMax}
}

// TTLMax returns the lifetime given to new bodies.
func (m *Manager) TTLMax() int { return m.ttlMax }

// Update removes the bodies whose TTL already reached zero and ages the rest,
// then adds one body per request. Aged bodies stay in the world and keep
// colliding until they are removed.
func (m *Manager) Update(w *physics.World, req grid.Requests) {
	m.limbs = expire(w, m.limbs)
	m.heads = expire(w, m.heads)

	for _, r := range req.Limbs {
		m.limbs = append(m.limbs, Entity{
			Handle:     w.AddSegment(physics.KindLimb, r.Line),
			TTL:        m.ttlMax,
			Grid:       r.Grid,
			Connection: r.Connection,
		})
	}
	for _, r := range req.Heads {
		m.heads = append(m.heads, Entity{
			Handle: w.AddEllipse(r.Ellipse),
			TTL:    m.ttlMax,
			Grid:   r.Grid,
		})
	}
}

func expire(w *physics.World, entities []Entity) []Entity {
	kept := entities[:0]
	for _, e := range entities {
		if e.TTL <= 0 {
			w.Remove(e.Handle)
			continue
		}
		e.TTL--
		kept = append(kept, e)
	}
	clear(entities[len(kept):])
	return kept
}

// Limbs returns every live limb.
func (m *Manager) Limbs() []Entity { return m.limbs }

// Heads returns every live head.
func (m *Manager) Heads() []Entity { return m.heads }

// FreshLimbs returns the limbs created by the latest update.
func (m *Manager) FreshLimbs() []Entity { return m.fresh(m.limbs) }

// FreshHeads returns the heads created by the latest update.
func (m *Manager) FreshHeads() []Entity { return m.fresh(m.heads) }

func (m *Manager) fresh(entities []Entity) []Entity {
	var out []Entity
	for _, e := range entities {
		if e.TTL == m.ttlMax {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of live limbs and heads.
func (m *Manager) Len() int { return len(m.limbs) + len(m.heads) }

// Clear removes every body.
func (m *Manager) Clear(w *physics.World) {
	for _, e := range m.limbs {
		w.Remove(e.Handle)
	}
	for _, e := range m.heads {
		w.Remove(e.Handle)
	}
	m.limbs = nil
	m.heads = nil
}
