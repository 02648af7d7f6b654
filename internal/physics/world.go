// Package physics owns the Chipmunk space and every body in it. Bodies are
// addressed by generation-checked handles so a handle that outlived its
// body can never reach a newer one.
package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/posejump/internal/geom"
)

// Kind tags what a body represents in the game.
type Kind int

const (
	KindNone Kind = iota
	KindBall
	KindLine
	KindLimb
	KindHead
	KindFlag
)

func (k Kind) String() string {
	switch k {
	case KindBall:
		return "ball"
	case KindLine:
		return "line"
	case KindLimb:
		return "limb"
	case KindHead:
		return "head"
	case KindFlag:
		return "flag"
	default:
		return "none"
	}
}

// Handle refers to one body in a World. The zero Handle refers to nothing.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h was never assigned.
func (h Handle) IsZero() bool { return h.gen == 0 }

// Config holds the simulation constants.
type Config struct {
	Gravity        r2.Vec
	BallMass       float64
	BallElasticity float64
	BallFriction   float64
	LineRadius     float64
	EllipseSides   int
}

// DefaultConfig returns the constants the game is tuned for.
func DefaultConfig() Config {
	return Config{
		Gravity:        r2.Vec{X: 0, Y: 900},
		BallMass:       1,
		BallElasticity: 1,
		BallFriction:   1,
		LineRadius:     1,
		EllipseSides:   50,
	}
}

type entity struct {
	gen     uint32
	alive   bool
	kind    Kind
	body    *cp.Body
	shape   *cp.Shape
	line    geom.Line
	ellipse geom.Ellipse
	radius  float64
}

// World is a physics space plus the bodies added through it. It is not
// safe for concurrent use; the game loop owns it.
type World struct {
	config Config
	space  *cp.Space
	slots  []entity
	free   []uint32
	live   int
}

// New creates an empty World.
func New(config Config) *World {
	if config.EllipseSides < 3 {
		config.EllipseSides = DefaultConfig().EllipseSides
	}
	space := cp.NewSpace()
	space.SetGravity(vec(config.Gravity))
	return &World{config: config, space: space}
}

func vec(v r2.Vec) cp.Vector { return cp.Vector{X: v.X, Y: v.Y} }

func fromVec(v cp.Vector) r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

func (w *World) insert(e entity) Handle {
	w.space.AddBody(e.body)
	w.space.AddShape(e.shape)
	w.live++

	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
		e.gen = w.slots[idx].gen + 1
		w.slots[idx] = e
	} else {
		idx = uint32(len(w.slots))
		e.gen = 1
		w.slots = append(w.slots, e)
	}
	w.slots[idx].alive = true
	return Handle{index: idx, gen: w.slots[idx].gen}
}

func (w *World) lookup(h Handle) (*entity, bool) {
	if h.IsZero() || int(h.index) >= len(w.slots) {
		return nil, false
	}
	e := &w.slots[h.index]
	if !e.alive || e.gen != h.gen {
		return nil, false
	}
	return e, true
}

// AddBall adds a dynamic circle centred at pos (pixels).
func (w *World) AddBall(pos r2.Vec, radius float64) Handle {
	moment := cp.MomentForCircle(w.config.BallMass, 0, radius, cp.Vector{})
	body := cp.NewBody(w.config.BallMass, moment)
	body.SetPosition(vec(pos))

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetElasticity(w.config.BallElasticity)
	shape.SetFriction(w.config.BallFriction)

	return w.insert(entity{kind: KindBall, body: body, shape: shape, radius: radius})
}

// AddSegment adds a static segment in pixels. kind is KindLine for level
// geometry or KindLimb for player limbs.
func (w *World) AddSegment(kind Kind, l geom.Line) Handle {
	body := cp.NewStaticBody()
	shape := cp.NewSegment(body, vec(l.A), vec(l.B), w.config.LineRadius)
	shape.SetElasticity(0)
	shape.SetFriction(0)

	return w.insert(entity{kind: kind, body: body, shape: shape, line: l, radius: w.config.LineRadius})
}

// AddFlag adds the goal pole: a static segment from base straight up by
// height pixels.
func (w *World) AddFlag(base r2.Vec, height float64) Handle {
	l := geom.Line{A: base, B: r2.Vec{X: base.X, Y: base.Y - height}}
	return w.AddSegment(KindFlag, l)
}

// AddEllipse adds a static polygon approximating e (pixels).
func (w *World) AddEllipse(e geom.Ellipse) Handle {
	n := w.config.EllipseSides
	verts := make([]cp.Vector, n)
	for i := range verts {
		a := 2 * math.Pi * float64(i) / float64(n)
		verts[i] = cp.Vector{
			X: e.Center.X - 0.5*e.Width*math.Sin(a),
			Y: e.Center.Y + 0.5*e.Height*math.Cos(a),
		}
	}

	body := cp.NewStaticBody()
	shape := cp.NewPolyShape(body, n, verts, cp.NewTransformIdentity(), w.config.LineRadius)

	return w.insert(entity{kind: KindHead, body: body, shape: shape, ellipse: e})
}

// Remove deletes the body behind h. Removing a stale or zero handle is a
// no-op and returns false.
func (w *World) Remove(h Handle) bool {
	e, ok := w.lookup(h)
	if !ok {
		return false
	}

	w.space.RemoveShape(e.shape)
	w.space.RemoveBody(e.body)

	gen := e.gen
	*e = entity{gen: gen}
	w.free = append(w.free, h.index)
	w.live--
	return true
}

// Alive reports whether h still refers to a body.
func (w *World) Alive(h Handle) bool {
	_, ok := w.lookup(h)
	return ok
}

// Kind returns the kind of body behind h, or KindNone.
func (w *World) Kind(h Handle) Kind {
	if e, ok := w.lookup(h); ok {
		return e.kind
	}
	return KindNone
}

// Touching reports whether the shapes of a and b currently overlap.
func (w *World) Touching(a, b Handle) bool {
	ea, ok := w.lookup(a)
	if !ok {
		return false
	}
	eb, ok := w.lookup(b)
	if !ok {
		return false
	}
	return cp.ShapesCollide(ea.shape, eb.shape).Count > 0
}

// Position returns the current centre of a body in pixels.
func (w *World) Position(h Handle) (r2.Vec, bool) {
	e, ok := w.lookup(h)
	if !ok {
		return r2.Vec{}, false
	}
	if e.kind == KindHead {
		return e.ellipse.Center, true
	}
	return fromVec(e.body.Position()), true
}

// Radius returns the radius of a ball, or the stroke radius of a segment.
func (w *World) Radius(h Handle) (float64, bool) {
	e, ok := w.lookup(h)
	if !ok {
		return 0, false
	}
	return e.radius, true
}

// Segment returns the endpoints of a line, limb or flag.
func (w *World) Segment(h Handle) (geom.Line, bool) {
	e, ok := w.lookup(h)
	if !ok {
		return geom.Line{}, false
	}
	switch e.kind {
	case KindLine, KindLimb, KindFlag:
		return e.line, true
	}
	return geom.Line{}, false
}

// Ellipse returns the ellipse a head body approximates.
func (w *World) Ellipse(h Handle) (geom.Ellipse, bool) {
	e, ok := w.lookup(h)
	if !ok || e.kind != KindHead {
		return geom.Ellipse{}, false
	}
	return e.ellipse, true
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	w.space.Step(dt)
}

// Len returns the number of live bodies.
func (w *World) Len() int {
	return w.live
}

// Count returns the number of live bodies of one kind.
func (w *World) Count(kind Kind) int {
	n := 0
	for i := range w.slots {
		if w.slots[i].alive && w.slots[i].kind == kind {
			n++
		}
	}
	return n
}
