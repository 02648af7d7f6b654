// Package pose turns raw skeleton lines into mirrored landmark positions and
// head parameters, and hands pose results from the detection goroutine to the
// game loop.
package pose

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/posejump/internal/detector"
)

// Points holds the mirrored normalized position of every landmark present in
// one frame. Absent landmarks are reported as absent, never as zero.
type Points struct {
	pos     [detector.NumLandmarks]r2.Vec
	present uint64
}

// Mirror flips a normalized webcam x coordinate so the player's left is on
// the left of the screen.
func Mirror(p r2.Vec) r2.Vec {
	return r2.Vec{X: 1 - p.X, Y: p.Y}
}

// FromLines builds the Points of a frame. Both endpoints of every line are
// mirrored; the first line to mention an id decides its position.
func FromLines(lines []detector.PoseLine) Points {
	var pts Points
	for _, l := range lines {
		pts.add(l.Start)
		pts.add(l.End)
	}
	return pts
}

func (p *Points) add(lm detector.Landmark) {
	if !detector.ValidID(lm.ID) || p.Has(lm.ID) {
		return
	}
	p.pos[lm.ID] = Mirror(r2.Vec{X: lm.X, Y: lm.Y})
	p.present |= 1 << uint(lm.ID)
}

// Set stores a mirrored position directly. Used by tests and replay.
func (p *Points) Set(id int, v r2.Vec) {
	if !detector.ValidID(id) {
		return
	}
	p.pos[id] = v
	p.present |= 1 << uint(id)
}

// Delete forgets a landmark.
func (p *Points) Delete(id int) {
	if !detector.ValidID(id) {
		return
	}
	p.pos[id] = r2.Vec{}
	p.present &^= 1 << uint(id)
}

// Has reports whether the landmark is present.
func (p Points) Has(id int) bool {
	return detector.ValidID(id) && p.present&(1<<uint(id)) != 0
}

// HasAll reports whether every listed landmark is present.
func (p Points) HasAll(ids ...int) bool {
	for _, id := range ids {
		if !p.Has(id) {
			return false
		}
	}
	return true
}

// Get returns the mirrored position of a landmark.
func (p Points) Get(id int) (r2.Vec, bool) {
	if !p.Has(id) {
		return r2.Vec{}, false
	}
	return p.pos[id], true
}

// Len returns the number of landmarks present.
func (p Points) Len() int {
	n := 0
	for m := p.present; m != 0; m &= m - 1 {
		n++
	}
	return n
}

// Distance returns the distance between two landmarks, if both are present.
func (p Points) Distance(a, b int) (float64, bool) {
	pa, ok := p.Get(a)
	if !ok {
		return 0, false
	}
	pb, ok := p.Get(b)
	if !ok {
		return 0, false
	}
	return r2.Norm(r2.Sub(pa, pb)), true
}

// HeadHeightFactor scales the eye-to-mouth distance up to a head height.
// It is a visual correction, not an anatomical ratio.
const HeadHeightFactor = 3

// Head describes the head ellipse derived from the face landmarks. Each field
// carries its own presence flag.
type Head struct {
	Center    r2.Vec
	Width     float64
	Height    float64
	HasCenter bool
	HasWidth  bool
	HasHeight bool
}

// Complete reports whether centre, width and height are all known.
func (h Head) Complete() bool {
	return h.HasCenter && h.HasWidth && h.HasHeight
}

// HeadOf derives the head ellipse: centre and width from the two ears,
// height from the right inner eye and right mouth corner.
func HeadOf(p Points) Head {
	var h Head

	if right, ok := p.Get(detector.RightEar); ok {
		if left, ok := p.Get(detector.LeftEar); ok {
			h.Center = r2.Scale(0.5, r2.Add(right, left))
			h.Width = r2.Norm(r2.Sub(right, left))
			h.HasCenter = true
			h.HasWidth = true
		}
	}

	if d, ok := p.Distance(detector.RightEyeInner, detector.MouthRight); ok {
		h.Height = HeadHeightFactor * d
		h.HasHeight = true
	}

	return h
}
