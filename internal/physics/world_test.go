package physics

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/posejump/internal/geom"
)

func TestWorld_AddRemove(t *testing.T) {
	w := New(DefaultConfig())

	ball := w.AddBall(r2.Vec{X: 100, Y: 100}, 5)
	line := w.AddSegment(KindLine, geom.Line{A: r2.Vec{X: 0, Y: 200}, B: r2.Vec{X: 300, Y: 200}})
	head := w.AddEllipse(geom.Ellipse{Center: r2.Vec{X: 50, Y: 50}, Width: 20, Height: 30})
	flag := w.AddFlag(r2.Vec{X: 250, Y: 190}, 40)

	if w.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", w.Len())
	}

	kinds := map[Handle]Kind{ball: KindBall, line: KindLine, head: KindHead, flag: KindFlag}
	for h, want := range kinds {
		if got := w.Kind(h); got != want {
			t.Errorf("Kind() = %v, want %v", got, want)
		}
	}

	seg, ok := w.Segment(flag)
	if !ok {
		t.Fatal("flag should expose its segment")
	}
	if seg.A.Y != 190 || seg.B.Y != 150 || seg.A.X != seg.B.X {
		t.Errorf("flag segment = %+v, want vertical from y 190 to 150", seg)
	}

	if e, ok := w.Ellipse(head); !ok || e.Width != 20 || e.Height != 30 {
		t.Errorf("Ellipse() = %+v, %v", e, ok)
	}
	if _, ok := w.Ellipse(ball); ok {
		t.Error("a ball is not an ellipse")
	}
	if r, ok := w.Radius(ball); !ok || r != 5 {
		t.Errorf("Radius() = %v, %v", r, ok)
	}

	if !w.Remove(line) {
		t.Error("first Remove should succeed")
	}
	if w.Remove(line) {
		t.Error("second Remove of the same handle should be a no-op")
	}
	if w.Len() != 3 {
		t.Errorf("Len() = %d, want 3", w.Len())
	}
	if w.Count(KindLine) != 0 || w.Count(KindBall) != 1 {
		t.Error("Count() does not match live bodies")
	}
}

func TestWorld_StaleHandle(t *testing.T) {
	w := New(DefaultConfig())

	old := w.AddSegment(KindLimb, geom.Line{B: r2.Vec{X: 10, Y: 10}})
	w.Remove(old)

	// The freed slot is reused by the next body.
	fresh := w.AddSegment(KindLimb, geom.Line{B: r2.Vec{X: 20, Y: 20}})

	if w.Alive(old) {
		t.Error("stale handle should not be alive")
	}
	if w.Remove(old) {
		t.Error("removing a stale handle must not remove the reused slot")
	}
	if !w.Alive(fresh) {
		t.Error("new body should survive removal of the stale handle")
	}
	if _, ok := w.Segment(old); ok {
		t.Error("stale handle should not resolve")
	}

	var zero Handle
	if !zero.IsZero() || w.Remove(zero) || w.Alive(zero) {
		t.Error("zero handle refers to nothing")
	}
}

func TestWorld_BallFalls(t *testing.T) {
	w := New(DefaultConfig())
	ball := w.AddBall(r2.Vec{X: 100, Y: 100}, 5)

	for i := 0; i < 30; i++ {
		w.Step(1.0 / 60)
	}

	pos, ok := w.Position(ball)
	if !ok {
		t.Fatal("ball should still exist")
	}
	if pos.Y <= 100 {
		t.Errorf("ball y = %f, gravity should have pulled it down", pos.Y)
	}
}

func TestWorld_Touching(t *testing.T) {
	w := New(DefaultConfig())

	flag := w.AddFlag(r2.Vec{X: 100, Y: 100}, 40)
	near := w.AddBall(r2.Vec{X: 103, Y: 80}, 5)
	far := w.AddBall(r2.Vec{X: 300, Y: 80}, 5)

	if !w.Touching(near, flag) {
		t.Error("ball overlapping the pole should touch")
	}
	if w.Touching(far, flag) {
		t.Error("distant ball should not touch")
	}

	w.Remove(flag)
	if w.Touching(near, flag) {
		t.Error("removed flag never touches")
	}
}

func TestKind_String(t *testing.T) {
	if KindHead.String() != "head" || KindNone.String() != "none" {
		t.Error("unexpected kind names")
	}
}
