package pose

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/posejump/internal/detector"
)

const epsilon = 1e-9

func lm(x, y float64, id int) detector.Landmark {
	return detector.Landmark{X: x, Y: y, ID: id}
}

func TestFromLines(t *testing.T) {
	t.Run("mirrors x", func(t *testing.T) {
		pts := FromLines([]detector.PoseLine{
			{Start: lm(0.2, 0.3, 11), End: lm(0.4, 0.5, 13)},
		})

		p, ok := pts.Get(11)
		if !ok {
			t.Fatal("landmark 11 should be present")
		}
		if math.Abs(p.X-0.8) > epsilon || math.Abs(p.Y-0.3) > epsilon {
			t.Errorf("landmark 11 = %v, want (0.8, 0.3)", p)
		}
	})

	t.Run("first writer wins", func(t *testing.T) {
		pts := FromLines([]detector.PoseLine{
			{Start: lm(0.1, 0.1, 11), End: lm(0.2, 0.2, 13)},
			{Start: lm(0.9, 0.9, 13), End: lm(0.3, 0.3, 15)},
		})

		p, _ := pts.Get(13)
		if math.Abs(p.X-0.8) > epsilon || math.Abs(p.Y-0.2) > epsilon {
			t.Errorf("landmark 13 = %v, want first occurrence (0.8, 0.2)", p)
		}
		if pts.Len() != 3 {
			t.Errorf("Len() = %d, want 3", pts.Len())
		}
	})

	t.Run("empty pose", func(t *testing.T) {
		pts := FromLines(nil)

		if pts.Len() != 0 {
			t.Errorf("Len() = %d, want 0", pts.Len())
		}
		if _, ok := pts.Get(0); ok {
			t.Error("Get(0) should report absent for an empty pose")
		}
	})

	t.Run("out of schema ids are ignored", func(t *testing.T) {
		pts := FromLines([]detector.PoseLine{
			{Start: lm(0.1, 0.1, -1), End: lm(0.2, 0.2, 33)},
		})

		if pts.Len() != 0 {
			t.Errorf("Len() = %d, want 0", pts.Len())
		}
		if pts.Has(33) || pts.Has(-1) {
			t.Error("ids outside 0-32 must never be present")
		}
	})
}

func TestPoints_SetDelete(t *testing.T) {
	var pts Points
	pts.Set(4, r2.Vec{X: 0.5, Y: 0.5})

	if !pts.HasAll(4) {
		t.Fatal("landmark 4 should be present after Set")
	}

	pts.Delete(4)
	if pts.Has(4) {
		t.Error("landmark 4 should be absent after Delete")
	}
}

func TestHeadOf(t *testing.T) {
	t.Run("complete head", func(t *testing.T) {
		var pts Points
		pts.Set(detector.RightEar, r2.Vec{X: 0.4, Y: 0.2})
		pts.Set(detector.LeftEar, r2.Vec{X: 0.6, Y: 0.2})
		pts.Set(detector.RightEyeInner, r2.Vec{X: 0.5, Y: 0.18})
		pts.Set(detector.MouthRight, r2.Vec{X: 0.5, Y: 0.23})

		h := HeadOf(pts)

		if !h.Complete() {
			t.Fatalf("head should be complete: %+v", h)
		}
		if math.Abs(h.Center.X-0.5) > epsilon || math.Abs(h.Center.Y-0.2) > epsilon {
			t.Errorf("center = %v, want (0.5, 0.2)", h.Center)
		}
		if math.Abs(h.Width-0.2) > epsilon {
			t.Errorf("width = %f, want 0.2", h.Width)
		}
		if math.Abs(h.Height-0.15) > epsilon {
			t.Errorf("height = %f, want 3 x 0.05", h.Height)
		}
	})

	t.Run("missing ear", func(t *testing.T) {
		var pts Points
		pts.Set(detector.RightEar, r2.Vec{X: 0.4, Y: 0.2})
		pts.Set(detector.RightEyeInner, r2.Vec{X: 0.5, Y: 0.18})
		pts.Set(detector.MouthRight, r2.Vec{X: 0.5, Y: 0.23})

		h := HeadOf(pts)

		if h.HasCenter || h.HasWidth {
			t.Error("center and width need both ears")
		}
		if !h.HasHeight {
			t.Error("height should still be present")
		}
		if h.Complete() {
			t.Error("head should not be complete")
		}
	})

	t.Run("from detector preset", func(t *testing.T) {
		standing := detector.StandingLandmarks()
		h := HeadOf(FromLines(standing.Lines(0.5)))

		if !h.Complete() {
			t.Fatalf("standing preset should produce a complete head: %+v", h)
		}
		// Mirrored midpoint of ears at x 0.45 and 0.55.
		if math.Abs(h.Center.X-0.5) > epsilon {
			t.Errorf("center x = %f, want 0.5", h.Center.X)
		}
	})
}
