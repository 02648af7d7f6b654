package game

import (
	"errors"
	"image"
	"math/rand"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/posejump/internal/detector"
	"github.com/ayusman/posejump/internal/gesture"
	"github.com/ayusman/posejump/internal/level"
	"github.com/ayusman/posejump/internal/physics"
	"github.com/ayusman/posejump/internal/pose"
	"github.com/ayusman/posejump/internal/render"
	"github.com/ayusman/posejump/testdata"
)

var screen = image.Pt(1000, 500)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func testContext(t *testing.T) (Context, *fakeClock) {
	t.Helper()

	set, err := level.LoadFS(testdata.Levels(), "basic.yaml")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}

	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	ctx := NewContext(screen, set, &render.StubLoader{})
	ctx.Rand = rand.New(rand.NewSource(1))
	ctx.Now = clock.Now
	return ctx, clock
}

func newTestGame(t *testing.T) (*Game, *fakeClock) {
	t.Helper()

	ctx, clock := testContext(t)
	g, err := New(ctx)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return g, clock
}

func raisedArms() pose.Snapshot {
	lm := detector.ArmsRaisedLandmarks()
	return pose.Snapshot{Lines: lm.Lines(0.5)}
}

func TestNew_StartsOnTutorial(t *testing.T) {
	g, _ := newTestGame(t)

	if g.Index() != 0 || g.Level().Name != "level_0" {
		t.Fatalf("started on %q", g.Level().Name)
	}
	if len(g.Balls()) != 0 || !g.Flag().IsZero() {
		t.Error("tutorial has no ball and no flag")
	}
	if g.ctx.World.Len() != 0 {
		t.Errorf("world holds %d bodies on the tutorial", g.ctx.World.Len())
	}
}

func TestNew_Errors(t *testing.T) {
	t.Run("no levels", func(t *testing.T) {
		ctx, _ := testContext(t)
		ctx.Levels = level.NewSet()
		if _, err := New(ctx); !errors.Is(err, level.ErrNoLevels) {
			t.Errorf("error = %v, want ErrNoLevels", err)
		}
	})

	t.Run("missing background", func(t *testing.T) {
		ctx, _ := testContext(t)
		ctx.Loader = &render.StubLoader{Missing: map[string]bool{"tutorial.png": true}}

		_, err := New(ctx)
		var cfgErr *level.ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Field != "background_images" {
			t.Errorf("error = %v, want background_images config error", err)
		}
		if !errors.Is(err, render.ErrImageNotFound) {
			t.Errorf("error = %v should wrap ErrImageNotFound", err)
		}
	})

	t.Run("unknown gesture", func(t *testing.T) {
		ctx, _ := testContext(t)
		ctx.Levels.At(1).WinGesture = "cartwheel"

		_, err := New(ctx)
		var cfgErr *level.ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Level != "level_1" {
			t.Fatalf("error = %v, want level_1 config error", err)
		}
		if !strings.Contains(err.Error(), gesture.ArmsAboveHeadName) {
			t.Errorf("error %q should list the known gestures", err)
		}
	})

	t.Run("bad screen", func(t *testing.T) {
		ctx, _ := testContext(t)
		ctx.Screen = image.Point{}
		if _, err := New(ctx); err == nil {
			t.Error("expected error for empty screen")
		}
	})
}

func TestTick_TutorialGesture(t *testing.T) {
	g, clock := newTestGame(t)

	var changes []Change
	g.OnLevelChange = func(c Change) { changes = append(changes, c) }

	standing := detector.StandingLandmarks()
	if res := g.Tick(pose.Snapshot{Lines: standing.Lines(0.5)}, true); res.Changed {
		t.Fatal("standing pose should not leave the tutorial")
	}

	clock.now = clock.now.Add(3 * time.Second)
	res := g.Tick(raisedArms(), true)
	if !res.Changed || res.Change.Method != WinGesture {
		t.Fatalf("Tick() = %+v, want gesture win", res)
	}
	if res.Change.From != "level_0" || res.Change.To != "level_1" {
		t.Errorf("change = %+v", res.Change)
	}
	if res.Change.Duration != 3*time.Second {
		t.Errorf("Duration = %v, want 3s", res.Change.Duration)
	}
	if len(changes) != 1 {
		t.Errorf("OnLevelChange fired %d times", len(changes))
	}

	// The gesture only gates the tutorial.
	if res := g.Tick(raisedArms(), true); res.Changed {
		t.Errorf("level_1 should ignore the gesture, moved to %s", res.Change.To)
	}
	if g.Level().Name != "level_1" {
		t.Errorf("level = %s", g.Level().Name)
	}
}

func TestTick_FlagWinOncePerOverlap(t *testing.T) {
	g, _ := newTestGame(t)
	g.LoadLevel(1)

	// Straddle the pole: base at (800, 450), top at (800, 410).
	g.addBall(r2.Vec{X: 0.8, Y: 0.86})

	res := g.Tick(pose.Snapshot{}, false)
	if !res.Changed || res.Change.Method != WinFlag {
		t.Fatalf("Tick() = %+v, want flag win", res)
	}
	if g.Level().Name != "level_2" {
		t.Fatalf("level = %s, want level_2", g.Level().Name)
	}

	w := g.ctx.World
	if w.Count(physics.KindFlag) != 1 {
		t.Errorf("%d flags in the world", w.Count(physics.KindFlag))
	}
	if w.Count(physics.KindLine) != len(g.Level().LinePos) {
		t.Errorf("%d level lines in the world, want %d", w.Count(physics.KindLine), len(g.Level().LinePos))
	}
	if len(g.Balls()) != 1 || w.Count(physics.KindBall) != 1 {
		t.Errorf("expected only the new level's ball, got %d", len(g.Balls()))
	}

	for i := 0; i < 5; i++ {
		if res := g.Tick(pose.Snapshot{}, false); res.Changed {
			t.Fatalf("tick %d: stale overlap caused a second transition", i)
		}
	}
}

func TestUpdateBalls_Despawn(t *testing.T) {
	g, _ := newTestGame(t)
	g.LoadLevel(1)

	g.addBall(r2.Vec{X: 0.5, Y: 1.2})
	fallen := g.Balls()[len(g.Balls())-1]

	g.UpdateBalls()

	if g.ctx.World.Alive(fallen) {
		t.Error("fallen ball should be removed from the world")
	}
	for _, h := range g.Balls() {
		if h == fallen {
			t.Error("fallen ball should be removed from the list")
		}
	}
	if len(g.Balls()) != 1 {
		t.Errorf("expected the level ball to remain, got %d balls", len(g.Balls()))
	}
}

func TestUpdateBalls_Spawn(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		index int
		want  int
	}{
		{name: "spawner level", rate: 1, index: 2, want: 1 + 3},
		{name: "spawner level at zero rate", rate: 0, index: 2, want: 1},
		{name: "level without spawner", rate: 1, index: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := testContext(t)
			ctx.SpawnRate = tt.rate
			g, err := New(ctx)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			g.LoadLevel(tt.index)

			for i := 0; i < 3; i++ {
				g.UpdateBalls()
			}
			if len(g.Balls()) != tt.want {
				t.Errorf("balls = %d, want %d", len(g.Balls()), tt.want)
			}
		})
	}
}

func TestAdvance_Cycle(t *testing.T) {
	g, _ := newTestGame(t)

	want := []string{"level_1", "level_2", "level_1", "level_2", "level_1"}
	for i, name := range want {
		c := g.Advance(WinSkip)
		if c.To != name || g.Level().Name != name {
			t.Fatalf("step %d: moved to %s, want %s", i, c.To, name)
		}
		if c.Method != WinSkip {
			t.Errorf("method = %v", c.Method)
		}
	}
	if g.Status().Transitions != len(want) {
		t.Errorf("Transitions = %d", g.Status().Transitions)
	}
}

func TestTick_LimbsAndHeads(t *testing.T) {
	g, _ := newTestGame(t)
	g.LoadLevel(1)

	standing := detector.StandingLandmarks()
	snap := pose.Snapshot{Lines: standing.Lines(0.5)}

	res := g.Tick(snap, true)
	if res.Limbs == 0 {
		t.Error("arm lines inside the grid should become limbs")
	}
	if res.Heads != 1 {
		t.Errorf("Heads = %d, want 1", res.Heads)
	}

	status := g.Status()
	if !status.HasPose || status.Landmarks != detector.NumLandmarks {
		t.Errorf("status = %+v", status)
	}

	// Pose vanishes: bodies linger one update at TTL 0, then expire.
	g.Tick(pose.Snapshot{}, false)
	if n := g.Bodies().Len(); n != res.Limbs+res.Heads {
		t.Errorf("%d bodies after the pose vanished, want %d lingering", n, res.Limbs+res.Heads)
	}
	if n := len(g.Bodies().FreshLimbs()); n != 0 {
		t.Errorf("%d fresh limbs without a pose", n)
	}
	g.Tick(pose.Snapshot{}, false)
	if n := g.Bodies().Len(); n != 0 {
		t.Errorf("%d bodies left two updates after the pose vanished", n)
	}
	if g.Status().HasPose {
		t.Error("HasPose should be false without data")
	}
}

func TestDraw(t *testing.T) {
	g, _ := newTestGame(t)
	rec := render.NewRecorder(screen)

	g.Draw(rec)
	if blits := rec.Ops("blit"); len(blits) != 1 {
		t.Errorf("tutorial should blit its background, got %d blits", len(blits))
	}
	if texts := rec.Ops("text"); len(texts) != 1 || texts[0].Text != "Level: 0" {
		t.Errorf("texts = %+v", texts)
	}

	g.Advance(WinSkip)
	frame := image.NewRGBA(image.Rect(0, 0, 640, 480))
	standing := detector.StandingLandmarks()
	g.Tick(pose.Snapshot{Frame: frame, Lines: standing.Lines(0.5)}, true)

	rec.Reset()
	g.Draw(rec)

	if fills := rec.Ops("fill"); len(fills) != 1 || rec.Calls[0].Op != "fill" {
		t.Error("frame should start with a fill")
	}
	if blits := rec.Ops("blit"); len(blits) != 1 || blits[0].Image != frame {
		t.Errorf("expected the webcam frame blit, got %+v", blits)
	}
	if circles := rec.Ops("circle"); len(circles) != 1 {
		t.Errorf("expected 1 ball, got %d", len(circles))
	}
	if ellipses := rec.Ops("ellipse"); len(ellipses) != 1 {
		t.Errorf("expected 1 head, got %d", len(ellipses))
	}
	// Two grid outlines plus the pennant fill and outline.
	if rects := rec.Ops("rect"); len(rects) != 4 {
		t.Errorf("expected 4 rects, got %d", len(rects))
	}

	texts := rec.Ops("text")
	if len(texts) != 2 || texts[0].Text != "Level: 1" || texts[1].Text != g.Level().Instruction {
		t.Errorf("texts = %+v", texts)
	}
	target := g.WebcamTarget()
	if texts[1].Points[0].Y != target.Max.Y+20 {
		t.Errorf("instruction drawn at %v, want below the webcam", texts[1].Points[0])
	}
}

func TestWin_String(t *testing.T) {
	if WinFlag.String() != "flag" || WinGesture.String() != "gesture" || WinSkip.String() != "skip" {
		t.Error("unexpected win names")
	}
}
