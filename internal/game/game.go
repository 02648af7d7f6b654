package game

import (
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/posejump/internal/body"
	"github.com/ayusman/posejump/internal/detector"
	"github.com/ayusman/posejump/internal/geom"
	"github.com/ayusman/posejump/internal/grid"
	"github.com/ayusman/posejump/internal/level"
	"github.com/ayusman/posejump/internal/physics"
	"github.com/ayusman/posejump/internal/pose"
)

// Win says how a level was left.
type Win int

const (
	WinNone Win = iota
	WinFlag
	WinGesture
	WinSkip
)

func (w Win) String() string {
	switch w {
	case WinFlag:
		return "flag"
	case WinGesture:
		return "gesture"
	case WinSkip:
		return "skip"
	default:
		return "none"
	}
}

// Change describes one level transition.
type Change struct {
	From     string
	To       string
	Method   Win
	Duration time.Duration
}

// TickResult reports what one Tick did.
type TickResult struct {
	Changed bool
	Change  Change
	Limbs   int
	Heads   int
}

// Status is a snapshot of the game for display outside the game loop.
type Status struct {
	Level       string    `json:"level"`
	Index       int       `json:"index"`
	Title       string    `json:"title"`
	Instruction string    `json:"instruction"`
	Balls       int       `json:"balls"`
	Limbs       int       `json:"limbs"`
	Heads       int       `json:"heads"`
	Transitions int       `json:"transitions"`
	HasPose     bool      `json:"has_pose"`
	Landmarks   int       `json:"landmarks"`
	Started     time.Time `json:"started"`
}

type background struct {
	img  image.Image
	rect image.Rectangle
}

// Game is the level state machine. All methods must be called from the
// goroutine that owns the physics world.
type Game struct {
	ctx    Context
	mapper grid.Mapper
	bodies *body.Manager

	index       int
	level       *level.Level
	balls       []physics.Handle
	levelLines  []physics.Handle
	flag        physics.Handle
	backgrounds [][]background
	started     time.Time
	transitions int

	frame     image.Image
	poseLines []detector.PoseLine
	points    pose.Points
	posed     bool

	// OnLevelChange is called after every transition.
	OnLevelChange func(Change)
}

// New validates ctx, loads every background image and enters the first
// level.
func New(ctx Context) (*Game, error) {
	if err := ctx.validate(); err != nil {
		return nil, err
	}

	g := &Game{
		ctx:    ctx,
		mapper: grid.NewMapper(ctx.Screen),
		bodies: body.NewManager(ctx.TTL),
	}

	for i := 0; i < ctx.Levels.Len(); i++ {
		l := ctx.Levels.At(i)
		if name := l.Gesture(); name != "" {
			if _, ok := ctx.Gestures.Lookup(name); !ok {
				return nil, &level.ConfigError{Level: l.Name, Field: "win_gesture", Err: fmt.Errorf("unknown gesture %q (known: %s)", name, strings.Join(ctx.Gestures.Names(), ", "))}
			}
		}
		bgs, err := g.loadBackgrounds(l)
		if err != nil {
			return nil, err
		}
		g.backgrounds = append(g.backgrounds, bgs)
	}

	g.LoadLevel(level.TutorialIndex)
	return g, nil
}

func (g *Game) loadBackgrounds(l *level.Level) ([]background, error) {
	var out []background
	for _, bg := range l.BackgroundImages {
		rect := bg.Rect().Scale(float64(g.ctx.Screen.X), float64(g.ctx.Screen.Y)).ImageRect()
		img, err := g.ctx.Loader.Load(bg.Image, rect.Size())
		if err != nil {
			return nil, &level.ConfigError{Level: l.Name, Field: "background_images", Err: err}
		}
		out = append(out, background{img: img, rect: rect})
	}
	return out, nil
}

// Level returns the current level.
func (g *Game) Level() *level.Level { return g.level }

// Index returns the index of the current level.
func (g *Game) Index() int { return g.index }

// Balls returns the handles of live balls.
func (g *Game) Balls() []physics.Handle { return g.balls }

// Flag returns the handle of the current flag; zero when the level has none.
func (g *Game) Flag() physics.Handle { return g.flag }

// Bodies returns the limb and head manager.
func (g *Game) Bodies() *body.Manager { return g.bodies }

func (g *Game) toPixels(p r2.Vec) r2.Vec {
	return geom.ToPixels(p, g.ctx.Screen)
}

func (g *Game) clearLevel() {
	w := g.ctx.World
	for _, h := range g.balls {
		w.Remove(h)
	}
	for _, h := range g.levelLines {
		w.Remove(h)
	}
	w.Remove(g.flag)
	g.bodies.Clear(w)
	g.balls, g.levelLines, g.flag = nil, nil, physics.Handle{}
}

// LoadLevel removes the previous level's balls, lines, flag and player
// bodies and builds level index.
func (g *Game) LoadLevel(index int) {
	g.clearLevel()

	w := g.ctx.World
	g.index = index
	g.level = g.ctx.Levels.At(index)
	g.started = g.ctx.Now()

	if g.level.BallPos != nil {
		g.addBall(g.level.BallPos.Vec())
	}
	for _, s := range g.level.LinePos {
		l := s.Line()
		g.levelLines = append(g.levelLines, w.AddSegment(physics.KindLine, geom.Line{
			A: g.toPixels(l.A),
			B: g.toPixels(l.B),
		}))
	}
	if g.level.FlagPos != nil {
		g.flag = w.AddFlag(g.toPixels(g.level.FlagPos.Vec()), g.ctx.FlagWidth()+g.ctx.PoleHeight())
	}
}

// Advance moves to the next level in the cycle.
func (g *Game) Advance(method Win) Change {
	from := g.level.Name
	elapsed := g.ctx.Now().Sub(g.started)

	g.LoadLevel(level.NextIndex(g.index, g.ctx.Levels.Len()))
	g.transitions++

	c := Change{From: from, To: g.level.Name, Method: method, Duration: elapsed}
	if g.OnLevelChange != nil {
		g.OnLevelChange(c)
	}
	return c
}

func (g *Game) addBall(pos r2.Vec) {
	h := g.ctx.World.AddBall(g.toPixels(pos), g.ctx.BallRadius())
	g.balls = append(g.balls, h)
}

// UpdateBalls spawns a ball at random on spawner levels and removes balls
// that fell off the bottom of the screen.
func (g *Game) UpdateBalls() {
	if g.level.SpawnBalls && g.ctx.Rand.Float64() < g.ctx.SpawnRate {
		g.addBall(SpawnPoint)
	}

	limit := DespawnFactor * float64(g.ctx.Screen.Y)
	kept := g.balls[:0]
	for _, h := range g.balls {
		pos, ok := g.ctx.World.Position(h)
		if !ok {
			continue
		}
		if pos.Y > limit {
			g.ctx.World.Remove(h)
			continue
		}
		kept = append(kept, h)
	}
	clear(g.balls[len(kept):])
	g.balls = kept
}

// CheckWin reports whether the level is won: a ball touches the flag, or
// the level's win gesture is shown.
func (g *Game) CheckWin(points pose.Points) (Win, bool) {
	if !g.flag.IsZero() {
		for _, h := range g.balls {
			if g.ctx.World.Touching(h, g.flag) {
				return WinFlag, true
			}
		}
	}
	if name := g.level.Gesture(); name != "" && g.ctx.Gestures.Check(name, points) {
		return WinGesture, true
	}
	return WinNone, false
}

// Tick runs one game update for the latest pose snapshot. ok is false when
// no pose has been published yet.
func (g *Game) Tick(snap pose.Snapshot, ok bool) TickResult {
	if ok {
		g.frame = snap.Frame
		g.poseLines = snap.Lines
	} else {
		g.frame, g.poseLines = nil, nil
	}
	g.points = pose.FromLines(g.poseLines)
	g.posed = len(g.poseLines) > 0

	g.UpdateBalls()

	req := g.mapper.Map(g.poseLines, g.points, g.level)
	g.bodies.Update(g.ctx.World, req)

	res := TickResult{Limbs: len(req.Limbs), Heads: len(req.Heads)}
	if method, won := g.CheckWin(g.points); won {
		res.Changed = true
		res.Change = g.Advance(method)
	}
	return res
}

// Status returns a snapshot of the game state.
func (g *Game) Status() Status {
	return Status{
		Level:       g.level.Name,
		Index:       g.index,
		Title:       g.level.Title(),
		Instruction: g.level.Instruction,
		Balls:       len(g.balls),
		Limbs:       len(g.bodies.Limbs()),
		Heads:       len(g.bodies.Heads()),
		Transitions: g.transitions,
		HasPose:     g.posed,
		Landmarks:   g.points.Len(),
		Started:     g.started,
	}
}

// Step advances the physics world by dt seconds.
func (g *Game) Step(dt float64) {
	g.ctx.World.Step(dt)
}

// Close removes every body the game created and releases background images
// that hold native memory.
func (g *Game) Close() {
	g.clearLevel()
	for _, bgs := range g.backgrounds {
		for _, bg := range bgs {
			if c, ok := bg.img.(io.Closer); ok {
				c.Close()
			}
		}
	}
	g.backgrounds = nil
}
