// Package game runs the level state machine: it builds level geometry,
// feeds pose frames into the body manager, checks win conditions and
// draws each frame.
package game

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/posejump/internal/body"
	"github.com/ayusman/posejump/internal/gesture"
	"github.com/ayusman/posejump/internal/level"
	"github.com/ayusman/posejump/internal/physics"
	"github.com/ayusman/posejump/internal/render"
)

// Tuning constants, relative to the screen size.
const (
	BallRadiusFactor  = 0.007
	FlagWidthFactor   = 0.02
	PoleHeightFactor  = 0.02
	DespawnFactor     = 1.1
	DefaultSpawnRate  = 0.01
	DefaultTickPeriod = time.Second / 60
)

// SpawnPoint is where spawned balls appear, in normalized screen space.
var SpawnPoint = r2.Vec{X: 0.11, Y: 0.05}

// Context carries everything the game shares with the rest of the process.
// It is built once at startup.
type Context struct {
	Screen    image.Point
	World     *physics.World
	Loader    render.ImageLoader
	Levels    *level.Set
	Gestures  *gesture.Registry
	Rand      *rand.Rand
	TTL       int
	SpawnRate float64
	Now       func() time.Time
}

// NewContext fills in defaults for a screen and level set.
func NewContext(screen image.Point, levels *level.Set, loader render.ImageLoader) Context {
	return Context{
		Screen:    screen,
		World:     physics.New(physics.DefaultConfig()),
		Loader:    loader,
		Levels:    levels,
		Gestures:  gesture.NewRegistry(),
		Rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		TTL:       body.DefaultTTL,
		SpawnRate: DefaultSpawnRate,
		Now:       time.Now,
	}
}

func (c *Context) validate() error {
	if c.Screen.X <= 0 || c.Screen.Y <= 0 {
		return fmt.Errorf("invalid screen size %v", c.Screen)
	}
	if c.Levels == nil || c.Levels.Len() == 0 {
		return level.ErrNoLevels
	}
	if c.World == nil {
		return errors.New("game context has no physics world")
	}
	if c.Loader == nil {
		return errors.New("game context has no image loader")
	}
	if c.Gestures == nil {
		c.Gestures = gesture.NewRegistry()
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return nil
}

// BallRadius returns the ball radius in pixels.
func (c Context) BallRadius() float64 {
	return BallRadiusFactor * float64(c.Screen.X)
}

// FlagWidth returns the pennant size in pixels.
func (c Context) FlagWidth() float64 {
	return FlagWidthFactor * float64(c.Screen.X)
}

// PoleHeight returns the pole height below the pennant in pixels.
func (c Context) PoleHeight() float64 {
	return PoleHeightFactor * float64(c.Screen.X)
}
