// Package level loads the level document and encodes the level cycle.
package level

import (
	"image/color"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/posejump/internal/detector"
	"github.com/ayusman/posejump/internal/geom"
	"github.com/ayusman/posejump/internal/gesture"
)

// TutorialIndex is the index of the intro level. It is visited once.
const TutorialIndex = 0

// Point is a normalized [x, y] screen position.
type Point r2.Vec

// Vec returns the point as a vector.
func (p Point) Vec() r2.Vec { return r2.Vec(p) }

// Segment is a pair of normalized positions.
type Segment struct {
	Start Point `yaml:"start_pos"`
	End   Point `yaml:"end_pos"`
}

// Line returns the segment as a geom.Line.
func (s Segment) Line() geom.Line {
	return geom.Line{A: s.Start.Vec(), B: s.End.Vec()}
}

// Rect returns the axis-aligned rectangle spanned by the segment.
func (s Segment) Rect() geom.Rect {
	return geom.Rect{
		Left:   s.Start.X,
		Top:    s.Start.Y,
		Width:  s.End.X - s.Start.X,
		Height: s.End.Y - s.Start.Y,
	}
}

// BackgroundImage is an image file stretched over a normalized rectangle.
type BackgroundImage struct {
	Image string `yaml:"image"`
	Start Point  `yaml:"start_pos"`
	End   Point  `yaml:"end_pos"`
}

// Rect returns the normalized rectangle the image covers.
func (b BackgroundImage) Rect() geom.Rect {
	return Segment{Start: b.Start, End: b.End}.Rect()
}

// Grid projects a window of webcam space into a region of the game.
// Both rectangles are normalized to their own space.
type Grid struct {
	Game   geom.Rect
	Webcam geom.Rect
	Color  color.RGBA
}

// Level is one entry of the level document.
type Level struct {
	Name  string `yaml:"-"`
	Index int    `yaml:"-"`

	BackgroundImages []BackgroundImage `yaml:"background_images"`
	LinePos          []Segment         `yaml:"line_pos"`
	BallPos          *Point            `yaml:"ball_pos"`
	FlagPos          *Point            `yaml:"flag_pos"`
	WebcamPos        *Segment          `yaml:"webcam_pos"`
	Grids            []Grid            `yaml:"grids"`
	AllowedLimbs     Connections       `yaml:"allowed_limb_connections"`
	Instruction      string            `yaml:"instruction"`
	AllowHead        bool              `yaml:"allow_head"`
	SpawnBalls       bool              `yaml:"spawn_balls"`
	WinGesture       string            `yaml:"win_gesture"`
}

// Tutorial reports whether this is the intro level.
func (l *Level) Tutorial() bool {
	return l.Index == TutorialIndex
}

// Title returns the HUD caption, "Level: N" for a level named "level_N".
func (l *Level) Title() string {
	return "Level: " + strings.TrimPrefix(l.Name, "level_")
}

// Connections returns the allowed limb connections, falling back to the
// full skeleton when the level does not list any. The result is shared and
// must not be modified.
func (l *Level) Connections() Connections {
	if l.AllowedLimbs == nil {
		return Connections(detector.PoseConnections)
	}
	return l.AllowedLimbs
}

// Gesture returns the name of the gesture that wins this level, or "" when
// only the flag does. The tutorial defaults to arms above head.
func (l *Level) Gesture() string {
	if l.WinGesture != "" {
		return l.WinGesture
	}
	if l.Tutorial() {
		return gesture.ArmsAboveHeadName
	}
	return ""
}

// Set is the ordered list of levels in document order.
type Set struct {
	levels []*Level
}

// NewSet builds a Set, assigning indices in order.
func NewSet(levels ...*Level) *Set {
	for i, l := range levels {
		l.Index = i
	}
	return &Set{levels: levels}
}

// Len returns the number of levels.
func (s *Set) Len() int { return len(s.levels) }

// At returns the level at index i.
func (s *Set) At(i int) *Level { return s.levels[i] }

// Lookup returns the level with the given name.
func (s *Set) Lookup(name string) (*Level, bool) {
	for _, l := range s.levels {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// Names returns level names in cycle order.
func (s *Set) Names() []string {
	names := make([]string, len(s.levels))
	for i, l := range s.levels {
		names[i] = l.Name
	}
	return names
}

// NextIndex returns the level that follows current in a document of n
// levels. After the last level the cycle restarts at 1, so the tutorial
// is never revisited. A single-level document stays on level 0.
func NextIndex(current, n int) int {
	if n <= 1 {
		return 0
	}
	next := (current + 1) % n
	if next == TutorialIndex {
		next = 1
	}
	return next
}
