// Package geom provides line clipping and box-to-box coordinate mapping for
// normalized webcam, normalized game and pixel spaces.
package geom

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Line is a segment between two points.
type Line struct {
	A, B r2.Vec
}

// Ellipse is an axis-aligned ellipse given by its centre and full extents.
type Ellipse struct {
	Center r2.Vec
	Width  float64
	Height float64
}

// Rect is an axis-aligned rectangle in left, top, width, height form.
// The space it lives in (normalized or pixels) is up to the caller.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Box returns r as a min/max box.
func (r Rect) Box() r2.Box {
	return r2.Box{
		Min: r2.Vec{X: r.Left, Y: r.Top},
		Max: r2.Vec{X: r.Left + r.Width, Y: r.Top + r.Height},
	}
}

// ContainsOpen reports whether p lies strictly inside r. Points on the edge
// are outside.
func (r Rect) ContainsOpen(p r2.Vec) bool {
	return p.X > r.Left && p.X < r.Left+r.Width &&
		p.Y > r.Top && p.Y < r.Top+r.Height
}

// Scale multiplies the horizontal components of r by sx and the vertical
// components by sy.
func (r Rect) Scale(sx, sy float64) Rect {
	return Rect{
		Left:   r.Left * sx,
		Top:    r.Top * sy,
		Width:  r.Width * sx,
		Height: r.Height * sy,
	}
}

// ImageRect rounds r to an integer rectangle.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(
		int(math.Round(r.Left)),
		int(math.Round(r.Top)),
		int(math.Round(r.Left+r.Width)),
		int(math.Round(r.Top+r.Height)),
	)
}

// ToPixels scales a normalized point to a screen of the given size.
func ToPixels(p r2.Vec, screen image.Point) r2.Vec {
	return r2.Vec{X: p.X * float64(screen.X), Y: p.Y * float64(screen.Y)}
}

// Pt rounds p to an image point.
func Pt(p r2.Vec) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}
