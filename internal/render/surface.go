// Package render draws the game onto a frame buffer. Drawing goes through
// the Surface interface so game code can be tested without OpenCV.
package render

import (
	"image"
	"image/color"
)

// Filled is the thickness that fills a shape instead of outlining it.
const Filled = -1

// Common colors.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Blue  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Surface is a drawable frame in absolute pixel coordinates with the
// origin at the top left.
type Surface interface {
	Size() image.Point
	Fill(c color.RGBA)
	Circle(center image.Point, radius int, c color.RGBA, thickness int)
	Ellipse(center image.Point, axes image.Point, c color.RGBA, thickness int)
	Line(a, b image.Point, c color.RGBA, thickness int)
	Rect(r image.Rectangle, c color.RGBA, thickness int)
	Text(s string, at image.Point, c color.RGBA)
	// Blit stretches the src region of img over dst. Parts of dst outside
	// the surface are dropped.
	Blit(img image.Image, src, dst image.Rectangle)
}
