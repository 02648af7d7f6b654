package render

import (
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/posejump/internal/detector"
)

// limbPalette colors skeleton lines by body region.
var limbPalette = []color.RGBA{
	{R: 255, G: 128, B: 0, A: 255},  // face
	{R: 51, G: 153, B: 255, A: 255}, // right arm
	{R: 255, G: 51, B: 255, A: 255}, // left arm
	{R: 0, G: 255, B: 0, A: 255},    // torso
	{R: 255, G: 255, B: 51, A: 255}, // legs
}

func limbColor(c detector.Connection) color.RGBA {
	a, b := c[0], c[1]
	switch {
	case a <= detector.MouthRight && b <= detector.MouthRight:
		return limbPalette[0]
	case a >= detector.LeftHip || b >= detector.LeftHip:
		if a >= detector.LeftHip && b >= detector.LeftHip {
			return limbPalette[4]
		}
		return limbPalette[3]
	case a == detector.LeftShoulder && b == detector.RightShoulder,
		a == detector.RightShoulder && b == detector.LeftShoulder:
		return limbPalette[3]
	case a%2 == 0:
		return limbPalette[1]
	default:
		return limbPalette[2]
	}
}

// Skeleton draws pose lines over a webcam frame. Set mirrored when the
// frame was flipped horizontally after detection.
func Skeleton(img *gocv.Mat, lines []detector.PoseLine, mirrored bool, thickness int) {
	w, h := float64(img.Cols()), float64(img.Rows())
	pt := func(lm detector.Landmark) image.Point {
		x := lm.X
		if mirrored {
			x = 1 - x
		}
		return image.Pt(int(math.Round(x*w)), int(math.Round(lm.Y*h)))
	}

	for _, l := range lines {
		c := limbColor(detector.Connection{l.Start.ID, l.End.ID})
		gocv.Line(img, pt(l.Start), pt(l.End), c, thickness)
	}
	for _, l := range lines {
		gocv.Circle(img, pt(l.Start), thickness+1, White, Filled)
		gocv.Circle(img, pt(l.End), thickness+1, White, Filled)
	}
}
