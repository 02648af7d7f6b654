package render

import (
	"image"
	"math"

	"github.com/ayusman/posejump/internal/geom"
)

// Layout places a webcam frame on screen. The frame is scaled to cover
// Dst and the overflow is cropped evenly from both sides.
type Layout struct {
	Frame image.Point
	Src   image.Rectangle
	Dst   image.Rectangle
	Scale float64
}

// WebcamLayout computes the cover-and-crop placement of a frame of the
// given size into target.
func WebcamLayout(frame image.Point, target image.Rectangle) Layout {
	l := Layout{Frame: frame, Dst: target}
	if frame.X <= 0 || frame.Y <= 0 || target.Empty() {
		return l
	}

	tw, th := float64(target.Dx()), float64(target.Dy())
	l.Scale = math.Max(tw/float64(frame.X), th/float64(frame.Y))

	cw := int(math.Round(tw / l.Scale))
	ch := int(math.Round(th / l.Scale))
	cw = min(cw, frame.X)
	ch = min(ch, frame.Y)

	x := (frame.X - cw) / 2
	y := (frame.Y - ch) / 2
	l.Src = image.Rect(x, y, x+cw, y+ch)
	return l
}

// MapRect places a rect given in normalized frame coordinates on screen.
// The result may extend past Dst where the rect covers cropped parts of
// the frame.
func (l Layout) MapRect(r geom.Rect) image.Rectangle {
	if l.Scale == 0 {
		return image.Rectangle{}
	}
	fx, fy := float64(l.Frame.X), float64(l.Frame.Y)
	px := geom.Rect{
		Left:   float64(l.Dst.Min.X) + (r.Left*fx-float64(l.Src.Min.X))*l.Scale,
		Top:    float64(l.Dst.Min.Y) + (r.Top*fy-float64(l.Src.Min.Y))*l.Scale,
		Width:  r.Width * fx * l.Scale,
		Height: r.Height * fy * l.Scale,
	}
	return px.ImageRect()
}

// DefaultWebcamTarget is the overlay position used when a level does not
// set one: a 4:3 box in the top right corner, a quarter of the screen wide.
func DefaultWebcamTarget(screen image.Point) image.Rectangle {
	w := screen.X / 4
	h := w * 3 / 4
	return image.Rect(screen.X-w, 0, screen.X, h)
}
