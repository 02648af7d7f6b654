package render

import (
	"image"
	"image/color"
)

// Call is one recorded draw operation.
type Call struct {
	Op        string
	Points    []image.Point
	Rect      image.Rectangle
	Src       image.Rectangle
	Radius    int
	Thickness int
	Color     color.RGBA
	Text      string
	Image     image.Image
}

// Recorder is a Surface that remembers every call instead of drawing.
type Recorder struct {
	size  image.Point
	Calls []Call
}

// NewRecorder creates a Recorder reporting the given size.
func NewRecorder(size image.Point) *Recorder {
	return &Recorder{size: size}
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

// Ops returns the recorded calls with the given op name.
func (r *Recorder) Ops(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) Size() image.Point { return r.size }

func (r *Recorder) Fill(c color.RGBA) {
	r.Calls = append(r.Calls, Call{Op: "fill", Color: c})
}

func (r *Recorder) Circle(center image.Point, radius int, c color.RGBA, thickness int) {
	r.Calls = append(r.Calls, Call{Op: "circle", Points: []image.Point{center}, Radius: radius, Color: c, Thickness: thickness})
}

func (r *Recorder) Ellipse(center, axes image.Point, c color.RGBA, thickness int) {
	r.Calls = append(r.Calls, Call{Op: "ellipse", Points: []image.Point{center, axes}, Color: c, Thickness: thickness})
}

func (r *Recorder) Line(a, b image.Point, c color.RGBA, thickness int) {
	r.Calls = append(r.Calls, Call{Op: "line", Points: []image.Point{a, b}, Color: c, Thickness: thickness})
}

func (r *Recorder) Rect(rect image.Rectangle, c color.RGBA, thickness int) {
	r.Calls = append(r.Calls, Call{Op: "rect", Rect: rect, Color: c, Thickness: thickness})
}

func (r *Recorder) Text(s string, at image.Point, c color.RGBA) {
	r.Calls = append(r.Calls, Call{Op: "text", Points: []image.Point{at}, Text: s, Color: c})
}

func (r *Recorder) Blit(img image.Image, src, dst image.Rectangle) {
	r.Calls = append(r.Calls, Call{Op: "blit", Image: img, Src: src, Rect: dst})
}
