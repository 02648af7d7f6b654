package geom

import "gonum.org/v1/gonum/spatial/r2"

// Remap is an independent per-axis scale followed by a translation that maps
// one box onto another.
type Remap struct {
	Scale     r2.Vec
	Translate r2.Vec
}

// NewRemap returns the mapping that takes from onto to. from must have a
// non-zero extent on both axes.
func NewRemap(from, to r2.Box) Remap {
	fs := r2.Sub(from.Max, from.Min)
	ts := r2.Sub(to.Max, to.Min)

	scale := r2.Vec{X: ts.X / fs.X, Y: ts.Y / fs.Y}
	return Remap{
		Scale: scale,
		Translate: r2.Vec{
			X: to.Min.X - from.Min.X*scale.X,
			Y: to.Min.Y - from.Min.Y*scale.Y,
		},
	}
}

// Point maps a position.
func (m Remap) Point(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: p.X*m.Scale.X + m.Translate.X,
		Y: p.Y*m.Scale.Y + m.Translate.Y,
	}
}

// Extent maps a width/height pair. Extents are scaled but never translated.
func (m Remap) Extent(w, h float64) (float64, float64) {
	return w * m.Scale.X, h * m.Scale.Y
}

// Line maps both endpoints of l.
func (m Remap) Line(l Line) Line {
	return Line{A: m.Point(l.A), B: m.Point(l.B)}
}

// Lines maps every line in place and returns the slice.
func (m Remap) Lines(lines []Line) []Line {
	for i := range lines {
		lines[i] = m.Line(lines[i])
	}
	return lines
}

// Ellipse maps the centre of e and scales its extents.
func (m Remap) Ellipse(e Ellipse) Ellipse {
	w, h := m.Extent(e.Width, e.Height)
	return Ellipse{Center: m.Point(e.Center), Width: w, Height: h}
}

// Inverse returns the mapping that undoes m.
func (m Remap) Inverse() Remap {
	inv := r2.Vec{X: 1 / m.Scale.X, Y: 1 / m.Scale.Y}
	return Remap{
		Scale: inv,
		Translate: r2.Vec{
			X: -m.Translate.X * inv.X,
			Y: -m.Translate.Y * inv.Y,
		},
	}
}
