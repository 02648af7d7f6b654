package geom

import "gonum.org/v1/gonum/spatial/r2"

// Outcode bits. The y axis grows downwards, so "above" means y < Min.Y.
const (
	codeInside = 0
	codeLeft   = 1 << iota
	codeRight
	codeAbove
	codeBelow
)

func outcode(p r2.Vec, box r2.Box) int {
	code := codeInside
	if p.X < box.Min.X {
		code |= codeLeft
	} else if p.X > box.Max.X {
		code |= codeRight
	}
	if p.Y < box.Min.Y {
		code |= codeAbove
	} else if p.Y > box.Max.Y {
		code |= codeBelow
	}
	return code
}

// ClipLine clips l to box using the Cohen–Sutherland algorithm. It returns the
// part of l inside box (edges included) and true, or false if no part of l
// lies inside box.
//
// An endpoint outside the box on an axis along which the line does not move
// can never reach the box on that axis, so such a line is rejected instead of
// dividing by zero.
func ClipLine(l Line, box r2.Box) (Line, bool) {
	p0, p1 := l.A, l.B
	c0, c1 := outcode(p0, box), outcode(p1, box)

	for {
		if c0|c1 == codeInside {
			return Line{A: p0, B: p1}, true
		}
		if c0&c1 != 0 {
			return Line{}, false
		}

		out := c0
		if out == codeInside {
			out = c1
		}

		dx := p1.X - p0.X
		dy := p1.Y - p0.Y

		var p r2.Vec
		switch {
		case out&codeBelow != 0:
			if dy == 0 {
				return Line{}, false
			}
			p = r2.Vec{X: p0.X + dx*(box.Max.Y-p0.Y)/dy, Y: box.Max.Y}
		case out&codeAbove != 0:
			if dy == 0 {
				return Line{}, false
			}
			p = r2.Vec{X: p0.X + dx*(box.Min.Y-p0.Y)/dy, Y: box.Min.Y}
		case out&codeRight != 0:
			if dx == 0 {
				return Line{}, false
			}
			p = r2.Vec{X: box.Max.X, Y: p0.Y + dy*(box.Max.X-p0.X)/dx}
		case out&codeLeft != 0:
			if dx == 0 {
				return Line{}, false
			}
			p = r2.Vec{X: box.Min.X, Y: p0.Y + dy*(box.Min.X-p0.X)/dx}
		}

		if out == c0 {
			p0 = p
			c0 = outcode(p0, box)
		} else {
			p1 = p
			c1 = outcode(p1, box)
		}
	}
}

// ClipLines clips every line to box and drops the ones entirely outside.
func ClipLines(lines []Line, box r2.Box) []Line {
	clipped := make([]Line, 0, len(lines))
	for _, l := range lines {
		if c, ok := ClipLine(l, box); ok {
			clipped = append(clipped, c)
		}
	}
	return clipped
}
