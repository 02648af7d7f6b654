package game

import (
	"image"
	"math"

	"github.com/ayusman/posejump/internal/geom"
	"github.com/ayusman/posejump/internal/render"
)

// gridLineWidth is the outline thickness of debug grid rectangles.
const gridLineWidth = 3

// WebcamTarget returns where the webcam overlay goes on screen.
func (g *Game) WebcamTarget() image.Rectangle {
	if wp := g.level.WebcamPos; wp != nil {
		return wp.Rect().Scale(float64(g.ctx.Screen.X), float64(g.ctx.Screen.Y)).ImageRect()
	}
	return render.DefaultWebcamTarget(g.ctx.Screen)
}

// Draw renders the current frame: background, webcam overlay, balls, flag,
// level lines, fresh limbs and heads, grid outlines and text.
func (g *Game) Draw(s render.Surface) {
	s.Fill(render.White)
	if g.index < len(g.backgrounds) {
		for _, bg := range g.backgrounds[g.index] {
			s.Blit(bg.img, bg.img.Bounds(), bg.rect)
		}
	}

	var layout render.Layout
	if g.frame != nil {
		layout = render.WebcamLayout(g.frame.Bounds().Size(), g.WebcamTarget())
		s.Blit(g.frame, layout.Src.Add(g.frame.Bounds().Min), layout.Dst)
	}

	w := g.ctx.World
	for _, h := range g.balls {
		pos, ok := w.Position(h)
		if !ok {
			continue
		}
		r, _ := w.Radius(h)
		s.Circle(geom.Pt(pos), int(math.Round(r)), render.Blue, render.Filled)
	}

	g.drawFlag(s)

	for _, h := range g.levelLines {
		if l, ok := w.Segment(h); ok {
			s.Line(geom.Pt(l.A), geom.Pt(l.B), render.Black, 1)
		}
	}
	for _, e := range g.bodies.FreshLimbs() {
		if l, ok := w.Segment(e.Handle); ok {
			s.Line(geom.Pt(l.A), geom.Pt(l.B), render.Black, 1)
		}
	}
	for _, e := range g.bodies.FreshHeads() {
		if el, ok := w.Ellipse(e.Handle); ok {
			axes := image.Pt(int(math.Round(el.Width/2)), int(math.Round(el.Height/2)))
			s.Ellipse(geom.Pt(el.Center), axes, render.Blue, 1)
		}
	}

	if g.frame != nil {
		for _, gr := range g.level.Grids {
			s.Rect(layout.MapRect(gr.Webcam), gr.Color, gridLineWidth)
			game := gr.Game.Scale(float64(g.ctx.Screen.X), float64(g.ctx.Screen.Y))
			s.Rect(game.ImageRect(), gr.Color, gridLineWidth)
		}
	}

	s.Text(g.level.Title(), image.Pt(0, 0), render.Black)
	if g.frame != nil && g.level.Instruction != "" {
		at := image.Pt(layout.Dst.Min.X+20, layout.Dst.Max.Y+20)
		s.Text(g.level.Instruction, at, render.Black)
	}
}

func (g *Game) drawFlag(s render.Surface) {
	pole, ok := g.ctx.World.Segment(g.flag)
	if !ok {
		return
	}
	fw := g.ctx.FlagWidth()
	top := pole.B
	pennant := geom.Rect{Left: top.X, Top: top.Y, Width: fw, Height: fw}.ImageRect()

	s.Rect(pennant, render.Green, render.Filled)
	s.Rect(pennant, render.Black, 1)
	s.Line(geom.Pt(pole.A), geom.Pt(pole.B), render.Black, 1)
}
