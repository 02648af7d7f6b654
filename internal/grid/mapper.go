// Package grid projects pose geometry through a level's action grids into
// game-space pixel geometry.
package grid

import (
	"image"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/posejump/internal/detector"
	"github.com/ayusman/posejump/internal/geom"
	"github.com/ayusman/posejump/internal/level"
	"github.com/ayusman/posejump/internal/pose"
)

// LimbRequest asks for one limb segment in screen pixels.
type LimbRequest struct {
	Line       geom.Line
	Grid       int
	Connection detector.Connection
}

// HeadRequest asks for one head ellipse in screen pixels.
type HeadRequest struct {
	Ellipse geom.Ellipse
	Grid    int
}

// Requests is everything one frame asks the body manager to create.
type Requests struct {
	Limbs []LimbRequest
	Heads []HeadRequest
}

// Mapper maps normalized pose geometry onto a screen.
type Mapper struct {
	Screen image.Point
}

// NewMapper creates a Mapper for a screen of the given pixel size.
func NewMapper(screen image.Point) Mapper {
	return Mapper{Screen: screen}
}

// Map builds the requests for one frame on level l.
func (m Mapper) Map(lines []detector.PoseLine, points pose.Points, l *level.Level) Requests {
	var req Requests
	if l == nil || len(l.Grids) == 0 {
		return req
	}
	req.Limbs = m.Limbs(lines, l.Grids, l.Connections())
	if l.AllowHead {
		req.Heads = m.Heads(pose.HeadOf(points), l.Grids)
	}
	return req
}

// Limbs clips every allowed pose line against each grid's webcam window
// and remaps the surviving part into the grid's game region.
func (m Mapper) Limbs(lines []detector.PoseLine, grids []level.Grid, allowed level.Connections) []LimbRequest {
	var out []LimbRequest
	for _, pl := range lines {
		if !allowed.Allows(pl.Start.ID, pl.End.ID) {
			continue
		}
		mirrored := geom.Line{
			A: pose.Mirror(landmarkVec(pl.Start)),
			B: pose.Mirror(landmarkVec(pl.End)),
		}

		for i, g := range grids {
			webcam := g.Webcam.Box()
			clipped, ok := geom.ClipLine(mirrored, webcam)
			if !ok {
				continue
			}
			game := geom.NewRemap(webcam, g.Game.Box()).Line(clipped)
			out = append(out, LimbRequest{
				Line: geom.Line{
					A: geom.ToPixels(game.A, m.Screen),
					B: geom.ToPixels(game.B, m.Screen),
				},
				Grid:       i,
				Connection: detector.Connection{pl.Start.ID, pl.End.ID},
			})
		}
	}
	return out
}

// Heads places the head ellipse in every grid whose webcam window strictly
// contains the head centre. The head must be complete.
func (m Mapper) Heads(head pose.Head, grids []level.Grid) []HeadRequest {
	if !head.Complete() {
		return nil
	}
	src := geom.Ellipse{Center: head.Center, Width: head.Width, Height: head.Height}

	var out []HeadRequest
	for i, g := range grids {
		if !g.Webcam.ContainsOpen(head.Center) {
			continue
		}
		e := geom.NewRemap(g.Webcam.Box(), g.Game.Box()).Ellipse(src)
		out = append(out, HeadRequest{
			Ellipse: geom.Ellipse{
				Center: geom.ToPixels(e.Center, m.Screen),
				Width:  e.Width * float64(m.Screen.X),
				Height: e.Height * float64(m.Screen.Y),
			},
			Grid: i,
		})
	}
	return out
}

func landmarkVec(lm detector.Landmark) r2.Vec {
	return r2.Vec{X: lm.X, Y: lm.Y}
}
