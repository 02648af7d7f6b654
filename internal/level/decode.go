package level

import (
	"fmt"
	"image/color"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/posejump/internal/geom"
)

// UnmarshalYAML decodes an [x, y] pair.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var raw []float64
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("line %d: position needs 2 numbers, got %d", value.Line, len(raw))
	}
	p.X, p.Y = raw[0], raw[1]
	return nil
}

// UnmarshalYAML decodes a [game_rect, webcam_rect, color] tuple where each
// rect is [left, top, width, height].
func (g *Grid) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) != 3 {
		return fmt.Errorf("line %d: grid must be [game_rect, webcam_rect, color]", value.Line)
	}

	game, err := decodeRect(value.Content[0])
	if err != nil {
		return fmt.Errorf("game rect: %w", err)
	}
	webcam, err := decodeRect(value.Content[1])
	if err != nil {
		return fmt.Errorf("webcam rect: %w", err)
	}
	c, err := decodeColor(value.Content[2])
	if err != nil {
		return fmt.Errorf("color: %w", err)
	}

	g.Game, g.Webcam, g.Color = game, webcam, c
	return nil
}

func decodeRect(n *yaml.Node) (geom.Rect, error) {
	var raw []float64
	if err := n.Decode(&raw); err != nil {
		return geom.Rect{}, err
	}
	if len(raw) != 4 {
		return geom.Rect{}, fmt.Errorf("line %d: rect needs 4 numbers, got %d", n.Line, len(raw))
	}
	r := geom.Rect{Left: raw[0], Top: raw[1], Width: raw[2], Height: raw[3]}
	if r.Width <= 0 || r.Height <= 0 {
		return geom.Rect{}, fmt.Errorf("line %d: rect width and height must be positive", n.Line)
	}
	return r, nil
}

// namedColors covers the color names level documents use.
var namedColors = map[string]color.RGBA{
	"black":   {0, 0, 0, 255},
	"white":   {255, 255, 255, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 255, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"cyan":    {0, 255, 255, 255},
	"magenta": {255, 0, 255, 255},
	"orange":  {255, 165, 0, 255},
	"purple":  {160, 32, 240, 255},
	"pink":    {255, 192, 203, 255},
	"gray":    {190, 190, 190, 255},
	"grey":    {190, 190, 190, 255},
}

// ParseColor resolves a color name.
func ParseColor(name string) (color.RGBA, bool) {
	c, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

func decodeColor(n *yaml.Node) (color.RGBA, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		c, ok := ParseColor(n.Value)
		if !ok {
			return color.RGBA{}, fmt.Errorf("line %d: unknown color %q", n.Line, n.Value)
		}
		return c, nil
	case yaml.SequenceNode:
		var raw []int
		if err := n.Decode(&raw); err != nil {
			return color.RGBA{}, err
		}
		if len(raw) != 3 && len(raw) != 4 {
			return color.RGBA{}, fmt.Errorf("line %d: color needs 3 or 4 components", n.Line)
		}
		for _, v := range raw {
			if v < 0 || v > 255 {
				return color.RGBA{}, fmt.Errorf("line %d: color component %d out of range", n.Line, v)
			}
		}
		c := color.RGBA{R: uint8(raw[0]), G: uint8(raw[1]), B: uint8(raw[2]), A: 255}
		if len(raw) == 4 {
			c.A = uint8(raw[3])
		}
		return c, nil
	default:
		return color.RGBA{}, fmt.Errorf("line %d: color must be a name or [r, g, b]", n.Line)
	}
}
