package render

import (
	"image"
	"image/color"
	"log"

	"gocv.io/x/gocv"
)

// Font defines how MatSurface renders text.
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Thickness int
	LineType  gocv.LineType
}

// DefaultFont returns the HUD font.
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     1.2,
		Thickness: 2,
		LineType:  gocv.LineAA,
	}
}

// MatImage is an image.Image that also keeps its BGR Mat, so a MatSurface
// can draw it without converting it again.
type MatImage struct {
	image.Image
	mat gocv.Mat
}

// NewMatImage copies m into a MatImage.
func NewMatImage(m gocv.Mat) (*MatImage, error) {
	img, err := m.ToImage()
	if err != nil {
		return nil, err
	}
	return &MatImage{Image: img, mat: m.Clone()}, nil
}

// Mat returns the BGR pixels.
func (m *MatImage) Mat() gocv.Mat { return m.mat }

// Close releases the Mat.
func (m *MatImage) Close() error { return m.mat.Close() }

// MatSurface draws onto a BGR gocv.Mat.
type MatSurface struct {
	mat  gocv.Mat
	font Font

	// The last plain RGBA image blitted and its converted Mat. Webcam frames
	// arrive slower than the draw rate, so most blits reuse it.
	frame       *image.RGBA
	frameMat    gocv.Mat
	conversions int
}

// NewMatSurface allocates a surface of the given pixel size.
func NewMatSurface(size image.Point, font Font) *MatSurface {
	return &MatSurface{
		mat:  gocv.NewMatWithSize(size.Y, size.X, gocv.MatTypeCV8UC3),
		font: font,
	}
}

// Mat returns the underlying frame buffer.
func (s *MatSurface) Mat() *gocv.Mat { return &s.mat }

// Close releases the frame buffer.
func (s *MatSurface) Close() error {
	if s.frame != nil {
		s.frameMat.Close()
		s.frame = nil
	}
	return s.mat.Close()
}

func (s *MatSurface) Size() image.Point {
	return image.Pt(s.mat.Cols(), s.mat.Rows())
}

func (s *MatSurface) Fill(c color.RGBA) {
	s.mat.SetTo(gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), float64(c.A)))
}

func (s *MatSurface) Circle(center image.Point, radius int, c color.RGBA, thickness int) {
	gocv.Circle(&s.mat, center, radius, c, thickness)
}

func (s *MatSurface) Ellipse(center, axes image.Point, c color.RGBA, thickness int) {
	gocv.Ellipse(&s.mat, center, axes, 0, 0, 360, c, thickness)
}

func (s *MatSurface) Line(a, b image.Point, c color.RGBA, thickness int) {
	gocv.Line(&s.mat, a, b, c, thickness)
}

func (s *MatSurface) Rect(r image.Rectangle, c color.RGBA, thickness int) {
	gocv.Rectangle(&s.mat, r, c, thickness)
}

func (s *MatSurface) Text(text string, at image.Point, c color.RGBA) {
	// PutText anchors at the baseline; callers pass the top left corner.
	size := gocv.GetTextSize(text, s.font.Face, s.font.Scale, s.font.Thickness)
	org := image.Pt(at.X, at.Y+size.Y)
	gocv.PutTextWithParams(&s.mat, text, org, s.font.Face, s.font.Scale, c,
		s.font.Thickness, s.font.LineType, false)
}

func (s *MatSurface) Blit(img image.Image, src, dst image.Rectangle) {
	src = src.Intersect(img.Bounds())
	if src.Empty() || dst.Empty() {
		return
	}
	visible := dst.Intersect(image.Rectangle{Max: s.Size()})
	if visible.Empty() {
		return
	}

	in, release, err := s.source(img)
	if err != nil {
		log.Printf("Failed to convert image for drawing: %v", err)
		return
	}
	defer release()

	region := in.Region(src.Sub(img.Bounds().Min))
	defer region.Close()

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(region, &scaled, dst.Size(), 0, 0, gocv.InterpolationLinear)

	part := scaled.Region(visible.Sub(dst.Min))
	defer part.Close()

	roi := s.mat.Region(visible)
	part.CopyTo(&roi)
	roi.Close()
}

// source returns img as a BGR Mat and a function releasing it. MatImages
// are used as they are; the last RGBA image is cached until another replaces it.
func (s *MatSurface) source(img image.Image) (gocv.Mat, func(), error) {
	keep := func() {}
	switch src := img.(type) {
	case *MatImage:
		return src.mat, keep, nil
	case *image.RGBA:
		if src == s.frame {
			return s.frameMat, keep, nil
		}
	}

	m, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, keep, err
	}
	s.conversions++

	rgba, ok := img.(*image.RGBA)
	if !ok {
		return m, func() { m.Close() }, nil
	}
	if s.frame != nil {
		s.frameMat.Close()
	}
	s.frame, s.frameMat = rgba, m
	return m, keep, nil
}
