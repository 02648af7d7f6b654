package render

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"
)

// ErrImageNotFound is returned when an image file cannot be read.
var ErrImageNotFound = errors.New("image not found")

// ImageLoader loads an image file scaled to a pixel size.
type ImageLoader interface {
	Load(name string, size image.Point) (image.Image, error)
}

// MatLoader reads images with OpenCV from a directory.
type MatLoader struct {
	Dir string
}

// Load reads name from the loader directory and resizes it to size. The
// result is a *MatImage; the caller closes it when done.
func (l MatLoader) Load(name string, size image.Point) (image.Image, error) {
	path := filepath.Join(l.Dir, name)
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	defer img.Close()

	if size.X <= 0 || size.Y <= 0 {
		return matImage(img)
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, size, 0, 0, gocv.InterpolationArea)

	return matImage(resized)
}

func matImage(m gocv.Mat) (image.Image, error) {
	img, err := NewMatImage(m)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// StubLoader returns blank images of the requested size and records every
// request. Names listed in Missing fail with ErrImageNotFound.
type StubLoader struct {
	mu       sync.Mutex
	Missing  map[string]bool
	requests []string
}

// Load returns a blank image.
func (l *StubLoader) Load(name string, size image.Point) (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, name)
	if l.Missing[name] {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, name)
	}
	return image.NewRGBA(image.Rectangle{Max: size}), nil
}

// Requests returns the names loaded so far.
func (l *StubLoader) Requests() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.requests))
	copy(out, l.requests)
	return out
}
