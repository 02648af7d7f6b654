package app

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ayusman/posejump/internal/render"
)

// WindowTitle is the title of the game window.
const WindowTitle = "posejump"

// Keys the game loop reacts to.
const (
	KeyNone   = -1
	KeyEscape = 27
	KeyQuit   = 'q'
	KeySkip   = 'n'
)

// Display is where the game loop draws and reads input from.
type Display interface {
	// Surface is the drawing target for the next frame.
	Surface() render.Surface
	// Present shows the surface.
	Present()
	// PollKey returns the pressed key, or KeyNone.
	PollKey() int
	// Closed reports whether the user closed the window.
	Closed() bool
	Close() error
}

// WindowDisplay shows frames in an OpenCV HighGUI window.
type WindowDisplay struct {
	window  *gocv.Window
	surface *render.MatSurface
}

// NewWindowDisplay opens a window of the given size.
func NewWindowDisplay(size image.Point, fullscreen bool) *WindowDisplay {
	w := gocv.NewWindow(WindowTitle)
	if fullscreen {
		w.SetWindowProperty(gocv.WindowPropertyFullscreen, gocv.WindowFullscreen)
	} else {
		w.ResizeWindow(size.X, size.Y)
	}
	return &WindowDisplay{
		window:  w,
		surface: render.NewMatSurface(size, render.DefaultFont()),
	}
}

func (d *WindowDisplay) Surface() render.Surface { return d.surface }

func (d *WindowDisplay) Present() {
	d.window.IMShow(*d.surface.Mat())
}

// PollKey also pumps the HighGUI event loop.
func (d *WindowDisplay) PollKey() int {
	return d.window.WaitKey(1)
}

func (d *WindowDisplay) Closed() bool {
	return d.window.GetWindowProperty(gocv.WindowPropertyVisible) < 1
}

func (d *WindowDisplay) Close() error {
	d.surface.Close()
	return d.window.Close()
}
