package app

import (
	"context"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/posejump/internal/detector"
	"github.com/ayusman/posejump/internal/render"
)

// skeletonThickness is the line width of the skeleton drawn on the feed.
const skeletonThickness = 2

// Start opens the camera and starts the detection pipeline.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.governor.FPS())

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(ctx, a.stopCh, a.done)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the pipeline and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// runPipeline reads frames, detects the pose and publishes the annotated,
// mirrored frame with the raw pose lines. Motion switches the capture rate
// between idle and active; detection runs at either rate so the pose keeps
// updating while the player holds still.
func (a *App) runPipeline(ctx context.Context, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.governor.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
		}

		frame, err := a.Camera().ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			continue
		}

		moved, _ := a.motion.Detect(frame)
		if fps, changed := a.governor.Observe(moved, time.Now()); changed {
			a.Camera().SetFPS(fps)
			ticker.Reset(a.governor.Interval())
			if moved {
				log.Println("Switched to active mode")
			} else {
				log.Println("Switched to idle mode")
			}
		}

		a.processFrame(frame)
		frame.Close()
	}
}

// processFrame runs detection on one frame and publishes the result. A
// failed detection publishes the frame with no pose.
func (a *App) processFrame(frame *gocv.Mat) {
	var lines []detector.PoseLine
	if d := a.Detector(); d != nil {
		var err error
		lines, err = d.Detect(frame)
		if err != nil {
			log.Printf("Error detecting pose: %v", err)
			lines = nil
		}
	}

	mirrored := gocv.NewMat()
	defer mirrored.Close()
	gocv.Flip(*frame, &mirrored, 1)
	render.Skeleton(&mirrored, lines, true, skeletonThickness)

	img, err := mirrored.ToImage()
	if err != nil {
		log.Printf("Error converting frame: %v", err)
		return
	}
	a.poses.Publish(img, lines)
}
