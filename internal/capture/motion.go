package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion detection defaults.
const (
	DefaultMotionThreshold = 1.0
	DefaultBlurSize        = 21
	DefaultPixelDelta      = 25
)

// MotionConfig tunes a MotionDetector. Threshold is the share of pixels,
// in percent, that must change between frames. PixelDelta is the gray
// level difference that counts as a change.
type MotionConfig struct {
	Threshold  float64
	BlurSize   int
	PixelDelta float32
}

// DefaultMotionConfig returns the settings used by the game.
func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		Threshold:  DefaultMotionThreshold,
		BlurSize:   DefaultBlurSize,
		PixelDelta: DefaultPixelDelta,
	}
}

// MotionDetector compares each frame against the previous one. The player
// standing still lets the pipeline drop to its idle frame rate.
type MotionDetector struct {
	config MotionConfig
	prev   gocv.Mat
	primed bool
	mu     sync.Mutex
}

// NewMotionDetector creates a MotionDetector. Non-positive fields of config
// take their defaults; BlurSize is forced odd.
func NewMotionDetector(config MotionConfig) *MotionDetector {
	def := DefaultMotionConfig()
	if config.Threshold <= 0 {
		config.Threshold = def.Threshold
	}
	if config.BlurSize <= 0 {
		config.BlurSize = def.BlurSize
	}
	if config.BlurSize%2 == 0 {
		config.BlurSize++
	}
	if config.PixelDelta <= 0 {
		config.PixelDelta = def.PixelDelta
	}
	return &MotionDetector{config: config, prev: gocv.NewMat()}
}

// Detect reports whether frame differs from the previous frame and the
// percentage of changed pixels. The first frame only primes the detector.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := m.config.BlurSize
	gocv.GaussianBlur(gray, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault)

	if !m.primed || m.prev.Rows() != blurred.Rows() || m.prev.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prev)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prev, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, m.config.PixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100
	blurred.CopyTo(&m.prev)

	return changed > m.config.Threshold, changed
}

// Threshold returns the change percentage above which motion is reported.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config.Threshold
}

// SetThreshold changes the change percentage. Values <= 0 are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config.Threshold = threshold
}

// Reset forgets the previous frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases the stored frame. It is safe to call more than once.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prev.Empty() {
		m.prev.Close()
		m.prev = gocv.NewMat()
	}
	m.primed = false
}
