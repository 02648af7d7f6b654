package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	lines []PoseLine
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetLines sets the pose lines that will be returned by Detect.
func (m *MockDetector) SetLines(lines []PoseLine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = lines
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured lines or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]PoseLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.lines, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// StandingLandmarks returns a preset PoseLandmarks of a person standing in
// the middle of the frame with arms hanging down. Coordinates are in
// un-mirrored webcam space, so the person's right side has the smaller x.
func StandingLandmarks() PoseLandmarks {
	lm := PoseLandmarks{Score: 0.95}

	// Face
	lm.Points[Nose] = Point3D{X: 0.50, Y: 0.20}
	lm.Points[LeftEyeInner] = Point3D{X: 0.51, Y: 0.185}
	lm.Points[LeftEye] = Point3D{X: 0.52, Y: 0.185}
	lm.Points[LeftEyeOuter] = Point3D{X: 0.53, Y: 0.185}
	lm.Points[RightEyeInner] = Point3D{X: 0.49, Y: 0.185}
	lm.Points[RightEye] = Point3D{X: 0.48, Y: 0.185}
	lm.Points[RightEyeOuter] = Point3D{X: 0.47, Y: 0.185}
	lm.Points[LeftEar] = Point3D{X: 0.55, Y: 0.20}
	lm.Points[RightEar] = Point3D{X: 0.45, Y: 0.20}
	lm.Points[MouthLeft] = Point3D{X: 0.515, Y: 0.235}
	lm.Points[MouthRight] = Point3D{X: 0.485, Y: 0.235}

	// Arms hanging down
	lm.Points[LeftShoulder] = Point3D{X: 0.60, Y: 0.32}
	lm.Points[RightShoulder] = Point3D{X: 0.40, Y: 0.32}
	lm.Points[LeftElbow] = Point3D{X: 0.65, Y: 0.45}
	lm.Points[RightElbow] = Point3D{X: 0.35, Y: 0.45}
	lm.Points[LeftWrist] = Point3D{X: 0.67, Y: 0.57}
	lm.Points[RightWrist] = Point3D{X: 0.33, Y: 0.57}
	lm.Points[LeftPinky] = Point3D{X: 0.68, Y: 0.60}
	lm.Points[RightPinky] = Point3D{X: 0.32, Y: 0.60}
	lm.Points[LeftIndex] = Point3D{X: 0.675, Y: 0.61}
	lm.Points[RightIndex] = Point3D{X: 0.325, Y: 0.61}
	lm.Points[LeftThumb] = Point3D{X: 0.66, Y: 0.60}
	lm.Points[RightThumb] = Point3D{X: 0.34, Y: 0.60}

	// Legs
	lm.Points[LeftHip] = Point3D{X: 0.56, Y: 0.60}
	lm.Points[RightHip] = Point3D{X: 0.44, Y: 0.60}
	lm.Points[LeftKnee] = Point3D{X: 0.57, Y: 0.75}
	lm.Points[RightKnee] = Point3D{X: 0.43, Y: 0.75}
	lm.Points[LeftAnkle] = Point3D{X: 0.57, Y: 0.90}
	lm.Points[RightAnkle] = Point3D{X: 0.43, Y: 0.90}
	lm.Points[LeftHeel] = Point3D{X: 0.565, Y: 0.92}
	lm.Points[RightHeel] = Point3D{X: 0.435, Y: 0.92}
	lm.Points[LeftFootIndex] = Point3D{X: 0.59, Y: 0.93}
	lm.Points[RightFootIndex] = Point3D{X: 0.41, Y: 0.93}

	for i := range lm.Visibility {
		lm.Visibility[i] = 0.99
	}

	return lm
}

// ArmsRaisedLandmarks returns a preset PoseLandmarks of the standing person
// with both hands held above the head.
func ArmsRaisedLandmarks() PoseLandmarks {
	lm := StandingLandmarks()

	lm.Points[LeftElbow] = Point3D{X: 0.64, Y: 0.18}
	lm.Points[RightElbow] = Point3D{X: 0.36, Y: 0.18}
	lm.Points[LeftWrist] = Point3D{X: 0.62, Y: 0.05}
	lm.Points[RightWrist] = Point3D{X: 0.38, Y: 0.05}
	lm.Points[LeftPinky] = Point3D{X: 0.63, Y: 0.03}
	lm.Points[RightPinky] = Point3D{X: 0.37, Y: 0.03}
	lm.Points[LeftIndex] = Point3D{X: 0.62, Y: 0.02}
	lm.Points[RightIndex] = Point3D{X: 0.38, Y: 0.02}
	lm.Points[LeftThumb] = Point3D{X: 0.61, Y: 0.04}
	lm.Points[RightThumb] = Point3D{X: 0.39, Y: 0.04}

	return lm
}
