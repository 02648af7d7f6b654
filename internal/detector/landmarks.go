// Package detector provides body pose detection interfaces and types.
package detector

// Pose landmark indices following the MediaPipe pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Landmark is a normalized [0,1] webcam position tagged with its landmark id.
// Coordinates are not mirrored.
type Landmark struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	ID int     `json:"id"`
}

// PoseLine connects two landmarks of the skeleton.
type PoseLine struct {
	Start Landmark `json:"start"`
	End   Landmark `json:"end"`
}

// Connection is an unordered pair of landmark ids.
type Connection [2]int

// PoseConnections is the fixed skeleton in the order lines are produced.
var PoseConnections = []Connection{
	{8, 6}, {6, 5}, {5, 4}, {4, 0}, {0, 1}, {1, 2},
	{2, 3}, {3, 7}, {10, 9}, {18, 20}, {20, 16}, {16, 18},
	{16, 22}, {16, 14}, {14, 12}, {19, 17}, {17, 15}, {15, 19},
	{15, 21}, {15, 13}, {13, 11}, {12, 11}, {12, 24}, {11, 23},
	{24, 23}, {24, 26}, {26, 28}, {28, 32}, {32, 30}, {30, 28},
	{23, 25}, {25, 27}, {27, 29}, {29, 31}, {31, 27},
}

// ValidID reports whether id belongs to the pose landmark schema.
func ValidID(id int) bool {
	return id >= 0 && id < NumLandmarks
}

// PoseLandmarks represents the 33 body landmarks detected for one person.
type PoseLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Visibility [NumLandmarks]float64 `json:"visibility"`
	Score      float64               `json:"score"`
}

// Lines returns one PoseLine per skeleton connection whose two landmarks are
// both at least minVisibility visible.
func (p *PoseLandmarks) Lines(minVisibility float64) []PoseLine {
	if p == nil {
		return nil
	}

	lines := make([]PoseLine, 0, len(PoseConnections))
	for _, c := range PoseConnections {
		a, b := c[0], c[1]
		if p.Visibility[a] < minVisibility || p.Visibility[b] < minVisibility {
			continue
		}
		lines = append(lines, PoseLine{
			Start: Landmark{X: p.Points[a].X, Y: p.Points[a].Y, ID: a},
			End:   Landmark{X: p.Points[b].X, Y: p.Points[b].Y, ID: b},
		})
	}
	return lines
}
