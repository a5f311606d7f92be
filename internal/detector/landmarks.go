// Package detector provides hand pose types and the pose-provider interface
// that feeds the gesture classifier.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Palm is the landmark used as the hand's position in the scene.
const Palm = MiddleMCP

// Point3D is a single tracked joint. X and Y are normalized image
// coordinates in [0,1]; Z is depth relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand. A complete detection carries
// NumLandmarks points; providers may hand over fewer when tracking is partial.
type HandLandmarks struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
}

// Complete reports whether all 21 joints are present.
func (h *HandLandmarks) Complete() bool {
	return h != nil && len(h.Points) >= NumLandmarks
}

// PalmPoint returns the palm joint and whether the pose contains it.
func (h *HandLandmarks) PalmPoint() (Point3D, bool) {
	if h == nil || len(h.Points) <= Palm {
		return Point3D{}, false
	}
	return h.Points[Palm], true
}
