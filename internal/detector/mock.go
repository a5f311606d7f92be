package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests and the demo mode to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error. The frame is ignored.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// finger base columns for synthetic hands, index to pinky
var fingerColumns = [4]float64{0.56, 0.50, 0.44, 0.38}

// SyntheticHand builds an upright right hand with the wrist at (0.5, 0.8).
// Each flag straightens the matching digit (thumb, index, middle, ring,
// pinky); a false flag folds the tip back toward the palm so it sits closer
// to the wrist than its proximal joint.
func SyntheticHand(thumb, index, middle, ring, pinky bool) HandLandmarks {
	points := make([]Point3D, NumLandmarks)
	points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	points[ThumbCMC] = Point3D{X: 0.54, Y: 0.77, Z: 0.01}
	points[ThumbMCP] = Point3D{X: 0.58, Y: 0.72, Z: 0.02}
	if thumb {
		points[ThumbIP] = Point3D{X: 0.65, Y: 0.66, Z: 0.02}
		points[ThumbTip] = Point3D{X: 0.72, Y: 0.60, Z: 0.02}
	} else {
		points[ThumbIP] = Point3D{X: 0.57, Y: 0.75, Z: -0.01}
		points[ThumbTip] = Point3D{X: 0.53, Y: 0.74, Z: -0.02}
	}

	extended := [4]bool{index, middle, ring, pinky}
	for f, col := range fingerColumns {
		mcp := IndexMCP + f*4
		points[mcp] = Point3D{X: col, Y: 0.68}
		points[mcp+1] = Point3D{X: col, Y: 0.58}
		if extended[f] {
			points[mcp+2] = Point3D{X: col, Y: 0.48}
			points[mcp+3] = Point3D{X: col, Y: 0.38}
		} else {
			points[mcp+2] = Point3D{X: col, Y: 0.57, Z: -0.04}
			points[mcp+3] = Point3D{X: col, Y: 0.66, Z: -0.03}
		}
	}

	return HandLandmarks{
		Points:     points,
		Handedness: "Right",
		Score:      0.95,
	}
}

// OpenPalmLandmarks returns a hand with every digit extended.
func OpenPalmLandmarks() HandLandmarks {
	return SyntheticHand(true, true, true, true, true)
}

// FistLandmarks returns a hand with every digit curled.
func FistLandmarks() HandLandmarks {
	return SyntheticHand(false, false, false, false, false)
}

// ThumbsUpLandmarks returns a hand with only the thumb extended.
func ThumbsUpLandmarks() HandLandmarks {
	return SyntheticHand(true, false, false, false, false)
}

// VictoryLandmarks returns a hand with index and middle fingers extended.
func VictoryLandmarks() HandLandmarks {
	return SyntheticHand(false, true, true, false, false)
}

// RockOnLandmarks returns a hand with index and pinky fingers extended.
func RockOnLandmarks() HandLandmarks {
	return SyntheticHand(false, true, false, false, true)
}

// PinchLandmarks returns an open hand whose thumb tip sits gap units to the
// right of the index tip.
func PinchLandmarks(gap float64) HandLandmarks {
	h := OpenPalmLandmarks()
	tip := h.Points[IndexTip]
	h.Points[ThumbTip] = Point3D{X: tip.X + gap, Y: tip.Y, Z: tip.Z}
	return h
}

// Translate returns a copy of h with every joint shifted by (dx, dy).
func Translate(h HandLandmarks, dx, dy float64) HandLandmarks {
	out := h
	out.Points = make([]Point3D, len(h.Points))
	for i, p := range h.Points {
		out.Points[i] = Point3D{X: p.X + dx, Y: p.Y + dy, Z: p.Z}
	}
	return out
}
