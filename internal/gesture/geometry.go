package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// Distance returns the Euclidean distance between two joints.
func Distance(a, b detector.Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// IsExtended reports whether the digit ending at tip is straightened away
// from the palm: its tip is farther from the wrist than its proximal joint.
// Comparing distances to the wrist keeps the test independent of how the
// hand is rotated on screen.
func IsExtended(hand *detector.HandLandmarks, tip, proximal int) bool {
	wrist := hand.Points[detector.Wrist]
	return Distance(wrist, hand.Points[tip]) > Distance(wrist, hand.Points[proximal])
}
