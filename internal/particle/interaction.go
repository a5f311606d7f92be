package particle

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/mudra/internal/gesture"
)

// SmoothingFactor is the fraction of the remaining distance the tracked hand
// position closes each tick. It is applied per tick, not per second.
const SmoothingFactor = 0.2

// Interaction is the hand state the field reacts to. It is updated once per
// tick and carried between ticks by the caller.
type Interaction struct {
	HandPosition mgl64.Vec3
	Gesture      gesture.Classification
	HandPresent  bool
	// Elapsed is simulation time in seconds, advanced by Step.
	Elapsed float64
}

// Observe records this tick's hand. While a hand is present its position is
// eased toward target; when absent the last position is kept and the
// gesture resets to NONE.
func (s *Interaction) Observe(present bool, target mgl64.Vec3, c gesture.Classification) {
	s.HandPresent = present
	if !present {
		s.Gesture = gesture.Classification{Category: gesture.None}
		return
	}
	s.HandPosition = s.HandPosition.Add(target.Sub(s.HandPosition).Mul(SmoothingFactor))
	s.Gesture = c
}
