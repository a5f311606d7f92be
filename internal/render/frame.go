// Package render holds the per-tick snapshot handed to renderer clients and
// its wire encoding.
package render

import (
	"github.com/ayusman/mudra/internal/framing"
	"github.com/ayusman/mudra/internal/gesture"
)

// Frame is a read-only copy of one completed tick. Positions and Colors are
// flattened xyz/rgb triples, one per particle.
type Frame struct {
	Tick        uint64
	TimestampMs int64
	Gesture     gesture.Classification
	HandPresent bool
	// Trigger is set on the tick DOUBLE_PALM fired.
	Trigger   bool
	Camera    framing.Pose
	Positions []float32
	Colors    []float32
}

// NewFrame allocates a frame with buffers sized for count particles.
func NewFrame(count int) *Frame {
	return &Frame{
		Positions: make([]float32, 3*count),
		Colors:    make([]float32, 3*count),
	}
}

// Count returns the number of particles in the frame.
func (f *Frame) Count() int {
	return len(f.Positions) / 3
}

// Status is the JSON status message sent alongside binary frames.
type Status struct {
	Tick        uint64                 `json:"tick"`
	Gesture     gesture.Classification `json:"gesture"`
	HandPresent bool                   `json:"hand_present"`
	Trigger     bool                   `json:"trigger,omitempty"`
	Camera      framing.Pose           `json:"camera"`
}

// Status returns the frame's header fields without the particle buffers.
func (f *Frame) Status() Status {
	return Status{
		Tick:        f.Tick,
		Gesture:     f.Gesture,
		HandPresent: f.HandPresent,
		Trigger:     f.Trigger,
		Camera:      f.Camera,
	}
}
