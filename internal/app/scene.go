package app

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/framing"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/particle"
)

// MaxHands is the number of poses a tick considers. Extra poses are ignored.
const MaxHands = 2

// Input is what one tick consumes.
type Input struct {
	Hands []detector.HandLandmarks
	// Dt is the time since the previous tick in seconds, before clamping.
	Dt  float64
	Now time.Time
}

// Output is what one tick produces besides the particle buffers.
type Output struct {
	Tick        uint64
	Gesture     gesture.Classification
	HandPresent bool
	Camera      framing.Pose
	// Trigger is set on the tick the two-hand DOUBLE_PALM fired.
	Trigger bool
}

// Context is the cross-tick state of a scene. It is owned by the tick
// goroutine.
type Context struct {
	Interaction particle.Interaction
	Compound    gesture.CompoundDetector
	Camera      *framing.Controller
	Ticks       uint64
}

// NewContext returns a fresh context with the camera at its rest pose.
func NewContext(cfg framing.Config) *Context {
	return &Context{Camera: framing.NewController(cfg)}
}

// Scene runs the per-tick data flow over one particle field.
type Scene struct {
	field *particle.Field
	bound float64
}

// NewScene wraps field. Hand positions are mapped into [-bound, bound].
func NewScene(field *particle.Field, bound float64) *Scene {
	return &Scene{field: field, bound: bound}
}

// Field returns the simulated field. Only the tick goroutine may touch it.
func (s *Scene) Field() *particle.Field { return s.field }

// Tick classifies the hands, feeds the compound detector, updates the
// interaction, steps the field and frames the camera, in that order.
func (s *Scene) Tick(ctx *Context, in Input) Output {
	hands := in.Hands
	if len(hands) > MaxHands {
		hands = hands[:MaxHands]
	}

	classes := make([]gesture.Classification, len(hands))
	for i := range hands {
		classes[i] = gesture.Classify(&hands[i])
	}

	trigger := ctx.Compound.Observe(in.Now, classes...)

	var (
		present bool
		target  mgl64.Vec3
		primary gesture.Classification
	)
	if len(hands) > 0 {
		if palm, ok := hands[0].PalmPoint(); ok {
			present = true
			target = s.toWorld(palm)
			primary = classes[0]
		}
	}

	ctx.Interaction.Observe(present, target, primary)
	s.field.Step(&ctx.Interaction, in.Dt)
	pose := ctx.Camera.Update(present, ctx.Interaction.HandPosition, particle.ClampStep(in.Dt), in.Now)

	ctx.Ticks++
	return Output{
		Tick:        ctx.Ticks,
		Gesture:     ctx.Interaction.Gesture,
		HandPresent: present,
		Camera:      pose,
		Trigger:     trigger,
	}
}

// toWorld maps a normalized image point into the interaction area. x is
// mirrored so the field moves with the user, y is flipped to point up.
func (s *Scene) toWorld(p detector.Point3D) mgl64.Vec3 {
	return mgl64.Vec3{
		(0.5 - p.X) * 2 * s.bound,
		(0.5 - p.Y) * 2 * s.bound,
		0,
	}
}
