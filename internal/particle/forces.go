package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/mudra/internal/gesture"
)

// Gesture force parameters. Radii are in scene units around the smoothed
// hand position; gains are accelerations multiplied by dt.
const (
	swirlRadius  = 40.0
	swirlGain    = 1.5
	swirlPull    = 2.0
	swirlWobble  = 8.0
	swirlWobbleW = 4.0

	fistRadius = 50.0
	fistGain   = 20.0

	pinchRadius = 60.0
	pinchGain   = 150.0

	liftRadius = 40.0
	liftGain   = 60.0
	liftWaveK  = 0.1
	liftWaveW  = 5.0

	orbitRadius    = 40.0
	orbitAmplitude = 20.0
	orbitGain      = 4.0

	jitterRadius = 60.0
	jitterGain   = 200.0

	passiveRadius = 15.0
	passiveGain   = 10.0
)

// forceFunc adds one gesture's acceleration to particle i's velocity.
type forceFunc func(f *Field, i int, in *Interaction, dt float64)

var forceTable = map[gesture.Category]forceFunc{
	gesture.OpenHand:   swirl,
	gesture.ClosedFist: repel,
	gesture.Pinch:      attract,
	gesture.Victory:    lift,
	gesture.ThumbsUp:   orbit,
	gesture.RockOn:     jitter,
}

// forceFor returns the force for a category. Categories without an entry,
// NONE included, get the short-range passive repulsion.
func forceFor(c gesture.Category) forceFunc {
	if fn, ok := forceTable[c]; ok {
		return fn
	}
	return passiveRepel
}

// offsetFrom returns the unit direction from the hand to particle i and the
// distance between them. A particle sitting exactly on the hand gets +Y.
func (f *Field) offsetFrom(i int, hand mgl64.Vec3) (mgl64.Vec3, float64) {
	d := f.positions[i].Sub(hand)
	dist := d.Len()
	if dist < 1e-9 {
		return mgl64.Vec3{0, 1, 0}, 0
	}
	return d.Mul(1 / dist), dist
}

// swirl spins particles around the hand in the XY plane, pulls them gently
// inward and bobs them vertically with a per-particle phase.
func swirl(f *Field, i int, in *Interaction, dt float64) {
	dir, dist := f.offsetFrom(i, in.HandPosition)
	if dist >= swirlRadius {
		return
	}
	tangent := mgl64.Vec3{-dir[1], dir[0], 0}
	v := f.velocities[i].
		Add(tangent.Mul((swirlRadius - dist) * swirlGain * dt)).
		Sub(dir.Mul(dist * swirlPull * dt))
	v[1] += math.Sin(in.Elapsed*swirlWobbleW+float64(i)*0.1) * swirlWobble * dt
	f.velocities[i] = v
}

// repel pushes particles straight away from the hand.
func repel(f *Field, i int, in *Interaction, dt float64) {
	dir, dist := f.offsetFrom(i, in.HandPosition)
	if dist >= fistRadius {
		return
	}
	f.velocities[i] = f.velocities[i].Add(dir.Mul((fistRadius - dist) * fistGain * dt))
}

// attract draws particles toward the hand, harder the tighter the pinch.
func attract(f *Field, i int, in *Interaction, dt float64) {
	dir, dist := f.offsetFrom(i, in.HandPosition)
	if dist >= pinchRadius || dist == 0 {
		return
	}
	f.velocities[i] = f.velocities[i].Sub(dir.Mul(pinchGain * in.Gesture.Strength * dt))
}

// lift raises and lowers particles on a wave travelling along x.
func lift(f *Field, i int, in *Interaction, dt float64) {
	_, dist := f.offsetFrom(i, in.HandPosition)
	if dist >= liftRadius {
		return
	}
	x := f.positions[i][0]
	f.velocities[i][1] += math.Sin(x*liftWaveK+in.Elapsed*liftWaveW) * liftGain * dt
}

// orbit steers each particle toward its own point on a Lissajous curve
// around the hand.
func orbit(f *Field, i int, in *Interaction, dt float64) {
	_, dist := f.offsetFrom(i, in.HandPosition)
	if dist >= orbitRadius {
		return
	}
	phase := float64(i) * 0.1
	t := in.Elapsed
	target := in.HandPosition.Add(mgl64.Vec3{
		math.Sin(2*t+phase) * orbitAmplitude,
		math.Sin(3*t+phase) * orbitAmplitude,
		math.Cos(2*t+phase) * orbitAmplitude,
	})
	f.velocities[i] = f.velocities[i].Add(target.Sub(f.positions[i]).Mul(orbitGain * dt))
}

// jitter shakes particles with uniform noise on every axis.
func jitter(f *Field, i int, in *Interaction, dt float64) {
	_, dist := f.offsetFrom(i, in.HandPosition)
	if dist >= jitterRadius {
		return
	}
	amp := jitterGain * dt
	v := f.velocities[i]
	v[0] += (f.rng.Float64()*2 - 1) * amp
	v[1] += (f.rng.Float64()*2 - 1) * amp
	v[2] += (f.rng.Float64()*2 - 1) * amp
	f.velocities[i] = v
}

// passiveRepel keeps particles from passing through a hand that is present
// but not making a recognised gesture.
func passiveRepel(f *Field, i int, in *Interaction, dt float64) {
	dir, dist := f.offsetFrom(i, in.HandPosition)
	if dist >= passiveRadius {
		return
	}
	f.velocities[i] = f.velocities[i].Add(dir.Mul((passiveRadius - dist) * passiveGain * dt))
}
