package particle

import "math"

// ClampStep bounds dt to [0, MaxStep].
func ClampStep(dt float64) float64 {
	switch {
	case dt < 0 || math.IsNaN(dt):
		return 0
	case dt > MaxStep:
		return MaxStep
	}
	return dt
}

// Step advances the field by dt seconds. For every particle, in order: the
// home spring, the gesture force if a hand is present, damping,
// semi-implicit Euler integration, then the gesture color if a hand is
// present. in.Elapsed is advanced before any force is evaluated.
func (f *Field) Step(in *Interaction, dt float64) {
	f.checkBuffers()

	dt = ClampStep(dt)
	in.Elapsed += dt

	var (
		force forceFunc
		paint painter
	)
	if in.HandPresent {
		force = forceFor(in.Gesture.Category)
		paint = painterFor(in.Gesture.Category)
	}

	for i := range f.positions {
		f.velocities[i] = f.velocities[i].Add(f.homes[i].Sub(f.positions[i]).Mul(HomeStiffness * dt))

		if force != nil {
			force(f, i, in, dt)
		}

		f.velocities[i] = f.velocities[i].Mul(Damping)
		f.positions[i] = f.positions[i].Add(f.velocities[i].Mul(dt))

		if paint != nil {
			paint(f, i, in)
		}
	}
}
