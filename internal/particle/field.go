// Package particle simulates a fixed population of particles that rest on a
// home shell and react to the current hand gesture.
package particle

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Simulation constants shared by every gesture.
const (
	// DefaultCount is the population size used by the application.
	DefaultCount = 25000
	// DefaultRadius is the radius of the solid sphere particles are seeded in.
	DefaultRadius = 80.0

	// HomeStiffness scales the spring pulling each particle back home.
	HomeStiffness = 1.5
	// Damping is applied to every velocity once per tick.
	Damping = 0.92
	// MaxStep bounds dt so a frame hitch cannot blow up the integration.
	MaxStep = 0.1
)

// Config controls how a Field is seeded.
type Config struct {
	Count  int
	Radius float64
	Seed   uint64
}

// DefaultConfig returns the configuration used by the application.
func DefaultConfig() Config {
	return Config{
		Count:  DefaultCount,
		Radius: DefaultRadius,
		Seed:   1,
	}
}

// Field owns the particle buffers. The buffers are parallel slices indexed
// by particle; their length is fixed at construction and nothing is
// allocated while stepping.
type Field struct {
	positions  []mgl64.Vec3
	velocities []mgl64.Vec3
	homes      []mgl64.Vec3
	colors     []colorful.Color

	radius float64
	rng    *rand.Rand
}

// NewField seeds cfg.Count particles uniformly inside a solid sphere. Each
// particle starts at rest on its home position, colored by its height.
// A non-positive count is a programming error and panics.
func NewField(cfg Config) *Field {
	if cfg.Count <= 0 {
		panic(fmt.Sprintf("particle: invalid count %d", cfg.Count))
	}
	if cfg.Radius <= 0 {
		cfg.Radius = DefaultRadius
	}

	f := &Field{
		positions:  make([]mgl64.Vec3, cfg.Count),
		velocities: make([]mgl64.Vec3, cfg.Count),
		homes:      make([]mgl64.Vec3, cfg.Count),
		colors:     make([]colorful.Color, cfg.Count),
		radius:     cfg.Radius,
		rng:        rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}

	for i := range f.homes {
		home := randomInBall(f.rng, cfg.Radius)
		f.homes[i] = home
		f.positions[i] = home
		f.colors[i] = f.restColor(i)
	}

	return f
}

// randomInBall returns a point distributed uniformly inside a ball.
func randomInBall(rng *rand.Rand, radius float64) mgl64.Vec3 {
	for {
		dir := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		l := dir.Len()
		if l < 1e-9 {
			continue
		}
		r := radius * math.Cbrt(rng.Float64())
		return dir.Mul(r / l)
	}
}

// Len returns the number of particles.
func (f *Field) Len() int { return len(f.positions) }

// Radius returns the seeding radius.
func (f *Field) Radius() float64 { return f.radius }

// Position returns the current position of particle i.
func (f *Field) Position(i int) mgl64.Vec3 { return f.positions[i] }

// Velocity returns the current velocity of particle i.
func (f *Field) Velocity(i int) mgl64.Vec3 { return f.velocities[i] }

// Home returns the rest position of particle i.
func (f *Field) Home(i int) mgl64.Vec3 { return f.homes[i] }

// Color returns the current color of particle i.
func (f *Field) Color(i int) colorful.Color { return f.colors[i] }

// Export flattens positions and colors into xyz/rgb float32 buffers owned by
// the caller. Both buffers must hold exactly 3*Len() values.
func (f *Field) Export(positions, colors []float32) {
	n := len(f.positions)
	if len(positions) != 3*n || len(colors) != 3*n {
		panic(fmt.Sprintf("particle: export buffers %d/%d, want %d", len(positions), len(colors), 3*n))
	}

	for i, p := range f.positions {
		positions[3*i] = float32(p[0])
		positions[3*i+1] = float32(p[1])
		positions[3*i+2] = float32(p[2])

		c := f.colors[i]
		colors[3*i] = float32(c.R)
		colors[3*i+1] = float32(c.G)
		colors[3*i+2] = float32(c.B)
	}
}

// checkBuffers panics if the parallel buffers have drifted apart.
func (f *Field) checkBuffers() {
	n := len(f.positions)
	if len(f.velocities) != n || len(f.homes) != n || len(f.colors) != n {
		panic(fmt.Sprintf("particle: buffer lengths diverged: pos=%d vel=%d home=%d color=%d",
			n, len(f.velocities), len(f.homes), len(f.colors)))
	}
}
