package particle

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/gesture"
)

const tick = 1.0 / 60

// newTestField builds a field whose particles rest at the given homes.
func newTestField(homes ...mgl64.Vec3) *Field {
	f := &Field{
		positions:  make([]mgl64.Vec3, len(homes)),
		velocities: make([]mgl64.Vec3, len(homes)),
		homes:      make([]mgl64.Vec3, len(homes)),
		colors:     make([]colorful.Color, len(homes)),
		radius:     DefaultRadius,
		rng:        rand.New(rand.NewPCG(3, 4)),
	}
	copy(f.homes, homes)
	copy(f.positions, homes)
	for i := range f.colors {
		f.colors[i] = f.restColor(i)
	}
	return f
}

func handAt(c gesture.Category, strength float64, pos mgl64.Vec3) *Interaction {
	return &Interaction{
		HandPosition: pos,
		HandPresent:  true,
		Gesture:      gesture.Classification{Category: c, Strength: strength},
	}
}

func TestNewField_Seeding(t *testing.T) {
	f := NewField(Config{Count: 2000, Radius: 80, Seed: 42})
	require.Equal(t, 2000, f.Len())

	maxR := 0.0
	for i := 0; i < f.Len(); i++ {
		home := f.Home(i)
		assert.Equal(t, home, f.Position(i))
		assert.Equal(t, mgl64.Vec3{}, f.Velocity(i))
		maxR = math.Max(maxR, home.Len())
	}
	assert.LessOrEqual(t, maxR, 80.0)
	// a uniform ball puts most of its volume near the surface
	assert.Greater(t, maxR, 75.0)

	again := NewField(Config{Count: 2000, Radius: 80, Seed: 42})
	assert.Equal(t, f.Home(1234), again.Home(1234), "same seed, same layout")
}

func TestNewField_DefaultsAndPanics(t *testing.T) {
	f := NewField(Config{Count: 10})
	assert.Equal(t, DefaultRadius, f.Radius())

	assert.Panics(t, func() { NewField(Config{Count: 0}) })
}

func TestStep_ConservesCountAndHomes(t *testing.T) {
	f := NewField(Config{Count: 3000, Radius: 80, Seed: 9})
	homes := make([]mgl64.Vec3, f.Len())
	for i := range homes {
		homes[i] = f.Home(i)
	}

	categories := []gesture.Category{
		gesture.OpenHand, gesture.ClosedFist, gesture.Pinch, gesture.Victory,
		gesture.ThumbsUp, gesture.RockOn, gesture.None,
	}
	for n := 0; n < 140; n++ {
		in := handAt(categories[n%len(categories)], 0.7, mgl64.Vec3{10, -5, 0})
		in.HandPresent = n%5 != 0
		f.Step(in, tick)
	}

	require.Equal(t, 3000, f.Len())
	for i := range homes {
		if f.Home(i) != homes[i] {
			t.Fatalf("home %d changed: %v -> %v", i, homes[i], f.Home(i))
		}
		v := f.Velocity(i)
		require.False(t, math.IsNaN(v.Len()) || math.IsInf(v.Len(), 0), "velocity %d not finite", i)
	}
}

func TestStep_DampingRatio(t *testing.T) {
	f := newTestField(mgl64.Vec3{0, 0, 0})
	f.velocities[0] = mgl64.Vec3{30, -10, 5}
	in := &Interaction{}

	prev := f.Velocity(0).Len()
	for n := 0; n < 5; n++ {
		f.Step(in, tick)
		cur := f.Velocity(0).Len()
		assert.InDelta(t, Damping, cur/prev, 0.01, "tick %d", n)
		prev = cur
	}

	for n := 0; n < 2400; n++ {
		f.Step(in, tick)
	}
	assert.Less(t, f.Velocity(0).Len(), 1e-3)
	assert.Less(t, f.Position(0).Len(), 1e-2)
}

func TestStep_ReturnsHomeWithoutOvershoot(t *testing.T) {
	home := mgl64.Vec3{20, 10, -5}
	f := newTestField(home)
	offset := mgl64.Vec3{15, -8, 4}
	f.positions[0] = home.Add(offset)
	in := &Interaction{}

	for n := 0; n < 600; n++ {
		f.Step(in, tick)
		d := f.Position(0).Sub(home)
		require.Greater(t, d.Dot(offset), 0.0, "overshot home at tick %d", n)
		require.LessOrEqual(t, d.Len(), offset.Len())
	}
	assert.Less(t, f.Position(0).Sub(home).Len(), 0.1*offset.Len())
}

func TestStep_IdleFieldStaysHome(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full-size field")
	}

	f := NewField(DefaultConfig())
	in := &Interaction{}
	for n := 0; n < 300; n++ {
		f.Step(in, tick)
	}

	require.Equal(t, DefaultCount, f.Len())
	for i := 0; i < f.Len(); i++ {
		require.InDelta(t, 0, f.Position(i).Sub(f.Home(i)).Len(), 1e-9)
		require.InDelta(t, 0, f.Velocity(i).Len(), 1e-9)
	}
	assert.InDelta(t, 5.0, in.Elapsed, 1e-9)
}

func TestStep_FistPushesOutward(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full-size field")
	}

	f := NewField(DefaultConfig())
	in := handAt(gesture.ClosedFist, 1, mgl64.Vec3{})

	var inside []int
	start := make(map[int]float64)
	for i := 0; i < f.Len(); i++ {
		if d := f.Position(i).Len(); d < fistRadius {
			inside = append(inside, i)
			start[i] = d
		}
	}
	require.NotEmpty(t, inside)

	for n := 0; n < 60; n++ {
		in.Observe(true, mgl64.Vec3{}, in.Gesture)
		f.Step(in, tick)
	}

	for _, i := range inside {
		require.Greater(t, f.Position(i).Len(), start[i], "particle %d moved inward", i)
	}
}

func TestStep_ClampsStep(t *testing.T) {
	a := newTestField(mgl64.Vec3{})
	b := newTestField(mgl64.Vec3{})
	a.positions[0] = mgl64.Vec3{10, 0, 0}
	b.positions[0] = mgl64.Vec3{10, 0, 0}

	ina, inb := &Interaction{}, &Interaction{}
	a.Step(ina, 2.5)
	b.Step(inb, MaxStep)
	assert.Equal(t, b.Position(0), a.Position(0))
	assert.Equal(t, MaxStep, ina.Elapsed)

	c := newTestField(mgl64.Vec3{})
	c.positions[0] = mgl64.Vec3{10, 0, 0}
	inc := &Interaction{}
	c.Step(inc, -1)
	assert.Equal(t, mgl64.Vec3{10, 0, 0}, c.Position(0))
	assert.Zero(t, inc.Elapsed)

	assert.Zero(t, ClampStep(math.NaN()))
}

func TestExport(t *testing.T) {
	f := newTestField(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{-4, 5, -6})
	f.colors[1] = colorful.Color{R: 0.25, G: 0.5, B: 1}

	pos := make([]float32, 6)
	col := make([]float32, 6)
	f.Export(pos, col)

	assert.Equal(t, []float32{1, 2, 3, -4, 5, -6}, pos)
	assert.Equal(t, []float32{0.25, 0.5, 1}, col[3:])

	assert.Panics(t, func() { f.Export(make([]float32, 5), col) })
	assert.Panics(t, func() { f.Export(pos, nil) })
}

func TestStep_PanicsOnDivergedBuffers(t *testing.T) {
	f := newTestField(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	f.velocities = f.velocities[:1]
	assert.Panics(t, func() { f.Step(&Interaction{}, tick) })
}

func TestInteraction_Observe(t *testing.T) {
	var in Interaction
	pinch := gesture.Classification{Category: gesture.Pinch, Strength: 0.4}

	in.Observe(true, mgl64.Vec3{10, 0, 0}, pinch)
	assert.True(t, in.HandPresent)
	assert.Equal(t, pinch, in.Gesture)
	assert.InDelta(t, 2.0, in.HandPosition[0], 1e-12)

	in.Observe(true, mgl64.Vec3{10, 0, 0}, pinch)
	assert.InDelta(t, 3.6, in.HandPosition[0], 1e-12)

	in.Observe(false, mgl64.Vec3{-50, 0, 0}, pinch)
	assert.False(t, in.HandPresent)
	assert.Equal(t, gesture.None, in.Gesture.Category)
	assert.InDelta(t, 3.6, in.HandPosition[0], 1e-12, "position holds while absent")
}
