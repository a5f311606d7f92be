package particle

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ayusman/mudra/internal/gesture"
)

var (
	coolTone = colorful.Color{R: 0.15, G: 0.45, B: 1.0}
	warmTone = colorful.Color{R: 1.0, G: 0.35, B: 0.75}
	heatTone = colorful.Color{R: 1.0, G: 0.1, B: 0.05}
)

const (
	// relaxChance is the per-particle, per-tick probability of easing back
	// toward the rest gradient.
	relaxChance = 0.05
	relaxBlend  = 0.3

	hueSpeed      = 90.0 // degrees per second
	hueSpread     = 2.0  // degrees per unit of x
	hueSaturation = 0.85
	hueLightness  = 0.6
)

type painter func(f *Field, i int, in *Interaction)

func painterFor(c gesture.Category) painter {
	switch c {
	case gesture.Victory:
		return paintRainbow
	case gesture.Pinch:
		return paintHeat
	default:
		return paintRelax
	}
}

// restColor is particle i's place on the two-tone gradient, by home height.
func (f *Field) restColor(i int) colorful.Color {
	t := clamp01((f.homes[i][1]/f.radius + 1) / 2)
	return coolTone.BlendRgb(warmTone, t)
}

func paintRainbow(f *Field, i int, in *Interaction) {
	hue := math.Mod(in.Elapsed*hueSpeed+f.positions[i][0]*hueSpread, 360)
	if hue < 0 {
		hue += 360
	}
	f.colors[i] = colorful.Hsl(hue, hueSaturation, hueLightness)
}

func paintHeat(f *Field, i int, in *Interaction) {
	dist := f.positions[i].Sub(in.HandPosition).Len()
	closeness := clamp01(1 - dist/pinchRadius)
	f.colors[i] = f.restColor(i).BlendRgb(heatTone, closeness)
}

func paintRelax(f *Field, i int, _ *Interaction) {
	if f.rng.Float64() >= relaxChance {
		return
	}
	f.colors[i] = f.colors[i].BlendRgb(f.restColor(i), relaxBlend)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
