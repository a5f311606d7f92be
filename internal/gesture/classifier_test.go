package gesture

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/detector"
)

func TestClassify_Presets(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Category
	}{
		{"open palm", detector.OpenPalmLandmarks(), OpenHand},
		{"fist", detector.FistLandmarks(), ClosedFist},
		{"thumbs up", detector.ThumbsUpLandmarks(), ThumbsUp},
		{"victory", detector.VictoryLandmarks(), Victory},
		{"rock on", detector.RockOnLandmarks(), RockOn},
		{"rock on with thumb", detector.SyntheticHand(true, true, false, false, true), RockOn},
		{"four fingers no thumb", detector.SyntheticHand(false, true, true, true, true), OpenHand},
		{"index only", detector.SyntheticHand(false, true, false, false, false), None},
		{"three fingers", detector.SyntheticHand(false, true, true, true, false), None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(&tt.hand)
			assert.Equal(t, tt.want, got.Category)
			if tt.want == None {
				assert.Zero(t, got.Strength)
			} else {
				assert.Equal(t, 1.0, got.Strength)
			}
		})
	}
}

func TestClassify_DegradedInput(t *testing.T) {
	assert.Equal(t, Classification{Category: None}, Classify(nil))

	partial := detector.OpenPalmLandmarks()
	partial.Points = partial.Points[:20]
	assert.Equal(t, Classification{Category: None}, Classify(&partial))

	empty := detector.HandLandmarks{}
	assert.Equal(t, Classification{Category: None}, Classify(&empty))
}

func TestClassify_PinchBoundary(t *testing.T) {
	t.Run("exactly at threshold is not a pinch", func(t *testing.T) {
		hand := pinchAt(PinchThreshold)
		got := Classify(&hand)
		assert.NotEqual(t, Pinch, got.Category)
	})

	t.Run("just inside threshold pinches at near-zero strength", func(t *testing.T) {
		hand := pinchAt(0.0499)
		got := Classify(&hand)
		require.Equal(t, Pinch, got.Category)
		assert.InDelta(t, 0.002, got.Strength, 1e-6)
	})

	t.Run("touching tips pinch at full strength", func(t *testing.T) {
		hand := detector.PinchLandmarks(0)
		got := Classify(&hand)
		require.Equal(t, Pinch, got.Category)
		assert.Equal(t, 1.0, got.Strength)
	})

	t.Run("strength scales with distance", func(t *testing.T) {
		hand := detector.PinchLandmarks(0.025)
		got := Classify(&hand)
		require.Equal(t, Pinch, got.Category)
		assert.InDelta(t, 0.5, got.Strength, 1e-9)
	})
}

// pinchAt builds an open hand whose thumb and index tips are exactly d apart
// along the x axis, with the index tip placed at x=0 so the subtraction is exact.
func pinchAt(d float64) detector.HandLandmarks {
	hand := detector.OpenPalmLandmarks()
	hand.Points[detector.IndexTip] = detector.Point3D{X: 0, Y: 0.38}
	hand.Points[detector.ThumbTip] = detector.Point3D{X: d, Y: 0.38}
	return hand
}

func TestClassify_PinchPrecedesOpenHand(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		gap := rng.Float64() * 0.0499
		dx := rng.Float64()*0.4 - 0.2
		dy := rng.Float64()*0.2 - 0.1
		hand := detector.Translate(detector.PinchLandmarks(gap), dx, dy)

		// every digit still reads as extended, so OPEN_HAND would also match
		extended := 0
		for _, f := range [][2]int{
			{detector.IndexTip, detector.IndexPIP},
			{detector.MiddleTip, detector.MiddlePIP},
			{detector.RingTip, detector.RingPIP},
			{detector.PinkyTip, detector.PinkyPIP},
		} {
			if IsExtended(&hand, f[0], f[1]) {
				extended++
			}
		}
		require.Equal(t, 4, extended)

		got := Classify(&hand)
		require.Equal(t, Pinch, got.Category, "gap=%f", gap)
		assert.GreaterOrEqual(t, got.Strength, 0.0)
		assert.LessOrEqual(t, got.Strength, 1.0)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	hands := []detector.HandLandmarks{
		detector.OpenPalmLandmarks(),
		detector.FistLandmarks(),
		detector.PinchLandmarks(0.01),
		detector.VictoryLandmarks(),
	}
	for _, h := range hands {
		first := Classify(&h)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Classify(&h))
		}
	}
}

func TestClassify_AllCurledIsFist(t *testing.T) {
	hand := detector.FistLandmarks()
	wrist := hand.Points[detector.Wrist]
	pairs := [][2]int{
		{detector.ThumbTip, detector.ThumbMCP},
		{detector.IndexTip, detector.IndexPIP},
		{detector.MiddleTip, detector.MiddlePIP},
		{detector.RingTip, detector.RingPIP},
		{detector.PinkyTip, detector.PinkyPIP},
	}
	for _, p := range pairs {
		require.Less(t, Distance(wrist, hand.Points[p[0]]), Distance(wrist, hand.Points[p[1]]))
	}

	assert.Equal(t, Classification{Category: ClosedFist, Strength: 1}, Classify(&hand))
}

func TestClassify_RotationInvariant(t *testing.T) {
	// Mirror the open palm upside down; wrist-relative distances are unchanged.
	hand := detector.OpenPalmLandmarks()
	for i, p := range hand.Points {
		hand.Points[i] = detector.Point3D{X: 1 - p.X, Y: 1 - p.Y, Z: p.Z}
	}
	assert.Equal(t, OpenHand, Classify(&hand).Category)
}

func TestCategory_Text(t *testing.T) {
	for c := None; c < numCategories; c++ {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var back Category
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}

	assert.Equal(t, "Category(42)", Category(42).String())

	_, err := ParseCategory("WAVE")
	assert.Error(t, err)
}

func TestDistance(t *testing.T) {
	a := detector.Point3D{X: 0, Y: 0, Z: 0}
	b := detector.Point3D{X: 3, Y: 4, Z: 12}
	assert.Equal(t, 13.0, Distance(a, b))
	assert.Equal(t, 0.0, Distance(b, b))
}
