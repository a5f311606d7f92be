package detector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandLandmarks_Complete(t *testing.T) {
	full := OpenPalmLandmarks()
	assert.True(t, full.Complete())

	partial := HandLandmarks{Points: make([]Point3D, 12)}
	assert.False(t, partial.Complete())

	var missing *HandLandmarks
	assert.False(t, missing.Complete())
}

func TestHandLandmarks_PalmPoint(t *testing.T) {
	h := OpenPalmLandmarks()
	p, ok := h.PalmPoint()
	require.True(t, ok)
	assert.Equal(t, h.Points[MiddleMCP], p)

	short := HandLandmarks{Points: make([]Point3D, Palm)}
	_, ok = short.PalmPoint()
	assert.False(t, ok)
}

func TestSyntheticHand_Layout(t *testing.T) {
	h := SyntheticHand(true, false, true, false, true)
	require.Len(t, h.Points, NumLandmarks)
	assert.Equal(t, "Right", h.Handedness)

	// Extended tips sit above their PIP joint, curled tips below it.
	assert.Less(t, h.Points[MiddleTip].Y, h.Points[MiddlePIP].Y)
	assert.Greater(t, h.Points[IndexTip].Y, h.Points[IndexPIP].Y)
}

func TestTranslate(t *testing.T) {
	h := OpenPalmLandmarks()
	moved := Translate(h, 0.1, -0.2)

	require.Len(t, moved.Points, len(h.Points))
	assert.InDelta(t, h.Points[Wrist].X+0.1, moved.Points[Wrist].X, 1e-12)
	assert.InDelta(t, h.Points[Wrist].Y-0.2, moved.Points[Wrist].Y, 1e-12)
	// original untouched
	assert.Equal(t, 0.5, h.Points[Wrist].X)
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)
		require.NoError(t, err)
		assert.Nil(t, hands)
		assert.Equal(t, 1, mock.Calls())
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{ThumbsUpLandmarks(), OpenPalmLandmarks()})

		hands, err := mock.Detect(nil)
		require.NoError(t, err)
		assert.Len(t, hands, 2)
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)
		assert.ErrorIs(t, err, expectedErr)
		assert.Nil(t, hands)
	})

	t.Run("Close returns nil", func(t *testing.T) {
		assert.NoError(t, NewMockDetector().Close())
	})
}

func TestParseResponse(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("filters low confidence and caps hand count", func(t *testing.T) {
		line := []byte(`{"hands":[
			{"points":[{"x":0.1,"y":0.2,"z":0}],"handedness":"Left","score":0.9},
			{"points":[],"handedness":"Right","score":0.2},
			{"points":[],"handedness":"Right","score":0.8},
			{"points":[],"handedness":"Left","score":0.7}
		]}`)

		hands, err := parseResponse(line, cfg)
		require.NoError(t, err)
		require.Len(t, hands, 2)
		assert.Equal(t, "Left", hands[0].Handedness)
		assert.Equal(t, []Point3D{{X: 0.1, Y: 0.2}}, hands[0].Points)
		assert.Equal(t, 0.8, hands[1].Score)
	})

	t.Run("keeps partial detections", func(t *testing.T) {
		line := []byte(`{"hands":[{"points":[{"x":1},{"x":2},{"x":3}],"score":1}]}`)

		hands, err := parseResponse(line, cfg)
		require.NoError(t, err)
		require.Len(t, hands, 1)
		assert.False(t, hands[0].Complete())
	})

	t.Run("service error", func(t *testing.T) {
		_, err := parseResponse([]byte(`{"error":"model missing"}`), cfg)
		assert.ErrorContains(t, err, "model missing")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := parseResponse([]byte(`{`), cfg)
		assert.Error(t, err)
	})
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScriptPath = "/nonexistent/hand_service.py"

	_, err := NewMediaPipeDetector(cfg)
	assert.Error(t, err)
}
