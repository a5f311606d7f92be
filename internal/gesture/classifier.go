// Package gesture turns tracked hand joints into discrete gesture categories.
package gesture

import (
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// Category is one of the fixed gesture categories.
type Category int

const (
	None Category = iota
	OpenHand
	ClosedFist
	Victory
	Pinch
	ThumbsUp
	RockOn
	// DoublePalm is only produced by CompoundDetector, never by Classify.
	DoublePalm

	numCategories
)

var categoryNames = [numCategories]string{
	None:       "NONE",
	OpenHand:   "OPEN_HAND",
	ClosedFist: "CLOSED_FIST",
	Victory:    "VICTORY",
	Pinch:      "PINCH",
	ThumbsUp:   "THUMBS_UP",
	RockOn:     "ROCK_ON",
	DoublePalm: "DOUBLE_PALM",
}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return None, fmt.Errorf("unknown gesture category %q", name)
}

// Classification is a category plus its strength in [0,1].
type Classification struct {
	Category Category `json:"category"`
	Strength float64  `json:"strength"`
}

// Classification thresholds.
const (
	// PinchThreshold is the thumb-to-index tip distance below which a hand pinches.
	PinchThreshold = 0.05
	// pinchGain maps pinch distance to strength: 1 - d*pinchGain.
	pinchGain = 20.0
)

var noGesture = Classification{Category: None, Strength: 0}

// Classify maps a single hand to exactly one classification. It is total:
// nil or incomplete poses classify as NONE with strength 0.
//
// Rules are checked in a fixed order and the first match wins. Several can
// hold at once (a pinching hand usually also has four fingers out), so the
// order is part of the contract.
func Classify(hand *detector.HandLandmarks) Classification {
	if !hand.Complete() {
		return noGesture
	}

	pts := hand.Points
	if d := Distance(pts[detector.ThumbTip], pts[detector.IndexTip]); d < PinchThreshold {
		return Classification{Category: Pinch, Strength: clamp01(1 - d*pinchGain)}
	}

	thumb := IsExtended(hand, detector.ThumbTip, detector.ThumbMCP)
	index := IsExtended(hand, detector.IndexTip, detector.IndexPIP)
	middle := IsExtended(hand, detector.MiddleTip, detector.MiddlePIP)
	ring := IsExtended(hand, detector.RingTip, detector.RingPIP)
	pinky := IsExtended(hand, detector.PinkyTip, detector.PinkyPIP)

	extended := 0
	for _, e := range [...]bool{thumb, index, middle, ring, pinky} {
		if e {
			extended++
		}
	}

	switch {
	case extended == 0:
		return full(ClosedFist)
	case index && pinky && !middle && !ring:
		return full(RockOn)
	case index && middle && !ring && !pinky:
		return full(Victory)
	case thumb && !index && !middle && !ring && !pinky:
		return full(ThumbsUp)
	case extended >= 4:
		return full(OpenHand)
	}
	return noGesture
}

func full(c Category) Classification {
	return Classification{Category: c, Strength: 1}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
