package gesture

import "time"

// DoublePalmWindow is how soon a second two-open-hands observation must
// follow the first for the trigger to fire.
const DoublePalmWindow = 1000 * time.Millisecond

// CompoundDetector debounces the two-hand DOUBLE_PALM trigger. Its only
// state is the start of the currently open window; the zero value is ready
// to use with no window open.
type CompoundDetector struct {
	windowStart time.Time
	armed       bool
}

// Observe feeds the classifications of all hands seen this tick and reports
// whether DOUBLE_PALM fired. It is inert unless exactly two hands are given.
func (d *CompoundDetector) Observe(now time.Time, hands ...Classification) bool {
	if len(hands) != 2 {
		return false
	}

	if hands[0].Category == OpenHand && hands[1].Category == OpenHand {
		if !d.armed {
			d.open(now)
			return false
		}
		if now.Sub(d.windowStart) < DoublePalmWindow {
			d.Reset()
			return true
		}
		// stale window: restart instead of firing
		d.open(now)
		return false
	}

	// A brief miss inside the window keeps it open.
	if d.armed && now.Sub(d.windowStart) > DoublePalmWindow {
		d.Reset()
	}
	return false
}

// Armed reports whether a window is open and when it started.
func (d *CompoundDetector) Armed() (time.Time, bool) {
	return d.windowStart, d.armed
}

// Reset closes any open window.
func (d *CompoundDetector) Reset() {
	d.windowStart = time.Time{}
	d.armed = false
}

func (d *CompoundDetector) open(now time.Time) {
	d.windowStart = now
	d.armed = true
}
