// Package framing positions the scene camera from hand presence and
// position.
package framing

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a camera position and the point it looks at.
type Pose struct {
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
}

// Config holds framing parameters. Bound is the half-width of the
// interaction area the hand position is mapped into.
type Config struct {
	Bound        float64
	EdgeFraction float64
	FollowGain   float64
	Distance     float64
	OrbitX       float64
	OrbitY       float64
	OrbitPeriodX time.Duration
	OrbitPeriodY time.Duration
}

// DefaultConfig returns the framing used by the application.
func DefaultConfig() Config {
	return Config{
		Bound:        100,
		EdgeFraction: 0.8,
		FollowGain:   2.0,
		Distance:     220,
		OrbitX:       40,
		OrbitY:       20,
		OrbitPeriodX: 20 * time.Second,
		OrbitPeriodY: 13 * time.Second,
	}
}

// Mode names the rule that produced the latest pose.
type Mode int

const (
	ModeHold Mode = iota
	ModeFollow
	ModeOrbit
)

func (m Mode) String() string {
	switch m {
	case ModeFollow:
		return "follow"
	case ModeOrbit:
		return "orbit"
	default:
		return "hold"
	}
}

// Controller derives the camera pose each tick. It does not read particle
// state.
type Controller struct {
	cfg  Config
	pose Pose
	mode Mode
}

// NewController returns a controller with the camera on the +Z axis.
func NewController(cfg Config) *Controller {
	return &Controller{
		cfg:  cfg,
		pose: Pose{Position: mgl64.Vec3{0, 0, cfg.Distance}},
	}
}

// Update advances the camera one tick. With a hand present past
// EdgeFraction of the bound horizontally, the camera x is nudged toward that
// side in proportion to the overshoot. With no hand, the camera sweeps an
// orbit driven by wall-clock time. Otherwise it holds. It always aims at the
// origin.
func (c *Controller) Update(handPresent bool, hand mgl64.Vec3, dt float64, now time.Time) Pose {
	switch {
	case handPresent:
		edge := c.cfg.EdgeFraction * c.cfg.Bound
		if over := math.Abs(hand[0]) - edge; over > 0 {
			c.pose.Position[0] += math.Copysign(over, hand[0]) * c.cfg.FollowGain * dt
			c.mode = ModeFollow
		} else {
			c.mode = ModeHold
		}
	default:
		secs := float64(now.UnixNano()) / 1e9
		c.pose.Position[0] = c.cfg.OrbitX * math.Sin(2*math.Pi*secs/c.cfg.OrbitPeriodX.Seconds())
		c.pose.Position[1] = c.cfg.OrbitY * math.Sin(2*math.Pi*secs/c.cfg.OrbitPeriodY.Seconds())
		c.mode = ModeOrbit
	}

	c.pose.Target = mgl64.Vec3{}
	return c.pose
}

// Pose returns the most recent pose.
func (c *Controller) Pose() Pose { return c.pose }

// Mode returns the rule applied on the most recent update.
func (c *Controller) Mode() Mode { return c.mode }
