package camera

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pose is a complete camera placement.
type Pose struct {
	Target   r3.Vec
	Yaw      float64
	Pitch    float64
	Distance float64
}

// flight holds the active tweens of a FlyTo, one per pose scalar.
type flight struct {
	tweens [6]*gween.Tween
	done   [6]bool
}

// Pose returns the current placement.
func (c *Camera) Pose() Pose {
	return Pose{Target: c.Target, Yaw: c.Yaw, Pitch: c.Pitch, Distance: c.Distance}
}

// SetPose jumps to p and cancels any flight.
func (c *Camera) SetPose(p Pose) {
	c.flight = nil
	c.Target = p.Target
	c.Yaw = p.Yaw
	c.Pitch = clamp(p.Pitch, -maxPitch, maxPitch)
	c.Distance = clamp(p.Distance, c.MinDistance, c.MaxDistance)
}

// FlyTo animates the camera to p over duration seconds. Yaw takes the short
// way round.
func (c *Camera) FlyTo(p Pose, duration float32, easeFn ease.TweenFunc) {
	yaw := c.Yaw + math.Remainder(p.Yaw-c.Yaw, 2*math.Pi)
	from := [6]float64{c.Target.X, c.Target.Y, c.Target.Z, c.Yaw, c.Pitch, c.Distance}
	to := [6]float64{p.Target.X, p.Target.Y, p.Target.Z, yaw,
		clamp(p.Pitch, -maxPitch, maxPitch), clamp(p.Distance, c.MinDistance, c.MaxDistance)}

	f := &flight{}
	for i := range f.tweens {
		f.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, easeFn)
	}
	c.flight = f
}

// Flying reports whether a FlyTo is in progress.
func (c *Camera) Flying() bool {
	return c.flight != nil
}

// Update advances an active flight by dt seconds.
func (c *Camera) Update(dt float32) {
	f := c.flight
	if f == nil {
		return
	}

	var v [6]float64
	finished := true
	for i, tw := range f.tweens {
		val, done := tw.Update(dt)
		v[i] = float64(val)
		f.done[i] = done
		finished = finished && done
	}

	c.Target = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	c.Yaw = v[3]
	c.Pitch = v[4]
	c.Distance = v[5]

	if finished {
		c.Yaw = math.Remainder(c.Yaw, 2*math.Pi)
		c.flight = nil
	}
}
