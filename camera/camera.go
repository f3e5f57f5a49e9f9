// Package camera provides an orbit camera for viewing the cloth in 3D.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// maxPitch keeps the camera off the poles where the up vector degenerates.
const maxPitch = math.Pi/2 - 0.01

// Camera orbits a target point at a distance.
// Yaw 0, pitch 0 looks down -Z from the +Z side.
type Camera struct {
	Target   r3.Vec
	Yaw      float64 // radians around +Y
	Pitch    float64 // radians above the XZ plane
	Distance float64

	// Field of view in degrees (vertical)
	FovY float64

	// Zoom constraints
	MinDistance, MaxDistance float64

	flight *flight
}

// New creates a camera looking at target from distance along +Z.
func New(target r3.Vec, distance float64) *Camera {
	c := &Camera{
		Target:      target,
		FovY:        45,
		MinDistance: 0.1,
		MaxDistance: 100,
	}
	c.Distance = clamp(distance, c.MinDistance, c.MaxDistance)
	return c
}

// Position returns the camera's world position.
func (c *Camera) Position() r3.Vec {
	cp := math.Cos(c.Pitch)
	offset := r3.Vec{
		X: c.Distance * cp * math.Sin(c.Yaw),
		Y: c.Distance * math.Sin(c.Pitch),
		Z: c.Distance * cp * math.Cos(c.Yaw),
	}
	return r3.Add(c.Target, offset)
}

// Rotate orbits by the given yaw and pitch deltas in radians.
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.flight = nil
	c.Yaw = math.Remainder(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Zoom scales the distance to the target. factor > 1 moves closer.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.flight = nil
	c.Distance = clamp(c.Distance/factor, c.MinDistance, c.MaxDistance)
}

// Pan moves the target in the camera's view plane by screen-aligned amounts
// in world units.
func (c *Camera) Pan(right, up float64) {
	c.flight = nil
	forward := r3.Unit(r3.Sub(c.Target, c.Position()))
	rightVec := r3.Unit(r3.Cross(forward, r3.Vec{Y: 1}))
	upVec := r3.Cross(rightVec, forward)
	c.Target = r3.Add(c.Target, r3.Add(r3.Scale(right, rightVec), r3.Scale(up, upVec)))
}

// Fit sets the distance so a width x height rectangle facing the camera
// fills the view at the given viewport aspect ratio.
func (c *Camera) Fit(width, height, aspect float64) {
	if aspect <= 0 {
		aspect = 1
	}
	half := math.Tan(c.FovY * math.Pi / 360)
	dv := height / 2 / half
	dh := width / 2 / (half * aspect)
	c.Distance = clamp(math.Max(dv, dh)*1.1, c.MinDistance, c.MaxDistance)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
