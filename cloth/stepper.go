package cloth

import (
	"fmt"
	"math"
)

// Stepper turns a wall-clock frame delta into a number of physics steps and
// their size.
type Stepper interface {
	Steps(delta float64) (n int, dt float64)
}

// FixedStep accumulates frame time and releases it in whole steps of
// StepSize. Leftover time carries over to the next frame.
type FixedStep struct {
	StepSize float64
	leftover float64
}

// NewFixedStep returns a fixed-step scheduler.
func NewFixedStep(stepSize float64) *FixedStep {
	return &FixedStep{StepSize: stepSize}
}

// Steps adds delta to the accumulator and returns how many whole steps fit.
// Negative or non-finite deltas add nothing.
func (f *FixedStep) Steps(delta float64) (int, float64) {
	if finite(delta) && delta > 0 {
		f.leftover += delta
	}
	n := math.Floor(f.leftover / f.StepSize)
	f.leftover -= n * f.StepSize
	if f.leftover < 0 {
		f.leftover = 0
	}
	return int(n), f.StepSize
}

// Leftover returns the accumulated time not yet consumed by a step.
func (f *FixedStep) Leftover() float64 {
	return f.leftover
}

// Reset discards accumulated time.
func (f *FixedStep) Reset() {
	f.leftover = 0
}

// ClampedStep runs exactly one step per frame with the frame delta clamped
// to [Min, Max]. The simulation then depends on frame rate.
type ClampedStep struct {
	Min, Max float64
}

// Steps returns a single step of the clamped delta.
func (c ClampedStep) Steps(delta float64) (int, float64) {
	if !finite(delta) {
		delta = c.Min
	}
	return 1, math.Min(math.Max(delta, c.Min), c.Max)
}

// NewStepper builds the scheduler selected by t.
func NewStepper(t Timing) (Stepper, error) {
	switch t.Mode {
	case FixedTiming:
		if !positive(t.StepSize) {
			return nil, fmt.Errorf("%w: fixed step size must be positive, got %g", ErrInvalidParams, t.StepSize)
		}
		return NewFixedStep(t.StepSize), nil
	case ClampedTiming:
		if !positive(t.MinDelta) || !positive(t.MaxDelta) || t.MinDelta > t.MaxDelta {
			return nil, fmt.Errorf("%w: clamp range must satisfy 0 < min <= max, got [%g, %g]",
				ErrInvalidParams, t.MinDelta, t.MaxDelta)
		}
		return ClampedStep{Min: t.MinDelta, Max: t.MaxDelta}, nil
	default:
		return nil, fmt.Errorf("%w: unknown timing mode %q", ErrInvalidParams, t.Mode)
	}
}
