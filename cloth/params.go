package cloth

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidParams is wrapped by every parameter validation failure.
	ErrInvalidParams = errors.New("cloth: invalid parameters")
	// ErrDegenerateGrid is returned when the grid yields no points or no
	// constraints.
	ErrDegenerateGrid = errors.New("cloth: degenerate grid")
)

// TimingMode selects how wall-clock frame time becomes physics steps.
type TimingMode string

const (
	// FixedTiming accumulates frame time and runs whole fixed-size steps.
	FixedTiming TimingMode = "fixed"
	// ClampedTiming runs one step per frame with the frame delta clamped.
	ClampedTiming TimingMode = "clamped"
)

// Timing configures the scheduler.
type Timing struct {
	Mode     TimingMode
	StepSize float64 // fixed mode
	MinDelta float64 // clamped mode
	MaxDelta float64 // clamped mode
}

// Phase names reported through Hooks.
const (
	PhaseIntegrate = "integrate"
	PhaseRelax     = "relax"
)

// Hooks are optional callbacks invoked from Step.
type Hooks struct {
	// OnPhase is called when a step enters a phase.
	OnPhase func(phase string)
}

// Params configures a Simulation.
type Params struct {
	Width, Height float64
	Divisions     int
	Pin           PinPolicy

	Forces         Forces
	Iterations     int
	SpringConstant float64
	Stiffness      Stiffness

	Variant           Variant
	Workers           int // parallel variant; 0 = GOMAXPROCS
	ParallelThreshold int // below this many items a pass runs on the caller

	Timing Timing
	Hooks  Hooks
}

// DefaultParams returns a 32-division unit sheet pinned at its top corners,
// relaxed by the parallel solver at a fixed 16ms step.
func DefaultParams() Params {
	return Params{
		Width:     1,
		Height:    1,
		Divisions: 32,
		Pin:       PinTopCorners,
		Forces: Forces{
			Gravity:    r3.Vec{Y: -9.8},
			Wind:       r3.Vec{Z: 1},
			Resistance: 0.2,
		},
		Iterations:        2,
		SpringConstant:    3000,
		Stiffness:         DefaultStiffness(),
		Variant:           Parallel,
		ParallelThreshold: 256,
		Timing: Timing{
			Mode:     FixedTiming,
			StepSize: 0.016,
			MinDelta: 0.001,
			MaxDelta: 0.033,
		},
	}
}

// Validate checks every parameter and returns all failures joined.
func (p Params) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidParams}, args...)...))
	}

	if !positive(p.Width) || !positive(p.Height) {
		fail("extent must be positive and finite, got %gx%g", p.Width, p.Height)
	}
	if p.Divisions < 1 {
		errs = append(errs, fmt.Errorf("%w: divisions must be >= 1, got %d", ErrDegenerateGrid, p.Divisions))
	}
	if !p.Pin.Valid() {
		fail("unknown pin policy %q", p.Pin)
	}
	if err := p.Forces.validate(); err != nil {
		errs = append(errs, err)
	}
	if p.Iterations < 1 {
		fail("iterations must be >= 1, got %d", p.Iterations)
	}
	if !finite(p.SpringConstant) || p.SpringConstant < 0 {
		fail("spring constant must be finite and non-negative, got %g", p.SpringConstant)
	}
	if err := p.Stiffness.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !p.Variant.Valid() {
		fail("unknown solver variant %q", p.Variant)
	}
	if p.Workers < 0 {
		fail("workers must be >= 0, got %d", p.Workers)
	}
	if p.ParallelThreshold < 0 {
		fail("parallel threshold must be >= 0, got %d", p.ParallelThreshold)
	}

	switch p.Timing.Mode {
	case FixedTiming:
		if !positive(p.Timing.StepSize) {
			fail("fixed step size must be positive and finite, got %g", p.Timing.StepSize)
		}
	case ClampedTiming:
		if !positive(p.Timing.MinDelta) || !positive(p.Timing.MaxDelta) || p.Timing.MinDelta > p.Timing.MaxDelta {
			fail("clamp range must satisfy 0 < min <= max, got [%g, %g]", p.Timing.MinDelta, p.Timing.MaxDelta)
		}
	default:
		fail("unknown timing mode %q", p.Timing.Mode)
	}

	return errors.Join(errs...)
}

func (f Forces) validate() error {
	if !finiteVec(f.Gravity) || !finiteVec(f.Wind) {
		return fmt.Errorf("%w: gravity and wind must be finite", ErrInvalidParams)
	}
	if !finite(f.Resistance) || f.Resistance < 0 {
		return fmt.Errorf("%w: resistance must be finite and non-negative, got %g", ErrInvalidParams, f.Resistance)
	}
	return nil
}

// Validate checks that every coefficient lies in [0,1].
func (s Stiffness) Validate() error {
	for t := Structural; t < numConstraintTypes; t++ {
		c := s.For(t)
		if !unit(c.Shrink) || !unit(c.Stretch) {
			return fmt.Errorf("%w: %s shrink/stretch must be in [0,1], got %g/%g",
				ErrInvalidParams, t, c.Shrink, c.Stretch)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}

func unit(v float64) bool {
	return finite(v) && v >= 0 && v <= 1
}

func finiteVec(v r3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}
