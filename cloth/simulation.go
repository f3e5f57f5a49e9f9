package cloth

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// solver relaxes constraints by one iteration.
type solver interface {
	Relax(points []Point, r Relaxation)
}

// Simulation owns one cloth: its grid, solver and scheduler. It is not safe
// for concurrent use; readers of Points must not overlap with Advance.
type Simulation struct {
	params Params
	grid   *Grid
	origin []r3.Vec // build-time positions

	solver   solver
	parallel *ParallelSolver // nil for the sequential variant
	stepper  Stepper

	elapsed float64
	steps   int
	ready   bool
}

// New validates p and builds a simulation. On failure it returns nil and an
// error wrapping ErrInvalidParams or ErrDegenerateGrid.
func New(p Params) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	grid, err := BuildGrid(p.Width, p.Height, p.Divisions, p.Pin)
	if err != nil {
		return nil, err
	}

	stepper, err := NewStepper(p.Timing)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		params:  p,
		grid:    grid,
		origin:  make([]r3.Vec, len(grid.Points)),
		stepper: stepper,
	}
	for i, pt := range grid.Points {
		s.origin[i] = pt.Position
	}

	switch p.Variant {
	case Sequential:
		s.solver = NewSequentialSolver(grid.Constraints)
	case Parallel:
		s.parallel = NewParallelSolver(grid.Constraints, len(grid.Points), p.Workers, p.ParallelThreshold)
		s.solver = s.parallel
	default:
		return nil, fmt.Errorf("%w: unknown solver variant %q", ErrInvalidParams, p.Variant)
	}

	s.ready = true
	return s, nil
}

// Ready reports whether the simulation was built successfully and has not
// been closed. It is safe to call on a nil Simulation.
func (s *Simulation) Ready() bool {
	return s != nil && s.ready
}

// Advance consumes a wall-clock frame delta and runs as many physics steps as
// the scheduler releases. It returns the number of steps run.
func (s *Simulation) Advance(delta float64) int {
	if !s.Ready() {
		return 0
	}
	n, dt := s.stepper.Steps(delta)
	for i := 0; i < n; i++ {
		s.Step(dt)
	}
	return n
}

// Step runs one integrate-then-relax cycle of size dt.
func (s *Simulation) Step(dt float64) {
	if !s.Ready() {
		return
	}
	points := s.grid.Points

	s.enterPhase(PhaseIntegrate)
	terms := newStepTerms(s.params.Forces, dt, s.elapsed)
	if s.parallel != nil {
		s.parallel.integrate(points, terms)
	} else {
		integrateRange(points, terms, 0, len(points))
	}

	s.enterPhase(PhaseRelax)
	r := Relaxation{DT: dt, SpringConstant: s.params.SpringConstant, Stiffness: s.params.Stiffness}
	for i := 0; i < s.params.Iterations; i++ {
		s.solver.Relax(points, r)
	}

	s.elapsed += dt
	s.steps++
}

func (s *Simulation) enterPhase(phase string) {
	if s.params.Hooks.OnPhase != nil {
		s.params.Hooks.OnPhase(phase)
	}
}

// Points returns the live point slice. Callers must treat it as read-only.
func (s *Simulation) Points() []Point {
	return s.grid.Points
}

// Positions copies the current point positions into dst, growing it as
// needed, and returns it.
func (s *Simulation) Positions(dst []r3.Vec) []r3.Vec {
	dst = dst[:0]
	for _, p := range s.grid.Points {
		dst = append(dst, p.Position)
	}
	return dst
}

// Origin returns the build-time position of every point.
func (s *Simulation) Origin() []r3.Vec {
	return s.origin
}

// Constraints returns the constraint list. Callers must treat it as
// read-only.
func (s *Simulation) Constraints() []Constraint {
	return s.grid.Constraints
}

// Divisions returns the grid subdivision count.
func (s *Simulation) Divisions() int {
	return s.grid.Divisions
}

// Variant returns the solver variant in use.
func (s *Simulation) Variant() Variant {
	return s.params.Variant
}

// Params returns the current parameters, including runtime changes.
func (s *Simulation) Params() Params {
	return s.params
}

// Elapsed returns the simulated time in seconds.
func (s *Simulation) Elapsed() float64 {
	return s.elapsed
}

// Steps returns the number of physics steps run so far.
func (s *Simulation) Steps() int {
	return s.steps
}

// Leftover returns the time held by a fixed-step scheduler, or 0.
func (s *Simulation) Leftover() float64 {
	if fs, ok := s.stepper.(*FixedStep); ok {
		return fs.Leftover()
	}
	return 0
}

// SetStiffness replaces the per-type spring coefficients.
func (s *Simulation) SetStiffness(st Stiffness) error {
	if err := st.Validate(); err != nil {
		return err
	}
	s.params.Stiffness = st
	return nil
}

// SetSpringConstant replaces the spring constant.
func (s *Simulation) SetSpringConstant(k float64) error {
	if !finite(k) || k < 0 {
		return fmt.Errorf("%w: spring constant must be finite and non-negative, got %g", ErrInvalidParams, k)
	}
	s.params.SpringConstant = k
	return nil
}

// SetForces replaces gravity, wind and resistance.
func (s *Simulation) SetForces(f Forces) error {
	if err := f.validate(); err != nil {
		return err
	}
	s.params.Forces = f
	return nil
}

// SetIterations replaces the number of relaxation iterations per step.
func (s *Simulation) SetIterations(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: iterations must be >= 1, got %d", ErrInvalidParams, n)
	}
	s.params.Iterations = n
	return nil
}

// SetHooks replaces the phase callbacks.
func (s *Simulation) SetHooks(h Hooks) {
	s.params.Hooks = h
}

// Close stops any worker goroutines. The simulation is no longer ready
// afterwards.
func (s *Simulation) Close() {
	if s == nil {
		return
	}
	if s.parallel != nil {
		s.parallel.Close()
	}
	s.ready = false
}
