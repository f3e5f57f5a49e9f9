package cloth

import "gonum.org/v1/gonum/spatial/r3"

// Relaxation holds the per-pass solver inputs.
type Relaxation struct {
	DT             float64
	SpringConstant float64
	Stiffness      Stiffness
}

// gain converts a scaled length error into a position correction.
func (r Relaxation) gain() float64 {
	return 0.5 * r.DT * r.DT
}

// separation returns the unit direction from a to b and their distance.
// The direction is zero when the points coincide.
func separation(a, b r3.Vec) (dir r3.Vec, d float64) {
	diff := r3.Sub(b, a)
	d = r3.Norm(diff)
	if d == 0 {
		return r3.Vec{}, 0
	}
	return r3.Scale(1/d, diff), d
}

// SequentialSolver relaxes constraints in place, in emission order. Every
// correction is visible to the constraints after it in the same pass, so
// the result depends on order and the solver must run on one goroutine.
type SequentialSolver struct {
	constraints []Constraint
}

// NewSequentialSolver returns a solver over constraints.
func NewSequentialSolver(constraints []Constraint) *SequentialSolver {
	return &SequentialSolver{constraints: constraints}
}

// Relax runs one Gauss-Seidel pass over every constraint.
func (s *SequentialSolver) Relax(points []Point, r Relaxation) {
	gain := r.gain()

	for _, c := range s.constraints {
		pa, pb := &points[c.A], &points[c.B]
		total := pa.Weight + pb.Weight
		if total == 0 {
			continue
		}

		dir, d := separation(pa.Position, pb.Position)
		if d == 0 {
			continue
		}

		spring := r.Stiffness.For(c.Type)
		f := (d - c.Rest) * r.SpringConstant
		if f >= 0 {
			f *= spring.Shrink
		} else {
			f *= spring.Stretch
		}

		corr := r3.Scale(f*gain, dir)
		pa.Position = r3.Add(pa.Position, r3.Scale(pa.Weight/total, corr))
		pb.Position = r3.Sub(pb.Position, r3.Scale(pb.Weight/total, corr))
	}
}
