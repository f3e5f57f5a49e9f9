// Package cloth implements a mass-spring cloth simulation kernel.
//
// A regular grid of point masses is connected by structural, shear and
// bending distance constraints, advanced by Verlet integration and relaxed
// toward rest length by one of two solvers: a sequential Gauss-Seidel solver
// that corrects points in place, and a parallel Jacobi solver that
// accumulates corrections per worker and commits them after a barrier.
package cloth

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a simulated mass particle.
type Point struct {
	Position r3.Vec
	Prev     r3.Vec  // position at the previous step, for Verlet velocity
	Weight   float64 // 0 = pinned, 1 = free
}

// Pinned reports whether the point cannot move.
func (p Point) Pinned() bool {
	return p.Weight == 0
}

// ConstraintType selects the stiffness coefficients of a constraint.
type ConstraintType uint8

const (
	Structural ConstraintType = iota // axis-adjacent neighbours
	Shear                            // diagonal neighbours
	Bending                          // neighbours two cells away on an axis
	numConstraintTypes
)

// String returns the type name.
func (t ConstraintType) String() string {
	switch t {
	case Structural:
		return "structural"
	case Shear:
		return "shear"
	case Bending:
		return "bending"
	default:
		return fmt.Sprintf("ConstraintType(%d)", uint8(t))
	}
}

// OneHot returns the type as a one-hot weight over the three type slots
// (X = structural, Y = shear, Z = bending). Dotting it with a vector of
// per-type coefficients selects the coefficient without branching.
func (t ConstraintType) OneHot() r3.Vec {
	switch t {
	case Structural:
		return r3.Vec{X: 1}
	case Shear:
		return r3.Vec{Y: 1}
	case Bending:
		return r3.Vec{Z: 1}
	default:
		return r3.Vec{}
	}
}

// Constraint is a distance relationship between two points.
type Constraint struct {
	A, B int
	Rest float64
	Type ConstraintType
}

// Spring holds the shrink and stretch coefficients of one constraint type.
// Shrink applies when the constraint is over-extended, Stretch when it is
// compressed.
type Spring struct {
	Shrink  float64 `yaml:"shrink"`
	Stretch float64 `yaml:"stretch"`
}

// Stiffness holds the per-type spring coefficients, each in [0,1].
type Stiffness struct {
	Structural Spring `yaml:"structural"`
	Shear      Spring `yaml:"shear"`
	Bending    Spring `yaml:"bending"`
}

// For returns the coefficients of the given type.
func (s Stiffness) For(t ConstraintType) Spring {
	switch t {
	case Shear:
		return s.Shear
	case Bending:
		return s.Bending
	default:
		return s.Structural
	}
}

// vectors packs shrink and stretch coefficients into per-type slots laid out
// like ConstraintType.OneHot.
func (s Stiffness) vectors() (shrink, stretch r3.Vec) {
	shrink = r3.Vec{X: s.Structural.Shrink, Y: s.Shear.Shrink, Z: s.Bending.Shrink}
	stretch = r3.Vec{X: s.Structural.Stretch, Y: s.Shear.Stretch, Z: s.Bending.Stretch}
	return shrink, stretch
}

// DefaultStiffness returns fully stiff coefficients for every type.
func DefaultStiffness() Stiffness {
	full := Spring{Shrink: 1, Stretch: 1}
	return Stiffness{Structural: full, Shear: full, Bending: full}
}

// PinPolicy selects which boundary points are pinned at build time.
type PinPolicy string

const (
	PinTopRow     PinPolicy = "top_row"     // every point with y == 0
	PinTopCorners PinPolicy = "top_corners" // only (0,0) and (n,0)
)

// Valid reports whether the policy is known.
func (p PinPolicy) Valid() bool {
	return p == PinTopRow || p == PinTopCorners
}

// Variant selects the relaxation algorithm.
type Variant string

const (
	Sequential Variant = "sequential"
	Parallel   Variant = "parallel"
)

// Valid reports whether the variant is known.
func (v Variant) Valid() bool {
	return v == Sequential || v == Parallel
}
