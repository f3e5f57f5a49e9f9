package cloth

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// neighbourOffset is a lattice offset that produces a constraint when the
// target lies inside the grid.
type neighbourOffset struct {
	dx, dy int
	typ    ConstraintType
}

// offsets are visited in this order for every point, which fixes the
// emission order seen by the sequential solver.
var offsets = [...]neighbourOffset{
	{-1, 0, Structural},
	{0, -1, Structural},
	{-1, -1, Shear},
	{1, -1, Shear},
	{-2, 0, Bending},
	{0, -2, Bending},
}

// Grid is the built lattice: points plus the constraints derived from their
// adjacency.
type Grid struct {
	Divisions   int
	Points      []Point
	Constraints []Constraint
}

// Index returns the point index of lattice coordinate (x, y) for a grid with
// n divisions.
func Index(x, y, n int) int {
	return x*(n+1) + y
}

// BuildGrid lays out an (n+1)x(n+1) flat sheet spanning width by height,
// pins boundary points according to pin and emits every in-bounds
// constraint. Rest lengths are the build-time distances.
func BuildGrid(width, height float64, n int, pin PinPolicy) (*Grid, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: divisions must be >= 1, got %d", ErrDegenerateGrid, n)
	}
	if !pin.Valid() {
		return nil, fmt.Errorf("%w: unknown pin policy %q", ErrInvalidParams, pin)
	}

	points := buildPoints(width, height, n, pin)
	constraints := buildConstraints(points, n)
	if len(points) == 0 || len(constraints) == 0 {
		return nil, fmt.Errorf("%w: %d points, %d constraints", ErrDegenerateGrid, len(points), len(constraints))
	}

	return &Grid{Divisions: n, Points: points, Constraints: constraints}, nil
}

func buildPoints(width, height float64, n int, pin PinPolicy) []Point {
	side := n + 1
	points := make([]Point, side*side)
	cellW := width / float64(n)
	cellH := height / float64(n)

	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			pos := r3.Vec{X: float64(x) * cellW, Y: float64(-y) * cellH}
			points[Index(x, y, n)] = Point{
				Position: pos,
				Prev:     pos,
				Weight:   pinWeight(x, y, n, pin),
			}
		}
	}
	return points
}

func pinWeight(x, y, n int, pin PinPolicy) float64 {
	if y != 0 {
		return 1
	}
	switch pin {
	case PinTopRow:
		return 0
	case PinTopCorners:
		if x == 0 || x == n {
			return 0
		}
	}
	return 1
}

func buildConstraints(points []Point, n int) []Constraint {
	// Interior points emit all six offsets.
	constraints := make([]Constraint, 0, len(points)*len(offsets))

	for x := 0; x <= n; x++ {
		for y := 0; y <= n; y++ {
			for _, off := range offsets {
				ox, oy := x+off.dx, y+off.dy
				if ox < 0 || ox > n || oy < 0 || oy > n {
					continue
				}
				a := Index(x, y, n)
				b := Index(ox, oy, n)
				constraints = append(constraints, Constraint{
					A:    a,
					B:    b,
					Rest: r3.Norm(r3.Sub(points[a].Position, points[b].Position)),
					Type: off.typ,
				})
			}
		}
	}
	return constraints
}

// CountByType returns how many constraints of each type are present,
// indexed by ConstraintType.
func CountByType(constraints []Constraint) [numConstraintTypes]int {
	var counts [numConstraintTypes]int
	for _, c := range constraints {
		if c.Type < numConstraintTypes {
			counts[c.Type]++
		}
	}
	return counts
}
