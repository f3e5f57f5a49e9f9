package cloth

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// weightedConstraint is a constraint whose type is carried as a one-hot
// weight, so coefficients are picked by dot product.
type weightedConstraint struct {
	a, b       int
	rest       float64
	typeWeight r3.Vec
}

// accumulator is one chunk's private correction slab, indexed by point.
type accumulator struct {
	correction []r3.Vec
	weight     []float64
}

func newAccumulator(numPoints int) accumulator {
	return accumulator{
		correction: make([]r3.Vec, numPoints),
		weight:     make([]float64, numPoints),
	}
}

// ParallelSolver relaxes constraints in two passes. The accumulate pass
// reads the unmodified point slice and writes corrections into per-chunk
// slabs; the apply pass sums the slabs per point and commits them. The two
// passes are separated by the worker pool barrier, so no point is read and
// written concurrently.
type ParallelSolver struct {
	constraints []weightedConstraint
	slabs       []accumulator
	pool        *workerPool
	threshold   int
	used        int // slabs written by the last accumulate pass
}

// NewParallelSolver returns a solver over constraints for a grid of
// numPoints points. workers <= 0 uses GOMAXPROCS. Passes over fewer than
// threshold items run on the calling goroutine.
func NewParallelSolver(constraints []Constraint, numPoints, workers, threshold int) *ParallelSolver {
	pool := newWorkerPool(workers)

	weighted := make([]weightedConstraint, len(constraints))
	for i, c := range constraints {
		weighted[i] = weightedConstraint{a: c.A, b: c.B, rest: c.Rest, typeWeight: c.Type.OneHot()}
	}

	slabs := make([]accumulator, pool.numWorkers)
	for i := range slabs {
		slabs[i] = newAccumulator(numPoints)
	}

	return &ParallelSolver{
		constraints: weighted,
		slabs:       slabs,
		pool:        pool,
		threshold:   threshold,
	}
}

// Workers returns the number of worker goroutines.
func (s *ParallelSolver) Workers() int {
	return s.pool.numWorkers
}

// Relax runs one Jacobi iteration: accumulate, barrier, apply.
func (s *ParallelSolver) Relax(points []Point, r Relaxation) {
	s.Accumulate(points, r)
	s.Apply(points)
}

// Accumulate computes every constraint's correction from the current
// positions into the accumulation slabs without moving any point.
func (s *ParallelSolver) Accumulate(points []Point, r Relaxation) {
	gain := r.gain()
	shrink, stretch := r.Stiffness.vectors()
	k := r.SpringConstant

	s.used = s.pool.run(len(s.constraints), s.threshold, func(chunk, start, end int) {
		slab := &s.slabs[chunk]
		for i := start; i < end; i++ {
			c := &s.constraints[i]
			wa, wb := points[c.a].Weight, points[c.b].Weight
			total := wa + wb
			if total == 0 {
				continue
			}

			dir, d := separation(points[c.a].Position, points[c.b].Position)
			if d == 0 {
				continue
			}

			f := (d - c.rest) * k
			// sel is 1 when over-extended and 0 when compressed.
			sel := 0.5 + 0.5*math.Copysign(1, f)
			coef := sel*r3.Dot(c.typeWeight, shrink) + (1-sel)*r3.Dot(c.typeWeight, stretch)
			f *= coef

			corr := r3.Scale(f*gain, dir)
			shareA, shareB := wa/total, wb/total

			slab.correction[c.a] = r3.Add(slab.correction[c.a], r3.Scale(shareA, corr))
			slab.correction[c.b] = r3.Sub(slab.correction[c.b], r3.Scale(shareB, corr))
			slab.weight[c.a] += shareA
			slab.weight[c.b] += shareB
		}
	})
}

// Apply commits the accumulated corrections to the points and clears the
// slabs. Points with no accumulated weight are left unchanged.
func (s *ParallelSolver) Apply(points []Point) {
	used := s.used
	s.pool.run(len(points), s.threshold, func(_, start, end int) {
		for i := start; i < end; i++ {
			var corr r3.Vec
			var weight float64
			for w := 0; w < used; w++ {
				slab := &s.slabs[w]
				corr = r3.Add(corr, slab.correction[i])
				weight += slab.weight[i]
				slab.correction[i] = r3.Vec{}
				slab.weight[i] = 0
			}
			if weight == 0 {
				continue
			}
			points[i].Position = r3.Add(points[i].Position, corr)
		}
	})
	s.used = 0
}

// AccumulatedWeight returns the weight share summed into point i by the
// last Accumulate call that has not yet been applied.
func (s *ParallelSolver) AccumulatedWeight(i int) float64 {
	var weight float64
	for w := 0; w < s.used; w++ {
		weight += s.slabs[w].weight[i]
	}
	return weight
}

// integrate runs the Verlet step across the worker pool.
func (s *ParallelSolver) integrate(points []Point, terms stepTerms) {
	s.pool.run(len(points), s.threshold, func(_, start, end int) {
		integrateRange(points, terms, start, end)
	})
}

// Close stops the worker goroutines.
func (s *ParallelSolver) Close() {
	s.pool.stop()
}
