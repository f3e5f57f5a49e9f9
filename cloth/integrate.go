package cloth

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Forces are the external influences applied by the integrator.
type Forces struct {
	Gravity    r3.Vec
	Wind       r3.Vec
	Resistance float64 // velocity damping per second
}

// WindFactor is the smooth gust multiplier in [0,1] at simulated time t.
func WindFactor(t float64) float64 {
	return 0.5 + 0.5*math.Sin(t)
}

// stepTerms holds the per-step integration constants shared by every point.
type stepTerms struct {
	force r3.Vec  // (gravity + gusting wind) * 0.5*dt^2
	damp  float64 // max(1 - resistance*dt, 0)
}

func newStepTerms(f Forces, dt, elapsed float64) stepTerms {
	accel := r3.Add(f.Gravity, r3.Scale(WindFactor(elapsed), f.Wind))
	return stepTerms{
		force: r3.Scale(0.5*dt*dt, accel),
		damp:  math.Max(1-f.Resistance*dt, 0),
	}
}

// Integrate advances every point one Verlet step of size dt. elapsed is the
// simulated time used to evaluate the wind gust. Pinned points receive zero
// displacement because the displacement is scaled by weight.
func Integrate(points []Point, f Forces, dt, elapsed float64) {
	integrateRange(points, newStepTerms(f, dt, elapsed), 0, len(points))
}

func integrateRange(points []Point, terms stepTerms, start, end int) {
	for i := start; i < end; i++ {
		p := &points[i]
		if p.Weight == 0 {
			p.Prev = p.Position
			continue
		}
		velocity := r3.Sub(p.Position, p.Prev)
		p.Prev = p.Position
		disp := r3.Scale(terms.damp*p.Weight, r3.Add(velocity, terms.force))
		p.Position = r3.Add(p.Position, disp)
	}
}
