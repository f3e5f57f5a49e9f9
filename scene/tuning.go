package scene

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/drape/cloth"
)

// Tuning is the set of parameters that can change while cloths run.
type Tuning struct {
	Stiffness      cloth.Stiffness
	SpringConstant float64
	Iterations     int
	Forces         cloth.Forces
}

// TuningFrom extracts the runtime-adjustable part of p.
func TuningFrom(p cloth.Params) Tuning {
	return Tuning{
		Stiffness:      p.Stiffness,
		SpringConstant: p.SpringConstant,
		Iterations:     p.Iterations,
		Forces:         p.Forces,
	}
}

// ApplyTo pushes the tuning into one simulation. Every setter is attempted;
// failures are joined.
func (t Tuning) ApplyTo(sim *cloth.Simulation) error {
	return errors.Join(
		sim.SetStiffness(t.Stiffness),
		sim.SetSpringConstant(t.SpringConstant),
		sim.SetIterations(t.Iterations),
		sim.SetForces(t.Forces),
	)
}

// ApplyTuning pushes t into every cloth in the scene.
func (s *Scene) ApplyTuning(t Tuning) error {
	var errs []error
	for _, inst := range s.Instances() {
		if err := t.ApplyTo(inst.Sim); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", inst.Label, err))
		}
	}
	return errors.Join(errs...)
}
