package main

import (
	"github.com/pthm-cable/drape/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // column name in the log
	Path    string  // config path
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters with
// defaults taken from cfg.
func NewParamVector(cfg *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "spring_constant", Path: "physics.spring_constant", Min: 200, Max: 10000, Default: cfg.Physics.SpringConstant},
			{Name: "resistance", Path: "physics.resistance", Min: 0, Max: 3, Default: cfg.Physics.Resistance},
			{Name: "structural_stretch", Path: "stiffness.structural.stretch", Min: 0.05, Max: 1, Default: cfg.Stiffness.Structural.Stretch},
			{Name: "structural_shrink", Path: "stiffness.structural.shrink", Min: 0.05, Max: 1, Default: cfg.Stiffness.Structural.Shrink},
			{Name: "shear_stretch", Path: "stiffness.shear.stretch", Min: 0, Max: 1, Default: cfg.Stiffness.Shear.Stretch},
			{Name: "bending_stretch", Path: "stiffness.bending.stretch", Min: 0, Max: 1, Default: cfg.Stiffness.Bending.Stretch},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg. Order matches
// Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Physics.SpringConstant = c[0]
	cfg.Physics.Resistance = c[1]
	cfg.Stiffness.Structural.Stretch = c[2]
	cfg.Stiffness.Structural.Shrink = c[3]
	cfg.Stiffness.Shear.Stretch = c[4]
	cfg.Stiffness.Bending.Stretch = c[5]
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Physics.SpringConstant,
		cfg.Physics.Resistance,
		cfg.Stiffness.Structural.Stretch,
		cfg.Stiffness.Structural.Shrink,
		cfg.Stiffness.Shear.Stretch,
		cfg.Stiffness.Bending.Stretch,
	}
}
