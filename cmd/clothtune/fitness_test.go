package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/drape/config"
	"github.com/pthm-cable/drape/telemetry"
)

func testEvaluator(t *testing.T) (*FitnessEvaluator, *ParamVector) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Cloth.Divisions = 6
	cfg.Solver.Workers = 2
	cfg.Solver.ParallelThreshold = 0

	pv := NewParamVector(cfg)
	fe := NewFitnessEvaluator(pv, cfg, Targets{StrainP90: 0.01, MaxSag: 0.3, SagWeight: 0.5}, 0.2)
	return fe, pv
}

func TestFitnessEvaluator_Evaluate(t *testing.T) {
	fe, pv := testEvaluator(t)

	f := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		t.Fatalf("fitness = %g, want finite and non-negative", f)
	}
	if f >= failedFitness {
		t.Errorf("default parameters scored as failed: %g", f)
	}

	stats := fe.LastStats()
	if len(stats) != 2 {
		t.Fatalf("got %d variant stats, want 2", len(stats))
	}
	for _, s := range stats {
		if s.Steps == 0 {
			t.Errorf("%s: no steps run", s.Label)
		}
	}
}

func TestFitnessEvaluator_Score(t *testing.T) {
	fe, _ := testEvaluator(t)

	tests := []struct {
		name  string
		stats telemetry.ClothStats
		want  float64
	}{
		{"on target", telemetry.ClothStats{StrainP90: 0.01, MaxSag: 0.3}, 0},
		{"double strain", telemetry.ClothStats{StrainP90: 0.02, MaxSag: 0.3}, 1},
		{"no sag", telemetry.ClothStats{StrainP90: 0.01, MaxSag: 0}, 0.5},
		{"non-finite", telemetry.ClothStats{StrainP90: 0.01, MaxSag: 0.3, NonFinite: 1}, failedFitness},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fe.score(tt.stats); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("score = %g, want %g", got, tt.want)
			}
		})
	}
}
