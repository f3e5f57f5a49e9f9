package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/drape/cloth"
	"github.com/pthm-cable/drape/config"
	"github.com/pthm-cable/drape/telemetry"
)

// failedFitness is returned for runs that cannot be built or blow up.
const failedFitness = 1e6

// Targets describe the drape being tuned for.
type Targets struct {
	StrainP90 float64 // desired 90th percentile spring strain
	MaxSag    float64 // desired lowest drop below the rest pose
	SagWeight float64 // relative weight of the sag term
}

// FitnessEvaluator runs headless simulations and scores them against
// Targets. Every evaluation runs each solver variant concurrently and
// averages their scores.
type FitnessEvaluator struct {
	params     *ParamVector
	baseConfig *config.Config
	targets    Targets
	simSeconds float64
	variants   []cloth.Variant

	mu        sync.Mutex
	lastStats []telemetry.ClothStats
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, baseCfg *config.Config, targets Targets, simSeconds float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		baseConfig: baseCfg,
		targets:    targets,
		simSeconds: simSeconds,
		variants:   []cloth.Variant{cloth.Sequential, cloth.Parallel},
	}
}

// LastStats returns the per-variant stats from the most recent evaluation.
func (fe *FitnessEvaluator) LastStats() []telemetry.ClothStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStats
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	base := cfg.ClothParams()

	scores := make([]float64, len(fe.variants))
	stats := make([]telemetry.ClothStats, len(fe.variants))
	var wg sync.WaitGroup
	for i, v := range fe.variants {
		wg.Add(1)
		go func(idx int, v cloth.Variant) {
			defer wg.Done()
			p := base
			p.Variant = v
			stats[idx], scores[idx] = fe.run(p)
		}(i, v)
	}
	wg.Wait()

	fe.mu.Lock()
	fe.lastStats = stats
	fe.mu.Unlock()

	var total float64
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores))
}

// run simulates one cloth for simSeconds of fixed steps and scores its
// final state.
func (fe *FitnessEvaluator) run(p cloth.Params) (telemetry.ClothStats, float64) {
	p.Timing.Mode = cloth.FixedTiming
	sim, err := cloth.New(p)
	if err != nil {
		return telemetry.ClothStats{Label: string(p.Variant)}, failedFitness
	}
	defer sim.Close()

	for sim.Elapsed() < fe.simSeconds {
		sim.Step(p.Timing.StepSize)
	}

	stats := telemetry.ComputeClothStats(string(p.Variant), sim)
	return stats, fe.score(stats)
}

// score is the weighted squared relative error against the targets.
func (fe *FitnessEvaluator) score(s telemetry.ClothStats) float64 {
	if s.NonFinite > 0 || math.IsNaN(s.StrainP90) {
		return failedFitness
	}
	strainErr := relErr(s.StrainP90, fe.targets.StrainP90)
	sagErr := relErr(s.MaxSag, fe.targets.MaxSag)
	return strainErr*strainErr + fe.targets.SagWeight*sagErr*sagErr
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return got
	}
	return (got - want) / want
}

// copyConfig returns a shallow copy of the base config; every tuned field
// is a value type.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
