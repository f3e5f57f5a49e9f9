// Command clothtune searches spring and stiffness parameters with CMA-ES so
// the cloth settles at a target strain and sag.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/drape/config"
)

// evalRow is one line of tune_log.csv.
type evalRow struct {
	Eval              int     `csv:"eval"`
	Fitness           float64 `csv:"fitness"`
	SpringConstant    float64 `csv:"spring_constant"`
	Resistance        float64 `csv:"resistance"`
	StructuralStretch float64 `csv:"structural_stretch"`
	StructuralShrink  float64 `csv:"structural_shrink"`
	ShearStretch      float64 `csv:"shear_stretch"`
	BendingStretch    float64 `csv:"bending_stretch"`
	StrainP90         float64 `csv:"strain_p90"`
	MaxSag            float64 `csv:"max_sag"`
}

func newEvalRow(eval int, fitness float64, v []float64, fe *FitnessEvaluator) evalRow {
	row := evalRow{
		Eval:              eval,
		Fitness:           fitness,
		SpringConstant:    v[0],
		Resistance:        v[1],
		StructuralStretch: v[2],
		StructuralShrink:  v[3],
		ShearStretch:      v[4],
		BendingStretch:    v[5],
	}
	if stats := fe.LastStats(); len(stats) > 0 {
		row.StrainP90 = stats[0].StrainP90
		row.MaxSag = stats[0].MaxSag
	}
	return row
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	simSeconds := flag.Float64("sim-seconds", 3, "Simulated seconds per run")
	targetStrain := flag.Float64("target-strain", 0.01, "Target 90th percentile spring strain")
	targetSag := flag.Float64("target-sag", 0.3, "Target maximum sag below the rest pose")
	sagWeight := flag.Float64("sag-weight", 0.5, "Weight of the sag term relative to strain")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := baseCfg.Validate(); err != nil {
		log.Fatalf("invalid base config: %v", err)
	}

	params := NewParamVector(baseCfg)
	evaluator := NewFitnessEvaluator(params, baseCfg, Targets{
		StrainP90: *targetStrain,
		MaxSag:    *targetSag,
		SagWeight: *sagWeight,
	}, *simSeconds)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // variants already run concurrently
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := failedFitness
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness || bestParams == nil {
				bestFitness = fitness
				bestParams = raw
			}

			rows := []evalRow{newEvalRow(evalCount, fitness, raw, evaluator)}
			var werr error
			if evalCount == 1 {
				werr = gocsv.Marshal(&rows, logFile)
			} else {
				werr = gocsv.MarshalWithoutHeaders(&rows, logFile)
			}
			if werr != nil {
				log.Printf("failed to write log row: %v", werr)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: fitness=%.5f (best=%.5f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, fitness, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Targets: strain_p90=%.4f max_sag=%.3f, %.1fs per run\n", *targetStrain, *targetSag, *simSeconds)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.5f\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
