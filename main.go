package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drape/app"
	"github.com/pthm-cable/drape/cloth"
	"github.com/pthm-cable/drape/config"
	"github.com/pthm-cable/drape/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in simulated seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxSteps := flag.Int("max-steps", 0, "Stop after N physics steps (0 = unlimited)")
	frameDT := flag.Float64("frame-dt", 0, "Wall-clock seconds fed per headless frame (0 = one step)")
	compare := flag.Bool("compare", false, "Run the sequential and parallel solvers side by side")
	variant := flag.String("variant", "", "Solver variant override: sequential or parallel")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *variant != "" {
		cfg.Solver.Variant = cloth.Variant(*variant)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Use config stats window if not overridden by CLI
	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	opts := app.Options{
		Params:       cfg.ClothParams(),
		Compare:      *compare,
		StatsWindow:  statsWindowSec,
		PerfWindow:   cfg.Telemetry.PerfWindow,
		LogStats:     *logStats,
		Output:       output,
		Headless:     *headless,
		FrameDT:      *frameDT,
		ScreenWidth:  cfg.Derived.ScreenW32,
		ScreenHeight: cfg.Derived.ScreenH32,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		a, err := app.New(opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}
		defer a.Unload()

		slog.Info("starting headless simulation",
			"stats_window", statsWindowSec,
			"max_steps", *maxSteps,
			"frame_dt", *frameDT,
			"compare", *compare,
		)

		if *maxSteps <= 0 {
			slog.Warn("no -max-steps given, running until interrupted")
		}
		for {
			a.UpdateHeadless()

			if *maxSteps > 0 && a.Steps() >= *maxSteps {
				slog.Info("max steps reached", "steps", a.Steps(), "sim_time", a.SimTime())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, "Drape")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	a, err := app.New(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer a.Unload()

	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()

		if *maxSteps > 0 && a.Steps() >= *maxSteps {
			break
		}
	}
}
