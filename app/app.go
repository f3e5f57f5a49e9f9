// Package app ties the scene to a raylib window, or runs it headless.
package app

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/drape/camera"
	"github.com/pthm-cable/drape/cloth"
	"github.com/pthm-cable/drape/renderer"
	"github.com/pthm-cable/drape/scene"
	"github.com/pthm-cable/drape/telemetry"
	"github.com/pthm-cable/drape/ui"
)

// tuningPanelWidth is the width of the slider panel in pixels.
const tuningPanelWidth = 300

// Options configures an App.
type Options struct {
	Params      cloth.Params
	Compare     bool    // spawn sequential and parallel side by side
	StatsWindow float64 // simulated seconds per stats window
	PerfWindow  int
	LogStats    bool
	Output      *telemetry.OutputManager
	Headless    bool

	// FrameDT is the wall-clock delta fed to each headless update.
	FrameDT float64

	ScreenWidth, ScreenHeight int32
}

// App holds the scene and, in graphics mode, its view.
type App struct {
	scene   *scene.Scene
	tuning  scene.Tuning
	frameDT float64

	headless bool

	// Rendering
	cam         *camera.Camera
	home        camera.Pose
	background  *renderer.BackgroundRenderer
	clothRender *renderer.ClothRenderer
	hud         *ui.HUD
	perfPanel   *ui.PerfPanel
	tuningPanel *ui.TuningPanel
	inspector   *ui.PointInspector
	showPerf    bool

	screenWidth, screenHeight int32
}

// New builds the scene described by opts. In headless mode no raylib state
// is touched.
func New(opts Options) (*App, error) {
	sc := scene.New(scene.Options{
		StatsWindow: opts.StatsWindow,
		PerfWindow:  opts.PerfWindow,
		LogStats:    opts.LogStats,
		Output:      opts.Output,
	})

	spawn := sc.SpawnSingle
	if opts.Compare {
		spawn = sc.SpawnComparison
	}
	if err := spawn(opts.Params); err != nil {
		sc.Close()
		return nil, fmt.Errorf("building scene: %w", err)
	}

	a := &App{
		scene:        sc,
		tuning:       scene.TuningFrom(opts.Params),
		frameDT:      opts.FrameDT,
		headless:     opts.Headless,
		screenWidth:  opts.ScreenWidth,
		screenHeight: opts.ScreenHeight,
	}
	if a.frameDT <= 0 {
		a.frameDT = opts.Params.Timing.StepSize
	}

	if !opts.Headless {
		a.initView()
	}

	slog.Info("scene ready",
		"instances", sc.Count(),
		"divisions", opts.Params.Divisions,
		"timing", string(opts.Params.Timing.Mode),
		"headless", opts.Headless,
	)
	return a, nil
}

// initView frames every instance in the camera and creates the renderers.
func (a *App) initView() {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, inst := range a.scene.Instances() {
		for _, o := range inst.Sim.Origin() {
			p := r3.Add(o, inst.Offset)
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}

	target := r3.Vec{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}
	a.cam = camera.New(target, 1)
	a.cam.Rotate(0.5, 0.25)
	a.cam.Fit(maxX-minX, maxY-minY, float64(a.screenWidth)/float64(a.screenHeight))
	a.home = a.cam.Pose()

	a.background = renderer.NewBackgroundRenderer(a.screenWidth, a.screenHeight)
	a.clothRender = renderer.NewClothRenderer(a.cam)
	a.hud = ui.NewHUD()
	a.perfPanel = ui.NewPerfPanel(a.screenWidth-tuningPanelWidth-10, a.screenHeight-110)
	a.tuningPanel = ui.NewTuningPanel(a.screenWidth-tuningPanelWidth-10, 10, tuningPanelWidth)
	a.inspector = ui.NewPointInspector(a.screenWidth, a.screenHeight)
}

// UpdateHeadless advances the scene by one fixed frame delta and returns the
// number of physics steps run.
func (a *App) UpdateHeadless() int {
	return a.scene.Update(a.frameDT)
}

// Steps returns the step count of the furthest instance.
func (a *App) Steps() int {
	return a.scene.TotalSteps()
}

// SimTime returns the simulated time of the furthest instance.
func (a *App) SimTime() float64 {
	return a.scene.SimTime()
}

// Scene returns the underlying scene.
func (a *App) Scene() *scene.Scene {
	return a.scene
}

// Tuning returns the parameters currently applied to every cloth.
func (a *App) Tuning() scene.Tuning {
	return a.tuning
}

// SetTuning applies t to every cloth. On error the previous tuning is kept
// as the reported value.
func (a *App) SetTuning(t scene.Tuning) error {
	if err := a.scene.ApplyTuning(t); err != nil {
		return err
	}
	a.tuning = t
	return nil
}

// Unload flushes the last partial stats window and releases the scene.
func (a *App) Unload() {
	a.scene.Flush()
	a.scene.Close()
}
