package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drape/telemetry"
	"github.com/pthm-cable/drape/ui"
)

const controlsLegend = "[Space] pause  [T] tuning  [F3] perf  [P/H/B/S] points/shear/bending/strain  [drag] orbit  [ctrl+click] inspect  [wheel] zoom  [Home] reset"

// Draw renders the frame.
func (a *App) Draw() {
	a.scene.Perf().RecordRender()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	a.background.Draw()

	instances := a.scene.Instances()
	a.clothRender.Draw(instances)
	a.inspector.DrawHighlight(a.clothRender.Camera3D(), instances)

	stats := make([]telemetry.ClothStats, 0, len(instances))
	for _, inst := range instances {
		stats = append(stats, inst.Stats)
	}
	a.hud.Draw(ui.HUDData{
		Title:   "Drape",
		Steps:   a.scene.TotalSteps(),
		SimTime: a.scene.SimTime(),
		FPS:     rl.GetFPS(),
		Paused:  a.scene.Paused(),
		Cloths:  stats,
	})
	a.hud.DrawControls(a.screenHeight, controlsLegend)

	a.inspector.Draw(instances)
	if a.showPerf {
		a.perfPanel.Draw(a.scene.Perf().Stats())
	}
	a.applyPanelTuning()

	rl.EndDrawing()
}
