package app

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Update handles input and advances the scene by the last frame time.
func (a *App) Update() {
	dt := rl.GetFrameTime()
	a.handleInput()
	a.cam.Update(dt)
	a.scene.Update(float64(dt))
}

// applyPanelTuning pushes slider edits into the scene.
func (a *App) applyPanelTuning() {
	t, changed := a.tuningPanel.Draw(a.tuning)
	if !changed {
		return
	}
	if err := a.SetTuning(t); err != nil {
		slog.Warn("tuning rejected", "error", err)
		return
	}
	slog.Debug("tuning applied",
		"spring_constant", t.SpringConstant,
		"iterations", t.Iterations,
		"resistance", t.Forces.Resistance,
	)
}
