package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/tanema/gween/ease"
)

// Camera control rates
const (
	orbitSpeed = 0.005 // radians per pixel dragged
	keyOrbit   = 0.02  // radians per frame with arrow keys
	wheelZoom  = 0.1   // zoom factor per wheel notch
	panSpeed   = 0.002 // world units per pixel per unit distance
	homeFlight = 0.6   // seconds
)

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		a.scene.SetPaused(!a.scene.Paused())
	}

	// Render toggles
	if rl.IsKeyPressed(rl.KeyP) {
		a.clothRender.ShowPoints = !a.clothRender.ShowPoints
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.clothRender.ShowShear = !a.clothRender.ShowShear
	}
	if rl.IsKeyPressed(rl.KeyB) {
		a.clothRender.ShowBending = !a.clothRender.ShowBending
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.clothRender.ShowStrain = !a.clothRender.ShowStrain
	}

	// Panels
	if rl.IsKeyPressed(rl.KeyT) {
		a.tuningPanel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		a.showPerf = !a.showPerf
	}

	a.inspector.HandleInput(rl.GetMousePosition(), a.clothRender.Camera3D(), a.scene.Instances())
	a.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if w == a.screenWidth && h == a.screenHeight {
		return
	}
	a.screenWidth = w
	a.screenHeight = h

	a.background.Resize(w, h)
	a.tuningPanel.SetPosition(w-tuningPanelWidth-10, 10)
	a.perfPanel.SetPosition(w-tuningPanelWidth-10, h-110)
	a.inspector.Resize(w, h)
}

// handleCameraInput processes orbit, pan and zoom controls. Mouse drags over
// the tuning panel belong to its sliders and ctrl-clicks pick points.
func (a *App) handleCameraInput() {
	mouse := rl.GetMousePosition()
	overPanel := a.tuningPanel.Contains(mouse)
	picking := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)

	if !overPanel && !picking {
		delta := rl.GetMouseDelta()
		if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			a.cam.Rotate(-float64(delta.X)*orbitSpeed, float64(delta.Y)*orbitSpeed)
		}
		if rl.IsMouseButtonDown(rl.MouseButtonRight) {
			scale := panSpeed * a.cam.Distance
			a.cam.Pan(-float64(delta.X)*scale, float64(delta.Y)*scale)
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			a.cam.Zoom(1 + float64(wheel)*wheelZoom)
		}
	}

	if rl.IsKeyDown(rl.KeyLeft) {
		a.cam.Rotate(-keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		a.cam.Rotate(keyOrbit, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.cam.Rotate(0, keyOrbit)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.cam.Rotate(0, -keyOrbit)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.cam.Zoom(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.cam.Zoom(0.8)
	}

	// Home key flies back to the initial view
	if rl.IsKeyPressed(rl.KeyHome) {
		a.cam.FlyTo(a.home, homeFlight, ease.InOutCubic)
	}
}
