package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/drape/inspector"
	"github.com/pthm-cable/drape/scene"
)

// Inspector panel dimensions
const (
	inspectorWidth  = 260
	inspectorHeight = 190
	pickRadius      = 12 // pixels
)

var colorHighlight = rl.Color{R: 255, G: 220, B: 60, A: 255}

// PointInspector manages point selection and panel rendering.
type PointInspector struct {
	entity      ecs.Entity
	point       int
	hasSelected bool

	renderer       *Renderer
	panelX, panelY int32
	screen         []r2.Vec // scratch projections
}

// NewPointInspector creates an inspector whose panel sits in the bottom-left
// corner of the screen.
func NewPointInspector(screenWidth, screenHeight int32) *PointInspector {
	ins := &PointInspector{renderer: NewRenderer()}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize repositions the panel.
func (ins *PointInspector) Resize(screenWidth, screenHeight int32) {
	ins.panelX = 10
	ins.panelY = screenHeight - inspectorHeight - 40
}

// HasSelection reports whether a point is selected.
func (ins *PointInspector) HasSelection() bool {
	return ins.hasSelected
}

// Deselect clears the selection.
func (ins *PointInspector) Deselect() {
	ins.hasSelected = false
}

// HandleInput selects the point nearest a ctrl-click. Clicking empty space
// clears the selection.
func (ins *PointInspector) HandleInput(mouse rl.Vector2, cam rl.Camera3D, instances []scene.Instance) {
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
	if !ctrl || !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	target := r2.Vec{X: float64(mouse.X), Y: float64(mouse.Y)}
	bestDist := float64(pickRadius * pickRadius)
	found := false

	for _, inst := range instances {
		points := inst.Sim.Points()
		ins.screen = ins.screen[:0]
		for _, p := range points {
			s := rl.GetWorldToScreen(toVector3(r3.Add(p.Position, inst.Offset)), cam)
			ins.screen = append(ins.screen, r2.Vec{X: float64(s.X), Y: float64(s.Y)})
		}
		idx, ok := inspector.Nearest(ins.screen, target, pickRadius)
		if !ok {
			continue
		}
		if d := r2.Norm2(r2.Sub(ins.screen[idx], target)); d <= bestDist {
			bestDist = d
			ins.entity = inst.Entity
			ins.point = idx
			found = true
		}
	}
	ins.hasSelected = found
}

// selected returns the instance holding the selected point.
func (ins *PointInspector) selected(instances []scene.Instance) (scene.Instance, bool) {
	if !ins.hasSelected {
		return scene.Instance{}, false
	}
	for _, inst := range instances {
		if inst.Entity == ins.entity {
			return inst, true
		}
	}
	return scene.Instance{}, false
}

// DrawHighlight circles the selected point. Call outside 3D mode.
func (ins *PointInspector) DrawHighlight(cam rl.Camera3D, instances []scene.Instance) {
	inst, ok := ins.selected(instances)
	if !ok {
		return
	}
	points := inst.Sim.Points()
	if ins.point >= len(points) {
		return
	}
	s := rl.GetWorldToScreen(toVector3(r3.Add(points[ins.point].Position, inst.Offset)), cam)
	rl.DrawCircleLines(int32(s.X), int32(s.Y), 8, colorHighlight)
}

// Draw renders the panel for the selected point.
func (ins *PointInspector) Draw(instances []scene.Instance) {
	inst, ok := ins.selected(instances)
	if !ok {
		return
	}
	info, ok := inspector.Probe(inst.Sim, ins.point)
	if !ok {
		return
	}

	r := ins.renderer
	x, y := ins.panelX, ins.panelY
	r.DrawPanel(x, y, inspectorWidth, inspectorHeight)

	x += r.Theme.Padding
	y += r.Theme.Padding
	rl.DrawText(fmt.Sprintf("%s  point %d", inst.Label, info.Index), x, y, 16, rl.White)
	y += 24

	state := "free"
	if info.Pinned {
		state = "pinned"
	}
	lines := []string{
		fmt.Sprintf("lattice   (%d, %d) %s", info.Col, info.Row, state),
		"position  " + formatVec(info.Position),
		"motion    " + formatVec(info.Motion),
		"offset    " + formatVec(info.Displacement),
		fmt.Sprintf("springs   %d", info.Springs),
		fmt.Sprintf("max strain %+.4f (%s)", info.MaxStrain, info.MaxType),
	}
	for _, line := range lines {
		rl.DrawText(line, x, y, r.Theme.FontSize, r.Theme.ValueColor)
		y += 18
	}
	rl.DrawText("ctrl+click empty space to clear", x, y+6, 10, rl.Gray)
}

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("%+.3f %+.3f %+.3f", v.X, v.Y, v.Z)
}

func toVector3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
