// Package renderer draws cloth instances with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/drape/camera"
	"github.com/pthm-cable/drape/cloth"
	"github.com/pthm-cable/drape/scene"
)

// strainScale maps |strain| to full colour saturation.
const strainScale = 0.1

// ClothRenderer draws the points and springs of every cloth in a scene.
type ClothRenderer struct {
	cam *camera.Camera

	// Toggles
	ShowPoints  bool
	ShowShear   bool
	ShowBending bool
	ShowStrain  bool // colour springs by strain instead of by type

	positions []r3.Vec // scratch copy reused across frames
}

// NewClothRenderer creates a renderer viewing through cam.
func NewClothRenderer(cam *camera.Camera) *ClothRenderer {
	return &ClothRenderer{
		cam:        cam,
		ShowPoints: true,
		ShowShear:  true,
		ShowStrain: true,
	}
}

// Camera3D converts the orbit camera for raylib.
func (r *ClothRenderer) Camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   toVector3(r.cam.Position()),
		Target:     toVector3(r.cam.Target),
		Up:         rl.Vector3{Y: 1},
		Fovy:       float32(r.cam.FovY),
		Projection: rl.CameraPerspective,
	}
}

// Draw renders every instance. Must be called between BeginDrawing and
// EndDrawing.
func (r *ClothRenderer) Draw(instances []scene.Instance) {
	cam := r.Camera3D()

	rl.BeginMode3D(cam)
	rl.DrawGrid(20, 0.25)
	for _, inst := range instances {
		r.drawCloth(inst)
	}
	rl.EndMode3D()

	// Labels above the top edge of each cloth
	for _, inst := range instances {
		anchor := r3.Add(inst.Offset, r3.Vec{Y: 0.08})
		screen := rl.GetWorldToScreen(toVector3(anchor), cam)
		rl.DrawText(inst.Label, int32(screen.X), int32(screen.Y), 16, rl.RayWhite)
	}
}

func (r *ClothRenderer) drawCloth(inst scene.Instance) {
	r.positions = inst.Sim.Positions(r.positions)
	points := inst.Sim.Points()

	for _, c := range inst.Sim.Constraints() {
		if !r.visible(c.Type) {
			continue
		}
		a := r3.Add(r.positions[c.A], inst.Offset)
		b := r3.Add(r.positions[c.B], inst.Offset)

		color := typeColor(c.Type)
		if r.ShowStrain {
			d := r3.Norm(r3.Sub(b, a))
			color = strainColor((d - c.Rest) / c.Rest)
		}
		rl.DrawLine3D(toVector3(a), toVector3(b), color)
	}

	if !r.ShowPoints {
		return
	}
	for i, p := range r.positions {
		color := rl.LightGray
		if points[i].Pinned() {
			color = rl.Red
		}
		rl.DrawPoint3D(toVector3(r3.Add(p, inst.Offset)), color)
	}
}

func (r *ClothRenderer) visible(t cloth.ConstraintType) bool {
	switch t {
	case cloth.Shear:
		return r.ShowShear
	case cloth.Bending:
		return r.ShowBending
	default:
		return true
	}
}

// typeColor returns the fixed colour of a constraint type.
func typeColor(t cloth.ConstraintType) rl.Color {
	switch t {
	case cloth.Shear:
		return rl.Color{R: 90, G: 160, B: 220, A: 160}
	case cloth.Bending:
		return rl.Color{R: 200, G: 160, B: 80, A: 120}
	default:
		return rl.Color{R: 230, G: 230, B: 230, A: 255}
	}
}

// strainColor shades white toward red when stretched and toward blue when
// compressed.
func strainColor(strain float64) rl.Color {
	if math.IsNaN(strain) {
		return rl.Magenta
	}
	t := math.Min(math.Abs(strain)/strainScale, 1)
	fade := uint8(255 * (1 - t))
	if strain >= 0 {
		return rl.Color{R: 255, G: fade, B: fade, A: 255}
	}
	return rl.Color{R: fade, G: fade, B: 255, A: 255}
}

func toVector3(v r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
