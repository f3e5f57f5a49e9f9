package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drape/scene"
)

// TuningPanel renders the right-side panel of runtime parameter sliders.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewTuningPanel creates a new tuning panel.
func NewTuningPanel(x, y, width int32) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// IsVisible returns whether the panel is shown.
func (p *TuningPanel) IsVisible() bool {
	return p.visible
}

// Toggle switches panel visibility.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Contains reports whether a screen position lies over the visible panel.
func (p *TuningPanel) Contains(pos rl.Vector2) bool {
	if !p.visible {
		return false
	}
	rect := rl.Rectangle{X: float32(p.x), Y: float32(p.y), Width: float32(p.width), Height: float32(p.height())}
	return rl.CheckCollisionPointRec(pos, rect)
}

func (p *TuningPanel) height() int32 {
	t := p.renderer.Theme
	rows := int32(10)
	headers := int32(3)
	return t.Padding*2 + headers*t.LineHeight + rows*(t.SliderHeight+6)
}

// Draw renders the sliders and returns t with any edits applied, plus
// whether anything changed.
func (p *TuningPanel) Draw(t scene.Tuning) (scene.Tuning, bool) {
	if !p.visible {
		return t, false
	}

	r := p.renderer
	r.DrawPanel(p.x, p.y, p.width, p.height())

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	w := p.width - 2*r.Theme.Padding
	orig := t

	y = r.DrawSectionHeader(x, y, "Stiffness")
	for _, s := range []struct {
		name   string
		spring *float64
	}{
		{"struct shrink", &t.Stiffness.Structural.Shrink},
		{"struct stretch", &t.Stiffness.Structural.Stretch},
		{"shear shrink", &t.Stiffness.Shear.Shrink},
		{"shear stretch", &t.Stiffness.Shear.Stretch},
		{"bend shrink", &t.Stiffness.Bending.Shrink},
		{"bend stretch", &t.Stiffness.Bending.Stretch},
	} {
		var v float32
		v, y = r.DrawSlider(x, y, s.name, float32(*s.spring), 0, 1, "%.2f", w)
		*s.spring = float64(v)
	}

	y = r.DrawSectionHeader(x, y, "Springs")
	var k float32
	k, y = r.DrawSlider(x, y, "constant", float32(t.SpringConstant), 100, 10000, "%.0f", w)
	t.SpringConstant = float64(k)
	var it float32
	it, y = r.DrawSlider(x, y, "iterations", float32(t.Iterations), 1, 16, "%.0f", w)
	t.Iterations = int(math.Round(float64(it)))

	y = r.DrawSectionHeader(x, y, "Forces")
	var res float32
	res, y = r.DrawSlider(x, y, "resistance", float32(t.Forces.Resistance), 0, 5, "%.2f", w)
	t.Forces.Resistance = float64(res)
	wind, _ := r.DrawSlider(x, y, "wind z", float32(t.Forces.Wind.Z), -5, 5, "%.2f", w)
	t.Forces.Wind.Z = float64(wind)

	return t, t != orig
}
