package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a bar for value in [0, max]; values over warn use the
// high fill colour.
func (r *Renderer) DrawBar(x, y int32, label string, value, max, warn float32, width int32) int32 {
	ratio := float32(0)
	if max > 0 {
		ratio = value / max
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 60

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)

	fill := r.Theme.BarFill
	if value > warn {
		fill = r.Theme.BarFillHigh
	}
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*ratio), r.Theme.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%.4f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawSlider draws a labelled raygui slider and returns the new value and
// Y position.
func (r *Renderer) DrawSlider(x, y int32, label string, value, min, max float32, format string, width int32) (float32, int32) {
	rl.DrawText(label, x, y+1, r.Theme.FontSize, r.Theme.LabelColor)

	sliderX := x + r.Theme.LabelWidth
	sliderW := width - r.Theme.LabelWidth - 50
	value = gui.SliderBar(
		rl.Rectangle{X: float32(sliderX), Y: float32(y), Width: float32(sliderW), Height: float32(r.Theme.SliderHeight)},
		"", "",
		value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, value), sliderX+sliderW+6, y+1, r.Theme.FontSize, r.Theme.ValueColor)

	return value, y + r.Theme.SliderHeight + 6
}
