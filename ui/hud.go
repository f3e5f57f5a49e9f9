package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/drape/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title   string
	Steps   int
	SimTime float64
	FPS     int32
	Paused  bool
	Cloths  []telemetry.ClothStats
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Steps: %d | Sim time: %.2fs | FPS: %d", data.Steps, data.SimTime, data.FPS),
		10, 35, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 55, 16, rl.Yellow)

	y := int32(80)
	for _, c := range data.Cloths {
		y = r.DrawSectionHeader(10, y, c.Label)
		y = r.DrawBar(10, y, "strain p90", float32(c.StrainP90), 0.1, 0.05, 280)
		y = r.DrawBar(10, y, "strain max", float32(c.StrainMax), 0.25, 0.1, 280)
		y = r.DrawLabelValue(10, y, "max sag", fmt.Sprintf("%.3f", c.MaxSag))
		if c.NonFinite > 0 {
			rl.DrawText(fmt.Sprintf("%d non-finite points", c.NonFinite), 10, y, r.Theme.FontSize, r.Theme.WarnColor)
			y += r.Theme.LineHeight
		}
		y += 6
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the frame phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s | %.0f steps/s", stats.AvgFrameDuration.Round(time.Microsecond), stats.StepsPerSecond),
		x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range []string{telemetry.PhaseIntegrate, telemetry.PhaseRelax, telemetry.PhaseScene, telemetry.PhaseTelemetry} {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
