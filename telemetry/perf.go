package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/drape/cloth"
)

// Phase names for a frame. The first two are reported by the simulation
// itself through cloth.Hooks.
const (
	PhaseIntegrate = cloth.PhaseIntegrate
	PhaseRelax     = cloth.PhaseRelax
	PhaseScene     = "scene"
	PhaseTelemetry = "telemetry"
)

// phaseOrder fixes the order phases appear in logs.
var phaseOrder = []string{PhaseIntegrate, PhaseRelax, PhaseScene, PhaseTelemetry}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Steps         int // physics steps run during the frame
	Phases        map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window of frames.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	currentSteps  int
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Wall-clock time between rendered frames (graphics mode)
	lastRender     time.Time
	renderDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of frames to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.currentSteps = 0
	p.lastPhase = ""
}

// StartPhase begins timing a phase, closing the previous one.
// It matches the signature of cloth.Hooks.OnPhase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// AddSteps counts physics steps run during the current frame.
func (p *PerfCollector) AddSteps(n int) {
	p.currentSteps += n
}

// EndFrame finishes timing the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Steps:         p.currentSteps,
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordRender records the time between rendered frames.
func (p *PerfCollector) RecordRender() {
	now := time.Now()
	if !p.lastRender.IsZero() {
		p.renderDuration = now.Sub(p.lastRender)
	}
	p.lastRender = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	// Phase breakdown: average duration and share of frame time
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Physics throughput in steps per wall-clock second of frame work
	StepsPerSecond float64

	// Graphics mode only
	FPS float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.renderDuration > 0 {
		stats.FPS = float64(time.Second) / float64(p.renderDuration)
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	var steps int
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameDuration
		steps += s.Steps

		if i == 0 || s.FrameDuration < stats.MinFrameDuration {
			stats.MinFrameDuration = s.FrameDuration
		}
		if s.FrameDuration > stats.MaxFrameDuration {
			stats.MaxFrameDuration = s.FrameDuration
		}
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	n := time.Duration(p.sampleCount)
	stats.AvgFrameDuration = total / n
	for phase, sum := range phaseSum {
		stats.PhaseAvg[phase] = sum / n
		if total > 0 {
			stats.PhasePct[phase] = float64(sum) / float64(total) * 100
		}
	}
	if total > 0 {
		stats.StepsPerSecond = float64(steps) / total.Seconds()
	}

	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
		"steps_per_sec", int(s.StepsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrameDuration.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrameDuration.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrameDuration.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Step         int     `csv:"step"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	MinFrameUS   int64   `csv:"min_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	StepsPerSec  float64 `csv:"steps_per_sec"`
	FPS          float64 `csv:"fps"`
	IntegratePct float64 `csv:"integrate_pct"`
	RelaxPct     float64 `csv:"relax_pct"`
	ScenePct     float64 `csv:"scene_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(step int) PerfStatsCSV {
	return PerfStatsCSV{
		Step:         step,
		AvgFrameUS:   s.AvgFrameDuration.Microseconds(),
		MinFrameUS:   s.MinFrameDuration.Microseconds(),
		MaxFrameUS:   s.MaxFrameDuration.Microseconds(),
		StepsPerSec:  s.StepsPerSecond,
		FPS:          s.FPS,
		IntegratePct: s.PhasePct[PhaseIntegrate],
		RelaxPct:     s.PhasePct[PhaseRelax],
		ScenePct:     s.PhasePct[PhaseScene],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
