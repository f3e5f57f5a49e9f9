package scene

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/drape/cloth"
	"github.com/pthm-cable/drape/telemetry"
)

// bookmarkHistory is the number of stats windows each detector remembers.
const bookmarkHistory = 10

// Options configures a Scene.
type Options struct {
	StatsWindow float64 // simulated seconds per stats window
	PerfWindow  int     // frames averaged by the perf collector
	LogStats    bool    // log stats, perf and bookmarks on every window

	// Output receives CSV rows; nil disables file output.
	Output *telemetry.OutputManager
}

// Instance is a read-only view of one cloth entity.
type Instance struct {
	Entity ecs.Entity
	Label  string
	Offset r3.Vec
	Sim    *cloth.Simulation
	Stats  telemetry.ClothStats // latest window
}

// Scene owns the ECS world and drives every cloth in it.
type Scene struct {
	world *ecs.World

	mapper *ecs.Map4[Cloth, Label, Placement, Monitor]
	filter *ecs.Filter4[Cloth, Label, Placement, Monitor]

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool

	frames  int
	simTime float64
	paused  bool
}

// New creates an empty scene.
func New(opts Options) *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:     world,
		mapper:    ecs.NewMap4[Cloth, Label, Placement, Monitor](world),
		filter:    ecs.NewFilter4[Cloth, Label, Placement, Monitor](world),
		perf:      telemetry.NewPerfCollector(opts.PerfWindow),
		collector: telemetry.NewCollector(opts.StatsWindow),
		output:    opts.Output,
		logStats:  opts.LogStats,
	}
}

// Spawn builds a simulation from p and adds it to the scene.
func (s *Scene) Spawn(label string, p cloth.Params, offset r3.Vec) (ecs.Entity, error) {
	p.Hooks.OnPhase = s.perf.StartPhase

	sim, err := cloth.New(p)
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("spawning %s: %w", label, err)
	}

	c := Cloth{Sim: sim}
	l := Label{Name: label}
	pl := Placement{Offset: offset}
	m := Monitor{Detector: telemetry.NewBookmarkDetector(bookmarkHistory)}
	e := s.mapper.NewEntity(&c, &l, &pl, &m)

	slog.Info("cloth_spawned",
		"label", label,
		"variant", string(p.Variant),
		"points", len(sim.Points()),
		"constraints", len(sim.Constraints()),
	)
	return e, nil
}

// Update advances every cloth by one wall-clock frame delta and flushes
// telemetry when a stats window closes. It returns the largest number of
// physics steps any instance ran.
func (s *Scene) Update(delta float64) int {
	if s.paused {
		return 0
	}

	s.perf.StartFrame()
	s.perf.StartPhase(telemetry.PhaseScene)

	maxSteps := 0
	query := s.filter.Query()
	for query.Next() {
		c, _, _, _ := query.Get()
		n := c.Sim.Advance(delta)
		s.perf.StartPhase(telemetry.PhaseScene)

		s.perf.AddSteps(n)
		if n > maxSteps {
			maxSteps = n
		}
		if c.Sim.Elapsed() > s.simTime {
			s.simTime = c.Sim.Elapsed()
		}
	}

	s.frames++
	s.collector.RecordFrame(maxSteps)

	if s.collector.ShouldFlush(s.simTime) {
		s.perf.StartPhase(telemetry.PhaseTelemetry)
		s.flushTelemetry()
	}

	s.perf.EndFrame()
	return maxSteps
}

// Flush closes the current stats window immediately.
func (s *Scene) Flush() {
	s.flushTelemetry()
}

// flushTelemetry samples every instance, checks bookmarks and writes output.
func (s *Scene) flushTelemetry() {
	window := s.collector.Flush(s.simTime)
	perfStats := s.perf.Stats()

	var rows []telemetry.ClothStats
	var bookmarks []telemetry.Bookmark

	query := s.filter.Query()
	for query.Next() {
		c, l, _, m := query.Get()

		stats := telemetry.ComputeClothStats(l.Name, c.Sim)
		m.Latest = stats
		rows = append(rows, stats)

		stats.WarnNonFinite()
		if s.logStats {
			stats.LogStats()
		}
		bookmarks = append(bookmarks, m.Detector.Check(stats)...)
	}

	if s.logStats {
		slog.Info("window",
			"start", window.Start,
			"end", window.End,
			"steps", window.Steps,
			"frames", window.Frames,
		)
		perfStats.LogStats()
		for _, bm := range bookmarks {
			bm.LogBookmark()
		}
	}

	if err := s.output.WriteStats(rows...); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := s.output.WritePerf(perfStats, s.TotalSteps()); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := s.output.WriteBookmarks(bookmarks...); err != nil {
		slog.Error("failed to write bookmarks", "error", err)
	}
}

// Instances returns a view of every cloth in spawn order.
func (s *Scene) Instances() []Instance {
	var out []Instance
	query := s.filter.Query()
	for query.Next() {
		c, l, p, m := query.Get()
		out = append(out, Instance{
			Entity: query.Entity(),
			Label:  l.Name,
			Offset: p.Offset,
			Sim:    c.Sim,
			Stats:  m.Latest,
		})
	}
	return out
}

// Each calls fn with the simulation of every instance. It stops at the first
// error and returns it.
func (s *Scene) Each(fn func(label string, sim *cloth.Simulation) error) error {
	for _, inst := range s.Instances() {
		if err := fn(inst.Label, inst.Sim); err != nil {
			return fmt.Errorf("%s: %w", inst.Label, err)
		}
	}
	return nil
}

// Count returns the number of instances.
func (s *Scene) Count() int {
	return len(s.Instances())
}

// TotalSteps returns the largest step count of any instance.
func (s *Scene) TotalSteps() int {
	steps := 0
	for _, inst := range s.Instances() {
		if n := inst.Sim.Steps(); n > steps {
			steps = n
		}
	}
	return steps
}

// SimTime returns the simulated time of the furthest instance.
func (s *Scene) SimTime() float64 {
	return s.simTime
}

// Frames returns the number of updates run.
func (s *Scene) Frames() int {
	return s.frames
}

// Perf returns the performance collector.
func (s *Scene) Perf() *telemetry.PerfCollector {
	return s.perf
}

// Paused reports whether updates are suspended.
func (s *Scene) Paused() bool {
	return s.paused
}

// SetPaused suspends or resumes updates.
func (s *Scene) SetPaused(p bool) {
	s.paused = p
}

// Close stops every simulation and removes all entities.
func (s *Scene) Close() {
	var entities []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		c, _, _, _ := query.Get()
		c.Sim.Close()
		entities = append(entities, query.Entity())
	}
	for _, e := range entities {
		s.world.RemoveEntity(e)
	}
}
