package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/drape/cloth"
	"github.com/pthm-cable/drape/telemetry"
)

func testParams() cloth.Params {
	p := cloth.DefaultParams()
	p.Divisions = 6
	p.Workers = 2
	p.ParallelThreshold = 0
	return p
}

func TestScene_SpawnComparison(t *testing.T) {
	s := New(Options{StatsWindow: 1, PerfWindow: 10})
	defer s.Close()

	if err := s.SpawnComparison(testParams()); err != nil {
		t.Fatal(err)
	}

	insts := s.Instances()
	if len(insts) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(insts))
	}
	if insts[0].Sim.Variant() != cloth.Sequential || insts[1].Sim.Variant() != cloth.Parallel {
		t.Errorf("unexpected variants %s, %s", insts[0].Sim.Variant(), insts[1].Sim.Variant())
	}
	if insts[0].Offset.X >= insts[1].Offset.X {
		t.Errorf("expected instances laid out left to right, got %v and %v", insts[0].Offset, insts[1].Offset)
	}
	if insts[0].Label != "sequential" {
		t.Errorf("unexpected label %q", insts[0].Label)
	}
}

func TestScene_SpawnInvalid(t *testing.T) {
	s := New(Options{})
	defer s.Close()

	p := testParams()
	p.Divisions = 0
	if _, err := s.Spawn("bad", p, r3.Vec{}); !errors.Is(err, cloth.ErrDegenerateGrid) {
		t.Errorf("expected ErrDegenerateGrid, got %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("failed spawn left %d entities", s.Count())
	}
}

func TestScene_UpdateAdvancesAll(t *testing.T) {
	s := New(Options{StatsWindow: 10})
	defer s.Close()

	if err := s.SpawnComparison(testParams()); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		s.Update(0.032)
	}

	for _, inst := range s.Instances() {
		if inst.Sim.Steps() != 20 {
			t.Errorf("%s: expected 20 steps, got %d", inst.Label, inst.Sim.Steps())
		}
	}
	if s.TotalSteps() != 20 || s.Frames() != 10 {
		t.Errorf("expected 20 steps over 10 frames, got %d over %d", s.TotalSteps(), s.Frames())
	}

	stats := s.Perf().Stats()
	if _, ok := stats.PhaseAvg[telemetry.PhaseRelax]; !ok {
		t.Error("expected relax phase timed through simulation hooks")
	}
}

func TestScene_Pause(t *testing.T) {
	s := New(Options{})
	defer s.Close()
	if err := s.SpawnSingle(testParams()); err != nil {
		t.Fatal(err)
	}

	s.SetPaused(true)
	if n := s.Update(1); n != 0 || s.TotalSteps() != 0 {
		t.Errorf("paused scene ran %d steps", n)
	}
	s.SetPaused(false)
	if n := s.Update(0.016); n != 1 {
		t.Errorf("expected 1 step after resume, got %d", n)
	}
}

func TestScene_WritesStatsEachWindow(t *testing.T) {
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	s := New(Options{StatsWindow: 0.1, Output: om})
	if err := s.SpawnComparison(testParams()); err != nil {
		t.Fatal(err)
	}

	// 0.64s of simulated time in 0.1s windows
	for i := 0; i < 20; i++ {
		s.Update(0.032)
	}
	s.Close()
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header plus two rows per window
	if len(lines) < 1+2*3 || (len(lines)-1)%2 != 0 {
		t.Fatalf("unexpected stats.csv:\n%s", data)
	}
	if !strings.Contains(lines[1], "sequential") || !strings.Contains(lines[2], "parallel") {
		t.Errorf("expected one row per variant, got %q / %q", lines[1], lines[2])
	}
}

func TestScene_EachAndLatestStats(t *testing.T) {
	s := New(Options{StatsWindow: 100})
	defer s.Close()
	if err := s.SpawnSingle(testParams()); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		s.Update(0.016)
	}
	s.Flush()

	if got := s.Instances()[0].Stats.Steps; got != 5 {
		t.Errorf("expected latest stats at step 5, got %d", got)
	}

	want := errors.New("stop")
	err := s.Each(func(label string, sim *cloth.Simulation) error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("expected wrapped error, got %v", err)
	}
	if err := s.Each(func(_ string, sim *cloth.Simulation) error {
		return sim.SetIterations(3)
	}); err != nil {
		t.Fatal(err)
	}
	if s.Instances()[0].Sim.Params().Iterations != 3 {
		t.Error("Each did not reach the simulation")
	}
}
