package inspector

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/drape/cloth"
)

func newSim(t *testing.T) *cloth.Simulation {
	t.Helper()
	p := cloth.DefaultParams()
	p.Divisions = 4
	p.Variant = cloth.Sequential
	sim, err := cloth.New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(sim.Close)
	return sim
}

func TestProbe_RestPose(t *testing.T) {
	sim := newSim(t)

	info, ok := Probe(sim, 0)
	if !ok {
		t.Fatal("Probe(0) = false")
	}
	if !info.Pinned {
		t.Error("top-left corner should be pinned")
	}
	if info.Col != 0 || info.Row != 0 {
		t.Errorf("lattice = (%d,%d), want (0,0)", info.Col, info.Row)
	}
	// Structural right and down, shear down-right, bending right and down.
	if info.Springs != 5 {
		t.Errorf("springs = %d, want 5", info.Springs)
	}
	if info.MaxStrain != 0 {
		t.Errorf("max strain at rest = %g, want 0", info.MaxStrain)
	}
	if info.Displacement != (r3.Vec{}) {
		t.Errorf("displacement at rest = %v, want zero", info.Displacement)
	}
}

func TestProbe_AfterSteps(t *testing.T) {
	sim := newSim(t)
	for i := 0; i < 10; i++ {
		sim.Step(0.016)
	}

	stride := sim.Divisions() + 1
	idx := 2*stride + 4 // bottom-middle
	info, ok := Probe(sim, idx)
	if !ok {
		t.Fatalf("Probe(%d) = false", idx)
	}
	if info.Pinned {
		t.Error("bottom point should be free")
	}
	if info.Col != 2 || info.Row != 4 {
		t.Errorf("lattice = (%d,%d), want (2,4)", info.Col, info.Row)
	}
	if info.Displacement.Y >= 0 {
		t.Errorf("displacement.y = %g, want < 0 under gravity", info.Displacement.Y)
	}
	if math.IsNaN(info.MaxStrain) {
		t.Error("max strain is NaN")
	}
}

func TestProbe_OutOfRange(t *testing.T) {
	sim := newSim(t)
	if _, ok := Probe(sim, -1); ok {
		t.Error("Probe(-1) = true")
	}
	if _, ok := Probe(sim, len(sim.Points())); ok {
		t.Error("Probe(len) = true")
	}
}

func TestNearest(t *testing.T) {
	screen := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}}

	tests := []struct {
		name   string
		target r2.Vec
		want   int
		ok     bool
	}{
		{"exact", r2.Vec{X: 10}, 1, true},
		{"closest", r2.Vec{X: 17, Y: 2}, 2, true},
		{"out of radius", r2.Vec{X: 50}, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Nearest(screen, tt.target, 6)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Nearest = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
