package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/drape/cloth"
)

// fakeCloth is a hand-built ClothView.
type fakeCloth struct {
	points      []cloth.Point
	origin      []r3.Vec
	constraints []cloth.Constraint
}

func (f *fakeCloth) Points() []cloth.Point { return f.points }
func (f *fakeCloth) Origin() []r3.Vec { return f.origin }
func (f *fakeCloth) Constraints() []cloth.Constraint { return f.constraints }
func (f *fakeCloth) Steps() int { return 7 }
func (f *fakeCloth) Elapsed() float64 { return 0.112 }
func (f *fakeCloth) Variant() cloth.Variant { return cloth.Sequential }

// chain builds points on the x axis at the given positions with unit-rest
// constraints between neighbours, all starting at x = 0, 1, 2...
func chain(xs ...float64) *fakeCloth {
	f := &fakeCloth{}
	for i, x := range xs {
		f.points = append(f.points, cloth.Point{Position: r3.Vec{X: x}, Weight: 1})
		f.origin = append(f.origin, r3.Vec{X: float64(i)})
		if i > 0 {
			f.constraints = append(f.constraints, cloth.Constraint{A: i - 1, B: i, Rest: 1})
		}
	}
	return f
}

func TestComputeClothStats_AtRest(t *testing.T) {
	s := ComputeClothStats("rest", chain(0, 1, 2, 3))

	if s.Label != "rest" || s.Variant != "sequential" || s.Steps != 7 || s.SimTime != 0.112 {
		t.Errorf("unexpected identity fields %+v", s)
	}
	if s.StrainMin != 0 || s.StrainMax != 0 || s.StrainMean != 0 || s.StrainStd != 0 {
		t.Errorf("expected zero strain at rest, got %+v", s)
	}
	if s.MaxSag != 0 || s.NonFinite != 0 {
		t.Errorf("expected no sag, got %+v", s)
	}
}

func TestComputeClothStats_Strain(t *testing.T) {
	// Lengths 1.5, 0.5, 1.0 against rest 1.
	s := ComputeClothStats("strained", chain(0, 1.5, 2, 3))

	if math.Abs(s.StrainMax-0.5) > 1e-12 {
		t.Errorf("expected max strain 0.5, got %v", s.StrainMax)
	}
	if math.Abs(s.StrainMin+0.5) > 1e-12 {
		t.Errorf("expected min strain -0.5, got %v", s.StrainMin)
	}
	if math.Abs(s.StrainMean) > 1e-12 {
		t.Errorf("expected mean strain 0, got %v", s.StrainMean)
	}
	if math.Abs(s.StrainStd-0.5) > 1e-12 {
		t.Errorf("expected strain stddev 0.5, got %v", s.StrainStd)
	}
	if s.StrainP90 != 0.5 {
		t.Errorf("expected p90 strain 0.5, got %v", s.StrainP90)
	}
	if math.Abs(s.MaxSag-0.5) > 1e-12 {
		t.Errorf("expected max sag 0.5, got %v", s.MaxSag)
	}
	if math.Abs(s.MeanSag-0.125) > 1e-12 {
		t.Errorf("expected mean sag 0.125, got %v", s.MeanSag)
	}
}

func TestComputeClothStats_NonFinite(t *testing.T) {
	f := chain(0, 1, 2)
	f.points[2].Position.Y = math.NaN()

	s := ComputeClothStats("diverged", f)

	if s.NonFinite != 1 {
		t.Errorf("expected 1 non-finite point, got %d", s.NonFinite)
	}
	if math.IsNaN(s.StrainMean) || math.IsNaN(s.MaxSag) {
		t.Errorf("non-finite points must not poison aggregates: %+v", s)
	}
	if s.StrainMax != 0 {
		t.Errorf("expected remaining constraint at rest, got %v", s.StrainMax)
	}
}

func TestComputeClothStats_Simulation(t *testing.T) {
	p := cloth.DefaultParams()
	p.Divisions = 6
	p.Variant = cloth.Sequential
	sim, err := cloth.New(p)
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()

	for i := 0; i < 30; i++ {
		sim.Advance(1.0 / 60)
	}

	s := ComputeClothStats("sim", sim)
	if s.Steps != sim.Steps() {
		t.Errorf("expected %d steps, got %d", sim.Steps(), s.Steps)
	}
	if s.MaxSag <= 0 {
		t.Error("expected the cloth to have moved")
	}
	if s.NonFinite != 0 {
		t.Errorf("expected finite cloth, got %d bad points", s.NonFinite)
	}
}
