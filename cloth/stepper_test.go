package cloth

import (
	"errors"
	"math"
	"testing"
)

func TestFixedStep_AccumulatesLeftover(t *testing.T) {
	fs := NewFixedStep(0.02)

	deltas := []float64{0.05, 0.003, 0.02}
	wantSteps := []int{2, 0, 1}
	wantLeftover := []float64{0.01, 0.013, 0.013}

	for i, d := range deltas {
		n, dt := fs.Steps(d)
		if n != wantSteps[i] {
			t.Errorf("frame %d: expected %d steps, got %d", i, wantSteps[i], n)
		}
		if dt != 0.02 {
			t.Errorf("frame %d: expected step size 0.02, got %v", i, dt)
		}
		if math.Abs(fs.Leftover()-wantLeftover[i]) > 1e-9 {
			t.Errorf("frame %d: expected leftover %v, got %v", i, wantLeftover[i], fs.Leftover())
		}
	}
}

func TestFixedStep_IgnoresBadDeltas(t *testing.T) {
	fs := NewFixedStep(0.01)
	fs.Steps(0.005)

	for _, d := range []float64{-1, math.NaN(), math.Inf(1)} {
		if n, _ := fs.Steps(d); n != 0 {
			t.Errorf("delta %v: expected 0 steps, got %d", d, n)
		}
	}
	if math.Abs(fs.Leftover()-0.005) > 1e-12 {
		t.Errorf("expected leftover preserved at 0.005, got %v", fs.Leftover())
	}

	fs.Reset()
	if fs.Leftover() != 0 {
		t.Errorf("expected empty accumulator after reset, got %v", fs.Leftover())
	}
}

func TestFixedStep_LongFrame(t *testing.T) {
	fs := NewFixedStep(0.016)
	n, _ := fs.Steps(1.0)
	if n != 62 {
		t.Errorf("expected 62 steps in one second, got %d", n)
	}
	if fs.Leftover() < 0 || fs.Leftover() >= 0.016 {
		t.Errorf("leftover %v outside [0, step)", fs.Leftover())
	}
}

func TestClampedStep(t *testing.T) {
	cs := ClampedStep{Min: 0.005, Max: 0.02}

	testCases := []struct {
		delta, want float64
	}{
		{0.001, 0.005},
		{0.01, 0.01},
		{0.5, 0.02},
		{math.NaN(), 0.005},
	}

	for _, tc := range testCases {
		n, dt := cs.Steps(tc.delta)
		if n != 1 {
			t.Errorf("delta %v: expected exactly one step, got %d", tc.delta, n)
		}
		if dt != tc.want {
			t.Errorf("delta %v: expected dt %v, got %v", tc.delta, tc.want, dt)
		}
	}
}

func TestNewStepper(t *testing.T) {
	s, err := NewStepper(Timing{Mode: FixedTiming, StepSize: 0.01})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FixedStep); !ok {
		t.Errorf("expected *FixedStep, got %T", s)
	}

	s, err = NewStepper(Timing{Mode: ClampedTiming, MinDelta: 0.001, MaxDelta: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(ClampedStep); !ok {
		t.Errorf("expected ClampedStep, got %T", s)
	}

	bad := []Timing{
		{Mode: FixedTiming},
		{Mode: ClampedTiming, MinDelta: 0.1, MaxDelta: 0.01},
		{Mode: "variable"},
	}
	for _, tm := range bad {
		if _, err := NewStepper(tm); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%+v: expected ErrInvalidParams, got %v", tm, err)
		}
	}
}
