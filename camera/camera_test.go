package camera

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

func near(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestNew(t *testing.T) {
	cam := New(r3.Vec{X: 1, Y: -0.5}, 3)

	if cam.Distance != 3 {
		t.Errorf("expected distance 3, got %f", cam.Distance)
	}
	if !near(cam.Position(), r3.Vec{X: 1, Y: -0.5, Z: 3}) {
		t.Errorf("expected camera on +Z, got %v", cam.Position())
	}
}

func TestRotateKeepsDistance(t *testing.T) {
	cam := New(r3.Vec{}, 2)

	testCases := []struct{ yaw, pitch float64 }{
		{math.Pi / 2, 0},
		{0.3, 0.4},
		{-1, -0.2},
	}

	for _, tc := range testCases {
		cam.Rotate(tc.yaw, tc.pitch)
		d := r3.Norm(r3.Sub(cam.Position(), cam.Target))
		if math.Abs(d-2) > 1e-9 {
			t.Errorf("after rotate(%v,%v): distance %v, want 2", tc.yaw, tc.pitch, d)
		}
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	cam := New(r3.Vec{}, 1)
	cam.Rotate(math.Pi/2, 0)

	if !near(cam.Position(), r3.Vec{X: 1}) {
		t.Errorf("expected camera on +X after quarter yaw, got %v", cam.Position())
	}
}

func TestPitchClamped(t *testing.T) {
	cam := New(r3.Vec{}, 1)
	cam.Rotate(0, 10)
	if cam.Pitch != maxPitch {
		t.Errorf("expected pitch clamped to %v, got %v", maxPitch, cam.Pitch)
	}
	cam.Rotate(0, -20)
	if cam.Pitch != -maxPitch {
		t.Errorf("expected pitch clamped to %v, got %v", -maxPitch, cam.Pitch)
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(r3.Vec{}, 5)

	cam.Zoom(2)
	if math.Abs(cam.Distance-2.5) > 1e-12 {
		t.Errorf("expected distance 2.5, got %v", cam.Distance)
	}

	cam.Zoom(1e6)
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected min distance, got %v", cam.Distance)
	}

	cam.Zoom(1e-6)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected max distance, got %v", cam.Distance)
	}

	before := cam.Distance
	cam.Zoom(0)
	if cam.Distance != before {
		t.Error("zero zoom factor should be ignored")
	}
}

func TestPanMovesTarget(t *testing.T) {
	cam := New(r3.Vec{}, 4)
	cam.Pan(1, 0.5)

	// Facing -Z, right is +X and up is +Y.
	if !near(cam.Target, r3.Vec{X: 1, Y: 0.5}) {
		t.Errorf("unexpected target after pan %v", cam.Target)
	}
	if math.Abs(cam.Distance-4) > 1e-12 {
		t.Error("pan must not change distance")
	}
}

func TestFit(t *testing.T) {
	cam := New(r3.Vec{}, 1)

	cam.Fit(1, 1, 16.0/9)
	square := cam.Distance

	cam.Fit(4, 1, 16.0/9)
	if cam.Distance <= square {
		t.Errorf("wider rectangle should need a larger distance: %v vs %v", cam.Distance, square)
	}
}

func TestFlyTo(t *testing.T) {
	cam := New(r3.Vec{}, 2)
	home := Pose{Target: r3.Vec{X: 1, Y: -1}, Yaw: 0.4, Pitch: 0.2, Distance: 4}
	cam.FlyTo(home, 1.0, ease.Linear)

	if !cam.Flying() {
		t.Fatal("expected flight in progress")
	}

	// Advance halfway
	cam.Update(0.5)
	if math.Abs(cam.Distance-3) > 1e-4 || math.Abs(cam.Target.X-0.5) > 1e-4 {
		t.Errorf("halfway: distance %v target %v, want 3 and x=0.5", cam.Distance, cam.Target)
	}

	// Advance to end
	cam.Update(0.5)
	if cam.Flying() {
		t.Error("flight should be finished")
	}
	got := cam.Pose()
	if !nearTol(got.Target, home.Target, 1e-5) || math.Abs(got.Yaw-home.Yaw) > 1e-5 ||
		math.Abs(got.Pitch-home.Pitch) > 1e-5 || math.Abs(got.Distance-home.Distance) > 1e-5 {
		t.Errorf("end pose %+v, want %+v", got, home)
	}
}

func TestFlyToShortWayRound(t *testing.T) {
	cam := New(r3.Vec{}, 2)
	cam.Yaw = math.Pi - 0.1
	cam.FlyTo(Pose{Yaw: -math.Pi + 0.1, Distance: 2}, 1.0, ease.Linear)

	cam.Update(0.5)
	// Halfway through a 0.2 rad turn across +-pi, not a 2pi-0.2 sweep.
	if math.Abs(math.Abs(math.Remainder(cam.Yaw, 2*math.Pi))-math.Pi) > 1e-4 {
		t.Errorf("halfway yaw %v, want near +-pi", cam.Yaw)
	}
}

func TestManualInputCancelsFlight(t *testing.T) {
	cam := New(r3.Vec{}, 2)
	cam.FlyTo(Pose{Distance: 5}, 1.0, ease.Linear)
	cam.Rotate(0.1, 0)
	if cam.Flying() {
		t.Error("rotate should cancel the flight")
	}

	cam.FlyTo(Pose{Distance: 5}, 1.0, ease.Linear)
	cam.SetPose(Pose{Distance: 3})
	if cam.Flying() || cam.Distance != 3 {
		t.Errorf("SetPose: flying=%v distance=%v, want false and 3", cam.Flying(), cam.Distance)
	}
}

func nearTol(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) < tol
}
