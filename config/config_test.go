package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/drape/cloth"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Cloth.Divisions != 32 {
		t.Errorf("expected 32 divisions, got %d", cfg.Cloth.Divisions)
	}
	if cfg.Cloth.Pin != cloth.PinTopCorners {
		t.Errorf("expected top_corners pinning, got %q", cfg.Cloth.Pin)
	}
	if cfg.Physics.Gravity != (Vec3{0, -9.8, 0}) {
		t.Errorf("unexpected gravity %v", cfg.Physics.Gravity)
	}
	if cfg.Solver.Variant != cloth.Parallel {
		t.Errorf("expected parallel solver, got %q", cfg.Solver.Variant)
	}
	if cfg.Timing.Mode != cloth.FixedTiming {
		t.Errorf("expected fixed timing, got %q", cfg.Timing.Mode)
	}
	if cfg.Derived.NumPoints != 33*33 {
		t.Errorf("expected %d points, got %d", 33*33, cfg.Derived.NumPoints)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_DefaultsMatchParams(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	got := cfg.ClothParams()
	want := cloth.DefaultParams()

	if got.Forces != want.Forces {
		t.Errorf("forces: got %+v, want %+v", got.Forces, want.Forces)
	}
	if got.Stiffness != want.Stiffness {
		t.Errorf("stiffness: got %+v, want %+v", got.Stiffness, want.Stiffness)
	}
	if got.Timing != want.Timing {
		t.Errorf("timing: got %+v, want %+v", got.Timing, want.Timing)
	}
	if got.SpringConstant != want.SpringConstant || got.Iterations != want.Iterations {
		t.Errorf("spring/iterations: got %v/%d, want %v/%d",
			got.SpringConstant, got.Iterations, want.SpringConstant, want.Iterations)
	}
}

func TestLoad_Override(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cloth.yaml")
	data := []byte(`
cloth:
  divisions: 10
  pin: top_row
physics:
  wind: [1, 0, 0]
stiffness:
  shear: {shrink: 0.5, stretch: 0.25}
solver:
  variant: sequential
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Cloth.Divisions != 10 || cfg.Derived.NumPoints != 121 {
		t.Errorf("expected 10 divisions / 121 points, got %d / %d", cfg.Cloth.Divisions, cfg.Derived.NumPoints)
	}
	if cfg.Cloth.Pin != cloth.PinTopRow {
		t.Errorf("expected top_row, got %q", cfg.Cloth.Pin)
	}
	p := cfg.ClothParams()
	if p.Forces.Wind.X != 1 || p.Forces.Wind.Z != 0 {
		t.Errorf("wind override not applied: %v", p.Forces.Wind)
	}
	if p.Stiffness.Shear != (cloth.Spring{Shrink: 0.5, Stretch: 0.25}) {
		t.Errorf("shear override not applied: %+v", p.Stiffness.Shear)
	}
	// Untouched keys keep their defaults.
	if p.Stiffness.Structural != (cloth.Spring{Shrink: 1, Stretch: 1}) {
		t.Errorf("structural should keep defaults, got %+v", p.Stiffness.Structural)
	}
	if p.SpringConstant != 3000 {
		t.Errorf("spring constant should keep default, got %v", p.SpringConstant)
	}
	if p.Variant != cloth.Sequential {
		t.Errorf("expected sequential variant, got %q", p.Variant)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	cfg.Cloth.Divisions = 0
	if err := cfg.Validate(); !errors.Is(err, cloth.ErrDegenerateGrid) {
		t.Errorf("expected ErrDegenerateGrid, got %v", err)
	}

	cfg.Cloth.Divisions = 4
	cfg.Solver.Variant = "gpu"
	if err := cfg.Validate(); !errors.Is(err, cloth.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}

	cfg.Solver.Variant = cloth.Sequential
	cfg.Telemetry.StatsWindow = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected negative stats window to be rejected")
	}
}

func TestConfig_WriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Physics.SpringConstant = 1234
	cfg.Timing.Mode = cloth.ClampedTiming

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Physics.SpringConstant != 1234 {
		t.Errorf("expected spring constant 1234, got %v", reloaded.Physics.SpringConstant)
	}
	if reloaded.Timing.Mode != cloth.ClampedTiming {
		t.Errorf("expected clamped timing, got %q", reloaded.Timing.Mode)
	}
}

func TestCfg_PanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	defer func() {
		if recover() == nil {
			t.Error("expected Cfg to panic before Init")
		}
	}()
	Cfg()
}
