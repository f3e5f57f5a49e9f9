// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/drape/cloth"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Cloth     ClothConfig     `yaml:"cloth"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Stiffness cloth.Stiffness `yaml:"stiffness"`
	Solver    SolverConfig    `yaml:"solver"`
	Timing    TimingConfig    `yaml:"timing"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Vec3 is a YAML-friendly 3D vector written as [x, y, z].
type Vec3 [3]float64

// R3 converts the vector to gonum's r3 form.
func (v Vec3) R3() r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// FromR3 converts an r3 vector.
func FromR3(v r3.Vec) Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ClothConfig holds the sheet geometry.
type ClothConfig struct {
	Width     float64         `yaml:"width"`     // extent along x
	Height    float64         `yaml:"height"`    // extent along -y
	Divisions int             `yaml:"divisions"` // grid is (n+1)x(n+1)
	Pin       cloth.PinPolicy `yaml:"pin"`       // top_row or top_corners
}

// PhysicsConfig holds forces and spring parameters.
type PhysicsConfig struct {
	Gravity        Vec3    `yaml:"gravity"`
	Wind           Vec3    `yaml:"wind"`
	Resistance     float64 `yaml:"resistance"`
	SpringConstant float64 `yaml:"spring_constant"`
	Iterations     int     `yaml:"iterations"` // relaxation passes per step
}

// SolverConfig selects the relaxation algorithm.
type SolverConfig struct {
	Variant           cloth.Variant `yaml:"variant"`            // sequential or parallel
	Workers           int           `yaml:"workers"`            // 0 = GOMAXPROCS
	ParallelThreshold int           `yaml:"parallel_threshold"` // smaller passes run single-threaded
}

// TimingConfig holds scheduler parameters.
type TimingConfig struct {
	Mode     cloth.TimingMode `yaml:"mode"`      // fixed or clamped
	StepSize float64          `yaml:"step_size"` // fixed mode step in seconds
	MinDT    float64          `yaml:"min_dt"`    // clamped mode lower bound
	MaxDT    float64          `yaml:"max_dt"`    // clamped mode upper bound
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds of simulated time between stats
	PerfWindow  int     `yaml:"perf_window"`  // frames averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NumPoints int     // (divisions+1)^2
	ScreenW32 int32   // Screen.Width as int32
	ScreenH32 int32   // Screen.Height as int32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	side := c.Cloth.Divisions + 1
	if side < 0 {
		side = 0
	}
	c.Derived.NumPoints = side * side
	c.Derived.ScreenW32 = int32(c.Screen.Width)
	c.Derived.ScreenH32 = int32(c.Screen.Height)
}

// ClothParams converts the configuration into simulation parameters.
func (c *Config) ClothParams() cloth.Params {
	return cloth.Params{
		Width:     c.Cloth.Width,
		Height:    c.Cloth.Height,
		Divisions: c.Cloth.Divisions,
		Pin:       c.Cloth.Pin,
		Forces: cloth.Forces{
			Gravity:    c.Physics.Gravity.R3(),
			Wind:       c.Physics.Wind.R3(),
			Resistance: c.Physics.Resistance,
		},
		Iterations:        c.Physics.Iterations,
		SpringConstant:    c.Physics.SpringConstant,
		Stiffness:         c.Stiffness,
		Variant:           c.Solver.Variant,
		Workers:           c.Solver.Workers,
		ParallelThreshold: c.Solver.ParallelThreshold,
		Timing: cloth.Timing{
			Mode:     c.Timing.Mode,
			StepSize: c.Timing.StepSize,
			MinDelta: c.Timing.MinDT,
			MaxDelta: c.Timing.MaxDT,
		},
	}
}

// Validate checks the configuration without building a simulation.
func (c *Config) Validate() error {
	if err := c.ClothParams().Validate(); err != nil {
		return fmt.Errorf("invalid cloth config: %w", err)
	}
	if c.Telemetry.StatsWindow < 0 {
		return fmt.Errorf("invalid telemetry config: stats_window must be >= 0, got %g", c.Telemetry.StatsWindow)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
