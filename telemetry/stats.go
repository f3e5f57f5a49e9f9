package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/drape/cloth"
)

// ClothView is the read-only surface of a simulation that stats are computed
// from. *cloth.Simulation implements it.
type ClothView interface {
	Points() []cloth.Point
	Origin() []r3.Vec
	Constraints() []cloth.Constraint
	Steps() int
	Elapsed() float64
	Variant() cloth.Variant
}

// ClothStats holds a snapshot of one cloth's shape.
type ClothStats struct {
	Label   string  `csv:"label"`
	Variant string  `csv:"variant"`
	Steps   int     `csv:"steps"`
	SimTime float64 `csv:"sim_time"`

	// Strain is (length - rest) / rest per constraint; positive is stretched.
	StrainMin  float64 `csv:"strain_min"`
	StrainMean float64 `csv:"strain_mean"`
	StrainP90  float64 `csv:"strain_p90"`
	StrainMax  float64 `csv:"strain_max"`
	StrainStd  float64 `csv:"strain_std"`

	// Displacement from build-time position
	MeanSag float64 `csv:"mean_sag"`
	MaxSag  float64 `csv:"max_sag"`

	// Points whose position is NaN or infinite
	NonFinite int `csv:"non_finite"`
}

// ComputeClothStats measures the current shape of a cloth.
// Non-finite points and constraints touching them are excluded from the
// strain and sag figures and counted in NonFinite.
func ComputeClothStats(label string, v ClothView) ClothStats {
	s := ClothStats{
		Label:   label,
		Variant: string(v.Variant()),
		Steps:   v.Steps(),
		SimTime: v.Elapsed(),
	}

	points := v.Points()
	origin := v.Origin()

	sag := make([]float64, 0, len(points))
	for i, p := range points {
		if !finiteVec(p.Position) {
			s.NonFinite++
			continue
		}
		sag = append(sag, r3.Norm(r3.Sub(p.Position, origin[i])))
	}
	if len(sag) > 0 {
		s.MeanSag = stat.Mean(sag, nil)
		s.MaxSag = floats.Max(sag)
	}

	constraints := v.Constraints()
	strain := make([]float64, 0, len(constraints))
	for _, c := range constraints {
		if c.Rest <= 0 {
			continue
		}
		d := r3.Norm(r3.Sub(points[c.B].Position, points[c.A].Position))
		e := (d - c.Rest) / c.Rest
		if math.IsNaN(e) || math.IsInf(e, 0) {
			continue
		}
		strain = append(strain, e)
	}
	if len(strain) > 0 {
		sort.Float64s(strain)
		s.StrainMin = strain[0]
		s.StrainMax = strain[len(strain)-1]
		s.StrainP90 = stat.Quantile(0.9, stat.Empirical, strain, nil)
		if len(strain) > 1 {
			s.StrainMean, s.StrainStd = stat.MeanStdDev(strain, nil)
		} else {
			s.StrainMean = strain[0]
		}
	}

	return s
}

func finiteVec(v r3.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// LogValue implements slog.LogValuer for structured logging.
func (s ClothStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("label", s.Label),
		slog.String("variant", s.Variant),
		slog.Int("steps", s.Steps),
		slog.Float64("sim_time", s.SimTime),
		slog.Float64("strain_min", s.StrainMin),
		slog.Float64("strain_mean", s.StrainMean),
		slog.Float64("strain_p90", s.StrainP90),
		slog.Float64("strain_max", s.StrainMax),
		slog.Float64("strain_std", s.StrainStd),
		slog.Float64("mean_sag", s.MeanSag),
		slog.Float64("max_sag", s.MaxSag),
		slog.Int("non_finite", s.NonFinite),
	)
}

// LogStats logs the snapshot.
func (s ClothStats) LogStats() {
	slog.Info("cloth_stats",
		"label", s.Label,
		"variant", s.Variant,
		"steps", s.Steps,
		"sim_time", s.SimTime,
		"strain_mean", s.StrainMean,
		"strain_p90", s.StrainP90,
		"strain_max", s.StrainMax,
		"max_sag", s.MaxSag,
	)
}

// WarnNonFinite logs a warning if any point has diverged. It reports true
// when a warning was logged.
func (s ClothStats) WarnNonFinite() bool {
	if s.NonFinite == 0 {
		return false
	}
	slog.Warn("cloth_non_finite",
		"label", s.Label,
		"steps", s.Steps,
		"points", s.NonFinite,
	)
	return true
}
