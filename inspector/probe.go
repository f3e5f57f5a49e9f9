// Package inspector selects a single cloth point on screen and reports its
// state.
package inspector

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/drape/cloth"
)

// PointInfo describes one point and the springs attached to it.
type PointInfo struct {
	Index  int
	Col    int // lattice x
	Row    int // lattice y
	Pinned bool

	Position     r3.Vec
	Motion       r3.Vec // movement over the last step
	Displacement r3.Vec // offset from the rest pose

	Springs   int
	MaxStrain float64 // signed strain with the largest magnitude
	MaxType   cloth.ConstraintType
}

// Probe inspects point index of sim. It reports false when the index is out
// of range.
func Probe(sim *cloth.Simulation, index int) (PointInfo, bool) {
	points := sim.Points()
	if index < 0 || index >= len(points) {
		return PointInfo{}, false
	}
	stride := sim.Divisions() + 1
	p := points[index]

	info := PointInfo{
		Index:        index,
		Col:          index / stride,
		Row:          index % stride,
		Pinned:       p.Pinned(),
		Position:     p.Position,
		Motion:       r3.Sub(p.Position, p.Prev),
		Displacement: r3.Sub(p.Position, sim.Origin()[index]),
	}

	for _, c := range sim.Constraints() {
		if c.A != index && c.B != index {
			continue
		}
		info.Springs++
		d := r3.Norm(r3.Sub(points[c.B].Position, points[c.A].Position))
		strain := (d - c.Rest) / c.Rest
		if info.Springs == 1 || math.Abs(strain) > math.Abs(info.MaxStrain) {
			info.MaxStrain = strain
			info.MaxType = c.Type
		}
	}
	return info, true
}

// Nearest returns the index of the screen position closest to target
// within radius pixels.
func Nearest(screen []r2.Vec, target r2.Vec, radius float64) (int, bool) {
	best := -1
	bestDist := radius * radius
	for i, s := range screen {
		d := r2.Norm2(r2.Sub(s, target))
		if d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best, best >= 0
}
