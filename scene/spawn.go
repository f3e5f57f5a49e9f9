package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/drape/cloth"
)

// spacing is the gap between side-by-side cloths, in cloth widths.
const spacing = 1.5

// SpawnSingle adds one cloth labelled by its solver variant, centred on the
// origin.
func (s *Scene) SpawnSingle(p cloth.Params) error {
	_, err := s.Spawn(string(p.Variant), p, r3.Vec{X: -p.Width / 2})
	return err
}

// SpawnComparison adds one sequential and one parallel cloth built from the
// same parameters, side by side along x.
func (s *Scene) SpawnComparison(p cloth.Params) error {
	variants := []cloth.Variant{cloth.Sequential, cloth.Parallel}
	stride := p.Width * spacing
	left := -stride*float64(len(variants)-1)/2 - p.Width/2

	for i, v := range variants {
		vp := p
		vp.Variant = v
		offset := r3.Vec{X: left + float64(i)*stride}
		if _, err := s.Spawn(string(v), vp, offset); err != nil {
			return err
		}
	}
	return nil
}
