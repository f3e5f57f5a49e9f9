// Package scene holds the ECS world of cloth instances and the systems that
// advance and monitor them.
package scene

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/drape/cloth"
	"github.com/pthm-cable/drape/telemetry"
)

// Cloth attaches a running simulation to an entity.
type Cloth struct {
	Sim *cloth.Simulation
}

// Label names an instance in logs and output.
type Label struct {
	Name string
}

// Placement offsets an instance in world space so several cloths can be
// drawn side by side.
type Placement struct {
	Offset r3.Vec
}

// Monitor holds per-instance telemetry state.
type Monitor struct {
	Detector *telemetry.BookmarkDetector
	Latest   telemetry.ClothStats
}
