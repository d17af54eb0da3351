package parking

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/parkrl/utils/vecutils"
)

// Pose is a snapshot of a position and a yaw heading, in radians
// about the vertical axis
type Pose struct {
	Position r3.Vec
	Yaw      float64
}

// Forward returns the unit vector the pose faces
func (p Pose) Forward() r3.Vec {
	return vecutils.Heading(p.Yaw)
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f) yaw %.2f", p.Position.X,
		p.Position.Y, p.Position.Z, p.Yaw)
}
