package parking

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/parkrl/environment"
	"github.com/samuelfneumann/parkrl/timestep"
)

// Verdict is the outcome of a termination check: a reward to add and
// whether the episode ends
type Verdict struct {
	Reward float64
	End    bool
	Reason timestep.EndType
}

// Detector evaluates the boundary and collision conditions that end
// an episode or incur a penalty
type Detector struct {
	rewards  Rewards
	boundary *environment.IntervalLimit
}

// NewDetector returns a new Detector for the configuration c
func NewDetector(c Config) *Detector {
	// Features are the absolute deviations from the goal along x and z
	deviations := []r1.Interval{
		{Min: 0, Max: c.BoundaryX},
		{Min: 0, Max: c.BoundaryZ},
	}
	boundary := environment.NewIntervalLimit(deviations, []int{0, 1},
		timestep.OutOfBounds)

	return &Detector{rewards: c.Rewards, boundary: boundary}
}

// CheckBoundary ends the episode with a penalty when pos deviates from
// goal by more than the boundary along either horizontal axis.
// Deviations equal to a boundary are allowed.
func (d *Detector) CheckBoundary(pos, goal r3.Vec) Verdict {
	deviation := []float64{
		math.Abs(pos.X - goal.X),
		math.Abs(pos.Z - goal.Z),
	}
	if d.boundary.Exceeded(deviation) {
		return Verdict{
			Reward: -d.rewards.BoundaryPenalty,
			End:    true,
			Reason: d.boundary.EndType(),
		}
	}
	return Verdict{}
}

// OnContact returns the verdict for a collision while the agent moves
// at speed. Hitting a wall ends the episode. Touching a kerb is
// penalised on every tick the contact persists. Touching another
// vehicle ends the episode with a penalty growing with speed.
func (d *Detector) OnContact(c Contact, speed float64) Verdict {
	switch {
	case c.Phase == ContactEnter && c.Tag == Wall:
		return Verdict{
			Reward: -d.rewards.WallPenalty,
			End:    true,
			Reason: timestep.WallCollision,
		}

	case c.Phase == ContactStay && c.Tag == Kerb:
		return Verdict{Reward: -d.rewards.KerbPenalty}

	case c.Phase == ContactStay && c.Tag == Vehicle:
		return Verdict{
			Reward: d.VehiclePenalty(speed),
			End:    true,
			Reason: timestep.VehicleCollision,
		}
	}
	return Verdict{}
}

// VehiclePenalty returns the (negative) reward for touching another
// vehicle at speed
func (d *Detector) VehiclePenalty(speed float64) float64 {
	return -(math.Abs(speed)*d.rewards.VehicleSpeedPenalty +
		d.rewards.VehiclePenalty)
}
