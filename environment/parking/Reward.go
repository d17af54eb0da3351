package parking

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/parkrl/timestep"
	"github.com/samuelfneumann/parkrl/utils/floatutils"
	"github.com/samuelfneumann/parkrl/utils/vecutils"
)

// RewardInput is everything the shaped reward of a single decision
// step depends on
type RewardInput struct {
	Position r3.Vec
	Forward  r3.Vec
	Speed    float64

	// Previous is the position on the last decision step. The progress
	// term is skipped when HasPrevious is false.
	Previous    r3.Vec
	HasPrevious bool

	Goal         Pose
	WithinTarget bool
}

// Components is the breakdown of a shaped reward into its terms
type Components struct {
	Direction float64 // Progress toward the goal since the last step
	Distance  float64 // Proximity to the goal
	Angle     float64 // Alignment with the goal, only within the target
	Terminal  float64 // Success bonus
}

// Total returns the sum of all components
func (c Components) Total() float64 {
	return c.Direction + c.Distance + c.Angle + c.Terminal
}

// RewardResult is the outcome of ComputeReward
type RewardResult struct {
	Components

	Reward float64

	// AngleToGoal is the axis angle to the goal heading in degrees, only
	// computed within the target zone
	AngleToGoal float64

	// End is true when the agent parked successfully, in which case
	// Reason is timestep.Success
	End    bool
	Reason timestep.EndType
}

// ComputeReward computes the shaped reward of a decision step. The
// reward is the sum of
//
//  1. Progress: the decrease in per-axis distance to the goal since
//     the previous step, scaled and clipped
//  2. Proximity: 1 - |d|/boundary for the x and z axes, summed and
//     divided by the proximity divisor. This term becomes negative
//     beyond the boundary.
//  3. Alignment: within the target zone only, 2 - angle/AngleScale,
//     where angle is the axis angle between the car and the goal
//     heading. This term is 2 when aligned and 0 at 90°.
//  4. Success: within the target zone only, a bonus when the car is
//     aligned, close to the goal, and slow.
//
// ComputeReward panics if the boundaries are not positive.
func ComputeReward(in RewardInput, c Config) RewardResult {
	if c.BoundaryX <= 0 || c.BoundaryZ <= 0 {
		panic(fmt.Sprintf("computeReward: boundaries must be positive, have "+
			"(%v, %v)", c.BoundaryX, c.BoundaryZ))
	}
	w := c.Rewards
	goal := in.Goal.Position

	var result RewardResult

	distanceX := math.Abs(in.Position.X - goal.X)
	distanceZ := math.Abs(in.Position.Z - goal.Z)

	if in.HasPrevious {
		deltaX := math.Abs(in.Previous.X-goal.X) - distanceX
		deltaZ := math.Abs(in.Previous.Z-goal.Z) - distanceZ
		result.Direction = floatutils.Clip((deltaX+deltaZ)*w.ProgressScale,
			-w.ProgressClip, w.ProgressClip)
	}

	proximityX := 1.0 - distanceX/c.BoundaryX
	proximityZ := 1.0 - distanceZ/c.BoundaryZ
	result.Distance = (proximityX + proximityZ) / w.ProximityDivisor

	if in.WithinTarget {
		angle := vecutils.AxisAngle(in.Forward, in.Goal.Forward())
		result.AngleToGoal = angle
		result.Angle = (1.0 - angle/w.AngleScale) + 1.0

		distance := vecutils.Distance(in.Position, goal)
		if angle < w.SuccessAngle && distance < w.SuccessDistance &&
			math.Abs(in.Speed) < w.SuccessSpeed {
			result.Terminal = w.SuccessBonus
			result.End = true
			result.Reason = timestep.Success
		}
	}

	result.Reward = result.Total()
	return result
}
