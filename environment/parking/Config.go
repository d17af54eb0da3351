// Package parking implements the episode control and reward shaping
// of an agent learning to park a car. The package is independent of
// any physics engine: the engine is reached only through the Body,
// Locomotion, and Perception interfaces, and informs the agent of
// target zone and collision events by calling its methods.
package parking

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a Config violates one of its
// invariants
var ErrInvalidConfig = errors.New("invalid parking configuration")

// Rewards holds the weights of each term of the shaped reward and the
// penalties applied on collisions and boundary violations
type Rewards struct {
	// Progress toward the goal is scaled by ProgressScale then clipped
	// to [-ProgressClip, ProgressClip]
	ProgressScale float64 `mapstructure:"progressScale" json:"progressScale"`
	ProgressClip  float64 `mapstructure:"progressClip" json:"progressClip"`

	// Sum of per-axis proximities is divided by ProximityDivisor
	ProximityDivisor float64 `mapstructure:"proximityDivisor" json:"proximityDivisor"`

	// Angle to the goal heading, in degrees, at which the angle reward
	// crosses 0
	AngleScale float64 `mapstructure:"angleScale" json:"angleScale"`

	// Parking succeeds when the car is within SuccessAngle degrees of
	// the goal heading, closer than SuccessDistance to the goal, and
	// slower than SuccessSpeed
	SuccessAngle    float64 `mapstructure:"successAngle" json:"successAngle"`
	SuccessDistance float64 `mapstructure:"successDistance" json:"successDistance"`
	SuccessSpeed    float64 `mapstructure:"successSpeed" json:"successSpeed"`
	SuccessBonus    float64 `mapstructure:"successBonus" json:"successBonus"`

	BoundaryPenalty float64 `mapstructure:"boundaryPenalty" json:"boundaryPenalty"`
	WallPenalty     float64 `mapstructure:"wallPenalty" json:"wallPenalty"`
	KerbPenalty     float64 `mapstructure:"kerbPenalty" json:"kerbPenalty"`

	// Colliding with another vehicle costs
	// |speed| * VehicleSpeedPenalty + VehiclePenalty
	VehicleSpeedPenalty float64 `mapstructure:"vehicleSpeedPenalty" json:"vehicleSpeedPenalty"`
	VehiclePenalty      float64 `mapstructure:"vehiclePenalty" json:"vehiclePenalty"`
}

// DefaultRewards returns the default reward weights
func DefaultRewards() Rewards {
	return Rewards{
		ProgressScale:       10.0,
		ProgressClip:        0.5,
		ProximityDivisor:    20.0,
		AngleScale:          45.0,
		SuccessAngle:        2.5,
		SuccessDistance:     1.0,
		SuccessSpeed:        2.0,
		SuccessBonus:        100.0,
		BoundaryPenalty:     100.0,
		WallPenalty:         10.0,
		KerbPenalty:         2.0,
		VehicleSpeedPenalty: 70.0,
		VehiclePenalty:      5.0,
	}
}

// Config is the static configuration of a parking agent.
//
// AreaWidth and AreaDepth are the half extents of the rectangle around
// the agent's initial position that episodes start in. BoundaryX and
// BoundaryZ are the largest deviations from the goal, along x and z,
// allowed before the episode is ended. MaxSteps caps the number of
// decision steps in an episode; 0 disables the cap.
type Config struct {
	AreaWidth float64 `mapstructure:"areaWidth" json:"areaWidth"`
	AreaDepth float64 `mapstructure:"areaDepth" json:"areaDepth"`
	BoundaryX float64 `mapstructure:"boundaryX" json:"boundaryX"`
	BoundaryZ float64 `mapstructure:"boundaryZ" json:"boundaryZ"`
	MaxSteps  int     `mapstructure:"maxSteps" json:"maxSteps"`

	Rewards Rewards `mapstructure:"rewards" json:"rewards"`
}

// DefaultConfig returns the default agent configuration
func DefaultConfig() Config {
	return Config{
		AreaWidth: 20.0,
		AreaDepth: 20.0,
		BoundaryX: 3.0,
		BoundaryZ: 10.0,
		MaxSteps:  0,
		Rewards:   DefaultRewards(),
	}
}

// Validate returns an error wrapping ErrInvalidConfig if the Config
// cannot be used. Boundaries must be positive and must exceed the
// success distance, otherwise parking successfully is impossible.
func (c Config) Validate() error {
	if c.BoundaryX <= 0 || c.BoundaryZ <= 0 {
		return fmt.Errorf("%w: boundaries must be positive, have (%v, %v)",
			ErrInvalidConfig, c.BoundaryX, c.BoundaryZ)
	}
	if c.AreaWidth < 0 || c.AreaDepth < 0 {
		return fmt.Errorf("%w: area extents must be non-negative, have "+
			"(%v, %v)", ErrInvalidConfig, c.AreaWidth, c.AreaDepth)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must be non-negative, have %v",
			ErrInvalidConfig, c.MaxSteps)
	}

	r := c.Rewards
	if c.BoundaryX <= r.SuccessDistance || c.BoundaryZ <= r.SuccessDistance {
		return fmt.Errorf("%w: boundaries (%v, %v) must exceed the success "+
			"distance %v", ErrInvalidConfig, c.BoundaryX, c.BoundaryZ,
			r.SuccessDistance)
	}
	if r.ProximityDivisor <= 0 || r.AngleScale <= 0 {
		return fmt.Errorf("%w: proximity divisor and angle scale must be "+
			"positive, have (%v, %v)", ErrInvalidConfig, r.ProximityDivisor,
			r.AngleScale)
	}
	if r.ProgressClip < 0 {
		return fmt.Errorf("%w: progress clip must be non-negative, have %v",
			ErrInvalidConfig, r.ProgressClip)
	}
	return nil
}
