package carpark

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/parkrl/environment/parking"
)

// Lot is the layout of the parking lot. Positions are in metres in
// the horizontal (x, z) plane and yaws in radians, with a yaw of 0
// facing +z.
type Lot struct {
	// Walls enclose a Width × Depth rectangle centred on the goal
	Width float64 `mapstructure:"width" json:"width"`
	Depth float64 `mapstructure:"depth" json:"depth"`

	SlotWidth  float64 `mapstructure:"slotWidth" json:"slotWidth"`
	SlotLength float64 `mapstructure:"slotLength" json:"slotLength"`

	GoalX   float64 `mapstructure:"goalX" json:"goalX"`
	GoalZ   float64 `mapstructure:"goalZ" json:"goalZ"`
	GoalYaw float64 `mapstructure:"goalYaw" json:"goalYaw"`

	StartX   float64 `mapstructure:"startX" json:"startX"`
	StartZ   float64 `mapstructure:"startZ" json:"startZ"`
	StartYaw float64 `mapstructure:"startYaw" json:"startYaw"`

	// ParkedVehicles is the number of occupied slots on each side of
	// the goal slot
	ParkedVehicles int     `mapstructure:"parkedVehicles" json:"parkedVehicles"`
	KerbDepth      float64 `mapstructure:"kerbDepth" json:"kerbDepth"`

	// TargetProximityMultiplier scales the target zone relative to the
	// goal slot
	TargetProximityMultiplier float64 `mapstructure:"targetProximityMultiplier" json:"targetProximityMultiplier"`
}

// Vehicle describes the driven car and the traffic cars
type Vehicle struct {
	HalfWidth  float64 `mapstructure:"halfWidth" json:"halfWidth"`
	HalfLength float64 `mapstructure:"halfLength" json:"halfLength"`
	Density    float64 `mapstructure:"density" json:"density"`

	EngineForce   float64 `mapstructure:"engineForce" json:"engineForce"`
	BrakeForce    float64 `mapstructure:"brakeForce" json:"brakeForce"`
	MaxSpeed      float64 `mapstructure:"maxSpeed" json:"maxSpeed"`
	LinearDamping float64 `mapstructure:"linearDamping" json:"linearDamping"`

	// The car turns at TurnRate rad/s at full steering once it moves
	// faster than FullTurnSpeed, and proportionally slower below
	TurnRate      float64 `mapstructure:"turnRate" json:"turnRate"`
	FullTurnSpeed float64 `mapstructure:"fullTurnSpeed" json:"fullTurnSpeed"`
}

// Traffic configures the spawner of cars driving along a lane in
// front of the parking slots. Times are in seconds and speeds in m/s.
type Traffic struct {
	Enabled bool    `mapstructure:"enabled" json:"enabled"`
	LaneZ   float64 `mapstructure:"laneZ" json:"laneZ"`
	SpawnX  float64 `mapstructure:"spawnX" json:"spawnX"`

	// A car is spawned every Interval + U(0, IntervalVariation)
	Interval          float64 `mapstructure:"interval" json:"interval"`
	IntervalVariation float64 `mapstructure:"intervalVariation" json:"intervalVariation"`

	// Each car drives at Speed + U(-SpeedVariation, SpeedVariation)
	Speed          float64 `mapstructure:"speed" json:"speed"`
	SpeedVariation float64 `mapstructure:"speedVariation" json:"speedVariation"`

	// Cars are removed once they travel further than TravelRange
	TravelRange float64 `mapstructure:"travelRange" json:"travelRange"`
}

// Config is the configuration of the CarPark simulation
type Config struct {
	// Physics ticks of TimeStep seconds per decision step
	TicksPerDecision   int     `mapstructure:"ticksPerDecision" json:"ticksPerDecision"`
	TimeStep           float64 `mapstructure:"timeStep" json:"timeStep"`
	VelocityIterations int     `mapstructure:"velocityIterations" json:"velocityIterations"`
	PositionIterations int     `mapstructure:"positionIterations" json:"positionIterations"`

	// Rays is the number of ray cast distance sensors spread evenly
	// around the car, each RayLength metres long
	Rays      int     `mapstructure:"rays" json:"rays"`
	RayLength float64 `mapstructure:"rayLength" json:"rayLength"`

	Lot     Lot     `mapstructure:"lot" json:"lot"`
	Vehicle Vehicle `mapstructure:"vehicle" json:"vehicle"`
	Traffic Traffic `mapstructure:"traffic" json:"traffic"`
}

// DefaultConfig returns the default simulation configuration: a car
// starting in the aisle facing the goal slot, which lies between two
// parked cars
func DefaultConfig() Config {
	return Config{
		TicksPerDecision:   5,
		TimeStep:           1.0 / 50.0,
		VelocityIterations: 6,
		PositionIterations: 2,
		Rays:               8,
		RayLength:          10.0,
		Lot: Lot{
			Width:                     30.0,
			Depth:                     30.0,
			SlotWidth:                 3.0,
			SlotLength:                5.5,
			StartZ:                    8.0,
			StartYaw:                  math.Pi,
			ParkedVehicles:            2,
			KerbDepth:                 0.3,
			TargetProximityMultiplier: 1.5,
		},
		Vehicle: Vehicle{
			HalfWidth:     0.9,
			HalfLength:    2.25,
			Density:       150.0,
			EngineForce:   8000.0,
			BrakeForce:    12000.0,
			MaxSpeed:      10.0,
			LinearDamping: 0.5,
			TurnRate:      1.2,
			FullTurnSpeed: 3.0,
		},
		Traffic: Traffic{
			Enabled:           false,
			LaneZ:             12.0,
			SpawnX:            -14.0,
			Interval:          4.0,
			IntervalVariation: 2.0,
			Speed:             4.0,
			SpeedVariation:    1.0,
			TravelRange:       28.0,
		},
	}
}

// DefaultParkingConfig returns the agent configuration matching the
// default lot: episodes start near the aisle start position and end
// once the car strays more than a slot from the goal along x
func DefaultParkingConfig() parking.Config {
	c := parking.DefaultConfig()
	c.AreaWidth = 1.0
	c.AreaDepth = 1.0
	c.MaxSteps = 500
	return c
}

// Validate returns an error wrapping parking.ErrInvalidConfig if the
// Config cannot be simulated
func (c Config) Validate() error {
	if c.TicksPerDecision <= 0 || c.TimeStep <= 0 {
		return fmt.Errorf("%w: ticks per decision and time step must be "+
			"positive, have (%v, %v)", parking.ErrInvalidConfig,
			c.TicksPerDecision, c.TimeStep)
	}
	if c.VelocityIterations <= 0 || c.PositionIterations <= 0 {
		return fmt.Errorf("%w: solver iterations must be positive, have "+
			"(%v, %v)", parking.ErrInvalidConfig, c.VelocityIterations,
			c.PositionIterations)
	}
	if c.Rays < 0 || (c.Rays > 0 && c.RayLength <= 0) {
		return fmt.Errorf("%w: illegal ray sensors (%v, %v)",
			parking.ErrInvalidConfig, c.Rays, c.RayLength)
	}

	l := c.Lot
	if l.Width <= 0 || l.Depth <= 0 || l.SlotWidth <= 0 ||
		l.SlotLength <= 0 || l.KerbDepth <= 0 {
		return fmt.Errorf("%w: lot dimensions must be positive",
			parking.ErrInvalidConfig)
	}
	if l.ParkedVehicles < 0 || l.TargetProximityMultiplier <= 0 {
		return fmt.Errorf("%w: illegal parked vehicles %v or target "+
			"multiplier %v", parking.ErrInvalidConfig, l.ParkedVehicles,
			l.TargetProximityMultiplier)
	}
	if math.Abs(l.StartX-l.GoalX) >= l.Width/2 ||
		math.Abs(l.StartZ-l.GoalZ) >= l.Depth/2 {
		return fmt.Errorf("%w: start (%v, %v) outside the lot",
			parking.ErrInvalidConfig, l.StartX, l.StartZ)
	}

	v := c.Vehicle
	if v.HalfWidth <= 0 || v.HalfLength <= 0 || v.Density <= 0 {
		return fmt.Errorf("%w: vehicle dimensions and density must be "+
			"positive", parking.ErrInvalidConfig)
	}
	if v.MaxSpeed <= 0 || v.FullTurnSpeed <= 0 {
		return fmt.Errorf("%w: max speed and full turn speed must be "+
			"positive, have (%v, %v)", parking.ErrInvalidConfig, v.MaxSpeed,
			v.FullTurnSpeed)
	}

	t := c.Traffic
	if t.Enabled && (t.Interval <= 0 || t.IntervalVariation < 0 ||
		t.SpeedVariation < 0 || t.TravelRange <= 0) {
		return fmt.Errorf("%w: illegal traffic configuration %+v",
			parking.ErrInvalidConfig, t)
	}
	return nil
}
