// Package carpark implements a top-down parking lot simulated with
// Box2D, in which a parking.Agent learns to park a car.
package carpark

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/parkrl/environment"
	"github.com/samuelfneumann/parkrl/environment/parking"
	"github.com/samuelfneumann/parkrl/timestep"
)

// CarPark is a parking lot containing a goal slot between parked cars,
// a kerb behind the row of slots, walls around the lot, and optionally
// traffic driving along a lane in front of the slots. The driven car
// is controlled by a parking.Agent, which shapes rewards and decides
// when episodes end.
//
// Each call to Step is a single decision step spanning
// Config.TicksPerDecision physics ticks. On every tick the agent first
// checks the boundary, then on the first tick of the step it receives
// the action. The world is then stepped and the collision and target
// zone events of the tick are sent to the agent. The car holds the
// last command it was given for the whole decision step. A decision
// step is cut short if the episode ends during one of its ticks.
//
// Observations are the car's signed speed followed by the fractional
// ray cast distances to the nearest obstacles. Actions are
// 3-dimensional (steering, accelerate, reverse), each in [-1, 1]; see
// parking.Translate.
//
// CarPark implements the environment.Environment interface.
type CarPark struct {
	config Config
	world  box2d.B2World

	car      *car
	lot      *lot
	rays     *rays
	traffic  *traffic
	listener *contactListener
	agent    *parking.Agent

	prevStep timestep.TimeStep
	logger   zerolog.Logger
}

// New returns a new CarPark and the first timestep of its first
// episode
func New(c Config, pc parking.Config, seed uint64,
	logger zerolog.Logger) (*CarPark, timestep.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	if err := pc.Validate(); err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	cp := &CarPark{
		config: c,
		logger: logger.With().Str("component", "carpark").Logger(),
	}
	cp.world = box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))

	start := parking.Pose{
		Position: r3.Vec{X: c.Lot.StartX, Z: c.Lot.StartZ},
		Yaw:      c.Lot.StartYaw,
	}
	goal := parking.Pose{
		Position: r3.Vec{X: c.Lot.GoalX, Z: c.Lot.GoalZ},
		Yaw:      c.Lot.GoalYaw,
	}

	cp.lot = newLot(&cp.world, c.Lot, c.Vehicle)
	cp.car = newCar(&cp.world, c.Vehicle, start)
	cp.listener = newContactListener(cp.car, cp.lot)
	cp.world.SetContactListener(cp.listener)
	cp.traffic = newTraffic(&cp.world, c.Traffic, c.Vehicle, seed+1,
		cp.logger)

	var perception parking.Perception
	if c.Rays > 0 {
		cp.rays = newRays(&cp.world, cp.car, c.Rays, c.RayLength)
		perception = cp.rays
	}

	agent, err := parking.NewAgent(pc, goal, cp.car, cp.car, perception,
		seed, logger)
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	cp.agent = agent

	// The agent begins its first episode on construction
	return cp, cp.begin(), nil
}

// Reset resets the environment and returns the first timestep of the
// new episode
func (c *CarPark) Reset() (timestep.TimeStep, error) {
	c.traffic.Clear()
	c.agent.OnEpisodeBegin()
	return c.begin(), nil
}

// begin synchronises the world with the agent's spawn pose and returns
// the first timestep of the episode
func (c *CarPark) begin() timestep.TimeStep {
	// Refresh contacts at the spawn pose without advancing time. A
	// contact with the target zone may persist across the teleport
	// without a new begin event, so membership is read from the
	// contact list.
	c.listener.reset()
	c.world.Step(0, c.config.VelocityIterations, c.config.PositionIterations)
	c.listener.clear()
	if c.listener.touchingTarget(&c.world) {
		c.agent.OnTrigger(parking.Trigger{Phase: parking.TriggerEnter})
	}

	obs := c.agent.CollectObservations()
	c.prevStep = timestep.New(timestep.First, 0.0, obs, 0)

	c.logger.Debug().Stringer("pose", c.car.Pose()).Msg("episode start")
	return c.prevStep
}

// Step takes one decision step in the environment using action and
// returns the resulting timestep and whether it is the last in the
// episode
func (c *CarPark) Step(action *mat.VecDense) (timestep.TimeStep, bool,
	error) {
	if c.prevStep.Last() {
		return c.prevStep, true, fmt.Errorf("step: episode has ended, " +
			"call Reset to begin a new episode")
	}
	if action == nil || action.Len() != parking.ActionDims {
		return c.prevStep, false, fmt.Errorf("step: actions should be "+
			"%d-dimensional", parking.ActionDims)
	}

	for tick := 0; tick < c.config.TicksPerDecision; tick++ {
		c.agent.FixedUpdate()
		if tick == 0 {
			if err := c.agent.OnActionReceived(action); err != nil {
				return c.prevStep, false, fmt.Errorf("step: %w", err)
			}
		}
		if c.agent.Ended() {
			break
		}

		c.tick()
		if c.agent.Ended() {
			break
		}
	}

	reward, end := c.agent.Collect()
	obs := c.agent.CollectObservations()
	step := timestep.New(timestep.Mid, reward, obs, c.prevStep.Number+1)
	if end != timestep.None {
		step.SetEnd(end)
	}
	c.prevStep = step

	return step, step.Last(), nil
}

// tick advances the physics by a single time step and sends the
// events of the tick to the agent
func (c *CarPark) tick() {
	if c.config.Traffic.Enabled {
		c.traffic.Update(c.config.TimeStep)
	}
	c.car.drive()
	c.listener.beforeStep()
	c.world.Step(c.config.TimeStep, c.config.VelocityIterations,
		c.config.PositionIterations)

	c.listener.collectStays(&c.world)
	c.listener.dispatch(c.agent)
}

// ObservationSpec returns the observation specification of the
// environment
func (c *CarPark) ObservationSpec() environment.Spec {
	size := c.agent.ObservationSize()
	shape := mat.NewVecDense(size, nil)

	lower := make([]float64, size)
	upper := make([]float64, size)
	lower[0] = -c.config.Vehicle.MaxSpeed
	upper[0] = c.config.Vehicle.MaxSpeed
	for i := 1; i < size; i++ {
		upper[i] = 1.0
	}

	return environment.NewSpec(shape, environment.Observation,
		mat.NewVecDense(size, lower), mat.NewVecDense(size, upper),
		environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (c *CarPark) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(parking.ActionDims, nil)

	lower := make([]float64, parking.ActionDims)
	upper := make([]float64, parking.ActionDims)
	for i := range lower {
		lower[i] = parking.MinAction
		upper[i] = parking.MaxAction
	}

	return environment.NewSpec(shape, environment.Action,
		mat.NewVecDense(parking.ActionDims, lower),
		mat.NewVecDense(parking.ActionDims, upper), environment.Continuous)
}

// LastTimeStep returns the last timestep taken in the environment
func (c *CarPark) LastTimeStep() timestep.TimeStep {
	return c.prevStep
}

// Agent returns the agent parking the car
func (c *CarPark) Agent() *parking.Agent {
	return c.agent
}

// Pose returns the pose of the driven car
func (c *CarPark) Pose() parking.Pose {
	return c.car.Pose()
}

// Traffic returns the number of traffic cars on the lane
func (c *CarPark) Traffic() int {
	return c.traffic.Len()
}

// DistanceToGoal returns the distance from the car to the goal
func (c *CarPark) DistanceToGoal() float64 {
	pos := c.car.Pose().Position
	goal := c.agent.Goal().Position
	return math.Hypot(pos.X-goal.X, pos.Z-goal.Z)
}

var _ environment.Environment = (*CarPark)(nil)
