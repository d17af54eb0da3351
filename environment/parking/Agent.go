package parking

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/parkrl/environment"
	"github.com/samuelfneumann/parkrl/timestep"
)

// Agent is a car learning to park at a goal pose. The Agent ties
// together episode state tracking, reward shaping, termination, and
// action translation.
//
// The physics engine drives the Agent: it calls FixedUpdate on every
// physics tick, OnActionReceived on every decision step, and reports
// target zone and collision events through OnTrigger and OnImpact.
// Rewards accumulate until they are taken with Collect. Once an
// episode ends, all further calls are ignored until OnEpisodeBegin
// starts the next episode.
//
// An Agent is not safe for concurrent use; the engine must serialise
// all calls.
type Agent struct {
	config     Config
	goal       Pose
	body       Body
	loco       Locomotion
	perception Perception

	tracker   *Tracker
	detector  *Detector
	aligner   Aligner
	stepLimit environment.StepLimit

	pending  float64 // Reward added since the last Collect
	episodic float64 // Return of the current episode
	ended    bool
	reason   timestep.EndType
	episodes int

	logger zerolog.Logger
}

// NewAgent returns a new Agent driving toward goal. The body's current
// pose becomes the agent's initial pose, around which episodes start.
// The perception adapter may be nil, in which case the only
// observation is speed. The first episode is started before NewAgent
// returns.
func NewAgent(c Config, goal Pose, body Body, loco Locomotion,
	perception Perception, seed uint64, logger zerolog.Logger) (*Agent,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newAgent: %w", err)
	}
	if body == nil || loco == nil {
		return nil, fmt.Errorf("newAgent: body and locomotion are required")
	}

	initial := body.Pose()
	agent := &Agent{
		config:     c,
		goal:       goal,
		body:       body,
		loco:       loco,
		perception: perception,
		tracker:    NewTracker(initial, NewAreaStarter(initial, c, seed)),
		detector:   NewDetector(c),
		stepLimit:  environment.NewStepLimit(c.MaxSteps),
		logger:     logger.With().Str("component", "agent").Logger(),
	}

	agent.OnEpisodeBegin()
	return agent, nil
}

// OnEpisodeBegin resets the agent for a new episode
func (a *Agent) OnEpisodeBegin() {
	spawn := a.tracker.Reset(a.body)
	a.aligner = Aligner{}
	a.pending = 0
	a.episodic = 0
	a.ended = false
	a.reason = timestep.None
	a.episodes++

	a.logger.Debug().
		Int("episode", a.episodes).
		Stringer("spawn", spawn).
		Msg("episode begin")
}

// FixedUpdate runs the checks performed on every physics tick
func (a *Agent) FixedUpdate() {
	if a.ended {
		return
	}
	pose := a.body.Pose()
	a.apply(a.detector.CheckBoundary(pose.Position, a.goal.Position))
}

// OnActionReceived performs a decision step with the argument action
// vector (steering, accelerate, reverse)
func (a *Agent) OnActionReceived(action mat.Vector) error {
	if a.ended {
		return nil
	}

	act, err := ActionFromVec(action)
	if err != nil {
		return fmt.Errorf("onActionReceived: %w", err)
	}

	state := a.tracker.State()
	pose := a.body.Pose()

	if command, ok := Translate(act, state.Aligning); ok {
		a.loco.Move(command.Steering, command.Throttle, 0, 0)
	} else if !a.aligner.Step(pose.Position, a.loco) {
		// Alignment is done, and the suppressed action must not drive
		a.loco.Move(0, 0, 0, 0)
		a.tracker.SetAligning(false)
	}

	step := a.tracker.Step()
	state = a.tracker.State()
	result := ComputeReward(RewardInput{
		Position:     pose.Position,
		Forward:      pose.Forward(),
		Speed:        a.loco.CurrentSpeed(),
		Previous:     state.PreviousPosition,
		HasPrevious:  state.HasPrevious,
		Goal:         a.goal,
		WithinTarget: state.WithinTarget,
	}, a.config)
	a.tracker.Advance(pose.Position)

	a.addReward(result.Reward)
	if result.End {
		a.logger.Info().
			Int("episode", a.episodes).
			Int("step", step).
			Float64("angle", result.AngleToGoal).
			Msg("car parked")
		a.endEpisode(result.Reason)
		return nil
	}

	// Truncate the episode at the step limit
	t := timestep.TimeStep{Number: step}
	if a.stepLimit.End(&t) {
		a.endEpisode(t.EndType)
	}
	return nil
}

// CollectObservations returns the agent's observation: its current
// speed followed by the observations of the perception adapter, if
// one is attached
func (a *Agent) CollectObservations() *mat.VecDense {
	obs := make([]float64, 1, a.ObservationSize())
	obs[0] = a.loco.CurrentSpeed()
	if a.perception != nil {
		obs = append(obs, a.perception.Observations()...)
	}
	return mat.NewVecDense(len(obs), obs)
}

// ObservationSize returns the length of the observation vector
func (a *Agent) ObservationSize() int {
	if a.perception == nil {
		return 1
	}
	return 1 + a.perception.Size()
}

// OnTrigger records the agent entering or leaving the target zone
func (a *Agent) OnTrigger(t Trigger) {
	if a.ended {
		return
	}
	switch t.Phase {
	case TriggerEnter:
		a.tracker.EnterTarget()
	case TriggerExit:
		a.tracker.ExitTarget()
	}
}

// OnContact applies the penalty, and possibly ends the episode, for a
// collision at the car's current speed
func (a *Agent) OnContact(c Contact) {
	a.OnImpact(c, a.loco.CurrentSpeed())
}

// OnImpact applies the penalty, and possibly ends the episode, for a
// collision made at speed. Physics engines that resolve a collision
// before reporting it pass the speed the car had before the collision.
func (a *Agent) OnImpact(c Contact, speed float64) {
	if a.ended {
		return
	}
	a.apply(a.detector.OnContact(c, speed))
}

// StartAlignment hands control of the car to the scripted alignment,
// which moves the car along x until it is offset away from spot.
// Learned actions are suppressed until the alignment finishes.
func (a *Agent) StartAlignment(spot r3.Vec, offset float64) {
	if a.ended {
		return
	}
	a.aligner = Aligner{Spot: spot, Offset: offset}
	a.tracker.SetAligning(true)
}

// HoldSpeed nudges the car toward the desired speed
func (a *Agent) HoldSpeed(desired float64) {
	if a.ended {
		return
	}
	SpeedHold(desired, a.loco)
}

// Collect returns the reward accumulated since the last call to
// Collect and the reason the episode ended, which is timestep.None if
// the episode is still running
func (a *Agent) Collect() (float64, timestep.EndType) {
	reward := a.pending
	a.pending = 0
	return reward, a.reason
}

// Ended returns whether the current episode has ended
func (a *Agent) Ended() bool {
	return a.ended
}

// Return returns the sum of rewards in the current episode
func (a *Agent) Return() float64 {
	return a.episodic
}

// State returns the current episode state
func (a *Agent) State() EpisodeState {
	return a.tracker.State()
}

// Goal returns the goal pose
func (a *Agent) Goal() Pose {
	return a.goal
}

// StartArea returns the x and z extents of the area around the agent's
// initial pose that episodes start in
func (a *Agent) StartArea() (x, z r1.Interval) {
	return StartArea(a.tracker.Initial(), a.config)
}

// Config returns the agent's configuration
func (a *Agent) Config() Config {
	return a.config
}

func (a *Agent) apply(v Verdict) {
	a.addReward(v.Reward)
	if v.End {
		a.endEpisode(v.Reason)
	}
}

func (a *Agent) addReward(r float64) {
	a.pending += r
	a.episodic += r
}

func (a *Agent) endEpisode(reason timestep.EndType) {
	a.ended = true
	a.reason = reason

	a.logger.Debug().
		Int("episode", a.episodes).
		Int("steps", a.tracker.State().StepCounter).
		Stringer("reason", reason).
		Float64("return", a.episodic).
		Msg("episode end")
}
