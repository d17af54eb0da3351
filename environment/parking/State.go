package parking

import (
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/parkrl/environment"
)

// EpisodeState is the mutable state of a single episode
type EpisodeState struct {
	// PreviousPosition is the agent's position on the last decision
	// step, only meaningful when HasPrevious is true
	PreviousPosition r3.Vec
	HasPrevious      bool

	WithinTarget bool
	Aligning     bool
	StepCounter  int
}

// Tracker owns the EpisodeState of an agent and implements its reset
// protocol
type Tracker struct {
	initial Pose
	starter environment.Starter
	state   EpisodeState
}

// NewTracker returns a new Tracker for an agent that was placed at
// initial. Starting positions are drawn from s, which must return
// 2-dimensional (x, z) vectors.
func NewTracker(initial Pose, s environment.Starter) *Tracker {
	return &Tracker{initial: initial, starter: s}
}

// NewAreaStarter returns a Starter sampling (x, z) positions uniformly
// within the configured area around initial
func NewAreaStarter(initial Pose, c Config, seed uint64) environment.Starter {
	x, z := StartArea(initial, c)
	return environment.NewUniformStarter([]r1.Interval{x, z}, seed)
}

// StartArea returns the x and z extents of the area episodes start in
// around initial
func StartArea(initial Pose, c Config) (x, z r1.Interval) {
	px, pz := initial.Position.X, initial.Position.Z
	x = r1.Interval{Min: px - c.AreaWidth, Max: px + c.AreaWidth}
	z = r1.Interval{Min: pz - c.AreaDepth, Max: pz + c.AreaDepth}
	return x, z
}

// Reset starts a new episode. The body is moved to a position sampled
// from the Starter at the initial height, facing the initial heading,
// and brought to rest. Reset returns the pose the body was moved to.
func (t *Tracker) Reset(b Body) Pose {
	start := t.starter.Start()
	spawn := Pose{
		Position: r3.Vec{
			X: start.AtVec(0),
			Y: t.initial.Position.Y,
			Z: start.AtVec(1),
		},
		Yaw: t.initial.Yaw,
	}

	b.Teleport(spawn)
	b.Stop()

	t.state = EpisodeState{
		PreviousPosition: t.initial.Position,
		HasPrevious:      true,
	}
	return spawn
}

// EnterTarget records that the agent is within the target zone.
// Entering while already inside has no effect.
func (t *Tracker) EnterTarget() {
	t.state.WithinTarget = true
}

// ExitTarget records that the agent has left the target zone
func (t *Tracker) ExitTarget() {
	t.state.WithinTarget = false
}

// Advance records pos as the previous position for the next decision
// step
func (t *Tracker) Advance(pos r3.Vec) {
	t.state.PreviousPosition = pos
	t.state.HasPrevious = true
}

// Step increments and returns the step counter
func (t *Tracker) Step() int {
	t.state.StepCounter++
	return t.state.StepCounter
}

// SetAligning enters or leaves the scripted alignment mode
func (t *Tracker) SetAligning(aligning bool) {
	t.state.Aligning = aligning
}

// State returns a copy of the current episode state
func (t *Tracker) State() EpisodeState {
	return t.state
}

// Initial returns the pose the agent was first placed at
func (t *Tracker) Initial() Pose {
	return t.initial
}
