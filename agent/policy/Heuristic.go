package policy

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/parkrl/environment/parking"
	"github.com/samuelfneumann/parkrl/timestep"
	"github.com/samuelfneumann/parkrl/utils/floatutils"
	"github.com/samuelfneumann/parkrl/utils/vecutils"
)

// Axes is a source of human driving input, such as a game controller
// or a scripted driver
type Axes interface {
	Axes(t timestep.TimeStep) parking.HumanAxes
}

// Heuristic drives with human input. The input axes are mapped to
// actions exactly as learned actions are, see parking.FromAxes.
type Heuristic struct {
	axes Axes
}

// NewHeuristic returns a new Heuristic policy reading input from axes
func NewHeuristic(axes Axes) *Heuristic {
	return &Heuristic{axes}
}

// SelectAction returns the action of the current human input
func (h *Heuristic) SelectAction(t timestep.TimeStep) *mat.VecDense {
	return parking.FromAxes(h.axes.Axes(t)).Vec()
}

// ObserveFirst restarts the input source if it follows a script
func (h *Heuristic) ObserveFirst(timestep.TimeStep) error {
	if r, ok := h.axes.(interface{ Restart() }); ok {
		r.Restart()
	}
	return nil
}

// Observe does nothing, human input does not depend on the past
func (h *Heuristic) Observe(mat.Vector, timestep.TimeStep) error {
	return nil
}

// Script replays a fixed sequence of inputs, one per decision step.
// Once the script is exhausted, its last input is held.
type Script struct {
	inputs []parking.HumanAxes
	next   int
}

// NewScript returns a new Script replaying inputs
func NewScript(inputs ...parking.HumanAxes) *Script {
	return &Script{inputs: inputs}
}

// Axes returns the next input of the script
func (s *Script) Axes(timestep.TimeStep) parking.HumanAxes {
	if len(s.inputs) == 0 {
		return parking.HumanAxes{}
	}
	input := s.inputs[min(s.next, len(s.inputs)-1)]
	s.next++
	return input
}

// Restart replays the script from its first input
func (s *Script) Restart() {
	s.next = 0
}

// Tracker reports the pose of the car being driven
type Tracker interface {
	Pose() parking.Pose
}

// Seeker is a simple driver steering the car toward the goal and
// slowing down as it approaches. Speed is read from the first
// observation feature.
type Seeker struct {
	car  Tracker
	goal parking.Pose

	// TopSpeed is the speed driven far from the goal
	TopSpeed float64
}

// NewSeeker returns a new Seeker driving the car toward goal
func NewSeeker(car Tracker, goal parking.Pose, topSpeed float64) *Seeker {
	return &Seeker{car: car, goal: goal, TopSpeed: topSpeed}
}

// Axes returns the input steering toward the goal
func (s *Seeker) Axes(t timestep.TimeStep) parking.HumanAxes {
	pose := s.car.Pose()
	toGoal := r3.Sub(s.goal.Position, pose.Position)
	distance := math.Hypot(toGoal.X, toGoal.Z)

	// Signed heading error, positive when the goal is to the right
	heading := floatutils.Wrap(vecutils.Yaw(toGoal)-pose.Yaw, -math.Pi,
		math.Pi)
	horizontal := floatutils.Clip(heading/(math.Pi/4), -1, 1)

	desired := math.Min(s.TopSpeed, distance/2)
	speed := 0.0
	if t.Observation != nil && t.Observation.Len() > 0 {
		speed = t.Observation.AtVec(0)
	}

	var input parking.HumanAxes
	input.Horizontal = horizontal
	if speed < desired {
		input.Accelerate = floatutils.Clip(desired-speed, 0, 1)
	} else {
		input.Reverse = floatutils.Clip(speed-desired, 0, 1)
	}
	return input
}
