// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes why an episode ended. The zero value means the
// episode has not ended.
//
// Success, OutOfBounds, WallCollision, and VehicleCollision are
// terminal: the episode ended because the environment reached a
// terminal state. StepLimit is a truncation, the episode was cut off
// by a timestep limit.
type EndType int

const (
	None EndType = iota
	Success
	OutOfBounds
	WallCollision
	VehicleCollision
	StepLimit
)

func (e EndType) String() string {
	switch e {
	case Success:
		return "Success"
	case OutOfBounds:
		return "OutOfBounds"
	case WallCollision:
		return "WallCollision"
	case VehicleCollision:
		return "VehicleCollision"
	case StepLimit:
		return "StepLimit"
	default:
		return "None"
	}
}

// Terminal returns whether the end type denotes a terminal state of
// the environment, as opposed to a truncation or no ending at all
func (e EndType) Terminal() bool {
	return e >= Success && e <= VehicleCollision
}

// ParseEndType returns the EndType with the argument name
func ParseEndType(name string) (EndType, error) {
	for e := None; e <= StepLimit; e++ {
		if e.String() == name {
			return e, nil
		}
	}
	return None, fmt.Errorf("parseEndType: no such end type %q", name)
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType    StepType
	EndType     EndType
	Reward      float64
	Observation *mat.VecDense
	Number      int
}

// New constructs a new TimeStep
func New(t StepType, r float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Observation: o, Number: n}
}

// SetEnd marks the TimeStep as the last in the episode, ending for
// reason e
func (t *TimeStep) SetEnd(e EndType) {
	t.StepType = Last
	t.EndType = e
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  End: %v  |  Reward:  %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.EndType, t.Reward, t.Number)
}
