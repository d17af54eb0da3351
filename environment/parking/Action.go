package parking

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/parkrl/utils/floatutils"
)

const (
	// ActionDims is the number of continuous action components
	ActionDims int = 3

	MinAction float64 = -1.0
	MaxAction float64 = 1.0
)

var actionBounds = r1.Interval{Min: MinAction, Max: MaxAction}

// ActionVector is a continuous action, each component in [-1, 1].
// Accelerate and Reverse are folded into a single signed throttle by
// Translate.
type ActionVector struct {
	Steering   float64
	Accelerate float64
	Reverse    float64
}

// ActionFromVec returns the ActionVector stored in v in the order
// (steering, accelerate, reverse)
func ActionFromVec(v mat.Vector) (ActionVector, error) {
	if v == nil || v.Len() != ActionDims {
		var have int
		if v != nil {
			have = v.Len()
		}
		return ActionVector{}, fmt.Errorf("actionFromVec: actions should "+
			"be %d-dimensional \n\twant(%d) \n\thave(%d)", ActionDims,
			ActionDims, have)
	}
	return ActionVector{
		Steering:   v.AtVec(0),
		Accelerate: v.AtVec(1),
		Reverse:    v.AtVec(2),
	}, nil
}

// Vec returns the action as a vector in the order (steering,
// accelerate, reverse)
func (a ActionVector) Vec() *mat.VecDense {
	return mat.NewVecDense(ActionDims, []float64{a.Steering, a.Accelerate,
		a.Reverse})
}

// Command is a drive command for the Locomotion adapter
type Command struct {
	Steering float64
	Throttle float64
}

// Translate converts an action into a drive command. Accelerate and
// Reverse are each clipped to [-1, 1], rescaled to [0, 1], and their
// difference is the throttle, positive for forward and negative for
// reverse.
//
// While aligning, the scripted alignment drives the car and the
// learned action is suppressed: Translate then returns the zero
// Command and false.
func Translate(a ActionVector, aligning bool) (Command, bool) {
	if aligning {
		return Command{}, false
	}

	accel := (floatutils.ClipInterval(a.Accelerate, actionBounds) + 1) / 2
	reverse := (floatutils.ClipInterval(a.Reverse, actionBounds) + 1) / 2

	return Command{
		Steering: floatutils.ClipInterval(a.Steering, actionBounds),
		Throttle: accel - reverse,
	}, true
}

// HumanAxes are raw input axes of a human driver. Horizontal is in
// [-1, 1], Accelerate and Reverse are pedal positions in [0, 1].
type HumanAxes struct {
	Horizontal float64
	Accelerate float64
	Reverse    float64
}

// FromAxes maps human input axes to an ActionVector, so that human
// and learned actions are translated identically
func FromAxes(h HumanAxes) ActionVector {
	return ActionVector{
		Steering:   h.Horizontal,
		Accelerate: h.Accelerate*2 - 1,
		Reverse:    h.Reverse*2 - 1,
	}
}
