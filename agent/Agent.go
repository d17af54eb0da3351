// Package agent defines the policies that select actions in an
// environment
package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/parkrl/timestep"
)

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. Actions returned by a
// Policy must conform to the action specification of the environment
// the Policy acts in.
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
}

// Observer is a Policy that is informed of each transition it causes,
// for example to learn or to follow a script from the beginning of
// each episode
type Observer interface {
	Policy

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep) error

	// Observe records that an action lead to some timestep
	Observe(action mat.Vector, nextObs timestep.TimeStep) error
}
