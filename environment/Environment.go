// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/parkrl/timestep"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes should end. If an episode should end,
// End() modifies the argument TimeStep so that it is the last in the
// episode and records why the episode ended.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Environment implements a simulated environment that an agent acts in
type Environment interface {
	Reset() (timestep.TimeStep, error) // Resets between episodes
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)
	LastTimeStep() timestep.TimeStep
	ObservationSpec() Spec
	ActionSpec() Spec
}
