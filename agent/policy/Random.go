// Package policy implements policies for continuous-action
// environments
package policy

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/parkrl/environment"
	"github.com/samuelfneumann/parkrl/timestep"
)

// Random selects each action component uniformly at random between
// the bounds of the environment's action specification
type Random struct {
	dists []distuv.Uniform
}

// NewRandom creates a new Random policy
func NewRandom(seed uint64, env environment.Environment) *Random {
	spec := env.ActionSpec()
	source := rand.NewSource(seed)

	dists := make([]distuv.Uniform, spec.Shape.Len())
	for i := range dists {
		dists[i] = distuv.Uniform{
			Min: spec.LowerBound.AtVec(i),
			Max: spec.UpperBound.AtVec(i),
			Src: source,
		}
	}
	return &Random{dists}
}

// SelectAction selects a random action
func (r *Random) SelectAction(_ timestep.TimeStep) *mat.VecDense {
	action := mat.NewVecDense(len(r.dists), nil)
	for i := range r.dists {
		action.SetVec(i, r.dists[i].Rand())
	}
	return action
}
