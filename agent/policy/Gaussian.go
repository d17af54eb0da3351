package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/samuelfneumann/parkrl/environment"
	"github.com/samuelfneumann/parkrl/timestep"
)

const StdOffset float64 = 1e-3

const (
	// Keys for weights map: map[string]*mat.Dense
	MeanWeightsKey string = "mean"
	StdWeightsKey  string = "standard deviation"
)

// Gaussian implements a multi-dimensional linear Gaussian policy.
// The policy uses linear function approximation of the observation
// to compute the mean and log standard deviation of each action
// component. With zero weights, the policy samples actions from a
// standard normal distribution.
type Gaussian struct {
	meanWeights *mat.Dense
	stdWeights  *mat.Dense
	actionDims  int
	source      rand.Source
}

// NewGaussian creates a new Gaussian policy with zero weights
func NewGaussian(seed uint64, env environment.Environment) *Gaussian {
	// Calculate the dimension of actions
	actionDims := env.ActionSpec().Shape.Len()

	// Calculate the number of features
	features := env.ObservationSpec().Shape.Len()

	meanWeights := mat.NewDense(actionDims, features, nil)
	stdWeights := mat.NewDense(actionDims, features, nil)

	source := rand.NewSource(seed)

	return &Gaussian{meanWeights, stdWeights, actionDims, source}
}

// Std gets the standard deviation of the policy given some state
// observation obs
func (g *Gaussian) Std(obs mat.Vector) *mat.VecDense {
	stdVec := mat.NewVecDense(g.actionDims, nil)
	stdVec.MulVec(g.stdWeights, obs)
	for i := 0; i < stdVec.Len(); i++ {
		std := math.Exp(stdVec.AtVec(i))
		stdVec.SetVec(i, std+StdOffset)
	}
	return stdVec
}

// Mean gets the mean of the policy given some state observation obs
func (g *Gaussian) Mean(obs mat.Vector) *mat.VecDense {
	mean := mat.NewVecDense(g.actionDims, nil)
	mean.MulVec(g.meanWeights, obs)
	return mean
}

// SelectAction selects an action from the policy for a given timestep
func (g *Gaussian) SelectAction(t timestep.TimeStep) *mat.VecDense {
	obs := t.Observation

	mean := g.Mean(obs)
	stdVec := g.Std(obs)

	// The covariance is diagonal with the variance of each component
	variance := make([]float64, stdVec.Len())
	for i := range variance {
		variance[i] = stdVec.AtVec(i) * stdVec.AtVec(i)
	}
	cov := mat.NewDiagDense(len(variance), variance)

	dist, ok := distmv.NewNormal(mean.RawVector().Data, cov, g.source)
	if !ok {
		panic(fmt.Sprintf("selectAction: non-positive-definite "+
			"covariance %v", variance))
	}

	return mat.NewVecDense(g.actionDims, dist.Rand(nil))
}

// Weights gets and returns the weights of the policy
func (g *Gaussian) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)

	weights[MeanWeightsKey] = g.meanWeights
	weights[StdWeightsKey] = g.stdWeights

	return weights
}

// SetWeights sets the weight pointers to point to a new set of weights.
func (g *Gaussian) SetWeights(weights map[string]*mat.Dense) error {
	// Set the weights for the mean
	meanWeights, ok := weights[MeanWeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named \"%v\"",
			MeanWeightsKey)
	}
	if r, c := meanWeights.Dims(); r != g.actionDims {
		return fmt.Errorf("setWeights: mean weights should have %v rows, "+
			"have (%v, %v)", g.actionDims, r, c)
	}

	// Set the weights for the std deviation
	stdWeights, ok := weights[StdWeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named \"%v\"",
			StdWeightsKey)
	}
	if r, c := stdWeights.Dims(); r != g.actionDims {
		return fmt.Errorf("setWeights: std weights should have %v rows, "+
			"have (%v, %v)", g.actionDims, r, c)
	}

	g.meanWeights = meanWeights
	g.stdWeights = stdWeights

	return nil
}
