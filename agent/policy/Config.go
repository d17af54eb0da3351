package policy

import (
	"fmt"

	"github.com/samuelfneumann/parkrl/agent"
	"github.com/samuelfneumann/parkrl/environment/box2d/carpark"
)

// Type is the type of a policy that can be created from a Config
type Type string

const (
	RandomType   Type = "Random"
	GaussianType Type = "Gaussian"
	SeekerType   Type = "Seeker"
)

// Config represents a configuration for creating a policy
type Config struct {
	Type Type `mapstructure:"type" json:"type"`

	// TopSpeed is the speed a Seeker drives far from the goal
	TopSpeed float64 `mapstructure:"topSpeed" json:"topSpeed"`
}

// Create creates the policy that the Config describes, acting in env
func (c Config) Create(env *carpark.CarPark, seed uint64) (agent.Policy,
	error) {
	switch c.Type {
	case RandomType:
		return NewRandom(seed, env), nil

	case GaussianType:
		return NewGaussian(seed, env), nil

	case SeekerType:
		if c.TopSpeed <= 0 {
			return nil, fmt.Errorf("create: top speed must be positive, "+
				"have %v", c.TopSpeed)
		}
		return NewHeuristic(NewSeeker(env, env.Agent().Goal(),
			c.TopSpeed)), nil
	}

	return nil, fmt.Errorf("create: no such policy type %q", c.Type)
}
