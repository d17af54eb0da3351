// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/samuelfneumann/parkrl/agent/policy"
	"github.com/samuelfneumann/parkrl/environment/box2d/carpark"
	"github.com/samuelfneumann/parkrl/experiment/trackers"
)

// Experiment outlines structs that can run experiments. Experiments
// send each TimeStep of the environment to their Trackers, which cache
// the data they need. The Save() method will then have each Tracker
// save its data, usually after an experiment has been run. The Run()
// method will run all episodes until the maximum timestep limit is
// reached or the context is cancelled. The RunEpisode() method will
// run a single episode.
type Experiment interface {
	Run(ctx context.Context) error
	RunEpisode(ctx context.Context) (bool, error) // Returns whether the experiment is done

	// Save all tracked data
	Save() error

	// Adds a new Tracker to the (possibly already running) experiment.
	// Useful if you want to track data only after a specified event.
	Register(t trackers.Tracker)
}

// Type is the type of an experiment
type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment.
type Config struct {
	Type     Type          `mapstructure:"type" json:"type"`
	MaxSteps uint          `mapstructure:"steps" json:"steps"`
	Seed     uint64        `mapstructure:"seed" json:"seed"`
	Policy   policy.Config `mapstructure:"policy" json:"policy"`
}

// CreateExp creates the experiment that the Config describes, running
// its policy in env
func (c Config) CreateExp(env *carpark.CarPark, logger zerolog.Logger,
	t ...trackers.Tracker) (Experiment, error) {
	p, err := c.Policy.Create(env, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create policy: %w", err)
	}

	switch c.Type {
	case OnlineExp:
		exp := NewOnline(env, p, c.MaxSteps, t...)
		exp.SetLogger(logger)
		return exp, nil
	}

	return nil, fmt.Errorf("createExp: no such experiment type %q", c.Type)
}
