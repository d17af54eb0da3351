package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/samuelfneumann/parkrl/agent"
	env "github.com/samuelfneumann/parkrl/environment"
	"github.com/samuelfneumann/parkrl/experiment/trackers"
	ts "github.com/samuelfneumann/parkrl/timestep"
)

// Online is an Experiment that runs a policy online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Policy
	maxSteps     uint
	currentSteps uint
	episodes     int
	trackers     []trackers.Tracker
	logger       zerolog.Logger
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given policy. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter
// is a slice of trackers.Tracker which determine what data is saved.
func NewOnline(e env.Environment, p agent.Policy, steps uint,
	t ...trackers.Tracker) *Online {
	return &Online{
		Environment: e,
		Policy:      p,
		maxSteps:    steps,
		trackers:    t,
		logger:      zerolog.Nop(),
	}
}

// SetLogger sets the logger that episode summaries are written to
func (o *Online) SetLogger(logger zerolog.Logger) {
	o.logger = logger
}

// Register registers a trackers.Tracker with an Experiment so that
// data generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Steps returns the number of timesteps run so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// Episodes returns the number of episodes started so far
func (o *Online) Episodes() int {
	return o.episodes
}

// RunEpisode runs a single episode of the experiment and returns
// whether the timestep limit of the experiment has been reached. If
// ctx is cancelled, the episode stops and ctx's error is returned.
func (o *Online) RunEpisode(ctx context.Context) (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	o.episodes++

	observer, observes := o.Policy.(agent.Observer)
	if observes {
		if err := observer.ObserveFirst(step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
	}
	if err := o.track(step); err != nil {
		return false, err
	}
	ret := step.Reward

	// Run the next timestep
	for !step.Last() && o.currentSteps < o.maxSteps {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		o.currentSteps++

		// Select action, step in environment
		action := o.Policy.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		ret += step.Reward

		if err := o.track(step); err != nil {
			return false, err
		}
		if observes {
			if err := observer.Observe(action, step); err != nil {
				return false, fmt.Errorf("runEpisode: %w", err)
			}
		}
	}

	if step.Last() {
		o.logger.Info().
			Int("episode", o.episodes).
			Int("steps", step.Number).
			Float64("return", ret).
			Stringer("reason", step.EndType).
			Msg("episode end")
	}

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps, or until ctx is
// cancelled
func (o *Online) Run(ctx context.Context) error {
	for {
		done, err := o.RunEpisode(ctx)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if done {
			return nil
		}
	}
}

// Save saves all the data cached by the Trackers
func (o *Online) Save() error {
	var errs []error
	for _, tracker := range o.trackers {
		if err := tracker.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// track tracks the current timestep by caching its data in each
// Tracker
func (o *Online) track(t ts.TimeStep) error {
	for _, tracker := range o.trackers {
		if err := tracker.Track(t); err != nil {
			return fmt.Errorf("track: %w", err)
		}
	}
	return nil
}
