package trackers

import (
	ts "github.com/samuelfneumann/parkrl/timestep"
	"github.com/samuelfneumann/parkrl/utils/progressbar"
)

// Progress displays the fraction of an experiment's timesteps that
// have been run on a progress bar
type Progress struct {
	bar   *progressbar.ProgressBar
	every int
	steps int
}

// NewProgress returns a new Progress Tracker which advances bar once
// per timestep taken and redisplays it every every timesteps
func NewProgress(bar *progressbar.ProgressBar, every int) *Progress {
	if every < 1 {
		every = 1
	}
	return &Progress{bar: bar, every: every}
}

// Track advances the progress bar unless t is the first timestep of
// an episode, which is not the result of an action
func (p *Progress) Track(t ts.TimeStep) error {
	if t.First() {
		return nil
	}

	p.bar.Increment()
	p.steps++
	if p.steps%p.every == 0 {
		p.bar.Display()
	}
	return nil
}

// Save closes the progress bar
func (p *Progress) Save() error {
	p.bar.Close()
	return nil
}
