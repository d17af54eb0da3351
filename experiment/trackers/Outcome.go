package trackers

import (
	ts "github.com/samuelfneumann/parkrl/timestep"
)

// Recorder stores the outcome of an episode
type Recorder interface {
	Record(run string, number int, ret float64, length int,
		reason ts.EndType) error
}

// Outcome records the return, length, and end reason of every finished
// episode in a Recorder, such as a storage.Store. Episodes are
// recorded as soon as they end, so Save does nothing.
type Outcome struct {
	run      string
	recorder Recorder
	episode  int
	ret      float64
}

// NewOutcome returns a new Outcome Tracker recording the episodes of
// run in rec
func NewOutcome(run string, rec Recorder) *Outcome {
	return &Outcome{run: run, recorder: rec}
}

// Track accumulates the return of the current episode and records the
// episode once t is its last timestep
func (o *Outcome) Track(t ts.TimeStep) error {
	if t.First() {
		o.ret = 0
	}
	o.ret += t.Reward

	if !t.Last() {
		return nil
	}

	err := o.recorder.Record(o.run, o.episode, o.ret, t.Number, t.EndType)
	o.episode++
	o.ret = 0
	return err
}

// Save implements the Tracker interface
func (o *Outcome) Save() error {
	return nil
}
