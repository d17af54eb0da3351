package environment

import (
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/parkrl/timestep"
	"github.com/samuelfneumann/parkrl/utils/floatutils"
)

// IntervalLimit implements the Ender interface to end episodes
// whenever a single feature in a feature vector leaves some interval.
// Features lying exactly on an interval bound are within the interval.
type IntervalLimit struct {
	intervals []r1.Interval
	indices   []int
	endType   timestep.EndType
}

// NewIntervalLimit creates and returns a new inteval limit. The endType
// argument determines what the episode end should be considered as.
func NewIntervalLimit(limits []r1.Interval, obsIndices []int,
	endType timestep.EndType) *IntervalLimit {
	if len(limits) != len(obsIndices) {
		panic("limits should have same length as observation indices")
	}

	return &IntervalLimit{limits, obsIndices, endType}
}

// Exceeded returns whether any tracked feature of features lies outside
// its interval
func (i *IntervalLimit) Exceeded(features []float64) bool {
	for index := range i.indices {
		featureIndex := i.indices[index]
		if floatutils.Outside(features[featureIndex], i.intervals[index]) {
			return true
		}
	}
	return false
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended, End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is the appropriate ending
// type.
func (i *IntervalLimit) End(t *timestep.TimeStep) bool {
	if i.Exceeded(t.Observation.RawVector().Data) {
		t.SetEnd(i.endType)
		return true
	}
	return false
}

// EndType returns the type of ending this limit records
func (i *IntervalLimit) EndType() timestep.EndType {
	return i.endType
}
