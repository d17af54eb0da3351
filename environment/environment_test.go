package environment

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/parkrl/timestep"
)

func TestUniformStarterBounds(t *testing.T) {
	bounds := []r1.Interval{{Min: -20, Max: 20}, {Min: 5, Max: 45}}
	s := NewUniformStarter(bounds, 192382)

	for i := 0; i < 1000; i++ {
		start := s.Start()
		if start.Len() != len(bounds) {
			t.Fatalf("start: illegal number of features \n\twant(%v) "+
				"\n\thave(%v)", len(bounds), start.Len())
		}
		for j, bound := range bounds {
			if v := start.AtVec(j); v < bound.Min || v > bound.Max {
				t.Errorf("start: feature %v = %v ∉ [%v, %v]", j, v,
					bound.Min, bound.Max)
			}
		}
	}
}

func TestUniformStarterDegenerate(t *testing.T) {
	s := NewUniformStarter([]r1.Interval{{Min: 5, Max: 5}}, 1)
	if have := s.Start().AtVec(0); have != 5 {
		t.Errorf("start: \n\twant(5) \n\thave(%v)", have)
	}
}

func TestIntervalLimit(t *testing.T) {
	limit := NewIntervalLimit([]r1.Interval{{Min: -3, Max: 3}}, []int{0},
		timestep.OutOfBounds)

	tests := []struct {
		x    float64
		want bool
	}{
		{3, false},
		{-3, false},
		{0, false},
		{math.Nextafter(3, 4), true},
		{-3.0001, true},
	}

	for _, test := range tests {
		step := timestep.New(timestep.Mid, 0,
			mat.NewVecDense(1, []float64{test.x}), 1)
		if have := limit.End(&step); have != test.want {
			t.Errorf("end(%v) \n\twant(%v) \n\thave(%v)", test.x, test.want,
				have)
		}
		if test.want && (!step.Last() || step.EndType != timestep.OutOfBounds) {
			t.Errorf("end(%v): timestep not marked as last: %v", test.x, step)
		}
	}
}

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(10)
	step := timestep.New(timestep.Mid, 0, nil, 9)
	if limit.End(&step) {
		t.Error("end: step 9 should not reach a limit of 10")
	}

	step.Number = 10
	if !limit.End(&step) || step.EndType != timestep.StepLimit {
		t.Errorf("end: step 10 should end with StepLimit, have %v", step)
	}

	unlimited := NewStepLimit(0)
	step = timestep.New(timestep.Mid, 0, nil, 1_000_000)
	if unlimited.End(&step) {
		t.Error("end: a limit of 0 should never end an episode")
	}
}
