package policy

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/parkrl/environment/box2d/carpark"
	"github.com/samuelfneumann/parkrl/environment/parking"
	"github.com/samuelfneumann/parkrl/timestep"
)

func newCarPark(t *testing.T) (*carpark.CarPark, timestep.TimeStep) {
	t.Helper()
	cp, step, err := carpark.New(carpark.DefaultConfig(),
		carpark.DefaultParkingConfig(), 3, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return cp, step
}

func TestRandomWithinActionBounds(t *testing.T) {
	cp, step := newCarPark(t)
	spec := cp.ActionSpec()
	p := NewRandom(11, cp)

	for i := 0; i < 1000; i++ {
		action := p.SelectAction(step)
		if action.Len() != spec.Shape.Len() {
			t.Fatalf("selectAction: action length \n\twant(%v) \n\thave(%v)",
				spec.Shape.Len(), action.Len())
		}
		for j := 0; j < action.Len(); j++ {
			a := action.AtVec(j)
			if a < spec.LowerBound.AtVec(j) || a > spec.UpperBound.AtVec(j) {
				t.Errorf("selectAction: component %v = %v out of bounds", j, a)
			}
		}
	}
}

func TestGaussianMean(t *testing.T) {
	cp, step := newCarPark(t)
	g := NewGaussian(5, cp)

	features := step.Observation.Len()
	mean := mat.NewDense(parking.ActionDims, features, nil)
	mean.Set(1, 0, 1)

	// A negligible standard deviation makes actions deterministic
	std := mat.NewDense(parking.ActionDims, features, nil)
	for i := 0; i < parking.ActionDims; i++ {
		std.Set(i, 0, 1)
	}
	if err := g.SetWeights(map[string]*mat.Dense{
		MeanWeightsKey: mean,
		StdWeightsKey:  std,
	}); err != nil {
		t.Fatal(err)
	}

	obs := mat.NewVecDense(features, nil)
	obs.SetVec(0, -30)
	action := g.SelectAction(timestep.New(timestep.Mid, 0, obs, 1))

	want := []float64{0, -30, 0}
	for i, w := range want {
		if math.Abs(action.AtVec(i)-w) > 0.05 {
			t.Errorf("selectAction: component %v \n\twant(%v) \n\thave(%v)",
				i, w, action.AtVec(i))
		}
	}

	if err := g.SetWeights(map[string]*mat.Dense{MeanWeightsKey: mean}); err == nil {
		t.Error("setWeights: expected error for missing std weights")
	}
}

func TestScriptReplay(t *testing.T) {
	script := NewScript(
		parking.HumanAxes{Accelerate: 1},
		parking.HumanAxes{Horizontal: -1, Reverse: 1},
	)
	h := NewHeuristic(script)

	want := [][]float64{{0, 1, -1}, {-1, -1, 1}, {-1, -1, 1}}
	for i, w := range want {
		have := h.SelectAction(timestep.TimeStep{})
		if !mat.Equal(have, mat.NewVecDense(3, w)) {
			t.Errorf("selectAction %v \n\twant(%v) \n\thave(%v)", i, w,
				have.RawVector().Data)
		}
	}

	if err := h.ObserveFirst(timestep.TimeStep{}); err != nil {
		t.Fatal(err)
	}
	if have := h.SelectAction(timestep.TimeStep{}); have.AtVec(1) != 1 {
		t.Errorf("selectAction after restart: accelerate \n\twant(1) "+
			"\n\thave(%v)", have.AtVec(1))
	}
}

type staticCar parking.Pose

func (s staticCar) Pose() parking.Pose { return parking.Pose(s) }

func TestSeekerSteersTowardGoal(t *testing.T) {
	goal := parking.Pose{}

	tests := []struct {
		name  string
		car   parking.Pose
		speed float64
		right bool
		left  bool
		gas   bool
	}{
		{"goal ahead", parking.Pose{Position: r3.Vec{Z: -8}}, 0, false, false, true},
		{"goal right", parking.Pose{Position: r3.Vec{X: -8}}, 0, true, false, true},
		{"goal left", parking.Pose{Position: r3.Vec{X: 8}}, 0, false, true, true},
		{"too fast", parking.Pose{Position: r3.Vec{Z: -1}}, 5, false, false, false},
	}

	for _, test := range tests {
		s := NewSeeker(staticCar(test.car), goal, 3)
		obs := mat.NewVecDense(1, []float64{test.speed})
		axes := s.Axes(timestep.New(timestep.Mid, 0, obs, 1))

		if test.right != (axes.Horizontal > 0.5) ||
			test.left != (axes.Horizontal < -0.5) {
			t.Errorf("%v: horizontal %v", test.name, axes.Horizontal)
		}
		if test.gas != (axes.Accelerate > 0) || test.gas == (axes.Reverse > 0) {
			t.Errorf("%v: accelerate %v reverse %v", test.name,
				axes.Accelerate, axes.Reverse)
		}
	}
}

func TestCreate(t *testing.T) {
	cp, step := newCarPark(t)

	for _, typ := range []Type{RandomType, GaussianType, SeekerType} {
		p, err := Config{Type: typ, TopSpeed: 2}.Create(cp, 1)
		if err != nil {
			t.Fatalf("create(%v): %v", typ, err)
		}
		if a := p.SelectAction(step); a.Len() != parking.ActionDims {
			t.Errorf("create(%v): action length %v", typ, a.Len())
		}
	}

	if _, err := (Config{Type: "DeepQ"}).Create(cp, 1); err == nil {
		t.Error("create: expected error for unknown policy type")
	}
}
