package parking

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/parkrl/timestep"
)

const tolerance = 1e-9

var origin = Pose{Position: r3.Vec{}, Yaw: 0}

func TestProgressSkippedWithoutPrevious(t *testing.T) {
	c := DefaultConfig()
	in := RewardInput{
		Position: r3.Vec{X: 1, Z: 4},
		Forward:  r3.Vec{Z: 1},
		Previous: r3.Vec{X: 100, Z: 100},
		Goal:     origin,
	}

	result := ComputeReward(in, c)
	if result.Direction != 0 {
		t.Errorf("direction without previous position \n\twant(0) "+
			"\n\thave(%v)", result.Direction)
	}

	wantDistance := ((1 - 1/c.BoundaryX) + (1 - 4/c.BoundaryZ)) /
		c.Rewards.ProximityDivisor
	if math.Abs(result.Reward-wantDistance) > tolerance {
		t.Errorf("reward \n\twant(%v) \n\thave(%v)", wantDistance,
			result.Reward)
	}
}

func TestProgressClipped(t *testing.T) {
	c := DefaultConfig()

	tests := []struct {
		name     string
		previous r3.Vec
		position r3.Vec
		want     float64
	}{
		{"large approach", r3.Vec{X: 1e6, Z: 1e6}, r3.Vec{}, 0.5},
		{"large retreat", r3.Vec{}, r3.Vec{X: -1e6, Z: 1e6}, -0.5},
		{"small approach", r3.Vec{X: 1.02}, r3.Vec{X: 1}, 0.2},
		{"small retreat", r3.Vec{Z: -2}, r3.Vec{Z: -2.01}, -0.1},
		{"no movement", r3.Vec{X: 2, Z: 2}, r3.Vec{X: 2, Z: 2}, 0},
		{"opposite axes", r3.Vec{X: 1, Z: 2}, r3.Vec{X: 2, Z: 1}, 0},
	}

	for _, test := range tests {
		in := RewardInput{
			Position:    test.position,
			Forward:     r3.Vec{Z: 1},
			Previous:    test.previous,
			HasPrevious: true,
			Goal:        origin,
		}
		have := ComputeReward(in, c).Direction
		if math.Abs(have-test.want) > tolerance {
			t.Errorf("%v: direction \n\twant(%v) \n\thave(%v)", test.name,
				test.want, have)
		}
		if have < -c.Rewards.ProgressClip || have > c.Rewards.ProgressClip {
			t.Errorf("%v: direction %v outside clip range", test.name, have)
		}
	}
}

func TestProximityNegativeBeyondBoundary(t *testing.T) {
	c := DefaultConfig()
	in := RewardInput{
		Position: r3.Vec{X: 2 * c.BoundaryX, Z: 2 * c.BoundaryZ},
		Forward:  r3.Vec{Z: 1},
		Goal:     origin,
	}

	want := -2 / c.Rewards.ProximityDivisor
	if have := ComputeReward(in, c).Distance; math.Abs(have-want) > tolerance {
		t.Errorf("distance \n\twant(%v) \n\thave(%v)", want, have)
	}
}

func TestAngleOnlyWithinTarget(t *testing.T) {
	c := DefaultConfig()
	in := RewardInput{
		Position: r3.Vec{X: 2, Z: 2},
		Forward:  r3.Vec{Z: 1},
		Speed:    10,
		Goal:     origin,
	}

	outside := ComputeReward(in, c)
	if outside.Angle != 0 || outside.AngleToGoal != 0 {
		t.Errorf("angle outside target \n\twant(0) \n\thave(%v)",
			outside.Angle)
	}

	in.WithinTarget = true
	inside := ComputeReward(in, c)
	if inside.Angle != 2 {
		t.Errorf("angle when aligned \n\twant(2) \n\thave(%v)", inside.Angle)
	}
	if diff := inside.Reward - outside.Reward; math.Abs(diff-2) > tolerance {
		t.Errorf("reward difference from entering target \n\twant(2) "+
			"\n\thave(%v)", diff)
	}
}

func TestAngleReward(t *testing.T) {
	c := DefaultConfig()

	tests := []struct {
		name    string
		forward r3.Vec
		want    float64
	}{
		{"aligned", r3.Vec{Z: 1}, 2},
		{"reversed", r3.Vec{Z: -1}, 2},
		{"perpendicular", r3.Vec{X: 1}, 0},
		{"angle scale", r3.Vec{X: 1, Z: 1}, 1},
		{"reversed angle scale", r3.Vec{X: -1, Z: -1}, 1},
	}

	for _, test := range tests {
		in := RewardInput{
			Position:     r3.Vec{X: 2},
			Forward:      test.forward,
			Goal:         origin,
			WithinTarget: true,
		}
		have := ComputeReward(in, c).Angle
		if math.Abs(have-test.want) > tolerance {
			t.Errorf("%v: angle \n\twant(%v) \n\thave(%v)", test.name,
				test.want, have)
		}
	}
}

func TestSuccess(t *testing.T) {
	c := DefaultConfig()

	// Heading 2° away from the goal heading
	slightly := r3.Vec{X: math.Sin(2 * math.Pi / 180), Z: math.Cos(2 * math.Pi / 180)}
	tooFar := r3.Vec{X: math.Sin(3 * math.Pi / 180), Z: math.Cos(3 * math.Pi / 180)}

	tests := []struct {
		name     string
		position r3.Vec
		forward  r3.Vec
		speed    float64
		within   bool
		want     bool
	}{
		{"parked", r3.Vec{X: 0.5}, slightly, 0.5, true, true},
		{"parked reversed", r3.Vec{Z: 0.2}, r3.Vec{Z: -1}, -1.5, true, true},
		{"outside target", r3.Vec{X: 0.5}, slightly, 0.5, false, false},
		{"angle near miss", r3.Vec{X: 0.5}, tooFar, 0.5, true, false},
		{"distance near miss", r3.Vec{X: 1}, slightly, 0.5, true, false},
		{"speed near miss", r3.Vec{X: 0.5}, slightly, 2, true, false},
		{"reverse speed near miss", r3.Vec{X: 0.5}, slightly, -2.1, true, false},
	}

	for _, test := range tests {
		in := RewardInput{
			Position:     test.position,
			Forward:      test.forward,
			Speed:        test.speed,
			Goal:         origin,
			WithinTarget: test.within,
		}
		result := ComputeReward(in, c)

		if result.End != test.want {
			t.Errorf("%v: end \n\twant(%v) \n\thave(%v)", test.name,
				test.want, result.End)
		}
		if test.want {
			if result.Terminal != c.Rewards.SuccessBonus {
				t.Errorf("%v: terminal \n\twant(%v) \n\thave(%v)", test.name,
					c.Rewards.SuccessBonus, result.Terminal)
			}
			if result.Reason != timestep.Success {
				t.Errorf("%v: reason \n\twant(%v) \n\thave(%v)", test.name,
					timestep.Success, result.Reason)
			}
		} else if result.Terminal != 0 || result.Reason != timestep.None {
			t.Errorf("%v: unexpected success bonus %v", test.name,
				result.Terminal)
		}
	}
}

func TestRewardIsSumOfComponents(t *testing.T) {
	c := DefaultConfig()
	in := RewardInput{
		Position:     r3.Vec{X: 0.1, Z: 0.1},
		Forward:      r3.Vec{Z: 1},
		Speed:        0.1,
		Previous:     r3.Vec{X: 0.2, Z: 0.2},
		HasPrevious:  true,
		Goal:         origin,
		WithinTarget: true,
	}

	result := ComputeReward(in, c)
	if result.Reward != result.Total() {
		t.Errorf("reward \n\twant(%v) \n\thave(%v)", result.Total(),
			result.Reward)
	}
	if result.Direction == 0 || result.Distance == 0 || result.Angle == 0 ||
		result.Terminal == 0 {
		t.Errorf("expected all components to contribute, have %+v",
			result.Components)
	}
}

func TestComputeRewardPanicsOnZeroBoundary(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("computeReward: expected panic on zero boundary")
		}
	}()

	c := DefaultConfig()
	c.BoundaryX = 0
	ComputeReward(RewardInput{Goal: origin}, c)
}
