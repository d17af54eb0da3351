package parking

import "gonum.org/v1/gonum/spatial/r3"

// fakeCar is a kinematic stand in for a physics body. It records the
// commands it receives and the calls made on it.
type fakeCar struct {
	pose  Pose
	speed float64

	moves    []Command
	teleport int
	stops    int
}

func newFakeCar(pos r3.Vec, yaw float64) *fakeCar {
	return &fakeCar{pose: Pose{Position: pos, Yaw: yaw}}
}

func (f *fakeCar) Pose() Pose { return f.pose }

func (f *fakeCar) Teleport(p Pose) {
	f.pose = p
	f.teleport++
}

func (f *fakeCar) Stop() {
	f.speed = 0
	f.stops++
}

func (f *fakeCar) CurrentSpeed() float64 { return f.speed }

func (f *fakeCar) Move(steering, throttle, _, _ float64) {
	f.moves = append(f.moves, Command{Steering: steering, Throttle: throttle})
}

func (f *fakeCar) lastMove() (Command, bool) {
	if len(f.moves) == 0 {
		return Command{}, false
	}
	return f.moves[len(f.moves)-1], true
}

type fakePerception []float64

func (f fakePerception) Size() int               { return len(f) }
func (f fakePerception) Observations() []float64 { return f }

// fixedConfig returns the default configuration with episodes always
// starting at the initial position
func fixedConfig() Config {
	c := DefaultConfig()
	c.AreaWidth = 0
	c.AreaDepth = 0
	return c
}
