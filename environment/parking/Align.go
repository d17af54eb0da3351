package parking

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// Throttle of the alignment corrections
	AlignReverseThrottle float64 = -0.3
	AlignForwardThrottle float64 = 0.1

	// SpeedHoldStep is the throttle SpeedHold applies toward the
	// desired speed
	SpeedHoldStep float64 = 0.5
)

// Aligner moves the car along x until it is Offset away from Spot,
// reversing for negative offsets and creeping forward for positive
// offsets
type Aligner struct {
	Spot   r3.Vec
	Offset float64
}

// Step issues one alignment correction to loco given the car's
// position. Step returns false, without moving the car, once the car
// is at least |Offset| away from Spot along x.
func (a Aligner) Step(pos r3.Vec, loco Locomotion) bool {
	distanceX := math.Abs(pos.X - a.Spot.X)
	offset := math.Abs(a.Offset)

	switch {
	case distanceX < offset && a.Offset < 0:
		loco.Move(0, AlignReverseThrottle, 0, 0)
		return true

	case distanceX < offset && a.Offset > 0:
		loco.Move(0, AlignForwardThrottle, 0, 0)
		return true
	}
	return false
}

// SpeedHold nudges loco toward the desired speed by a fixed throttle
// step. This is a bang-bang controller and oscillates about the
// desired speed.
func SpeedHold(desired float64, loco Locomotion) {
	speed := loco.CurrentSpeed()
	switch {
	case speed < desired:
		loco.Move(0, SpeedHoldStep, 0, 0)
	case speed > desired:
		loco.Move(0, -SpeedHoldStep, 0, 0)
	}
}
