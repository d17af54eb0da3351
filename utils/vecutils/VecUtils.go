// Package vecutils provides utilities for working with vectors in the
// horizontal plane of a y-up, left-handed world. Headings are yaw
// angles in radians about the y axis, with a yaw of 0 facing +z.
package vecutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// Up is the world's vertical axis
	Up = r3.Vec{Y: 1}

	// Forward is the heading of a zero yaw
	Forward = r3.Vec{Z: 1}
)

// Heading returns the unit forward vector of a body with the argument
// yaw
func Heading(yaw float64) r3.Vec {
	return r3.NewRotation(yaw, Up).Rotate(Forward)
}

// Yaw returns the yaw of the horizontal projection of forward
func Yaw(forward r3.Vec) float64 {
	return math.Atan2(forward.X, forward.Z)
}

// Angle returns the unsigned angle between a and b in degrees, in
// [0, 180]. If either vector has zero length the angle is 0.
func Angle(a, b r3.Vec) float64 {
	if r3.Norm(a) == 0 || r3.Norm(b) == 0 {
		return 0.0
	}
	cos := math.Max(-1, math.Min(1, r3.Cos(a, b)))
	return math.Acos(cos) * 180.0 / math.Pi
}

// AxisAngle returns the angle between a and b in degrees with headings
// in opposite directions along the same axis treated as equal, so the
// result lies in [0, 90].
func AxisAngle(a, b r3.Vec) float64 {
	angle := Angle(a, b)
	if angle > 90.0 {
		angle = 180.0 - angle
	}
	return math.Max(0, math.Min(90, angle))
}

// Distance returns the Euclidean distance between a and b
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}
