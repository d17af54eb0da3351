package parking

// Locomotion is the vehicle's low-level controller. Move accepts
// normalised commands: steering in [-1, 1] and throttle in [-1, 1],
// with negative throttle driving in reverse.
type Locomotion interface {
	CurrentSpeed() float64
	Move(steering, throttle, footBrake, handBrake float64)
}

// Body is the physics engine's handle on the agent's rigid body
type Body interface {
	Pose() Pose

	// Teleport places the body at p
	Teleport(p Pose)

	// Stop zeroes the body's linear and angular velocity
	Stop()
}

// Perception produces observations other than speed, such as ray
// cast distances
type Perception interface {
	Size() int
	Observations() []float64
}
