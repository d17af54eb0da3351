package carpark

import (
	"math"

	"github.com/ByteArena/box2d"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/parkrl/environment/parking"
	"github.com/samuelfneumann/parkrl/utils/floatutils"
)

// command is the drive command held by a car between decision steps
type command struct {
	steering  float64
	throttle  float64
	footBrake float64
	handBrake float64
}

// car is a top-down car driven by forces on a dynamic box2d body.
// Box2D's (x, y) plane is the world's (x, z) plane, and the body's
// local +y axis is the car's forward direction. car implements the
// parking.Body and parking.Locomotion interfaces.
type car struct {
	body    *box2d.B2Body
	config  Vehicle
	height  float64
	command command
}

func newCar(world *box2d.B2World, v Vehicle, start parking.Pose) *car {
	def := box2d.MakeB2BodyDef()
	def.Type = 2 // Dynamic body
	def.Position = toB2(start.Position)
	def.Angle = -start.Yaw
	def.LinearDamping = v.LinearDamping
	def.AngularDamping = 2.0
	body := world.CreateBody(&def)

	shape := box2d.NewB2PolygonShape()
	shape.SetAsBox(v.HalfWidth, v.HalfLength)

	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.Density = v.Density
	fix.Friction = 0.3
	fix.Restitution = 0.1
	body.CreateFixtureFromDef(&fix)

	return &car{body: body, config: v, height: start.Position.Y}
}

// forward returns the unit vector the car faces in box2d coordinates
func (c *car) forward() box2d.B2Vec2 {
	angle := c.body.GetAngle()
	return box2d.MakeB2Vec2(-math.Sin(angle), math.Cos(angle))
}

// Pose returns the car's pose in world coordinates
func (c *car) Pose() parking.Pose {
	return parking.Pose{
		Position: fromB2(c.body.GetPosition(), c.height),
		Yaw:      -c.body.GetAngle(),
	}
}

// Teleport places the car at p
func (c *car) Teleport(p parking.Pose) {
	c.height = p.Position.Y
	c.body.SetTransform(toB2(p.Position), -p.Yaw)
	c.body.SetAwake(true)
}

// Stop brings the car to rest and releases all controls
func (c *car) Stop() {
	c.body.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	c.body.SetAngularVelocity(0)
	c.command = command{}
}

// CurrentSpeed returns the car's speed along its heading, negative
// when reversing
func (c *car) CurrentSpeed() float64 {
	return box2d.B2Vec2Dot(c.body.GetLinearVelocity(), c.forward())
}

// Move sets the command applied on every physics tick until the next
// call to Move. Steering and throttle are clipped to [-1, 1] and the
// brakes to [0, 1].
func (c *car) Move(steering, throttle, footBrake, handBrake float64) {
	c.command = command{
		steering:  floatutils.Clip(steering, -1, 1),
		throttle:  floatutils.Clip(throttle, -1, 1),
		footBrake: floatutils.Clip(footBrake, 0, 1),
		handBrake: floatutils.Clip(handBrake, 0, 1),
	}
}

// drive applies the held command for a single physics tick
func (c *car) drive() {
	forward := c.forward()
	right := box2d.MakeB2Vec2(forward.Y, -forward.X)
	velocity := c.body.GetLinearVelocity()
	mass := c.body.GetMass()

	// Tyres do not slip sideways
	lateral := box2d.B2Vec2Dot(velocity, right)
	c.body.ApplyLinearImpulse(
		box2d.MakeB2Vec2(-lateral*mass*right.X, -lateral*mass*right.Y),
		c.body.GetWorldCenter(),
		true,
	)

	speed := c.CurrentSpeed()
	force := c.command.throttle * c.config.EngineForce
	brake := math.Max(c.command.footBrake, c.command.handBrake)
	if brake > 0 && speed != 0 {
		force -= floatutils.Sign(speed) * brake * c.config.BrakeForce
	}
	c.body.ApplyForceToCenter(
		box2d.MakeB2Vec2(force*forward.X, force*forward.Y),
		true,
	)

	// Positive steering turns clockwise seen from above, and the turn
	// reverses when driving backward
	grip := floatutils.Clip(speed/c.config.FullTurnSpeed, -1, 1)
	if c.command.handBrake > 0 {
		grip *= 1 + c.command.handBrake
	}
	c.body.SetAngularVelocity(-c.command.steering * c.config.TurnRate * grip)

	if math.Abs(speed) > c.config.MaxSpeed {
		scale := c.config.MaxSpeed / math.Abs(speed)
		velocity = c.body.GetLinearVelocity()
		c.body.SetLinearVelocity(box2d.MakeB2Vec2(velocity.X*scale,
			velocity.Y*scale))
	}
}

func toB2(v r3.Vec) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X, v.Z)
}

func fromB2(v box2d.B2Vec2, height float64) r3.Vec {
	return r3.Vec{X: v.X, Y: height, Z: v.Y}
}
