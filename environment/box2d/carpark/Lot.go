package carpark

import (
	"math"

	"github.com/ByteArena/box2d"

	"github.com/samuelfneumann/parkrl/environment/parking"
)

// lot holds the static bodies of the parking lot. Obstacle bodies
// carry their parking.Tag as user data.
type lot struct {
	walls  []*box2d.B2Body
	kerbs  []*box2d.B2Body
	parked []*box2d.B2Body
	target *box2d.B2Body

	// Target zone half extents
	targetHalfWidth  float64
	targetHalfLength float64
}

func newLot(world *box2d.B2World, l Lot, v Vehicle) *lot {
	built := &lot{}
	goal := box2d.MakeB2Vec2(l.GoalX, l.GoalZ)
	angle := -l.GoalYaw

	// Walls
	w, d := l.Width/2, l.Depth/2
	corners := []box2d.B2Vec2{
		box2d.MakeB2Vec2(goal.X-w, goal.Y-d),
		box2d.MakeB2Vec2(goal.X-w, goal.Y+d),
		box2d.MakeB2Vec2(goal.X+w, goal.Y+d),
		box2d.MakeB2Vec2(goal.X+w, goal.Y-d),
	}
	for i := range corners {
		def := box2d.NewB2BodyDef()
		def.Type = 0 // Static body
		wall := world.CreateBody(def)
		wall.SetUserData(parking.Wall)

		shape := box2d.NewB2EdgeShape()
		shape.Set(corners[i], corners[(i+1)%len(corners)])
		fix := box2d.MakeB2FixtureDef()
		fix.Shape = shape
		fix.Friction = 0.3
		wall.CreateFixtureFromDef(&fix)

		built.walls = append(built.walls, wall)
	}

	// Kerb along the back of the row of slots, low enough to drive over
	rowHalfWidth := (float64(l.ParkedVehicles) + 0.5) * l.SlotWidth
	kerbOffset := slotOffset(0, -(l.SlotLength+l.KerbDepth)/2, angle)
	kerb := staticBox(world, box2d.MakeB2Vec2(goal.X+kerbOffset.X,
		goal.Y+kerbOffset.Y), angle, rowHalfWidth, l.KerbDepth/2, true)
	kerb.SetUserData(parking.Kerb)
	built.kerbs = append(built.kerbs, kerb)

	// Parked cars in the neighbouring slots
	for i := 1; i <= l.ParkedVehicles; i++ {
		for _, side := range []float64{-1.0, 1.0} {
			offset := slotOffset(side*float64(i)*l.SlotWidth, 0, angle)
			parked := staticBox(world, box2d.MakeB2Vec2(goal.X+offset.X,
				goal.Y+offset.Y), angle, v.HalfWidth, v.HalfLength, false)
			parked.SetUserData(parking.Vehicle)
			built.parked = append(built.parked, parked)
		}
	}

	// Target zone sensor around the goal slot
	built.targetHalfWidth = l.SlotWidth / 2 * l.TargetProximityMultiplier
	built.targetHalfLength = l.SlotLength / 2 * l.TargetProximityMultiplier
	built.target = staticBox(world, goal, angle, built.targetHalfWidth,
		built.targetHalfLength, true)

	return built
}

// staticBox creates a static body with a single box fixture
func staticBox(world *box2d.B2World, pos box2d.B2Vec2, angle, halfWidth,
	halfLength float64, sensor bool) *box2d.B2Body {
	def := box2d.MakeB2BodyDef()
	def.Type = 0 // Static body
	def.Position = pos
	def.Angle = angle
	body := world.CreateBody(&def)

	shape := box2d.NewB2PolygonShape()
	shape.SetAsBox(halfWidth, halfLength)

	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.IsSensor = sensor
	fix.Friction = 0.3
	body.CreateFixtureFromDef(&fix)

	return body
}

// slotOffset rotates the offset (across, along) of a slot-aligned
// frame by angle into box2d coordinates
func slotOffset(across, along, angle float64) box2d.B2Vec2 {
	sin, cos := math.Sincos(angle)
	return box2d.MakeB2Vec2(cos*across-sin*along, sin*across+cos*along)
}

// isTarget returns whether f is the target zone sensor
func (l *lot) isTarget(f *box2d.B2Fixture) bool {
	return f.GetBody() == l.target
}
