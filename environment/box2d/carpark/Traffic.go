package carpark

import (
	"math"

	"github.com/ByteArena/box2d"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/parkrl/environment/parking"
)

// trafficCar is a kinematic car driving along the traffic lane
type trafficCar struct {
	body   *box2d.B2Body
	spawnX float64
	speed  float64
}

// traffic spawns cars at the start of the traffic lane and removes
// them once they have driven the length of the lane. Traffic cars are
// tagged as vehicles, so touching one ends the episode.
type traffic struct {
	world   *box2d.B2World
	config  Traffic
	vehicle Vehicle

	cars    []*trafficCar
	elapsed float64
	next    float64

	interval distuv.Uniform
	speed    distuv.Uniform

	logger zerolog.Logger
}

func newTraffic(world *box2d.B2World, t Traffic, v Vehicle, seed uint64,
	logger zerolog.Logger) *traffic {
	src := rand.NewSource(seed)

	tr := &traffic{
		world:   world,
		config:  t,
		vehicle: v,
		interval: distuv.Uniform{
			Min: t.Interval,
			Max: t.Interval + t.IntervalVariation,
			Src: src,
		},
		speed: distuv.Uniform{
			Min: t.Speed - t.SpeedVariation,
			Max: t.Speed + t.SpeedVariation,
			Src: src,
		},
		logger: logger,
	}
	tr.next = tr.interval.Rand()
	return tr
}

// Update advances the spawn timer by dt seconds, spawning a car when
// it elapses, and removes at most one car that has left the lane
func (t *traffic) Update(dt float64) {
	t.elapsed += dt
	if t.elapsed >= t.next {
		t.spawn()
		t.elapsed = 0
		t.next = t.interval.Rand()
	}

	for i, c := range t.cars {
		if math.Abs(c.body.GetPosition().X-c.spawnX) > t.config.TravelRange {
			t.world.DestroyBody(c.body)
			t.cars = append(t.cars[:i], t.cars[i+1:]...)
			break
		}
	}
}

func (t *traffic) spawn() {
	def := box2d.MakeB2BodyDef()
	def.Type = 1 // Kinematic body
	def.Position = box2d.MakeB2Vec2(t.config.SpawnX, t.config.LaneZ)

	// Cars drive toward +x
	def.Angle = -math.Pi / 2
	body := t.world.CreateBody(&def)
	body.SetUserData(parking.Vehicle)

	shape := box2d.NewB2PolygonShape()
	shape.SetAsBox(t.vehicle.HalfWidth, t.vehicle.HalfLength)
	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.Density = t.vehicle.Density
	body.CreateFixtureFromDef(&fix)

	speed := t.speed.Rand()
	body.SetLinearVelocity(box2d.MakeB2Vec2(speed, 0))

	t.cars = append(t.cars, &trafficCar{
		body:   body,
		spawnX: t.config.SpawnX,
		speed:  speed,
	})
	t.logger.Debug().Float64("speed", speed).Int("cars", len(t.cars)).
		Msg("traffic car spawned")
}

// Clear removes all traffic cars and restarts the spawn timer
func (t *traffic) Clear() {
	for _, c := range t.cars {
		t.world.DestroyBody(c.body)
	}
	t.cars = t.cars[:0]
	t.elapsed = 0
	t.next = t.interval.Rand()
}

// Len returns the number of traffic cars on the lane
func (t *traffic) Len() int {
	return len(t.cars)
}
