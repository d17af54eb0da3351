package carpark

import (
	"math"

	"github.com/ByteArena/box2d"
)

// rays is a ray cast distance sensor implementing parking.Perception.
// Rays are spread evenly around the car, starting straight ahead and
// proceeding counter-clockwise. Each observation is the distance to
// the nearest solid obstacle as a fraction of the ray length, so that
// 1 means nothing was hit. Sensors, such as the target zone and kerbs,
// are invisible to the rays.
type rays struct {
	world  *box2d.B2World
	car    *car
	count  int
	length float64
}

func newRays(world *box2d.B2World, c *car, count int, length float64) *rays {
	return &rays{world: world, car: c, count: count, length: length}
}

// Size returns the number of rays
func (r *rays) Size() int {
	return r.count
}

// Observations casts each ray and returns the fractional distances
func (r *rays) Observations() []float64 {
	origin := r.car.body.GetPosition()
	heading := r.car.body.GetAngle()

	obs := make([]float64, r.count)
	for i := range obs {
		angle := heading + 2*math.Pi*float64(i)/float64(r.count)
		end := box2d.MakeB2Vec2(
			origin.X-r.length*math.Sin(angle),
			origin.Y+r.length*math.Cos(angle),
		)

		nearest := 1.0
		callback := func(fixture *box2d.B2Fixture, point, normal box2d.B2Vec2,
			fraction float64) float64 {
			if fixture.IsSensor() || fixture.GetBody() == r.car.body {
				// Ignore this fixture and continue
				return -1
			}
			nearest = math.Min(nearest, fraction)

			// Clip the ray to this hit
			return fraction
		}
		r.world.RayCast(callback, origin, end)
		obs[i] = nearest
	}
	return obs
}
