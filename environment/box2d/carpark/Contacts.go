package carpark

import (
	"github.com/ByteArena/box2d"

	"github.com/samuelfneumann/parkrl/environment/parking"
)

// contactListener records the car's collisions and target zone events
// while the world steps. The world must not be changed during a step,
// so events are queued and dispatched to the agent after the step.
type contactListener struct {
	car *car
	lot *lot

	contacts []impact
	triggers []parking.Trigger

	// Contacts begun during the current tick report ContactEnter, not
	// ContactStay
	begun map[box2d.B2ContactInterface]bool

	// speed is the car's speed before the current world step. Contacts
	// keep the speed they were made at until they end.
	speed   float64
	impacts map[box2d.B2ContactInterface]float64
}

// impact is a contact together with the car's speed when it was made
type impact struct {
	contact parking.Contact
	speed   float64
}

func newContactListener(c *car, l *lot) *contactListener {
	return &contactListener{
		car:     c,
		lot:     l,
		begun:   make(map[box2d.B2ContactInterface]bool),
		impacts: make(map[box2d.B2ContactInterface]float64),
	}
}

// beforeStep records the car's speed ahead of a world step
func (c *contactListener) beforeStep() {
	c.speed = c.car.CurrentSpeed()
}

// other returns the fixture the car touches in contact, or nil if the
// car is not part of the contact
func (c *contactListener) other(contact box2d.B2ContactInterface) *box2d.B2Fixture {
	a, b := contact.GetFixtureA(), contact.GetFixtureB()
	switch {
	case a.GetBody() == c.car.body:
		return b
	case b.GetBody() == c.car.body:
		return a
	}
	return nil
}

func (c *contactListener) BeginContact(contact box2d.B2ContactInterface) {
	other := c.other(contact)
	if other == nil {
		return
	}

	if c.lot.isTarget(other) {
		c.triggers = append(c.triggers,
			parking.Trigger{Phase: parking.TriggerEnter})
		return
	}

	c.begun[contact] = true
	c.impacts[contact] = c.speed
	c.contacts = append(c.contacts, impact{
		contact: newContact(parking.ContactEnter, other),
		speed:   c.speed,
	})
}

func (c *contactListener) EndContact(contact box2d.B2ContactInterface) {
	delete(c.impacts, contact)

	other := c.other(contact)
	if other != nil && c.lot.isTarget(other) {
		c.triggers = append(c.triggers,
			parking.Trigger{Phase: parking.TriggerExit})
	}
}

func (c *contactListener) PreSolve(contact box2d.B2ContactInterface,
	oldManifold box2d.B2Manifold) {
}

func (c *contactListener) PostSolve(contact box2d.B2ContactInterface,
	impulse *box2d.B2ContactImpulse) {
}

// collectStays queues a ContactStay for every obstacle the car still
// touches after a tick, except contacts that began during the tick.
// Each stay reports the speed its contact was made at.
func (c *contactListener) collectStays(world *box2d.B2World) {
	for contact := world.GetContactList(); contact != nil; contact = contact.GetNext() {
		if !contact.IsTouching() || c.begun[contact] {
			continue
		}
		other := c.other(contact)
		if other == nil || c.lot.isTarget(other) {
			continue
		}
		speed, ok := c.impacts[contact]
		if !ok {
			speed = c.car.CurrentSpeed()
		}
		c.contacts = append(c.contacts, impact{
			contact: newContact(parking.ContactStay, other),
			speed:   speed,
		})
	}
}

// touchingTarget returns whether the car overlaps the target zone as
// of the last world step
func (c *contactListener) touchingTarget(world *box2d.B2World) bool {
	for contact := world.GetContactList(); contact != nil; contact = contact.GetNext() {
		other := c.other(contact)
		if contact.IsTouching() && other != nil && c.lot.isTarget(other) {
			return true
		}
	}
	return false
}

// dispatch sends the queued events to agent and clears the queues.
// Target zone events are sent first so that collisions are judged with
// an up to date target membership.
func (c *contactListener) dispatch(agent *parking.Agent) {
	for _, t := range c.triggers {
		agent.OnTrigger(t)
	}
	for _, i := range c.contacts {
		agent.OnImpact(i.contact, i.speed)
	}
	c.clear()
}

// reset forgets all contacts, for the start of an episode
func (c *contactListener) reset() {
	c.clear()
	for contact := range c.impacts {
		delete(c.impacts, contact)
	}
	c.beforeStep()
}

func (c *contactListener) clear() {
	c.contacts = c.contacts[:0]
	c.triggers = c.triggers[:0]
	for contact := range c.begun {
		delete(c.begun, contact)
	}
}

// newContact builds a contact event with the obstacle owning fixture
func newContact(phase parking.ContactPhase, fixture *box2d.B2Fixture) parking.Contact {
	body := fixture.GetBody()
	tag, _ := body.GetUserData().(parking.Tag)

	velocity := body.GetLinearVelocity()
	return parking.Contact{
		Phase:      phase,
		Tag:        tag,
		OtherSpeed: velocity.Length(),
	}
}
