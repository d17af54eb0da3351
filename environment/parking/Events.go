package parking

// ContactPhase is the phase of a collision reported by the physics
// engine
type ContactPhase int

const (
	// ContactEnter is reported on the tick a contact begins
	ContactEnter ContactPhase = iota

	// ContactStay is reported on every tick a contact persists
	ContactStay
)

// Tag identifies the kind of obstacle a contact was made with
type Tag int

const (
	Untagged Tag = iota
	Wall
	Kerb
	Vehicle
)

func (t Tag) String() string {
	switch t {
	case Wall:
		return "Wall"
	case Kerb:
		return "Kerb"
	case Vehicle:
		return "Vehicle"
	default:
		return "Untagged"
	}
}

// Contact is a collision event between the agent and an obstacle
type Contact struct {
	Phase ContactPhase
	Tag   Tag

	// OtherSpeed is the speed of the obstacle, if it moves
	OtherSpeed float64
}

// TriggerPhase is the phase of a target zone trigger event
type TriggerPhase int

const (
	TriggerEnter TriggerPhase = iota
	TriggerExit
)

// Trigger reports the agent entering or leaving the target zone
type Trigger struct {
	Phase TriggerPhase
}
