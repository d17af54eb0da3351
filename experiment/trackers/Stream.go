package trackers

import (
	"github.com/samuelfneumann/parkrl/environment/parking"
	"github.com/samuelfneumann/parkrl/telemetry"
	ts "github.com/samuelfneumann/parkrl/timestep"
)

// Publisher sends telemetry frames to observers of an experiment
type Publisher interface {
	Publish(telemetry.Frame) error
}

// Poser reports the pose of the driven car
type Poser interface {
	Pose() parking.Pose
}

// Stream publishes a telemetry frame for every timestep of an
// experiment. The speed of the car is read from the first element of
// the observation.
type Stream struct {
	run       string
	publisher Publisher
	car       Poser
	episode   int
	ret       float64
}

// NewStream returns a new Stream Tracker publishing the timesteps of
// run to p, together with the pose of car
func NewStream(run string, p Publisher, car Poser) *Stream {
	return &Stream{run: run, publisher: p, car: car}
}

// Track publishes the timestep t
func (s *Stream) Track(t ts.TimeStep) error {
	if t.First() {
		s.ret = 0
	}
	s.ret += t.Reward

	pose := s.car.Pose()
	frame := telemetry.Frame{
		Run:     s.run,
		Episode: s.episode,
		Step:    t.Number,
		Reward:  t.Reward,
		Return:  s.ret,
		Last:    t.Last(),
		X:       pose.Position.X,
		Z:       pose.Position.Z,
		Yaw:     pose.Yaw,
	}
	if t.Observation != nil && t.Observation.Len() > 0 {
		frame.Speed = t.Observation.AtVec(0)
	}
	if t.Last() {
		frame.End = t.EndType.String()
		s.episode++
	}

	return s.publisher.Publish(frame)
}

// Save implements the Tracker interface
func (s *Stream) Save() error {
	return nil
}
