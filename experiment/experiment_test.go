package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/parkrl/agent/policy"
	"github.com/samuelfneumann/parkrl/environment/box2d/carpark"
	"github.com/samuelfneumann/parkrl/environment/envconfig"
	"github.com/samuelfneumann/parkrl/experiment/trackers"
	ts "github.com/samuelfneumann/parkrl/timestep"
)

func newCarPark(t *testing.T, maxSteps int) *carpark.CarPark {
	t.Helper()
	c, err := envconfig.NewConfig(envconfig.CarPark)
	if err != nil {
		t.Fatalf("newConfig: %v", err)
	}
	c.Parking.MaxSteps = maxSteps

	cp, _, err := c.Create(1, zerolog.Nop())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return cp
}

// recorder is a Policy that idles and records the transitions it
// observes
type recorder struct {
	firsts int
	steps  int
	lasts  int
}

func (r *recorder) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(3, []float64{0, -1, -1})
}

func (r *recorder) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		return errors.New("observeFirst: not a first timestep")
	}
	r.firsts++
	return nil
}

func (r *recorder) Observe(_ mat.Vector, t ts.TimeStep) error {
	r.steps++
	if t.Last() {
		r.lasts++
	}
	return nil
}

type counter struct {
	steps, saves int
}

func (c *counter) Track(ts.TimeStep) error {
	c.steps++
	return nil
}

func (c *counter) Save() error {
	c.saves++
	return nil
}

func TestOnlineRun(t *testing.T) {
	cp := newCarPark(t, 10)
	rec := &recorder{}
	count := &counter{}
	lengths := trackers.NewEpisodeLength("")

	exp := NewOnline(cp, rec, 35, count)
	exp.Register(lengths)

	if err := exp.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if exp.Steps() != 35 {
		t.Errorf("want(35) have(%v) steps", exp.Steps())
	}

	// An idle car is truncated by the step limit every 10 steps
	if exp.Episodes() != 4 || rec.firsts != 4 {
		t.Errorf("want(4) have(%v, %v) episodes", exp.Episodes(),
			rec.firsts)
	}
	if rec.steps != 35 || rec.lasts != 3 {
		t.Errorf("want(35 steps, 3 lasts) have(%v, %v)", rec.steps,
			rec.lasts)
	}
	if count.steps != 35+4 {
		t.Errorf("want(%v) have(%v) tracked", 35+4, count.steps)
	}
	for i, l := range lengths.Lengths() {
		if l != 10 {
			t.Errorf("episode %v: want(10) have(%v) length", i, l)
		}
	}
}

func TestOnlineCancel(t *testing.T) {
	cp := newCarPark(t, 0)
	exp := NewOnline(cp, &recorder{}, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := exp.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("want(%v) have(%v)", context.Canceled, err)
	}
	if exp.Steps() != 0 {
		t.Errorf("want(0) have(%v) steps", exp.Steps())
	}
}

type failing struct{}

func (failing) Track(ts.TimeStep) error { return errors.New("full") }
func (failing) Save() error { return errors.New("full") }

func TestOnlineTrackerErrors(t *testing.T) {
	cp := newCarPark(t, 0)
	exp := NewOnline(cp, &recorder{}, 10, failing{}, &counter{})

	if err := exp.Run(context.Background()); err == nil {
		t.Error("want error from tracker")
	}
	if err := exp.Save(); err == nil {
		t.Error("want error from save")
	}
}

func TestCreateExp(t *testing.T) {
	cp := newCarPark(t, 20)

	c := Config{
		Type:     OnlineExp,
		MaxSteps: 50,
		Seed:     3,
		Policy:   policy.Config{Type: policy.RandomType},
	}
	exp, err := c.CreateExp(cp, zerolog.Nop())
	if err != nil {
		t.Fatalf("createExp: %v", err)
	}
	ret := trackers.NewReturn("")
	exp.Register(ret)

	if err := exp.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(ret.Returns()) == 0 {
		t.Error("want at least one finished episode")
	}

	c.Type = "Offline"
	if _, err := c.CreateExp(cp, zerolog.Nop()); err == nil {
		t.Error("want error for unknown experiment type")
	}

	c.Type = OnlineExp
	c.Policy.Type = "Learned"
	if _, err := c.CreateExp(cp, zerolog.Nop()); err == nil {
		t.Error("want error for unknown policy type")
	}
}
