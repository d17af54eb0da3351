package trackers

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/parkrl/environment/parking"
	"github.com/samuelfneumann/parkrl/telemetry"
	ts "github.com/samuelfneumann/parkrl/timestep"
	"github.com/samuelfneumann/parkrl/utils/progressbar"
)

// episode returns the timesteps of an episode with the given rewards
// after the first timestep, ending for reason end
func episode(end ts.EndType, rewards ...float64) []ts.TimeStep {
	obs := mat.NewVecDense(2, []float64{1.5, 0.5})
	steps := []ts.TimeStep{ts.New(ts.First, 0, obs, 0)}
	for i, r := range rewards {
		step := ts.New(ts.Mid, r, obs, i+1)
		if i == len(rewards)-1 {
			step.SetEnd(end)
		}
		steps = append(steps, step)
	}
	return steps
}

func track(t *testing.T, tracker Tracker, steps ...[]ts.TimeStep) {
	t.Helper()
	for _, ep := range steps {
		for _, step := range ep {
			if err := tracker.Track(step); err != nil {
				t.Fatalf("track: %v", err)
			}
		}
	}
}

func TestReturn(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.bin")
	r := NewReturn(filename)

	track(t, r,
		episode(ts.Success, 1, 2, 102),
		episode(ts.OutOfBounds, -100),
	)

	// An unfinished episode is not saved
	if err := r.Track(ts.New(ts.First, 0, nil, 0)); err != nil {
		t.Fatalf("track: %v", err)
	}

	if err := r.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := LoadData(filename)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []float64{105, -100}
	if len(data) != len(want) {
		t.Fatalf("want(%v) have(%v)", want, data)
	}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("return %v: want(%v) have(%v)", i, want[i], data[i])
		}
	}
}

func TestReturnNonSequential(t *testing.T) {
	r := NewReturn("")
	if err := r.Track(ts.New(ts.First, 0, nil, 0)); err != nil {
		t.Fatalf("track: %v", err)
	}
	if err := r.Track(ts.New(ts.Mid, 0, nil, 2)); err == nil {
		t.Error("want error for non-sequential timesteps")
	}
}

func TestEpisodeLength(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lengths.bin")
	e := NewEpisodeLength(filename)

	track(t, e,
		episode(ts.StepLimit, 0, 0, 0, 0),
		episode(ts.WallCollision, -1),
	)
	if err := e.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := LoadLengths(filename)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data) != 2 || data[0] != 4 || data[1] != 1 {
		t.Errorf("want([4 1]) have(%v)", data)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := LoadData(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("want error loading a missing file")
	}
}

type record struct {
	run    string
	number int
	ret    float64
	length int
	reason ts.EndType
}

type fakeRecorder struct {
	records []record
}

func (f *fakeRecorder) Record(run string, number int, ret float64,
	length int, reason ts.EndType) error {
	f.records = append(f.records, record{run, number, ret, length, reason})
	return nil
}

func TestOutcome(t *testing.T) {
	rec := &fakeRecorder{}
	o := NewOutcome("run", rec)

	track(t, o,
		episode(ts.VehicleCollision, 1, -50),
		episode(ts.Success, 0.5, 0.5, 0.5, 100),
	)

	want := []record{
		{"run", 0, -49, 2, ts.VehicleCollision},
		{"run", 1, 101.5, 4, ts.Success},
	}
	if len(rec.records) != len(want) {
		t.Fatalf("want(%v) have(%v)", want, rec.records)
	}
	for i := range want {
		if rec.records[i] != want[i] {
			t.Errorf("record %v: want(%v) have(%v)", i, want[i],
				rec.records[i])
		}
	}
}

func TestPlot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.png")
	p := NewPlot(filename, "Returns")

	track(t, p,
		episode(ts.Success, 1, 100),
		episode(ts.OutOfBounds, -100),
		episode(ts.StepLimit, 3, 4),
	)
	if err := p.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(filename)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("want non-empty plot")
	}
}

type fakePublisher struct {
	frames []telemetry.Frame
}

func (f *fakePublisher) Publish(frame telemetry.Frame) error {
	f.frames = append(f.frames, frame)
	return nil
}

type fixedPose parking.Pose

func (f fixedPose) Pose() parking.Pose { return parking.Pose(f) }

func TestStream(t *testing.T) {
	pub := &fakePublisher{}
	car := fixedPose{Position: r3.Vec{X: 1, Y: 0, Z: 2}, Yaw: 0.25}
	s := NewStream("run", pub, car)

	track(t, s,
		episode(ts.Success, 2, 3),
		episode(ts.OutOfBounds, -100),
	)

	if len(pub.frames) != 5 {
		t.Fatalf("want(5) have(%v) frames", len(pub.frames))
	}

	last := pub.frames[2]
	if !last.Last || last.End != "Success" || last.Return != 5 {
		t.Errorf("want(last Success 5) have(%+v)", last)
	}
	if last.X != 1 || last.Z != 2 || last.Yaw != 0.25 || last.Speed != 1.5 {
		t.Errorf("want pose (1, 2, 0.25) speed 1.5, have(%+v)", last)
	}

	second := pub.frames[4]
	if second.Episode != 1 || second.Return != -100 {
		t.Errorf("want(episode 1 return -100) have(%+v)", second)
	}
	if pub.frames[3].End != "" {
		t.Errorf("want no end on first step, have %q", pub.frames[3].End)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	bar := progressbar.New(&buf, 10, 4)
	p := NewProgress(bar, 2)

	track(t, p, episode(ts.Success, 1, 2), episode(ts.OutOfBounds, -100))

	if f := bar.Fraction(); f != 0.75 {
		t.Errorf("want(0.75) have(%v)", f)
	}
	if n := strings.Count(buf.String(), "elapsed"); n != 1 {
		t.Errorf("want(1) have(%v) displays", n)
	}

	if err := p.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("want newline after save")
	}
}
