package storage

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/samuelfneumann/parkrl/timestep"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Memory, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndReturns(t *testing.T) {
	s := newStore(t)

	episodes := []struct {
		ret    float64
		length int
		reason timestep.EndType
	}{
		{-100, 1, timestep.OutOfBounds},
		{103.5, 40, timestep.Success},
		{-4, 500, timestep.StepLimit},
	}
	for i, ep := range episodes {
		if err := s.Record("a", i, ep.ret, ep.length, ep.reason); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := s.Record("b", 0, 7, 3, timestep.Success); err != nil {
		t.Fatalf("record: %v", err)
	}

	returns, err := s.Returns("a")
	if err != nil {
		t.Fatalf("returns: %v", err)
	}
	if len(returns) != len(episodes) {
		t.Fatalf("want(%v) have(%v) returns", len(episodes), len(returns))
	}
	for i := range episodes {
		if returns[i] != episodes[i].ret {
			t.Errorf("return %v: want(%v) have(%v)", i, episodes[i].ret,
				returns[i])
		}
	}

	stored, err := s.Episodes("a")
	if err != nil {
		t.Fatalf("episodes: %v", err)
	}
	if stored[1].Reason != "Success" || stored[1].Length != 40 {
		t.Errorf("want(Success, 40) have(%v, %v)", stored[1].Reason,
			stored[1].Length)
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 2 || runs[0] != "a" || runs[1] != "b" {
		t.Errorf("want([a b]) have(%v)", runs)
	}
}

func TestReasonCounts(t *testing.T) {
	s := newStore(t)

	reasons := []timestep.EndType{
		timestep.WallCollision,
		timestep.Success,
		timestep.WallCollision,
		timestep.VehicleCollision,
		timestep.WallCollision,
		timestep.Success,
	}
	for i, r := range reasons {
		if err := s.Record("run", i, 0, 1, r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	counts, err := s.ReasonCounts("run")
	if err != nil {
		t.Fatalf("reasonCounts: %v", err)
	}

	want := []ReasonCount{
		{"WallCollision", 3},
		{"Success", 2},
		{"VehicleCollision", 1},
	}
	if len(counts) != len(want) {
		t.Fatalf("want(%v) have(%v)", want, counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("count %v: want(%v) have(%v)", i, want[i], counts[i])
		}
	}
}

func TestFilterByReason(t *testing.T) {
	s := newStore(t)

	reasons := []timestep.EndType{
		timestep.Success,
		timestep.WallCollision,
		timestep.StepLimit,
		timestep.Success,
	}
	for i, r := range reasons {
		if err := s.Record("run", i, float64(i), 1, r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	returns, err := s.Returns("run", timestep.Success, timestep.StepLimit)
	if err != nil {
		t.Fatalf("returns: %v", err)
	}
	if want := []float64{0, 2, 3}; len(returns) != len(want) ||
		returns[0] != want[0] || returns[1] != want[1] ||
		returns[2] != want[2] {
		t.Errorf("returns: want(%v) have(%v)", want, returns)
	}

	counts, err := s.ReasonCounts("run", timestep.WallCollision)
	if err != nil {
		t.Fatalf("reasonCounts: %v", err)
	}
	if len(counts) != 1 || counts[0] != (ReasonCount{"WallCollision", 1}) {
		t.Errorf("reasonCounts: want([{WallCollision 1}]) have(%v)", counts)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episodes.db")

	s, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Record("run", 0, 1.5, 2, timestep.Success); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	returns, err := s.Returns("run")
	if err != nil {
		t.Fatalf("returns: %v", err)
	}
	if len(returns) != 1 || returns[0] != 1.5 {
		t.Errorf("want([1.5]) have(%v)", returns)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open("", zerolog.Nop()); err == nil {
		t.Error("want error for empty path")
	}
}
