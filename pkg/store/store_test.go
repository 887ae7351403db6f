package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/vanderheijden86/hypercut/pkg/partition"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(cutset int) *partition.Result {
	return &partition.Result{
		A:      []int{0, 2},
		B:      []int{1, 3},
		Cutset: cutset,
		Passes: 3,
		Ratio:  0.5,
		Cells:  4,
		Nets:   4,
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	id, err := s.SaveRun("graph.edges", sampleResult(2))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	run, err := s.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Input != "graph.edges" || run.Cutset != 2 || run.Passes != 3 {
		t.Fatalf("round trip mismatch: %+v", run)
	}
	if len(run.A) != 2 || run.A[0] != 0 || run.A[1] != 2 {
		t.Fatalf("block A = %v, want [0 2]", run.A)
	}
	if len(run.B) != 2 || run.B[0] != 1 || run.B[1] != 3 {
		t.Fatalf("block B = %v, want [1 3]", run.B)
	}
	if time.Since(run.CreatedAt) > time.Minute {
		t.Errorf("created_at %v is not recent", run.CreatedAt)
	}
}

func TestGetRunMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetRun(42); err == nil {
		t.Fatal("want error for missing run")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 3; i++ {
		if _, err := s.SaveRun("g", sampleResult(i)); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	// Newest first: the last save (cutset 2) leads.
	if runs[0].Cutset != 2 || runs[2].Cutset != 0 {
		t.Fatalf("runs not newest-first: %+v", runs)
	}
}

func TestListRunsLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		if _, err := s.SaveRun("g", sampleResult(i)); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("want error for empty path")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.SaveRun("g", sampleResult(1)); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	runs, err := s2.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs after reopen, want 1", len(runs))
	}
}
