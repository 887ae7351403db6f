package partition

import (
	"fmt"
	"strings"
	"testing"
)

// dumpState renders the complete mutable state of an engine into a
// deterministic string, for comparing snapshots.
func dumpState(e *Engine) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "cutset=%d\n", e.cutset)
	for _, c := range e.order {
		fmt.Fprintf(&sb, "cell %d: gain=%d block=%s locked=%v slot=%d\n",
			c.id, c.gain, c.block.side, c.locked, c.slot)
	}
	ids := func(cells []*Cell) []int {
		out := make([]int, len(cells))
		for i, c := range cells {
			out[i] = c.id
		}
		return out
	}
	for _, n := range e.nets {
		fmt.Fprintf(&sb, "net %d: cut=%v", n.id, n.cut)
		for _, s := range []Side{SideA, SideB} {
			side := n.side(s)
			fmt.Fprintf(&sb, " %s[count=%d locked=%d free=%d cells=%v]",
				s, side.count, side.locked, side.free, ids(side.cells))
		}
		sb.WriteByte('\n')
	}
	for _, b := range []*Block{e.blockA, e.blockB} {
		fmt.Fprintf(&sb, "block %s: size=%d cells=%v maxGain=%d free=%v buckets=",
			b.side, b.size, ids(b.cells), b.buckets.maxGain, ids(b.buckets.free))
		for i, bucket := range b.buckets.buckets {
			fmt.Fprintf(&sb, "[%d:%v]", i-b.buckets.pmax, ids(bucket))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func loadedEngine(t *testing.T) *Engine {
	t.Helper()
	edges := [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {3, 5}}
	e := NewEngine()
	if err := e.LoadMatrix(matrixFromEdges(6, edges), nil); err != nil {
		t.Fatalf("LoadMatrix: %v", err)
	}
	e.initialPass()
	return e
}

func TestSnapshotLoadIsIdempotent(t *testing.T) {
	e := loadedEngine(t)
	before := dumpState(e)
	e.takeSnapshot()
	e.loadSnapshot()
	if after := dumpState(e); after != before {
		t.Fatalf("take+load changed state:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestSnapshotRestoresAfterMutation(t *testing.T) {
	e := loadedEngine(t)
	e.snap = nil
	e.unlockAll()
	e.computeInitialGains()
	e.blockA.initialize()
	e.blockB.initialize()

	// Move once, snapshot, then keep moving; load must restore the
	// snapshotted point exactly.
	c := e.baseCell()
	if c == nil {
		t.Fatal("no base cell")
	}
	c.block.moveCell(c)
	e.takeSnapshot()
	want := dumpState(e)

	for i := 0; i < 3; i++ {
		c := e.baseCell()
		if c == nil {
			break
		}
		c.block.moveCell(c)
	}
	if dumpState(e) == want {
		t.Fatal("mutation after snapshot did not change state; test is vacuous")
	}

	e.loadSnapshot()
	if got := dumpState(e); got != want {
		t.Fatalf("loadSnapshot mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
	auditEngine(t, e)
}

func TestSnapshotSurvivesDoubleLoad(t *testing.T) {
	e := loadedEngine(t)
	e.snap = nil
	e.unlockAll()
	e.computeInitialGains()
	e.blockA.initialize()
	e.blockB.initialize()

	c := e.baseCell()
	if c == nil {
		t.Fatal("no base cell")
	}
	c.block.moveCell(c)
	e.takeSnapshot()
	want := dumpState(e)

	// Load, mutate, load again: the second load must still see the
	// original snapshot, not the mutations.
	e.loadSnapshot()
	if c := e.baseCell(); c != nil {
		c.block.moveCell(c)
	}
	e.loadSnapshot()
	if got := dumpState(e); got != want {
		t.Fatalf("second loadSnapshot mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestLoadSnapshotWithoutTakePanics(t *testing.T) {
	e := loadedEngine(t)
	defer func() {
		if recover() == nil {
			t.Fatal("loadSnapshot without takeSnapshot should panic")
		}
	}()
	e.loadSnapshot()
}
