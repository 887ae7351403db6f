package partition

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

// TestRapidPartitionInvariants checks, over random graphs, the properties
// that must hold for every run: the two blocks exactly cover the vertex
// set, the reported cutset matches a from-scratch recount, the final
// partition satisfies the terminal balance criterion, and identical runs
// agree.
func TestRapidPartitionInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(rt, "n")
		var edges [][2]int
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rapid.Bool().Draw(rt, fmt.Sprintf("e%d_%d", i, j)) {
					edges = append(edges, [2]int{i, j})
				}
			}
		}
		m := matrixFromEdges(n, edges)

		res, err := Bipartition(m, nil)
		if err != nil {
			rt.Fatalf("Bipartition: %v", err)
		}

		// Exact cover, no duplicates.
		seen := make(map[int]int, n)
		for _, id := range res.A {
			seen[id]++
		}
		for _, id := range res.B {
			seen[id]++
		}
		if len(seen) != n {
			rt.Fatalf("blocks cover %d distinct ids, want %d", len(seen), n)
		}
		for id, count := range seen {
			if count != 1 {
				rt.Fatalf("id %d appears %d times across blocks", id, count)
			}
			if id < 0 || id >= n {
				rt.Fatalf("id %d outside [0,%d)", id, n)
			}
		}

		// Reported cutset is a true recount.
		if got := recountCut(edges, res.A, res.B); got != res.Cutset {
			rt.Fatalf("reported cutset %d, recount %d", res.Cutset, got)
		}

		// Terminal balance: rW-1 <= |A| <= rW+1.
		w := float64(n)
		fa := float64(len(res.A))
		if fa < res.Ratio*w-1 || fa > res.Ratio*w+1 {
			rt.Fatalf("final sizes (%d,%d) violate balance", len(res.A), len(res.B))
		}

		// Determinism.
		res2, err := Bipartition(m, nil)
		if err != nil {
			rt.Fatalf("second Bipartition: %v", err)
		}
		if res2.Cutset != res.Cutset || !equalInts(res.A, res2.A) || !equalInts(res.B, res2.B) {
			rt.Fatalf("identical runs disagree: %+v vs %+v", res, res2)
		}
	})
}

// TestRapidGainMaintenance cross-checks the incremental gain updates
// against from-scratch recomputation at every step of a pass on random
// graphs.
func TestRapidGainMaintenance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 10).Draw(rt, "n")
		var edges [][2]int
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rapid.Bool().Draw(rt, fmt.Sprintf("e%d_%d", i, j)) {
					edges = append(edges, [2]int{i, j})
				}
			}
		}

		e := NewEngine()
		if err := e.LoadMatrix(matrixFromEdges(n, edges), nil); err != nil {
			rt.Fatalf("LoadMatrix: %v", err)
		}
		e.initialPass()

		e.snap = nil
		e.unlockAll()
		e.computeInitialGains()
		e.blockA.initialize()
		e.blockB.initialize()

		for c := e.baseCell(); c != nil; c = e.baseCell() {
			before := e.cutset
			gain := c.gain
			c.block.moveCell(c)
			if e.cutset != before-gain {
				rt.Fatalf("cell %d: gain %d but cutset went %d -> %d", c.id, gain, before, e.cutset)
			}
			for _, cc := range e.order {
				if !cc.locked && cc.gain != expectedGain(cc) {
					rt.Fatalf("cell %d: incremental gain %d, from-scratch %d", cc.id, cc.gain, expectedGain(cc))
				}
			}
		}
	})
}
