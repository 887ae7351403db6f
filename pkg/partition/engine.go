// Package partition implements two-way hypergraph min-cut partitioning
// with the Fiduccia–Mattheyses heuristic.
//
// The engine ingests a symmetric 0/1 adjacency matrix, places every cell
// in block A, rebalances, and then runs FM passes: each pass moves every
// admissible cell at most once, tracks the best intermediate cut, and
// rolls back to it. Passes repeat until two consecutive passes end with
// the same cutset.
//
// The engine is single-threaded; one Engine owns all of its state and is
// not safe for concurrent use. Run independent engines for independent
// inputs (see pkg/batch).
package partition

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/vanderheijden86/hypercut/pkg/debug"
	"github.com/vanderheijden86/hypercut/pkg/metrics"
)

// DefaultRatio is the target fraction of cells in block A.
const DefaultRatio = 0.5

// PassStats summarizes one completed FM pass.
type PassStats struct {
	Pass   int `json:"pass"`
	Cutset int `json:"cutset"`
	Moves  int `json:"moves"`
}

// Engine is a single-run FM partitioner. Zero value is not usable; call
// NewEngine.
type Engine struct {
	// Ratio is the balance target r in (0,1). Set before LoadMatrix.
	Ratio float64
	// OnPass, when non-nil, is invoked after every completed pass.
	OnPass func(PassStats)

	cells  map[int]*Cell
	order  []*Cell // insertion order; all deterministic iteration goes through this
	nets   []*Net
	blockA *Block
	blockB *Block
	pmax   int
	cutset int
	snap   *snapshot
	passes int
}

// NewEngine returns an engine with the default balance ratio.
func NewEngine() *Engine {
	return &Engine{
		Ratio: DefaultRatio,
		cells: make(map[int]*Cell),
	}
}

// Cutset returns the current number of cut nets.
func (e *Engine) Cutset() int { return e.cutset }

// Passes returns the number of completed FM passes (excluding the initial
// balancing pass).
func (e *Engine) Passes() int { return e.passes }

// Pmax returns the maximum pin count over all cells.
func (e *Engine) Pmax() int { return e.pmax }

// BlockA and BlockB expose the two partition halves (read-only use).
func (e *Engine) BlockA() *Block { return e.blockA }
func (e *Engine) BlockB() *Block { return e.blockB }

func (e *Engine) complement(b *Block) *Block {
	if b == e.blockA {
		return e.blockB
	}
	return e.blockA
}

// LoadMatrix ingests the strict upper triangle of an N×N 0/1 adjacency
// matrix. When selection is non-nil only those row/column indices are
// considered; cell ids are always the original row indices. The lower
// triangle is ignored. Every selected index gets a cell, including
// isolated vertices with no incident edge.
func (e *Engine) LoadMatrix(m mat.Matrix, selection []int) error {
	if e.blockA != nil {
		return fmt.Errorf("partition: LoadMatrix called twice on one engine")
	}
	if e.Ratio <= 0 || e.Ratio >= 1 {
		return fmt.Errorf("partition: ratio %v outside (0,1)", e.Ratio)
	}
	rows, cols := m.Dims()
	if rows != cols {
		return fmt.Errorf("partition: matrix is %dx%d, want square", rows, cols)
	}

	sel := selection
	if sel == nil {
		sel = make([]int, rows)
		for i := range sel {
			sel[i] = i
		}
	}
	seen := make(map[int]bool, len(sel))
	for _, idx := range sel {
		if idx < 0 || idx >= rows {
			return fmt.Errorf("partition: selection index %d outside matrix of size %d", idx, rows)
		}
		if seen[idx] {
			return fmt.Errorf("partition: duplicate selection index %d", idx)
		}
		seen[idx] = true
	}

	// Cells first, in selection order, so isolated vertices participate.
	for _, idx := range sel {
		e.addCell(idx)
	}

	netID := 0
	for i := 0; i < len(sel); i++ {
		for j := i + 1; j < len(sel); j++ {
			switch v := m.At(sel[i], sel[j]); v {
			case 0:
			case 1:
				e.addPair(sel[i], sel[j], netID)
				netID++
			default:
				return fmt.Errorf("partition: matrix entry (%d,%d) = %v, want 0 or 1", sel[i], sel[j], v)
			}
		}
	}

	for _, c := range e.order {
		if c.pins > e.pmax {
			e.pmax = c.pins
		}
	}

	e.blockA = newBlock(SideA, e.pmax, e)
	e.blockB = newBlock(SideB, e.pmax, e)
	for _, c := range e.order {
		e.blockA.addCell(c)
	}
	e.computeInitialGains()
	e.blockA.initialize()

	debug.Log("partition: loaded %d cells, %d nets, pmax=%d", len(e.order), len(e.nets), e.pmax)
	return nil
}

func (e *Engine) addCell(id int) *Cell {
	if c, ok := e.cells[id]; ok {
		return c
	}
	c := newCell(id)
	e.cells[id] = c
	e.order = append(e.order, c)
	return c
}

func (e *Engine) addPair(i, j, netID int) {
	ci := e.addCell(i)
	cj := e.addCell(j)
	n := newNet(netID, e)
	e.nets = append(e.nets, n)

	ci.addNet(n)
	cj.addNet(n)
	n.addCell(ci)
	n.addCell(cj)
}

// computeInitialGains recomputes every cell's gain from net occupancies:
// +1 for each incident net the cell is alone on its own side of, -1 for
// each incident net with an empty opposite side. Bucketed cells are
// yanked so their positions match the fresh gains.
func (e *Engine) computeInitialGains() {
	for _, c := range e.order {
		c.gain = 0
		for _, n := range c.nets {
			if n.side(c.block.side).count == 1 {
				c.gain++
			}
			if n.side(c.block.side.Other()).count == 0 {
				c.gain--
			}
		}
		if c.slot != noSlot {
			c.yank()
		}
	}
}

// unlockAll releases every lock taken in the previous pass, restoring the
// per-net free/locked tallies.
func (e *Engine) unlockAll() {
	for _, c := range e.order {
		c.unlock()
	}
}

// initialPass moves cells A→B until the partition satisfies the terminal
// balance criterion. Ingestion leaves every cell in A, so the pass is
// strictly one-directional.
func (e *Engine) initialPass() {
	assertf(e.blockA != nil && e.blockB != nil, "initial pass before LoadMatrix")
	assertf(e.blockA.size >= e.blockB.size, "initial pass expects A to be the larger block")
	for !e.isBalanced() {
		c := e.blockA.candidateBaseCell()
		if c == nil {
			break
		}
		assertf(c.block.side == SideA, "initial pass candidate from wrong block")
		e.blockA.moveCell(c)
	}
}

// performPass runs one full FM pass: fresh gains and buckets, then moves
// base cells until none is admissible, snapshotting at every new best
// cut, and finally rolls back to the best point seen.
func (e *Engine) performPass() {
	defer metrics.Timer(metrics.Pass)()

	e.snap = nil
	e.unlockAll()
	e.computeInitialGains()
	e.blockA.initialize()
	e.blockB.initialize()

	best := math.MaxInt
	moves := 0
	for c := e.baseCell(); c != nil; c = e.baseCell() {
		c.block.moveCell(c)
		moves++
		// Only states that satisfy the terminal balance criterion qualify
		// as the pass's best point. Candidate admissibility uses the wider
		// rW±pmax window, so intermediate states may leave the terminal
		// window (or empty a block outright, a trivial cutset-0 state);
		// adopting one would hand back an unbalanced answer.
		if e.cutset < best && e.blockA.size > 0 && e.blockB.size > 0 && e.isBalanced() {
			best = e.cutset
			e.takeSnapshot()
		}
	}
	if e.snap != nil {
		e.loadSnapshot()
	}

	e.passes++
	debug.Log("partition: pass %d cutset=%d moves=%d", e.passes, e.cutset, moves)
	if e.OnPass != nil {
		e.OnPass(PassStats{Pass: e.passes, Cutset: e.cutset, Moves: moves})
	}
}

// FindMincut runs the outer FM loop and returns the cell ids of each
// block. It is an error to call it before LoadMatrix. Degenerate inputs
// (no cells) yield two empty slices without running any pass.
func (e *Engine) FindMincut() (inA, inB []int, err error) {
	if e.blockA == nil {
		return nil, nil, fmt.Errorf("partition: FindMincut called before LoadMatrix")
	}
	defer metrics.Timer(metrics.FindMincut)()

	if len(e.order) == 0 {
		return []int{}, []int{}, nil
	}

	e.initialPass()
	prev := math.MaxInt
	e.performPass()
	// Convergence is the two-equal-passes test; the pass cap is a
	// defensive bound, unreachable for terminating inputs.
	limit := len(e.order) + 2
	for e.cutset != prev && e.passes < limit {
		prev = e.cutset
		e.performPass()
	}
	debug.Log("partition: converged after %d passes, cutset=%d", e.passes, e.cutset)

	inA = make([]int, 0, e.blockA.size)
	for _, c := range e.blockA.cells {
		inA = append(inA, c.id)
	}
	inB = make([]int, 0, e.blockB.size)
	for _, c := range e.blockB.cells {
		inB = append(inB, c.id)
	}
	return inA, inB, nil
}

// baseCell picks the next cell to move: each block nominates its
// highest-gain free cell, inadmissible nominees (balance would leave the
// window) are discarded, and of two admissible nominees the one whose
// move keeps |A| closest to rW wins. Ties go to B's nominee.
func (e *Engine) baseCell() *Cell {
	a, aok := e.candidateFrom(e.blockA)
	b, bok := e.candidateFrom(e.blockB)
	switch {
	case !aok && !bok:
		return nil
	case !aok:
		return b.cell
	case !bok:
		return a.cell
	case a.factor < b.factor:
		return a.cell
	default:
		return b.cell
	}
}

type candidate struct {
	cell   *Cell
	factor float64
}

func (e *Engine) candidateFrom(b *Block) (candidate, bool) {
	c := b.candidateBaseCell()
	if c == nil {
		return candidate{}, false
	}
	f, ok := e.balanceFactor(c)
	if !ok {
		return candidate{}, false
	}
	return candidate{cell: c, factor: f}, true
}

// balanceFactor evaluates the hypothetical move of c: admissible when the
// resulting |A| stays within [rW-smax, rW+smax] with smax = pmax, and in
// that case the factor is the resulting deviation |A - rW|.
func (e *Engine) balanceFactor(c *Cell) (float64, bool) {
	var a, b int
	if c.block.side == SideA {
		a, b = e.blockA.size-1, e.blockB.size+1
	} else {
		a, b = e.blockA.size+1, e.blockB.size-1
	}
	w := float64(a + b)
	smax := float64(e.pmax)
	fa := float64(a)
	if e.Ratio*w-smax <= fa && fa <= e.Ratio*w+smax {
		return math.Abs(fa - e.Ratio*w), true
	}
	return 0, false
}

// isBalanced is the terminal balance criterion, evaluated on current
// sizes with smax = 1.
func (e *Engine) isBalanced() bool {
	w := float64(e.blockA.size + e.blockB.size)
	a := float64(e.blockA.size)
	return e.Ratio*w-1 <= a && a <= e.Ratio*w+1
}

// assertf fails fast on invariant breaches. These are programmer errors;
// per the error-handling policy they are fatal, not recoverable.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("partition: invariant violated: "+format, args...))
	}
}
