package partition

// netSide is one side's view of a net: how many incident cells sit on
// that side, split by lock status, plus the ordered cell sequence. The
// sequence order carries no meaning, but removal and append must preserve
// relative order so the unique-free-cell lookups stay deterministic.
type netSide struct {
	count  int
	locked int
	free   int
	cells  []*Cell
}

func (s *netSide) removeCell(c *Cell) {
	for i, have := range s.cells {
		if have == c {
			s.cells = append(s.cells[:i], s.cells[i+1:]...)
			return
		}
	}
	assertf(false, "cell %d not on net side", c.id)
}

// Net is a hyperedge. In the adjacency-matrix input model every net is
// built from a single edge and has exactly two cells, but all algorithms
// treat nets as general hyperedges.
type Net struct {
	id    int
	eng   *Engine
	cells []*Cell
	sides [2]netSide
	cut   bool
}

func newNet(id int, eng *Engine) *Net {
	assertf(id >= 0, "net id %d must be non-negative", id)
	return &Net{id: id, eng: eng}
}

// ID returns the net's id.
func (n *Net) ID() int { return n.id }

// Cut reports whether the net currently has cells on both sides.
func (n *Net) Cut() bool { return n.cut }

func (n *Net) side(s Side) *netSide { return &n.sides[s] }

// Count returns the number of incident cells on the given side.
func (n *Net) Count(s Side) int { return n.sides[s].count }

// addCell attaches a cell during ingestion. All cells start on side A, so
// the A-side tallies absorb the new cell. Idempotent.
func (n *Net) addCell(c *Cell) {
	for _, have := range n.cells {
		if have == c {
			return
		}
	}
	n.cells = append(n.cells, c)
	a := n.side(SideA)
	a.count++
	a.free++
	a.cells = append(a.cells, c)
}

// shiftLockTally moves delta cells from the free to the locked tally on
// one side (negative delta for unlocking).
func (n *Net) shiftLockTally(s Side, delta int) {
	ns := n.side(s)
	ns.locked += delta
	ns.free -= delta
}

// moveToSide records that cell c, already reassigned to block `to`, has
// crossed the net. Counts, lock/free tallies and the per-side sequences
// are updated and the cut state recomputed.
func (n *Net) moveToSide(to Side, c *Cell) {
	src := n.side(to.Other())
	dst := n.side(to)

	dst.count++
	src.count--
	if c.locked {
		dst.locked++
		src.locked--
	} else {
		dst.free++
		src.free--
	}
	src.removeCell(c)
	dst.cells = append(dst.cells, c)
	n.updateCutState()

	assertf(src.count >= 0 && src.free >= 0, "net %d: negative tally on %s side", n.id, to.Other())
	assertf(src.free+src.locked == src.count, "net %d: %s free+locked != count", n.id, to.Other())
	assertf(dst.free+dst.locked == dst.count, "net %d: %s free+locked != count", n.id, to)
}

// updateCutState recomputes the cut flag and, on a transition, adjusts the
// engine's cutset.
func (n *Net) updateCutState() {
	now := n.sides[SideA].count != 0 && n.sides[SideB].count != 0
	if now == n.cut {
		return
	}
	if now {
		n.eng.cutset++
	} else {
		n.eng.cutset--
	}
	n.cut = now
}

// incGainsOfFreeCells raises the gain of every free incident cell by one
// and repositions each in its bucket. Used when the base cell's move
// creates the first occupant of the To side.
func (n *Net) incGainsOfFreeCells() {
	for _, c := range n.cells {
		if !c.locked {
			c.gain++
			c.yank()
		}
	}
}

// decGainsOfFreeCells is the symmetric decrement, used when the move
// empties the From side.
func (n *Net) decGainsOfFreeCells() {
	for _, c := range n.cells {
		if !c.locked {
			c.gain--
			c.yank()
		}
	}
}

// decGainTCell lowers the gain of the unique free cell on the To side.
// Precondition: that side has exactly one cell and it is free (guaranteed
// by the caller's LT==0 && FT==1 guard).
func (n *Net) decGainTCell(to Side) {
	s := n.side(to)
	assertf(s.free == 1 && len(s.cells) == 1, "net %d: T-cell update needs a single free cell on %s", n.id, to)
	c := s.cells[0]
	c.gain--
	c.yank()
}

// incGainFCell raises the gain of the unique free cell of this net on the
// From side. Precondition as for decGainTCell, with the LF==0 && FF==1
// guard.
func (n *Net) incGainFCell(from Side) {
	s := n.side(from)
	assertf(s.free == 1 && len(s.cells) == 1, "net %d: F-cell update needs a single free cell on %s", n.id, from)
	c := s.cells[0]
	c.gain++
	c.yank()
}
