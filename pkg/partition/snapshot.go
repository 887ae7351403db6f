package partition

// Deep-copy snapshotting. A pass snapshots the whole mutable state at
// every new best cut and rolls back to the last snapshot when it ends.
// Both take and load copy the slices they touch, so taking a snapshot and
// immediately loading it is a no-op and a loaded snapshot survives
// further mutation of the live state.

type cellState struct {
	gain   int
	block  *Block
	locked bool
	slot   int
}

type netSideState struct {
	count  int
	locked int
	free   int
	cells  []*Cell
}

type netState struct {
	sides [2]netSideState
	cut   bool
}

type bucketState struct {
	maxGain int
	buckets [][]*Cell
	free    []*Cell
}

type blockState struct {
	size    int
	cells   []*Cell
	buckets bucketState
}

type snapshot struct {
	cutset int
	cells  []cellState // parallel to Engine.order
	nets   []netState  // parallel to Engine.nets
	blocks [2]blockState
}

func copyCells(s []*Cell) []*Cell {
	return append([]*Cell(nil), s...)
}

func snapBucketArray(ba *BucketArray) bucketState {
	buckets := make([][]*Cell, len(ba.buckets))
	for i, b := range ba.buckets {
		buckets[i] = copyCells(b)
	}
	return bucketState{maxGain: ba.maxGain, buckets: buckets, free: copyCells(ba.free)}
}

func (ba *BucketArray) restore(s bucketState) {
	ba.maxGain = s.maxGain
	for i := range ba.buckets {
		ba.buckets[i] = copyCells(s.buckets[i])
	}
	ba.free = copyCells(s.free)
}

// takeSnapshot records the complete mutable state of the run.
func (e *Engine) takeSnapshot() {
	snap := &snapshot{
		cutset: e.cutset,
		cells:  make([]cellState, len(e.order)),
		nets:   make([]netState, len(e.nets)),
	}
	for i, c := range e.order {
		snap.cells[i] = cellState{gain: c.gain, block: c.block, locked: c.locked, slot: c.slot}
	}
	for i, n := range e.nets {
		ns := netState{cut: n.cut}
		for s := range n.sides {
			side := &n.sides[s]
			ns.sides[s] = netSideState{
				count:  side.count,
				locked: side.locked,
				free:   side.free,
				cells:  copyCells(side.cells),
			}
		}
		snap.nets[i] = ns
	}
	for i, b := range [2]*Block{e.blockA, e.blockB} {
		snap.blocks[i] = blockState{
			size:    b.size,
			cells:   copyCells(b.cells),
			buckets: snapBucketArray(b.buckets),
		}
	}
	e.snap = snap
}

// loadSnapshot restores the state recorded by the last takeSnapshot.
func (e *Engine) loadSnapshot() {
	assertf(e.snap != nil, "loadSnapshot without a snapshot")
	snap := e.snap
	e.cutset = snap.cutset
	for i, c := range e.order {
		st := snap.cells[i]
		c.gain = st.gain
		c.block = st.block
		c.locked = st.locked
		c.slot = st.slot
	}
	for i, n := range e.nets {
		st := snap.nets[i]
		n.cut = st.cut
		for s := range n.sides {
			side := &n.sides[s]
			side.count = st.sides[s].count
			side.locked = st.sides[s].locked
			side.free = st.sides[s].free
			side.cells = copyCells(st.sides[s].cells)
		}
	}
	for i, b := range [2]*Block{e.blockA, e.blockB} {
		st := snap.blocks[i]
		b.size = st.size
		b.cells = copyCells(st.cells)
		b.buckets.restore(st.buckets)
	}
}
