package partition

import (
	"gonum.org/v1/gonum/mat"
)

// Result is the outcome of a full partitioning run, shaped for export and
// robot consumers.
type Result struct {
	A      []int   `json:"a"`
	B      []int   `json:"b"`
	Cutset int     `json:"cutset"`
	Passes int     `json:"passes"`
	Ratio  float64 `json:"ratio"`
	Cells  int     `json:"cells"`
	Nets   int     `json:"nets"`
}

// Options configures a Bipartition run. The zero value selects every
// vertex with the default ratio.
type Options struct {
	// Selection restricts the run to these row/column indices.
	Selection []int
	// Ratio overrides DefaultRatio when non-zero.
	Ratio float64
	// OnPass is forwarded to the engine.
	OnPass func(PassStats)
}

// Bipartition is the convenience entry point: build an engine, ingest the
// matrix, run FindMincut, and package the outcome.
func Bipartition(m mat.Matrix, opts *Options) (*Result, error) {
	e := NewEngine()
	var selection []int
	if opts != nil {
		if opts.Ratio != 0 {
			e.Ratio = opts.Ratio
		}
		e.OnPass = opts.OnPass
		selection = opts.Selection
	}
	if err := e.LoadMatrix(m, selection); err != nil {
		return nil, err
	}
	a, b, err := e.FindMincut()
	if err != nil {
		return nil, err
	}
	return &Result{
		A:      a,
		B:      b,
		Cutset: e.Cutset(),
		Passes: e.Passes(),
		Ratio:  e.Ratio,
		Cells:  len(e.order),
		Nets:   len(e.nets),
	}, nil
}
