// Package matrix builds and validates the 0/1 adjacency matrices the
// partitioner consumes. The strict upper triangle is the authoritative
// edge set; the lower triangle is kept in sync by the builders but never
// read by the engine.
package matrix

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/mat"
)

// Validate checks that m is square and every strict-upper-triangle entry
// is 0 or 1.
func Validate(m mat.Matrix) error {
	rows, cols := m.Dims()
	if rows != cols {
		return fmt.Errorf("matrix: %dx%d is not square", rows, cols)
	}
	for i := 0; i < rows; i++ {
		for j := i + 1; j < cols; j++ {
			if v := m.At(i, j); v != 0 && v != 1 {
				return fmt.Errorf("matrix: entry (%d,%d) = %v, want 0 or 1", i, j, v)
			}
		}
	}
	return nil
}

// FromEdges builds a symmetric adjacency matrix over n vertices.
// Self-loops are rejected; duplicate edges collapse.
func FromEdges(n int, edges [][2]int) (*mat.Dense, error) {
	if n <= 0 {
		return nil, fmt.Errorf("matrix: size %d, want positive", n)
	}
	m := mat.NewDense(n, n, nil)
	for _, e := range edges {
		u, v := e[0], e[1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return nil, fmt.Errorf("matrix: edge (%d,%d) outside [0,%d)", u, v, n)
		}
		if u == v {
			return nil, fmt.Errorf("matrix: self-loop on vertex %d", u)
		}
		m.Set(u, v, 1)
		m.Set(v, u, 1)
	}
	return m, nil
}

// Edges extracts the strict-upper-triangle edge list of a square matrix,
// in row-major order.
func Edges(m mat.Matrix) [][2]int {
	rows, cols := m.Dims()
	if cols < rows {
		rows = cols
	}
	var edges [][2]int
	for i := 0; i < rows; i++ {
		for j := i + 1; j < rows; j++ {
			if m.At(i, j) == 1 {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}

// FromUndirected converts a gonum undirected graph into an adjacency
// matrix. Rows follow ascending node id; the returned slice maps row
// index back to the original node id.
func FromUndirected(g interface {
	graph.Undirected
	Edges() graph.Edges
}) (*mat.Dense, []int64) {
	nodes := graph.NodesOf(g.Nodes())
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })

	if len(nodes) == 0 {
		return new(mat.Dense), nil
	}

	rowOf := make(map[int64]int, len(nodes))
	rowIDs := make([]int64, len(nodes))
	for i, n := range nodes {
		rowOf[n.ID()] = i
		rowIDs[i] = n.ID()
	}

	m := mat.NewDense(len(nodes), len(nodes), nil)
	edges := g.Edges()
	for edges.Next() {
		e := edges.Edge()
		u := rowOf[e.From().ID()]
		v := rowOf[e.To().ID()]
		if u == v {
			continue
		}
		m.Set(u, v, 1)
		m.Set(v, u, 1)
	}
	return m, rowIDs
}
