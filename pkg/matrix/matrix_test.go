package matrix

import (
	"testing"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
)

func TestFromEdgesSymmetric(t *testing.T) {
	m, err := FromEdges(3, [][2]int{{0, 1}, {1, 2}})
	if err != nil {
		t.Fatalf("FromEdges: %v", err)
	}
	for _, pair := range [][2]int{{0, 1}, {1, 2}} {
		if m.At(pair[0], pair[1]) != 1 || m.At(pair[1], pair[0]) != 1 {
			t.Errorf("edge %v not mirrored", pair)
		}
	}
	if m.At(0, 2) != 0 {
		t.Error("absent edge has non-zero entry")
	}
	if err := Validate(m); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFromEdgesDuplicatesCollapse(t *testing.T) {
	m, err := FromEdges(2, [][2]int{{0, 1}, {1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("FromEdges: %v", err)
	}
	if m.At(0, 1) != 1 {
		t.Errorf("entry = %v, want 1", m.At(0, 1))
	}
}

func TestFromEdgesErrors(t *testing.T) {
	if _, err := FromEdges(0, nil); err == nil {
		t.Error("want error for zero size")
	}
	if _, err := FromEdges(2, [][2]int{{0, 2}}); err == nil {
		t.Error("want error for out-of-range endpoint")
	}
	if _, err := FromEdges(2, [][2]int{{1, 1}}); err == nil {
		t.Error("want error for self-loop")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(mat.NewDense(2, 3, nil)); err == nil {
		t.Error("want error for non-square matrix")
	}
	bad := mat.NewDense(2, 2, nil)
	bad.Set(0, 1, 0.5)
	if err := Validate(bad); err == nil {
		t.Error("want error for fractional entry")
	}
	// Lower-triangle garbage is not validated: the engine never reads it.
	lower := mat.NewDense(2, 2, nil)
	lower.Set(1, 0, 7)
	if err := Validate(lower); err != nil {
		t.Errorf("lower-triangle entry should not fail validation: %v", err)
	}
}

func TestFromUndirected(t *testing.T) {
	g := simple.NewUndirectedGraph()
	for i := 0; i < 3; i++ {
		g.AddNode(simple.Node(i))
	}
	g.SetEdge(g.NewEdge(simple.Node(0), simple.Node(2)))

	m, rowIDs := FromUndirected(g)
	if r, c := m.Dims(); r != 3 || c != 3 {
		t.Fatalf("dims %dx%d, want 3x3", r, c)
	}
	if len(rowIDs) != 3 || rowIDs[0] != 0 || rowIDs[1] != 1 || rowIDs[2] != 2 {
		t.Fatalf("rowIDs = %v, want [0 1 2]", rowIDs)
	}
	if m.At(0, 2) != 1 || m.At(2, 0) != 1 {
		t.Error("edge 0-2 missing")
	}
	if m.At(0, 1) != 0 {
		t.Error("phantom edge 0-1")
	}
}

func TestEdgesRoundTrip(t *testing.T) {
	want := [][2]int{{0, 1}, {1, 3}, {2, 3}}
	m, err := FromEdges(4, want)
	if err != nil {
		t.Fatalf("FromEdges: %v", err)
	}
	got := Edges(m)
	if len(got) != len(want) {
		t.Fatalf("Edges = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Edges[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFromUndirectedEmpty(t *testing.T) {
	m, rowIDs := FromUndirected(simple.NewUndirectedGraph())
	if r, c := m.Dims(); r != 0 || c != 0 {
		t.Fatalf("dims %dx%d, want 0x0", r, c)
	}
	if len(rowIDs) != 0 {
		t.Fatalf("rowIDs = %v, want empty", rowIDs)
	}
}
