// # internal/graph/graph_test.go
package graph

import (
	"testing"
)

func TestBuild_DeterministicVertexAssignment(t *testing.T) {
	g := Build([]CallEdge{
		{CallerID: 42, CalleeID: 7},
		{CallerID: 7, CalleeID: 100},
	})

	if g.VertexCount() != 3 {
		t.Fatalf("expected 3 vertices, got %d", g.VertexCount())
	}

	// Vertices are assigned by ascending method id.
	for i, want := range []int64{7, 42, 100} {
		if got := g.MethodIDOf(i); got != want {
			t.Errorf("MethodIDOf(%d) = %d, want %d", i, got, want)
		}
	}

	v, ok := g.VertexOf(42)
	if !ok || v != 1 {
		t.Errorf("VertexOf(42) = (%d, %v), want (1, true)", v, ok)
	}
	if _, ok := g.VertexOf(999); ok {
		t.Error("VertexOf(999) should report absence")
	}
}

func TestBuild_DuplicateEdgesCollapse(t *testing.T) {
	g := Build([]CallEdge{
		{CallerID: 1, CalleeID: 2},
		{CallerID: 1, CalleeID: 2},
		{CallerID: 1, CalleeID: 2},
	})

	if g.EdgeCount() != 1 {
		t.Fatalf("expected 1 edge after dedup, got %d", g.EdgeCount())
	}
	v1, _ := g.VertexOf(1)
	if n := len(g.NeighborsOut(v1)); n != 1 {
		t.Errorf("expected 1 out-neighbor, got %d", n)
	}
}

func TestBuild_IsolatedMethodsNeverAdded(t *testing.T) {
	g := Build([]CallEdge{{CallerID: 1, CalleeID: 2}})
	if g.VertexCount() != 2 {
		t.Fatalf("expected 2 vertices, got %d", g.VertexCount())
	}
}

func TestBuild_EmptyEdgeList(t *testing.T) {
	g := Build(nil)
	if g.VertexCount() != 0 || g.EdgeCount() != 0 {
		t.Fatalf("expected empty graph, got %d vertices %d edges", g.VertexCount(), g.EdgeCount())
	}
	if set := g.ForwardReachable(1); len(set) != 0 {
		t.Errorf("expected empty reachability set, got %v", set)
	}
}

func TestNeighbors_SortedBothDirections(t *testing.T) {
	g := Build([]CallEdge{
		{CallerID: 1, CalleeID: 5},
		{CallerID: 1, CalleeID: 3},
		{CallerID: 1, CalleeID: 4},
		{CallerID: 5, CalleeID: 3},
	})

	v1, _ := g.VertexOf(1)
	out := g.NeighborsOut(v1)
	for i := 1; i < len(out); i++ {
		if out[i-1] >= out[i] {
			t.Fatalf("out-neighbors not sorted: %v", out)
		}
	}

	v3, _ := g.VertexOf(3)
	in := g.NeighborsIn(v3)
	if len(in) != 2 {
		t.Fatalf("expected 2 in-neighbors of 3, got %v", in)
	}
	if in[0] >= in[1] {
		t.Fatalf("in-neighbors not sorted: %v", in)
	}
}

func TestHolder_Swap(t *testing.T) {
	g1 := Build([]CallEdge{{CallerID: 1, CalleeID: 2}})
	g2 := Build([]CallEdge{{CallerID: 3, CalleeID: 4}})

	h := NewHolder(g1)
	if h.Get() != g1 {
		t.Fatal("holder should return the initial graph")
	}
	if prev := h.Swap(g2); prev != g1 {
		t.Fatal("swap should return the previous graph")
	}
	if h.Get() != g2 {
		t.Fatal("holder should return the swapped graph")
	}
}
