// # internal/graph/graph.go
package graph

import (
	"sort"
)

// CallEdge is one directed caller -> callee relation between two methods,
// identified by the extractor's method ids.
type CallEdge struct {
	CallerID int64
	CalleeID int64
}

// Graph is an immutable directed call graph. Method ids are remapped to
// compact vertex indices at build time; after Build returns, nothing is
// mutated, so a single instance is safe to share across concurrent queries
// without locking. A structural change means building a new Graph.
type Graph struct {
	ids      []int64         // vertex -> method id, sorted ascending
	vertexOf map[int64]int   // method id -> vertex
	out      [][]int         // vertex -> out-neighbors, sorted ascending
	in       [][]int         // vertex -> in-neighbors, sorted ascending
	edges    int
}

// Build constructs a Graph from a flat edge list. Vertex indices are
// assigned by sorting the distinct method ids ascending, so two builds from
// the same edge set always produce the same numbering. Duplicate edges in
// the input are collapsed to one.
func Build(edges []CallEdge) *Graph {
	idSet := make(map[int64]struct{}, len(edges)*2)
	for _, e := range edges {
		idSet[e.CallerID] = struct{}{}
		idSet[e.CalleeID] = struct{}{}
	}

	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	vertexOf := make(map[int64]int, len(ids))
	for v, id := range ids {
		vertexOf[id] = v
	}

	type pair struct{ from, to int }
	seen := make(map[pair]struct{}, len(edges))
	out := make([][]int, len(ids))
	in := make([][]int, len(ids))
	edgeCount := 0
	for _, e := range edges {
		p := pair{vertexOf[e.CallerID], vertexOf[e.CalleeID]}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out[p.from] = append(out[p.from], p.to)
		in[p.to] = append(in[p.to], p.from)
		edgeCount++
	}

	// Sorted adjacency gives every traversal a fixed lowest-vertex-first
	// neighbor order, which keeps path results reproducible.
	for v := range out {
		sort.Ints(out[v])
		sort.Ints(in[v])
	}

	return &Graph{
		ids:      ids,
		vertexOf: vertexOf,
		out:      out,
		in:       in,
		edges:    edgeCount,
	}
}

// VertexOf returns the compact vertex index for a method id. The second
// result is false when the method never appears in any call edge; callers
// must branch on it rather than use the zero vertex.
func (g *Graph) VertexOf(methodID int64) (int, bool) {
	v, ok := g.vertexOf[methodID]
	return v, ok
}

// MethodIDOf returns the method id for a vertex index.
func (g *Graph) MethodIDOf(vertex int) int64 {
	return g.ids[vertex]
}

// NeighborsOut returns the callees of a vertex in ascending vertex order.
// The returned slice is shared internal state and must not be modified.
func (g *Graph) NeighborsOut(vertex int) []int {
	return g.out[vertex]
}

// NeighborsIn returns the callers of a vertex in ascending vertex order.
// The returned slice is shared internal state and must not be modified.
func (g *Graph) NeighborsIn(vertex int) []int {
	return g.in[vertex]
}

func (g *Graph) VertexCount() int {
	return len(g.ids)
}

func (g *Graph) EdgeCount() int {
	return g.edges
}

// MethodIDs returns all method ids present in the graph, ascending.
func (g *Graph) MethodIDs() []int64 {
	ids := make([]int64, len(g.ids))
	copy(ids, g.ids)
	return ids
}
