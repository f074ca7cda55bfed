// # internal/graph/paths.go
package graph

// DefaultMaxDepth bounds AllPaths when the caller does not override it.
const DefaultMaxDepth = 10

// ShortestPath finds the shortest caller chain between two methods by BFS
// over out-edges and returns it as method ids. Among equal-length paths the
// one discovered first in lowest-vertex-first order wins, so results are
// stable for a given edge set. Returns (nil, false) when either id is
// unknown or no forward walk reaches the target; a self query returns the
// single-element path.
func (g *Graph) ShortestPath(fromID, toID int64) ([]int64, bool) {
	src, ok := g.vertexOf[fromID]
	if !ok {
		return nil, false
	}
	dst, ok := g.vertexOf[toID]
	if !ok {
		return nil, false
	}
	if src == dst {
		return []int64{fromID}, true
	}

	parent := make([]int, len(g.ids))
	for i := range parent {
		parent[i] = -1
	}
	parent[src] = src

	queue := []int{src}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range g.out[v] {
			if parent[w] != -1 {
				continue
			}
			parent[w] = v
			if w == dst {
				return g.assemblePath(parent, src, dst), true
			}
			queue = append(queue, w)
		}
	}

	return nil, false
}

func (g *Graph) assemblePath(parent []int, src, dst int) []int64 {
	rev := []int{dst}
	for v := dst; v != src; v = parent[v] {
		rev = append(rev, parent[v])
	}
	path := make([]int64, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = g.ids[v]
	}
	return path
}

// AllPaths enumerates every walk from fromID to toID using at most maxDepth
// hops, as lists of method ids. A path is emitted the moment the target is
// reached; a branch stops when its remaining hop budget is exhausted or when
// it revisits a vertex already on the current path. The visited set is
// path-local, so the same vertex may appear on different branches explored
// from a common ancestor.
//
// The enumeration is exponential in the worst case: it lists walks, it does
// not prune them. maxDepth is the only safety valve; callers needing bounded
// wall-clock time must keep it conservative or wrap the call in a deadline.
// maxDepth <= 0 selects DefaultMaxDepth.
func (g *Graph) AllPaths(fromID, toID int64, maxDepth int) [][]int64 {
	src, ok := g.vertexOf[fromID]
	if !ok {
		return nil
	}
	dst, ok := g.vertexOf[toID]
	if !ok {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	// Iterative DFS with an explicit frame stack. Each frame owns one
	// vertex on the current path; onPath mirrors the path-local visited
	// set of a recursive formulation.
	type frame struct {
		vertex  int
		budget  int
		next    int
		entered bool
		marked  bool
	}

	var results [][]int64
	path := make([]int, 0, maxDepth+1)
	onPath := make([]bool, len(g.ids))

	stack := []frame{{vertex: src, budget: maxDepth}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if !f.entered {
			f.entered = true
			path = append(path, f.vertex)

			if f.vertex == dst {
				results = append(results, g.idsOfPath(path))
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}
			if onPath[f.vertex] {
				path = path[:len(path)-1]
				stack = stack[:len(stack)-1]
				continue
			}
			onPath[f.vertex] = true
			f.marked = true
		}

		if f.next < len(g.out[f.vertex]) && f.budget > 0 {
			w := g.out[f.vertex][f.next]
			f.next++
			stack = append(stack, frame{vertex: w, budget: f.budget - 1})
			continue
		}

		if f.marked {
			onPath[f.vertex] = false
		}
		path = path[:len(path)-1]
		stack = stack[:len(stack)-1]
	}

	return results
}

func (g *Graph) idsOfPath(path []int) []int64 {
	ids := make([]int64, len(path))
	for i, v := range path {
		ids[i] = g.ids[v]
	}
	return ids
}
