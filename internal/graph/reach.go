// # internal/graph/reach.go
package graph

// ForwardReachable returns every method id reachable from fromID via
// out-edges, including fromID itself. An unknown id yields an empty set:
// partial call-graph data is expected, so "no calls involve this method" is
// a normal answer, not an error.
func (g *Graph) ForwardReachable(fromID int64) map[int64]struct{} {
	return g.reachable(fromID, g.out)
}

// BackwardReachable returns every method id that can reach toID via
// out-edges, computed by walking in-edges from toID. Includes toID itself;
// unknown ids yield the empty set.
func (g *Graph) BackwardReachable(toID int64) map[int64]struct{} {
	return g.reachable(toID, g.in)
}

func (g *Graph) reachable(seedID int64, adj [][]int) map[int64]struct{} {
	result := make(map[int64]struct{})
	seed, ok := g.vertexOf[seedID]
	if !ok {
		return result
	}

	seen := make([]bool, len(g.ids))
	seen[seed] = true
	result[seedID] = struct{}{}

	queue := []int{seed}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range adj[v] {
			if seen[w] {
				continue
			}
			seen[w] = true
			result[g.ids[w]] = struct{}{}
			queue = append(queue, w)
		}
	}

	return result
}
