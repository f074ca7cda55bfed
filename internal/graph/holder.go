// # internal/graph/holder.go
package graph

import "sync/atomic"

// Holder publishes the current Graph to concurrent readers. Rebuilds go
// through Swap: build a fresh immutable Graph, then replace the reference
// atomically. Readers keep querying whichever instance they loaded.
type Holder struct {
	current atomic.Pointer[Graph]
}

func NewHolder(g *Graph) *Holder {
	h := &Holder{}
	if g != nil {
		h.current.Store(g)
	}
	return h
}

// Get returns the current graph, or nil if none has been published yet.
func (h *Holder) Get() *Graph {
	return h.current.Load()
}

// Swap publishes a new graph and returns the previous one.
func (h *Holder) Swap(g *Graph) *Graph {
	return h.current.Swap(g)
}
