// # internal/graph/reach_test.go
package graph

import "testing"

func TestForwardReachable_TriangleScenario(t *testing.T) {
	g := Build([]CallEdge{
		{CallerID: 1, CalleeID: 2},
		{CallerID: 2, CalleeID: 3},
		{CallerID: 1, CalleeID: 3},
	})

	fwd := g.ForwardReachable(1)
	for _, id := range []int64{1, 2, 3} {
		if _, ok := fwd[id]; !ok {
			t.Errorf("ForwardReachable(1) missing %d", id)
		}
	}
	if len(fwd) != 3 {
		t.Errorf("ForwardReachable(1) = %v, want {1,2,3}", fwd)
	}

	back := g.BackwardReachable(3)
	for _, id := range []int64{1, 2, 3} {
		if _, ok := back[id]; !ok {
			t.Errorf("BackwardReachable(3) missing %d", id)
		}
	}
	if len(back) != 3 {
		t.Errorf("BackwardReachable(3) = %v, want {1,2,3}", back)
	}
}

func TestReachable_IncludesSeed(t *testing.T) {
	g := Build([]CallEdge{{CallerID: 1, CalleeID: 2}})

	if _, ok := g.ForwardReachable(2)[2]; !ok {
		t.Error("ForwardReachable must contain its seed")
	}
	if _, ok := g.BackwardReachable(1)[1]; !ok {
		t.Error("BackwardReachable must contain its seed")
	}
}

func TestReachable_UnknownIDIsEmpty(t *testing.T) {
	g := Build([]CallEdge{{CallerID: 1, CalleeID: 2}})

	if set := g.ForwardReachable(42); len(set) != 0 {
		t.Errorf("expected empty set for unknown id, got %v", set)
	}
	if set := g.BackwardReachable(42); len(set) != 0 {
		t.Errorf("expected empty set for unknown id, got %v", set)
	}
}

func TestReachable_Duality(t *testing.T) {
	g := Build([]CallEdge{
		{CallerID: 1, CalleeID: 2},
		{CallerID: 2, CalleeID: 3},
		{CallerID: 3, CalleeID: 1},
		{CallerID: 2, CalleeID: 4},
		{CallerID: 5, CalleeID: 4},
	})

	// v in forward(u) iff u in backward(v), for every pair.
	ids := g.MethodIDs()
	for _, u := range ids {
		fwd := g.ForwardReachable(u)
		for _, v := range ids {
			_, inFwd := fwd[v]
			_, inBack := g.BackwardReachable(v)[u]
			if inFwd != inBack {
				t.Errorf("duality broken for u=%d v=%d: forward=%v backward=%v", u, v, inFwd, inBack)
			}
		}
	}
}

func TestReachable_RespectsDirection(t *testing.T) {
	g := Build([]CallEdge{
		{CallerID: 1, CalleeID: 2},
		{CallerID: 3, CalleeID: 2},
	})

	fwd := g.ForwardReachable(1)
	if _, ok := fwd[3]; ok {
		t.Error("3 is a sibling caller, not forward-reachable from 1")
	}
	back := g.BackwardReachable(2)
	if len(back) != 3 {
		t.Errorf("BackwardReachable(2) = %v, want {1,2,3}", back)
	}
}
