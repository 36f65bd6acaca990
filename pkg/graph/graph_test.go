package graph

import (
	"reflect"
	"testing"

	"github.com/paulmach/osm"
)

func assertPath(t *testing.T, name string, got Path, want ...Hop) {
	t.Helper()
	if len(want) == 0 {
		if len(got) != 0 {
			t.Fatalf("%s: got %v, want empty", name, got)
		}
		return
	}
	if !reflect.DeepEqual(got, Path(want)) {
		t.Fatalf("%s: got %v, want %v", name, got, want)
	}
}

func assertStartpoints(t *testing.T, g *RouteGraph, want ...osm.NodeID) {
	t.Helper()
	for _, w := range want {
		got, ok := g.Startpoint()
		if !ok || got != w {
			t.Fatalf("Startpoint() = (%d, %v), want (%d, true)", got, ok, w)
		}
	}
	if got, ok := g.Startpoint(); ok {
		t.Fatalf("Startpoint() = %d, want none", got)
	}
}

func TestAddEdge(t *testing.T) {
	g := New(RouteMode, 0)
	g.AddEdge(1, 2, 100, true)
	g.AddEdge(2, 3, 101, false)
	g.AddEdge(2, 4, 102, true)
	g.AddEdge(4, 5, 103, true)
	g.AddEdge(5, 6, 104, true)

	if g.NumNodes() != 4 {
		t.Fatalf("NumNodes = %d, want 4", g.NumNodes())
	}

	tests := []struct {
		node osm.NodeID
		want []Edge
	}{
		{1, []Edge{{ID: 100, To: 2, ReversedExists: true}}},
		{2, []Edge{{ID: 101, To: 3}, {ID: 102, To: 4, ReversedExists: true}}},
		{4, []Edge{{ID: 103, To: 5, ReversedExists: true}}},
		{5, []Edge{{ID: 104, To: 6, ReversedExists: true}}},
		{6, nil},
	}
	for _, tt := range tests {
		if got := g.Edges(tt.node); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Edges(%d) = %v, want %v", tt.node, got, tt.want)
		}
	}
}

func TestFindStartpoints(t *testing.T) {
	g := New(RouteMode, 0)
	g.AddEdge(1, 2, 100, false)
	g.AddEdge(2, 3, 101, false)
	g.AddEdge(2, 4, 102, false)
	g.AddEdge(4, 5, 103, false)
	g.AddEdge(5, 6, 104, false)

	g.FindStartpoints()
	assertStartpoints(t, g, 1)
}

func TestRemoveStartpoint(t *testing.T) {
	g := New(RouteMode, 0)
	g.AddEdge(3, 1, 100, false)
	g.AddEdge(7, 1, 101, false)
	g.AddEdge(5, 1, 102, false)
	g.FindStartpoints()

	if !g.RemoveStartpoint(5) {
		t.Fatal("RemoveStartpoint(5) = false, want true")
	}
	if g.RemoveStartpoint(5) {
		t.Fatal("second RemoveStartpoint(5) = true, want false")
	}
	if g.RemoveStartpoint(1) {
		t.Fatal("RemoveStartpoint(1) = true for a node with predecessors")
	}
	assertStartpoints(t, g, 3, 7)
}

func TestNodeZeroIsStartpoint(t *testing.T) {
	g := New(RouteMode, 0)
	g.AddEdge(0, 1, 100, false)
	g.FindStartpoints()
	assertStartpoints(t, g, 0)
}

func TestBuildPath(t *testing.T) {
	g := New(RouteMode, 0)

	// forward
	g.AddEdge(1, 2, 100, true)
	g.AddEdge(2, 3, 101, false)
	g.AddEdge(2, 4, 102, true)
	g.AddEdge(4, 5, 103, true)
	g.AddEdge(5, 6, 104, true)

	// backward
	g.AddEdge(6, 5, 104, true)
	g.AddEdge(5, 4, 103, true)
	g.AddEdge(4, 2, 102, true)
	g.AddEdge(2, 1, 100, true)

	g.FindStartpoints()
	if !g.RemoveStartpoint(1) || !g.RemoveStartpoint(6) {
		t.Fatal("expected 1 and 6 to be startpoints")
	}
	assertStartpoints(t, g)

	assertPath(t, "forward", g.Traverse(1, nil, true),
		Hop{2, 100}, Hop{4, 102}, Hop{5, 103}, Hop{6, 104})
	assertPath(t, "backward", g.Traverse(6, nil, true))

	unfinished, ok := g.UnfinishedPath()
	if !ok {
		t.Fatal("expected an unfinished path")
	}
	assertPath(t, "unfinished", unfinished, Hop{2, 100})

	last, _ := unfinished.Last()
	assertPath(t, "remaining", g.Traverse(last, unfinished, false), Hop{3, 101})

	if _, ok := g.UnfinishedPath(); ok {
		t.Fatal("expected no more unfinished paths")
	}
}

func TestBuildPathTwoEnds(t *testing.T) {
	g := New(RouteMode, 0)
	g.AddEdge(1, 2, 100, false)
	g.AddEdge(2, 3, 101, false)
	g.AddEdge(3, 4, 102, false)
	g.AddEdge(3, 5, 103, false)

	g.FindStartpoints()
	assertStartpoints(t, g, 1)

	assertPath(t, "result", g.Traverse(1, nil, true),
		Hop{2, 100}, Hop{3, 101}, Hop{5, 103})

	unfinished, ok := g.UnfinishedPath()
	if !ok {
		t.Fatal("expected an unfinished path")
	}
	assertPath(t, "unfinished", unfinished, Hop{2, 100}, Hop{3, 101})

	last, _ := unfinished.Last()
	assertPath(t, "remaining", g.Traverse(last, unfinished, false), Hop{4, 102})

	if _, ok := g.UnfinishedPath(); ok {
		t.Fatal("expected no more unfinished paths")
	}
}

// sameEndpointsGraph is a oneway pair between 2 and 5 joined by two-way
// segments at both ends.
func sameEndpointsGraph() *RouteGraph {
	g := New(RouteMode, 0)

	// forward
	g.AddEdge(1, 2, 100, true)
	g.AddEdge(2, 3, 101, false)
	g.AddEdge(3, 5, 102, false)
	g.AddEdge(5, 6, 103, true)

	// backward
	g.AddEdge(6, 5, 103, true)
	g.AddEdge(5, 4, 104, false)
	g.AddEdge(4, 2, 105, false)
	g.AddEdge(2, 1, 100, true)
	return g
}

func TestBuildPathSameEndpoints(t *testing.T) {
	forward := []Hop{{2, 100}, {3, 101}, {5, 102}, {6, 103}}
	backward := []Hop{{5, 103}, {4, 104}, {2, 105}, {1, 100}}

	tests := []struct {
		name         string
		forwardFirst bool
	}{
		{"forward first", true},
		{"backward first", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sameEndpointsGraph()
			g.FindStartpoints()
			assertStartpoints(t, g, 1, 6)

			if tt.forwardFirst {
				assertPath(t, "forward", g.Traverse(1, nil, true), forward...)
				assertPath(t, "backward", g.Traverse(6, nil, true), backward...)
			} else {
				assertPath(t, "backward", g.Traverse(6, nil, true), backward...)
				assertPath(t, "forward", g.Traverse(1, nil, true), forward...)
			}

			unfinished, ok := g.UnfinishedPath()
			if !ok || len(unfinished) != 3 {
				t.Fatalf("unfinished = %v, want 3 hops", unfinished)
			}
			last, _ := unfinished.Last()
			assertPath(t, "remaining", g.Traverse(last, unfinished, false))

			if _, ok := g.UnfinishedPath(); ok {
				t.Fatal("expected no more unfinished paths")
			}
		})
	}
}

func TestBuildPathMultipleStartpoints(t *testing.T) {
	g := New(RouteMode, 0)
	// forward
	g.AddEdge(2, 3, 100, false)
	g.AddEdge(3, 4, 101, true)
	g.AddEdge(4, 5, 102, true)
	g.AddEdge(5, 7, 103, false)

	// backward
	g.AddEdge(6, 5, 104, false)
	g.AddEdge(5, 4, 102, true)
	g.AddEdge(4, 3, 101, true)
	g.AddEdge(3, 1, 105, false)

	g.FindStartpoints()
	assertStartpoints(t, g, 2, 6)

	assertPath(t, "forward", g.Traverse(2, nil, true),
		Hop{3, 100}, Hop{4, 101}, Hop{5, 102}, Hop{7, 103})
	assertPath(t, "backward", g.Traverse(6, nil, true),
		Hop{5, 104}, Hop{4, 102}, Hop{3, 101}, Hop{1, 105})

	unfinished, ok := g.UnfinishedPath()
	if !ok || len(unfinished) != 1 {
		t.Fatalf("unfinished = %v, want 1 hop", unfinished)
	}
	last, _ := unfinished.Last()
	assertPath(t, "remaining", g.Traverse(last, unfinished, false))

	if _, ok := g.UnfinishedPath(); ok {
		t.Fatal("expected no more unfinished paths")
	}
}

func TestPathRiver(t *testing.T) {
	g := New(RiverMode, 0)
	g.AddEdge(1, 2, 100, false)
	g.AddEdge(2, 3, 101, false)
	g.AddEdge(3, 4, 102, false)
	g.AddEdge(4, 6, 103, false)
	g.AddEdge(6, 7, 104, false)
	g.AddEdge(6, 8, 105, false)
	g.AddEdge(2, 5, 106, false)
	g.AddEdge(5, 4, 107, false)

	g.FindStartpoints()
	assertStartpoints(t, g, 1)

	assertPath(t, "main stream", g.Traverse(1, nil, true),
		Hop{2, 100}, Hop{5, 106}, Hop{4, 107}, Hop{6, 103}, Hop{8, 105})

	unfinished, ok := g.UnfinishedPath()
	if !ok {
		t.Fatal("expected an unfinished path")
	}
	assertPath(t, "first checkpoint", unfinished, Hop{2, 100})
	last, _ := unfinished.Last()
	// Stops right after reaching the already walked arc 4 -> 6.
	assertPath(t, "first branch", g.Traverse(last, unfinished, false),
		Hop{3, 101}, Hop{4, 102}, Hop{6, 103})

	unfinished, ok = g.UnfinishedPath()
	if !ok {
		t.Fatal("expected a second unfinished path")
	}
	assertPath(t, "second checkpoint", unfinished, Hop{6, 103})
	last, _ = unfinished.Last()
	assertPath(t, "second branch", g.Traverse(last, unfinished, false), Hop{7, 104})

	if _, ok := g.UnfinishedPath(); ok {
		t.Fatal("expected no more unfinished paths")
	}
}

func TestForkAtStartQueuesEmptyCheckpoint(t *testing.T) {
	g := New(RouteMode, 0)
	g.AddEdge(1, 2, 100, false)
	g.AddEdge(1, 3, 101, false)
	g.FindStartpoints()

	// Neither arc is preferred, so the last one is taken.
	assertPath(t, "walk", g.Traverse(1, nil, true), Hop{3, 101})
	if n := g.PendingUnfinished(); n != 1 {
		t.Fatalf("PendingUnfinished = %d, want 1", n)
	}
	unfinished, ok := g.UnfinishedPath()
	if !ok || len(unfinished) != 0 {
		t.Fatalf("unfinished = %v (ok %v), want an empty checkpoint", unfinished, ok)
	}
	assertPath(t, "second walk", g.Traverse(1, nil, true), Hop{2, 100})
	if !g.Used(100) || !g.Used(101) {
		t.Fatal("both arcs should be consumed")
	}
}

func TestTraverseDeterministic(t *testing.T) {
	var results []Path
	for range 3 {
		g := sameEndpointsGraph()
		g.FindStartpoints()
		results = append(results, g.Traverse(1, nil, true))
	}
	for i := 1; i < len(results); i++ {
		if !reflect.DeepEqual(results[0], results[i]) {
			t.Fatalf("run %d = %v, want %v", i, results[i], results[0])
		}
	}
}

func TestTraverseUnknownStart(t *testing.T) {
	g := New(RouteMode, 0)
	g.AddEdge(1, 2, 100, false)
	assertPath(t, "unknown", g.Traverse(42, nil, true))
}
