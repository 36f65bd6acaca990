// Package graph models a relation's member ways as a directed multigraph
// over node ids and walks it into ordered paths.
package graph

import (
	"sort"

	"github.com/paulmach/osm"
)

// Edge is a directed arc out of some node. ID is the way the arc stands for.
// ReversedExists marks arcs of two-way segments, which also exist in the
// opposite direction.
type Edge struct {
	ID             osm.WayID
	To             osm.NodeID
	ReversedExists bool
}

// Hop is one traversal step: the node reached and the way used to reach it.
type Hop struct {
	Node osm.NodeID
	Edge osm.WayID
}

// Path is a sequence of hops. The start node is not part of it.
type Path []Hop

// Last returns the final hop's node. ok is false for an empty path.
func (p Path) Last() (osm.NodeID, bool) {
	if len(p) == 0 {
		return 0, false
	}
	return p[len(p)-1].Node, true
}

// RouteGraph is the graph of one relation. All traversal state (consumed
// edges, startpoints, unfinished paths) lives here, so a graph must not be
// shared across relations.
type RouteGraph struct {
	mode      Mode
	adjacency map[osm.NodeID][]Edge
	inDegree  map[osm.NodeID]int

	startpoints []osm.NodeID // ascending
	used        map[osm.WayID]struct{}
	unfinished  []Path
}

// New returns an empty graph traversed with the given mode.
func New(mode Mode, estimatedNodes int) *RouteGraph {
	return &RouteGraph{
		mode:      mode,
		adjacency: make(map[osm.NodeID][]Edge, estimatedNodes),
		inDegree:  make(map[osm.NodeID]int, estimatedNodes),
		used:      make(map[osm.WayID]struct{}),
	}
}

// Mode returns the traversal mode the graph was built with.
func (g *RouteGraph) Mode() Mode { return g.mode }

// AddEdge appends the arc from -> to and records in-degrees.
func (g *RouteGraph) AddEdge(from, to osm.NodeID, id osm.WayID, reversedExists bool) {
	g.adjacency[from] = append(g.adjacency[from], Edge{ID: id, To: to, ReversedExists: reversedExists})

	if _, ok := g.inDegree[from]; !ok {
		g.inDegree[from] = 0
	}
	g.inDegree[to]++
}

// Edges returns the outgoing arcs of n in insertion order.
func (g *RouteGraph) Edges(n osm.NodeID) []Edge { return g.adjacency[n] }

// NumNodes returns the number of nodes with at least one outgoing arc.
func (g *RouteGraph) NumNodes() int { return len(g.adjacency) }

// FindStartpoints collects the nodes without predecessor, plus nodes whose
// only arc in and only arc out belong to the same two-way segment. The
// in-degree bookkeeping is dropped afterwards, so AddEdge must not be
// called again.
func (g *RouteGraph) FindStartpoints() {
	g.startpoints = g.startpoints[:0]
	for n, deg := range g.inDegree {
		switch deg {
		case 0:
			g.startpoints = append(g.startpoints, n)
		case 1:
			out := g.adjacency[n]
			if len(out) == 1 && out[0].ReversedExists {
				g.startpoints = append(g.startpoints, n)
			}
		}
	}
	sort.Slice(g.startpoints, func(i, j int) bool {
		return g.startpoints[i] < g.startpoints[j]
	})
	g.inDegree = nil
}

// Startpoint pops the smallest remaining startpoint.
func (g *RouteGraph) Startpoint() (osm.NodeID, bool) {
	if len(g.startpoints) == 0 {
		return 0, false
	}
	n := g.startpoints[0]
	g.startpoints = g.startpoints[1:]
	return n, true
}

// RemoveStartpoint removes n from the startpoints and reports whether it
// was one.
func (g *RouteGraph) RemoveStartpoint(n osm.NodeID) bool {
	i := sort.Search(len(g.startpoints), func(i int) bool {
		return g.startpoints[i] >= n
	})
	if i == len(g.startpoints) || g.startpoints[i] != n {
		return false
	}
	g.startpoints = append(g.startpoints[:i], g.startpoints[i+1:]...)
	return true
}

// UnfinishedPath pops the oldest checkpoint. The popped path is empty
// when the checkpoint was taken at the start of a walk.
func (g *RouteGraph) UnfinishedPath() (Path, bool) {
	if len(g.unfinished) == 0 {
		return nil, false
	}
	p := g.unfinished[0]
	g.unfinished[0] = nil
	g.unfinished = g.unfinished[1:]
	return p, true
}

// PendingUnfinished returns the number of queued checkpoints.
func (g *RouteGraph) PendingUnfinished() int { return len(g.unfinished) }

// Used reports whether the way id has been consumed by a traversal.
func (g *RouteGraph) Used(id osm.WayID) bool {
	_, ok := g.used[id]
	return ok
}
