package graph

import "github.com/paulmach/osm"

// Segment is a member way reduced to the direction it is walked in.
type Segment struct {
	From, To osm.NodeID
	ID       osm.WayID
}

// Build creates a graph from categorized segments. One-directional
// segments become a single arc; two-way segments become a pair of arcs
// marked ReversedExists.
func Build(mode Mode, forward, backward, twoWay []Segment) *RouteGraph {
	g := New(mode, len(forward)+len(backward)+2*len(twoWay))
	for _, s := range forward {
		g.AddEdge(s.From, s.To, s.ID, false)
	}
	for _, s := range backward {
		g.AddEdge(s.From, s.To, s.ID, false)
	}
	for _, s := range twoWay {
		g.AddEdge(s.From, s.To, s.ID, true)
		g.AddEdge(s.To, s.From, s.ID, true)
	}
	return g
}
