package graph

import "github.com/paulmach/osm"

// Traverse walks from start, never revisiting start, a node of prefix, or
// a node it already reached. At each node it takes an unconsumed arc if one
// exists, else a consumed one. Among arcs of the same kind it takes the first
// one with ReversedExists, or else the last one. When fromStartpoint is set
// and a consumed ReversedExists arc exists, that arc wins.
//
// Whenever two or more unconsumed arcs leave a node a checkpoint is queued
// (see Mode.CheckpointLastHop). The walk is returned only if it consumed at
// least one arc no earlier walk had consumed; otherwise the result is nil.
func (g *RouteGraph) Traverse(start osm.NodeID, prefix Path, fromStartpoint bool) Path {
	visited := make(map[osm.NodeID]struct{}, len(prefix)+1)
	visited[start] = struct{}{}
	for _, h := range prefix {
		visited[h.Node] = struct{}{}
	}

	var (
		path   Path
		unique bool
		known  int
	)

	current := start
	for {
		var (
			nextUnused, nextUsed           *Edge
			preferredUnused, preferredUsed bool
			branches                       int
		)

		edges := g.adjacency[current]
		for i := range edges {
			e := &edges[i]
			if _, seen := visited[e.To]; seen {
				continue
			}
			_, consumed := g.used[e.ID]
			if !consumed {
				branches++
				if !preferredUnused {
					nextUnused = e
					preferredUnused = e.ReversedExists
				}
			} else if !preferredUsed {
				nextUsed = e
				preferredUsed = e.ReversedExists
			}
		}

		next := nextUnused
		if next == nil {
			next = nextUsed
		}
		if fromStartpoint && preferredUsed {
			next = nextUsed
		}
		if next == nil {
			break
		}

		if _, consumed := g.used[next.ID]; consumed {
			known++
		} else {
			g.used[next.ID] = struct{}{}
			unique = true
		}

		if branches >= 2 {
			g.checkpoint(path)
		}

		path = append(path, Hop{Node: next.To, Edge: next.ID})
		current = next.To
		visited[current] = struct{}{}

		if g.mode.StopOnKnownEdge && known > 0 {
			break
		}
	}

	if !unique {
		return nil
	}
	return path
}

// checkpoint queues the walk so far so the untaken fork can be resumed
// from its last node. A fork at the walk's start queues an empty path,
// which ends the draining of the queue (see UnfinishedPath).
func (g *RouteGraph) checkpoint(path Path) {
	if len(path) == 0 {
		g.unfinished = append(g.unfinished, Path{})
		return
	}
	if g.mode.CheckpointLastHop {
		g.unfinished = append(g.unfinished, Path{path[len(path)-1]})
		return
	}
	g.unfinished = append(g.unfinished, append(Path(nil), path...))
}
