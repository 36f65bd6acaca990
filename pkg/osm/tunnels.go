package osm

import (
	"slices"

	"github.com/paulmach/osm"

	"github.com/azybler/osm_elevation/pkg/graph"
)

// walked returns the way's nodes in the direction a hop arriving at
// arrived traversed them.
func walked(w *Way, arrived osm.NodeID) []osm.NodeID {
	nodes := slices.Clone(w.Nodes)
	if arrived == w.Front() {
		slices.Reverse(nodes)
	}
	return nodes
}

// findTunnelsAndBridges scans a walk for runs of tunnel or bridge ways
// that have an ordinary way on both sides. The first hop can never start
// a run because nothing precedes it.
func findTunnelsAndBridges(path graph.Path, ways map[osm.WayID]*Way) []graph.TunnelOrBridge {
	var found []graph.TunnelOrBridge
	for i := 1; i < len(path); i++ {
		if !ways[path[i].Edge].TunnelOrBridge {
			continue
		}
		tb, next, ok := tunnelOrBridgeAt(path, ways, i)
		if ok {
			found = append(found, tb)
		}
		i = next
	}
	return found
}

// tunnelOrBridgeAt builds the triple for the run starting at hop start
// and returns the index of the way following the run.
func tunnelOrBridgeAt(path graph.Path, ways map[osm.WayID]*Way, start int) (graph.TunnelOrBridge, int, bool) {
	var tb graph.TunnelOrBridge

	before := ways[path[start-1].Edge]
	tb.Approach = walked(before, path[start-1].Node)
	slices.Reverse(tb.Approach)

	i := start
	for ; i < len(path); i++ {
		w := ways[path[i].Edge]
		if !w.TunnelOrBridge {
			break
		}
		nodes := walked(w, path[i].Node)
		if i == start {
			tb.Span = append(tb.Span, nodes...)
		} else {
			tb.Span = append(tb.Span, nodes[1:]...)
		}
	}
	if i == len(path) {
		return tb, i, false
	}

	after := ways[path[i].Edge]
	tb.Departure = walked(after, path[i].Node)

	if before.Sloped || after.Sloped {
		return tb, i, false
	}
	return tb, i, true
}
