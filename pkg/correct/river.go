package correct

import (
	"slices"

	"github.com/paulmach/osm"

	"github.com/azybler/osm_elevation/pkg/elevation"
	"github.com/azybler/osm_elevation/pkg/graph"
	"github.com/azybler/osm_elevation/pkg/nodeindex"
)

// DefaultMaxRiverIterations bounds the confluence re-check loop.
const DefaultMaxRiverIterations = 5000

// RiverResult describes one river correction.
type RiverResult struct {
	Skipped    bool // some node had no usable elevation; nothing was committed
	Changed    int  // nodes whose elevation was lowered
	Iterations int  // re-check sweeps after the first pass
	CapHit     bool // re-check sweeps stopped at the cap with work pending
}

type riverNode struct {
	elevation int16
	original  int16
	streams   []int // sub-routes that reached this node, in first-visit order
}

type river struct {
	route   graph.Route
	nodes   map[osm.NodeID]*riverNode
	recheck []bool
	pending int
}

// River makes every sub-route of a river flow downhill: each node is clamped
// to at most the elevation of its predecessor. When a node shared by
// several sub-routes is lowered, the other sub-routes are walked again until
// nothing changes or maxIterations sweeps have run. The result is committed
// to idx as plain samples. Rivers with any unknown elevation are left alone.
func River(route graph.Route, nodes *nodeindex.Index, idx *elevation.Average, maxIterations int) RiverResult {
	r := &river{
		route:   route,
		nodes:   make(map[osm.NodeID]*riverNode, route.NodeCount()),
		recheck: make([]bool, len(route)),
	}
	for _, p := range loadProfiles(route, nodes) {
		if !p.available {
			return RiverResult{Skipped: true}
		}
		for i, id := range p.ids {
			if _, ok := r.nodes[id]; !ok {
				r.nodes[id] = &riverNode{elevation: p.elevations[i], original: p.elevations[i]}
			}
		}
	}
	if len(r.nodes) == 0 {
		return RiverResult{Skipped: true}
	}

	var res RiverResult
	for k := range route {
		r.correctStream(k)
	}
	for r.pending > 0 && res.Iterations < maxIterations {
		res.Iterations++
		for k := range route {
			if r.recheck[k] {
				r.recheck[k] = false
				r.pending--
				r.correctStream(k)
			}
		}
	}
	res.CapHit = r.pending > 0

	ids := make([]osm.NodeID, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		n := r.nodes[id]
		idx.Set(id, n.elevation)
		if n.elevation != n.original {
			res.Changed++
		}
	}
	return res
}

func (r *river) correctStream(k int) {
	path := r.route[k]
	for i := 1; i < len(path); i++ {
		node := r.nodes[path[i]]
		prev := r.nodes[path[i-1]]

		corrected := false
		if node.elevation > prev.elevation {
			node.elevation = prev.elevation
			corrected = true
		}
		if !slices.Contains(node.streams, k) {
			node.streams = append(node.streams, k)
		}

		if corrected && len(node.streams) > 1 {
			for _, other := range node.streams {
				if other != k && !r.recheck[other] {
					r.recheck[other] = true
					r.pending++
				}
			}
		}
	}
}
