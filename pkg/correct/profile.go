// Package correct holds the elevation corrections applied to extracted
// routes: downstream monotonicity for rivers, plane interpolation for
// tunnels and bridges, and distance-windowed smoothing for everything else.
//
// Corrections read coordinates and working elevations from a node index and
// commit their results into an averaging elevation index.
package correct

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"github.com/azybler/osm_elevation/pkg/elevation"
	"github.com/azybler/osm_elevation/pkg/graph"
	"github.com/azybler/osm_elevation/pkg/nodeindex"
)

// profile is the coordinates and working elevations of one sub-route.
type profile struct {
	ids        []osm.NodeID
	points     []orb.Point
	elevations []int16
	complete   bool // every node is in the node index
	available  bool // complete, and every elevation is valid
}

func loadProfile(path graph.RoutePath, nodes *nodeindex.Index) profile {
	p := profile{
		ids:        path,
		points:     make([]orb.Point, len(path)),
		elevations: make([]int16, len(path)),
		complete:   true,
		available:  len(path) > 0,
	}
	for i, id := range path {
		n, ok := nodes.Get(id)
		if !ok {
			p.elevations[i] = elevation.Invalid
			p.complete = false
			p.available = false
			continue
		}
		p.points[i] = n.Point
		p.elevations[i] = n.Elevation
		if n.Elevation == elevation.Invalid {
			p.available = false
		}
	}
	return p
}

func loadProfiles(route graph.Route, nodes *nodeindex.Index) []profile {
	out := make([]profile, len(route))
	for i, path := range route {
		out[i] = loadProfile(path, nodes)
	}
	return out
}
