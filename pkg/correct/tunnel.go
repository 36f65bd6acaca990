package correct

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/azybler/osm_elevation/pkg/elevation"
	"github.com/azybler/osm_elevation/pkg/geo"
	"github.com/azybler/osm_elevation/pkg/graph"
	"github.com/azybler/osm_elevation/pkg/nodeindex"
)

// DefaultAnchorDistance is how far, in meters, anchors may lie from the span.
const DefaultAnchorDistance = 30.0

// TunnelOrBridge replaces the elevations of a tunnel or bridge by a plane
// through two anchors, one on each side. An anchor is the last node of the
// approach (departure) that is still within anchorDistance of the span
// boundary, or the first node after the boundary when none is.
//
// Span nodes are committed as locked tunnel/bridge values; approach and
// departure nodes up to the anchors as plain samples. The node index is
// updated with the rounded values so later corrections see them. It
// reports false when an anchor has no elevation or the plane is vertical.
func TunnelOrBridge(tb graph.TunnelOrBridge, nodes *nodeindex.Index, idx *elevation.Average, anchorDistance float64) bool {
	approach := loadProfile(tb.Approach, nodes)
	span := loadProfile(tb.Span, nodes)
	departure := loadProfile(tb.Departure, nodes)
	if len(approach.ids) < 2 || len(departure.ids) < 2 || len(span.ids) == 0 {
		return false
	}
	if !span.complete || !approach.complete || !departure.complete {
		return false
	}

	before := anchor(approach, span.points[0], anchorDistance)
	after := anchor(departure, span.points[len(span.points)-1], anchorDistance)

	startElev := approach.elevations[before]
	endElev := departure.elevations[after]
	if startElev == elevation.Invalid || endElev == elevation.Invalid {
		return false
	}

	plane, ok := geo.PlaneThrough(
		geo.Vec3{X: approach.points[before].Lon(), Y: approach.points[before].Lat(), Z: float64(startElev)},
		geo.Vec3{X: departure.points[after].Lon(), Y: departure.points[after].Lat(), Z: float64(endElev)},
	)
	if !ok {
		return false
	}

	sample := func(p orb.Point) float32 {
		return float32(plane.Height(p.Lon(), p.Lat()))
	}
	for i, id := range span.ids {
		z := sample(span.points[i])
		idx.SetTunnelOrBridge(id, z)
		nodes.UpdateElevation(id, round(z))
	}
	for _, side := range []struct {
		p      profile
		anchor int
	}{{approach, before}, {departure, after}} {
		for i := 1; i <= side.anchor; i++ {
			z := sample(side.p.points[i])
			idx.SetFloat(side.p.ids[i], z)
			nodes.UpdateElevation(side.p.ids[i], round(z))
		}
	}
	return true
}

func anchor(p profile, boundary orb.Point, maxDist float64) int {
	a := 1
	for i := 1; i < len(p.points); i++ {
		if geo.EquirectangularDist(boundary, p.points[i]) >= maxDist {
			break
		}
		a = i
	}
	return a
}

// round matches how the averaging index rounds its float samples.
func round(z float32) int16 {
	return int16(math.Round(float64(z)))
}
