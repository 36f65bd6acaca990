package osm

import (
	"context"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"

	"github.com/azybler/osm_elevation/pkg/graph"
)

// Way is the part of an OSM way the route processor needs.
type Way struct {
	ID    osm.WayID
	Nodes []osm.NodeID
	// Oneway is oneway=yes.
	Oneway bool
	// TunnelOrBridge is set when the way has a tunnel or bridge key.
	TunnelOrBridge bool
	// Sloped is set when the way has an embankment or incline key.
	Sloped bool
}

func newWay(w *osm.Way) *Way {
	nodes := make([]osm.NodeID, len(w.Nodes))
	for i, wn := range w.Nodes {
		nodes[i] = wn.ID
	}
	return &Way{
		ID:             w.ID,
		Nodes:          nodes,
		Oneway:         w.Tags.Find("oneway") == "yes",
		TunnelOrBridge: w.Tags.HasTag("tunnel") || w.Tags.HasTag("bridge"),
		Sloped:         w.Tags.HasTag("embankment") || w.Tags.HasTag("incline"),
	}
}

// Front returns the way's first node.
func (w *Way) Front() osm.NodeID { return w.Nodes[0] }

// Back returns the way's last node.
func (w *Way) Back() osm.NodeID { return w.Nodes[len(w.Nodes)-1] }

// WayRoutes is one slice of the ways phase.
type WayRoutes struct {
	Start, End uint64
	Routes     []graph.Route
}

// LoadWayRoutes numbers every highway way not in used in file order and
// turns those numbered [start, end) into single-path routes.
func LoadWayRoutes(ctx context.Context, src *Source, used map[osm.WayID]struct{}, start, end uint64) (*WayRoutes, error) {
	wr := &WayRoutes{Start: start, End: end}

	var count uint64
	err := src.Scan(ctx, KindWays, func(obj osm.Object) error {
		w := obj.(*osm.Way)
		if !w.Tags.HasTag("highway") {
			return nil
		}
		if _, ok := used[w.ID]; ok {
			return nil
		}
		n := count
		count++
		if n < start || n >= end {
			return nil
		}
		path := make(graph.RoutePath, len(w.Nodes))
		for i, wn := range w.Nodes {
			path[i] = wn.ID
		}
		wr.Routes = append(wr.Routes, graph.Route{path})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan highway ways")
	}
	return wr, nil
}
