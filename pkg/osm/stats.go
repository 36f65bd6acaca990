package osm

import (
	"context"
	"log"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// Stats summarises an input file. Candidates counts the relations a
// relation range can select (see IsCandidate); Highways counts the ways
// the ways phase may pick up.
type Stats struct {
	Nodes      uint64
	Ways       uint64
	Relations  uint64
	Candidates uint64
	Highways   uint64
	MinNodeID  osm.NodeID
	MaxNodeID  osm.NodeID
	Bound      orb.Bound
}

// CollectStats scans the whole file once.
func CollectStats(ctx context.Context, src *Source) (Stats, error) {
	start := time.Now()
	var st Stats
	err := src.Scan(ctx, KindAll, func(obj osm.Object) error {
		switch o := obj.(type) {
		case *osm.Node:
			p := orb.Point{o.Lon, o.Lat}
			if st.Nodes == 0 {
				st.MinNodeID, st.MaxNodeID = o.ID, o.ID
				st.Bound = orb.Bound{Min: p, Max: p}
			} else {
				st.MinNodeID = min(st.MinNodeID, o.ID)
				st.MaxNodeID = max(st.MaxNodeID, o.ID)
				st.Bound = st.Bound.Extend(p)
			}
			st.Nodes++
		case *osm.Way:
			st.Ways++
			if o.Tags.HasTag("highway") {
				st.Highways++
			}
		case *osm.Relation:
			st.Relations++
			if IsCandidate(o.Tags) {
				st.Candidates++
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, errors.Wrap(err, "statistics pass")
	}

	log.Printf("Statistics pass complete in %v: %d nodes, %d ways (%d highways), %d relations (%d route/river)",
		time.Since(start).Round(time.Millisecond), st.Nodes, st.Ways, st.Highways, st.Relations, st.Candidates)
	return st, nil
}
