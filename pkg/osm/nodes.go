package osm

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"

	"github.com/azybler/osm_elevation/pkg/elevation"
	"github.com/azybler/osm_elevation/pkg/graph"
	"github.com/azybler/osm_elevation/pkg/nodeindex"
)

// NeededNodes returns every node id referenced by the routes.
func NeededNodes(routes ...[]graph.Route) map[osm.NodeID]struct{} {
	size := 0
	for _, rs := range routes {
		for _, r := range rs {
			size += r.NodeCount()
		}
	}
	needed := make(map[osm.NodeID]struct{}, size)
	for _, rs := range routes {
		for _, r := range rs {
			for _, path := range r {
				for _, id := range path {
					needed[id] = struct{}{}
				}
			}
		}
	}
	return needed
}

// LoadNodes scans the nodes once and indexes those in needed. The
// elevation comes from the integer value of tag; a missing or unparsable
// value is elevation.Invalid.
func LoadNodes(ctx context.Context, src *Source, needed map[osm.NodeID]struct{}, tag string) (*nodeindex.Index, error) {
	idx := nodeindex.New(len(needed))
	err := src.Scan(ctx, KindNodes, func(obj osm.Object) error {
		n := obj.(*osm.Node)
		if _, ok := needed[n.ID]; !ok {
			return nil
		}
		idx.Set(n.ID, n.Lon, n.Lat, parseElevation(n.Tags.Find(tag)))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan nodes")
	}
	idx.Sort()
	return idx, nil
}

// parseElevation reads the leading integer of v: optional whitespace and
// sign, then digits. Anything after the digits ("412.5", "412 m") is
// ignored. Values without leading digits are Invalid.
func parseElevation(v string) int16 {
	v = strings.TrimLeft(v, " \t\n\v\f\r")
	i := 0
	if i < len(v) && (v[i] == '+' || v[i] == '-') {
		i++
	}
	j := i
	for j < len(v) && v[j] >= '0' && v[j] <= '9' {
		j++
	}
	if j == i {
		return elevation.Invalid
	}
	ele, err := strconv.Atoi(v[:j])
	if err != nil || ele < int(elevation.Invalid) || ele > math.MaxInt16 {
		return elevation.Invalid
	}
	return int16(ele)
}
