package osm

import (
	"github.com/paulmach/osm"

	"github.com/azybler/osm_elevation/pkg/graph"
)

// Limits caps the work done on a single relation.
type Limits struct {
	// MaxStartpoints bounds the walks started from startpoints other than
	// the declared start and end nodes.
	MaxStartpoints int
	// MaxUnfinished bounds how many queued checkpoints are resumed.
	MaxUnfinished int
}

// DefaultLimits returns the caps used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{MaxStartpoints: 200, MaxUnfinished: 10_000}
}

// Extraction is everything a relation range yields for correction.
type Extraction struct {
	Routes            []graph.Route
	Rivers            []graph.Route
	TunnelsAndBridges []graph.TunnelOrBridge
	// InvalidRivers counts rivers whose declared start node was not a
	// startpoint.
	InvalidRivers int
	// CapHits counts relations that stopped at a Limits cap.
	CapHits int
}

// Extract runs every relation of the range through the route processor.
// Way ids expanded into relation routes are added to used so the ways
// phase can skip them; river ways are not recorded.
func (rr *RelationRange) Extract(limits Limits, used map[osm.WayID]struct{}) *Extraction {
	ex := &Extraction{}
	for _, rel := range rr.Relations {
		p := newProcessor(rel, rr.Ways, limits)
		if p == nil {
			continue
		}
		if rel.Route {
			for _, path := range p.routePaths() {
				ex.Routes = append(ex.Routes, graph.Route{path})
			}
			ex.TunnelsAndBridges = append(ex.TunnelsAndBridges, p.tunnels...)
			for id := range p.expanded {
				used[id] = struct{}{}
			}
		} else {
			river, ok := p.river()
			if !ok {
				ex.InvalidRivers++
			} else {
				ex.Rivers = append(ex.Rivers, river)
			}
		}
		if p.capHit {
			ex.CapHits++
		}
	}
	return ex
}

type processor struct {
	riverMode bool
	ways      map[osm.WayID]*Way
	limits    Limits
	g         *graph.RouteGraph
	start     osm.NodeID
	end       osm.NodeID
	tunnels   []graph.TunnelOrBridge
	expanded  map[osm.WayID]struct{}
	capHit    bool
}

// newProcessor categorizes the relation's members and builds its graph.
// It returns nil when no member way is usable.
func newProcessor(rel Relation, ways map[osm.WayID]*Way, limits Limits) *processor {
	members := make([]Member, 0, len(rel.Members))
	for _, m := range rel.Members {
		if w, ok := ways[m.Way]; ok && len(w.Nodes) >= 2 {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return nil
	}

	p := &processor{
		riverMode: rel.River,
		ways:      ways,
		limits:    limits,
		expanded:  make(map[osm.WayID]struct{}),
	}

	first := members[0]
	if w := ways[first.Way]; first.Role == "backward" {
		p.start = w.Back()
	} else {
		p.start = w.Front()
	}
	last := members[len(members)-1]
	if w := ways[last.Way]; last.Role == "forward" || last.Role == "" {
		p.end = w.Front()
	} else {
		p.end = w.Back()
	}

	mode := graph.RouteMode
	if rel.River {
		mode = graph.RiverMode
	}

	var forward, backward, twoWay []graph.Segment
	for _, m := range members {
		w := ways[m.Way]
		switch {
		case m.Role == "forward" || (w.Oneway && m.Role != "backward") || mode.AllForward:
			forward = append(forward, graph.Segment{From: w.Front(), To: w.Back(), ID: w.ID})
		case m.Role == "backward":
			backward = append(backward, graph.Segment{From: w.Back(), To: w.Front(), ID: w.ID})
		default:
			twoWay = append(twoWay, graph.Segment{From: w.Front(), To: w.Back(), ID: w.ID})
		}
	}

	p.g = graph.Build(mode, forward, backward, twoWay)
	return p
}

// routePaths walks the graph from the declared ends, the remaining
// startpoints and finally the queued checkpoints.
func (p *processor) routePaths() []graph.RoutePath {
	paths, _ := p.fromStartpoints(true)
	return append(paths, p.fromUnfinished()...)
}

// river assembles the main stream and its side streams into one route.
// It fails when the river cannot be walked from its declared start.
func (p *processor) river() (graph.Route, bool) {
	main, ok := p.fromStartpoints(false)
	if !ok || len(main) == 0 {
		return nil, false
	}
	return graph.Route(append(main, p.fromUnfinished()...)), true
}

// fromStartpoints reports false when a river's start node is not a
// startpoint.
func (p *processor) fromStartpoints(useEnd bool) ([]graph.RoutePath, bool) {
	p.g.FindStartpoints()

	var paths []graph.RoutePath
	hasStart := p.g.RemoveStartpoint(p.start)
	hasEnd := useEnd && p.g.RemoveStartpoint(p.end)

	if hasStart {
		paths = p.collect(paths, p.g.Traverse(p.start, nil, true))
	} else if p.riverMode {
		return nil, false
	}
	if hasEnd {
		paths = p.collect(paths, p.g.Traverse(p.end, nil, true))
	}

	for count := 0; ; count++ {
		n, ok := p.g.Startpoint()
		if !ok {
			break
		}
		if count >= p.limits.MaxStartpoints {
			p.capHit = true
			break
		}
		paths = p.collect(paths, p.g.Traverse(n, nil, true))
	}
	return paths, true
}

func (p *processor) fromUnfinished() []graph.RoutePath {
	var paths []graph.RoutePath
	for count := 0; ; count++ {
		prefix, ok := p.g.UnfinishedPath()
		if !ok || len(prefix) == 0 {
			break
		}
		if count >= p.limits.MaxUnfinished {
			p.capHit = true
			break
		}
		last, _ := prefix.Last()
		remaining := p.g.Traverse(last, prefix, false)
		if len(remaining) == 0 {
			continue
		}
		paths = p.collect(paths, append(prefix, remaining...))
	}
	return paths
}

// collect expands a walk and, outside rivers, looks for tunnels and
// bridges on it. Empty walks are dropped.
func (p *processor) collect(paths []graph.RoutePath, walk graph.Path) []graph.RoutePath {
	path := p.expand(walk)
	if len(path) == 0 {
		return paths
	}
	if !p.riverMode {
		p.tunnels = append(p.tunnels, findTunnelsAndBridges(walk, p.ways)...)
	}
	return append(paths, path)
}

// expand turns a walk into its full node sequence. The first node is the
// end of the first way the walk did not arrive at; every hop then adds
// its way's nodes without the shared joint.
func (p *processor) expand(walk graph.Path) graph.RoutePath {
	if len(walk) == 0 {
		return nil
	}
	first := walked(p.ways[walk[0].Edge], walk[0].Node)
	path := graph.RoutePath{first[0]}
	for _, h := range walk {
		p.expanded[h.Edge] = struct{}{}
		path = append(path, walked(p.ways[h.Edge], h.Node)[1:]...)
	}
	return path
}
