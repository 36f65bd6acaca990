package graph

import "github.com/paulmach/osm"

// RoutePath is a fully expanded, ordered sequence of node ids.
type RoutePath []osm.NodeID

// Route is one or more sub-routes corrected together. Rivers use several
// sub-routes that share nodes at confluences; everything else has one.
type Route []RoutePath

// NodeCount returns the total number of node references over all
// sub-routes.
func (r Route) NodeCount() int {
	n := 0
	for _, p := range r {
		n += len(p)
	}
	return n
}

// TunnelOrBridge is a tagged span together with the ordinary ways before
// and after it. Approach and Departure both start at the span boundary and
// lead away from it.
type TunnelOrBridge struct {
	Approach  RoutePath
	Span      RoutePath
	Departure RoutePath
}

// Route returns the three parts as one route in approach, span, departure
// order.
func (tb TunnelOrBridge) Route() Route {
	return Route{tb.Approach, tb.Span, tb.Departure}
}
