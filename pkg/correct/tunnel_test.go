package correct

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azybler/osm_elevation/pkg/elevation"
	"github.com/azybler/osm_elevation/pkg/graph"
)

// tunnelNodes lays out 11 nodes about 11 m apart going north. Nodes 4..8
// are the span, whose elevations come from the terrain above it.
func tunnelNodes(elevs ...int16) []testNode {
	nodes := make([]testNode, len(elevs))
	for i, e := range elevs {
		nodes[i] = testNode{id: osm.NodeID(i + 1), lon: 7, lat: 47 + 0.0001*float64(i), elev: e}
	}
	return nodes
}

func TestTunnelOrBridge(t *testing.T) {
	forward := graph.TunnelOrBridge{
		Approach:  graph.RoutePath{4, 3, 2, 1},
		Span:      graph.RoutePath{4, 5, 6, 7, 8},
		Departure: graph.RoutePath{8, 9, 10, 11},
	}
	reversed := graph.TunnelOrBridge{
		Approach:  graph.RoutePath{8, 9, 10, 11},
		Span:      graph.RoutePath{8, 7, 6, 5, 4},
		Departure: graph.RoutePath{4, 3, 2, 1},
	}

	tests := []struct {
		name      string
		tb        graph.TunnelOrBridge
		elevs     []int16
		wantNodes []int16
		wantIndex []int16
	}{
		{
			name:      "flat",
			tb:        forward,
			elevs:     []int16{10, 10, 30, 100, 100, 100, 100, 100, 30, 10, 10},
			wantNodes: []int16{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10},
			wantIndex: []int16{inv, 10, 10, 10, 10, 10, 10, 10, 10, 10, inv},
		},
		{
			name:      "slope",
			tb:        forward,
			elevs:     []int16{10, 10, 20, 100, 100, 100, 100, 100, 50, 40, 40},
			wantNodes: []int16{10, 10, 14, 18, 21, 25, 29, 33, 36, 40, 40},
			wantIndex: []int16{inv, 10, 14, 18, 21, 25, 29, 33, 36, 40, inv},
		},
		{
			name:      "slope walked the other way",
			tb:        reversed,
			elevs:     []int16{10, 10, 20, 100, 100, 100, 100, 100, 50, 40, 40},
			wantNodes: []int16{10, 10, 14, 18, 21, 25, 29, 33, 36, 40, 40},
			wantIndex: []int16{inv, 10, 14, 18, 21, 25, 29, 33, 36, 40, inv},
		},
		{
			name:      "unknown elevation inside the span is fine",
			tb:        forward,
			elevs:     []int16{10, 10, 20, 100, inv, inv, 100, 100, 50, 40, 40},
			wantNodes: []int16{10, 10, 14, 18, 21, 25, 29, 33, 36, 40, 40},
			wantIndex: []int16{inv, 10, 14, 18, 21, 25, 29, 33, 36, 40, inv},
		},
		{
			name:      "unknown anchor",
			tb:        forward,
			elevs:     []int16{10, inv, 20, 100, 100, 100, 100, 100, 50, 40, 40},
			wantNodes: []int16{10, inv, 20, 100, 100, 100, 100, 100, 50, 40, 40},
			wantIndex: []int16{inv, inv, inv, inv, inv, inv, inv, inv, inv, inv, inv},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := buildIndex(tunnelNodes(tt.elevs...)...)
			idx := elevation.NewAverage(11)

			applied := TunnelOrBridge(tt.tb, nodes, idx, DefaultAnchorDistance)
			idx.Process()

			assert.Equal(t, tt.wantIndex[1] != inv, applied)
			assertNodes(t, nodes, tt.wantNodes...)
			assertIndex(t, idx, tt.wantIndex...)
		})
	}
}

func TestTunnelOrBridgeLocksSpan(t *testing.T) {
	nodes := buildIndex(tunnelNodes(10, 10, 30, 100, 100, 100, 100, 100, 30, 10, 10)...)
	idx := elevation.NewAverage(11)

	require.True(t, TunnelOrBridge(graph.TunnelOrBridge{
		Approach:  graph.RoutePath{4, 3, 2, 1},
		Span:      graph.RoutePath{4, 5, 6, 7, 8},
		Departure: graph.RoutePath{8, 9, 10, 11},
	}, nodes, idx, DefaultAnchorDistance))

	// A later smoothing sample cannot move span nodes, but does move the
	// approach.
	idx.Set(6, 500)
	idx.Set(3, 30)
	idx.Process()

	assert.True(t, idx.Locked(6))
	assert.Equal(t, int16(10), idx.Get(6))
	assert.False(t, idx.Locked(3))
	assert.Equal(t, int16(20), idx.Get(3))
}

func TestTunnelOrBridgeMissingNode(t *testing.T) {
	nodes := buildIndex(tunnelNodes(10, 10, 30, 100, 100, 100, 100, 100, 30, 10)...)
	idx := elevation.NewAverage(0)

	applied := TunnelOrBridge(graph.TunnelOrBridge{
		Approach:  graph.RoutePath{4, 3, 2, 1},
		Span:      graph.RoutePath{4, 5, 6, 7, 8},
		Departure: graph.RoutePath{8, 9, 10, 11},
	}, nodes, idx, DefaultAnchorDistance)

	assert.False(t, applied)
	assert.Zero(t, idx.Len())
}

func TestTunnelOrBridgeAnchorDefaultsToFirstNode(t *testing.T) {
	// Neighbours 111 m apart: both anchors fall back to index 1.
	nodes := buildIndex(
		testNode{1, 7, 47.000, 10},
		testNode{2, 7, 47.001, 99},
		testNode{3, 7, 47.002, 30},
	)
	idx := elevation.NewAverage(0)

	require.True(t, TunnelOrBridge(graph.TunnelOrBridge{
		Approach:  graph.RoutePath{2, 1},
		Span:      graph.RoutePath{2},
		Departure: graph.RoutePath{2, 3},
	}, nodes, idx, DefaultAnchorDistance))
	idx.Process()

	assert.Equal(t, int16(20), idx.Get(2))
	assert.Equal(t, int16(10), idx.Get(1))
	assert.Equal(t, int16(30), idx.Get(3))
}
