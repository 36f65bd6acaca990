package correct

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"

	"github.com/azybler/osm_elevation/pkg/elevation"
	"github.com/azybler/osm_elevation/pkg/nodeindex"
)

type testNode struct {
	id       osm.NodeID
	lon, lat float64
	elev     int16
}

func buildIndex(nodes ...testNode) *nodeindex.Index {
	x := nodeindex.New(len(nodes))
	for _, n := range nodes {
		x.Set(n.id, n.lon, n.lat, n.elev)
	}
	x.Sort()
	return x
}

// assertIndex checks idx.Get(i+1) == want[i] for every i.
func assertIndex(t *testing.T, idx elevation.Lookup, want ...int16) {
	t.Helper()
	for i, w := range want {
		assert.Equal(t, w, idx.Get(osm.NodeID(i+1)), "elevation index, node %d", i+1)
	}
}

// assertNodes checks the working elevation of node i+1 is want[i].
func assertNodes(t *testing.T, x *nodeindex.Index, want ...int16) {
	t.Helper()
	for i, w := range want {
		assert.Equal(t, w, x.Elevation(osm.NodeID(i+1)), "node index, node %d", i+1)
	}
}
