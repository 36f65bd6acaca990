// Package nodeindex holds the coordinates and working elevations of the
// nodes touched by one processing range.
package nodeindex

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"github.com/azybler/osm_elevation/pkg/elevation"
)

// Node is one indexed node.
type Node struct {
	ID        osm.NodeID
	Point     orb.Point
	Elevation int16
}

// Index is an append-then-sort array of nodes. Get and UpdateElevation are
// only valid after Sort.
type Index struct {
	nodes  []Node
	sorted bool
}

// New returns an empty index with room for capacity nodes.
func New(capacity int) *Index {
	return &Index{nodes: make([]Node, 0, capacity)}
}

// Set appends a node. Call Sort before any lookups.
func (x *Index) Set(id osm.NodeID, lon, lat float64, elev int16) {
	x.nodes = append(x.nodes, Node{ID: id, Point: orb.Point{lon, lat}, Elevation: elev})
	x.sorted = false
}

// Sort orders nodes by id and drops duplicates, keeping the first one set.
func (x *Index) Sort() {
	sort.SliceStable(x.nodes, func(i, j int) bool {
		return x.nodes[i].ID < x.nodes[j].ID
	})
	out := x.nodes[:0]
	for _, n := range x.nodes {
		if len(out) > 0 && out[len(out)-1].ID == n.ID {
			continue
		}
		out = append(out, n)
	}
	x.nodes = out
	x.sorted = true
}

func (x *Index) search(id osm.NodeID) int {
	i := sort.Search(len(x.nodes), func(i int) bool {
		return x.nodes[i].ID >= id
	})
	if i < len(x.nodes) && x.nodes[i].ID == id {
		return i
	}
	return -1
}

// Get returns the node with the given id.
func (x *Index) Get(id osm.NodeID) (Node, bool) {
	if i := x.search(id); i >= 0 {
		return x.nodes[i], true
	}
	return Node{}, false
}

// Elevation returns the working elevation of id, or elevation.Invalid when
// the node is unknown.
func (x *Index) Elevation(id osm.NodeID) int16 {
	if i := x.search(id); i >= 0 {
		return x.nodes[i].Elevation
	}
	return elevation.Invalid
}

// UpdateElevation overwrites the working elevation of id. It reports
// whether the node was present.
func (x *Index) UpdateElevation(id osm.NodeID, elev int16) bool {
	i := x.search(id)
	if i < 0 {
		return false
	}
	x.nodes[i].Elevation = elev
	return true
}

// Len returns the number of nodes.
func (x *Index) Len() int { return len(x.nodes) }

// Sorted reports whether lookups are currently valid.
func (x *Index) Sorted() bool { return x.sorted }

// Clear drops all nodes and releases the backing array.
func (x *Index) Clear() {
	x.nodes = nil
	x.sorted = false
}
