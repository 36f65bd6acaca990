// Package elevation holds the per-node elevation stores used while
// correcting routes and when writing the corrected file.
//
// Three stores share the Index interface:
//   - Dense: 14 bits per node id, directly addressed.
//   - Sparse: sorted (id, elevation) pairs, last write wins.
//   - Average: sorted (id, sum, count) entries that average plain writes
//     and let tunnel/bridge writes override them.
package elevation

import "github.com/paulmach/osm"

const (
	// Invalid marks an unknown elevation. It is never stored as a real value.
	Invalid int16 = -1000

	// MinEarth and MaxEarth bound plausible terrain elevations in meters.
	MinEarth int16 = -600
	MaxEarth int16 = 9000
)

// Lookup is the read side used by the writer and the lookup server.
type Lookup interface {
	// Get returns the elevation for id, or Invalid if unknown.
	Get(id osm.NodeID) int16
}

// Index is a writable elevation store.
// Process must be called after a batch of Set calls before Get is reliable.
type Index interface {
	Lookup
	Set(id osm.NodeID, elev int16)
	Process()
	Len() int
}

// Valid reports whether elev is a real elevation value.
func Valid(elev int16) bool {
	return elev != Invalid
}
