package elevation

import "github.com/paulmach/osm"

// Dense stores an elevation for every node id in [1, maxID].
// A zeroed buffer decodes as Invalid everywhere, so no initialisation pass
// is needed.
type Dense struct {
	maxID osm.NodeID
	data  []byte
	valid int
}

// NewDense allocates a dense index for ids 1..maxID.
func NewDense(maxID osm.NodeID) *Dense {
	if maxID < 0 {
		maxID = 0
	}
	return &Dense{
		maxID: maxID,
		data:  make([]byte, PackedLen(uint64(maxID)+1)),
	}
}

// MaxID returns the largest addressable node id.
func (d *Dense) MaxID() osm.NodeID { return d.maxID }

// Set stores elev for id. Ids outside [1, maxID] are ignored.
func (d *Dense) Set(id osm.NodeID, elev int16) {
	if id < 1 || id > d.maxID {
		return
	}
	if !Encodable(elev) {
		elev = Invalid
	}
	prev := Decode(d.data, uint64(id))
	Encode(d.data, uint64(id), elev)
	switch {
	case prev == Invalid && elev != Invalid:
		d.valid++
	case prev != Invalid && elev == Invalid:
		d.valid--
	}
}

// Get returns the elevation for id, or Invalid.
func (d *Dense) Get(id osm.NodeID) int16 {
	if id < 1 || id > d.maxID {
		return Invalid
	}
	return Decode(d.data, uint64(id))
}

// Process is a no-op; dense writes are visible immediately.
func (d *Dense) Process() {}

// Len returns the number of ids with a valid elevation.
func (d *Dense) Len() int { return d.valid }
