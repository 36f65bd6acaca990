package elevation

import (
	"sort"

	"github.com/paulmach/osm"
)

type idElevation struct {
	id   osm.NodeID
	elev int16
}

// Sparse stores (id, elevation) pairs. Writes are appended and resolved by
// Process, which keeps the last write for every id.
type Sparse struct {
	entries []idElevation
}

// NewSparse returns a sparse index with room for capacity entries.
func NewSparse(capacity int) *Sparse {
	return &Sparse{entries: make([]idElevation, 0, capacity)}
}

// Set appends a write. Invalid values are ignored.
func (s *Sparse) Set(id osm.NodeID, elev int16) {
	if elev == Invalid {
		return
	}
	s.entries = append(s.entries, idElevation{id: id, elev: elev})
}

// Process sorts by id and drops all but the last write per id.
func (s *Sparse) Process() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].id < s.entries[j].id
	})

	out := s.entries[:0]
	for _, e := range s.entries {
		if n := len(out); n > 0 && out[n-1].id == e.id {
			out[n-1] = e
			continue
		}
		out = append(out, e)
	}
	s.entries = out
}

// Get returns the elevation for id, or Invalid.
func (s *Sparse) Get(id osm.NodeID) int16 {
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].id >= id
	})
	if i < len(s.entries) && s.entries[i].id == id {
		return s.entries[i].elev
	}
	return Invalid
}

// Len returns the number of stored entries.
func (s *Sparse) Len() int { return len(s.entries) }
