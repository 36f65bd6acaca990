package elevation

import (
	"math"
	"sort"

	"github.com/paulmach/osm"
)

type averageEntry struct {
	id     osm.NodeID
	sum    float32
	count  uint16
	locked bool // written by a tunnel/bridge correction
}

// Average accumulates elevation samples per node id.
//
// Plain samples are averaged. A tunnel/bridge sample locks the id: it
// replaces whatever was accumulated, later plain samples are ignored, and
// only a later tunnel/bridge sample can replace it.
type Average struct {
	entries []averageEntry
}

// NewAverage returns an averaging index with room for capacity entries.
func NewAverage(capacity int) *Average {
	return &Average{entries: make([]averageEntry, 0, capacity)}
}

// Set adds a plain integer sample.
func (a *Average) Set(id osm.NodeID, elev int16) {
	if elev == Invalid {
		return
	}
	a.entries = append(a.entries, averageEntry{id: id, sum: float32(elev), count: 1})
}

// SetFloat adds a plain fractional sample.
func (a *Average) SetFloat(id osm.NodeID, elev float32) {
	if !usable(elev) {
		return
	}
	a.entries = append(a.entries, averageEntry{id: id, sum: elev, count: 1})
}

// SetTunnelOrBridge adds an authoritative sample that locks the id.
func (a *Average) SetTunnelOrBridge(id osm.NodeID, elev float32) {
	if !usable(elev) {
		return
	}
	a.entries = append(a.entries, averageEntry{id: id, sum: elev, count: 1, locked: true})
}

func usable(elev float32) bool {
	f := float64(elev)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && elev != float32(Invalid)
}

// Process sorts by id and merges duplicate entries in insertion order.
func (a *Average) Process() {
	sort.SliceStable(a.entries, func(i, j int) bool {
		return a.entries[i].id < a.entries[j].id
	})

	out := a.entries[:0]
	for _, e := range a.entries {
		n := len(out)
		if n == 0 || out[n-1].id != e.id {
			out = append(out, e)
			continue
		}
		cur := &out[n-1]
		switch {
		case e.locked:
			*cur = averageEntry{id: e.id, sum: e.sum, count: 1, locked: true}
		case cur.locked:
			// Plain samples never override a tunnel/bridge value.
		case uint32(cur.count)+uint32(e.count) > math.MaxUint16:
			// Saturated; further samples would not move the mean noticeably.
		default:
			cur.sum += e.sum
			cur.count += e.count
		}
	}
	a.entries = out
}

// Get returns the rounded mean for id, or Invalid.
func (a *Average) Get(id osm.NodeID) int16 {
	i := a.search(id)
	if i < 0 {
		return Invalid
	}
	e := a.entries[i]
	return int16(math.Round(float64(e.sum) / float64(e.count)))
}

// Locked reports whether id holds a tunnel/bridge value.
func (a *Average) Locked(id osm.NodeID) bool {
	i := a.search(id)
	return i >= 0 && a.entries[i].locked
}

func (a *Average) search(id osm.NodeID) int {
	i := sort.Search(len(a.entries), func(i int) bool {
		return a.entries[i].id >= id
	})
	if i < len(a.entries) && a.entries[i].id == id {
		return i
	}
	return -1
}

// Len returns the number of entries, merged or not.
func (a *Average) Len() int { return len(a.entries) }

// MaxID returns the largest id present. Process must have been called.
func (a *Average) MaxID() osm.NodeID {
	if len(a.entries) == 0 {
		return 0
	}
	return a.entries[len(a.entries)-1].id
}

// Each calls fn with every id and its rounded elevation in id order.
// Process must have been called.
func (a *Average) Each(fn func(id osm.NodeID, elev int16)) {
	for _, e := range a.entries {
		fn(e.id, int16(math.Round(float64(e.sum)/float64(e.count))))
	}
}
