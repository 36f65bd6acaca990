package elevation

// Compact freezes a processed Average into a read-only store. The dense
// form costs 14 bits per possible id, the sparse form 10 bytes per stored id.
func Compact(a *Average, useDense bool) Index {
	if useDense {
		d := NewDense(a.MaxID())
		a.Each(d.Set)
		return d
	}
	s := NewSparse(a.Len())
	a.Each(s.Set)
	s.Process()
	return s
}

// PreferDense reports whether a file with nodeCount nodes should use the
// dense form, given the configured threshold. A zero threshold disables it.
func PreferDense(nodeCount, threshold uint64) bool {
	return threshold > 0 && nodeCount >= threshold
}

var (
	_ Index = (*Dense)(nil)
	_ Index = (*Sparse)(nil)
	_ Index = (*Average)(nil)
)
