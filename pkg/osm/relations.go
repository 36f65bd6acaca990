package osm

import (
	"context"
	"log"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// Member is a relation member way with its role.
type Member struct {
	Way  osm.WayID
	Role string
}

// Relation is a route or river relation reduced to its usable members.
type Relation struct {
	ID osm.RelationID
	// Route is set for type=route. A relation that is both a route and a
	// river is assembled as a route.
	Route bool
	// River is set for waterway=river and forces every member forward.
	River   bool
	Members []Member
}

// IsCandidate reports whether a relation takes part in relation ranges.
func IsCandidate(tags osm.Tags) bool {
	return tags.Find("type") == "route" || isRiver(tags)
}

func isRiver(tags osm.Tags) bool {
	return tags.Find("waterway") == "river"
}

func usableMember(m osm.Member) bool {
	return m.Type == osm.TypeWay && m.Role != "link" && m.Role != "platform"
}

func newRelation(r *osm.Relation) Relation {
	rel := Relation{
		ID:    r.ID,
		Route: r.Tags.Find("type") == "route",
		River: isRiver(r.Tags),
	}
	for _, m := range r.Members {
		if !usableMember(m) {
			continue
		}
		rel.Members = append(rel.Members, Member{Way: osm.WayID(m.Ref), Role: m.Role})
	}
	return rel
}

// RelationRange holds the candidate relations numbered [Start, End) and
// every member way they reference.
type RelationRange struct {
	Start, End uint64
	Relations  []Relation
	Ways       map[osm.WayID]*Way
}

// LoadRelationRange collects candidate relations by file-order number
// and then loads their member ways in a second pass.
func LoadRelationRange(ctx context.Context, src *Source, start, end uint64) (*RelationRange, error) {
	rr := &RelationRange{Start: start, End: end, Ways: make(map[osm.WayID]*Way)}

	var count uint64
	err := src.Scan(ctx, KindRelations, func(obj osm.Object) error {
		r := obj.(*osm.Relation)
		if !IsCandidate(r.Tags) {
			return nil
		}
		n := count
		count++
		if n < start || n >= end {
			return nil
		}
		rel := newRelation(r)
		for _, m := range rel.Members {
			rr.Ways[m.Way] = nil
		}
		rr.Relations = append(rr.Relations, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan relations")
	}
	if len(rr.Relations) == 0 {
		return rr, nil
	}

	err = src.Scan(ctx, KindWays, func(obj osm.Object) error {
		w := obj.(*osm.Way)
		if _, needed := rr.Ways[w.ID]; needed {
			rr.Ways[w.ID] = newWay(w)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan member ways")
	}

	var missing int
	for id, w := range rr.Ways {
		if w == nil {
			delete(rr.Ways, id)
			missing++
		}
	}
	if missing > 0 {
		log.Printf("Warning: %d member ways not found in input", missing)
	}
	return rr, nil
}
