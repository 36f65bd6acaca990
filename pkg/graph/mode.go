package graph

// Mode captures the ways river traversal differs from route traversal.
type Mode struct {
	Name string

	// AllForward orients every member from its first to its last node,
	// ignoring roles and oneway tags.
	AllForward bool

	// StopOnKnownEdge ends a walk right after it consumes an edge that an
	// earlier walk already used.
	StopOnKnownEdge bool

	// CheckpointLastHop queues only the last hop at a fork instead of the
	// whole path walked so far.
	CheckpointLastHop bool
}

var (
	// RouteMode walks roads and other linear routes.
	RouteMode = Mode{Name: "route"}

	// RiverMode walks waterways, whose direction is given by digitization.
	RiverMode = Mode{
		Name:              "river",
		AllForward:        true,
		StopOnKnownEdge:   true,
		CheckpointLastHop: true,
	}
)

func (m Mode) String() string { return m.Name }
