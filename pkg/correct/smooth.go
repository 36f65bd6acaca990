package correct

import (
	"github.com/azybler/osm_elevation/pkg/elevation"
	"github.com/azybler/osm_elevation/pkg/geo"
	"github.com/azybler/osm_elevation/pkg/graph"
	"github.com/azybler/osm_elevation/pkg/nodeindex"
	"github.com/azybler/osm_elevation/pkg/smooth"
)

// DefaultSmoothingWindow is the full smoothing window in meters.
const DefaultSmoothingWindow = 60.0

// SmoothResult counts the sub-routes of one route by outcome.
type SmoothResult struct {
	Smoothed int
	Skipped  int
}

// SmoothRoute replaces every node's elevation by the moving average over
// window meters of path centred on it, per sub-route. Sub-routes with any
// unknown elevation are skipped. Results go to idx as plain samples; the
// node index is left untouched.
func SmoothRoute(route graph.Route, nodes *nodeindex.Index, idx *elevation.Average, window float64) SmoothResult {
	var res SmoothResult
	half := window / 2
	for _, p := range loadProfiles(route, nodes) {
		if !p.available {
			res.Skipped++
			continue
		}
		values := make([]float64, len(p.elevations))
		for i, e := range p.elevations {
			values[i] = float64(e)
		}
		smoothed := smooth.SMALinear(values, geo.CumulativeDistances(p.points), half, half)
		for i, id := range p.ids {
			idx.SetFloat(id, float32(smoothed[i]))
		}
		res.Smoothed++
	}
	return res
}
