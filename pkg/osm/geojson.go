package osm

import (
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"

	"github.com/azybler/osm_elevation/pkg/graph"
	"github.com/azybler/osm_elevation/pkg/nodeindex"
)

// Feature kinds of the debug export.
const (
	FeatureRiver          = "river"
	FeatureTunnelOrBridge = "tunnel_or_bridge"
	FeatureRoute          = "route"
)

// DebugExport collects corrected paths as GeoJSON line strings.
type DebugExport struct {
	fc *geojson.FeatureCollection
}

func NewDebugExport() *DebugExport {
	return &DebugExport{fc: geojson.NewFeatureCollection()}
}

// Add appends one feature per sub-route. Nodes missing from nodes are
// left out; sub-routes with fewer than two located nodes are skipped.
func (d *DebugExport) Add(kind string, rangeNo int, route graph.Route, nodes *nodeindex.Index) {
	for _, path := range route {
		coords := make([][]float64, 0, len(path))
		for _, id := range path {
			n, ok := nodes.Get(id)
			if !ok {
				continue
			}
			coords = append(coords, []float64{n.Point.Lon(), n.Point.Lat()})
		}
		if len(coords) < 2 {
			continue
		}
		f := geojson.NewLineStringFeature(coords)
		f.SetProperty("kind", kind)
		f.SetProperty("range", rangeNo)
		f.SetProperty("first_node", int64(path[0]))
		d.fc.AddFeature(f)
	}
}

// Len returns the number of collected features.
func (d *DebugExport) Len() int { return len(d.fc.Features) }

// WriteFile writes the collection to path, replacing any existing file.
func (d *DebugExport) WriteFile(path string) error {
	b, err := d.fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "marshal geojson")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrap(err, "write geojson")
	}
	return nil
}
