package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the counters of one correction run. They live in their own
// registry so a run can be written out as a textfile.
type Metrics struct {
	reg *prometheus.Registry

	relations        prometheus.Counter
	found            *prometheus.CounterVec
	rivers           *prometheus.CounterVec
	riverCapHits     prometheus.Counter
	nodesLowered     prometheus.Counter
	traversalCapHits prometheus.Counter
	tunnels          *prometheus.CounterVec
	subRoutes        *prometheus.CounterVec
	ranges           *prometheus.CounterVec
	nodes            prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		relations: f.NewCounter(prometheus.CounterOpts{
			Name: "osm_elevation_relations_processed_total",
			Help: "Route and river relations run through the route processor",
		}),
		found: f.NewCounterVec(prometheus.CounterOpts{
			Name: "osm_elevation_found_total",
			Help: "Routes, rivers and tunnels/bridges extracted, by kind",
		}, []string{"kind"}),
		rivers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "osm_elevation_rivers_total",
			Help: "Rivers by correction result",
		}, []string{"result"}),
		riverCapHits: f.NewCounter(prometheus.CounterOpts{
			Name: "osm_elevation_river_iteration_cap_hits_total",
			Help: "Rivers whose confluence re-checks stopped at the iteration cap",
		}),
		nodesLowered: f.NewCounter(prometheus.CounterOpts{
			Name: "osm_elevation_river_nodes_lowered_total",
			Help: "River nodes lowered to keep the river flowing downhill",
		}),
		traversalCapHits: f.NewCounter(prometheus.CounterOpts{
			Name: "osm_elevation_traversal_cap_hits_total",
			Help: "Relations whose graph walk stopped at a startpoint or checkpoint cap",
		}),
		tunnels: f.NewCounterVec(prometheus.CounterOpts{
			Name: "osm_elevation_tunnels_bridges_total",
			Help: "Tunnels and bridges by correction result",
		}, []string{"result"}),
		subRoutes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "osm_elevation_subroutes_total",
			Help: "Route paths by smoothing result",
		}, []string{"result"}),
		ranges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "osm_elevation_ranges_total",
			Help: "Processing ranges completed, by phase",
		}, []string{"phase"}),
		nodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "osm_elevation_range_nodes",
			Help: "Nodes held in the node index of the current range",
		}),
	}
}

// Registry exposes the run's metrics, e.g. for promhttp.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteFile writes all metrics in the Prometheus text format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
