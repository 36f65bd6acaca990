// Package pipeline runs elevation correction over a whole OSM file in
// memory-bounded ranges: first relation ranges (rivers, tunnels and
// bridges, route smoothing), then ranges of the remaining highway ways.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/paulmach/osm"

	"github.com/azybler/osm_elevation/pkg/config"
	"github.com/azybler/osm_elevation/pkg/correct"
	"github.com/azybler/osm_elevation/pkg/elevation"
	"github.com/azybler/osm_elevation/pkg/graph"
	"github.com/azybler/osm_elevation/pkg/nodeindex"
	osmfile "github.com/azybler/osm_elevation/pkg/osm"
)

var (
	ErrInputMissing = errors.New("input file does not exist")
	ErrOutputExists = errors.New("output file already exists")
)

// CheckPaths fails when input is missing or output is already there.
// An empty output is not checked.
func CheckPaths(input, output string) error {
	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", input, ErrInputMissing)
		}
		return fmt.Errorf("stat input: %w", err)
	}
	if output == "" {
		return nil
	}
	if _, err := os.Stat(output); err == nil {
		return fmt.Errorf("%s: %w", output, ErrOutputExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat output: %w", err)
	}
	return nil
}

// Summary totals one CorrectRoutes run.
type Summary struct {
	RelationRanges int
	WayRanges      int
	Routes         int
	Rivers         int
	Tunnels        int
	WayRoutes      int
}

// Corrector owns the averaging elevation index of a run. Call Initialize,
// CorrectRoutes and WriteOutput in that order.
type Corrector struct {
	cfg     config.Config
	src     *osmfile.Source
	stats   osmfile.Stats
	index   *elevation.Average
	metrics *Metrics
	debug   *osmfile.DebugExport

	relationsPerRange uint64
	waysPerRange      uint64
	usedWays          map[osm.WayID]struct{}
}

// New opens input for a run configured by cfg.
func New(input string, cfg config.Config) (*Corrector, error) {
	if err := CheckPaths(input, ""); err != nil {
		return nil, err
	}
	src, err := osmfile.Open(input)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	c := &Corrector{
		cfg:      cfg,
		src:      src,
		metrics:  NewMetrics(),
		usedWays: make(map[osm.WayID]struct{}),
	}
	if cfg.GeoJSONFile != "" {
		c.debug = osmfile.NewDebugExport()
	}
	return c, nil
}

// Metrics returns the run's metrics.
func (c *Corrector) Metrics() *Metrics { return c.metrics }

// Stats returns the statistics gathered by Initialize.
func (c *Corrector) Stats() osmfile.Stats { return c.stats }

// Index returns the averaging index holding every correction so far.
func (c *Corrector) Index() *elevation.Average { return c.index }

// Initialize runs the statistics pass, sizes the elevation index and picks
// the range sizes.
func (c *Corrector) Initialize(ctx context.Context) error {
	stats, err := osmfile.CollectStats(ctx, c.src)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	c.stats = stats
	c.index = elevation.NewAverage(int(stats.Nodes / 2))
	c.index.Process()

	memGB := c.cfg.MemoryGB
	if memGB == 0 {
		memGB = DetectMemoryGB()
	}
	c.relationsPerRange, c.waysPerRange = RangeSizes(memGB, c.cfg.RelationsPerGB, c.cfg.WaysPerGB)
	log.Printf("Using %d GB: %d relations and %d ways per range", memGB, c.relationsPerRange, c.waysPerRange)
	return nil
}

// CorrectRoutes corrects every relation range and then every way range.
func (c *Corrector) CorrectRoutes(ctx context.Context) (Summary, error) {
	if c.index == nil {
		return Summary{}, errors.New("correct routes: not initialized")
	}
	start := time.Now()
	var sum Summary

	log.Println("Correcting routes from relations...")
	for first := uint64(0); first < c.stats.Candidates; first += c.relationsPerRange {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		done, err := c.correctRelationRange(ctx, sum.RelationRanges, first, first+c.relationsPerRange, &sum)
		if err != nil {
			return sum, fmt.Errorf("relation range %d: %w", sum.RelationRanges, err)
		}
		if done {
			break
		}
		sum.RelationRanges++
	}

	log.Println("Correcting remaining routes from ways...")
	for first := uint64(0); first < c.stats.Highways; first += c.waysPerRange {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		done, err := c.correctWayRange(ctx, sum.RelationRanges+sum.WayRanges, first, first+c.waysPerRange, &sum)
		if err != nil {
			return sum, fmt.Errorf("way range %d: %w", sum.WayRanges, err)
		}
		if done {
			break
		}
		sum.WayRanges++
	}

	log.Printf("Corrected %d routes, %d rivers, %d tunnels/bridges and %d ways in %v",
		sum.Routes, sum.Rivers, sum.Tunnels, sum.WayRoutes, time.Since(start).Round(time.Second))
	return sum, nil
}

func (c *Corrector) limits() osmfile.Limits {
	return osmfile.Limits{MaxStartpoints: c.cfg.MaxStartpoints, MaxUnfinished: c.cfg.MaxUnfinished}
}

// correctRelationRange reports done when the range produced neither
// routes nor rivers; no later relation range is processed after that.
func (c *Corrector) correctRelationRange(ctx context.Context, rangeNo int, first, end uint64, sum *Summary) (bool, error) {
	rr, err := osmfile.LoadRelationRange(ctx, c.src, first, end)
	if err != nil {
		return false, err
	}
	ex := rr.Extract(c.limits(), c.usedWays)

	c.metrics.relations.Add(float64(len(rr.Relations)))
	c.metrics.found.WithLabelValues(osmfile.FeatureRoute).Add(float64(len(ex.Routes)))
	c.metrics.found.WithLabelValues(osmfile.FeatureRiver).Add(float64(len(ex.Rivers)))
	c.metrics.found.WithLabelValues(osmfile.FeatureTunnelOrBridge).Add(float64(len(ex.TunnelsAndBridges)))
	c.metrics.rivers.WithLabelValues("invalid").Add(float64(ex.InvalidRivers))
	c.metrics.traversalCapHits.Add(float64(ex.CapHits))

	log.Printf("Range %d: %d relations, %d routes, %d rivers, %d tunnels/bridges",
		rangeNo, len(rr.Relations), len(ex.Routes), len(ex.Rivers), len(ex.TunnelsAndBridges))
	if len(ex.Routes) == 0 && len(ex.Rivers) == 0 {
		return true, nil
	}

	nodes, err := c.loadNodes(ctx, ex.Routes, ex.Rivers)
	if err != nil {
		return false, err
	}

	c.correctRivers(rangeNo, ex.Rivers, nodes)
	c.correctTunnelsAndBridges(rangeNo, ex.TunnelsAndBridges, nodes)
	c.smoothRoutes(rangeNo, ex.Routes, nodes)

	nodes.Clear()
	c.metrics.nodes.Set(0)
	c.index.Process()
	c.metrics.ranges.WithLabelValues("relations").Inc()

	sum.Routes += len(ex.Routes)
	sum.Rivers += len(ex.Rivers)
	sum.Tunnels += len(ex.TunnelsAndBridges)
	return false, nil
}

// correctWayRange reports done when the range held no ways, which means
// every later range is empty as well.
func (c *Corrector) correctWayRange(ctx context.Context, rangeNo int, first, end uint64, sum *Summary) (bool, error) {
	wr, err := osmfile.LoadWayRoutes(ctx, c.src, c.usedWays, first, end)
	if err != nil {
		return false, err
	}
	if len(wr.Routes) == 0 {
		return true, nil
	}
	log.Printf("Range %d: %d highway ways", rangeNo, len(wr.Routes))

	nodes, err := c.loadNodes(ctx, wr.Routes)
	if err != nil {
		return false, err
	}
	c.smoothRoutes(rangeNo, wr.Routes, nodes)

	nodes.Clear()
	c.metrics.nodes.Set(0)
	c.index.Process()
	c.metrics.ranges.WithLabelValues("ways").Inc()

	sum.WayRoutes += len(wr.Routes)
	return false, nil
}

func (c *Corrector) loadNodes(ctx context.Context, routes ...[]graph.Route) (*nodeindex.Index, error) {
	nodes, err := osmfile.LoadNodes(ctx, c.src, osmfile.NeededNodes(routes...), c.cfg.ElevationTag)
	if err != nil {
		return nil, err
	}
	c.metrics.nodes.Set(float64(nodes.Len()))
	return nodes, nil
}

func (c *Corrector) correctRivers(rangeNo int, rivers []graph.Route, nodes *nodeindex.Index) {
	for _, river := range rivers {
		res := correct.River(river, nodes, c.index, c.cfg.MaxRiverIterations)
		if res.Skipped {
			c.metrics.rivers.WithLabelValues("skipped").Inc()
			continue
		}
		c.metrics.rivers.WithLabelValues("corrected").Inc()
		c.metrics.nodesLowered.Add(float64(res.Changed))
		if res.CapHit {
			c.metrics.riverCapHits.Inc()
		}
		c.export(osmfile.FeatureRiver, rangeNo, river, nodes)
	}
}

func (c *Corrector) correctTunnelsAndBridges(rangeNo int, tbs []graph.TunnelOrBridge, nodes *nodeindex.Index) {
	for _, tb := range tbs {
		if !correct.TunnelOrBridge(tb, nodes, c.index, c.cfg.TunnelAnchorDistanceM) {
			c.metrics.tunnels.WithLabelValues("skipped").Inc()
			continue
		}
		c.metrics.tunnels.WithLabelValues("corrected").Inc()
		c.export(osmfile.FeatureTunnelOrBridge, rangeNo, graph.Route{tb.Span}, nodes)
	}
}

func (c *Corrector) smoothRoutes(rangeNo int, routes []graph.Route, nodes *nodeindex.Index) {
	for _, route := range routes {
		res := correct.SmoothRoute(route, nodes, c.index, c.cfg.SmoothingWindowM)
		c.metrics.subRoutes.WithLabelValues("smoothed").Add(float64(res.Smoothed))
		c.metrics.subRoutes.WithLabelValues("skipped").Add(float64(res.Skipped))
		if res.Smoothed > 0 {
			c.export(osmfile.FeatureRoute, rangeNo, route, nodes)
		}
	}
}

func (c *Corrector) export(kind string, rangeNo int, route graph.Route, nodes *nodeindex.Index) {
	if c.debug != nil {
		c.debug.Add(kind, rangeNo, route, nodes)
	}
}

// WriteOutput consolidates the index and writes the corrected file.
func (c *Corrector) WriteOutput(ctx context.Context, output string) (osmfile.WriteResult, error) {
	if c.index == nil {
		return osmfile.WriteResult{}, errors.New("write output: not initialized")
	}
	if err := CheckPaths(c.src.Path(), output); err != nil {
		return osmfile.WriteResult{}, err
	}
	c.index.Process()
	res, err := osmfile.WriteCorrected(ctx, c.src, output, c.index, c.cfg.ElevationTag)
	if err != nil {
		return res, fmt.Errorf("write output: %w", err)
	}
	return res, nil
}

// Finish writes the optional artifacts: compacted index, GeoJSON debug
// export and metrics textfile.
func (c *Corrector) Finish() error {
	if c.index == nil {
		return errors.New("finish: not initialized")
	}
	if c.cfg.IndexFile != "" {
		c.index.Process()
		dense := elevation.PreferDense(c.stats.Nodes, c.cfg.DenseThreshold)
		if err := elevation.WriteBinary(c.cfg.IndexFile, elevation.Compact(c.index, dense)); err != nil {
			return fmt.Errorf("write index file: %w", err)
		}
		log.Printf("Wrote %d elevations to %s (dense=%v)", c.index.Len(), c.cfg.IndexFile, dense)
	}
	if c.debug != nil {
		if err := c.debug.WriteFile(c.cfg.GeoJSONFile); err != nil {
			return fmt.Errorf("write geojson: %w", err)
		}
		log.Printf("Wrote %d debug features to %s", c.debug.Len(), c.cfg.GeoJSONFile)
	}
	if c.cfg.MetricsFile != "" {
		if err := c.metrics.WriteFile(c.cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
