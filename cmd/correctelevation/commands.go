package main

import (
	"github.com/spf13/cobra"

	"github.com/azybler/osm_elevation/pkg/config"
)

var (
	configPath string

	// correct overrides
	inputPath   string
	outputPath  string
	tag         string
	memoryGB    int
	geojsonPath string
	metricsPath string
	indexPath   string

	// serve overrides
	addr       string
	corsOrigin string

	rootCmd = &cobra.Command{
		Use:   "correctelevation",
		Short: "Correct elevation tags along OSM routes and rivers",
		Long: `correctelevation reads an OSM extract (.pbf, .osm or .xml) whose nodes
carry terrain elevations, removes the artefacts the terrain model
introduces along rivers, tunnels, bridges and roads, and writes a
corrected OSM XML file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	correctCmd = &cobra.Command{
		Use:   "correct",
		Short: "Correct an OSM file and write the result",
		Args:  cobra.NoArgs,
		RunE:  runCorrect,
	}

	statsCmd = &cobra.Command{
		Use:   "stats [file]",
		Short: "Print node, way and relation statistics of an OSM file",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve a persisted elevation index over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")

	correctCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input OSM file (.pbf, .osm, .xml)")
	correctCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output OSM XML file (must not exist)")
	correctCmd.Flags().StringVar(&tag, "tag", "", "Elevation tag key")
	correctCmd.Flags().IntVar(&memoryGB, "memory-gb", 0, "Memory budget in GB (0 = detect)")
	correctCmd.Flags().StringVar(&geojsonPath, "geojson", "", "Write a GeoJSON debug export of corrected paths")
	correctCmd.Flags().StringVar(&metricsPath, "metrics", "", "Write run metrics as a Prometheus textfile")
	correctCmd.Flags().StringVar(&indexPath, "index", "", "Persist the compacted elevation index")
	correctCmd.MarkFlagRequired("input")
	correctCmd.MarkFlagRequired("output")

	serveCmd.Flags().StringVar(&indexPath, "index", "", "Elevation index written by correct --index")
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address")
	serveCmd.Flags().StringVar(&corsOrigin, "cors-origin", "", "CORS allowed origin (empty = same-origin)")

	rootCmd.AddCommand(correctCmd, statsCmd, serveCmd)
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("tag") {
		cfg.ElevationTag = tag
	}
	if flags.Changed("memory-gb") {
		cfg.MemoryGB = memoryGB
	}
	if flags.Changed("geojson") {
		cfg.GeoJSONFile = geojsonPath
	}
	if flags.Changed("metrics") {
		cfg.MetricsFile = metricsPath
	}
	if flags.Changed("index") {
		cfg.IndexFile = indexPath
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Changed("cors-origin") {
		cfg.Server.CORSOrigin = corsOrigin
	}
	return cfg, cfg.Validate()
}
