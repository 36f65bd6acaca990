package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/azybler/osm_elevation/pkg/api"
	"github.com/azybler/osm_elevation/pkg/config"
	"github.com/azybler/osm_elevation/pkg/elevation"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.IndexFile == "" {
		return errors.New("no index file: set --index or index_file")
	}

	start := time.Now()
	log.Printf("Loading elevation index from %s...", cfg.IndexFile)
	idx, err := elevation.ReadBinary(cfg.IndexFile)
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	stats := api.StatsFor(idx)
	log.Printf("Loaded %s index with %d elevations in %s",
		stats.Kind, stats.Entries, time.Since(start).Round(time.Millisecond))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handlers := api.NewHandlers(idx, stats, reg)
	srv := api.NewServer(serverConfig(cfg.Server), handlers, reg)

	if err := api.ListenAndServe(srv); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func serverConfig(c config.ServerConfig) api.ServerConfig {
	sc := api.DefaultConfig(c.Addr)
	if c.ReadTimeout > 0 {
		sc.ReadTimeout = c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		sc.WriteTimeout = c.WriteTimeout
	}
	if c.MaxConcurrent > 0 {
		sc.MaxConcurrent = c.MaxConcurrent
	}
	sc.CORSOrigin = c.CORSOrigin
	return sc
}
