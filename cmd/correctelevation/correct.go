package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	osmfile "github.com/azybler/osm_elevation/pkg/osm"
	"github.com/azybler/osm_elevation/pkg/pipeline"
)

func runCorrect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := pipeline.CheckPaths(inputPath, outputPath); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	start := time.Now()

	c, err := pipeline.New(inputPath, cfg)
	if err != nil {
		return err
	}
	if err := c.Initialize(ctx); err != nil {
		return err
	}

	sum, err := c.CorrectRoutes(ctx)
	if err != nil {
		return err
	}
	log.Printf("Processed %d relation ranges and %d way ranges", sum.RelationRanges, sum.WayRanges)

	if _, err := c.WriteOutput(ctx, outputPath); err != nil {
		return err
	}
	if err := c.Finish(); err != nil {
		return err
	}

	log.Printf("Done in %s", time.Since(start).Round(time.Second))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	src, err := osmfile.Open(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	st, err := osmfile.CollectStats(ctx, src)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "format:     %s\n", src.Format())
	fmt.Fprintf(w, "nodes:      %d (ids %d..%d)\n", st.Nodes, st.MinNodeID, st.MaxNodeID)
	fmt.Fprintf(w, "ways:       %d (%d highways)\n", st.Ways, st.Highways)
	fmt.Fprintf(w, "relations:  %d (%d route/river candidates)\n", st.Relations, st.Candidates)
	fmt.Fprintf(w, "bounds:     %.6f,%.6f .. %.6f,%.6f\n",
		st.Bound.Min.Lon(), st.Bound.Min.Lat(), st.Bound.Max.Lon(), st.Bound.Max.Lat())
	return nil
}
