package osm

import (
	"bufio"
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"

	"github.com/azybler/osm_elevation/pkg/elevation"
)

// Generator is written into the header of every output file.
const Generator = "osm_elevation"

// WriteResult counts what WriteCorrected emitted.
type WriteResult struct {
	Nodes     uint64
	Ways      uint64
	Relations uint64
	// Tagged counts nodes whose elevation tag now carries a corrected value.
	Tagged uint64
}

// WriteCorrected copies src to path as OSM XML. For every node with an
// elevation in lookup, tag is replaced by that value; other nodes keep
// their original tag. path must not exist yet.
func WriteCorrected(ctx context.Context, src *Source, path string, lookup elevation.Lookup, tag string) (WriteResult, error) {
	start := time.Now()
	var res WriteResult

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return res, errors.Wrap(err, "create output")
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	if _, err := fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<osm version=\"0.6\" generator=\"%s\">\n", Generator); err != nil {
		return res, errors.Wrap(err, "write header")
	}

	enc := xml.NewEncoder(w)
	enc.Indent("  ", "  ")
	err = src.Scan(ctx, KindAll, func(obj osm.Object) error {
		switch o := obj.(type) {
		case *osm.Node:
			res.Nodes++
			if setElevationTag(o, lookup.Get(o.ID), tag) {
				res.Tagged++
			}
		case *osm.Way:
			res.Ways++
		case *osm.Relation:
			res.Relations++
		}
		if err := enc.Encode(obj); err != nil {
			return errors.Wrapf(err, "encode %v", obj.ObjectID())
		}
		_, err := w.WriteString("\n")
		return err
	})
	if err != nil {
		return res, errors.Wrap(err, "copy objects")
	}

	if _, err := w.WriteString("</osm>\n"); err != nil {
		return res, errors.Wrap(err, "write footer")
	}
	if err := w.Flush(); err != nil {
		return res, errors.Wrap(err, "flush output")
	}
	if err := f.Close(); err != nil {
		return res, errors.Wrap(err, "close output")
	}

	log.Printf("Wrote %s in %v: %d nodes (%d with corrected %s), %d ways, %d relations",
		path, time.Since(start).Round(time.Millisecond), res.Nodes, res.Tagged, tag, res.Ways, res.Relations)
	return res, nil
}

// setElevationTag replaces the node's tag with elev when elev is valid and
// reports whether it did.
func setElevationTag(n *osm.Node, elev int16, tag string) bool {
	if !elevation.Valid(elev) {
		return false
	}
	tags := n.Tags[:0]
	for _, t := range n.Tags {
		if t.Key != tag {
			tags = append(tags, t)
		}
	}
	n.Tags = append(tags, osm.Tag{Key: tag, Value: strconv.Itoa(int(elev))})
	return true
}
