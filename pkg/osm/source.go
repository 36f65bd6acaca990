package osm

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// Format is the encoding of an OSM input file.
type Format int

const (
	FormatPBF Format = iota + 1
	FormatXML
)

func (f Format) String() string {
	switch f {
	case FormatPBF:
		return "pbf"
	case FormatXML:
		return "xml"
	}
	return "unknown"
}

// DetectFormat picks the file format from the path's extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pbf":
		return FormatPBF, nil
	case ".osm", ".xml":
		return FormatXML, nil
	}
	return 0, errors.Errorf("unsupported OSM file extension %q", filepath.Ext(path))
}

// scanner is what osmpbf and osmxml scanners have in common.
type scanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// Kind selects which object types a scan delivers.
type Kind uint8

const (
	KindNodes Kind = 1 << iota
	KindWays
	KindRelations

	KindAll = KindNodes | KindWays | KindRelations
)

// Source is an OSM file that can be scanned any number of times. Every
// pass reopens the file, so passes are independent of each other.
type Source struct {
	path   string
	format Format
	procs  int
}

// Open checks that path exists and has a supported extension.
func Open(path string) (*Source, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat input")
	}
	if info.IsDir() {
		return nil, errors.Errorf("%s is a directory", path)
	}
	return &Source{path: path, format: format, procs: runtime.GOMAXPROCS(0)}, nil
}

// Path returns the file path the source reads from.
func (s *Source) Path() string { return s.path }

// Format returns the detected file format.
func (s *Source) Format() Format { return s.format }

// Scan streams every object of the selected kinds to fn in file order.
// A non-nil error from fn stops the scan and is returned unchanged.
func (s *Source) Scan(ctx context.Context, kinds Kind, fn func(osm.Object) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer f.Close()

	var sc scanner
	switch s.format {
	case FormatPBF:
		pbf := osmpbf.New(ctx, f, s.procs)
		pbf.SkipNodes = kinds&KindNodes == 0
		pbf.SkipWays = kinds&KindWays == 0
		pbf.SkipRelations = kinds&KindRelations == 0
		sc = pbf
	default:
		sc = osmxml.New(ctx, f)
	}
	defer sc.Close()

	for sc.Scan() {
		obj := sc.Object()
		if !wanted(obj, kinds) {
			continue
		}
		if err := fn(obj); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", s.path)
	}
	return nil
}

func wanted(obj osm.Object, kinds Kind) bool {
	switch obj.(type) {
	case *osm.Node:
		return kinds&KindNodes != 0
	case *osm.Way:
		return kinds&KindWays != 0
	case *osm.Relation:
		return kinds&KindRelations != 0
	}
	return false
}
