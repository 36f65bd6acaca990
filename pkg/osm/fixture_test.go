package osm

import (
	"os"
	"path/filepath"
	"testing"
)

// sampleOSM is a small extract: a route relation over three ways with a
// tunnel in the middle, a river relation, a lone residential street and a
// multipolygon that is not a candidate.
const sampleOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="47.001" lon="7.0"><tag k="ele" v="100"/></node>
  <node id="2" lat="47.002" lon="7.0"><tag k="ele" v="101"/></node>
  <node id="3" lat="47.003" lon="7.0"><tag k="ele" v="102"/></node>
  <node id="4" lat="47.004" lon="7.0"><tag k="ele" v="abc"/></node>
  <node id="5" lat="47.005" lon="7.0"><tag k="ele" v="103"/></node>
  <node id="6" lat="47.006" lon="7.0"/>
  <node id="7" lat="47.007" lon="7.0"><tag k="name" v="Corner"/></node>
  <node id="8" lat="47.008" lon="7.1"/>
  <node id="101" lat="46.9" lon="6.9"><tag k="ele" v="420"/></node>
  <node id="102" lat="46.91" lon="6.9"><tag k="ele" v="430"/></node>
  <node id="103" lat="46.92" lon="6.9"><tag k="ele" v="410"/></node>
  <way id="10"><nd ref="1"/><nd ref="2"/><nd ref="3"/><tag k="highway" v="primary"/></way>
  <way id="11"><nd ref="3"/><nd ref="4"/><nd ref="5"/><tag k="highway" v="primary"/><tag k="tunnel" v="yes"/></way>
  <way id="12"><nd ref="5"/><nd ref="6"/><tag k="highway" v="primary"/></way>
  <way id="13"><nd ref="6"/><nd ref="7"/><nd ref="8"/><tag k="highway" v="residential"/></way>
  <way id="20"><nd ref="101"/><nd ref="102"/><tag k="waterway" v="river"/></way>
  <way id="21"><nd ref="102"/><nd ref="103"/><tag k="waterway" v="river"/></way>
  <relation id="1">
    <member type="way" ref="10" role=""/>
    <member type="node" ref="1" role="stop"/>
    <member type="way" ref="11" role=""/>
    <member type="way" ref="12" role=""/>
    <tag k="type" v="route"/><tag k="route" v="road"/>
  </relation>
  <relation id="2">
    <member type="way" ref="20" role="main_stream"/>
    <member type="way" ref="21" role="main_stream"/>
    <tag k="type" v="waterway"/><tag k="waterway" v="river"/>
  </relation>
  <relation id="3">
    <member type="way" ref="13" role="outer"/>
    <tag k="type" v="multipolygon"/>
  </relation>
</osm>
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func openSample(t *testing.T) *Source {
	t.Helper()
	src, err := Open(writeFixture(t, "sample.osm", sampleOSM))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return src
}
