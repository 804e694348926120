package export

import (
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gridsmith/mepsynth/pkg/graph"
	"github.com/gridsmith/mepsynth/pkg/logging"
	"github.com/gridsmith/mepsynth/pkg/metrics"
	"github.com/gridsmith/mepsynth/pkg/synth"
	"github.com/gridsmith/mepsynth/pkg/validation"
)

func generateTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	gen := synth.NewGenerator(synth.Options{
		Logger:  logging.NewNopLogger(),
		Metrics: metrics.NewRegistry(),
	})
	result, err := gen.Generate(&validation.GenerationRequest{
		NodeCount:     20,
		Length:        40,
		Width:         25,
		FloorHeight:   3.5,
		Floors:        4,
		BasementDepth: 4,
		Seed:          11,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return result.Graph
}

func testExporter() *Exporter {
	return NewExporter(logging.NewNopLogger(), metrics.NewRegistry())
}

// TestExport_WellFormedDocument tests that the output parses as XML with
// the expected structure
func TestExport_WellFormedDocument(t *testing.T) {
	g := generateTestGraph(t)

	var buf bytes.Buffer
	if err := testExporter().Export(g, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc xmlDoc
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Output is not well-formed XML: %v", err)
	}

	if doc.XMLNS != graphmlNS {
		t.Errorf("Namespace %q, expected %q", doc.XMLNS, graphmlNS)
	}
	if doc.Graph.EdgeDefault != "directed" {
		t.Errorf("edgedefault %q, expected directed", doc.Graph.EdgeDefault)
	}
	if len(doc.Graph.Nodes) != g.NodeCount() {
		t.Errorf("Exported %d nodes, expected %d", len(doc.Graph.Nodes), g.NodeCount())
	}
	if len(doc.Graph.Edges) != g.EdgeCount() {
		t.Errorf("Exported %d edges, expected %d", len(doc.Graph.Edges), g.EdgeCount())
	}
}

// TestExport_KeyDeclarations tests that every data key is declared
func TestExport_KeyDeclarations(t *testing.T) {
	g := generateTestGraph(t)

	var buf bytes.Buffer
	if err := testExporter().Export(g, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc xmlDoc
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	declared := make(map[string]bool)
	for _, k := range doc.Keys {
		if k.ID == "" || k.Name == "" || k.For == "" || k.Type == "" {
			t.Errorf("Incomplete key declaration: %+v", k)
		}
		declared[k.ID] = true
	}

	check := func(data []xmlData, where string) {
		for _, d := range data {
			if !declared[d.Key] {
				t.Errorf("%s references undeclared key %q", where, d.Key)
			}
		}
	}
	check(doc.Graph.Data, "graph")
	for _, n := range doc.Graph.Nodes {
		check(n.Data, "node "+n.ID)
	}
	for _, e := range doc.Graph.Edges {
		check(e.Data, "edge "+e.ID)
	}
}

// TestExport_GraphMetadata tests graph-level data fields
func TestExport_GraphMetadata(t *testing.T) {
	g := generateTestGraph(t)

	var buf bytes.Buffer
	if err := testExporter().Export(g, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"generation_id", "voltage_system", "total_load_kw", "num_floors"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing graph attribute %q", want)
		}
	}
	if !strings.Contains(out, g.Meta.GenerationID) {
		t.Error("Output missing the generation ID value")
	}
}

// TestExport_RejectsProvisionalNodes tests the energized-only rule
func TestExport_RejectsProvisionalNodes(t *testing.T) {
	g := graph.New()
	g.AddNode(&graph.Node{
		ID:    "load_001",
		Kind:  graph.KindLoad,
		Stage: graph.StageProvisional,
		Attrs: &graph.LoadAttrs{Subtype: "hvac", DemandKW: 10},
	})

	var buf bytes.Buffer
	err := testExporter().Export(g, &buf)
	if !errors.Is(err, graph.ErrProvisionalNode) {
		t.Errorf("Expected ErrProvisionalNode, got %v", err)
	}
}

// TestExportFile_RoundTrip tests plain and compressed file output
func TestExportFile_RoundTrip(t *testing.T) {
	g := generateTestGraph(t)
	dir := t.TempDir()
	e := testExporter()

	plain := filepath.Join(dir, "nested", "topology.mepg")
	if err := e.ExportFile(g, plain); err != nil {
		t.Fatalf("ExportFile failed: %v", err)
	}
	if _, err := os.Stat(plain); err != nil {
		t.Fatalf("Output file missing: %v", err)
	}

	compressed := filepath.Join(dir, "topology.mepg.sz")
	if err := e.ExportFile(g, compressed); err != nil {
		t.Fatalf("Compressed ExportFile failed: %v", err)
	}

	plainData, err := ReadFile(plain)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	compressedData, err := ReadFile(compressed)
	if err != nil {
		t.Fatalf("Compressed ReadFile failed: %v", err)
	}

	if !bytes.Equal(plainData, compressedData) {
		t.Error("Compressed round trip does not match plain output")
	}

	raw, _ := os.ReadFile(compressed)
	if bytes.Equal(raw, plainData) {
		t.Error("Compressed file should differ from plain XML on disk")
	}
	if len(raw) >= len(plainData) {
		t.Errorf("Compression did not shrink the document: %d vs %d", len(raw), len(plainData))
	}
}
