// Package export serializes finished topologies as GraphML documents, the
// wire format behind the .mepg extension.
package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/golang/snappy"

	"github.com/gridsmith/mepsynth/pkg/graph"
	"github.com/gridsmith/mepsynth/pkg/logging"
	"github.com/gridsmith/mepsynth/pkg/metrics"
)

const graphmlNS = "http://graphml.graphdrawing.org/xmlns"

// Exporter writes graphs as GraphML. Only fully energized graphs can be
// exported; a provisional node anywhere is an error.
type Exporter struct {
	log     logging.Logger
	metrics *metrics.Registry
}

// NewExporter creates a GraphML exporter
func NewExporter(log logging.Logger, reg *metrics.Registry) *Exporter {
	if log == nil {
		log = logging.DefaultLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Exporter{log: log, metrics: reg}
}

type xmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type xmlKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type xmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []xmlData `xml:"data"`
}

type xmlEdge struct {
	ID     string    `xml:"id,attr"`
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []xmlData `xml:"data"`
}

type xmlGraph struct {
	ID          string    `xml:"id,attr"`
	EdgeDefault string    `xml:"edgedefault,attr"`
	Data        []xmlData `xml:"data"`
	Nodes       []xmlNode `xml:"node"`
	Edges       []xmlEdge `xml:"edge"`
}

type xmlDoc struct {
	XMLName xml.Name `xml:"graphml"`
	XMLNS   string   `xml:"xmlns,attr"`
	Keys    []xmlKey `xml:"key"`
	Graph   xmlGraph `xml:"graph"`
}

// Export writes the graph as an indented GraphML document
func (e *Exporter) Export(g *graph.Graph, w io.Writer) error {
	doc, err := e.document(g)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding graphml: %w", err)
	}
	return enc.Close()
}

// ExportFile writes the graph to a file, creating parent directories as
// needed. Paths ending in .sz are snappy-compressed.
func (e *Exporter) ExportFile(g *graph.Graph, path string) error {
	start := time.Now()
	compressed := filepath.Ext(path) == ".sz"

	format := "graphml"
	if compressed {
		format = "graphml+snappy"
	}

	var buf bytes.Buffer
	if err := e.Export(g, &buf); err != nil {
		e.metrics.RecordExport(format, "error", 0, time.Since(start))
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.metrics.RecordExport(format, "error", 0, time.Since(start))
		return fmt.Errorf("creating output directory: %w", err)
	}

	data := buf.Bytes()
	if compressed {
		data = snappy.Encode(nil, data)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		e.metrics.RecordExport(format, "error", 0, time.Since(start))
		return fmt.Errorf("writing %s: %w", path, err)
	}

	e.metrics.RecordExport(format, "ok", len(data), time.Since(start))
	e.log.Info("graph exported",
		logging.Component("export"),
		logging.String("path", path),
		logging.Int("bytes", len(data)),
		logging.Bool("compressed", compressed))

	return nil
}

// ReadFile loads a previously exported document, transparently
// decompressing .sz files
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".sz" {
		return snappy.Decode(nil, data)
	}
	return data, nil
}

// document assembles the full GraphML tree with its key declarations
func (e *Exporter) document(g *graph.Graph) (*xmlDoc, error) {
	keys := newKeySet()

	metaAttrs := flattenMeta(g.Meta)
	graphData := keys.dataFor("graph", metaAttrs)

	nodes := make([]xmlNode, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		if n.Stage != graph.StageEnergized {
			return nil, &graph.TopologyError{Op: "Export", Entity: "node", ID: n.ID, Cause: graph.ErrProvisionalNode}
		}
		nodes = append(nodes, xmlNode{
			ID:   n.ID,
			Data: keys.dataFor("node", n.Flatten()),
		})
	}

	edges := make([]xmlEdge, 0, g.EdgeCount())
	for i, edge := range g.Edges() {
		edges = append(edges, xmlEdge{
			ID:     fmt.Sprintf("e%d", i),
			Source: edge.From,
			Target: edge.To,
			Data:   keys.dataFor("edge", edge.Flatten()),
		})
	}

	return &xmlDoc{
		XMLNS: graphmlNS,
		Keys:  keys.declarations(),
		Graph: xmlGraph{
			ID:          "G",
			EdgeDefault: "directed",
			Data:        graphData,
			Nodes:       nodes,
			Edges:       edges,
		},
	}, nil
}

// keySet tracks GraphML key declarations per domain so every attribute used
// by a data element has a matching declaration
type keySet struct {
	seen  map[string]xmlKey
	order []string
}

func newKeySet() *keySet {
	return &keySet{seen: make(map[string]xmlKey)}
}

// dataFor renders an attribute bag as sorted data elements, registering
// keys as a side effect
func (ks *keySet) dataFor(domain string, attrs map[string]graph.Value) []xmlData {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	data := make([]xmlData, 0, len(names))
	for _, name := range names {
		v := attrs[name]
		id := domain[:1] + "_" + name
		if _, ok := ks.seen[id]; !ok {
			ks.seen[id] = xmlKey{ID: id, For: domain, Name: name, Type: v.GraphMLType()}
			ks.order = append(ks.order, id)
		}
		data = append(data, xmlData{Key: id, Value: v.String()})
	}
	return data
}

// declarations returns the keys in first-use order
func (ks *keySet) declarations() []xmlKey {
	out := make([]xmlKey, 0, len(ks.order))
	for _, id := range ks.order {
		out = append(out, ks.seen[id])
	}
	return out
}

// flattenMeta renders graph metadata as a typed attribute bag
func flattenMeta(m graph.Metadata) map[string]graph.Value {
	return map[string]graph.Value{
		"generation_id":   graph.StringValue(m.GenerationID),
		"seed":            graph.IntValue(m.Seed),
		"building_length": graph.FloatValue(m.BuildingLength),
		"building_width":  graph.FloatValue(m.BuildingWidth),
		"floor_height":    graph.FloatValue(m.FloorHeight),
		"num_floors":      graph.IntValue(int64(m.Floors)),
		"basement_depth":  graph.FloatValue(m.BasementDepth),
		"total_load_kw":   graph.FloatValue(m.TotalLoadKW),
		"voltage_system":  graph.StringValue(m.VoltageSystem),
		"generated_at":    graph.StringValue(m.GeneratedAt),
	}
}
