package synth

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/gridsmith/mepsynth/pkg/graph"
	"github.com/gridsmith/mepsynth/pkg/logging"
	"github.com/gridsmith/mepsynth/pkg/metrics"
	"github.com/gridsmith/mepsynth/pkg/validation"
)

func testGenerator() *Generator {
	return NewGenerator(Options{
		Logger:  logging.NewNopLogger(),
		Metrics: metrics.NewRegistry(),
	})
}

// TestGenerate_MinimalBuilding tests the documented small-building scenario:
// a 20x20 three-floor building synthesized to exactly ten nodes
func TestGenerate_MinimalBuilding(t *testing.T) {
	result, err := testGenerator().Generate(&validation.GenerationRequest{
		NodeCount:   10,
		Length:      20,
		Width:       20,
		FloorHeight: 3.5,
		Floors:      3,
		Seed:        1,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	g := result.Graph

	if g.NodeCount() != 10 {
		t.Errorf("Expected exactly 10 nodes, got %d", g.NodeCount())
	}
	if len(g.NodesByKind(graph.KindTransformer)) < 1 {
		t.Error("Expected at least one transformer")
	}
	if len(g.NodesByKind(graph.KindSwitchboard)) != 1 {
		t.Errorf("Expected one main switchboard, got %d", len(g.NodesByKind(graph.KindSwitchboard)))
	}

	panelFloors := make(map[int]bool)
	for _, p := range g.NodesByKind(graph.KindPanelboard) {
		panelFloors[p.Floor] = true
	}
	for floor := 0; floor < 3; floor++ {
		if !panelFloors[floor] {
			t.Errorf("Floor %d has no panelboard", floor)
		}
	}

	if g.Meta.GenerationID == "" {
		t.Error("Expected a generation ID")
	}
	if g.Meta.Seed != 1 {
		t.Errorf("Metadata seed %d, expected 1", g.Meta.Seed)
	}
	if g.Meta.VoltageSystem != "4160/480/208V" {
		t.Errorf("Voltage system %q, expected 4160/480/208V", g.Meta.VoltageSystem)
	}
}

// TestGenerate_InvalidRequest tests input rejection before any work
func TestGenerate_InvalidRequest(t *testing.T) {
	_, err := testGenerator().Generate(&validation.GenerationRequest{
		NodeCount: 2,
		Length:    20, Width: 20, FloorHeight: 3, Floors: 1,
	})
	if err == nil {
		t.Fatal("Expected validation error")
	}
}

// TestGenerate_Deterministic tests that a request fully determines the graph
func TestGenerate_Deterministic(t *testing.T) {
	req := func() *validation.GenerationRequest {
		return &validation.GenerationRequest{
			NodeCount:     30,
			Length:        40,
			Width:         25,
			FloorHeight:   3.5,
			Floors:        5,
			BasementDepth: 4,
			Seed:          1234,
		}
	}

	r1, err := testGenerator().Generate(req())
	if err != nil {
		t.Fatalf("First generation failed: %v", err)
	}
	r2, err := testGenerator().Generate(req())
	if err != nil {
		t.Fatalf("Second generation failed: %v", err)
	}

	if !graphsEqual(r1.Graph, r2.Graph) {
		t.Error("Same request produced different graphs")
	}
}

// TestGenerate_DifferentSeeds tests that the seed actually matters
func TestGenerate_DifferentSeeds(t *testing.T) {
	base := validation.GenerationRequest{
		NodeCount: 30, Length: 40, Width: 25, FloorHeight: 3.5, Floors: 5, BasementDepth: 4,
	}
	a, b := base, base
	a.Seed, b.Seed = 1, 2

	r1, err := testGenerator().Generate(&a)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	r2, err := testGenerator().Generate(&b)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if graphsEqual(r1.Graph, r2.Graph) {
		t.Error("Different seeds produced identical graphs")
	}
}

// TestGenerate_RepairedGraphIsClean tests validator idempotency: a second
// validation pass over a repaired graph finds nothing to repair
func TestGenerate_RepairedGraphIsClean(t *testing.T) {
	result, err := testGenerator().Generate(&validation.GenerationRequest{
		NodeCount: 40, Length: 40, Width: 25, FloorHeight: 3.5, Floors: 5, BasementDepth: 4, Seed: 7,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, load := range result.Graph.NodesByKind(graph.KindLoad) {
		if result.Graph.InDegree(load.ID) != 1 {
			t.Errorf("Load %s has %d feeds after repair", load.ID, result.Graph.InDegree(load.ID))
		}
	}
	for _, n := range result.Graph.NodesByKind(graph.KindTransformer) {
		a := n.Attrs.(*graph.TransformerAttrs)
		if a.DownstreamVoltage > a.UpstreamVoltage*0.8 {
			t.Errorf("Transformer %s violates step-down after repair", n.ID)
		}
	}
}

// TestGenerate_Properties drives the pipeline across random buildings
func TestGenerate_Properties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	reqGen := gopter.CombineGens(
		gen.IntRange(3, 60),       // node count
		gen.Float64Range(10, 120), // length
		gen.Float64Range(10, 80),  // width
		gen.IntRange(1, 12),       // floors
		gen.Int64Range(1, 1<<30),  // seed
	).Map(func(vals []interface{}) *validation.GenerationRequest {
		return &validation.GenerationRequest{
			NodeCount:     vals[0].(int),
			Length:        vals[1].(float64),
			Width:         vals[2].(float64),
			FloorHeight:   3.5,
			Floors:        vals[3].(int),
			BasementDepth: 4,
			Seed:          vals[4].(int64),
		}
	})

	properties.Property("every load has exactly one panelboard feed", prop.ForAll(
		func(req *validation.GenerationRequest) bool {
			result, err := testGenerator().Generate(req)
			if err != nil {
				return false
			}
			for _, load := range result.Graph.NodesByKind(graph.KindLoad) {
				in := result.Graph.InEdges(load.ID)
				if len(in) != 1 {
					return false
				}
				src, ok := result.Graph.Node(in[0].From)
				if !ok || src.Kind != graph.KindPanelboard {
					return false
				}
			}
			return true
		},
		reqGen,
	))

	properties.Property("node count meets or exceeds the target", prop.ForAll(
		func(req *validation.GenerationRequest) bool {
			result, err := testGenerator().Generate(req)
			if err != nil {
				return false
			}
			return result.Graph.NodeCount() >= req.NodeCount
		},
		reqGen,
	))

	properties.Property("every node is energized and reachable", prop.ForAll(
		func(req *validation.GenerationRequest) bool {
			result, err := testGenerator().Generate(req)
			if err != nil {
				return false
			}
			g := result.Graph
			for _, n := range g.Nodes() {
				if n.Stage != graph.StageEnergized {
					return false
				}
			}

			seen := make(map[string]bool)
			queue := make([]string, 0)
			for _, s := range g.Sources() {
				queue = append(queue, s.ID)
				seen[s.ID] = true
			}
			for len(queue) > 0 {
				id := queue[0]
				queue = queue[1:]
				for _, e := range g.OutEdges(id) {
					if !seen[e.To] {
						seen[e.To] = true
						queue = append(queue, e.To)
					}
				}
			}
			return len(seen) == g.NodeCount()
		},
		reqGen,
	))

	properties.Property("generation is deterministic in the request", prop.ForAll(
		func(req *validation.GenerationRequest) bool {
			clone := *req
			r1, err1 := testGenerator().Generate(req)
			r2, err2 := testGenerator().Generate(&clone)
			if err1 != nil || err2 != nil {
				return false
			}
			return graphsEqual(r1.Graph, r2.Graph)
		},
		reqGen,
	))

	properties.TestingRun(t)
}

// graphsEqual compares two graphs structurally, ignoring volatile metadata
// like the generation ID and timestamp
func graphsEqual(a, b *graph.Graph) bool {
	if a.NodeCount() != b.NodeCount() || a.EdgeCount() != b.EdgeCount() {
		return false
	}

	an, bn := a.Nodes(), b.Nodes()
	for i := range an {
		if an[i].ID != bn[i].ID || an[i].Kind != bn[i].Kind {
			return false
		}
		af, bf := an[i].Flatten(), bn[i].Flatten()
		if len(af) != len(bf) {
			return false
		}
		for k, v := range af {
			if bf[k] != v {
				return false
			}
		}
	}

	ae, be := a.Edges(), b.Edges()
	for i := range ae {
		if ae[i].From != be[i].From || ae[i].To != be[i].To {
			return false
		}
		if *ae[i] != *be[i] {
			return false
		}
	}
	return true
}
