package synth

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/gridsmith/mepsynth/pkg/building"
	"github.com/gridsmith/mepsynth/pkg/graph"
	"github.com/gridsmith/mepsynth/pkg/logging"
)

func buildFor(t *testing.T, length, width, floorHeight float64, floors int, basementDepth float64, target int, seed int64) *graph.Graph {
	t.Helper()
	p, err := building.NewProfile(length, width, floorHeight, floors, basementDepth)
	if err != nil {
		t.Fatalf("NewProfile failed: %v", err)
	}
	cores := building.PlanCores(p)
	rng := rand.New(rand.NewSource(seed))
	log := logging.NewNopLogger()
	reqs := NewAnalyzer(p, cores, rng, log).Analyze()
	decisions := NewPlanner(p, cores, target, rng, log).Plan(reqs)
	g, err := NewBuilder(p, rng, log).Build(decisions)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

// TestBuild_NodeIDs tests the type-scoped sequential ID scheme
func TestBuild_NodeIDs(t *testing.T) {
	g := buildFor(t, 20, 20, 3.0, 3, 0, 17, 1)

	idPattern := regexp.MustCompile(`^(transformer|switchboard|panelboard|load)_\d{3}$`)
	for _, n := range g.Nodes() {
		if !idPattern.MatchString(n.ID) {
			t.Errorf("Node ID %q does not match the naming scheme", n.ID)
		}
	}

	// First node of each kind is numbered 001
	if _, ok := g.Node("transformer_001"); !ok {
		t.Error("Expected transformer_001 to exist")
	}
	if _, ok := g.Node("load_001"); !ok {
		t.Error("Expected load_001 to exist")
	}
}

// TestBuild_MainPairEdge tests the service entrance wiring
func TestBuild_MainPairEdge(t *testing.T) {
	g := buildFor(t, 20, 20, 3.0, 3, 0, 17, 1)

	var mainXfmr, mainBoard *graph.Node
	for _, n := range g.NodesByKind(graph.KindTransformer) {
		if a, ok := n.Attrs.(*graph.TransformerAttrs); ok && a.Subtype == "main" {
			mainXfmr = n
		}
	}
	for _, n := range g.NodesByKind(graph.KindSwitchboard) {
		if a, ok := n.Attrs.(*graph.SwitchboardAttrs); ok && a.Subtype == "main" {
			mainBoard = n
		}
	}
	if mainXfmr == nil || mainBoard == nil {
		t.Fatal("Expected main transformer and switchboard nodes")
	}

	found := false
	for _, e := range g.OutEdges(mainXfmr.ID) {
		if e.To == mainBoard.ID {
			found = true
			if e.LoadClass != "Main Distribution" {
				t.Errorf("Main pair edge classified %q", e.LoadClass)
			}
			if e.CableDistanceM != 0 {
				t.Errorf("Co-located main pair should have 0 cable distance, got %f", e.CableDistanceM)
			}
		}
	}
	if !found {
		t.Error("Expected edge main transformer -> main switchboard")
	}

	// The main transformer is the only source
	sources := g.Sources()
	if len(sources) != 1 || sources[0].ID != mainXfmr.ID {
		t.Errorf("Expected single source %s, got %d sources", mainXfmr.ID, len(sources))
	}
}

// TestBuild_LoadsSingleFeed tests that every load has exactly one feed from
// a panelboard
func TestBuild_LoadsSingleFeed(t *testing.T) {
	g := buildFor(t, 40, 25, 3.5, 5, 4, 40, 3)

	for _, load := range g.NodesByKind(graph.KindLoad) {
		in := g.InEdges(load.ID)
		if len(in) != 1 {
			t.Errorf("Load %s has %d feeds, expected 1", load.ID, len(in))
			continue
		}
		src, _ := g.Node(in[0].From)
		if src.Kind != graph.KindPanelboard {
			t.Errorf("Load %s fed by %s (%s), expected a panelboard", load.ID, src.ID, src.Kind)
		}
	}
}

// TestBuild_Reachability tests that the whole graph hangs off the sources
func TestBuild_Reachability(t *testing.T) {
	g := buildFor(t, 20, 20, 3.0, 3, 0, 17, 1)

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

	if len(seen) != g.NodeCount() {
		t.Errorf("Only %d of %d nodes reachable from sources", len(seen), g.NodeCount())
	}
}

// TestBuild_PanelboardsFed tests that no panelboard is orphaned, including
// the basement distribution panel
func TestBuild_PanelboardsFed(t *testing.T) {
	g := buildFor(t, 20, 20, 3.0, 3, 0, 17, 1)

	for _, p := range g.NodesByKind(graph.KindPanelboard) {
		if g.InDegree(p.ID) == 0 {
			t.Errorf("Panelboard %s has no feed", p.ID)
		}
	}
}

// TestBuild_DeterministicEdgeOrder tests that repeated builds of the same
// building wire edges in an identical sequence; a multi-floor building
// without secondary transformers on every floor exercises the
// switchboard-to-floor wiring across many floors at once
func TestBuild_DeterministicEdgeOrder(t *testing.T) {
	edgeSeq := func() []string {
		g := buildFor(t, 40, 25, 3.5, 5, 4, 40, 7)
		edges := g.Edges()
		seq := make([]string, len(edges))
		for i, e := range edges {
			seq[i] = e.From + "->" + e.To
		}
		return seq
	}

	first := edgeSeq()
	for run := 1; run < 20; run++ {
		got := edgeSeq()
		if len(got) != len(first) {
			t.Fatalf("Run %d produced %d edges, expected %d", run, len(got), len(first))
		}
		for i := range first {
			if got[i] != first[i] {
				t.Fatalf("Run %d: edge %d is %s, expected %s", run, i, got[i], first[i])
			}
		}
	}
}

// TestBuild_ProvisionalStage tests that built nodes await propagation
func TestBuild_ProvisionalStage(t *testing.T) {
	g := buildFor(t, 20, 20, 3.0, 3, 0, 17, 1)

	for _, n := range g.Nodes() {
		if n.Stage != graph.StageProvisional {
			t.Errorf("Node %s is %s before propagation", n.ID, n.Stage)
		}
	}
}

// TestBuild_CosmeticAttributes tests manufacturer and install-year ranges
func TestBuild_CosmeticAttributes(t *testing.T) {
	g := buildFor(t, 20, 20, 3.0, 3, 0, 17, 1)

	known := make(map[string]bool, len(manufacturers))
	for _, m := range manufacturers {
		known[m] = true
	}

	for _, n := range g.NodesByKind(graph.KindTransformer) {
		a := n.Attrs.(*graph.TransformerAttrs)
		if !known[a.Manufacturer] {
			t.Errorf("Unknown manufacturer %q", a.Manufacturer)
		}
		if a.InstallYear < installYearBase || a.InstallYear >= installYearBase+installYearSpan {
			t.Errorf("Install year %d outside range", a.InstallYear)
		}
		if a.ManufactureYear != a.InstallYear-1 {
			t.Errorf("Manufacture year %d should precede install year %d", a.ManufactureYear, a.InstallYear)
		}
	}
}
