package synth

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/gridsmith/mepsynth/pkg/building"
	"github.com/gridsmith/mepsynth/pkg/graph"
	"github.com/gridsmith/mepsynth/pkg/logging"
)

// manufacturers is the bounded pool cosmetic attributes draw from
var manufacturers = []string{"Square D", "Eaton", "Siemens", "GE", "ABB"}

// Expected service life in years by equipment kind
var lifespanYears = map[graph.Kind]int{
	graph.KindTransformer: 30,
	graph.KindSwitchboard: 30,
	graph.KindPanelboard:  25,
	graph.KindLoad:        15,
}

const (
	installYearBase = 1995
	installYearSpan = 30
	powerFrequency  = 60.0
)

// Builder materializes planned decisions into graph nodes and wires the
// hierarchy edges
type Builder struct {
	profile building.Profile
	rng     *rand.Rand
	log     logging.Logger
	seq     map[graph.Kind]int
}

// NewBuilder creates a graph builder
func NewBuilder(profile building.Profile, rng *rand.Rand, log logging.Logger) *Builder {
	return &Builder{
		profile: profile,
		rng:     rng,
		log:     log,
		seq:     make(map[graph.Kind]int),
	}
}

// Build creates one node per decision and wires edges in the fixed
// precedence order: main pair, main board to secondary transformers,
// secondary transformers to same-floor panelboards, main board to floors
// without a transformer, then nearest-panelboard load matching.
func (b *Builder) Build(decisions []Decision) (*graph.Graph, error) {
	g := graph.New()

	ids := make([]string, len(decisions))
	for i, d := range decisions {
		n := b.materialize(d)
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
		ids[i] = n.ID
	}

	var mainXfmr, mainBoard *Decision
	var mainXfmrID, mainBoardID string
	secondaries := make([]int, 0)
	panelsByFloor := make(map[int][]int)
	loads := make([]int, 0)

	for i := range decisions {
		d := &decisions[i]
		switch {
		case d.Kind == graph.KindTransformer && d.Subtype == "main":
			mainXfmr, mainXfmrID = d, ids[i]
		case d.Kind == graph.KindSwitchboard && d.Subtype == "main":
			mainBoard, mainBoardID = d, ids[i]
		case d.Kind == graph.KindTransformer:
			secondaries = append(secondaries, i)
		case d.Kind == graph.KindPanelboard:
			panelsByFloor[d.Floor] = append(panelsByFloor[d.Floor], i)
		case d.Kind == graph.KindLoad:
			loads = append(loads, i)
		}
	}

	// 1. main transformer -> main switchboard
	if mainXfmr != nil && mainBoard != nil {
		b.connect(g, mainXfmrID, mainBoardID, "Main Distribution")
	}

	// 2. main switchboard -> every secondary transformer
	xfmrFloors := make(map[int]bool)
	for _, i := range secondaries {
		xfmrFloors[decisions[i].Floor] = true
		if mainBoard != nil {
			b.connect(g, mainBoardID, ids[i], "Riser Distribution")
		}
	}

	// 3. secondary transformers feed every panelboard on their floor
	for _, ti := range secondaries {
		for _, pi := range panelsByFloor[decisions[ti].Floor] {
			b.connect(g, ids[ti], ids[pi], "Floor Distribution")
		}
	}

	// Edge insertion order is part of the output; iterate floors sorted,
	// never in map order.
	panelFloors := make([]int, 0, len(panelsByFloor))
	for floor := range panelsByFloor {
		panelFloors = append(panelFloors, floor)
	}
	sort.Ints(panelFloors)

	// 4. main switchboard feeds panelboards on floors without a
	// transformer (the basement panels are picked up by the orphan sweep)
	if mainBoard != nil {
		for _, floor := range panelFloors {
			if xfmrFloors[floor] || floor == building.BasementFloor {
				continue
			}
			for _, pi := range panelsByFloor[floor] {
				b.connect(g, mainBoardID, ids[pi], "Floor Distribution")
			}
		}
	}

	// Any panelboard still unfed would break reachability; feed it from
	// the main switchboard when one exists, else the nearest source-class
	// node.
	for _, floor := range panelFloors {
		for _, pi := range panelsByFloor[floor] {
			if g.InDegree(ids[pi]) > 0 {
				continue
			}
			if mainBoard != nil {
				b.connect(g, mainBoardID, ids[pi], "Floor Distribution")
			} else if from := b.nearestFeeder(g, ids[pi]); from != "" {
				b.connect(g, from, ids[pi], "Floor Distribution")
			}
		}
	}

	// 5. each load connects once, to its nearest panelboard in 3-D
	for _, li := range loads {
		target := b.nearestPanelboard(g, ids[li])
		if target == "" {
			continue
		}
		b.connect(g, target, ids[li], titleCase(decisions[li].Subtype))
	}

	b.log.Debug("graph construction complete",
		logging.Component("builder"),
		logging.Int("nodes", g.NodeCount()),
		logging.Int("edges", g.EdgeCount()))

	return g, nil
}

// materialize turns one decision into a provisional node with structural
// and cosmetic attributes; electrical fields stay unset until propagation
func (b *Builder) materialize(d Decision) *graph.Node {
	b.seq[d.Kind]++
	id := fmt.Sprintf("%s_%03d", d.Kind, b.seq[d.Kind])

	manufacturer := manufacturers[b.rng.Intn(len(manufacturers))]
	widthMM := 600 + b.rng.Intn(5)*150
	heightMM := 1200 + b.rng.Intn(5)*200
	depthMM := 400 + b.rng.Intn(3)*100
	installYear := installYearBase + b.rng.Intn(installYearSpan)

	var attrs graph.Attributes
	switch d.Kind {
	case graph.KindTransformer:
		attrs = &graph.TransformerAttrs{
			Subtype:         d.Subtype,
			CapacityKW:      d.CapacityKW,
			Manufacturer:    manufacturer,
			WidthMM:         widthMM,
			HeightMM:        heightMM,
			DepthMM:         depthMM,
			FrequencyHz:     powerFrequency,
			ShortCircuitKA:  float64(25 + b.rng.Intn(4)*10),
			ManufactureYear: installYear - 1,
			InstallYear:     installYear,
			LifespanYears:   lifespanYears[d.Kind],
		}
	case graph.KindSwitchboard:
		attrs = &graph.SwitchboardAttrs{
			Subtype:        d.Subtype,
			CapacityKW:     d.CapacityKW,
			Manufacturer:   manufacturer,
			WidthMM:        widthMM,
			HeightMM:       heightMM,
			DepthMM:        depthMM,
			FrequencyHz:    powerFrequency,
			ShortCircuitKA: float64(35 + b.rng.Intn(3)*15),
			InstallYear:    installYear,
			LifespanYears:  lifespanYears[d.Kind],
		}
	case graph.KindPanelboard:
		attrs = &graph.PanelboardAttrs{
			Subtype:       d.Subtype,
			CapacityKW:    d.CapacityKW,
			Manufacturer:  manufacturer,
			WidthMM:       widthMM,
			HeightMM:      heightMM,
			DepthMM:       depthMM,
			FrequencyHz:   powerFrequency,
			InstallYear:   installYear,
			LifespanYears: lifespanYears[d.Kind],
		}
	case graph.KindLoad:
		priority := 3
		if len(d.Serves) > 0 {
			priority = d.Serves[0].Priority
		}
		attrs = &graph.LoadAttrs{
			Subtype:       d.Subtype,
			DemandKW:      d.CapacityKW,
			FrequencyHz:   powerFrequency,
			Priority:      priority,
			InstallYear:   installYear,
			LifespanYears: lifespanYears[d.Kind],
		}
	}

	room := ""
	if len(d.Serves) > 0 {
		room = d.Serves[0].Room
	}

	return &graph.Node{
		ID:    id,
		Kind:  d.Kind,
		X:     d.X,
		Y:     d.Y,
		Z:     d.Z,
		Floor: d.Floor,
		Room:  room,
		Stage: graph.StageProvisional,
		Attrs: attrs,
	}
}

// connect adds a power edge with its cable distance; electrical attributes
// are filled in during propagation
func (b *Builder) connect(g *graph.Graph, from, to, class string) {
	src, _ := g.Node(from)
	dst, _ := g.Node(to)
	if src == nil || dst == nil {
		return
	}
	g.AddEdge(&graph.Edge{
		From:           from,
		To:             to,
		Connection:     "power",
		FrequencyHz:    powerFrequency,
		CableDistanceM: distance3(src.X, src.Y, src.Z, dst.X, dst.Y, dst.Z),
		LoadClass:      class,
	})
}

// nearestPanelboard finds the closest panelboard node to the given node by
// straight-line 3-D distance; ties break by ascending node ID
func (b *Builder) nearestPanelboard(g *graph.Graph, id string) string {
	n, ok := g.Node(id)
	if !ok {
		return ""
	}
	best := ""
	bestDist := 0.0
	for _, p := range g.NodesByKind(graph.KindPanelboard) {
		d := distance3(n.X, n.Y, n.Z, p.X, p.Y, p.Z)
		if best == "" || d < bestDist || (d == bestDist && p.ID < best) {
			best = p.ID
			bestDist = d
		}
	}
	return best
}

// nearestFeeder finds the closest transformer or switchboard to a node
func (b *Builder) nearestFeeder(g *graph.Graph, id string) string {
	n, ok := g.Node(id)
	if !ok {
		return ""
	}
	best := ""
	bestDist := 0.0
	for _, c := range g.Nodes() {
		if c.ID == id || (c.Kind != graph.KindTransformer && c.Kind != graph.KindSwitchboard) {
			continue
		}
		d := distance3(n.X, n.Y, n.Z, c.X, c.Y, c.Z)
		if best == "" || d < bestDist || (d == bestDist && c.ID < best) {
			best = c.ID
			bestDist = d
		}
	}
	return best
}

// titleCase renders a load subtype as an edge classification label, e.g.
// "data_center" -> "Data Center"
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
