package synth

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/gridsmith/mepsynth/pkg/building"
	"github.com/gridsmith/mepsynth/pkg/graph"
	"github.com/gridsmith/mepsynth/pkg/logging"
)

// Decision describes one piece of equipment to create, prior to graph
// materialization. Seq is assigned when the decision is collected and is
// used only for equality and deterministic tie-breaking.
type Decision struct {
	Seq        int
	Kind       graph.Kind
	Subtype    string
	Reason     string
	CapacityKW float64
	Floor      int
	X, Y, Z    float64
	Serves     []Requirement
}

// Planner sizing rules
const (
	mainServiceThresholdKW   = 100.0
	mainTransformerFactor    = 1.25
	mainSwitchboardFactor    = 1.2
	secondaryXfmrThresholdKW = 75.0
	secondaryXfmrFactor      = 1.3
	distributionPanelFactor  = 1.2
	panelShareFactor         = 1.25
	loadPerPanelKW           = 40.0
	maxPanelsPerGroup        = 3
	fillerPanelMinKW         = 20.0
	fillerPanelMaxKW         = 50.0
)

// Planner groups requirements into typed equipment decisions and reconciles
// the decision count against the caller's target
type Planner struct {
	profile building.Profile
	cores   building.CoreStrategy
	target  int
	rng     *rand.Rand
	log     logging.Logger
}

// NewPlanner creates a node decision planner
func NewPlanner(profile building.Profile, cores building.CoreStrategy, target int, rng *rand.Rand, log logging.Logger) *Planner {
	return &Planner{profile: profile, cores: cores, target: target, rng: rng, log: log}
}

// Plan runs steps A-D: main service pair, per-floor distribution, loads,
// and target-count reconciliation. Always terminates with a non-empty list.
func (p *Planner) Plan(reqs []Requirement) []Decision {
	decisions := make([]Decision, 0, len(reqs)*2)
	add := func(d Decision) {
		d.Seq = len(decisions)
		decisions = append(decisions, d)
	}

	// Step A: main service pair
	totalLoad := TotalLoadKW(reqs)
	if main := findMainService(reqs); main != nil && totalLoad > mainServiceThresholdKW {
		add(Decision{
			Kind:       graph.KindTransformer,
			Subtype:    "main",
			Reason:     fmt.Sprintf("main service for %.0f kW estimated load", totalLoad),
			CapacityKW: totalLoad * mainTransformerFactor,
			Floor:      main.Floor,
			X:          main.X, Y: main.Y, Z: main.Z,
			Serves: []Requirement{*main},
		})
		add(Decision{
			Kind:       graph.KindSwitchboard,
			Subtype:    "main",
			Reason:     "main distribution switchboard",
			CapacityKW: totalLoad * mainSwitchboardFactor,
			Floor:      main.Floor,
			X:          main.X, Y: main.Y, Z: main.Z,
			Serves: []Requirement{*main},
		})
	}

	// Step B: per-floor distribution by voltage class
	for _, fg := range groupByFloorClass(reqs) {
		sum := TotalLoadKW(fg.reqs)
		cx, cy, cz := centroid(fg.reqs)
		core := p.cores.NearestCore(cx, cy)

		if fg.class == ClassMedium {
			if sum > secondaryXfmrThresholdKW {
				add(Decision{
					Kind:       graph.KindTransformer,
					Subtype:    "secondary",
					Reason:     fmt.Sprintf("floor %d medium-voltage load %.0f kW", fg.floor, sum),
					CapacityKW: sum * secondaryXfmrFactor,
					Floor:      fg.floor,
					X:          core.X, Y: core.Y, Z: cz,
					Serves: fg.reqs,
				})
			}
			add(Decision{
				Kind:       graph.KindPanelboard,
				Subtype:    "distribution",
				Reason:     fmt.Sprintf("floor %d medium-voltage distribution", fg.floor),
				CapacityKW: sum * distributionPanelFactor,
				Floor:      fg.floor,
				X:          core.X, Y: core.Y, Z: cz,
				Serves: fg.reqs,
			})
			continue
		}

		// Low-voltage groups: 1-3 panels, requirements dealt round-robin
		panels := int(sum / loadPerPanelKW)
		if panels < 1 {
			panels = 1
		}
		if panels > maxPanelsPerGroup {
			panels = maxPanelsPerGroup
		}
		buckets := make([][]Requirement, panels)
		for i, r := range fg.reqs {
			buckets[i%panels] = append(buckets[i%panels], r)
		}
		for i, bucket := range buckets {
			if len(bucket) == 0 {
				continue
			}
			share := TotalLoadKW(bucket)
			bx, by, bz := centroid(bucket)
			add(Decision{
				Kind:       graph.KindPanelboard,
				Subtype:    panelSubtype(bucket),
				Reason:     fmt.Sprintf("floor %d low-voltage panel %d of %d", fg.floor, i+1, panels),
				CapacityKW: share * panelShareFactor,
				Floor:      fg.floor,
				X:          bx, Y: by, Z: bz,
				Serves: bucket,
			})
		}
	}

	// Step C: every non-service requirement becomes exactly one load
	for _, r := range reqs {
		if r.Type == LoadMainService {
			continue
		}
		add(Decision{
			Kind:       graph.KindLoad,
			Subtype:    string(r.Type),
			Reason:     fmt.Sprintf("%s demand on floor %d", r.Type, r.Floor),
			CapacityKW: r.LoadKW,
			Floor:      r.Floor,
			X:          r.X, Y: r.Y, Z: r.Z,
			Serves: []Requirement{r},
		})
	}

	decisions = p.reconcile(decisions)

	p.log.Debug("decision planning complete",
		logging.Component("planner"),
		logging.Int("decisions", len(decisions)),
		logging.Int("target", p.target))

	return decisions
}

// reconcile adjusts the decision count toward the target: pad with generic
// panelboards when short, trim the lowest-capacity loads when over.
func (p *Planner) reconcile(decisions []Decision) []Decision {
	for len(decisions) < p.target {
		floor := p.rng.Intn(p.profile.Floors)
		capacity := fillerPanelMinKW + p.rng.Float64()*(fillerPanelMaxKW-fillerPanelMinKW)
		x := p.rng.Float64() * p.profile.Length
		y := p.rng.Float64() * p.profile.Width
		d := Decision{
			Seq:        len(decisions),
			Kind:       graph.KindPanelboard,
			Subtype:    "distribution",
			Reason:     "target node count reconciliation",
			CapacityKW: capacity,
			Floor:      floor,
			X:          x, Y: y, Z: p.profile.FloorElevation(floor),
		}
		decisions = append(decisions, d)
	}

	if len(decisions) <= p.target {
		return decisions
	}

	// Over target: keep every non-load decision and the highest-capacity
	// loads that fit. Ties break by sequence for determinism.
	nonLoads := make([]Decision, 0, len(decisions))
	loads := make([]Decision, 0, len(decisions))
	for _, d := range decisions {
		if d.Kind == graph.KindLoad {
			loads = append(loads, d)
		} else {
			nonLoads = append(nonLoads, d)
		}
	}
	sort.SliceStable(loads, func(i, j int) bool {
		if loads[i].CapacityKW != loads[j].CapacityKW {
			return loads[i].CapacityKW > loads[j].CapacityKW
		}
		return loads[i].Seq < loads[j].Seq
	})
	room := p.target - len(nonLoads)
	if room < 0 {
		room = 0
	}
	if room > len(loads) {
		room = len(loads)
	}
	kept := append(nonLoads, loads[:room]...)
	sort.Slice(kept, func(i, j int) bool { return kept[i].Seq < kept[j].Seq })
	return kept
}

type floorClassGroup struct {
	floor int
	class VoltageClass
	reqs  []Requirement
}

// groupByFloorClass buckets requirements by floor and coarse voltage class,
// excluding the main service. Groups come back sorted by floor then class
// so planning order is deterministic.
func groupByFloorClass(reqs []Requirement) []floorClassGroup {
	type key struct {
		floor int
		class VoltageClass
	}
	buckets := make(map[key][]Requirement)
	for _, r := range reqs {
		if r.Type == LoadMainService {
			continue
		}
		class := r.Class
		if class == ClassHigh {
			class = ClassMedium
		}
		k := key{floor: r.Floor, class: class}
		buckets[k] = append(buckets[k], r)
	}

	groups := make([]floorClassGroup, 0, len(buckets))
	for k, v := range buckets {
		groups = append(groups, floorClassGroup{floor: k.floor, class: k.class, reqs: v})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].floor != groups[j].floor {
			return groups[i].floor < groups[j].floor
		}
		return groups[i].class < groups[j].class
	})
	return groups
}

func findMainService(reqs []Requirement) *Requirement {
	for i := range reqs {
		if reqs[i].Type == LoadMainService {
			return &reqs[i]
		}
	}
	return nil
}

// panelSubtype is "lighting" when any served requirement is a lighting
// load, else "power"
func panelSubtype(reqs []Requirement) string {
	for _, r := range reqs {
		if r.Type == LoadLighting {
			return "lighting"
		}
	}
	return "power"
}

func centroid(reqs []Requirement) (x, y, z float64) {
	if len(reqs) == 0 {
		return 0, 0, 0
	}
	for _, r := range reqs {
		x += r.X
		y += r.Y
		z += r.Z
	}
	n := float64(len(reqs))
	return x / n, y / n, z / n
}

// distance3 is the straight-line 3-D distance between two points
func distance3(x1, y1, z1, x2, y2, z2 float64) float64 {
	dx, dy, dz := x1-x2, y1-y2, z1-z2
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
