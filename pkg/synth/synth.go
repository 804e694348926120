package synth

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/gridsmith/mepsynth/pkg/building"
	"github.com/gridsmith/mepsynth/pkg/constraints"
	"github.com/gridsmith/mepsynth/pkg/electrical"
	"github.com/gridsmith/mepsynth/pkg/graph"
	"github.com/gridsmith/mepsynth/pkg/logging"
	"github.com/gridsmith/mepsynth/pkg/metrics"
	"github.com/gridsmith/mepsynth/pkg/validation"
)

// Options configures a Generator
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Generator runs the full synthesis pipeline: validate, analyze, plan,
// build, energize, repair
type Generator struct {
	log     logging.Logger
	metrics *metrics.Registry
}

// NewGenerator creates a generator. Nil options fall back to the defaults.
func NewGenerator(opts Options) *Generator {
	log := opts.Logger
	if log == nil {
		log = logging.DefaultLogger()
	}
	reg := opts.Metrics
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Generator{log: log, metrics: reg}
}

// Result bundles a finished graph with the context it was synthesized in
type Result struct {
	Graph       *graph.Graph
	Report      *constraints.Report
	Profile     building.Profile
	Cores       building.CoreStrategy
	TotalLoadKW float64
	HighTier    float64
}

// Generate synthesizes one topology from a request. The same request,
// including the seed, always produces an identical graph.
func (gen *Generator) Generate(req *validation.GenerationRequest) (*Result, error) {
	start := time.Now()

	result, err := gen.generate(req)
	if err != nil {
		gen.metrics.RecordGeneration("error", time.Since(start))
		return nil, err
	}

	gen.metrics.RecordGeneration("ok", time.Since(start))
	gen.observeShape(result)

	gen.log.Info("topology generated",
		logging.Component("generator"),
		logging.String("generation_id", result.Graph.Meta.GenerationID),
		logging.Int64("seed", result.Graph.Meta.Seed),
		logging.Int("nodes", result.Graph.NodeCount()),
		logging.Int("edges", result.Graph.EdgeCount()),
		logging.Float64("total_load_kw", result.TotalLoadKW),
		logging.Duration("elapsed", time.Since(start)))

	return result, nil
}

func (gen *Generator) generate(req *validation.GenerationRequest) (*Result, error) {
	if err := validation.ValidateGenerationRequest(req); err != nil {
		return nil, err
	}

	profile, err := building.NewProfile(req.Length, req.Width, req.FloorHeight, req.Floors, req.BasementDepth)
	if err != nil {
		return nil, err
	}

	cores := building.PlanCores(profile)
	rng := rand.New(rand.NewSource(req.Seed))

	stage := time.Now()
	reqs := NewAnalyzer(profile, cores, rng, gen.log).Analyze()
	totalLoad := TotalLoadKW(reqs)
	gen.metrics.RecordStage("requirements", time.Since(stage))

	stage = time.Now()
	decisions := NewPlanner(profile, cores, req.NodeCount, rng, gen.log).Plan(reqs)
	gen.metrics.RecordStage("decisions", time.Since(stage))

	stage = time.Now()
	g, err := NewBuilder(profile, rng, gen.log).Build(decisions)
	if err != nil {
		return nil, err
	}
	gen.metrics.RecordStage("build", time.Since(stage))

	highTier := electrical.SelectHighTier(totalLoad)

	stage = time.Now()
	if err := NewPropagator(highTier, gen.log).Propagate(g); err != nil {
		return nil, err
	}
	gen.metrics.RecordStage("voltage", time.Since(stage))

	stage = time.Now()
	report, err := constraints.NewValidator(highTier, gen.log).Repair(g)
	if err != nil {
		return nil, err
	}
	gen.metrics.RecordStage("validate", time.Since(stage))

	for _, v := range report.Violations {
		gen.metrics.RecordViolation(v.Constraint, v.Severity.String())
		if v.Repaired {
			gen.metrics.RecordRepair(v.Constraint)
		}
	}

	g.Meta = graph.Metadata{
		GenerationID:   uuid.New().String(),
		Seed:           req.Seed,
		BuildingLength: profile.Length,
		BuildingWidth:  profile.Width,
		FloorHeight:    profile.FloorHeight,
		Floors:         profile.Floors,
		BasementDepth:  profile.BasementDepth,
		TotalLoadKW:    totalLoad,
		VoltageSystem:  fmt.Sprintf("%.0f/%.0f/%.0fV", highTier, electrical.MediumTier, electrical.LowTier),
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	return &Result{
		Graph:       g,
		Report:      report,
		Profile:     profile,
		Cores:       cores,
		TotalLoadKW: totalLoad,
		HighTier:    highTier,
	}, nil
}

func (gen *Generator) observeShape(r *Result) {
	byType := make(map[string]int)
	for _, n := range r.Graph.Nodes() {
		byType[string(n.Kind)]++
	}
	gen.metrics.RecordGraphShape(byType, r.Graph.EdgeCount(), r.TotalLoadKW)
}
