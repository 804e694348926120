package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/yaml.v3"

	"github.com/gridsmith/mepsynth/pkg/export"
	"github.com/gridsmith/mepsynth/pkg/graph"
	"github.com/gridsmith/mepsynth/pkg/logging"
	"github.com/gridsmith/mepsynth/pkg/metrics"
	"github.com/gridsmith/mepsynth/pkg/synth"
	"github.com/gridsmith/mepsynth/pkg/validation"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

func main() {
	var (
		seed          = flag.Int64("seed", 0, "Random seed (0 = time-based)")
		filename      = flag.String("filename", "", "Output filename (default mep_graph_<timestamp>_seed_<seed>.mepg)")
		outputDir     = flag.String("output-dir", ".", "Output directory, created if missing")
		configPath    = flag.String("config", "", "YAML config file with building parameters")
		length        = flag.Float64("length", 40, "Building length in meters")
		width         = flag.Float64("width", 25, "Building width in meters")
		floorHeight   = flag.Float64("floor-height", 3.5, "Floor height in meters")
		floors        = flag.Int("floors", 5, "Number of above-ground floors")
		basementDepth = flag.Float64("basement-depth", 4, "Basement depth in meters")
		compress      = flag.Bool("compress", false, "Snappy-compress the output (.mepg.sz)")
		showMetrics   = flag.Bool("metrics", false, "Print Prometheus metrics after generation")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	nodeCount, err := strconv.Atoi(flag.Arg(0))
	if err != nil {
		fatal(fmt.Errorf("node_count must be an integer, got %q", flag.Arg(0)))
	}

	req := &validation.GenerationRequest{
		NodeCount:     nodeCount,
		Length:        *length,
		Width:         *width,
		FloorHeight:   *floorHeight,
		Floors:        *floors,
		BasementDepth: *basementDepth,
		Seed:          *seed,
	}

	if *configPath != "" {
		if err := loadConfig(*configPath, req); err != nil {
			fatal(err)
		}
		// Explicit flags win over the config file
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "seed":
				req.Seed = *seed
			case "length":
				req.Length = *length
			case "width":
				req.Width = *width
			case "floor-height":
				req.FloorHeight = *floorHeight
			case "floors":
				req.Floors = *floors
			case "basement-depth":
				req.BasementDepth = *basementDepth
			}
		})
		req.NodeCount = nodeCount
	}

	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	reg := metrics.NewRegistry()
	log := logging.DefaultLogger()
	gen := synth.NewGenerator(synth.Options{Logger: log, Metrics: reg})

	result, err := gen.Generate(req)
	if err != nil {
		fatal(err)
	}

	name := *filename
	if name == "" {
		name = fmt.Sprintf("mep_graph_%s_seed_%d.mepg", time.Now().Format("20060102_150405"), req.Seed)
	}
	if *compress && filepath.Ext(name) != ".sz" {
		name += ".sz"
	}
	path := filepath.Join(*outputDir, name)

	exporter := export.NewExporter(log, reg)
	if err := exporter.ExportFile(result.Graph, path); err != nil {
		fatal(err)
	}

	printSummary(result, path)

	if *showMetrics {
		if err := dumpMetrics(reg); err != nil {
			fatal(err)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <node_count>\n\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(os.Stderr, "Synthesizes a building electrical distribution topology and writes it\nas a GraphML (.mepg) document.\n\nFlags:\n")
	flag.PrintDefaults()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
	os.Exit(1)
}

// loadConfig merges a YAML file into the request
func loadConfig(path string, req *validation.GenerationRequest) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, req); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func printSummary(result *synth.Result, path string) {
	g := result.Graph

	byKind := make(map[graph.Kind]int)
	for _, n := range g.Nodes() {
		byKind[n.Kind]++
	}
	kinds := make([]graph.Kind, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	minDist, maxDist, sumDist := math.Inf(1), 0.0, 0.0
	for _, e := range g.Edges() {
		if e.CableDistanceM < minDist {
			minDist = e.CableDistanceM
		}
		if e.CableDistanceM > maxDist {
			maxDist = e.CableDistanceM
		}
		sumDist += e.CableDistanceM
	}
	meanDist := 0.0
	if g.EdgeCount() > 0 {
		meanDist = sumDist / float64(g.EdgeCount())
	}

	lines := fmt.Sprintf("Nodes:          %d\n", g.NodeCount())
	for _, k := range kinds {
		lines += fmt.Sprintf("  %-13s %d\n", string(k)+":", byKind[k])
	}
	lines += fmt.Sprintf("Edges:          %d\n", g.EdgeCount())
	lines += fmt.Sprintf("Total load:     %.1f kW\n", result.TotalLoadKW)
	lines += fmt.Sprintf("Voltage system: %s\n", g.Meta.VoltageSystem)
	lines += fmt.Sprintf("Core strategy:  %s (%d)\n", result.Cores.Kind, result.Cores.Count)
	if g.EdgeCount() > 0 {
		lines += fmt.Sprintf("Cable runs:     %.1f / %.1f / %.1f m (min/mean/max)\n", minDist, meanDist, maxDist)
	}
	lines += fmt.Sprintf("Seed:           %d", g.Meta.Seed)

	fmt.Println(titleStyle.Render("MEP Topology Synthesis"))
	fmt.Println(statsBoxStyle.Render(lines))

	if repairs := result.Report.RepairCount(); repairs > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("%d violation(s) repaired during validation", repairs)))
	}
	fmt.Println(successStyle.Render("Written to " + path))
}

// dumpMetrics prints the registry in Prometheus text exposition format
func dumpMetrics(reg *metrics.Registry) error {
	families, err := reg.GetPrometheusRegistry().Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(os.Stdout, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
