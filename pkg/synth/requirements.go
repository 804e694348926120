// Package synth implements the topology synthesis pipeline: requirement
// analysis, node decision planning, graph construction, and voltage
// propagation.
package synth

import (
	"fmt"
	"math/rand"

	"github.com/gridsmith/mepsynth/pkg/building"
	"github.com/gridsmith/mepsynth/pkg/logging"
)

// VoltageClass is the coarse voltage classification of a requirement
type VoltageClass string

const (
	ClassHigh   VoltageClass = "high"
	ClassMedium VoltageClass = "medium"
	ClassLow    VoltageClass = "low"
)

// LoadType tags the kind of demand a requirement represents
type LoadType string

const (
	LoadMainService LoadType = "main_service"
	LoadHVAC        LoadType = "hvac"
	LoadLighting    LoadType = "lighting"
	LoadReceptacles LoadType = "receptacles"
	LoadKitchen     LoadType = "kitchen"
	LoadDataCenter  LoadType = "data_center"
)

// Requirement is one discrete electrical demand derived from the building
// profile. Created once, consumed once by the planner, never mutated.
type Requirement struct {
	LoadKW   float64
	Class    VoltageClass
	X, Y, Z  float64
	Type     LoadType
	Floor    int
	Room     string
	Priority int // 1 = critical
}

// Load densities in W/sqft, applied to floor areas converted to square feet
const (
	mainServiceDensity  = 5.0
	basementHVACDensity = 2.5
	lightingDensity     = 1.5
	generalPowerDensity = 3.0
)

// Fixed-size special requirements in kW
const (
	kitchenLoadKW    = 30.0
	dataCenterLoadKW = 50.0
)

// kitchenFloorInterval places a kitchen requirement on every third floor
const kitchenFloorInterval = 3

// Analyzer converts a building profile into discrete electrical
// requirements
type Analyzer struct {
	profile building.Profile
	cores   building.CoreStrategy
	rng     *rand.Rand
	log     logging.Logger
}

// NewAnalyzer creates a requirement analyzer. The rng is the pipeline's
// single seeded stream.
func NewAnalyzer(profile building.Profile, cores building.CoreStrategy, rng *rand.Rand, log logging.Logger) *Analyzer {
	return &Analyzer{profile: profile, cores: cores, rng: rng, log: log}
}

// Analyze emits the requirement list: one main service and one HVAC demand
// on the basement level, lighting and general power per above-ground floor,
// a kitchen every third floor, and a data-center demand on the top floor.
func (a *Analyzer) Analyze() []Requirement {
	p := a.profile
	reqs := make([]Requirement, 0, 2*p.Floors+4)

	serviceCore := a.cores.NearestCore(p.Length/2, p.Width/2)
	basementZ := p.FloorElevation(building.BasementFloor)

	reqs = append(reqs, Requirement{
		LoadKW:   mainServiceDensity * p.FloorAreaSqFt() * float64(p.Floors) / 1000.0,
		Class:    ClassHigh,
		X:        serviceCore.X,
		Y:        serviceCore.Y,
		Z:        basementZ,
		Type:     LoadMainService,
		Floor:    building.BasementFloor,
		Room:     "ELEC-B",
		Priority: 1,
	})
	reqs = append(reqs, Requirement{
		LoadKW:   basementHVACDensity * p.FloorAreaSqFt() * float64(p.Floors) / 1000.0,
		Class:    ClassMedium,
		X:        serviceCore.X,
		Y:        serviceCore.Y,
		Z:        basementZ,
		Type:     LoadHVAC,
		Floor:    building.BasementFloor,
		Room:     "MECH-B",
		Priority: 1,
	})

	for floor := 0; floor < p.Floors; floor++ {
		z := p.FloorElevation(floor)

		x, y := a.randomPoint()
		reqs = append(reqs, Requirement{
			LoadKW:   lightingDensity * p.FloorAreaSqFt() / 1000.0,
			Class:    ClassLow,
			X:        x,
			Y:        y,
			Z:        z,
			Type:     LoadLighting,
			Floor:    floor,
			Room:     fmt.Sprintf("OPEN-%d", floor),
			Priority: 2,
		})

		x, y = a.randomPoint()
		reqs = append(reqs, Requirement{
			LoadKW:   generalPowerDensity * p.FloorAreaSqFt() / 1000.0,
			Class:    ClassLow,
			X:        x,
			Y:        y,
			Z:        z,
			Type:     LoadReceptacles,
			Floor:    floor,
			Room:     fmt.Sprintf("OPEN-%d", floor),
			Priority: 3,
		})

		if (floor+1)%kitchenFloorInterval == 0 {
			x, y = a.randomPoint()
			reqs = append(reqs, Requirement{
				LoadKW:   kitchenLoadKW,
				Class:    ClassMedium,
				X:        x,
				Y:        y,
				Z:        z,
				Type:     LoadKitchen,
				Floor:    floor,
				Room:     fmt.Sprintf("KIT-%d", floor),
				Priority: 2,
			})
		}

		if floor == p.Floors-1 {
			core := a.cores.NearestCore(p.Length/2, p.Width/2)
			reqs = append(reqs, Requirement{
				LoadKW:   dataCenterLoadKW,
				Class:    ClassMedium,
				X:        core.X,
				Y:        core.Y,
				Z:        z,
				Type:     LoadDataCenter,
				Floor:    floor,
				Room:     fmt.Sprintf("DATA-%d", floor),
				Priority: 1,
			})
		}
	}

	a.log.Debug("requirement analysis complete",
		logging.Component("requirements"),
		logging.Int("count", len(reqs)),
		logging.Float64("total_kw", TotalLoadKW(reqs)))

	return reqs
}

// randomPoint draws a location within the floor footprint from the seeded
// stream
func (a *Analyzer) randomPoint() (float64, float64) {
	return a.rng.Float64() * a.profile.Length, a.rng.Float64() * a.profile.Width
}

// TotalLoadKW sums the load of a requirement list
func TotalLoadKW(reqs []Requirement) float64 {
	total := 0.0
	for _, r := range reqs {
		total += r.LoadKW
	}
	return total
}
