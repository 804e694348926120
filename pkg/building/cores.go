package building

import "math"

// StrategyKind names the vertical riser arrangement chosen for a building
type StrategyKind string

const (
	SingleCore StrategyKind = "single_core"
	DualCore   StrategyKind = "dual_core"
	MultiCore  StrategyKind = "multi_core"
)

// CorePosition is one vertical electrical riser location
type CorePosition struct {
	X  float64
	Y  float64
	ID int
}

// CoreStrategy describes how many risers the building carries and where they
// sit. Derived once from the profile; never mutated.
type CoreStrategy struct {
	Kind      StrategyKind
	Count     int
	Positions []CorePosition
}

// Thresholds for the core strategy decision rule
const (
	singleCoreHeightM  = 30.0
	dualCoreMinHeightM = 15.0
	dualCoreMaxAspect  = 3.5
	compactAspect      = 2.0
	compactMinFloors   = 6
	areaPerCoreSqM     = 1200.0
	multiCoreMinCount  = 2
	multiCoreMaxCount  = 4
)

// PlanCores derives the riser strategy purely from geometry. The placement
// is deterministic by core count, so this stage is reproducible independent
// of any seed.
func PlanCores(p Profile) CoreStrategy {
	height := p.Height()
	aspect := p.AspectRatio()

	switch {
	case height > singleCoreHeightM || (aspect < compactAspect && p.Floors > compactMinFloors):
		return CoreStrategy{Kind: SingleCore, Count: 1, Positions: placeCores(p, 1)}
	case height >= dualCoreMinHeightM && height <= singleCoreHeightM && aspect <= dualCoreMaxAspect:
		return CoreStrategy{Kind: DualCore, Count: 2, Positions: placeCores(p, 2)}
	default:
		count := int(math.Ceil(p.FloorArea() / areaPerCoreSqM))
		if count < multiCoreMinCount {
			count = multiCoreMinCount
		}
		if count > multiCoreMaxCount {
			count = multiCoreMaxCount
		}
		return CoreStrategy{Kind: MultiCore, Count: count, Positions: placeCores(p, count)}
	}
}

// placeCores lays out core positions by count: center, 30/70 split along the
// longer axis, triangle, or quadrants.
func placeCores(p Profile, count int) []CorePosition {
	l, w := p.Length, p.Width
	at := func(id int, fx, fy float64) CorePosition {
		return CorePosition{X: fx * l, Y: fy * w, ID: id}
	}
	// Fractions are expressed along (long, short) axes; swap when the
	// building is wider than long.
	along := func(id int, fLong, fShort float64) CorePosition {
		if l >= w {
			return at(id, fLong, fShort)
		}
		return at(id, fShort, fLong)
	}

	switch count {
	case 1:
		return []CorePosition{at(0, 0.5, 0.5)}
	case 2:
		return []CorePosition{
			along(0, 0.3, 0.5),
			along(1, 0.7, 0.5),
		}
	case 3:
		return []CorePosition{
			along(0, 0.25, 0.25),
			along(1, 0.75, 0.25),
			along(2, 0.5, 0.75),
		}
	default:
		return []CorePosition{
			at(0, 0.25, 0.25),
			at(1, 0.75, 0.25),
			at(2, 0.25, 0.75),
			at(3, 0.75, 0.75),
		}
	}
}

// NearestCore returns the core position closest to (x, y)
func (cs CoreStrategy) NearestCore(x, y float64) CorePosition {
	best := cs.Positions[0]
	bestDist := math.Hypot(x-best.X, y-best.Y)
	for _, c := range cs.Positions[1:] {
		d := math.Hypot(x-c.X, y-c.Y)
		if d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}
