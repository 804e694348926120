// Package electrical holds the standard voltage tiers, equipment sizing
// tables, and current calculations shared by the synthesis pipeline and the
// constraint validator.
package electrical

import "math"

// Standard voltage tiers. Every equipment voltage in a finished graph snaps
// to one of these.
const (
	HighTierUtility = 13500.0 // utility-class feed for large services
	HighTierCampus  = 4160.0  // medium campus feed for smaller services
	MediumTier      = 480.0
	LowTier         = 208.0
)

// highTierLoadThresholdKW selects the utility-class high tier once the
// estimated building load crosses it
const highTierLoadThresholdKW = 1000.0

// stepDownRatio is the minimum relative drop a transformer must deliver
const stepDownRatio = 0.8

// SelectHighTier fixes the high voltage tier for a graph from its estimated
// total load
func SelectHighTier(totalLoadKW float64) float64 {
	if totalLoadKW > highTierLoadThresholdKW {
		return HighTierUtility
	}
	return HighTierCampus
}

// Tiers returns the standard voltage set for a graph, descending
func Tiers(highTier float64) []float64 {
	return []float64{highTier, MediumTier, LowTier}
}

// StepDown returns the nearest standard voltage strictly below upstream by
// at least 20%, falling back to the low tier when none qualifies
func StepDown(upstream, highTier float64) float64 {
	best := 0.0
	for _, t := range Tiers(highTier) {
		if t <= upstream*stepDownRatio && t > best {
			best = t
		}
	}
	if best == 0 {
		return LowTier
	}
	return best
}

// NearestTier snaps a voltage to the closest standard tier
func NearestTier(v, highTier float64) float64 {
	best := LowTier
	bestDist := math.Abs(v - best)
	for _, t := range Tiers(highTier) {
		if d := math.Abs(v - t); d < bestDist {
			best = t
			bestDist = d
		}
	}
	return best
}

// ThreePhase reports whether a transmitted voltage runs three-phase
func ThreePhase(voltage float64) bool {
	return voltage > 240
}

// Amperage computes current in amps for a power in kW at a voltage.
// Three-phase circuits divide by sqrt(3)·V, single-phase by V.
func Amperage(powerKW, voltage float64, phases int) float64 {
	if voltage <= 0 {
		return 0
	}
	watts := powerKW * 1000.0
	if phases == 3 {
		return watts / (voltage * math.Sqrt(3))
	}
	return watts / voltage
}
