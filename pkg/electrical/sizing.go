package electrical

// Standard equipment sizes in amps for panelboards and switchboards, with
// replacement costs in USD per size.
var standardEquipmentAmps = []float64{
	60, 100, 150, 200, 225, 300, 400, 500, 600, 800,
	1000, 1200, 1600, 2000, 2500, 3000, 4000, 5000, 6000, 8000, 10000,
}

var standardEquipmentCosts = []float64{
	1000, 1500, 2000, 2250, 3000, 4000, 5000, 6000, 8000, 10000,
	12000, 16000, 20000, 25000, 30000, 40000, 50000, 60000, 80000, 100000, 120000,
}

// Standard transformer sizes in kVA with replacement costs in USD.
var standardTransformerKVA = []float64{
	15, 25, 37.5, 50, 75, 100, 112.5, 150, 167, 200, 225, 250, 300, 400, 500,
}

var standardTransformerCosts = []float64{
	1500, 2500, 3750, 5000, 7500, 10000, 11250, 15000, 16700,
	20000, 22500, 25000, 30000, 40000, 50000,
}

// serviceFactor derates standard sizes: equipment is selected so the
// computed value stays within 80% of the rating
const serviceFactor = 0.8

// SnapEquipmentAmps returns the smallest standard ampacity whose 80% rating
// covers the computed amperage, with its replacement cost. Oversized
// demands land on the largest size.
func SnapEquipmentAmps(amps float64) (rating, cost float64) {
	for i, size := range standardEquipmentAmps {
		if amps <= size*serviceFactor {
			return size, standardEquipmentCosts[i]
		}
	}
	last := len(standardEquipmentAmps) - 1
	return standardEquipmentAmps[last], standardEquipmentCosts[last]
}

// SnapTransformerKVA returns the smallest standard transformer size whose
// 80% rating covers the load, with its replacement cost
func SnapTransformerKVA(kva float64) (rating, cost float64) {
	for i, size := range standardTransformerKVA {
		if kva <= size*serviceFactor {
			return size, standardTransformerCosts[i]
		}
	}
	last := len(standardTransformerKVA) - 1
	return standardTransformerKVA[last], standardTransformerCosts[last]
}
