package graph

// Kind identifies the equipment class of a node
type Kind string

const (
	KindTransformer Kind = "transformer"
	KindSwitchboard Kind = "switchboard"
	KindPanelboard  Kind = "panelboard"
	KindLoad        Kind = "load"
)

// Stage tracks the node lifecycle. Nodes are created provisional with only
// structural attributes; voltage propagation moves them to energized. A
// provisional node must never reach the exporter.
type Stage int

const (
	StageProvisional Stage = iota
	StageEnergized
)

func (s Stage) String() string {
	switch s {
	case StageProvisional:
		return "provisional"
	case StageEnergized:
		return "energized"
	default:
		return "unknown"
	}
}

// Attributes is the per-kind attribute bag. Each kind carries a fixed schema
// so propagation is guaranteed to set every required electrical field.
type Attributes interface {
	// AttrKind returns the equipment kind the bag belongs to
	AttrKind() Kind
	// Flatten renders the bag as a flat typed-value map for serialization
	Flatten() map[string]Value
}

// TransformerAttrs holds the engineering attributes of a transformer node
type TransformerAttrs struct {
	Subtype           string // "main" or "secondary"
	CapacityKW        float64
	Manufacturer      string
	WidthMM           int
	HeightMM          int
	DepthMM           int
	UpstreamVoltage   float64
	DownstreamVoltage float64
	Phases            int
	FrequencyHz       float64
	PrimaryAmps       float64
	SecondaryAmps     float64
	ShortCircuitKA    float64
	NominalPowerKVA   float64
	ReplacementCost   float64
	ManufactureYear   int
	InstallYear       int
	LifespanYears     int
}

func (a *TransformerAttrs) AttrKind() Kind { return KindTransformer }

func (a *TransformerAttrs) Flatten() map[string]Value {
	return map[string]Value{
		"subtype":            StringValue(a.Subtype),
		"capacity_kw":        FloatValue(a.CapacityKW),
		"manufacturer":       StringValue(a.Manufacturer),
		"width_mm":           IntValue(int64(a.WidthMM)),
		"height_mm":          IntValue(int64(a.HeightMM)),
		"depth_mm":           IntValue(int64(a.DepthMM)),
		"upstream_voltage":   FloatValue(a.UpstreamVoltage),
		"downstream_voltage": FloatValue(a.DownstreamVoltage),
		"phases":             IntValue(int64(a.Phases)),
		"frequency_hz":       FloatValue(a.FrequencyHz),
		"primary_amps":       FloatValue(a.PrimaryAmps),
		"secondary_amps":     FloatValue(a.SecondaryAmps),
		"short_circuit_ka":   FloatValue(a.ShortCircuitKA),
		"nominal_power_kva":  FloatValue(a.NominalPowerKVA),
		"replacement_cost":   FloatValue(a.ReplacementCost),
		"manufacture_year":   IntValue(int64(a.ManufactureYear)),
		"install_year":       IntValue(int64(a.InstallYear)),
		"expected_lifespan":  IntValue(int64(a.LifespanYears)),
	}
}

// SwitchboardAttrs holds the engineering attributes of a switchboard node
type SwitchboardAttrs struct {
	Subtype           string
	CapacityKW        float64
	Manufacturer      string
	WidthMM           int
	HeightMM          int
	DepthMM           int
	UpstreamVoltage   float64
	DownstreamVoltage float64
	Phases            int
	FrequencyHz       float64
	AmperageRating    float64
	ShortCircuitKA    float64
	ReplacementCost   float64
	InstallYear       int
	LifespanYears     int
}

func (a *SwitchboardAttrs) AttrKind() Kind { return KindSwitchboard }

func (a *SwitchboardAttrs) Flatten() map[string]Value {
	return map[string]Value{
		"subtype":            StringValue(a.Subtype),
		"capacity_kw":        FloatValue(a.CapacityKW),
		"manufacturer":       StringValue(a.Manufacturer),
		"width_mm":           IntValue(int64(a.WidthMM)),
		"height_mm":          IntValue(int64(a.HeightMM)),
		"depth_mm":           IntValue(int64(a.DepthMM)),
		"upstream_voltage":   FloatValue(a.UpstreamVoltage),
		"downstream_voltage": FloatValue(a.DownstreamVoltage),
		"phases":             IntValue(int64(a.Phases)),
		"frequency_hz":       FloatValue(a.FrequencyHz),
		"amperage_rating":    FloatValue(a.AmperageRating),
		"short_circuit_ka":   FloatValue(a.ShortCircuitKA),
		"replacement_cost":   FloatValue(a.ReplacementCost),
		"install_year":       IntValue(int64(a.InstallYear)),
		"expected_lifespan":  IntValue(int64(a.LifespanYears)),
	}
}

// PanelboardAttrs holds the engineering attributes of a panelboard node
type PanelboardAttrs struct {
	Subtype           string // "distribution", "lighting" or "power"
	CapacityKW        float64
	Manufacturer      string
	WidthMM           int
	HeightMM          int
	DepthMM           int
	UpstreamVoltage   float64
	DownstreamVoltage float64
	Phases            int
	FrequencyHz       float64
	AmperageRating    float64
	ReplacementCost   float64
	InstallYear       int
	LifespanYears     int
}

func (a *PanelboardAttrs) AttrKind() Kind { return KindPanelboard }

func (a *PanelboardAttrs) Flatten() map[string]Value {
	return map[string]Value{
		"subtype":            StringValue(a.Subtype),
		"capacity_kw":        FloatValue(a.CapacityKW),
		"manufacturer":       StringValue(a.Manufacturer),
		"width_mm":           IntValue(int64(a.WidthMM)),
		"height_mm":          IntValue(int64(a.HeightMM)),
		"depth_mm":           IntValue(int64(a.DepthMM)),
		"upstream_voltage":   FloatValue(a.UpstreamVoltage),
		"downstream_voltage": FloatValue(a.DownstreamVoltage),
		"phases":             IntValue(int64(a.Phases)),
		"frequency_hz":       FloatValue(a.FrequencyHz),
		"amperage_rating":    FloatValue(a.AmperageRating),
		"replacement_cost":   FloatValue(a.ReplacementCost),
		"install_year":       IntValue(int64(a.InstallYear)),
		"expected_lifespan":  IntValue(int64(a.LifespanYears)),
	}
}

// LoadAttrs holds the attributes of an end load node
type LoadAttrs struct {
	Subtype         string // load type: "lighting", "receptacles", "hvac", ...
	DemandKW        float64
	UpstreamVoltage float64
	Phases          int
	FrequencyHz     float64
	AmperageDraw    float64
	Priority        int // 1 = critical
	InstallYear     int
	LifespanYears   int
}

func (a *LoadAttrs) AttrKind() Kind { return KindLoad }

func (a *LoadAttrs) Flatten() map[string]Value {
	return map[string]Value{
		"subtype":           StringValue(a.Subtype),
		"demand_kw":         FloatValue(a.DemandKW),
		"upstream_voltage":  FloatValue(a.UpstreamVoltage),
		"phases":            IntValue(int64(a.Phases)),
		"frequency_hz":      FloatValue(a.FrequencyHz),
		"amperage_draw":     FloatValue(a.AmperageDraw),
		"priority":          IntValue(int64(a.Priority)),
		"install_year":      IntValue(int64(a.InstallYear)),
		"expected_lifespan": IntValue(int64(a.LifespanYears)),
	}
}
