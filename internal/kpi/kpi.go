// Package kpi implements the KPI/scoring reducer (C8): three categories of
// three KPIs each, normalised against fixed (best, worst) bounds into a
// 0-100 score, then averaged into category and overall scores.
package kpi

// Bound is a (best, worst) pair for one KPI's normalisation.
type Bound struct {
	Best, Worst float64
}

// Bounds is the fixed per-KPI (best, worst) table of spec §4.8. For
// storage_utilization, best=1/worst=0 inverts the usual "lower is better"
// direction — the formula handles this via the (b, w) pair itself.
var Bounds = map[string]Bound{
	"energy_deficit_share": {Best: 0, Worst: 1},
	"peak_deficit_ratio":   {Best: 0, Worst: 1},
	"deficit_frequency":    {Best: 0, Worst: 1},

	"co2_intensity":      {Best: 0, Worst: 1000},
	"curtailment_share":  {Best: 0, Worst: 1},
	"fossil_share":       {Best: 0, Worst: 1},

	"system_cost_index":   {Best: 0, Worst: 100},
	"import_dependency":   {Best: 0, Worst: 1},
	"storage_utilization": {Best: 1, Worst: 0},
}

var securityKPIs = []string{"energy_deficit_share", "peak_deficit_ratio", "deficit_frequency"}
var ecologyKPIs = []string{"co2_intensity", "curtailment_share", "fossil_share"}
var economyKPIs = []string{"system_cost_index", "import_dependency", "storage_utilization"}

// Score normalises value v for KPI name into [0, 100].
func Score(name string, v float64) float64 {
	b, ok := Bounds[name]
	if !ok {
		return 0
	}
	if b.Worst == b.Best {
		return 0
	}
	s := (1 - (v-b.Best)/(b.Worst-b.Best)) * 100
	if s < 0 {
		s = 0
	}
	if s > 100 {
		s = 100
	}
	return s
}

// CategoryScore holds one category's per-KPI scores and their mean.
type CategoryScore struct {
	KPIs  map[string]float64
	Score float64
}

func buildCategory(values map[string]float64, names []string) CategoryScore {
	kpis := make(map[string]float64, len(names))
	var sum float64
	for _, name := range names {
		s := Score(name, values[name])
		kpis[name] = s
		sum += s
	}
	return CategoryScore{KPIs: kpis, Score: sum / float64(len(names))}
}

// Scorecard is the full §4.8 output: three category scores plus an overall
// mean, serialised directly to the nested {category:{kpi:value}} JSON of §6.
type Scorecard struct {
	Security CategoryScore
	Ecology  CategoryScore
	Economy  CategoryScore
	Overall  float64
}

// Inputs are the raw KPI values for one target year, computed upstream from
// the balance/storage/econ results.
type Inputs struct {
	EnergyDeficitShare float64
	PeakDeficitRatio   float64
	DeficitFrequency   float64

	CO2IntensityGPerKWh float64
	CurtailmentShare    float64
	FossilShare         float64

	SystemCostIndexCtPerKWh float64
	ImportDependency        float64
	StorageUtilization      float64
}

// Compute builds the Scorecard from raw KPI inputs.
func Compute(in Inputs) Scorecard {
	security := buildCategory(map[string]float64{
		"energy_deficit_share": in.EnergyDeficitShare,
		"peak_deficit_ratio":   in.PeakDeficitRatio,
		"deficit_frequency":    in.DeficitFrequency,
	}, securityKPIs)

	ecology := buildCategory(map[string]float64{
		"co2_intensity":     in.CO2IntensityGPerKWh,
		"curtailment_share": in.CurtailmentShare,
		"fossil_share":      in.FossilShare,
	}, ecologyKPIs)

	economy := buildCategory(map[string]float64{
		"system_cost_index":   in.SystemCostIndexCtPerKWh,
		"import_dependency":   in.ImportDependency,
		"storage_utilization": in.StorageUtilization,
	}, economyKPIs)

	overall := (security.Score + ecology.Score + economy.Score) / 3
	return Scorecard{Security: security, Ecology: ecology, Economy: economy, Overall: overall}
}
