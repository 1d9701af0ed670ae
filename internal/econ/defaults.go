package econ

// TechAssumptions are one technology's (or the storage bucket's) economic
// parameters, per spec §4.7. FuelType/CO2Factor/Efficiency are zero for
// technologies with no variable-OPEX fuel dependency (PV, wind, storage).
type TechAssumptions struct {
	CAPEXPerMW        float64
	OPEXFixedPerMWYear float64
	LifetimeYears     float64
	FuelType          string
	CO2Factor         float64 // t CO2 / MWh_fuel
	Efficiency        float64 // fraction, 0 disables variable OPEX
}

// DefaultAssumptions is the built-in per-technology table used when a
// scenario omits its own economic_assumptions section. Figures are
// indicative order-of-magnitude German system-economics values (not sourced
// from original_source, which carries no built-in default table itself —
// every value there comes from the scenario's own economic_assumptions
// document); callers needing calibrated figures should supply their own
// economic_assumptions section rather than relying on these defaults.
var DefaultAssumptions = map[string]TechAssumptions{
	"Photovoltaik":         {CAPEXPerMW: 650_000, OPEXFixedPerMWYear: 9_000, LifetimeYears: 25},
	"Wind_Onshore":         {CAPEXPerMW: 1_300_000, OPEXFixedPerMWYear: 30_000, LifetimeYears: 25},
	"Wind_Offshore":        {CAPEXPerMW: 2_800_000, OPEXFixedPerMWYear: 80_000, LifetimeYears: 25},
	"Biomasse":             {CAPEXPerMW: 3_000_000, OPEXFixedPerMWYear: 120_000, LifetimeYears: 20, FuelType: "biomass", CO2Factor: 0, Efficiency: 0.38},
	"Wasserkraft":          {CAPEXPerMW: 3_500_000, OPEXFixedPerMWYear: 40_000, LifetimeYears: 40},
	"Erdgas":               {CAPEXPerMW: 800_000, OPEXFixedPerMWYear: 20_000, LifetimeYears: 30, FuelType: "gas", CO2Factor: 0.202, Efficiency: 0.55},
	"Steinkohle":           {CAPEXPerMW: 1_500_000, OPEXFixedPerMWYear: 35_000, LifetimeYears: 40, FuelType: "hard_coal", CO2Factor: 0.335, Efficiency: 0.43},
	"Braunkohle":           {CAPEXPerMW: 1_800_000, OPEXFixedPerMWYear: 40_000, LifetimeYears: 40, FuelType: "lignite", CO2Factor: 0.364, Efficiency: 0.40},
	"Kernenergie":          {CAPEXPerMW: 6_000_000, OPEXFixedPerMWYear: 150_000, LifetimeYears: 60, FuelType: "uranium", CO2Factor: 0, Efficiency: 0.33},
	"Sonstige_Erneuerbare": {CAPEXPerMW: 2_000_000, OPEXFixedPerMWYear: 50_000, LifetimeYears: 25},
	"storage": {CAPEXPerMW: 900_000, OPEXFixedPerMWYear: 15_000, LifetimeYears: 15},
}
