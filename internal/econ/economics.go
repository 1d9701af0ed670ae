// Package econ implements the annuity-based economic calculator (C7):
// per-technology CAPEX/OPEX from a delta-build investment model, a separate
// storage investment bucket, and system LCOE.
package econ

import "math"

// BaselineFallbackShare is the "70% of target" calibration hack used when no
// explicit or historical baseline capacity is available (spec §4.7/§9).
const BaselineFallbackShare = 0.70

// TechInput is one technology's per-year economic inputs.
type TechInput struct {
	Assumptions        TechAssumptions
	BaselineMW         *float64 // explicit override; nil falls through the priority chain
	HistoricalBaseMW   *float64 // historical SMARD baseline; nil if unavailable
	TargetMW           float64
	GenerationMWh      float64
	FuelPriceEURPerMWh float64
	CO2PriceEURPerTCO2 float64
	WACC               float64
}

// TechResult is one technology's computed annual cost breakdown.
type TechResult struct {
	BaselineMW       float64
	InvestmentEUR    float64 // delta-build investment (informational; not annualised cost)
	AnnualCAPEXEUR   float64
	AnnualOPEXFixEUR float64
	AnnualOPEXVarEUR float64
}

// TotalAnnualEUR sums the three annual cost components.
func (r TechResult) TotalAnnualEUR() float64 {
	return r.AnnualCAPEXEUR + r.AnnualOPEXFixEUR + r.AnnualOPEXVarEUR
}

// AnnuityFactor computes A = i(1+i)^n/((1+i)^n-1); A = 1/n if i = 0; 0 if
// n <= 0.
func AnnuityFactor(wacc, lifetimeYears float64) float64 {
	if lifetimeYears <= 0 {
		return 0
	}
	if wacc == 0 {
		return 1 / lifetimeYears
	}
	factor := math.Pow(1+wacc, lifetimeYears)
	return wacc * factor / (factor - 1)
}

// resolveBaseline applies the priority: explicit > historical > 70% fallback.
func resolveBaseline(in TechInput) float64 {
	if in.BaselineMW != nil {
		return *in.BaselineMW
	}
	if in.HistoricalBaseMW != nil {
		return *in.HistoricalBaseMW
	}
	return BaselineFallbackShare * in.TargetMW
}

// variableOPEXSpecific computes (fuel_price + co2_price*co2_factor)/efficiency
// in EUR/MWh_el; 0 if no fuel type or efficiency <= 0.
func variableOPEXSpecific(in TechInput) float64 {
	a := in.Assumptions
	if a.FuelType == "" || a.Efficiency <= 0 {
		return 0
	}
	return (in.FuelPriceEURPerMWh + in.CO2PriceEURPerTCO2*a.CO2Factor) / a.Efficiency
}

// ComputeTech runs the per-technology calculation of spec §4.7.
func ComputeTech(in TechInput) TechResult {
	baseline := resolveBaseline(in)
	deltaP := math.Max(0, in.TargetMW-baseline)
	investment := deltaP * in.Assumptions.CAPEXPerMW

	annuity := AnnuityFactor(in.WACC, in.Assumptions.LifetimeYears)
	annualCAPEX := in.TargetMW * in.Assumptions.CAPEXPerMW * annuity
	annualOPEXFix := in.TargetMW * in.Assumptions.OPEXFixedPerMWYear
	annualOPEXVar := in.GenerationMWh * variableOPEXSpecific(in)

	return TechResult{
		BaselineMW:       baseline,
		InvestmentEUR:    investment,
		AnnualCAPEXEUR:   annualCAPEX,
		AnnualOPEXFixEUR: annualOPEXFix,
		AnnualOPEXVarEUR: annualOPEXVar,
	}
}

// StorageInput sizes the storage investment bucket by installed power
// (max_charge_power_mw), not installed energy capacity.
type StorageInput struct {
	Assumptions   TechAssumptions
	BaselineMW    *float64
	TargetPowerMW float64
	WACC          float64
}

// ComputeStorage runs the storage-bucket variant of the per-technology
// calculation (no variable OPEX; sized by power, not energy).
func ComputeStorage(in StorageInput) TechResult {
	return ComputeTech(TechInput{
		Assumptions: in.Assumptions,
		BaselineMW:  in.BaselineMW,
		TargetMW:    in.TargetPowerMW,
		WACC:        in.WACC,
	})
}

// SystemResult is the whole-system economic summary for one target year.
type SystemResult struct {
	ByTech           map[string]TechResult
	TotalAnnualEUR   float64
	LCOECtPerKWh     float64
}

// ComputeSystem aggregates per-technology results (including the storage
// bucket under key "storage") into the system LCOE of spec §4.7.
func ComputeSystem(byTech map[string]TechResult, totalConsumptionMWh float64) SystemResult {
	var total float64
	for _, r := range byTech {
		total += r.TotalAnnualEUR()
	}
	var lcoe float64
	if totalConsumptionMWh > 0 {
		lcoe = (total / totalConsumptionMWh) * 0.1 // EUR/MWh -> ct/kWh
	}
	return SystemResult{ByTech: byTech, TotalAnnualEUR: total, LCOECtPerKWh: lcoe}
}
