package econ

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnnuityFactorZeroWACC(t *testing.T) {
	require.InDelta(t, 1.0/20, AnnuityFactor(0, 20), 1e-9)
}

func TestAnnuityFactorZeroLifetime(t *testing.T) {
	require.Equal(t, 0.0, AnnuityFactor(0.05, 0))
}

func TestAnnuityFactorKnownValue(t *testing.T) {
	// i=0.05, n=20 -> A ≈ 0.080243
	require.InDelta(t, 0.080243, AnnuityFactor(0.05, 20), 1e-5)
}

func TestResolveBaselinePriorityExplicitOverHistorical(t *testing.T) {
	explicit := 10.0
	historical := 20.0
	in := TechInput{BaselineMW: &explicit, HistoricalBaseMW: &historical, TargetMW: 100}
	require.Equal(t, 10.0, resolveBaseline(in))
}

func TestResolveBaselineFallsBackTo70Percent(t *testing.T) {
	in := TechInput{TargetMW: 100}
	require.Equal(t, 70.0, resolveBaseline(in))
}

func TestComputeTechNoFuelHasZeroVariableOPEX(t *testing.T) {
	r := ComputeTech(TechInput{
		Assumptions:   TechAssumptions{CAPEXPerMW: 1000, OPEXFixedPerMWYear: 10, LifetimeYears: 20},
		TargetMW:      50,
		GenerationMWh: 1000,
		WACC:          0.05,
	})
	require.Equal(t, 0.0, r.AnnualOPEXVarEUR)
}

func TestComputeTechVariableOPEXWithFuel(t *testing.T) {
	r := ComputeTech(TechInput{
		Assumptions:        TechAssumptions{FuelType: "gas", CO2Factor: 0.2, Efficiency: 0.5},
		TargetMW:           10,
		GenerationMWh:      100,
		FuelPriceEURPerMWh: 30,
		CO2PriceEURPerTCO2: 50,
	})
	// (30 + 50*0.2)/0.5 = 80 EUR/MWh_el * 100 MWh = 8000
	require.InDelta(t, 8000, r.AnnualOPEXVarEUR, 1e-6)
}

func TestComputeSystemLCOEZeroConsumption(t *testing.T) {
	res := ComputeSystem(map[string]TechResult{"x": {AnnualCAPEXEUR: 100}}, 0)
	require.Equal(t, 0.0, res.LCOECtPerKWh)
}

func TestComputeSystemLCOEMatchesFormula(t *testing.T) {
	res := ComputeSystem(map[string]TechResult{"x": {AnnualCAPEXEUR: 1_000_000}}, 10_000_000)
	require.InDelta(t, (1_000_000.0/10_000_000.0)*0.1, res.LCOECtPerKWh, 1e-9)
}
