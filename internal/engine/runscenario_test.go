package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"energiesystem-sim/internal/econ"
	"energiesystem-sim/internal/frame"
	"energiesystem-sim/internal/scenario"
	"energiesystem-sim/internal/storage"
)

func TestComputeScorecardStorageUtilizationUsesConfiguredCapacity(t *testing.T) {
	cascade := &storage.CascadeResult{
		Stages: []storage.StageResult{
			{Type: storage.TypeBattery, Result: storage.Result{Discharged: []float64{10, 20}}},
		},
	}
	fleets := map[string]storage.FleetCapacities{
		storage.TypeBattery: {InstalledCapacityMWh: 100},
	}
	bal := &frame.BalanceFrame{RestBilanz: []float64{0, 0}}
	cons := &frame.ConsumptionFrame{Gesamt: []float64{50, 50}}
	prod := &frame.GenerationFrame{Columns: map[string][]float64{}}

	sc := computeScorecard(bal, cascade, econ.SystemResult{}, cons, prod, &scenario.Bundle{}, fleets)

	// throughput 30 MWh / capacity 100 MWh = 0.3 -> Score = (1-(0.3-1)/(0-1))*100 = 30
	require.InDelta(t, 30, sc.Economy.KPIs["storage_utilization"], 1e-6)
}

func TestComputeScorecardStorageUtilizationZeroWhenNoCapacityConfigured(t *testing.T) {
	cascade := &storage.CascadeResult{
		Stages: []storage.StageResult{
			{Type: storage.TypeBattery, Result: storage.Result{Discharged: []float64{10}}},
		},
	}
	bal := &frame.BalanceFrame{RestBilanz: []float64{0}}
	cons := &frame.ConsumptionFrame{Gesamt: []float64{50}}
	prod := &frame.GenerationFrame{Columns: map[string][]float64{}}

	sc := computeScorecard(bal, cascade, econ.SystemResult{}, cons, prod, &scenario.Bundle{}, map[string]storage.FleetCapacities{})

	require.Equal(t, 0.0, sc.Economy.KPIs["storage_utilization"])
}

func TestComputeScorecardFossilShareAndCO2Intensity(t *testing.T) {
	prod := &frame.GenerationFrame{Columns: map[string][]float64{
		"Erdgas":       {100},
		"Photovoltaik": {300},
	}}
	bal := &frame.BalanceFrame{RestBilanz: []float64{0}}
	cons := &frame.ConsumptionFrame{Gesamt: []float64{1000}}
	cascade := &storage.CascadeResult{}

	sc := computeScorecard(bal, cascade, econ.SystemResult{}, cons, prod, &scenario.Bundle{}, map[string]storage.FleetCapacities{})

	// fossil 100 MWh / total 400 MWh = 0.25 -> Score = (1-0.25)*100 = 75
	require.InDelta(t, 75, sc.Ecology.KPIs["fossil_share"], 1e-6)

	// Erdgas defaults: CO2Factor 0.202 t/MWh_fuel, Efficiency 0.55.
	// emissions = (100/0.55)*0.202 ≈ 36.7273 t -> 36727.3 g / 1000 MWh = 36.7273 g/kWh
	// Score("co2_intensity", v) = (1 - v/1000)*100
	wantIntensity := (100.0 / 0.55) * 0.202 * 1000 / 1000
	wantScore := (1 - wantIntensity/1000) * 100
	require.InDelta(t, wantScore, sc.Ecology.KPIs["co2_intensity"], 1e-4)
}

func TestComputeScorecardImportDependencyMatchesDeficitShare(t *testing.T) {
	bal := &frame.BalanceFrame{RestBilanz: []float64{-20, 0}}
	cons := &frame.ConsumptionFrame{Gesamt: []float64{100, 100}}
	prod := &frame.GenerationFrame{Columns: map[string][]float64{}}
	cascade := &storage.CascadeResult{}

	sc := computeScorecard(bal, cascade, econ.SystemResult{}, cons, prod, &scenario.Bundle{}, map[string]storage.FleetCapacities{})

	require.Equal(t, sc.Security.KPIs["energy_deficit_share"], sc.Economy.KPIs["import_dependency"])
}

func TestIsFossilTechDistinguishesFuelTypeFromCombustion(t *testing.T) {
	require.True(t, isFossilTech(econ.TechAssumptions{FuelType: "gas", CO2Factor: 0.202}))
	require.False(t, isFossilTech(econ.TechAssumptions{FuelType: "biomass", CO2Factor: 0}))
	require.False(t, isFossilTech(econ.TechAssumptions{}))
}

func TestSimulateEconomicsUsesScenarioFuelAndCO2Prices(t *testing.T) {
	bundle := &scenario.Bundle{
		TargetGenerationCapacities: map[string]map[int]float64{"Erdgas": {2030: 100}},
		EconomicAssumptions: map[string]scenario.EconomicAssumption{
			"Erdgas": {
				CAPEXPerMW: 800_000, OPEXFixedPerMWYear: 20_000, LifetimeYears: 30,
				FuelType: "gas", CO2Factor: 0.202, Efficiency: 0.55,
				FuelPriceByYear: map[int]float64{2030: 40},
				CO2PriceByYear:  map[int]float64{2030: 60},
			},
		},
	}
	prod := &frame.GenerationFrame{Columns: map[string][]float64{"Erdgas": {500}}}
	cons := &frame.ConsumptionFrame{Gesamt: []float64{1000}}

	res := simulateEconomics(bundle, prod, cons, 2030)

	// (40 + 60*0.202)/0.55 = 94.1558 EUR/MWh_el * 500 MWh_gen
	wantVarOPEX := (40 + 60*0.202) / 0.55 * 500
	require.InDelta(t, wantVarOPEX, res.ByTech["Erdgas"].AnnualOPEXVarEUR, 1e-3)
}

func TestSimulateEconomicsZeroPricesWithoutScenarioOverride(t *testing.T) {
	bundle := &scenario.Bundle{
		TargetGenerationCapacities: map[string]map[int]float64{"Erdgas": {2030: 100}},
	}
	prod := &frame.GenerationFrame{Columns: map[string][]float64{"Erdgas": {500}}}
	cons := &frame.ConsumptionFrame{Gesamt: []float64{1000}}

	res := simulateEconomics(bundle, prod, cons, 2030)

	require.Equal(t, 0.0, res.ByTech["Erdgas"].AnnualOPEXVarEUR)
}
