package engine

import (
	"context"
	"fmt"
	"log"

	"energiesystem-sim/internal/balance"
	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/consumption"
	"energiesystem-sim/internal/data"
	"energiesystem-sim/internal/econ"
	"energiesystem-sim/internal/ev"
	"energiesystem-sim/internal/frame"
	"energiesystem-sim/internal/generation"
	"energiesystem-sim/internal/kpi"
	"energiesystem-sim/internal/scenario"
	"energiesystem-sim/internal/simerr"
	"energiesystem-sim/internal/storage"
)

// YearResult is one target year's full simulation output, mirroring
// original_source's _simulate_year return dictionary one field at a time.
type YearResult struct {
	Year            int
	Timeline        *calendar.Timeline
	Consumption     *frame.ConsumptionFrame
	Production      *frame.GenerationFrame
	EVDispatch      ev.Result
	StorageCascade  *storage.CascadeResult
	BalancePreFlex  *frame.BalanceFrame
	BalanceAfterEV  *frame.BalanceFrame
	BalancePostFlex *frame.BalanceFrame
	Economics       econ.SystemResult
	Scorecard       kpi.Scorecard
}

// RunScenario runs every requested year of bundle independently (no
// cross-year persistent state, per §5's resource model) against data, using
// kernel for the heat-pump inner loop. A year that fails with a fatal error
// (simerr.Fatal) is recorded in the returned error map rather than aborting
// the whole run, per §7's propagation policy.
func RunScenario(ctx context.Context, bundle *scenario.Bundle, provider *data.Provider, kernel Kernel, years []int, includeLegacyColumns bool) (map[int]*YearResult, map[int]error) {
	targetYears := bundle.YearsOrDefault(years)
	results := make(map[int]*YearResult, len(targetYears))
	failures := make(map[int]error)

	for i, year := range targetYears {
		select {
		case <-ctx.Done():
			failures[year] = ctx.Err()
			return results, failures
		default:
		}

		log.Printf("[%d/%d] simulating year %d", i+1, len(targetYears), year)
		res, err := simulateYear(bundle, provider, kernel, year, includeLegacyColumns)
		if err != nil {
			log.Printf("year %d: stage failed: %v", year, err)
			failures[year] = err
			continue
		}
		results[year] = res
	}
	return results, failures
}

func simulateYear(bundle *scenario.Bundle, provider *data.Provider, kernel Kernel, year int, includeLegacyColumns bool) (*YearResult, error) {
	tl := calendar.Build(year)

	// 1) Consumption (BDEW + heat pump).
	cons, err := simulateConsumption(bundle, provider, kernel, tl, year)
	if err != nil {
		return nil, fmt.Errorf("consumption: %w", err)
	}

	// 2) Production.
	prod, err := simulateProduction(bundle, provider, tl, year, includeLegacyColumns)
	if err != nil {
		return nil, fmt.Errorf("production: %w", err)
	}

	// 3) E-mobility consumption merged into load (drive + charging loss).
	evParams, hasEV := bundleEVParams(bundle, year)
	var evProfile ev.Profile
	if hasEV {
		evProfile = ev.BuildProfile(tl, evParams)
		driveMWh := make([]float64, tl.Len())
		for i, kw := range evProfile.DrivePowerKW {
			driveMWh[i] = kw * ev.DtHours / 1000
		}
		eMobility := make([]float64, tl.Len())
		for i, e := range driveMWh {
			eMobility[i] = e * (1 + consumption.EMobilityLossFactor)
		}
		cons.EMobility = eMobility
		cons.RecomputeGesamt()
	}

	// 4) Balance pre-flex.
	balPre, err := balance.Calculate(prod, cons)
	if err != nil {
		return nil, fmt.Errorf("balance_pre_flex: %w", err)
	}

	// 5) E-mobility V2G flexibility.
	balAfterEV := balPre.Clone()
	var evRes ev.Result
	if hasEV {
		evRes, err = ev.Dispatch(tl, evParams, evProfile, balPre.RestBilanz)
		if err != nil {
			return nil, fmt.Errorf("emobility_flexibility: %w", err)
		}
		balAfterEV.RestBilanz = evRes.RestBilanzMWh
	}

	// 6) Storage cascade.
	fleets := bundleStorageFleets(bundle, year)
	cascade, err := storage.RunCascade(balAfterEV.RestBilanz, fleets)
	if err != nil {
		return nil, fmt.Errorf("storage_cascade: %w", err)
	}
	balPostFlex := balAfterEV.Clone()
	balPostFlex.RestBilanz = cascade.FinalRestBilanz

	// 7) Economics.
	econResult := simulateEconomics(bundle, prod, cons, year)

	// 8) KPI scoring.
	scorecard := computeScorecard(balPostFlex, cascade, econResult, cons, prod, bundle, fleets)

	return &YearResult{
		Year: year, Timeline: tl, Consumption: cons, Production: prod,
		EVDispatch: evRes, StorageCascade: cascade,
		BalancePreFlex: balPre, BalanceAfterEV: balAfterEV, BalancePostFlex: balPostFlex,
		Economics: econResult, Scorecard: scorecard,
	}, nil
}

func simulateConsumption(bundle *scenario.Bundle, provider *data.Provider, kernel Kernel, tl *calendar.Timeline, year int) (*frame.ConsumptionFrame, error) {
	sectorTarget := func(key string) (consumption.SectorTarget, error) {
		demand, ok := bundle.TargetLoadDemandTWh[key]
		if !ok {
			return consumption.SectorTarget{}, fmt.Errorf("missing %s in scenario: %w", key, simerr.ErrInputSchema)
		}
		profile, err := provider.BDEWProfile(demand.LoadProfile)
		if err != nil {
			return consumption.SectorTarget{}, err
		}
		return consumption.SectorTarget{Profile: profile, TargetTWh: demand.ByYear[year]}, nil
	}

	haushalt, err := sectorTarget("Haushalt_Basis")
	if err != nil {
		return nil, err
	}
	gewerbe, err := sectorTarget("Gewerbe_Basis")
	if err != nil {
		return nil, err
	}
	landwirtschaft, err := sectorTarget("Landwirtschaft_Basis")
	if err != nil {
		return nil, err
	}

	var hp consumption.HeatPumpParams
	var temps *data.TemperatureSeries
	var matrix *data.HeatPumpMatrix
	if hpParams, ok := bundle.TargetHeatPumpParameters[year]; ok {
		var err error
		temps, err = provider.TemperatureSeries(hpParams.WeatherData)
		if err != nil {
			return nil, err
		}
		matrix, err = provider.HeatPumpMatrix()
		if err != nil {
			return nil, err
		}
		hp = consumption.HeatPumpParams{
			InstalledUnits:  hpParams.InstalledUnits,
			AnnualDemandKWh: hpParams.AnnualHeatDemandKWh,
			COPAvg:          hpParams.COPAvg,
		}
	} else {
		log.Printf("year %d: no heat-pump parameters, skipping heat-pump sub-stage", year)
	}

	return consumption.Synthesize(tl, consumption.Inputs{
		Haushalte:      haushalt,
		Gewerbe:        gewerbe,
		Landwirtschaft: landwirtschaft,
		HeatPump:       hp,
		Temperature:    temps,
		HeatPumpMatrix: matrix,
	}, kernel)
}

func simulateProduction(bundle *scenario.Bundle, provider *data.Provider, tl *calendar.Timeline, year int, includeLegacyColumns bool) (*frame.GenerationFrame, error) {
	hist, err := provider.GenerationTable()
	if err != nil {
		return nil, err
	}
	caps, err := provider.CapacityTable()
	if err != nil {
		return nil, err
	}

	targets := make(map[string]generation.TechTarget)
	for tech, byYear := range bundle.TargetGenerationCapacities {
		targetMW := byYear[year]
		refYear := referenceYearFor(bundle, tech, year)
		targets[tech] = generation.TechTarget{ReferenceYear: refYear, TargetMW: targetMW}
	}

	return generation.Synthesize(tl, hist, caps, targets, includeLegacyColumns)
}

func referenceYearFor(bundle *scenario.Bundle, tech string, year int) int {
	choice, ok := bundle.WeatherGenerationProfiles[year][tech]
	if !ok {
		return year
	}
	switch choice {
	case scenario.WeatherGood:
		return year - 1
	case scenario.WeatherBad:
		return year - 2
	default:
		return year
	}
}

func bundleEVParams(bundle *scenario.Bundle, year int) (ev.Params, bool) {
	p, ok := bundle.TargetEMobilityParameters[year]
	if !ok {
		return ev.Params{}, false
	}
	return ev.Params{
		SEV: p.SEV, NCars: p.NCars, EDriveCarYear: p.EDriveCarYear, EBattCar: p.EBattCar,
		PlugShareMax: p.PlugShareMax, V2GShare: p.V2GShare,
		SOCMinDay: p.SOCMinDay, SOCMinNight: p.SOCMinNight, SOCTargetDepart: p.SOCTargetDepart,
		TDepart: p.TDepart, TArrive: p.TArrive, ThrSurplusKW: p.ThrSurplusKW, ThrDeficitKW: p.ThrDeficitKW,
	}.WithDefaults(), true
}

func bundleStorageFleets(bundle *scenario.Bundle, year int) map[string]storage.FleetCapacities {
	mapping := map[string]string{
		"battery_storage":       storage.TypeBattery,
		"pumped_hydro_storage":  storage.TypePumpedHydro,
		"h2_storage":            storage.TypeHydrogen,
	}
	fleets := make(map[string]storage.FleetCapacities)
	for key, kind := range mapping {
		byYear, ok := bundle.TargetStorageCapacities[key]
		if !ok {
			continue
		}
		p, ok := byYear[year]
		if !ok {
			continue
		}
		fleets[kind] = storage.FleetCapacities{
			InstalledCapacityMWh: p.InstalledCapacityMWh,
			MaxChargePowerMW:     p.MaxChargePowerMW,
			MaxDischargePowerMW:  p.MaxDischargePowerMW,
			InitialSOCFraction:   p.InitialSOC,
		}
	}
	return fleets
}

// resolveTechAssumption returns tech's economic assumptions, preferring the
// scenario's own economic_assumptions entry over econ.DefaultAssumptions.
func resolveTechAssumption(bundle *scenario.Bundle, tech string) (econ.TechAssumptions, bool) {
	assumption, ok := econ.DefaultAssumptions[tech]
	if custom, hasCustom := bundle.EconomicAssumptions[tech]; hasCustom {
		assumption = econ.TechAssumptions{
			CAPEXPerMW: custom.CAPEXPerMW, OPEXFixedPerMWYear: custom.OPEXFixedPerMWYear,
			LifetimeYears: custom.LifetimeYears, FuelType: custom.FuelType,
			CO2Factor: custom.CO2Factor, Efficiency: custom.Efficiency,
		}
		ok = true
	}
	return assumption, ok
}

// isFossilTech reports whether tech burns a CO2-emitting fuel (gas/coal/
// lignite), as distinct from biomass or uranium which carry a FuelType but
// no direct combustion CO2Factor.
func isFossilTech(a econ.TechAssumptions) bool {
	return a.FuelType != "" && a.CO2Factor > 0
}

func simulateEconomics(bundle *scenario.Bundle, prod *frame.GenerationFrame, cons *frame.ConsumptionFrame, year int) econ.SystemResult {
	byTech := make(map[string]econ.TechResult)
	var totalConsumptionMWh float64
	for _, v := range cons.Gesamt {
		totalConsumptionMWh += v
	}

	for _, tech := range frame.GenerationTechs {
		assumption, ok := resolveTechAssumption(bundle, tech)
		if !ok {
			continue
		}
		targetMW := bundle.TargetGenerationCapacities[tech][year]
		var genMWh float64
		if col, ok := prod.Columns[tech]; ok {
			for _, v := range col {
				genMWh += v
			}
		}
		wacc := 0.05
		var fuelPrice, co2Price float64
		if custom, ok := bundle.EconomicAssumptions[tech]; ok {
			if custom.WACC > 0 {
				wacc = custom.WACC
			}
			fuelPrice = custom.FuelPriceByYear[year]
			co2Price = custom.CO2PriceByYear[year]
		}
		byTech[tech] = econ.ComputeTech(econ.TechInput{
			Assumptions: assumption, TargetMW: targetMW, GenerationMWh: genMWh, WACC: wacc,
			FuelPriceEURPerMWh: fuelPrice, CO2PriceEURPerTCO2: co2Price,
		})
	}

	return econ.ComputeSystem(byTech, totalConsumptionMWh)
}

func computeScorecard(bal *frame.BalanceFrame, cascade *storage.CascadeResult, econResult econ.SystemResult, cons *frame.ConsumptionFrame, prod *frame.GenerationFrame, bundle *scenario.Bundle, fleets map[string]storage.FleetCapacities) kpi.Scorecard {
	var deficitSamples int
	var totalDeficitMWh, totalConsumptionMWh, peakDeficitMWh float64
	for i, rb := range bal.RestBilanz {
		if rb < 0 {
			deficitSamples++
			totalDeficitMWh += -rb
			if -rb > peakDeficitMWh {
				peakDeficitMWh = -rb
			}
		}
		totalConsumptionMWh += cons.Gesamt[i]
	}

	var deficitShare, peakRatio, deficitFreq float64
	if totalConsumptionMWh > 0 {
		deficitShare = totalDeficitMWh / totalConsumptionMWh
	}
	if len(bal.RestBilanz) > 0 {
		deficitFreq = float64(deficitSamples) / float64(len(bal.RestBilanz))
	}
	peakConsumption := maxOf(cons.Gesamt)
	if peakConsumption > 0 {
		peakRatio = peakDeficitMWh / peakConsumption
	}

	var curtailedMWh float64
	for _, rb := range bal.RestBilanz {
		if rb > 0 {
			curtailedMWh += rb
		}
	}
	var curtailmentShare float64
	if totalConsumptionMWh > 0 {
		curtailmentShare = curtailedMWh / totalConsumptionMWh
	}

	var storageThroughputMWh, storageCapacityMWh float64
	for _, stage := range cascade.Stages {
		for _, v := range stage.Result.Discharged {
			storageThroughputMWh += v
		}
		if cap, ok := fleets[stage.Type]; ok {
			storageCapacityMWh += cap.InstalledCapacityMWh
		}
	}
	var storageUtilization float64
	if storageCapacityMWh > 0 {
		storageUtilization = storageThroughputMWh / storageCapacityMWh
	}

	var totalEmissionsTCO2, fossilGenMWh, totalGenMWh float64
	for _, tech := range frame.GenerationTechs {
		col, ok := prod.Columns[tech]
		if !ok {
			continue
		}
		var genMWh float64
		for _, v := range col {
			genMWh += v
		}
		totalGenMWh += genMWh
		assumption, ok := resolveTechAssumption(bundle, tech)
		if !ok || !isFossilTech(assumption) {
			continue
		}
		fossilGenMWh += genMWh
		if assumption.Efficiency > 0 {
			totalEmissionsTCO2 += (genMWh / assumption.Efficiency) * assumption.CO2Factor
		}
	}
	var co2IntensityGPerKWh, fossilShare float64
	if totalConsumptionMWh > 0 {
		co2IntensityGPerKWh = totalEmissionsTCO2 * 1000 / totalConsumptionMWh
	}
	if totalGenMWh > 0 {
		fossilShare = fossilGenMWh / totalGenMWh
	}

	// The model has no explicit cross-border import flow; unserved post-
	// cascade demand is the proxy for energy that would have to be imported.
	importDependency := deficitShare

	return kpi.Compute(kpi.Inputs{
		EnergyDeficitShare: deficitShare,
		PeakDeficitRatio:   peakRatio,
		DeficitFrequency:   deficitFreq,

		CO2IntensityGPerKWh: co2IntensityGPerKWh,
		CurtailmentShare:    curtailmentShare,
		FossilShare:         fossilShare,

		SystemCostIndexCtPerKWh: econResult.LCOECtPerKWh,
		ImportDependency:        importDependency,
		StorageUtilization:      storageUtilization,
	})
}

func maxOf(xs []float64) float64 {
	var m float64
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
