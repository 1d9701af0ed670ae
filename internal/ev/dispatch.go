package ev

import (
	"fmt"
	"math"

	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/simerr"
)

// Result is Phase B's per-timestep output.
type Result struct {
	ActualPowerKW []float64 // + = V2G discharge into grid, - = charging from grid
	SOCKWh        []float64
	ChargedKWh    []float64
	DischargedKWh []float64
	DriveKWh      []float64
	RestBilanzMWh []float64 // Bilanz after this stage acted
}

// Dispatch runs Phase B over restBilanz (MWh/interval, + = surplus), per
// spec §4.5 steps 1-7.
func Dispatch(tl *calendar.Timeline, p Params, prof Profile, restBilanzMWh []float64) (Result, error) {
	n := tl.Len()
	if len(restBilanzMWh) != n || len(prof.DrivePowerKW) != n {
		return Result{}, fmt.Errorf("ev dispatch: length mismatch: %w", simerr.ErrAlignment)
	}

	p = p.WithDefaults()
	nEV := p.NCarsEffective()
	capacityKWh := p.EBattCar * nEV
	if capacityKWh <= 0 {
		return Result{}, fmt.Errorf("ev dispatch: zero fleet capacity: %w", simerr.ErrInputSchema)
	}

	energyKWh := p.InitialSOCFraction * capacityKWh

	res := Result{
		ActualPowerKW: make([]float64, n),
		SOCKWh:        make([]float64, n),
		ChargedKWh:    make([]float64, n),
		DischargedKWh: make([]float64, n),
		DriveKWh:      make([]float64, n),
		RestBilanzMWh: make([]float64, n),
	}

	depart, _ := parseHHMM(p.TDepart)
	arrive, _ := parseHHMM(p.TArrive)

	for i, s := range tl.Samples {
		// Step 1: clamp, compute soc_share.
		if energyKWh < 0 {
			energyKWh = 0
		}
		if energyKWh > capacityKWh {
			energyKWh = capacityKWh
		}

		// Step 2: limits.
		inWorkdayDrivingWindow := s.Day == calendar.Workday && timeOfDayInWindow(s.T, depart, arrive)
		currentV2GShare := p.V2GShare
		if inWorkdayDrivingWindow {
			currentV2GShare = p.V2GShare * p.WorkplaceV2GFactor
		}
		chargeLimitKW := prof.PlugShare[i] * nEV * p.PChargeCarMaxKW
		dischargeLimitKW := prof.PlugShare[i] * nEV * p.PDischargeCarMaxKW * currentV2GShare

		// Step 3: dispatch target from residual load = -Bilanz.
		residualLoadKW := -restBilanzMWh[i] / DtHours * 1000
		var dispatchTarget float64
		switch {
		case residualLoadKW < -p.ThrSurplusKW:
			dispatchTarget = -math.Min(math.Abs(residualLoadKW), chargeLimitKW)
		case residualLoadKW > p.ThrDeficitKW:
			dispatchTarget = math.Min(residualLoadKW, dischargeLimitKW)
		}

		// Step 4: mobility-guarantee demand.
		var minChargePowerNeeded float64
		var targetEnergyKWh float64
		isPreloadPriority := false
		if target := prof.SOCTargetShare[i]; target != nil && prof.TimeToDepartH[i] > 0 {
			targetEnergyKWh = *target * capacityKWh
			energyDeficit := math.Max(0, targetEnergyKWh-energyKWh)
			remainingH := math.Max(prof.TimeToDepartH[i], DtHours)
			minChargePowerNeeded = energyDeficit / (remainingH * p.EtaCharge)
			isPreloadPriority = prof.PreloadFlag[i] || minChargePowerNeeded > 0.5*chargeLimitKW
		}

		// Step 5: decision order.
		var actualPowerKW float64
		switch {
		case isPreloadPriority && minChargePowerNeeded > 0: // P1
			actualPowerKW = -math.Min(chargeLimitKW, minChargePowerNeeded)
		case minChargePowerNeeded > 0: // P2
			actualPowerKW = -math.Min(chargeLimitKW, minChargePowerNeeded)
		case dispatchTarget > 0: // P3a: V2G, gated by safety-margin buffer
			remainingH := math.Max(prof.TimeToDepartH[i], DtHours)
			maxChargeable := chargeLimitKW * remainingH * p.EtaCharge
			minEnergyRequired := targetEnergyKWh - maxChargeable
			minEnergyWithSafety := minEnergyRequired + p.V2GSafetyMargin*targetEnergyKWh
			v2gBudgetEnergy := math.Max(0, energyKWh-minEnergyWithSafety)
			v2gBudgetPowerKW := v2gBudgetEnergy / DtHours * p.EtaDischarge
			availableDischargePowerKW := (energyKWh - prof.SOCMinShare[i]*capacityKWh) * p.EtaDischarge / DtHours
			actualPowerKW = math.Min(dispatchTarget, math.Min(dischargeLimitKW, math.Min(availableDischargePowerKW, v2gBudgetPowerKW)))
			if actualPowerKW <= 0 {
				actualPowerKW = 0
			}
		case dispatchTarget < 0: // P3b
			actualPowerKW = math.Max(dispatchTarget, -chargeLimitKW)
		default: // P3c
			if minChargePowerNeeded > 0 {
				actualPowerKW = -math.Min(chargeLimitKW, minChargePowerNeeded)
			}
		}

		// Step 6: integrate.
		driveMWh := prof.DrivePowerKW[i] * DtHours / 1000
		chargedKWh := math.Max(0, -actualPowerKW) * DtHours * p.EtaCharge
		dischargedKWh := math.Max(0, actualPowerKW) * DtHours / p.EtaDischarge
		energyKWh = energyKWh + chargedKWh - dischargedKWh - driveMWh*1000
		if energyKWh < 0 {
			energyKWh = 0
		}
		if energyKWh > capacityKWh {
			energyKWh = capacityKWh
		}

		res.ActualPowerKW[i] = actualPowerKW
		res.SOCKWh[i] = energyKWh
		res.ChargedKWh[i] = chargedKWh
		res.DischargedKWh[i] = dischargedKWh
		res.DriveKWh[i] = driveMWh * 1000

		// Step 7: new Rest_Bilanz = -(residual_load - actual_power)*Δt/1000.
		res.RestBilanzMWh[i] = -(residualLoadKW - actualPowerKW) * DtHours / 1000
	}

	return res, nil
}

