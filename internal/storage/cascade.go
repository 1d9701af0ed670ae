package storage

import "fmt"

// DtHours is the fixed interval length of the simulation (15 minutes).
const DtHours = 0.25

// TypeBattery, TypePumpedHydro and TypeHydrogen name the three cascade
// stages, in dispatch priority order (spec §4.6): shortest-cycle /
// highest-efficiency first, then seasonal-mid, then long-cycle /
// lowest-efficiency last.
const (
	TypeBattery     = "Batteriespeicher"
	TypePumpedHydro = "Pumpspeicher"
	TypeHydrogen    = "Wasserstoffspeicher"
)

// FleetCapacities carries the scenario's per-storage-type installed
// parameters for one target year, mirroring target_storage_capacities in §6.
type FleetCapacities struct {
	InstalledCapacityMWh float64
	MaxChargePowerMW     float64
	MaxDischargePowerMW  float64
	InitialSOCFraction   float64
}

// DefaultEfficiencyBounds returns the fixed per-type efficiency and
// SOC-fraction bounds of spec §4.6.
func defaultParams(kind string, cap FleetCapacities) (Params, error) {
	p := Params{
		Name:            kind,
		CapacityMWh:     cap.InstalledCapacityMWh,
		PChargeMaxMW:    cap.MaxChargePowerMW,
		PDischargeMaxMW: cap.MaxDischargePowerMW,
		InitialSOCMWh:   cap.InitialSOCFraction * cap.InstalledCapacityMWh,
	}
	switch kind {
	case TypeBattery:
		p.EtaCharge, p.EtaDischarge = 0.95, 0.95
		p.SOCMinMWh, p.SOCMaxMWh = 0.05*cap.InstalledCapacityMWh, 0.95*cap.InstalledCapacityMWh
	case TypePumpedHydro:
		p.EtaCharge, p.EtaDischarge = 0.88, 0.88
		p.SOCMinMWh, p.SOCMaxMWh = 0, cap.InstalledCapacityMWh
	case TypeHydrogen:
		p.EtaCharge, p.EtaDischarge = 0.67, 0.58
		p.SOCMinMWh, p.SOCMaxMWh = 0, cap.InstalledCapacityMWh
	default:
		return Params{}, fmt.Errorf("unknown storage type %q", kind)
	}
	if p.InitialSOCMWh < p.SOCMinMWh {
		p.InitialSOCMWh = p.SOCMinMWh
	}
	if p.InitialSOCMWh > p.SOCMaxMWh {
		p.InitialSOCMWh = p.SOCMaxMWh
	}
	return p, nil
}

// StageResult is one cascade stage's outcome, named for export.
type StageResult struct {
	Type   string
	Result Result
}

// CascadeResult is the full three-stage outcome plus the final residual
// (unserved/curtailed) series.
type CascadeResult struct {
	Stages         []StageResult
	FinalRestBilanz []float64
}

// RunCascade dispatches the battery, then pumped-hydro, then hydrogen
// bucket, each against the prior stage's Rest_Bilanz, per spec §4.6.
// Any storage type absent from fleets (zero installed capacity) is skipped
// and its Rest_Bilanz passes through unchanged.
func RunCascade(restBilanz []float64, fleets map[string]FleetCapacities) (*CascadeResult, error) {
	order := []string{TypeBattery, TypePumpedHydro, TypeHydrogen}
	current := restBilanz
	out := &CascadeResult{}

	for _, kind := range order {
		cap, ok := fleets[kind]
		if !ok || cap.InstalledCapacityMWh <= 0 {
			continue
		}
		params, err := defaultParams(kind, cap)
		if err != nil {
			return nil, err
		}
		bucket, err := New(params)
		if err != nil {
			return nil, err
		}
		res, err := bucket.Dispatch(current, DtHours)
		if err != nil {
			return nil, err
		}
		out.Stages = append(out.Stages, StageResult{Type: kind, Result: res})
		current = res.RestBilanz
	}
	out.FinalRestBilanz = current
	return out, nil
}
