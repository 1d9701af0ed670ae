// Package ev implements the two-phase e-mobility dispatcher (C5): Phase A
// profile precomputation (activity, plug share, SOC guidance curve) and
// Phase B causal per-timestep dispatch against the residual balance, with
// mobility-guarantee priority over vehicle-to-grid discharge.
package ev

import (
	"fmt"
	"time"

	"energiesystem-sim/internal/simerr"
)

// DefaultV2GSafetyMargin is the "70% safety margin" tuning constant of spec
// §4.5 step 5 (P3a) and §9's Open Question — treated as an overridable
// scenario-level parameter rather than re-derived from first principles.
const DefaultV2GSafetyMargin = 0.70

// DefaultWorkplaceV2GFactor scales down V2G eligibility during a workday's
// driving window (vehicles parked at a workplace charger rather than home).
const DefaultWorkplaceV2GFactor = 0.15

// DtHours is the fixed simulation interval length (15 minutes).
const DtHours = 0.25

// Params are one target year's EV scenario parameters, per §6's
// target_emobility_parameters schema.
type Params struct {
	SEV             float64 // s_EV: share of vehicle fleet electrified
	NCars           float64 // N_cars: total vehicle fleet size (not yet scaled by s_EV)
	EDriveCarYear   float64 // kWh/year per electrified car
	EBattCar        float64 // kWh, battery capacity per car
	PlugShareMax    float64
	V2GShare        float64
	SOCMinDay       float64
	SOCMinNight     float64
	SOCTargetDepart float64
	TDepart         string // "HH:MM"
	TArrive         string // "HH:MM"
	ThrSurplusKW    float64
	ThrDeficitKW    float64

	// Charge/discharge physical parameters, constant defaults per
	// original_source's EVConfigParams unless overridden.
	InitialSOCFraction float64
	EtaCharge          float64
	EtaDischarge       float64
	PChargeCarMaxKW    float64
	PDischargeCarMaxKW float64

	// Overridable tuning constants (DESIGN.md Open Question 2).
	V2GSafetyMargin    float64
	WorkplaceV2GFactor float64
}

// NCarsEffective returns n_EV = s_EV * N_cars.
func (p Params) NCarsEffective() float64 { return p.SEV * p.NCars }

// CapacityMWh returns n_EV * E_batt_car / 1000.
func (p Params) CapacityMWh() float64 { return p.NCarsEffective() * p.EBattCar / 1000 }

// WithDefaults fills zero-valued fields with original_source's defaults
// (read from simulation_engine.py's EVConfigParams construction).
func (p Params) WithDefaults() Params {
	if p.InitialSOCFraction == 0 {
		p.InitialSOCFraction = 0.6
	}
	if p.EtaCharge == 0 {
		p.EtaCharge = 0.95
	}
	if p.EtaDischarge == 0 {
		p.EtaDischarge = 0.95
	}
	if p.PChargeCarMaxKW == 0 {
		p.PChargeCarMaxKW = 11.0
	}
	if p.PDischargeCarMaxKW == 0 {
		p.PDischargeCarMaxKW = 11.0
	}
	if p.V2GSafetyMargin == 0 {
		p.V2GSafetyMargin = DefaultV2GSafetyMargin
	}
	if p.WorkplaceV2GFactor == 0 {
		p.WorkplaceV2GFactor = DefaultWorkplaceV2GFactor
	}
	return p
}

// Validate checks the minimal set of fields the dispatcher cannot run
// without.
func (p Params) Validate() error {
	if p.NCars <= 0 || p.SEV <= 0 {
		return fmt.Errorf("N_cars and s_EV must be > 0: %w", simerr.ErrInputSchema)
	}
	if p.EBattCar <= 0 {
		return fmt.Errorf("E_batt_car must be > 0: %w", simerr.ErrInputSchema)
	}
	if _, err := parseHHMM(p.TDepart); err != nil {
		return fmt.Errorf("t_depart: %w", err)
	}
	if _, err := parseHHMM(p.TArrive); err != nil {
		return fmt.Errorf("t_arrive: %w", err)
	}
	return nil
}

// parseHHMM parses an "HH:MM" string into a time-of-day duration since
// midnight. Adapted from the teacher's internal/strategy/schedule.go
// parseHHMM, since the spec's t_depart/t_arrive windows need the same
// HH:MM-to-offset parsing the teacher used for its schedule strategy.
func parseHHMM(s string) (time.Duration, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid HH:MM %q: %w", s, simerr.ErrInputSchema)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid HH:MM %q: %w", s, simerr.ErrInputSchema)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
