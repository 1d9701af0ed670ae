// Package storage implements the three-type storage cascade (C6): a single
// generic bucket model (capacity/power/efficiency/SOC-bound parameters)
// dispatched against a residual balance, reused for the battery,
// pumped-hydro and hydrogen storages. Generalises the teacher's
// single-battery internal/model.Battery.ApplyDispatch (fraction-of-capacity
// SOC, one requested power setpoint) into an absolute-MWh-SOC bucket driven
// directly by the residual balance series, since spec §4.6 has no
// requested-dispatch input — each bucket reacts to whatever the cascade
// leaves it.
package storage

import (
	"fmt"
	"math"

	"energiesystem-sim/internal/simerr"
)

// Params are the physical parameters of one storage bucket.
type Params struct {
	Name              string
	CapacityMWh       float64
	PChargeMaxMW      float64
	PDischargeMaxMW   float64
	EtaCharge         float64
	EtaDischarge      float64
	SOCMinMWh         float64
	SOCMaxMWh         float64
	InitialSOCMWh     float64
}

// Bucket is a storage instance with mutable SOC.
type Bucket struct {
	Params     Params
	currentSOC float64
}

// New constructs a Bucket, validating its parameters.
func New(p Params) (*Bucket, error) {
	if p.CapacityMWh <= 0 {
		return nil, fmt.Errorf("%s: capacity must be > 0: %w", p.Name, simerr.ErrInputSchema)
	}
	if p.EtaCharge <= 0 || p.EtaCharge > 1 || p.EtaDischarge <= 0 || p.EtaDischarge > 1 {
		return nil, fmt.Errorf("%s: efficiencies must be in (0,1]: %w", p.Name, simerr.ErrInputSchema)
	}
	if p.SOCMinMWh < 0 || p.SOCMaxMWh > p.CapacityMWh || p.SOCMinMWh > p.SOCMaxMWh {
		return nil, fmt.Errorf("%s: SOC bounds must satisfy 0<=min<=max<=capacity: %w", p.Name, simerr.ErrInputSchema)
	}
	if p.InitialSOCMWh < p.SOCMinMWh || p.InitialSOCMWh > p.SOCMaxMWh {
		return nil, fmt.Errorf("%s: initial SOC must be within [min, max]: %w", p.Name, simerr.ErrInputSchema)
	}
	return &Bucket{Params: p, currentSOC: p.InitialSOCMWh}, nil
}

// Result is the per-step outcome of Dispatch.
type Result struct {
	Charged    []float64 // MWh taken from the grid-side balance, per step
	Discharged []float64 // MWh delivered to the grid-side balance, per step
	SOC        []float64 // MWh, end-of-step state of charge
	RestBilanz []float64 // residual balance after this bucket acted
}

// Dispatch runs the fixed cascade rule of spec §4.6 over restBilanz (MWh per
// 15-minute interval, Δt implied by the series' own resolution — always
// 0.25h in this engine), with Δt passed explicitly since the bucket itself
// carries no timeline.
func (b *Bucket) Dispatch(restBilanz []float64, dtH float64) (Result, error) {
	n := len(restBilanz)
	res := Result{
		Charged:    make([]float64, n),
		Discharged: make([]float64, n),
		SOC:        make([]float64, n),
		RestBilanz: make([]float64, n),
	}
	p := b.Params

	for t := 0; t < n; t++ {
		bal := restBilanz[t]
		var charged, discharged float64

		switch {
		case bal > 0: // surplus: attempt to charge
			free := p.SOCMaxMWh - b.currentSOC
			maxIntakeByCapacity := free / p.EtaCharge
			charged = math.Min(bal, math.Min(p.PChargeMaxMW*dtH, maxIntakeByCapacity))
			if charged < 0 {
				charged = 0
			}
			b.currentSOC += charged * p.EtaCharge
		case bal < 0: // deficit: attempt to discharge
			avail := b.currentSOC - p.SOCMinMWh
			maxOutByContent := avail * p.EtaDischarge
			discharged = math.Min(-bal, math.Min(p.PDischargeMaxMW*dtH, maxOutByContent))
			if discharged < 0 {
				discharged = 0
			}
			b.currentSOC -= discharged / p.EtaDischarge
		}

		if b.currentSOC < p.SOCMinMWh-1e-6 || b.currentSOC > p.SOCMaxMWh+1e-6 {
			return Result{}, fmt.Errorf("%s: SOC %v out of bounds [%v,%v] at step %d: %w", p.Name, b.currentSOC, p.SOCMinMWh, p.SOCMaxMWh, t, simerr.ErrDispatchInvariant)
		}
		if charged > 0 && discharged > 0 {
			return Result{}, fmt.Errorf("%s: simultaneous charge and discharge at step %d: %w", p.Name, t, simerr.ErrDispatchInvariant)
		}

		res.Charged[t] = charged
		res.Discharged[t] = discharged
		res.SOC[t] = b.currentSOC
		res.RestBilanz[t] = bal - charged + discharged
	}
	return res, nil
}
