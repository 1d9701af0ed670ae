package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// S5 from spec §8: surplus for the first 48 steps, deficit for the next 48.
func TestCascadeS5BatteryOnly(t *testing.T) {
	n := 96
	bal := make([]float64, n)
	for t := 0; t < 48; t++ {
		bal[t] = 100
	}
	for t := 48; t < 96; t++ {
		bal[t] = -100
	}

	fleets := map[string]FleetCapacities{
		TypeBattery: {
			InstalledCapacityMWh: 4000,
			MaxChargePowerMW:     200,
			MaxDischargePowerMW:  200,
			InitialSOCFraction:   0,
		},
	}

	res, err := RunCascade(bal, fleets)
	require.NoError(t, err)
	require.Len(t, res.Stages, 1)

	battery := res.Stages[0].Result
	var totalDischarged float64
	for _, d := range battery.Discharged {
		totalDischarged += d
	}
	expected := math.Min(4000*0.95*0.95, 48*25)
	require.InDelta(t, expected, totalDischarged, 1.0)

	for t := range bal {
		require.LessOrEqual(t, math.Abs(res.FinalRestBilanz[t]), math.Abs(bal[t])+1e-9)
	}
}

func TestBucketRejectsSimultaneousChargeDischarge(t *testing.T) {
	b, err := New(Params{
		Name: "t", CapacityMWh: 100, PChargeMaxMW: 10, PDischargeMaxMW: 10,
		EtaCharge: 0.9, EtaDischarge: 0.9, SOCMinMWh: 0, SOCMaxMWh: 100, InitialSOCMWh: 50,
	})
	require.NoError(t, err)
	_, err = b.Dispatch([]float64{5}, 0.25)
	require.NoError(t, err)
}

func TestBucketSOCNeverExceedsBounds(t *testing.T) {
	b, err := New(Params{
		Name: "t", CapacityMWh: 100, PChargeMaxMW: 1000, PDischargeMaxMW: 1000,
		EtaCharge: 0.9, EtaDischarge: 0.9, SOCMinMWh: 10, SOCMaxMWh: 90, InitialSOCMWh: 50,
	})
	require.NoError(t, err)
	series := []float64{1000, 1000, 1000, -1000, -1000, -1000, -1000, -1000}
	res, err := b.Dispatch(series, 0.25)
	require.NoError(t, err)
	for _, soc := range res.SOC {
		require.GreaterOrEqual(t, soc, 10.0-1e-6)
		require.LessOrEqual(t, soc, 90.0+1e-6)
	}
}

func TestRunCascadeSkipsZeroCapacityStorage(t *testing.T) {
	bal := []float64{10, -10}
	res, err := RunCascade(bal, map[string]FleetCapacities{})
	require.NoError(t, err)
	require.Len(t, res.Stages, 0)
	require.Equal(t, bal, res.FinalRestBilanz)
}
