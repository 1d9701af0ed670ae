package ev

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"energiesystem-sim/internal/calendar"
)

func testParams() Params {
	return Params{
		SEV:             0.5,
		NCars:           1000,
		EDriveCarYear:   3000,
		EBattCar:        60,
		PlugShareMax:    0.9,
		V2GShare:        0.3,
		SOCMinDay:       0.2,
		SOCMinNight:     0.1,
		SOCTargetDepart: 0.8,
		TDepart:         "07:00",
		TArrive:         "18:00",
		ThrSurplusKW:    10,
		ThrDeficitKW:    10,
	}.WithDefaults()
}

func TestSOCStaysWithinCapacityBounds(t *testing.T) {
	tl := calendar.Build(2023)
	p := testParams()
	prof := BuildProfile(tl, p)

	restBilanz := make([]float64, tl.Len())
	for i := range restBilanz {
		if i%2 == 0 {
			restBilanz[i] = 50
		} else {
			restBilanz[i] = -50
		}
	}

	res, err := Dispatch(tl, p, prof, restBilanz)
	require.NoError(t, err)

	capacityKWh := p.EBattCar * p.NCarsEffective()
	for _, soc := range res.SOCKWh {
		require.GreaterOrEqual(t, soc, 0.0)
		require.LessOrEqual(t, soc, capacityKWh+1e-6)
	}
}

func TestZeroV2GShareNeverDischarges(t *testing.T) {
	tl := calendar.Build(2023)
	p := testParams()
	p.V2GShare = 0
	prof := BuildProfile(tl, p)

	restBilanz := make([]float64, tl.Len())
	for i := range restBilanz {
		restBilanz[i] = -80
	}

	res, err := Dispatch(tl, p, prof, restBilanz)
	require.NoError(t, err)
	for _, power := range res.ActualPowerKW {
		require.LessOrEqual(t, power, 0.0)
	}
}

func TestChargingIndependentOfV2GShare(t *testing.T) {
	tl := calendar.Build(2023)
	restBilanz := make([]float64, tl.Len())
	for i := range restBilanz {
		restBilanz[i] = 80 // surplus -> charging only
	}

	p1 := testParams()
	p1.V2GShare = 0.1
	prof1 := BuildProfile(tl, p1)
	res1, err := Dispatch(tl, p1, prof1, restBilanz)
	require.NoError(t, err)

	p2 := testParams()
	p2.V2GShare = 0.9
	prof2 := BuildProfile(tl, p2)
	res2, err := Dispatch(tl, p2, prof2, restBilanz)
	require.NoError(t, err)

	for i := range res1.ChargedKWh {
		require.InDelta(t, res1.ChargedKWh[i], res2.ChargedKWh[i], 1e-6)
	}
}

func TestEnergyBalanceHolds(t *testing.T) {
	tl := calendar.Build(2023)
	p := testParams()
	prof := BuildProfile(tl, p)

	restBilanz := make([]float64, tl.Len())
	for i := range restBilanz {
		restBilanz[i] = 30 * math.Sin(float64(i))
	}

	res, err := Dispatch(tl, p, prof, restBilanz)
	require.NoError(t, err)

	capacityKWh := p.EBattCar * p.NCarsEffective()
	prevSOC := p.InitialSOCFraction * capacityKWh
	for i := range res.SOCKWh {
		expected := prevSOC + res.ChargedKWh[i] - res.DischargedKWh[i] - res.DriveKWh[i]
		if expected < 0 {
			expected = 0
		}
		if expected > capacityKWh {
			expected = capacityKWh
		}
		require.InDelta(t, expected, res.SOCKWh[i], 100) // 0.1 MWh = 100 kWh
		prevSOC = res.SOCKWh[i]
	}
}

func TestDispatchRejectsLengthMismatch(t *testing.T) {
	tl := calendar.Build(2023)
	p := testParams()
	prof := BuildProfile(tl, p)
	_, err := Dispatch(tl, p, prof, []float64{1, 2, 3})
	require.Error(t, err)
}
