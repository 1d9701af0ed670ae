package ev

import (
	"testing"

	"github.com/stretchr/testify/require"

	"energiesystem-sim/internal/calendar"
)

func TestBuildProfileDriveEnergyMatchesTarget(t *testing.T) {
	tl := calendar.Build(2023)
	p := testParams()
	prof := BuildProfile(tl, p)

	var driveEnergyKWh float64
	for _, kw := range prof.DrivePowerKW {
		driveEnergyKWh += kw * DtHours
	}
	targetKWh := p.NCarsEffective() * p.EDriveCarYear
	require.InDelta(t, targetKWh, driveEnergyKWh, targetKWh*1e-6+1e-6)
}

func TestPlugShareWithinBounds(t *testing.T) {
	tl := calendar.Build(2023)
	p := testParams()
	prof := BuildProfile(tl, p)
	for _, share := range prof.PlugShare {
		require.GreaterOrEqual(t, share, 0.0)
		require.LessOrEqual(t, share, p.PlugShareMax+1e-9)
	}
}

func TestSOCTargetShareNilDuringDrivingWindow(t *testing.T) {
	tl := calendar.Build(2023)
	p := testParams()
	prof := BuildProfile(tl, p)

	depart, _ := parseHHMM(p.TDepart)
	arrive, _ := parseHHMM(p.TArrive)
	for i, s := range tl.Samples {
		if timeOfDayInWindow(s.T, depart, arrive) {
			require.Nil(t, prof.SOCTargetShare[i])
		} else {
			require.NotNil(t, prof.SOCTargetShare[i])
		}
	}
}
