package consumption

import (
	"testing"

	"github.com/stretchr/testify/require"

	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/data"
)

func flatBDEWProfile(sector string) *data.BDEWProfile {
	entries := make(map[data.BDEWKey]float64)
	for month := 1; month <= 12; month++ {
		for _, dt := range []calendar.DayType{calendar.Workday, calendar.Saturday, calendar.SundayOrHoliday} {
			for hour := 0; hour < 24; hour++ {
				for _, minute := range []int{0, 15, 30, 45} {
					entries[data.BDEWKey{Month: month, DayType: dt, Hour: hour, Minute: minute}] = 1.0
				}
			}
		}
	}
	return &data.BDEWProfile{Sector: sector, Entries: entries}
}

func TestSynthesizeBDEWHitsAnnualTarget(t *testing.T) {
	tl := calendar.Build(2023)
	target := SectorTarget{Profile: flatBDEWProfile("G"), TargetTWh: 12.5}

	out := SynthesizeBDEW(tl, "Gewerbe", target)

	var sumMWh float64
	for _, v := range out {
		sumMWh += v
	}
	require.InDelta(t, 12.5, sumMWh/1e6, 1e-6)
}

func TestSynthesizeBDEWZeroSumYieldsZeroOutput(t *testing.T) {
	tl := calendar.Build(2023)
	target := SectorTarget{Profile: &data.BDEWProfile{Entries: map[data.BDEWKey]float64{}}, TargetTWh: 5}

	out := SynthesizeBDEW(tl, "Gewerbe", target)
	for _, v := range out {
		require.Equal(t, 0.0, v)
	}
}

func TestDynamisationFactorAppliedOnlyToHaushalte(t *testing.T) {
	tl := calendar.Build(2023)
	profile := flatBDEWProfile("H")

	withDynamisation := SynthesizeBDEW(tl, "Haushalte", SectorTarget{Profile: profile, TargetTWh: 1})
	withoutDynamisation := SynthesizeBDEW(tl, "Gewerbe", SectorTarget{Profile: profile, TargetTWh: 1})

	// Both hit the same annual target, but their daily shapes differ; total
	// energy should still match the 1 TWh target for both within tolerance.
	var sumH, sumG float64
	for i := range withDynamisation {
		sumH += withDynamisation[i]
		sumG += withoutDynamisation[i]
	}
	require.InDelta(t, 1.0, sumH/1e6, 1e-6)
	require.InDelta(t, 1.0, sumG/1e6, 1e-6)
}
