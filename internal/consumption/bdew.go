// Package consumption implements the consumption synthesiser (C2): BDEW
// standard-load-profile synthesis for households/commerce/agriculture,
// heat-pump load synthesis via the C9 engine kernel, and the e-mobility
// baseline (drive + charging-loss) merge.
package consumption

import (
	"log"
	"math"

	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/data"
)

// SectorTarget is one BDEW sector's synthesis input: its standard profile
// and its target annual energy.
type SectorTarget struct {
	Profile   *data.BDEWProfile
	TargetTWh float64
}

// SynthesizeBDEW runs the BDEW synthesis of spec §4.2 for one sector over
// tl, returning a column in MWh per interval scaled to hit TargetTWh.
func SynthesizeBDEW(tl *calendar.Timeline, sector string, target SectorTarget) []float64 {
	n := tl.Len()
	raw := make([]float64, n)

	var missing int
	for i, s := range tl.Samples {
		v, found := target.Profile.ValueKWh(s.Month, s.Day, s.T.Hour(), s.T.Minute())
		if !found {
			missing++
			v = 0
		}
		if sector == "Haushalte" {
			v *= dynamisationFactor(s.T.YearDay())
		}
		raw[i] = v
	}
	if missing > 0 {
		log.Printf("consumption: sector %s: %d/%d intervals missing from BDEW profile, defaulted to 0", sector, missing, n)
	}

	var sum float64
	for _, v := range raw {
		sum += v
	}

	targetKWh := target.TargetTWh * 1e9
	var k float64
	if sum > 0 {
		k = targetKWh / sum
	}

	out := make([]float64, n)
	for i, v := range raw {
		out[i] = k * v / 1000
	}
	return out
}

// dynamisationFactor is the BDEW H25 seasonal dynamisation formula, d =
// day-of-year, rounded to four decimals.
func dynamisationFactor(d int) float64 {
	fd := float64(d)
	f := -3.92e-10*fd*fd*fd*fd + 3.20e-7*fd*fd*fd - 7.02e-5*fd*fd + 2.10e-3*fd + 1.24
	return math.Round(f*1e4) / 1e4
}

