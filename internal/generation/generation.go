// Package generation implements the generation synthesiser (C3):
// per-technology capacity-factor extraction from historical SMARD tables,
// rescaled to target installed capacities and re-aligned onto the target
// timeline.
package generation

import (
	"fmt"

	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/data"
	"energiesystem-sim/internal/frame"
	"energiesystem-sim/internal/simerr"
)

// TechTarget is one technology's generation-synthesis input for a target
// year: which historical weather year to draw capacity factors from, and
// the target installed capacity to rescale against.
type TechTarget struct {
	ReferenceYear int
	TargetMW      float64
}

// Synthesize runs the capacity-factor extraction and rescale of spec §4.3
// for every technology in targets, returning a populated GenerationFrame.
func Synthesize(tl *calendar.Timeline, hist *data.GenerationTable, capacities *data.CapacityTable, targets map[string]TechTarget, includeLegacy bool) (*frame.GenerationFrame, error) {
	if hist == nil || capacities == nil {
		return nil, fmt.Errorf("generation: historical table and capacity table are required: %w", simerr.ErrDataUnavailable)
	}
	n := tl.Len()
	out := frame.NewGenerationFrame(n, includeLegacy)

	techs := make([]string, 0, len(frame.GenerationTechs)+len(frame.LegacyGenerationColumns))
	techs = append(techs, frame.GenerationTechs...)
	if includeLegacy {
		techs = append(techs, frame.LegacyGenerationColumns...)
	}

	for _, tech := range techs {
		target, ok := targets[tech]
		if !ok || target.TargetMW <= 0 {
			continue // column stays zero-filled, per §4.3 step 5
		}

		genCol, ok := hist.Columns[tech]
		if !ok {
			continue
		}
		installedMW := capacities.CapacityMW(target.ReferenceYear, tech)

		cf := capacityFactors(genCol, installedMW)
		cf = calendar.RemapToYear(cf, n)

		col := make([]float64, n)
		for i, c := range cf {
			col[i] = c * target.TargetMW * 0.25
		}
		out.Columns[tech] = col
	}

	return out, nil
}

// capacityFactors computes cf(t) = 4*gen_MWh(t)/installedMW, clamped to
// [0,1], with NaN-producing zero-capacity samples mapped to 0.
func capacityFactors(genMWh []float64, installedMW float64) []float64 {
	out := make([]float64, len(genMWh))
	if installedMW <= 0 {
		return out
	}
	for i, g := range genMWh {
		cf := 4 * g / installedMW
		switch {
		case cf < 0:
			cf = 0
		case cf > 1:
			cf = 1
		}
		out[i] = cf
	}
	return out
}
