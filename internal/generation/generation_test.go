package generation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/data"
	"energiesystem-sim/internal/frame"
)

func TestSynthesizeRescalesToTargetCapacity(t *testing.T) {
	tl := calendar.Build(2023)
	n := tl.Len()

	genCol := make([]float64, n)
	for i := range genCol {
		genCol[i] = 10 // MWh per interval, constant
	}
	hist := &data.GenerationTable{Columns: map[string][]float64{"Photovoltaik": genCol}}
	caps := &data.CapacityTable{ByYear: map[int]map[string]float64{
		2023: {"Photovoltaik": 100}, // installed 100 MW -> cf = 4*10/100 = 0.4
	}}
	targets := generationTarget(t, 2023, 200)

	out, err := Synthesize(tl, hist, caps, targets, false)
	require.NoError(t, err)

	for _, v := range out.Columns["Photovoltaik"] {
		require.InDelta(t, 0.4*200*0.25, v, 1e-9)
	}
}

func generationTarget(t *testing.T, refYear int, targetMW float64) map[string]TechTarget {
	t.Helper()
	return map[string]TechTarget{"Photovoltaik": {ReferenceYear: refYear, TargetMW: targetMW}}
}

func TestSynthesizeZeroTargetLeavesColumnZero(t *testing.T) {
	tl := calendar.Build(2023)
	n := tl.Len()
	hist := &data.GenerationTable{Columns: map[string][]float64{"Wind_Onshore": make([]float64, n)}}
	caps := &data.CapacityTable{ByYear: map[int]map[string]float64{}}

	out, err := Synthesize(tl, hist, caps, map[string]TechTarget{}, false)
	require.NoError(t, err)
	for _, v := range out.Columns["Wind_Onshore"] {
		require.Equal(t, 0.0, v)
	}
}

func TestSynthesizeOmitsLegacyColumnsByDefault(t *testing.T) {
	tl := calendar.Build(2023)
	out, err := Synthesize(tl, &data.GenerationTable{Columns: map[string][]float64{}}, &data.CapacityTable{}, map[string]TechTarget{}, false)
	require.NoError(t, err)
	for _, legacy := range frame.LegacyGenerationColumns {
		_, ok := out.Columns[legacy]
		require.False(t, ok)
	}
}

func TestSynthesizeClampsCapacityFactor(t *testing.T) {
	n := 4
	cf := capacityFactors([]float64{-5, 0, 100, 1000}, 100) // 4*g/100
	require.Equal(t, []float64{0, 0, 1, 1}, cf)
	_ = n
}
