package consumption

import (
	"fmt"
	"math"

	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/data"
	"energiesystem-sim/internal/engine"
	"energiesystem-sim/internal/simerr"
)

const dtHours = 0.25

// HeatPumpParams are one target year's heat-pump scenario parameters.
type HeatPumpParams struct {
	InstalledUnits  float64 // n_HP
	AnnualDemandKWh float64 // Q_th_a per unit
	COPAvg          float64
}

// SynthesizeHeatPump runs the heat-pump synthesis of spec §4.2 over tl,
// dispatching the profile-factor-to-energy inner loop through the C9 hot
// kernel rather than computing it inline.
func SynthesizeHeatPump(tl *calendar.Timeline, temps *data.TemperatureSeries, matrix *data.HeatPumpMatrix, p HeatPumpParams, kernel engine.Kernel) ([]float64, error) {
	n := tl.Len()
	if p.COPAvg <= 0 {
		return nil, fmt.Errorf("heatpump: COP_avg must be > 0: %w", simerr.ErrInputSchema)
	}

	resampled := resampleTemperature(temps, n)
	rowIdx := make([]int, n)
	colIdx := make([]int, n)
	for i, s := range tl.Samples {
		rowIdx[i] = data.RowIndex(s.T.Hour(), s.T.Minute())
		colIdx[i] = data.ColumnIndex(int(math.Round(resampled[i])))
	}

	// Step 3: gather the raw profile factor f(t) via the kernel with unit
	// scale factors, so step 4's normalisation sum sees f(t) directly.
	profileFactor, err := kernel.CalculateHeatpumpLoad(rowIdx, colIdx, matrix.Matrix, 1, 1, 1, 1)
	if err != nil {
		return nil, err
	}

	var s float64
	for _, f := range profileFactor {
		s += f * dtHours
	}
	if s <= 0 {
		return nil, fmt.Errorf("heatpump: normalisation sum must be > 0: %w", simerr.ErrNumerical)
	}
	kHP := p.AnnualDemandKWh / s

	// Step 5-6: re-run the kernel with the real scale factor, COP and unit
	// count; its output is already energy_MWh(t) = f(t)*kHP/COP*n_HP/1000*Δt.
	return kernel.CalculateHeatpumpLoad(rowIdx, colIdx, matrix.Matrix, kHP, p.COPAvg, p.InstalledUnits, dtHours)
}

// resampleTemperature forward-fills then back-fills an hourly series onto a
// quarter-hour grid of length n, ignoring the source's own calendar year
// (the weather-year timestamps are rebased by position, not by date match).
func resampleTemperature(temps *data.TemperatureSeries, n int) []float64 {
	quarterHourly := make([]float64, 0, len(temps.ValuesC)*4)
	for _, v := range temps.ValuesC {
		for q := 0; q < 4; q++ {
			quarterHourly = append(quarterHourly, v)
		}
	}
	return calendar.RemapToYear(quarterHourly, n)
}
