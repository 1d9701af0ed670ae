package consumption

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/data"
	"energiesystem-sim/internal/engine"
)

func flatHeatPumpMatrix() *data.HeatPumpMatrix {
	m := make([][]float64, 96)
	for r := range m {
		row := make([]float64, 34)
		for c := range row {
			row[c] = 1.0
		}
		m[r] = row
	}
	return &data.HeatPumpMatrix{Matrix: m}
}

func flatTemperatureSeries(hours int) *data.TemperatureSeries {
	ts := make([]time.Time, hours)
	vals := make([]float64, hours)
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range ts {
		ts[i] = base.Add(time.Duration(i) * time.Hour)
		vals[i] = 5.0
	}
	return &data.TemperatureSeries{Timestamps: ts, ValuesC: vals}
}

func TestSynthesizeHeatPumpHitsAnnualDemand(t *testing.T) {
	tl := calendar.Build(2023)
	temps := flatTemperatureSeries(8760)
	matrix := flatHeatPumpMatrix()
	p := HeatPumpParams{InstalledUnits: 1000, AnnualDemandKWh: 12000, COPAvg: 3.0}

	out, err := SynthesizeHeatPump(tl, temps, matrix, p, engine.ReferenceKernel{})
	require.NoError(t, err)

	var sumMWh float64
	for _, v := range out {
		sumMWh += v
	}
	expected := p.InstalledUnits * p.AnnualDemandKWh / (p.COPAvg * 1000)
	require.InDelta(t, expected, sumMWh, expected*0.001)
}

func TestSynthesizeHeatPumpRejectsNonPositiveCOP(t *testing.T) {
	tl := calendar.Build(2023)
	temps := flatTemperatureSeries(8760)
	matrix := flatHeatPumpMatrix()
	p := HeatPumpParams{InstalledUnits: 1000, AnnualDemandKWh: 12000, COPAvg: 0}

	_, err := SynthesizeHeatPump(tl, temps, matrix, p, engine.ReferenceKernel{})
	require.Error(t, err)
}

func TestSynthesizeHeatPumpReferenceAndAcceleratedAgree(t *testing.T) {
	tl := calendar.Build(2024)
	temps := flatTemperatureSeries(8784)
	matrix := flatHeatPumpMatrix()
	p := HeatPumpParams{InstalledUnits: 500, AnnualDemandKWh: 9000, COPAvg: 3.5}

	refOut, err := SynthesizeHeatPump(tl, temps, matrix, p, engine.ReferenceKernel{})
	require.NoError(t, err)
	accOut, err := SynthesizeHeatPump(tl, temps, matrix, p, engine.AcceleratedKernel{})
	require.NoError(t, err)

	require.Equal(t, len(refOut), len(accOut))
	for i := range refOut {
		require.InDelta(t, refOut[i], accOut[i], 1e-9)
	}
}
