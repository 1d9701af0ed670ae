package balance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"energiesystem-sim/internal/frame"
)

func TestCalculateSignConvention(t *testing.T) {
	gen := frame.NewGenerationFrame(4, false)
	gen.Columns["Photovoltaik"] = []float64{10, 20, 30, 0}
	cons := frame.NewConsumptionFrame(4)
	cons.Haushalte = []float64{5, 25, 10, 0}
	cons.RecomputeGesamt()

	bal, err := Calculate(gen, cons)
	require.NoError(t, err)
	require.Equal(t, []float64{5, -5, 20, 0}, bal.Bilanz)
	require.Equal(t, bal.Bilanz, bal.RestBilanz)
}

func TestCalculateRejectsMismatchedLength(t *testing.T) {
	gen := frame.NewGenerationFrame(4, false)
	cons := frame.NewConsumptionFrame(5)
	_, err := Calculate(gen, cons)
	require.Error(t, err)
}
