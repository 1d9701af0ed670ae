package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildMatrix(rows, cols int, seed int64) [][]float64 {
	r := rand.New(rand.NewSource(seed))
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = r.Float64() * 10
		}
	}
	return m
}

func TestKernelParity(t *testing.T) {
	const n = 6000
	matrix := buildMatrix(96, 34, 1)
	rowIdx := make([]int, n)
	colIdx := make([]int, n)
	r := rand.New(rand.NewSource(2))
	for i := 0; i < n; i++ {
		rowIdx[i] = r.Intn(96)
		colIdx[i] = r.Intn(34)
	}

	ref, err := ReferenceKernel{}.CalculateHeatpumpLoad(rowIdx, colIdx, matrix, 3.5, 3.2, 1_500_000, 0.25)
	require.NoError(t, err)
	acc, err := AcceleratedKernel{}.CalculateHeatpumpLoad(rowIdx, colIdx, matrix, 3.5, 3.2, 1_500_000, 0.25)
	require.NoError(t, err)

	require.Equal(t, len(ref), len(acc))
	for i := range ref {
		require.InDelta(t, ref[i], acc[i], 1e-8+1e-5*ref[i])
	}
}

func TestKernelRejectsNonPositiveCOP(t *testing.T) {
	matrix := buildMatrix(2, 2, 1)
	_, err := ReferenceKernel{}.CalculateHeatpumpLoad([]int{0}, []int{0}, matrix, 1, 0, 1, 0.25)
	require.Error(t, err)
}

func TestKernelRejectsOutOfBoundsIndex(t *testing.T) {
	matrix := buildMatrix(2, 2, 1)
	_, err := ReferenceKernel{}.CalculateHeatpumpLoad([]int{5}, []int{0}, matrix, 1, 3, 1, 0.25)
	require.Error(t, err)
}

func TestNewDefaultsToReference(t *testing.T) {
	require.IsType(t, ReferenceKernel{}, New(""))
	require.IsType(t, AcceleratedKernel{}, New(ModeAccelerated))
}
