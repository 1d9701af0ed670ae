package export

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/frame"
)

func TestWriteSheetRowsMatchTimelineLength(t *testing.T) {
	tl := calendar.Build(2023)
	var buf bytes.Buffer
	cols := map[string][]float64{"A": make([]float64, tl.Len())}
	require.NoError(t, WriteSheet(&buf, tl, []string{"A"}, cols))

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	require.Equal(t, tl.Len()+1, lines) // header + N rows
}

func TestWriteZipProducesOneEntryPerSheetPerYear(t *testing.T) {
	tl := calendar.Build(2023)
	cons := frame.NewConsumptionFrame(tl.Len())
	bal := frame.NewBalanceFrame(tl.Len())

	var buf bytes.Buffer
	err := WriteZip(&buf, []YearBundle{
		{Year: 2030, Timeline: tl, Consumption: cons, BalancePreFlex: bal, BalancePostFlex: bal},
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	require.True(t, names["2030/Verbrauch.csv"])
	require.True(t, names["2030/Bilanz_vor_Flex.csv"])
	require.True(t, names["2030/Bilanz_nach_Flex.csv"])
}
