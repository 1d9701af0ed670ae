// Package export writes a scenario run's per-year frames to a multi-sheet
// CSV-in-ZIP bundle (C12): one CSV per sheet (Verbrauch, Erzeugung,
// E-Mobility, Speicher, Bilanz_vor_Flex, Bilanz_nach_Flex,
// Wirtschaftlichkeit), keyed on Zeitpunkt. Adapted from the teacher's
// internal/backtest/csv.go row writer — no Excel-writing library appears
// anywhere in the retrieved pack, so CSV-in-ZIP stands in for a
// multi-sheet workbook.
package export

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/frame"
)

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// WriteSheet writes one column-oriented sheet as CSV: "Zeitpunkt" plus one
// column per entry of columns (iterated in the order given by names, to
// keep output deterministic).
func WriteSheet(w io.Writer, tl *calendar.Timeline, names []string, columns map[string][]float64) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append([]string{"Zeitpunkt"}, names...)
	if err := cw.Write(header); err != nil {
		return err
	}

	n := tl.Len()
	for t := 0; t < n; t++ {
		row := make([]string, 0, len(names)+1)
		row = append(row, fmtTime(tl.Samples[t].T))
		for _, name := range names {
			col := columns[name]
			if t < len(col) {
				row = append(row, fmtFloat(col[t]))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// YearBundle is one target year's exportable frames plus the economics and
// KPI sheets, which are row-oriented rather than column-oriented.
type YearBundle struct {
	Year            int
	Timeline        *calendar.Timeline
	Consumption     *frame.ConsumptionFrame
	Generation      *frame.GenerationFrame
	Storage         map[string][]float64 // e.g. "Batteriespeicher_SOC_MWh" etc.
	BalancePreFlex  *frame.BalanceFrame
	BalancePostFlex *frame.BalanceFrame
	Economics       [][]string // pre-built rows, header included
}

// WriteZip writes one ZIP archive containing, for each year in bundles, a
// "<year>/<sheet>.csv" entry per sheet.
func WriteZip(w io.Writer, bundles []YearBundle) error {
	zw := zip.NewWriter(w)
	defer zw.Close()

	for _, b := range bundles {
		if err := writeYear(zw, b); err != nil {
			return fmt.Errorf("export year %d: %w", b.Year, err)
		}
	}
	return nil
}

func writeYear(zw *zip.Writer, b YearBundle) error {
	if b.Consumption != nil {
		if err := writeSheetEntry(zw, b.Year, "Verbrauch", b.Timeline, []string{"Haushalte", "Gewerbe", "Landwirtschaft", "Waermepumpen", "E-Mobility", "Gesamt"}, map[string][]float64{
			"Haushalte": b.Consumption.Haushalte, "Gewerbe": b.Consumption.Gewerbe,
			"Landwirtschaft": b.Consumption.Landwirtschaft, "Waermepumpen": b.Consumption.Waermepumpen,
			"E-Mobility": b.Consumption.EMobility, "Gesamt": b.Consumption.Gesamt,
		}); err != nil {
			return err
		}
	}
	if b.Generation != nil {
		names := make([]string, 0, len(b.Generation.Columns))
		for _, t := range frame.GenerationTechs {
			if _, ok := b.Generation.Columns[t]; ok {
				names = append(names, t)
			}
		}
		for _, t := range frame.LegacyGenerationColumns {
			if _, ok := b.Generation.Columns[t]; ok {
				names = append(names, t)
			}
		}
		if err := writeSheetEntry(zw, b.Year, "Erzeugung", b.Timeline, names, b.Generation.Columns); err != nil {
			return err
		}
	}
	if b.Storage != nil {
		names := make([]string, 0, len(b.Storage))
		for name := range b.Storage {
			names = append(names, name)
		}
		if err := writeSheetEntry(zw, b.Year, "Speicher", b.Timeline, names, b.Storage); err != nil {
			return err
		}
	}
	if b.BalancePreFlex != nil {
		if err := writeSheetEntry(zw, b.Year, "Bilanz_vor_Flex", b.Timeline, []string{"Produktion", "Verbrauch", "Bilanz", "Rest_Bilanz"}, map[string][]float64{
			"Produktion": b.BalancePreFlex.Produktion, "Verbrauch": b.BalancePreFlex.Verbrauch,
			"Bilanz": b.BalancePreFlex.Bilanz, "Rest_Bilanz": b.BalancePreFlex.RestBilanz,
		}); err != nil {
			return err
		}
	}
	if b.BalancePostFlex != nil {
		if err := writeSheetEntry(zw, b.Year, "Bilanz_nach_Flex", b.Timeline, []string{"Produktion", "Verbrauch", "Bilanz", "Rest_Bilanz"}, map[string][]float64{
			"Produktion": b.BalancePostFlex.Produktion, "Verbrauch": b.BalancePostFlex.Verbrauch,
			"Bilanz": b.BalancePostFlex.Bilanz, "Rest_Bilanz": b.BalancePostFlex.RestBilanz,
		}); err != nil {
			return err
		}
	}
	if b.Economics != nil {
		f, err := zw.Create(fmt.Sprintf("%d/Wirtschaftlichkeit.csv", b.Year))
		if err != nil {
			return err
		}
		cw := csv.NewWriter(f)
		for _, row := range b.Economics {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return nil
}

func writeSheetEntry(zw *zip.Writer, year int, sheet string, tl *calendar.Timeline, names []string, columns map[string][]float64) error {
	f, err := zw.Create(fmt.Sprintf("%d/%s.csv", year, sheet))
	if err != nil {
		return err
	}
	return WriteSheet(f, tl, names, columns)
}
