// Package data implements the historical-data provider (C10): CSV-backed
// loaders for SMARD generation/capacity tables, BDEW standard load profiles,
// temperature series and heat-pump load-profile matrices, with an in-memory
// cache in front of a pluggable Store.
package data

import (
	"fmt"
	"time"

	"energiesystem-sim/internal/calendar"
)

// GenerationTable is one historical generation table: "Zeitpunkt" plus one
// column per technology, MWh per 15-minute interval.
type GenerationTable struct {
	Timestamps []time.Time
	Columns    map[string][]float64
}

// CapacityTable is the historical installed-capacity table: "Jahr" plus one
// "<tech> [MW]" column per technology.
type CapacityTable struct {
	ByYear map[int]map[string]float64
}

// CapacityMW returns the installed capacity of tech in year, or 0 if absent.
func (c *CapacityTable) CapacityMW(year int, tech string) float64 {
	if c == nil {
		return 0
	}
	byTech, ok := c.ByYear[year]
	if !ok {
		return 0
	}
	return byTech[tech]
}

// TemperatureSeries is an hourly temperature series for one weather year.
type TemperatureSeries struct {
	Timestamps []time.Time
	ValuesC    []float64
}

// BDEWKey indexes one row of a BDEW standard load-profile table.
type BDEWKey struct {
	Month   int
	DayType calendar.DayType
	Hour    int
	Minute  int
}

// MarshalText/UnmarshalText let BDEWKey serve as a JSON map key (required
// for PostgresStore's JSONB persistence, since encoding/json only allows
// struct map keys that implement encoding.TextMarshaler).
func (k BDEWKey) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d|%d|%d|%d", k.Month, int(k.DayType), k.Hour, k.Minute)), nil
}

func (k *BDEWKey) UnmarshalText(text []byte) error {
	var dayType int
	if _, err := fmt.Sscanf(string(text), "%d|%d|%d|%d", &k.Month, &dayType, &k.Hour, &k.Minute); err != nil {
		return err
	}
	k.DayType = calendar.DayType(dayType)
	return nil
}

// BDEWProfile is a standard load-profile table for one sector, returning a
// value in kWh for a given (month, day_type, hour, minute).
type BDEWProfile struct {
	Sector  string
	Entries map[BDEWKey]float64
}

// ValueKWh looks up value_kWh(s, month, day_type, hour, minute); missing
// lookups return (0, false) so the caller can warn-and-zero-fill per §7.
func (p *BDEWProfile) ValueKWh(month int, dayType calendar.DayType, hour, minute int) (float64, bool) {
	if p == nil {
		return 0, false
	}
	v, ok := p.Entries[BDEWKey{Month: month, DayType: dayType, Hour: hour, Minute: minute}]
	return v, ok
}

// HeatPumpColumnLabels is the fixed 34-column temperature axis of the
// heat-pump load-profile matrix: "LOW", "-14", "-13", …, "17", "HIGH".
var HeatPumpColumnLabels = buildHeatPumpColumnLabels()

func buildHeatPumpColumnLabels() []string {
	labels := make([]string, 0, 34)
	labels = append(labels, "LOW")
	for t := -14; t <= 17; t++ {
		labels = append(labels, itoaSigned(t))
	}
	labels = append(labels, "HIGH")
	return labels
}

func itoaSigned(n int) string {
	if n < 0 {
		return "-" + itoaUnsigned(-n)
	}
	return itoaUnsigned(n)
}

func itoaUnsigned(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// HeatPumpMatrix is the 96-row (quarter-hour of day) x 34-column
// (temperature bucket) load-profile matrix.
type HeatPumpMatrix struct {
	Matrix [][]float64 // 96 x 34
}

// ColumnIndex maps a rounded temperature to its column index, per §4.2 step
// 2: "LOW" if T_round<-14, "HIGH" if T_round>=18, else str(T_round).
func ColumnIndex(tempRounded int) int {
	switch {
	case tempRounded < -14:
		return 0
	case tempRounded >= 18:
		return len(HeatPumpColumnLabels) - 1
	default:
		return tempRounded + 15 // -14 maps to column 1
	}
}

// RowIndex maps an hour/minute-of-day to its row index: hour*4 + minute/15.
func RowIndex(hour, minute int) int {
	return hour*4 + minute/15
}
