package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"energiesystem-sim/internal/calendar"
	"energiesystem-sim/internal/simerr"
)

// Store loads the historical tables of §6's data contract. CSVStore (the
// default) reads them from EngineConfig.DataDir; PostgresStore (opt-in) reads
// pre-parsed tables from a Postgres-backed cache instead of re-parsing CSV on
// every run.
type Store interface {
	LoadGenerationTable(path string) (*GenerationTable, error)
	LoadCapacityTable(path string) (*CapacityTable, error)
	LoadTemperatureSeries(path string) (*TemperatureSeries, error)
	LoadBDEWProfile(path, sector string) (*BDEWProfile, error)
	LoadHeatPumpMatrix(path string) (*HeatPumpMatrix, error)
}

// CSVStore reads the historical tables directly from CSV files on disk.
type CSVStore struct{}

func openCSV(path string) (*csv.Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, simerr.ErrDataUnavailable)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r, f, nil
}

func colIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// LoadGenerationTable reads "Zeitpunkt" plus one column per technology, in
// MWh per 15-minute interval.
func (CSVStore) LoadGenerationTable(path string) (*GenerationTable, error) {
	r, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, simerr.ErrInputSchema)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row: %w", path, simerr.ErrInputSchema)
	}
	header := rows[0]
	tsIdx := colIndex(header, "Zeitpunkt")
	if tsIdx < 0 {
		return nil, fmt.Errorf("%s missing Zeitpunkt column: %w", path, simerr.ErrInputSchema)
	}

	table := &GenerationTable{Columns: make(map[string][]float64)}
	for i, h := range header {
		if i == tsIdx {
			continue
		}
		table.Columns[strings.TrimSpace(h)] = make([]float64, 0, len(rows)-1)
	}

	for _, row := range rows[1:] {
		if len(row) <= tsIdx {
			continue
		}
		ts, err := parseTimestamp(row[tsIdx])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		table.Timestamps = append(table.Timestamps, ts)
		for i, h := range header {
			if i == tsIdx || i >= len(row) {
				continue
			}
			v, _ := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			key := strings.TrimSpace(h)
			table.Columns[key] = append(table.Columns[key], v)
		}
	}
	return table, nil
}

// LoadCapacityTable reads "Jahr" plus one "<tech> [MW]" column per
// technology.
func (CSVStore) LoadCapacityTable(path string) (*CapacityTable, error) {
	r, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, simerr.ErrInputSchema)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row: %w", path, simerr.ErrInputSchema)
	}
	header := rows[0]
	yearIdx := colIndex(header, "Jahr")
	if yearIdx < 0 {
		return nil, fmt.Errorf("%s missing Jahr column: %w", path, simerr.ErrInputSchema)
	}

	out := &CapacityTable{ByYear: make(map[int]map[string]float64)}
	for _, row := range rows[1:] {
		if len(row) <= yearIdx {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(row[yearIdx]))
		if err != nil {
			continue
		}
		byTech := make(map[string]float64)
		for i, h := range header {
			if i == yearIdx || i >= len(row) {
				continue
			}
			tech := strings.TrimSuffix(strings.TrimSpace(h), " [MW]")
			v, _ := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			byTech[tech] = v
		}
		out.ByYear[year] = byTech
	}
	return out, nil
}

// LoadTemperatureSeries reads "Zeitpunkt" in "DD.MM.YY HH:MM" format plus an
// "AVERAGE" column (°C).
func (CSVStore) LoadTemperatureSeries(path string) (*TemperatureSeries, error) {
	r, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, simerr.ErrInputSchema)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row: %w", path, simerr.ErrInputSchema)
	}
	header := rows[0]
	tsIdx := colIndex(header, "Zeitpunkt")
	valIdx := colIndex(header, "AVERAGE")
	if tsIdx < 0 || valIdx < 0 {
		return nil, fmt.Errorf("%s missing Zeitpunkt/AVERAGE column: %w", path, simerr.ErrInputSchema)
	}

	out := &TemperatureSeries{}
	for _, row := range rows[1:] {
		if len(row) <= tsIdx || len(row) <= valIdx {
			continue
		}
		ts, err := time.Parse("02.01.06 15:04", strings.TrimSpace(row[tsIdx]))
		if err != nil {
			return nil, fmt.Errorf("%s: bad timestamp %q: %w", path, row[tsIdx], simerr.ErrInputSchema)
		}
		v, _ := strconv.ParseFloat(strings.TrimSpace(row[valIdx]), 64)
		out.Timestamps = append(out.Timestamps, ts)
		out.ValuesC = append(out.ValuesC, v)
	}
	return out, nil
}

// LoadBDEWProfile reads columns {timestamp, month, day_type, value_kWh} for
// sector.
func (CSVStore) LoadBDEWProfile(path, sector string) (*BDEWProfile, error) {
	r, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, simerr.ErrInputSchema)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row: %w", path, simerr.ErrInputSchema)
	}
	header := rows[0]
	tsIdx := colIndex(header, "timestamp")
	monthIdx := colIndex(header, "month")
	dayTypeIdx := colIndex(header, "day_type")
	valIdx := colIndex(header, "value_kWh")
	if monthIdx < 0 || dayTypeIdx < 0 || valIdx < 0 {
		return nil, fmt.Errorf("%s missing month/day_type/value_kWh column: %w", path, simerr.ErrInputSchema)
	}

	profile := &BDEWProfile{Sector: sector, Entries: make(map[BDEWKey]float64)}
	for _, row := range rows[1:] {
		if len(row) <= monthIdx || len(row) <= dayTypeIdx || len(row) <= valIdx {
			continue
		}
		month, _ := strconv.Atoi(strings.TrimSpace(row[monthIdx]))
		dayType := parseDayType(strings.TrimSpace(row[dayTypeIdx]))
		hour, minute := 0, 0
		if tsIdx >= 0 && tsIdx < len(row) {
			hour, minute = parseHourMinute(strings.TrimSpace(row[tsIdx]))
		}
		v, _ := strconv.ParseFloat(strings.TrimSpace(row[valIdx]), 64)
		profile.Entries[BDEWKey{Month: month, DayType: dayType, Hour: hour, Minute: minute}] = v
	}
	return profile, nil
}

// LoadHeatPumpMatrix reads a "Zeitpunkt" column ("HH:MM[-HH:MM]") and the 34
// temperature columns into a 96x34 matrix.
func (CSVStore) LoadHeatPumpMatrix(path string) (*HeatPumpMatrix, error) {
	r, f, err := openCSV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, simerr.ErrInputSchema)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row: %w", path, simerr.ErrInputSchema)
	}
	header := rows[0]
	colForLabel := make(map[string]int, len(HeatPumpColumnLabels))
	for _, label := range HeatPumpColumnLabels {
		idx := colIndex(header, label)
		if idx < 0 {
			return nil, fmt.Errorf("%s missing temperature column %q: %w", path, label, simerr.ErrInputSchema)
		}
		colForLabel[label] = idx
	}

	matrix := make([][]float64, 0, 96)
	for _, row := range rows[1:] {
		r := make([]float64, len(HeatPumpColumnLabels))
		for i, label := range HeatPumpColumnLabels {
			idx := colForLabel[label]
			if idx < len(row) {
				r[i], _ = strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
			}
		}
		matrix = append(matrix, r)
	}
	if len(matrix) != 96 {
		return nil, fmt.Errorf("%s has %d data rows, want 96: %w", path, len(matrix), simerr.ErrInputSchema)
	}
	return &HeatPumpMatrix{Matrix: matrix}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04", "02.01.2006 15:04", time.RFC3339Nano}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q: %w", s, simerr.ErrInputSchema)
}

func parseDayType(s string) calendar.DayType {
	switch strings.ToUpper(s) {
	case "SA":
		return calendar.Saturday
	case "FT":
		return calendar.SundayOrHoliday
	default:
		return calendar.Workday
	}
}

func parseHourMinute(s string) (int, int) {
	first := s
	if idx := strings.Index(s, "-"); idx >= 0 {
		first = s[:idx]
	}
	parts := strings.SplitN(first, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	h, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
	return h, m
}
