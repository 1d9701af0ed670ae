package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"energiesystem-sim/internal/data"
	"energiesystem-sim/internal/engine"
	"energiesystem-sim/internal/scenario"
)

// Demo builds a minimal, self-contained scenario and historical-data set in
// a temp directory, then runs one target year end to end, printing a
// summary of consumption, production, balance and KPI scores.
func main() {
	dir, err := os.MkdirTemp("", "energiesystem-demo")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	if err := writeBDEWProfile(filepath.Join(dir, "H25.csv")); err != nil {
		panic(err)
	}
	if err := writeBDEWProfile(filepath.Join(dir, "G25.csv")); err != nil {
		panic(err)
	}
	if err := writeBDEWProfile(filepath.Join(dir, "L25.csv")); err != nil {
		panic(err)
	}
	if err := writeGenerationTable(filepath.Join(dir, "SMARD_Erzeugung.csv")); err != nil {
		panic(err)
	}
	if err := writeCapacityTable(filepath.Join(dir, "SMARD_Installierte_Leistung.csv")); err != nil {
		panic(err)
	}

	bundle := &scenario.Bundle{
		Metadata: scenario.Metadata{Name: "demo", ValidForYears: []int{2030}},
		TargetLoadDemandTWh: map[string]scenario.SectorDemand{
			"Haushalt_Basis":       {LoadProfile: "H25", ByYear: map[int]float64{2030: 120}},
			"Gewerbe_Basis":        {LoadProfile: "G25", ByYear: map[int]float64{2030: 90}},
			"Landwirtschaft_Basis": {LoadProfile: "L25", ByYear: map[int]float64{2030: 10}},
		},
		TargetGenerationCapacities: map[string]map[int]float64{
			"Photovoltaik": {2030: 200_000},
			"Wind_Onshore": {2030: 150_000},
		},
	}

	provider, err := data.NewProvider(dir)
	if err != nil {
		panic(err)
	}
	kernel := engine.New(engine.ModeReference)

	results, failures := engine.RunScenario(context.Background(), bundle, provider, kernel, nil, false)
	for year, err := range failures {
		fmt.Printf("year %d failed: %v\n", year, err)
	}
	res, ok := results[2030]
	if !ok {
		fmt.Println("demo run produced no result")
		return
	}

	var totalConsumptionMWh, totalProductionMWh float64
	for _, v := range res.Consumption.Gesamt {
		totalConsumptionMWh += v
	}
	for _, col := range res.Production.Columns {
		for _, v := range col {
			totalProductionMWh += v
		}
	}

	fmt.Printf("Year 2030 simulated over %d quarter-hour intervals\n", res.Timeline.Len())
	fmt.Printf("Total consumption: %.1f MWh\n", totalConsumptionMWh)
	fmt.Printf("Total production:  %.1f MWh\n", totalProductionMWh)
	fmt.Printf("LCOE: %.3f ct/kWh\n", res.Economics.LCOECtPerKWh)
	fmt.Printf("KPI overall score: %.1f (security=%.1f ecology=%.1f economy=%.1f)\n",
		res.Scorecard.Overall, res.Scorecard.Security.Score, res.Scorecard.Ecology.Score, res.Scorecard.Economy.Score)
}

func writeBDEWProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"timestamp", "month", "day_type", "value_kWh"}); err != nil {
		return err
	}
	for month := 1; month <= 12; month++ {
		for _, dayType := range []string{"WT", "SA", "FT"} {
			for hour := 0; hour < 24; hour++ {
				for _, minute := range []int{0, 15, 30, 45} {
					ts := fmt.Sprintf("%02d:%02d", hour, minute)
					if err := w.Write([]string{ts, fmt.Sprintf("%d", month), dayType, "1.0"}); err != nil {
						return err
					}
				}
			}
		}
	}
	return w.Error()
}

func writeGenerationTable(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Zeitpunkt", "Photovoltaik", "Wind_Onshore"}); err != nil {
		return err
	}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 365*96; i++ {
		ts := start.Add(time.Duration(i) * 15 * time.Minute)
		if err := w.Write([]string{ts.Format(time.RFC3339), "25.0", "35.0"}); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeCapacityTable(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Jahr", "Photovoltaik [MW]", "Wind_Onshore [MW]"}); err != nil {
		return err
	}
	return w.Write([]string{"2030", "100000", "120000"})
}
