package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"energiesystem-sim/internal/config"
	"energiesystem-sim/internal/data"
	"energiesystem-sim/internal/engine"
	"energiesystem-sim/internal/export"
	"energiesystem-sim/internal/scenario"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "validate-scenario":
		cmdValidateScenario(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --scenario <file> --data <dir> --years 2030,2045 --mode accelerated --out <dir> [--config <file>] [--include-legacy-columns]")
	fmt.Println("  cli validate-scenario --scenario <file>")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - --data accepts a directory of CSV tables or a postgres:// DSN")
	fmt.Println("  - run writes one CSV-in-ZIP bundle (results.zip) to --out per invocation")
	fmt.Println("  - a year that fails is reported and skipped; other years still run")
	fmt.Println("  - --config loads an EngineConfig YAML document (C11); CLI flags override its fields")
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	scenarioPath := fs.String("scenario", "", "Path to scenario YAML document")
	dataDir := fs.String("data", "", "Data directory (or postgres:// DSN)")
	years := fs.String("years", "", "Comma-separated target years (default: scenario's valid_for_years)")
	mode := fs.String("mode", "", "Calculation mode: reference|accelerated (default: reference, or --config's calculation_mode)")
	outDir := fs.String("out", "", "Output directory for the export bundle (default: results, or --config's output_dir)")
	configPath := fs.String("config", "", "Path to an EngineConfig YAML document (C11); these flags override its fields")
	includeLegacy := fs.Bool("include-legacy-columns", false, "Emit legacy SMARD-style columns in the generation frame (spec §9)")
	_ = fs.Parse(args)

	cfg := config.EngineConfig{}
	if *configPath != "" {
		loaded, err := config.LoadUnchecked(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading --config %s: %v\n", *configPath, err)
			os.Exit(1)
		}
		cfg = *loaded
	}
	cfg = cfg.Merge(config.EngineConfig{
		CalculationMode:      *mode,
		DataDir:              *dataDir,
		ScenarioFile:         *scenarioPath,
		OutputDir:            *outDir,
		IncludeLegacyColumns: *includeLegacy,
	})
	if cfg.CalculationMode == "" {
		cfg.CalculationMode = string(engine.ModeReference)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "results"
	}

	if cfg.ScenarioFile == "" || cfg.DataDir == "" {
		fmt.Println("--scenario and --data are required (directly or via --config)")
		os.Exit(2)
	}

	bundle, err := scenario.Load(cfg.ScenarioFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading scenario: %v\n", err)
		os.Exit(1)
	}

	provider, err := data.NewProvider(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening data provider: %v\n", err)
		os.Exit(1)
	}

	kernel := engine.New(engine.Mode(cfg.CalculationMode))

	targetYears, err := parseYears(*years)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parsing --years: %v\n", err)
		os.Exit(2)
	}

	results, failures := engine.RunScenario(context.Background(), bundle, provider, kernel, targetYears, cfg.IncludeLegacyColumns)

	for year, failErr := range failures {
		fmt.Fprintf(os.Stderr, "year %d failed: %v\n", year, failErr)
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "no year completed successfully")
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating output directory: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(cfg.OutputDir, "results.zip")
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating %s: %v\n", outPath, err)
		os.Exit(1)
	}
	defer f.Close()

	bundles := yearBundles(results)
	if err := export.WriteZip(f, bundles); err != nil {
		fmt.Fprintf(os.Stderr, "writing export bundle: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Simulated %d year(s), %d failed. Wrote %s\n", len(results), len(failures), outPath)
}

func cmdValidateScenario(args []string) {
	fs := flag.NewFlagSet("validate-scenario", flag.ExitOnError)
	scenarioPath := fs.String("scenario", "", "Path to scenario YAML document")
	_ = fs.Parse(args)

	if *scenarioPath == "" {
		fmt.Println("--scenario is required")
		os.Exit(2)
	}

	bundle, err := scenario.Load(*scenarioPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid scenario: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("scenario %q is valid: %d target year(s), sectors: %d, storage types: %d\n",
		bundle.Metadata.Name, len(bundle.Metadata.ValidForYears), len(bundle.TargetLoadDemandTWh), len(bundle.TargetStorageCapacities))
}

func parseYears(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		y, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", p, err)
		}
		out = append(out, y)
	}
	return out, nil
}

func yearBundles(results map[int]*engine.YearResult) []export.YearBundle {
	bundles := make([]export.YearBundle, 0, len(results))
	for year, res := range results {
		bundles = append(bundles, export.YearBundle{
			Year:            year,
			Timeline:        res.Timeline,
			Consumption:     res.Consumption,
			Generation:      res.Production,
			BalancePreFlex:  res.BalancePreFlex,
			BalancePostFlex: res.BalancePostFlex,
			Economics:       economicsRows(res),
		})
	}
	return bundles
}

func economicsRows(res *engine.YearResult) [][]string {
	rows := [][]string{{"technology", "baseline_mw", "investment_eur", "annual_capex_eur", "annual_opex_fix_eur", "annual_opex_var_eur", "total_annual_eur"}}
	for tech, r := range res.Economics.ByTech {
		rows = append(rows, []string{
			tech,
			strconv.FormatFloat(r.BaselineMW, 'f', 3, 64),
			strconv.FormatFloat(r.InvestmentEUR, 'f', 2, 64),
			strconv.FormatFloat(r.AnnualCAPEXEUR, 'f', 2, 64),
			strconv.FormatFloat(r.AnnualOPEXFixEUR, 'f', 2, 64),
			strconv.FormatFloat(r.AnnualOPEXVarEUR, 'f', 2, 64),
			strconv.FormatFloat(r.TotalAnnualEUR(), 'f', 2, 64),
		})
	}
	rows = append(rows, []string{"SYSTEM", "", "", "", "", "", strconv.FormatFloat(res.Economics.TotalAnnualEUR, 'f', 2, 64)})
	rows = append(rows, []string{"LCOE_ct_per_kWh", strconv.FormatFloat(res.Economics.LCOECtPerKWh, 'f', 4, 64)})
	return rows
}
