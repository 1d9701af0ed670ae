package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"energiesystem-sim/internal/data"
)

// update-locations scans a data directory for historical CSV tables and
// refreshes the dataset catalogue, classifying each file by its header
// columns and, for the year-keyed capacity table, the years it covers.
// Re-running over the same directory merges discovered files into any
// existing catalogue (by ID) rather than discarding manual entries.
func main() {
	var (
		dataDir    = flag.String("data", "", "Data directory to scan for CSV tables")
		outputPath = flag.String("output", "", "Output catalogue path (default: <data>/catalogue.json)")
	)
	flag.Parse()

	if *dataDir == "" {
		log.Fatal("--data is required")
	}
	if *outputPath == "" {
		*outputPath = filepath.Join(*dataDir, "catalogue.json")
	}

	existing := make(map[string]data.Dataset)
	if cat, err := data.LoadCatalogue(*outputPath); err == nil {
		for _, ds := range cat.Datasets {
			existing[ds.ID] = ds
		}
		fmt.Printf("Loaded %d existing dataset(s) from %s\n", len(existing), *outputPath)
	}

	discovered, err := scanDataDir(*dataDir)
	if err != nil {
		log.Fatalf("failed to scan data directory: %v", err)
	}
	fmt.Printf("Discovered %d CSV table(s) in %s\n", len(discovered), *dataDir)

	for _, ds := range discovered {
		existing[ds.ID] = ds
	}

	datasets := make([]data.Dataset, 0, len(existing))
	for _, ds := range existing {
		datasets = append(datasets, ds)
	}

	catalogue := &data.Catalogue{
		UpdatedAt: time.Now().Format(time.RFC3339),
		Datasets:  datasets,
	}

	if err := data.SaveCatalogue(catalogue, *outputPath); err != nil {
		log.Fatalf("failed to save catalogue: %v", err)
	}
	fmt.Printf("Saved %d dataset(s) to %s\n", len(datasets), *outputPath)
}

// scanDataDir classifies every .csv file under dir by its header row.
func scanDataDir(dir string) ([]data.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var datasets []data.Dataset
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		kind, years, err := classify(path)
		if err != nil {
			fmt.Printf("  skipping %s: %v\n", e.Name(), err)
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".csv")
		fmt.Printf("  %s -> kind=%s years=%v\n", id, kind, years)
		datasets = append(datasets, data.Dataset{ID: id, Kind: kind, Path: path, Years: years})
	}
	return datasets, nil
}

// classify inspects a CSV file's header (and, for capacity tables, its
// "Jahr" column) to determine its dataset kind, per §6's data contract.
func classify(path string) (kind string, years []int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	header, rows, err := readHeaderAndYearColumn(f)
	if err != nil {
		return "", nil, err
	}

	switch {
	case contains(header, "Jahr"):
		return "capacity", rows, nil
	case contains(header, "AVERAGE") && contains(header, "Zeitpunkt"):
		return "temperature", nil, nil
	case contains(header, "value_kWh"):
		return "bdew", nil, nil
	case contains(header, "Zeitpunkt") && len(header) > 20:
		return "heatpump", nil, nil
	case contains(header, "Zeitpunkt"):
		return "generation", nil, nil
	default:
		return "", nil, fmt.Errorf("unrecognised column layout: %v", header)
	}
}

func readHeaderAndYearColumn(f *os.File) ([]string, []int, error) {
	buf := make([]byte, 65536)
	n, _ := f.Read(buf)
	lines := strings.SplitN(string(buf[:n]), "\n", 2)
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("empty file")
	}
	header := strings.Split(strings.TrimRight(lines[0], "\r"), ",")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var years []int
	if contains(header, "Jahr") && len(lines) > 1 {
		for _, line := range strings.Split(lines[1], "\n") {
			fields := strings.Split(line, ",")
			if len(fields) == 0 {
				continue
			}
			if y, err := strconv.Atoi(strings.TrimSpace(fields[0])); err == nil {
				years = append(years, y)
			}
		}
	}
	return header, years, nil
}

func contains(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}
