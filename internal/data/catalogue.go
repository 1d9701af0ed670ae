package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Dataset describes one historical-data source file tracked by the
// catalogue: which table it holds, which years it covers, and where it
// lives under DataDir. Adapted from the teacher's Location/LocationList
// (a CAISO node catalogue) into a catalogue of the historical SMARD/BDEW/
// temperature/heat-pump files this engine reads, used by
// cmd/update-locations to refresh the catalogue after new data lands.
type Dataset struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"` // "generation", "capacity", "temperature", "bdew", "heatpump"
	Path  string `json:"path"`
	Years []int  `json:"years"`
}

// Catalogue is a collection of known historical datasets.
type Catalogue struct {
	UpdatedAt string    `json:"updated_at"` // ISO 8601 timestamp
	Datasets  []Dataset `json:"datasets"`
}

// LoadCatalogue loads the dataset catalogue from a JSON file.
func LoadCatalogue(filePath string) (*Catalogue, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file: %w", err)
	}
	var c Catalogue
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue file: %w", err)
	}
	return &c, nil
}

// SaveCatalogue saves the dataset catalogue to a JSON file.
func SaveCatalogue(c *Catalogue, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalogue: %w", err)
	}
	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write catalogue file: %w", err)
	}
	return nil
}

// GetDefaultCataloguePath returns the default path for the catalogue file.
func GetDefaultCataloguePath() string {
	if path := os.Getenv("DATASET_CATALOGUE_FILE"); path != "" {
		return path
	}
	return "./data/catalogue.json"
}
