// Package scenario loads the YAML scenario-bundle document of spec §6: the
// nested, per-year target demand/capacity/storage/e-mobility parameters
// that drive one scenario run. Loaded with gopkg.in/yaml.v3, the same
// unmarshal-into-tagged-struct idiom internal/config uses for EngineConfig.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"energiesystem-sim/internal/simerr"
)

// Metadata identifies a scenario document.
type Metadata struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	ValidForYears []int  `yaml:"valid_for_years"`
	Version       string `yaml:"version"`
	Author        string `yaml:"author"`
}

// SectorDemand carries one sector's per-year target TWh plus the BDEW
// standard-profile name to synthesise against.
type SectorDemand struct {
	LoadProfile string          `yaml:"load_profile"`
	ByYear      map[int]float64 `yaml:"-"`
}

// UnmarshalYAML accepts the mixed {<year>: float, ..., load_profile: str}
// shape of §6's target_load_demand_twh entries.
func (s *SectorDemand) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := value.Decode(&raw); err != nil {
		return err
	}
	s.ByYear = make(map[int]float64)
	for k, v := range raw {
		if k == "load_profile" {
			if err := v.Decode(&s.LoadProfile); err != nil {
				return err
			}
			continue
		}
		var year int
		if _, err := fmt.Sscanf(k, "%d", &year); err != nil {
			continue
		}
		var val float64
		if err := v.Decode(&val); err != nil {
			return err
		}
		s.ByYear[year] = val
	}
	return nil
}

// HeatPumpYearParams are one year's target_heat_pump_parameters entry.
type HeatPumpYearParams struct {
	InstalledUnits  float64 `yaml:"installed_units"`
	AnnualHeatDemandKWh float64 `yaml:"annual_heat_demand_kwh"`
	COPAvg          float64 `yaml:"cop_avg"`
	WeatherData     string  `yaml:"weather_data"`
}

// EMobilityYearParams are one year's target_emobility_parameters entry.
type EMobilityYearParams struct {
	SEV             float64 `yaml:"s_EV"`
	NCars           float64 `yaml:"N_cars"`
	EDriveCarYear   float64 `yaml:"E_drive_car_year"`
	EBattCar        float64 `yaml:"E_batt_car"`
	PlugShareMax    float64 `yaml:"plug_share_max"`
	V2GShare        float64 `yaml:"v2g_share"`
	SOCMinDay       float64 `yaml:"SOC_min_day"`
	SOCMinNight     float64 `yaml:"SOC_min_night"`
	SOCTargetDepart float64 `yaml:"SOC_target_depart"`
	TDepart         string  `yaml:"t_depart"`
	TArrive         string  `yaml:"t_arrive"`
	ThrSurplusKW    float64 `yaml:"thr_surplus"`
	ThrDeficitKW    float64 `yaml:"thr_deficit"`
}

// StorageYearParams are one year's entry for one storage type.
type StorageYearParams struct {
	InstalledCapacityMWh float64 `yaml:"installed_capacity_mwh"`
	MaxChargePowerMW     float64 `yaml:"max_charge_power_mw"`
	MaxDischargePowerMW  float64 `yaml:"max_discharge_power_mw"`
	InitialSOC           float64 `yaml:"initial_soc"`
}

// WeatherChoice selects the good/average/bad reference-year slice for a
// weather-sensitive technology in a given year.
type WeatherChoice string

const (
	WeatherGood    WeatherChoice = "good"
	WeatherAverage WeatherChoice = "average"
	WeatherBad     WeatherChoice = "bad"
)

// EconomicAssumption mirrors econ.TechAssumptions plus per-year price
// tables, as the optional economic_assumptions scenario section.
type EconomicAssumption struct {
	CAPEXPerMW         float64            `yaml:"capex_eur_per_mw"`
	OPEXFixedPerMWYear float64            `yaml:"opex_eur_per_mw_year"`
	LifetimeYears      float64            `yaml:"lifetime_years"`
	FuelType           string             `yaml:"fuel_type"`
	CO2Factor          float64            `yaml:"co2_factor"`
	Efficiency         float64            `yaml:"efficiency"`
	FuelPriceByYear    map[int]float64    `yaml:"fuel_price_eur_per_mwh"`
	CO2PriceByYear     map[int]float64    `yaml:"co2_price_eur_per_tco2"`
	WACC               float64            `yaml:"wacc"`
}

// Bundle is the full scenario document of spec §6.
type Bundle struct {
	Metadata                   Metadata                                  `yaml:"metadata"`
	TargetLoadDemandTWh        map[string]SectorDemand                   `yaml:"target_load_demand_twh"`
	TargetHeatPumpParameters   map[int]HeatPumpYearParams                `yaml:"target_heat_pump_parameters"`
	TargetEMobilityParameters  map[int]EMobilityYearParams                `yaml:"target_emobility_parameters"`
	TargetGenerationCapacities map[string]map[int]float64                `yaml:"target_generation_capacities_mw"`
	WeatherGenerationProfiles  map[int]map[string]WeatherChoice           `yaml:"weather_generation_profiles"`
	TargetStorageCapacities    map[string]map[int]StorageYearParams       `yaml:"target_storage_capacities"`
	EconomicAssumptions        map[string]EconomicAssumption              `yaml:"economic_assumptions"`
}

// Load reads and unmarshals a scenario bundle from path.
func Load(path string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, simerr.ErrDataUnavailable)
	}
	var b Bundle
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("scenario: parse %s: %v: %w", path, err, simerr.ErrInputSchema)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks that the bundle carries at least one valid year and that
// every referenced year has a matching metadata entry.
func (b *Bundle) Validate() error {
	if len(b.Metadata.ValidForYears) == 0 {
		return fmt.Errorf("scenario: metadata.valid_for_years must be non-empty: %w", simerr.ErrInputSchema)
	}
	return nil
}

// YearsOrDefault returns years if non-empty, else metadata.valid_for_years.
func (b *Bundle) YearsOrDefault(years []int) []int {
	if len(years) > 0 {
		return years
	}
	return b.Metadata.ValidForYears
}
