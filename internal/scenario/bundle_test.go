package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
metadata:
  name: "Test scenario"
  description: "unit test fixture"
  valid_for_years: [2030, 2045]
  version: "1.0"
  author: "test"
target_load_demand_twh:
  Haushalt_Basis:
    2030: 120.5
    2045: 130.0
    load_profile: H25
target_heat_pump_parameters:
  2030:
    installed_units: 1000000
    annual_heat_demand_kwh: 12000
    cop_avg: 3.2
    weather_data: "2020"
target_emobility_parameters:
  2030:
    s_EV: 0.5
    N_cars: 40000000
    E_drive_car_year: 2250
    E_batt_car: 55
    plug_share_max: 0.6
    v2g_share: 0.3
    SOC_min_day: 0.3
    SOC_min_night: 0.2
    SOC_target_depart: 0.7
    t_depart: "07:30"
    t_arrive: "18:00"
    thr_surplus: 200000
    thr_deficit: 200000
target_generation_capacities_mw:
  Photovoltaik:
    2030: 250000
weather_generation_profiles:
  2030:
    Photovoltaik: good
target_storage_capacities:
  battery_storage:
    2030:
      installed_capacity_mwh: 50000
      max_charge_power_mw: 20000
      max_discharge_power_mw: 20000
      initial_soc: 0.5
`

func TestLoadParsesNestedSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []int{2030, 2045}, b.Metadata.ValidForYears)

	demand := b.TargetLoadDemandTWh["Haushalt_Basis"]
	require.Equal(t, "H25", demand.LoadProfile)
	require.InDelta(t, 120.5, demand.ByYear[2030], 1e-9)

	hp := b.TargetHeatPumpParameters[2030]
	require.Equal(t, 3.2, hp.COPAvg)

	ev := b.TargetEMobilityParameters[2030]
	require.Equal(t, "07:30", ev.TDepart)

	require.Equal(t, WeatherGood, b.WeatherGenerationProfiles[2030]["Photovoltaik"])
	require.InDelta(t, 0.5, b.TargetStorageCapacities["battery_storage"][2030].InitialSOC, 1e-9)
}

func TestLoadRejectsMissingValidForYears(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metadata:\n  name: x\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestYearsOrDefaultFallsBackToMetadata(t *testing.T) {
	b := &Bundle{Metadata: Metadata{ValidForYears: []int{2030, 2045}}}
	require.Equal(t, []int{2030, 2045}, b.YearsOrDefault(nil))
	require.Equal(t, []int{2099}, b.YearsOrDefault([]int{2099}))
}
