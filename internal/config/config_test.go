package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"energiesystem-sim/internal/engine"
)

func TestMergeOverridesOnlyNonZeroFields(t *testing.T) {
	base := EngineConfig{
		CalculationMode: string(engine.ModeReference),
		BaseYear:        2025,
		DataDir:         "./data",
		OutputDir:       "./out",
		ScenarioFile:    "scenario.yaml",
	}
	override := EngineConfig{BaseYear: 2030}

	merged := base.Merge(override)

	require.Equal(t, string(engine.ModeReference), merged.CalculationMode)
	require.Equal(t, 2030, merged.BaseYear)
	require.Equal(t, "./data", merged.DataDir)
	require.Equal(t, "scenario.yaml", merged.ScenarioFile)
}

func TestValidateRejectsUnknownCalculationMode(t *testing.T) {
	c := &EngineConfig{CalculationMode: "bogus", DataDir: "./data", ScenarioFile: "s.yaml"}
	require.Error(t, c.Validate())
}

func TestValidateRequiresDataDirAndScenarioFile(t *testing.T) {
	c := &EngineConfig{CalculationMode: string(engine.ModeReference)}
	require.Error(t, c.Validate())
}
