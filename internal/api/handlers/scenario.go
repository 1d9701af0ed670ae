package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"energiesystem-sim/internal/api/models"
	"energiesystem-sim/internal/data"
	"energiesystem-sim/internal/engine"
	"energiesystem-sim/internal/kpi"
	"energiesystem-sim/internal/scenario"

	"github.com/gin-gonic/gin"
)

// ScenarioHandler handles scenario-run and scenario-result requests. It
// keeps the last run's results in memory, keyed by scenario name, so that
// the results and stream endpoints can be served without re-running.
type ScenarioHandler struct {
	runs map[string]map[int]*engine.YearResult
}

// NewScenarioHandler creates a new scenario handler.
func NewScenarioHandler() *ScenarioHandler {
	return &ScenarioHandler{runs: make(map[string]map[int]*engine.YearResult)}
}

// RunScenario handles POST /api/v1/scenarios/run
func (h *ScenarioHandler) RunScenario(c *gin.Context) {
	var req models.ScenarioRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	bundle, err := loadBundle(req.ScenarioPath, req.ScenarioYAML)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_SCENARIO", Message: err.Error()},
		})
		return
	}

	provider, err := data.NewProvider(req.DataDir)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "DATA_PROVIDER_ERROR", Message: err.Error()},
		})
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = "reference"
	}
	kernel := engine.New(engine.Mode(mode))

	results, failures := engine.RunScenario(c.Request.Context(), bundle, provider, kernel, req.Years, req.IncludeLegacyColumns)
	h.runs[bundle.Metadata.Name] = results

	resp := models.ScenarioRunResponse{
		ScenarioName: bundle.Metadata.Name,
		Years:        make(map[string]models.YearSummary, len(results)),
		Failed:       make(map[string]string, len(failures)),
	}
	for year, res := range results {
		resp.Years[strconv.Itoa(year)] = summarize(res)
	}
	for year, failErr := range failures {
		resp.Failed[strconv.Itoa(year)] = failErr.Error()
	}

	c.JSON(http.StatusOK, resp)
}

// GetYearResult handles GET /api/v1/scenarios/:name/results/:year
func (h *ScenarioHandler) GetYearResult(c *gin.Context) {
	name := c.Param("name")
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_YEAR", Message: err.Error()},
		})
		return
	}

	results, ok := h.runs[name]
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "SCENARIO_NOT_FOUND", Message: fmt.Sprintf("no run found for scenario %q", name)},
		})
		return
	}
	res, ok := results[year]
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "YEAR_NOT_FOUND", Message: fmt.Sprintf("no result for year %d", year)},
		})
		return
	}

	timestamps := make([]string, res.Timeline.Len())
	for i, s := range res.Timeline.Samples {
		timestamps[i] = s.T.Format("2006-01-02T15:04:05Z07:00")
	}

	detail := models.YearResultDetail{
		Year:       year,
		Timestamps: timestamps,
		ConsumptionMWh: map[string][]float64{
			"Haushalte":      res.Consumption.Haushalte,
			"Gewerbe":        res.Consumption.Gewerbe,
			"Landwirtschaft": res.Consumption.Landwirtschaft,
			"Waermepumpen":   res.Consumption.Waermepumpen,
			"EMobility":      res.Consumption.EMobility,
			"Gesamt":         res.Consumption.Gesamt,
		},
		ProductionMWh: res.Production.Columns,
		BalancePostFlex: models.BalanceView{
			Produktion: res.BalancePostFlex.Produktion,
			Verbrauch:  res.BalancePostFlex.Verbrauch,
			Bilanz:     res.BalancePostFlex.Bilanz,
			RestBilanz: res.BalancePostFlex.RestBilanz,
		},
	}

	c.JSON(http.StatusOK, detail)
}

// ValidateScenario handles POST /api/v1/scenarios/validate
func ValidateScenario(c *gin.Context) {
	var req models.ScenarioValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	bundle, err := loadBundle(req.ScenarioPath, req.ScenarioYAML)
	if err != nil {
		c.JSON(http.StatusOK, models.ScenarioValidateResponse{Valid: false})
		return
	}

	sectors := make([]string, 0, len(bundle.TargetLoadDemandTWh))
	for s := range bundle.TargetLoadDemandTWh {
		sectors = append(sectors, s)
	}
	storageTypes := make([]string, 0, len(bundle.TargetStorageCapacities))
	for s := range bundle.TargetStorageCapacities {
		storageTypes = append(storageTypes, s)
	}

	c.JSON(http.StatusOK, models.ScenarioValidateResponse{
		Valid:         true,
		ScenarioName:  bundle.Metadata.Name,
		ValidForYears: bundle.Metadata.ValidForYears,
		Sectors:       sectors,
		StorageTypes:  storageTypes,
	})
}

// loadBundle loads a scenario from an inline YAML string or, failing that,
// from a file path already visible to the API process.
func loadBundle(path, inline string) (*scenario.Bundle, error) {
	if strings.TrimSpace(inline) != "" {
		tmp, err := os.CreateTemp("", "scenario-*.yaml")
		if err != nil {
			return nil, err
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.WriteString(inline); err != nil {
			tmp.Close()
			return nil, err
		}
		tmp.Close()
		return scenario.Load(tmp.Name())
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("scenario_path or scenario_yaml is required")
	}
	return scenario.Load(path)
}

func summarize(res *engine.YearResult) models.YearSummary {
	var totalConsumption, totalProduction, netBalance float64
	for _, v := range res.Consumption.Gesamt {
		totalConsumption += v
	}
	byTech := make(map[string]float64, len(res.Production.Columns))
	for tech, col := range res.Production.Columns {
		var sum float64
		for _, v := range col {
			sum += v
		}
		byTech[tech] = sum
		totalProduction += sum
	}
	for _, v := range res.BalancePostFlex.RestBilanz {
		netBalance += v
	}

	return models.YearSummary{
		Year:                  res.Year,
		IntervalCount:         res.Timeline.Len(),
		TotalConsumptionMWh:   totalConsumption,
		TotalProductionMWh:    totalProduction,
		NetBalancePostFlexMWh: netBalance,
		LCOECtPerKWh:          res.Economics.LCOECtPerKWh,
		TotalAnnualCostEUR:    res.Economics.TotalAnnualEUR,
		ByTechnology:          byTech,
		Scorecard: models.ScorecardView{
			Overall:  res.Scorecard.Overall,
			Security: categoryView(res.Scorecard.Security),
			Ecology:  categoryView(res.Scorecard.Ecology),
			Economy:  categoryView(res.Scorecard.Economy),
		},
	}
}

func categoryView(cs kpi.CategoryScore) models.CategoryScoreView {
	return models.CategoryScoreView{Score: cs.Score, KPIs: cs.KPIs}
}
