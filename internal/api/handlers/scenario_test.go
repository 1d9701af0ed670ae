package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"energiesystem-sim/internal/api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const minimalScenarioYAML = `
metadata:
  name: "handler test scenario"
  valid_for_years: [2030]
target_load_demand_twh:
  Haushalt_Basis:
    2030: 120.5
    load_profile: H25
`

func init() {
	gin.SetMode(gin.TestMode)
}

func TestValidateScenarioAcceptsInlineYAML(t *testing.T) {
	router := gin.New()
	router.POST("/validate", ValidateScenario)

	body, err := json.Marshal(models.ScenarioValidateRequest{ScenarioYAML: minimalScenarioYAML})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ScenarioValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Valid)
	require.Equal(t, "handler test scenario", resp.ScenarioName)
	require.Equal(t, []int{2030}, resp.ValidForYears)
}

func TestValidateScenarioRejectsEmptyRequest(t *testing.T) {
	router := gin.New()
	router.POST("/validate", ValidateScenario)

	body, err := json.Marshal(models.ScenarioValidateRequest{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ScenarioValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Valid)
}

func TestGetYearResultReturnsNotFoundForUnknownScenario(t *testing.T) {
	h := NewScenarioHandler()
	router := gin.New()
	router.GET("/scenarios/:name/results/:year", h.GetYearResult)

	req := httptest.NewRequest(http.MethodGet, "/scenarios/unknown/results/2030", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
