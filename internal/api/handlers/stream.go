package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"energiesystem-sim/internal/data"
	"energiesystem-sim/internal/engine"
	"energiesystem-sim/internal/scenario"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var streamUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// progressMessage is one event pushed over a /stream connection: either a
// completed year's summary or a run-level failure/done marker.
type progressMessage struct {
	Type    string      `json:"type"` // "year_complete", "year_failed", "done"
	Year    int         `json:"year,omitempty"`
	Error   string      `json:"error,omitempty"`
	Summary interface{} `json:"summary,omitempty"`
}

// StreamScenarioRun handles GET /api/v1/scenarios/stream and runs a scenario
// over a websocket connection, pushing one message per completed year as
// soon as it finishes rather than waiting for the whole run.
func StreamScenarioRun(c *gin.Context) {
	scenarioPath := c.Query("scenario_path")
	dataDir := c.Query("data_dir")
	mode := c.Query("mode")
	if mode == "" {
		mode = "reference"
	}
	years := parseYearsQuery(c.Query("years"))
	includeLegacyColumns := c.Query("include_legacy_columns") == "true"

	if scenarioPath == "" || dataDir == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scenario_path and data_dir query parameters are required"})
		return
	}

	conn, err := streamUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	bundle, err := scenario.Load(scenarioPath)
	if err != nil {
		sendJSON(conn, progressMessage{Type: "year_failed", Error: err.Error()})
		return
	}
	provider, err := data.NewProvider(dataDir)
	if err != nil {
		sendJSON(conn, progressMessage{Type: "year_failed", Error: err.Error()})
		return
	}
	kernel := engine.New(engine.Mode(mode))

	targetYears := bundle.YearsOrDefault(years)
	for _, year := range targetYears {
		results, failures := engine.RunScenario(context.Background(), bundle, provider, kernel, []int{year}, includeLegacyColumns)
		if res, ok := results[year]; ok {
			summary := summarize(res)
			if err := conn.WriteJSON(progressMessage{Type: "year_complete", Year: year, Summary: summary}); err != nil {
				return
			}
			continue
		}
		if failErr, ok := failures[year]; ok {
			if err := conn.WriteJSON(progressMessage{Type: "year_failed", Year: year, Error: failErr.Error()}); err != nil {
				return
			}
		}
	}
	sendJSON(conn, progressMessage{Type: "done"})
}

func sendJSON(conn *websocket.Conn, msg progressMessage) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, raw)
}

func parseYearsQuery(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		if y, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			out = append(out, y)
		}
	}
	return out
}
