package handlers

import (
	"net/http"

	"energiesystem-sim/internal/api/models"
	"energiesystem-sim/internal/data"

	"github.com/gin-gonic/gin"
)

// ListDatasets handles GET /api/v1/datasets, optionally filtered by
// ?kind=generation|capacity|temperature|bdew|heatpump.
func ListDatasets(c *gin.Context) {
	cataloguePath := c.Query("catalogue")
	if cataloguePath == "" {
		cataloguePath = data.GetDefaultCataloguePath()
	}

	catalogue, err := data.LoadCatalogue(cataloguePath)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"datasets": []models.DatasetInfo{}, "count": 0})
		return
	}

	kind := c.Query("kind")
	datasets := make([]models.DatasetInfo, 0, len(catalogue.Datasets))
	for _, ds := range catalogue.Datasets {
		if kind != "" && ds.Kind != kind {
			continue
		}
		datasets = append(datasets, models.DatasetInfo{ID: ds.ID, Kind: ds.Kind, Path: ds.Path, Years: ds.Years})
	}

	c.JSON(http.StatusOK, gin.H{
		"datasets":   datasets,
		"updated_at": catalogue.UpdatedAt,
		"count":      len(datasets),
	})
}
