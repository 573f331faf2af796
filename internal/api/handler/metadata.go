package handler

import (
	"net/http"

	"github.com/aircast/aircast/internal/alert"
	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/station"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// GetEnums handles GET /v1/metadata/enums - supported enum values.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		Species:       make([]models.SpeciesInfo, 0, len(aqi.AllSpecies())),
		Categories:    make([]string, 0, len(aqi.AllCategories())),
		LocationTypes: make([]string, 0, len(station.AllLocationTypes())),
		Severities: []string{
			string(alert.SeverityInfo),
			string(alert.SeverityWarning),
			string(alert.SeveritySevere),
		},
	}

	for _, species := range aqi.AllSpecies() {
		enums.Species = append(enums.Species, models.SpeciesInfo{
			Code: string(species),
			Unit: species.Unit(),
		})
	}
	for _, category := range aqi.AllCategories() {
		enums.Categories = append(enums.Categories, string(category))
	}
	for _, locationType := range station.AllLocationTypes() {
		enums.LocationTypes = append(enums.LocationTypes, string(locationType))
	}

	response.JSON(w, r, http.StatusOK, enums)
}
