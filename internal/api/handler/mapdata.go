package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/mapdata"
)

// MapHandler handles the gridded map data endpoints.
type MapHandler struct {
	maps *mapdata.Service
}

// NewMapHandler creates a new MapHandler.
func NewMapHandler(maps *mapdata.Service) *MapHandler {
	return &MapHandler{maps: maps}
}

// GetGrid handles GET /v1/map. Bounds default to the district bounding box
// when none of the boundary parameters are supplied.
func (h *MapHandler) GetGrid(w http.ResponseWriter, r *http.Request) {
	bounds, resolution, param, ok := h.parseGridQuery(w, r)
	if !ok {
		return
	}

	grid, err := h.maps.Grid(r.Context(), bounds, resolution, param)
	if err != nil {
		writeMapError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toGridModel(grid))
}

// GetHeatmap handles GET /v1/map/heatmap.
func (h *MapHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	bounds, resolution, param, ok := h.parseGridQuery(w, r)
	if !ok {
		return
	}

	hm, err := h.maps.Heatmap(r.Context(), bounds, resolution, param)
	if err != nil {
		writeMapError(w, r, err)
		return
	}

	model := models.Heatmap{
		MapGrid: toGridModel(&hm.Grid),
		ColorScale: models.ColorScale{
			Type:       hm.ColorScale.Type,
			Colors:     hm.ColorScale.Colors,
			Thresholds: hm.ColorScale.Thresholds,
			Range:      hm.ColorScale.Range,
		},
	}
	response.JSON(w, r, http.StatusOK, model)
}

// GetContours handles GET /v1/map/contours. Levels are passed as repeated
// `level` parameters and default to the AQI category boundaries.
func (h *MapHandler) GetContours(w http.ResponseWriter, r *http.Request) {
	bounds, _, param, ok := h.parseGridQuery(w, r)
	if !ok {
		return
	}

	var levels []float64
	for _, raw := range r.URL.Query()["level"] {
		level, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.BadRequest(w, r, "invalid contour level", []models.FieldError{
				{Field: "level", Message: "must be a number"},
			})
			return
		}
		levels = append(levels, level)
	}

	set, err := h.maps.Contours(r.Context(), bounds, param, levels)
	if err != nil {
		writeMapError(w, r, err)
		return
	}

	model := models.ContourSet{
		Bounds:    toBoundsModel(set.Bounds),
		Parameter: string(set.Parameter),
		Levels:    set.Levels,
		Timestamp: models.Timestamp(set.Timestamp),
		Contours:  make([]models.Contour, 0, len(set.Contours)),
	}
	for _, c := range set.Contours {
		contour := models.Contour{
			Level:  c.Level,
			Color:  c.Color,
			Points: make([]models.ContourPoint, 0, len(c.Points)),
		}
		for _, p := range c.Points {
			contour.Points = append(contour.Points, models.ContourPoint{Lat: p.Lat, Lon: p.Lon})
		}
		model.Contours = append(model.Contours, contour)
	}

	response.JSON(w, r, http.StatusOK, model)
}

// parseGridQuery reads bounds, resolution, and parameter from the query.
// Boundary parameters are all-or-none.
func (h *MapHandler) parseGridQuery(w http.ResponseWriter, r *http.Request) (mapdata.Bounds, float64, mapdata.Parameter, bool) {
	query := r.URL.Query()

	param, err := mapdata.ParseParameter(query.Get("parameter"))
	if err != nil {
		response.BadRequest(w, r, "invalid map parameter", []models.FieldError{
			{Field: "parameter", Message: "must be AQI or a pollutant species code"},
		})
		return mapdata.Bounds{}, 0, "", false
	}

	resolution := 0.0
	if raw := query.Get("resolution"); raw != "" {
		resolution, err = strconv.ParseFloat(raw, 64)
		if err != nil || resolution <= 0 {
			response.BadRequest(w, r, "invalid resolution", []models.FieldError{
				{Field: "resolution", Message: "must be a positive number of degrees"},
			})
			return mapdata.Bounds{}, 0, "", false
		}
	}

	keys := []string{"north", "south", "east", "west"}
	supplied := 0
	for _, key := range keys {
		if query.Get(key) != "" {
			supplied++
		}
	}

	if supplied == 0 {
		return h.maps.DistrictBounds(), resolution, param, true
	}
	if supplied < len(keys) {
		response.BadRequest(w, r, "incomplete bounds", []models.FieldError{
			{Field: "bounds", Message: "north, south, east, and west must all be supplied"},
		})
		return mapdata.Bounds{}, 0, "", false
	}

	values := make(map[string]float64, len(keys))
	for _, key := range keys {
		v, err := strconv.ParseFloat(query.Get(key), 64)
		if err != nil {
			response.BadRequest(w, r, "invalid bounds", []models.FieldError{
				{Field: key, Message: "must be a decimal degree value"},
			})
			return mapdata.Bounds{}, 0, "", false
		}
		values[key] = v
	}

	bounds := mapdata.Bounds{
		North: values["north"],
		South: values["south"],
		East:  values["east"],
		West:  values["west"],
	}
	return bounds, resolution, param, true
}

func writeMapError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, mapdata.ErrInvalidBounds):
		response.BadRequest(w, r, "invalid bounds", []models.FieldError{
			{Field: "bounds", Message: "south must be below north and west must be below east"},
		})
	case errors.Is(err, mapdata.ErrInvalidResolution):
		response.BadRequest(w, r, "invalid resolution", []models.FieldError{
			{Field: "resolution", Message: "must be a positive number of degrees"},
		})
	case errors.Is(err, mapdata.ErrGridTooLarge):
		response.BadRequest(w, r, "grid too large", []models.FieldError{
			{Field: "resolution", Message: "bounds and resolution produce too many grid points"},
		})
	default:
		response.InternalError(w, r, "failed to generate map data")
	}
}

func toGridModel(grid *mapdata.Grid) models.MapGrid {
	model := models.MapGrid{
		Bounds:     toBoundsModel(grid.Bounds),
		Resolution: grid.Resolution,
		Parameter:  string(grid.Parameter),
		Timestamp:  models.Timestamp(grid.Timestamp),
		Points:     make([]models.MapGridPoint, 0, len(grid.Points)),
	}
	for _, p := range grid.Points {
		model.Points = append(model.Points, models.MapGridPoint{
			Lat:        p.Lat,
			Lon:        p.Lon,
			Value:      p.Value,
			Confidence: p.Confidence,
		})
	}
	return model
}

func toBoundsModel(b mapdata.Bounds) models.MapBounds {
	return models.MapBounds{North: b.North, South: b.South, East: b.East, West: b.West}
}
