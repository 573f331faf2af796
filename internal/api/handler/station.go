package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/station"
)

// DistrictName is the district the built-in station set covers.
const DistrictName = "Ernakulam"

// StationHandler handles station metadata endpoints.
type StationHandler struct {
	stations *station.Registry
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(stations *station.Registry) *StationHandler {
	return &StationHandler{stations: stations}
}

// ListStations handles GET /v1/stations.
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	all := h.stations.List()

	list := models.StationList{
		District: DistrictName,
		Count:    len(all),
		Stations: make([]models.Station, 0, len(all)),
	}
	for i := range all {
		list.Stations = append(list.Stations, toStationModel(&all[i]))
	}

	response.JSON(w, r, http.StatusOK, list)
}

// GetStation handles GET /v1/stations/{stationId}.
func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	stationID := chi.URLParam(r, "stationId")

	st, err := h.stations.Get(stationID)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			response.NotFound(w, r, "station not found: "+stationID)
			return
		}
		response.InternalError(w, r, "failed to load station")
		return
	}

	response.JSON(w, r, http.StatusOK, toStationModel(st))
}

func toStationModel(st *station.Station) models.Station {
	return models.Station{
		ID:       st.ID,
		Name:     st.Name,
		Lat:      st.Lat,
		Lon:      st.Lon,
		Locality: st.Locality,
		Type:     string(st.Type),
	}
}
