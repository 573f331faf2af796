package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/openaq"
	"github.com/aircast/aircast/internal/reading"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/synth"
)

// defaultSeriesHours is the window returned when the hours query parameter
// is omitted.
const defaultSeriesHours = 24

// ReadingHandler handles current, history, and forecast endpoints.
type ReadingHandler struct {
	stations  *station.Registry
	generator *synth.Generator
	overlay   *openaq.Service
}

// NewReadingHandler creates a new ReadingHandler. The overlay may be nil
// when ground station blending is disabled.
func NewReadingHandler(stations *station.Registry, generator *synth.Generator, overlay *openaq.Service) *ReadingHandler {
	return &ReadingHandler{
		stations:  stations,
		generator: generator,
		overlay:   overlay,
	}
}

// GetCurrent handles GET /v1/stations/{stationId}/current.
// Readings are pinned to the top of the current hour so repeated calls
// within the hour return identical values.
func (h *ReadingHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	st, ok := h.lookupStation(w, r)
	if !ok {
		return
	}

	rd, err := h.generator.GenerateReading(st, time.Now().UTC().Truncate(time.Hour))
	if err != nil {
		response.InternalError(w, r, "failed to generate reading")
		return
	}

	measured := false
	if h.overlay != nil {
		rd, measured = h.overlay.Overlay(r.Context(), rd)
	}

	model := toReadingModel(rd)
	model.Measured = measured
	response.JSON(w, r, http.StatusOK, model)
}

// GetHistory handles GET /v1/stations/{stationId}/history?hours=24.
func (h *ReadingHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	st, ok := h.lookupStation(w, r)
	if !ok {
		return
	}

	hours, ok := parseHours(w, r)
	if !ok {
		return
	}

	end := time.Now().UTC().Truncate(time.Hour)
	readings, err := h.generator.GenerateHistory(st, end, hours)
	if err != nil {
		writeSeriesError(w, r, err, h.generator.Config().MaxHistoryHours)
		return
	}

	response.JSON(w, r, http.StatusOK, toSeriesModel(st.ID, hours, readings))
}

// GetForecast handles GET /v1/stations/{stationId}/forecast?hours=24.
func (h *ReadingHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	st, ok := h.lookupStation(w, r)
	if !ok {
		return
	}

	hours, ok := parseHours(w, r)
	if !ok {
		return
	}

	start := time.Now().UTC().Truncate(time.Hour)
	readings, err := h.generator.GenerateForecast(st, start, hours)
	if err != nil {
		writeSeriesError(w, r, err, h.generator.Config().MaxForecastHours)
		return
	}

	response.JSON(w, r, http.StatusOK, toSeriesModel(st.ID, hours, readings))
}

func (h *ReadingHandler) lookupStation(w http.ResponseWriter, r *http.Request) (*station.Station, bool) {
	stationID := chi.URLParam(r, "stationId")

	st, err := h.stations.Get(stationID)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound) {
			response.NotFound(w, r, "station not found: "+stationID)
			return nil, false
		}
		response.InternalError(w, r, "failed to load station")
		return nil, false
	}
	return st, true
}

func parseHours(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("hours")
	if raw == "" {
		return defaultSeriesHours, true
	}

	hours, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(w, r, "hours must be an integer", []models.FieldError{
			{Field: "hours", Message: "must be an integer", Code: "INVALID_FORMAT"},
		})
		return 0, false
	}
	return hours, true
}

func writeSeriesError(w http.ResponseWriter, r *http.Request, err error, maxHours int) {
	if errors.Is(err, synth.ErrHorizonExceeded) {
		response.BadRequest(w, r, "hours out of range", []models.FieldError{
			{Field: "hours", Message: "must be between 1 and " + strconv.Itoa(maxHours), Code: "OUT_OF_RANGE"},
		})
		return
	}
	response.InternalError(w, r, "failed to generate readings")
}

func toReadingModel(rd *reading.Reading) models.Reading {
	pollutants := make(map[string]float64, len(rd.Pollutants))
	for species, value := range rd.Pollutants {
		pollutants[string(species)] = value
	}

	model := models.Reading{
		StationID:      rd.StationID,
		StationName:    rd.StationName,
		Lat:            rd.Lat,
		Lon:            rd.Lon,
		Timestamp:      models.Timestamp(rd.Timestamp),
		Pollutants:     pollutants,
		AQI:            rd.AQI,
		Category:       string(rd.Category),
		Dominant:       string(rd.Dominant),
		HealthAdvisory: reading.HealthAdvisory(rd.Category),
		Forecast:       rd.Forecast,
	}

	if len(rd.Bands) > 0 {
		model.Bands = make(map[string]models.Band, len(rd.Bands))
		for species, band := range rd.Bands {
			model.Bands[string(species)] = models.Band{Low: band.Low, High: band.High}
		}
	}

	return model
}

func toSeriesModel(stationID string, hours int, readings []*reading.Reading) models.ReadingSeries {
	series := models.ReadingSeries{
		StationID: stationID,
		Hours:     hours,
		Readings:  make([]models.Reading, 0, len(readings)),
	}
	for _, rd := range readings {
		series.Readings = append(series.Readings, toReadingModel(rd))
	}
	return series
}
