package handler

import (
	"math"
	"net/http"
	"time"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/openaq"
	"github.com/aircast/aircast/internal/reading"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/synth"
)

// SummaryHandler handles the district summary endpoint.
type SummaryHandler struct {
	stations  *station.Registry
	generator *synth.Generator
	overlay   *openaq.Service
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(stations *station.Registry, generator *synth.Generator, overlay *openaq.Service) *SummaryHandler {
	return &SummaryHandler{
		stations:  stations,
		generator: generator,
		overlay:   overlay,
	}
}

// GetSummary handles GET /v1/summary. It aggregates the current readings of
// every station into district-wide averages and picks the worst and best
// locations by AQI.
func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	all := h.stations.List()
	if len(all) == 0 {
		response.ServiceUnavailable(w, r, "no stations configured")
		return
	}

	now := time.Now().UTC().Truncate(time.Hour)
	readings := make([]*reading.Reading, 0, len(all))
	for i := range all {
		rd, err := h.generator.GenerateReading(&all[i], now)
		if err != nil {
			response.InternalError(w, r, "failed to generate readings")
			return
		}
		if h.overlay != nil {
			rd, _ = h.overlay.Overlay(r.Context(), rd)
		}
		readings = append(readings, rd)
	}

	totalAQI := 0
	sums := make(map[aqi.Species]float64)
	counts := make(map[aqi.Species]int)
	worst, best := readings[0], readings[0]

	for _, rd := range readings {
		totalAQI += rd.AQI
		for species, value := range rd.Pollutants {
			sums[species] += value
			counts[species]++
		}
		if rd.AQI > worst.AQI {
			worst = rd
		}
		if rd.AQI < best.AQI {
			best = rd
		}
	}

	avgAQI := totalAQI / len(readings)
	category := aqi.CategoryForIndex(avgAQI)

	averages := make(map[string]float64, len(sums))
	for species, sum := range sums {
		averages[string(species)] = math.Round(sum/float64(counts[species])*100) / 100
	}

	summary := models.Summary{
		District:       DistrictName,
		Timestamp:      models.Timestamp(now),
		OverallAQI:     avgAQI,
		Category:       string(category),
		HealthAdvisory: reading.HealthAdvisory(category),
		Averages:       averages,
		WorstLocation:  toSummaryStation(worst),
		BestLocation:   toSummaryStation(best),
	}

	response.JSON(w, r, http.StatusOK, summary)
}

func toSummaryStation(rd *reading.Reading) models.SummaryStation {
	return models.SummaryStation{
		StationID: rd.StationID,
		Name:      rd.StationName,
		AQI:       rd.AQI,
		Category:  string(rd.Category),
	}
}
