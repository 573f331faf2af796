package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aircast/aircast/internal/alert"
	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/openaq"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/synth"
)

// AlertHandler handles alert subscription endpoints.
type AlertHandler struct {
	alerts    *alert.Service
	stations  *station.Registry
	generator *synth.Generator
	overlay   *openaq.Service
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alerts *alert.Service, stations *station.Registry, generator *synth.Generator, overlay *openaq.Service) *AlertHandler {
	return &AlertHandler{
		alerts:    alerts,
		stations:  stations,
		generator: generator,
		overlay:   overlay,
	}
}

// ListSubscriptions handles GET /v1/alerts/subscriptions?stationId=EKM001.
func (h *AlertHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	stationID := r.URL.Query().Get("stationId")

	subs, err := h.alerts.List(r.Context(), stationID)
	if err != nil {
		if errors.Is(err, alert.ErrUnknownStation) {
			response.BadRequest(w, r, "unknown station: "+stationID, []models.FieldError{
				{Field: "stationId", Message: "unknown station", Code: "UNKNOWN_STATION"},
			})
			return
		}
		response.InternalError(w, r, "failed to list subscriptions")
		return
	}

	list := models.AlertSubscriptionList{Items: make([]models.AlertSubscription, 0, len(subs))}
	for _, sub := range subs {
		list.Items = append(list.Items, toSubscriptionModel(sub))
	}
	response.JSON(w, r, http.StatusOK, list)
}

// CreateSubscription handles POST /v1/alerts/subscriptions.
func (h *AlertHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var input models.AlertSubscriptionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	sub, err := h.alerts.Create(r.Context(), alert.CreateInput{
		StationID: input.StationID,
		Species:   toSpeciesPtr(input.Species),
		Threshold: input.Threshold,
		Label:     input.Label,
	})
	if err != nil {
		writeAlertError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/alerts/subscriptions/"+sub.ID, toSubscriptionModel(sub))
}

// GetSubscription handles GET /v1/alerts/subscriptions/{subscriptionId}.
func (h *AlertHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.alerts.Get(r.Context(), chi.URLParam(r, "subscriptionId"))
	if err != nil {
		writeAlertError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toSubscriptionModel(sub))
}

// UpdateSubscription handles PUT /v1/alerts/subscriptions/{subscriptionId}.
func (h *AlertHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	var input models.AlertSubscriptionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	sub, err := h.alerts.Update(r.Context(), chi.URLParam(r, "subscriptionId"), alert.UpdateInput{
		Threshold: input.Threshold,
		Label:     input.Label,
	})
	if err != nil {
		writeAlertError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toSubscriptionModel(sub))
}

// DeleteSubscription handles DELETE /v1/alerts/subscriptions/{subscriptionId}.
func (h *AlertHandler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	if err := h.alerts.Delete(r.Context(), chi.URLParam(r, "subscriptionId")); err != nil {
		writeAlertError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

// PreviewAlert handles POST /v1/alerts/preview. It evaluates the station's
// current reading against a hypothetical threshold without persisting a
// subscription.
func (h *AlertHandler) PreviewAlert(w http.ResponseWriter, r *http.Request) {
	var input models.AlertPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	st, err := h.stations.Get(input.StationID)
	if err != nil {
		response.BadRequest(w, r, "unknown station: "+input.StationID, []models.FieldError{
			{Field: "stationId", Message: "unknown station", Code: "UNKNOWN_STATION"},
		})
		return
	}

	rd, err := h.generator.GenerateReading(st, time.Now().UTC().Truncate(time.Hour))
	if err != nil {
		response.InternalError(w, r, "failed to generate reading")
		return
	}
	if h.overlay != nil {
		rd, _ = h.overlay.Overlay(r.Context(), rd)
	}

	triggered, err := h.alerts.Preview(alert.CreateInput{
		StationID: input.StationID,
		Species:   toSpeciesPtr(input.Species),
		Threshold: input.Threshold,
	}, rd)
	if err != nil {
		writeAlertError(w, r, err)
		return
	}

	preview := models.AlertPreview{Triggered: triggered != nil}
	if triggered != nil {
		a := toAlertModel(triggered)
		preview.Alert = &a
	}
	response.JSON(w, r, http.StatusOK, preview)
}

func writeAlertError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, alert.ErrSubscriptionNotFound):
		response.NotFound(w, r, "subscription not found")
	case errors.Is(err, alert.ErrUnknownStation):
		response.BadRequest(w, r, "unknown station", []models.FieldError{
			{Field: "stationId", Message: "unknown station", Code: "UNKNOWN_STATION"},
		})
	case errors.Is(err, alert.ErrUnknownSpecies):
		response.BadRequest(w, r, "unknown pollutant species", []models.FieldError{
			{Field: "species", Message: "unknown pollutant species", Code: "UNKNOWN_SPECIES"},
		})
	case errors.Is(err, alert.ErrInvalidThreshold):
		response.BadRequest(w, r, "threshold must be positive", []models.FieldError{
			{Field: "threshold", Message: "must be positive", Code: "OUT_OF_RANGE"},
		})
	default:
		response.InternalError(w, r, "alert operation failed")
	}
}

func toSpeciesPtr(s *string) *aqi.Species {
	if s == nil {
		return nil
	}
	species := aqi.Species(*s)
	return &species
}

func toStringPtr(s *aqi.Species) *string {
	if s == nil {
		return nil
	}
	str := string(*s)
	return &str
}

func toSubscriptionModel(sub *alert.Subscription) models.AlertSubscription {
	return models.AlertSubscription{
		ID:        sub.ID,
		StationID: sub.StationID,
		Species:   toStringPtr(sub.Species),
		Threshold: sub.Threshold,
		Label:     sub.Label,
		CreatedAt: models.Timestamp(sub.CreatedAt),
		UpdatedAt: models.Timestamp(sub.UpdatedAt),
	}
}

func toAlertModel(a *alert.Alert) models.Alert {
	return models.Alert{
		SubscriptionID: a.SubscriptionID,
		StationID:      a.StationID,
		StationName:    a.StationName,
		Species:        toStringPtr(a.Species),
		Value:          a.Value,
		Threshold:      a.Threshold,
		Category:       string(a.Category),
		Severity:       string(a.Severity),
		Message:        a.Message,
		TriggeredAt:    models.Timestamp(a.TriggeredAt),
	}
}
