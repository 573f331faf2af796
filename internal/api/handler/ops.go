// Package handler provides HTTP handlers for the AirCast API.
package handler

import (
	"net/http"
	"time"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/provider/resilience"
	"github.com/aircast/aircast/internal/reading"
	"github.com/aircast/aircast/internal/station"
)

// OpsConfig holds the dependencies for the ops handler.
type OpsConfig struct {
	Version   string
	BuildTime string
	Stations  *station.Registry
	Readings  *reading.Service

	// ProviderHealth reports the OpenAQ circuit breaker state; nil when the
	// overlay is disabled.
	ProviderHealth func() *resilience.Health
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	cfg OpsConfig
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{cfg: cfg}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.cfg.Version,
			"buildTime": h.cfg.BuildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Stations == nil || h.cfg.Stations.Count() == 0 {
		response.ServiceUnavailable(w, r, "station registry is empty")
		return
	}

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem and provider status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       models.Timestamp(time.Now()),
		Subsystems: []models.SubsystemStatus{},
		Providers:  []models.ProviderStatus{},
	}

	if h.cfg.Readings != nil {
		archive := models.SubsystemStatus{Name: "reading-archive", Status: models.HealthStatusOK}
		if _, err := h.cfg.Readings.Size(r.Context()); err != nil {
			archive.Status = models.HealthStatusFail
			archive.Detail = "archive unreachable"
			status.Status = models.HealthStatusDegraded
		}
		status.Subsystems = append(status.Subsystems, archive)
	}

	if h.cfg.ProviderHealth != nil {
		if health := h.cfg.ProviderHealth(); health != nil {
			provider := models.ProviderStatus{
				Provider:     health.Name,
				Status:       models.HealthStatusOK,
				CircuitState: health.State,
			}
			if !health.Healthy() {
				provider.Status = models.HealthStatusDegraded
				status.Status = models.HealthStatusDegraded
			}
			status.Providers = append(status.Providers, provider)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
