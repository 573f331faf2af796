// Package api provides the HTTP API for AirCast.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/alert"
	"github.com/aircast/aircast/internal/api/handler"
	"github.com/aircast/aircast/internal/api/middleware"
	"github.com/aircast/aircast/internal/mapdata"
	"github.com/aircast/aircast/internal/openaq"
	"github.com/aircast/aircast/internal/provider/resilience"
	"github.com/aircast/aircast/internal/reading"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/synth"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Stations  *station.Registry
	Generator *synth.Generator
	Readings  *reading.Service
	Alerts    *alert.Service
	Maps      *mapdata.Service

	// Overlay blends ground station data into generated readings; nil
	// disables the overlay.
	Overlay *openaq.Service

	// ProviderHealth reports the OpenAQ circuit breaker state for the status
	// endpoint; nil when the overlay is disabled.
	ProviderHealth func() *resilience.Health
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "aircast-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS)
	r.Use(middleware.RequireJSON)
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:        cfg.Version,
		BuildTime:      cfg.BuildTime,
		Stations:       cfg.Stations,
		Readings:       cfg.Readings,
		ProviderHealth: cfg.ProviderHealth,
	})
	stationHandler := handler.NewStationHandler(cfg.Stations)
	readingHandler := handler.NewReadingHandler(cfg.Stations, cfg.Generator, cfg.Overlay)
	summaryHandler := handler.NewSummaryHandler(cfg.Stations, cfg.Generator, cfg.Overlay)
	alertHandler := handler.NewAlertHandler(cfg.Alerts, cfg.Stations, cfg.Generator, cfg.Overlay)
	mapHandler := handler.NewMapHandler(cfg.Maps)
	metadataHandler := handler.NewMetadataHandler()

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit)
	writeRateLimit := middleware.RateLimitByIP(middleware.WriteRateLimit)

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (no rate limiting, used by orchestrators)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Station metadata and readings
		r.Route("/stations", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", stationHandler.ListStations)
			r.Route("/{stationId}", func(r chi.Router) {
				r.With(standardRateLimit).Get("/", stationHandler.GetStation)
				r.With(standardRateLimit).Get("/current", readingHandler.GetCurrent)
				r.With(expensiveRateLimit).Get("/history", readingHandler.GetHistory)
				r.With(expensiveRateLimit).Get("/forecast", readingHandler.GetForecast)
			})
		})

		// District summary - generates a reading per station
		r.With(expensiveRateLimit).Get("/summary", summaryHandler.GetSummary)

		// Gridded map data - interpolates a field over the whole district
		r.Route("/map", func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Get("/", mapHandler.GetGrid)
			r.Get("/heatmap", mapHandler.GetHeatmap)
			r.Get("/contours", mapHandler.GetContours)
		})

		// Metadata
		r.With(standardRateLimit).Get("/metadata/enums", metadataHandler.GetEnums)

		// Alert subscriptions
		r.Route("/alerts", func(r chi.Router) {
			r.Route("/subscriptions", func(r chi.Router) {
				r.With(standardRateLimit).Get("/", alertHandler.ListSubscriptions)
				r.With(writeRateLimit).Post("/", alertHandler.CreateSubscription)
				r.Route("/{subscriptionId}", func(r chi.Router) {
					r.With(standardRateLimit).Get("/", alertHandler.GetSubscription)
					r.With(writeRateLimit).Put("/", alertHandler.UpdateSubscription)
					r.With(writeRateLimit).Delete("/", alertHandler.DeleteSubscription)
				})
			})
			r.With(standardRateLimit).Post("/preview", alertHandler.PreviewAlert)
		})
	})

	return r
}
