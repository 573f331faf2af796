// Package main provides the entrypoint for the Aircast API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/alert"
	"github.com/aircast/aircast/internal/api"
	"github.com/aircast/aircast/internal/api/middleware"
	"github.com/aircast/aircast/internal/database"
	"github.com/aircast/aircast/internal/mapdata"
	"github.com/aircast/aircast/internal/openaq"
	"github.com/aircast/aircast/internal/provider/resilience"
	"github.com/aircast/aircast/internal/reading"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/synth"
	"github.com/aircast/aircast/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aircast-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Aircast API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryConfig := telemetry.ConfigFromEnv(serviceName, Version)

	tp, err := telemetry.Init(ctx, telemetryConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer tp.Close(log)

	if telemetryConfig.Enabled {
		log.Info().
			Str("otlp_endpoint", telemetryConfig.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Station registry and the deterministic reading generator
	stations := station.DefaultRegistry()

	generator, err := synth.NewGenerator(synth.DefaultConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create reading generator")
	}

	// Reading archive and alert subscriptions live in Postgres when a
	// database is configured, otherwise in memory.
	var readingRepo reading.Repository
	var alertRepo alert.Repository

	if os.Getenv("DB_HOST") != "" {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")

		readingRepo = reading.NewPostgresRepository(pool)
		alertRepo = alert.NewPostgresRepository(pool)
	} else {
		log.Info().Msg("DB_HOST not set, using in-memory repositories")
		readingRepo = reading.NewInMemoryRepository()
		alertRepo = alert.NewInMemoryRepository()
	}

	readings := reading.NewService(reading.ServiceConfig{
		Repository: readingRepo,
		Logger:     log,
	})

	alerts := alert.NewService(alert.ServiceConfig{
		Repository: alertRepo,
		Stations:   stations,
		Logger:     log,
	})

	// OpenAQ overlay is opt-in
	var overlay *openaq.Service
	var providerHealth func() *resilience.Health

	if os.Getenv("OPENAQ_ENABLED") == "true" {
		client := openaq.NewClient(openaq.ClientConfig{
			BaseURL: os.Getenv("OPENAQ_BASE_URL"),
		})
		overlay = openaq.NewService(openaq.ServiceConfig{
			Fetcher: client,
			Logger:  log,
		})
		providerHealth = client.Health
		log.Info().Msg("OpenAQ overlay enabled")
	}

	maps, err := mapdata.NewService(mapdata.ServiceConfig{
		Stations:  stations,
		Generator: generator,
		Overlay:   overlay,
		Logger:    log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create map data service")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		Stations:       stations,
		Generator:      generator,
		Readings:       readings,
		Alerts:         alerts,
		Maps:           maps,
		Overlay:        overlay,
		ProviderHealth: providerHealth,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
