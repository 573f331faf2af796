// Package main provides the entrypoint for the Aircast refresh worker.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/alert"
	"github.com/aircast/aircast/internal/database"
	"github.com/aircast/aircast/internal/openaq"
	"github.com/aircast/aircast/internal/reading"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/synth"
	"github.com/aircast/aircast/internal/telemetry"
	"github.com/aircast/aircast/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aircast-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Aircast worker")

	// Worker also exposes a health endpoint for the orchestrator
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.ConfigFromEnv(serviceName, Version))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer tp.Close(log)

	stations := station.DefaultRegistry()

	generator, err := synth.NewGenerator(synth.DefaultConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create reading generator")
	}

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

	var overlay *openaq.Service
	if os.Getenv("OPENAQ_ENABLED") == "true" {
		client := openaq.NewClient(openaq.ClientConfig{
			BaseURL: os.Getenv("OPENAQ_BASE_URL"),
		})
		overlay = openaq.NewService(openaq.ServiceConfig{
			Fetcher: client,
			Logger:  log,
		})
		log.Info().Msg("OpenAQ overlay enabled")
	}

	refreshConfig := worker.RefreshConfigFromEnv()
	refreshJob, err := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    refreshConfig,
		Logger:    log,
		Stations:  stations,
		Generator: generator,
		Readings:  readings,
		Alerts:    alerts,
		Overlay:   overlay,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create refresh job")
	}

	// Health endpoint with job metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		payload := map[string]interface{}{
			"status":  "healthy",
			"version": Version,
			"metrics": refreshJob.MetricsSnapshot(),
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error().Err(err).Msg("failed to write health response")
		}
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("health server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	// Ticker-driven refresh loop; the first run happens immediately so the
	// archive is populated on startup.
	go func() {
		if _, err := refreshJob.Run(ctx); err != nil {
			log.Error().Err(err).Msg("initial refresh failed")
		}

		ticker := time.NewTicker(refreshConfig.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := refreshJob.Run(ctx); err != nil {
					log.Error().Err(err).Msg("refresh failed")
				}
			}
		}
	}()

	// Pub/Sub is opt-in; ticker-driven refresh runs either way
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
		if subscription == "" {
			subscription = "aircast-refresh"
		}

		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer func() {
			if err := handler.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close pubsub client")
			}
		}()

		go func() {
			if err := handler.Start(ctx); err != nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
