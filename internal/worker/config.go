// Package worker provides background reading archival for Aircast.
package worker

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RefreshConfig holds configuration for the station refresh job.
type RefreshConfig struct {
	// StationIDs restricts the refresh to specific stations.
	// If empty, every registered station is refreshed.
	StationIDs []string

	// Concurrency is the number of stations refreshed in parallel.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each station refresh.
	// Default: 30 seconds
	Timeout time.Duration

	// Interval is the period between ticker-driven refresh runs.
	// Default: 1 hour, matching the hourly reading cadence.
	Interval time.Duration

	// EvaluateAlerts enables alert evaluation after archiving.
	// Default: true
	EvaluateAlerts bool
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Concurrency:    3,
		Timeout:        30 * time.Second,
		Interval:       time.Hour,
		EvaluateAlerts: true,
	}
}

// RefreshConfigFromEnv creates a RefreshConfig from environment variables,
// falling back to defaults for anything unset.
func RefreshConfigFromEnv() RefreshConfig {
	cfg := DefaultRefreshConfig()

	if raw := os.Getenv("WORKER_STATION_IDS"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.StationIDs = append(cfg.StationIDs, id)
			}
		}
	}
	if raw := os.Getenv("WORKER_CONCURRENCY"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.Concurrency = n
		}
	}
	if raw := os.Getenv("WORKER_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if raw := os.Getenv("WORKER_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.Interval = d
		}
	}
	if raw := os.Getenv("WORKER_EVALUATE_ALERTS"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			cfg.EvaluateAlerts = b
		}
	}

	return cfg
}
