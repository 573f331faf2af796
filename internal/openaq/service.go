package openaq

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/reading"
)

// Fetcher retrieves ground station means near a coordinate.
type Fetcher interface {
	FetchLatest(ctx context.Context, lat, lon float64) (map[aqi.Species]float64, error)
}

// ServiceConfig holds configuration for the overlay service.
type ServiceConfig struct {
	// Fetcher is the ground station data source.
	Fetcher Fetcher

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long fetched means stay fresh (default: 5 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale means on fetch errors
	// (default: 30 minutes).
	StaleIfErrorTTL time.Duration
}

// Service blends measured ground station concentrations into generated
// readings. Fetched means are cached per station; when the upstream fails,
// stale means are reused for a bounded window and otherwise the reading is
// returned unmodified.
type Service struct {
	fetcher         Fetcher
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

type cacheEntry struct {
	means     map[aqi.Species]float64
	fetchedAt time.Time
	expiry    time.Time
}

// NewService creates a new overlay service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 30 * time.Minute
	}

	return &Service{
		fetcher:         cfg.Fetcher,
		logger:          cfg.Logger.With().Str("component", "openaq_overlay").Logger(),
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cacheEntry),
	}
}

// Overlay returns a copy of the reading with ground station means merged
// over its concentrations and the AQI recomputed. The second return value
// reports whether any measured value was applied. When no ground data is
// available the original reading is returned untouched.
func (s *Service) Overlay(ctx context.Context, rd *reading.Reading) (*reading.Reading, bool) {
	means := s.meansFor(ctx, rd)
	if len(means) == 0 {
		return rd, false
	}

	merged := rd.Clone()
	applied := false
	for species, value := range means {
		if _, ok := merged.Pollutants[species]; ok {
			merged.Pollutants[species] = value
			applied = true
		}
	}
	if !applied {
		return rd, false
	}

	overall, err := aqi.ComputeOverall(merged.Pollutants)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("station_id", rd.StationID).
			Msg("overlay produced uncomputable concentrations")
		return rd, false
	}

	merged.AQI = overall.AQI
	merged.Dominant = overall.Dominant
	merged.Category = overall.Category
	return merged, true
}

// InvalidateCache clears all cached means.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cacheEntry)
}

func (s *Service) meansFor(ctx context.Context, rd *reading.Reading) map[aqi.Species]float64 {
	s.mu.RLock()
	entry, ok := s.cache[rd.StationID]
	s.mu.RUnlock()

	if ok && time.Now().Before(entry.expiry) {
		return entry.means
	}

	means, err := s.fetcher.FetchLatest(ctx, rd.Lat, rd.Lon)
	if err != nil || len(means) == 0 {
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("station_id", rd.StationID).
				Msg("ground station fetch failed")
		}

		// Serve stale means if they are not too old.
		if ok && time.Now().Before(entry.fetchedAt.Add(s.staleIfErrorTTL)) {
			return entry.means
		}
		return nil
	}

	now := time.Now()
	s.mu.Lock()
	s.cache[rd.StationID] = &cacheEntry{
		means:     means,
		fetchedAt: now,
		expiry:    now.Add(s.cacheTTL),
	}
	s.mu.Unlock()

	s.logger.Debug().
		Str("station_id", rd.StationID).
		Int("species", len(means)).
		Msg("ground station means refreshed")

	return means
}
