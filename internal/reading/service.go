package reading

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the archive service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger
}

// Service archives readings and serves archived history.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new archive service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}
}

// Archive stores a batch of readings. Failures are logged and counted; one
// bad insert does not abort the batch.
func (s *Service) Archive(ctx context.Context, readings []*Reading) (int, error) {
	archived := 0
	for _, rd := range readings {
		if err := s.repo.Insert(ctx, rd); err != nil {
			s.logger.Error().
				Err(err).
				Str("station_id", rd.StationID).
				Time("timestamp", rd.Timestamp).
				Msg("failed to archive reading")
			continue
		}
		archived++
	}

	s.logger.Debug().
		Int("archived", archived).
		Int("total", len(readings)).
		Msg("readings archived")

	return archived, nil
}

// Latest returns the most recent archived reading for a station.
func (s *Service) Latest(ctx context.Context, stationID string) (*Reading, error) {
	return s.repo.Latest(ctx, stationID)
}

// Recent returns the archived readings for a station over the trailing
// window ending at now.
func (s *Service) Recent(ctx context.Context, stationID string, now time.Time, window time.Duration) ([]*Reading, error) {
	return s.repo.ListByStation(ctx, stationID, now.Add(-window), now)
}

// Size returns the total number of archived readings.
func (s *Service) Size(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
