package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/reading"
	"github.com/aircast/aircast/internal/station"
)

// ServiceConfig holds the configuration for creating a new Service.
type ServiceConfig struct {
	Repository Repository
	Stations   *station.Registry
	Logger     zerolog.Logger
}

// Service manages alert subscriptions and evaluates readings against them.
type Service struct {
	repo     Repository
	stations *station.Registry
	logger   zerolog.Logger
}

// NewService creates a new alert service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:     cfg.Repository,
		stations: cfg.Stations,
		logger:   cfg.Logger.With().Str("component", "alert_service").Logger(),
	}
}

// CreateInput holds the fields required to create a subscription.
type CreateInput struct {
	StationID string
	Species   *aqi.Species
	Threshold float64
	Label     string
}

// Create validates the input and stores a new subscription.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Subscription, error) {
	if err := s.validate(in.StationID, in.Species, in.Threshold); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &Subscription{
		ID:        "sub_" + uuid.New().String()[:22],
		StationID: in.StationID,
		Species:   in.Species,
		Threshold: in.Threshold,
		Label:     in.Label,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	s.logger.Info().
		Str("subscription_id", sub.ID).
		Str("station_id", sub.StationID).
		Float64("threshold", sub.Threshold).
		Msg("subscription created")

	return sub, nil
}

// UpdateInput holds the fields that can be changed on a subscription.
// Nil pointers leave the corresponding field untouched.
type UpdateInput struct {
	Threshold *float64
	Label     *string
}

// Update applies the given changes to an existing subscription.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Subscription, error) {
	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Threshold != nil {
		if *in.Threshold <= 0 {
			return nil, ErrInvalidThreshold
		}
		sub.Threshold = *in.Threshold
	}
	if in.Label != nil {
		sub.Label = *in.Label
	}
	sub.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("updating subscription: %w", err)
	}
	return sub, nil
}

// Delete removes a subscription.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("subscription_id", id).Msg("subscription deleted")
	return nil
}

// Get retrieves a subscription by ID.
func (s *Service) Get(ctx context.Context, id string) (*Subscription, error) {
	return s.repo.Get(ctx, id)
}

// List retrieves all subscriptions, optionally filtered by station.
func (s *Service) List(ctx context.Context, stationID string) ([]*Subscription, error) {
	if stationID != "" {
		if _, err := s.stations.Get(stationID); err != nil {
			return nil, ErrUnknownStation
		}
		return s.repo.ListByStation(ctx, stationID)
	}
	return s.repo.List(ctx)
}

// Evaluate checks the given readings against all stored subscriptions and
// returns an alert for every subscription whose threshold is reached.
func (s *Service) Evaluate(ctx context.Context, readings []*reading.Reading) ([]*Alert, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	byStation := make(map[string][]*Subscription)
	for _, sub := range subs {
		byStation[sub.StationID] = append(byStation[sub.StationID], sub)
	}

	var alerts []*Alert
	for _, rd := range readings {
		for _, sub := range byStation[rd.StationID] {
			if a := s.evaluateOne(sub, rd); a != nil {
				alerts = append(alerts, a)
			}
		}
	}

	if len(alerts) > 0 {
		s.logger.Info().Int("count", len(alerts)).Msg("alerts triggered")
	}
	return alerts, nil
}

// Preview evaluates a single reading against a hypothetical subscription
// without persisting anything.
func (s *Service) Preview(in CreateInput, rd *reading.Reading) (*Alert, error) {
	if err := s.validate(in.StationID, in.Species, in.Threshold); err != nil {
		return nil, err
	}
	sub := &Subscription{
		ID:        "preview",
		StationID: in.StationID,
		Species:   in.Species,
		Threshold: in.Threshold,
		Label:     in.Label,
	}
	return s.evaluateOne(sub, rd), nil
}

func (s *Service) evaluateOne(sub *Subscription, rd *reading.Reading) *Alert {
	var (
		value float64
		label string
	)

	if sub.Species == nil {
		value = float64(rd.AQI)
		label = "AQI"
	} else {
		v, ok := rd.Pollutants[*sub.Species]
		if !ok {
			return nil
		}
		value = v
		label = string(*sub.Species)
	}

	if value < sub.Threshold {
		return nil
	}

	return &Alert{
		SubscriptionID: sub.ID,
		StationID:      rd.StationID,
		StationName:    rd.StationName,
		Species:        sub.Species,
		Value:          value,
		Threshold:      sub.Threshold,
		Category:       rd.Category,
		Severity:       severityFor(rd.Category),
		Message: fmt.Sprintf("%s at %s reached %.1f (threshold %.1f)",
			label, rd.StationName, value, sub.Threshold),
		TriggeredAt: rd.Timestamp,
	}
}

func (s *Service) validate(stationID string, species *aqi.Species, threshold float64) error {
	if _, err := s.stations.Get(stationID); err != nil {
		return ErrUnknownStation
	}
	if species != nil && !species.Valid() {
		return ErrUnknownSpecies
	}
	if threshold <= 0 {
		return ErrInvalidThreshold
	}
	return nil
}
