// Package alert provides threshold alert subscriptions and evaluation.
package alert

import (
	"errors"
	"time"

	"github.com/aircast/aircast/internal/aqi"
)

// Alert errors.
var (
	ErrSubscriptionNotFound = errors.New("alert subscription not found")
	ErrInvalidThreshold     = errors.New("threshold must be non-negative")
	ErrUnknownStation       = errors.New("unknown station id")
	ErrUnknownSpecies       = errors.New("unknown pollutant species")
)

// Severity grades a triggered alert.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeveritySevere  Severity = "SEVERE"
)

// Subscription is a stored alert rule: notify when a station's overall AQI,
// or a single species' concentration, reaches the threshold.
type Subscription struct {
	ID        string
	StationID string

	// Species is nil when the rule targets the overall AQI.
	Species *aqi.Species

	Threshold float64
	Label     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Alert is a triggered subscription for a specific reading.
type Alert struct {
	SubscriptionID string
	StationID      string
	StationName    string
	Species        *aqi.Species
	Value          float64
	Threshold      float64
	Category       aqi.Category
	Severity       Severity
	Message        string
	TriggeredAt    time.Time
}

// severityFor maps a health category onto an alert severity.
func severityFor(category aqi.Category) Severity {
	switch category {
	case aqi.CategoryGood, aqi.CategoryModerate:
		return SeverityInfo
	case aqi.CategoryUnhealthySensitive, aqi.CategoryUnhealthy:
		return SeverityWarning
	default:
		return SeveritySevere
	}
}
