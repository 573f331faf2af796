package synth

import (
	"errors"
	"fmt"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/station"
)

// Configuration errors.
var (
	ErrMissingBaseline       = errors.New("missing baseline concentration for species")
	ErrMissingLocationFactor = errors.New("missing multiplier for location type")
	ErrInvalidJitter         = errors.New("jitter fraction must be in [0, 1)")
	ErrInvalidWindow         = errors.New("invalid time-of-day window")
	ErrInvalidHorizon        = errors.New("horizon limits must be positive")
)

// TimeWindow applies a multiplier to all species during [StartHour, EndHour)
// in the reading's local clock.
type TimeWindow struct {
	StartHour int
	EndHour   int
	Factor    float64
}

// contains reports whether the window covers the given hour.
func (w TimeWindow) contains(hour int) bool {
	return hour >= w.StartHour && hour < w.EndHour
}

// Config holds the generator's tuning values. All multipliers and thresholds
// live here, enumerated once; call sites never hardcode them.
type Config struct {
	// Baselines is the base concentration per species, in the species' unit.
	Baselines map[aqi.Species]float64

	// LocationFactors scales baselines by the station's surroundings.
	// Validated at construction: exactly one factor per location type.
	LocationFactors map[station.LocationType]float64

	// Windows are the time-of-day multipliers. Hours not covered by any
	// window use a neutral factor of 1.0. Windows must not overlap.
	Windows []TimeWindow

	// JitterFraction bounds the uniform pseudo-random variation applied to
	// each concentration: factor drawn from [1-j, 1+j].
	JitterFraction float64

	// ConfidenceFraction is the fixed ± band applied to forecast
	// concentrations.
	ConfidenceFraction float64

	// MaxHistoryHours and MaxForecastHours bound the generated horizons.
	MaxHistoryHours  int
	MaxForecastHours int
}

// DefaultConfig returns the generator defaults, mirroring typical South
// Indian urban pollution patterns: morning and evening traffic peaks, calm
// nights, and location baselines from coastal (cleanest) to roadside
// traffic (dirtiest).
func DefaultConfig() Config {
	return Config{
		Baselines: map[aqi.Species]float64{
			aqi.SpeciesPM25: 45,   // µg/m³
			aqi.SpeciesPM10: 75,   // µg/m³
			aqi.SpeciesNO2:  35,   // ppb
			aqi.SpeciesO3:   0.04, // ppm
			aqi.SpeciesSO2:  15,   // ppb
			aqi.SpeciesCO:   0.8,  // ppm
		},
		LocationFactors: map[station.LocationType]float64{
			station.LocationCoastal:     0.65,
			station.LocationResidential: 0.9,
			station.LocationUrban:       1.0,
			station.LocationIndustrial:  1.45,
			station.LocationTraffic:     1.55,
		},
		Windows: []TimeWindow{
			{StartHour: 0, EndHour: 5, Factor: 0.7},   // night lull
			{StartHour: 7, EndHour: 10, Factor: 1.3},  // morning peak
			{StartHour: 17, EndHour: 20, Factor: 1.3}, // evening peak
		},
		JitterFraction:     0.2,
		ConfidenceFraction: 0.15,
		MaxHistoryHours:    168,
		MaxForecastHours:   72,
	}
}

// Validate checks the configuration for completeness and consistency.
func (c Config) Validate() error {
	for _, species := range aqi.AllSpecies() {
		base, ok := c.Baselines[species]
		if !ok || base <= 0 {
			return fmt.Errorf("%w: %s", ErrMissingBaseline, species)
		}
	}

	// Every location type must have exactly one multiplier; a silent
	// default would hide configuration bugs.
	for _, lt := range station.AllLocationTypes() {
		factor, ok := c.LocationFactors[lt]
		if !ok || factor <= 0 {
			return fmt.Errorf("%w: %s", ErrMissingLocationFactor, lt)
		}
	}

	if c.JitterFraction < 0 || c.JitterFraction >= 1 {
		return ErrInvalidJitter
	}
	if c.ConfidenceFraction < 0 || c.ConfidenceFraction >= 1 {
		return fmt.Errorf("%w: confidence fraction out of range", ErrInvalidWindow)
	}

	for i, w := range c.Windows {
		if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour || w.Factor <= 0 {
			return fmt.Errorf("%w: window %d", ErrInvalidWindow, i)
		}
		for j, other := range c.Windows {
			if i == j {
				continue
			}
			if w.StartHour < other.EndHour && other.StartHour < w.EndHour {
				return fmt.Errorf("%w: windows %d and %d overlap", ErrInvalidWindow, i, j)
			}
		}
	}

	if c.MaxHistoryHours <= 0 || c.MaxForecastHours <= 0 {
		return ErrInvalidHorizon
	}
	return nil
}

// timeFactor returns the multiplier for the given hour of day.
func (c Config) timeFactor(hour int) float64 {
	for _, w := range c.Windows {
		if w.contains(hour) {
			return w.Factor
		}
	}
	return 1.0
}
