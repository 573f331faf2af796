// Package reading provides the air quality reading model and its archive.
package reading

import (
	"errors"
	"time"

	"github.com/aircast/aircast/internal/aqi"
)

// Archive errors.
var (
	ErrReadingNotFound = errors.New("reading not found")
)

// Band is a fixed confidence interval around a forecast concentration.
type Band struct {
	Low  float64
	High float64
}

// Reading is a fully derived air quality reading for one station at one
// point in time. Readings are immutable once produced.
type Reading struct {
	StationID   string
	StationName string
	Lat         float64
	Lon         float64
	Timestamp   time.Time

	// Pollutants maps species to concentration in the species' unit.
	Pollutants map[aqi.Species]float64

	// AQI is the maximum sub-index across all pollutants present.
	AQI      int
	Category aqi.Category
	Dominant aqi.Species

	// Forecast marks projected readings; Bands holds the fixed ± confidence
	// interval per species and is only populated for forecasts.
	Forecast bool
	Bands    map[aqi.Species]Band
}

// Clone returns a deep copy of the reading.
func (r *Reading) Clone() *Reading {
	cpy := *r
	cpy.Pollutants = make(map[aqi.Species]float64, len(r.Pollutants))
	for k, v := range r.Pollutants {
		cpy.Pollutants[k] = v
	}
	if r.Bands != nil {
		cpy.Bands = make(map[aqi.Species]Band, len(r.Bands))
		for k, v := range r.Bands {
			cpy.Bands[k] = v
		}
	}
	return &cpy
}

// HealthAdvisory returns the EPA health advisory text for a category.
func HealthAdvisory(category aqi.Category) string {
	switch category {
	case aqi.CategoryGood:
		return "Air quality is satisfactory, and air pollution poses little or no risk."
	case aqi.CategoryModerate:
		return "Air quality is acceptable. However, there may be a risk for some people, particularly those who are unusually sensitive to air pollution."
	case aqi.CategoryUnhealthySensitive:
		return "Members of sensitive groups may experience health effects. The general public is less likely to be affected."
	case aqi.CategoryUnhealthy:
		return "Some members of the general public may experience health effects; members of sensitive groups may experience more serious health effects."
	case aqi.CategoryVeryUnhealthy:
		return "Health alert: The risk of health effects is increased for everyone."
	default:
		return "Health warning of emergency conditions: everyone is more likely to be affected."
	}
}
