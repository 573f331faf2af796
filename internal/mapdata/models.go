// Package mapdata generates gridded air quality fields for map
// visualization by interpolating station readings across a region.
package mapdata

import (
	"errors"
	"strings"
	"time"

	"github.com/aircast/aircast/internal/aqi"
)

// Map data errors.
var (
	ErrInvalidBounds     = errors.New("bounds must satisfy south < north and west < east")
	ErrInvalidResolution = errors.New("resolution must be positive")
	ErrGridTooLarge      = errors.New("bounds and resolution produce too many grid points")
	ErrUnknownParameter  = errors.New("unknown map parameter")
)

// ParameterAQI selects the overall AQI as the interpolated field; any
// pollutant species code selects its raw concentration instead.
const ParameterAQI = "AQI"

// Parameter identifies the scalar field rendered on the map.
type Parameter string

// ParseParameter normalizes a query value into a Parameter. An empty value
// defaults to the overall AQI.
func ParseParameter(raw string) (Parameter, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" || code == ParameterAQI {
		return Parameter(ParameterAQI), nil
	}
	if !aqi.Species(code).Valid() {
		return "", ErrUnknownParameter
	}
	return Parameter(code), nil
}

// Bounds is a geographic bounding box in decimal degrees.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Valid reports whether the box has positive extent in both dimensions.
func (b Bounds) Valid() bool {
	return b.North > b.South && b.East > b.West
}

// GridPoint is one interpolated value on the map grid.
type GridPoint struct {
	Lat        float64
	Lon        float64
	Value      float64
	Confidence float64
}

// Grid is an interpolated scalar field over a bounding box.
type Grid struct {
	Bounds     Bounds
	Resolution float64
	Parameter  Parameter
	Timestamp  time.Time
	Points     []GridPoint
}

// ColorScale describes how grid values map to colors on the client.
type ColorScale struct {
	Type       string
	Colors     []string
	Thresholds []float64
	Range      []float64
}

// Heatmap is a grid with its rendering color scale.
type Heatmap struct {
	Grid
	ColorScale ColorScale
}

// LatLon is a bare coordinate on a contour line.
type LatLon struct {
	Lat float64
	Lon float64
}

// Contour is the set of grid points lying near one iso-value.
type Contour struct {
	Level  float64
	Color  string
	Points []LatLon
}

// ContourSet holds the contours extracted from a grid.
type ContourSet struct {
	Bounds    Bounds
	Parameter Parameter
	Levels    []float64
	Timestamp time.Time
	Contours  []Contour
}
