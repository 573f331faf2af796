package mapdata

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/openaq"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/synth"
)

const (
	// DefaultResolution is the grid step in decimal degrees.
	DefaultResolution = 0.1

	// contourResolution is the finer step used when extracting contours.
	contourResolution = 0.05

	// contourTolerance is how close a grid value must be to a level to lie
	// on its contour.
	contourTolerance = 5.0

	// idwPower is the inverse distance weighting exponent.
	idwPower = 2.0

	// minDistance guards the weight computation at station coordinates.
	minDistance = 1e-10

	// maxGridPoints bounds the work a single request can ask for.
	maxGridPoints = 10000

	// boundsPadding widens the default district box past the outermost
	// stations so they do not sit on the grid edge.
	boundsPadding = 0.05
)

// DefaultContourLevels are the AQI category boundaries drawn by default.
func DefaultContourLevels() []float64 {
	return []float64{50, 100, 150, 200}
}

// ServiceConfig holds configuration for the map data service.
type ServiceConfig struct {
	Stations  *station.Registry
	Generator *synth.Generator

	// Overlay blends ground station data into the sampled readings; nil
	// disables the overlay.
	Overlay *openaq.Service

	Logger zerolog.Logger
}

// Service interpolates the stations' current readings onto regular grids
// for heatmap and contour rendering.
type Service struct {
	stations  *station.Registry
	generator *synth.Generator
	overlay   *openaq.Service
	logger    zerolog.Logger
}

// NewService creates a new map data service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Stations == nil {
		return nil, fmt.Errorf("station registry is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("reading generator is required")
	}

	return &Service{
		stations:  cfg.Stations,
		generator: cfg.Generator,
		overlay:   cfg.Overlay,
		logger:    cfg.Logger.With().Str("component", "mapdata_service").Logger(),
	}, nil
}

// DistrictBounds returns the bounding box of all registered stations,
// padded so the outermost stations do not sit on the grid edge.
func (s *Service) DistrictBounds() Bounds {
	all := s.stations.List()

	b := Bounds{
		North: all[0].Lat,
		South: all[0].Lat,
		East:  all[0].Lon,
		West:  all[0].Lon,
	}
	for i := range all {
		b.North = math.Max(b.North, all[i].Lat)
		b.South = math.Min(b.South, all[i].Lat)
		b.East = math.Max(b.East, all[i].Lon)
		b.West = math.Min(b.West, all[i].Lon)
	}

	b.North += boundsPadding
	b.South -= boundsPadding
	b.East += boundsPadding
	b.West -= boundsPadding
	return b
}

// Grid interpolates the requested parameter onto a regular grid over the
// bounding box using inverse distance weighting over the stations' current
// readings. Readings are pinned to the top of the current hour, so the grid
// is stable within the hour.
func (s *Service) Grid(ctx context.Context, bounds Bounds, resolution float64, param Parameter) (*Grid, error) {
	if resolution == 0 {
		resolution = DefaultResolution
	}
	if resolution < 0 {
		return nil, ErrInvalidResolution
	}
	if !bounds.Valid() {
		return nil, ErrInvalidBounds
	}

	// The epsilon keeps a quotient that lands just below an integer from
	// dropping the last row or column.
	latSteps := int((bounds.North-bounds.South)/resolution+1e-6) + 1
	lonSteps := int((bounds.East-bounds.West)/resolution+1e-6) + 1
	if latSteps*lonSteps > maxGridPoints {
		return nil, ErrGridTooLarge
	}

	timestamp := time.Now().UTC().Truncate(time.Hour)
	samples, err := s.sampleStations(ctx, timestamp, param)
	if err != nil {
		return nil, err
	}

	grid := &Grid{
		Bounds:     bounds,
		Resolution: resolution,
		Parameter:  param,
		Timestamp:  timestamp,
		Points:     make([]GridPoint, 0, latSteps*lonSteps),
	}

	for i := 0; i < latSteps; i++ {
		lat := bounds.South + float64(i)*resolution
		for j := 0; j < lonSteps; j++ {
			lon := bounds.West + float64(j)*resolution
			grid.Points = append(grid.Points, GridPoint{
				Lat:        round4(lat),
				Lon:        round4(lon),
				Value:      round2(idw(lat, lon, samples)),
				Confidence: 0.8,
			})
		}
	}

	return grid, nil
}

// Heatmap returns the interpolated grid together with the color scale for
// the requested parameter.
func (s *Service) Heatmap(ctx context.Context, bounds Bounds, resolution float64, param Parameter) (*Heatmap, error) {
	grid, err := s.Grid(ctx, bounds, resolution, param)
	if err != nil {
		return nil, err
	}

	return &Heatmap{
		Grid:       *grid,
		ColorScale: colorScaleFor(param),
	}, nil
}

// Contours extracts iso-value point sets from a finer grid. Levels default
// to the AQI category boundaries when empty.
func (s *Service) Contours(ctx context.Context, bounds Bounds, param Parameter, levels []float64) (*ContourSet, error) {
	if len(levels) == 0 {
		levels = DefaultContourLevels()
	}

	grid, err := s.Grid(ctx, bounds, contourResolution, param)
	if err != nil {
		return nil, err
	}

	set := &ContourSet{
		Bounds:    bounds,
		Parameter: param,
		Levels:    levels,
		Timestamp: grid.Timestamp,
		Contours:  make([]Contour, 0, len(levels)),
	}

	for _, level := range levels {
		contour := Contour{
			Level:  level,
			Color:  contourColor(level),
			Points: []LatLon{},
		}
		for _, p := range grid.Points {
			if math.Abs(p.Value-level) < contourTolerance {
				contour.Points = append(contour.Points, LatLon{Lat: p.Lat, Lon: p.Lon})
			}
		}
		set.Contours = append(set.Contours, contour)
	}

	return set, nil
}

// sample is one station's value of the interpolated field.
type sample struct {
	lat   float64
	lon   float64
	value float64
}

func (s *Service) sampleStations(ctx context.Context, ts time.Time, param Parameter) ([]sample, error) {
	all := s.stations.List()
	if len(all) == 0 {
		return nil, station.ErrNoStations
	}

	samples := make([]sample, 0, len(all))
	for i := range all {
		rd, err := s.generator.GenerateReading(&all[i], ts)
		if err != nil {
			return nil, fmt.Errorf("sampling station %s: %w", all[i].ID, err)
		}
		if s.overlay != nil {
			rd, _ = s.overlay.Overlay(ctx, rd)
		}

		value := float64(rd.AQI)
		if string(param) != ParameterAQI {
			concentration, ok := rd.Pollutants[aqi.Species(param)]
			if !ok {
				continue
			}
			value = concentration
		}

		samples = append(samples, sample{lat: all[i].Lat, lon: all[i].Lon, value: value})
	}

	return samples, nil
}

// idw computes the inverse-distance-weighted average of the samples at a
// grid point. A point coincident with a station returns that station's
// value via the clamped minimum distance.
func idw(lat, lon float64, samples []sample) float64 {
	var weightedSum, weightSum float64
	for _, sm := range samples {
		distance := math.Sqrt((sm.lat-lat)*(sm.lat-lat) + (sm.lon-lon)*(sm.lon-lon))
		distance = math.Max(distance, minDistance)

		weight := 1.0 / math.Pow(distance, idwPower)
		weightedSum += weight * sm.value
		weightSum += weight
	}
	return weightedSum / weightSum
}

func colorScaleFor(param Parameter) ColorScale {
	if string(param) == ParameterAQI {
		return ColorScale{
			Type:       "discrete",
			Colors:     []string{"#00e400", "#ffff00", "#ff7e00", "#ff0000", "#8f3f97", "#7e0023"},
			Thresholds: []float64{50, 100, 150, 200, 300, 500},
		}
	}

	scale := ColorScale{
		Type:   "continuous",
		Colors: []string{"#00e400", "#ffff00", "#ff7e00", "#ff0000"},
	}
	switch aqi.Species(param) {
	case aqi.SpeciesO3:
		scale.Range = []float64{0, 200}
	case aqi.SpeciesNO2:
		scale.Range = []float64{0, 100}
	default:
		scale.Range = []float64{0, 50}
	}
	return scale
}

func contourColor(level float64) string {
	switch {
	case level <= 50:
		return "#00e400"
	case level <= 100:
		return "#ffff00"
	case level <= 150:
		return "#ff7e00"
	case level <= 200:
		return "#ff0000"
	case level <= 300:
		return "#8f3f97"
	default:
		return "#7e0023"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
