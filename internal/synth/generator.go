// Package synth generates plausible synthetic air quality readings for
// monitoring stations. Output is a pure function of (station id, timestamp):
// the pseudo-random jitter is seeded from the inputs, so identical calls
// produce identical readings.
package synth

import (
	"encoding/binary"
	"errors"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/reading"
	"github.com/aircast/aircast/internal/station"
)

// Generator errors.
var (
	ErrNilStation       = errors.New("station must not be nil")
	ErrInvalidTimestamp = errors.New("timestamp must not be zero")
	ErrHorizonExceeded  = errors.New("requested hours exceed configured maximum")
)

// Generator produces synthetic air quality readings.
type Generator struct {
	cfg Config
}

// NewGenerator creates a generator after validating the configuration.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// GenerateReading produces a reading for the station at the given timestamp.
// It never fails for a valid (station, timestamp) pair.
func (g *Generator) GenerateReading(st *station.Station, ts time.Time) (*reading.Reading, error) {
	if st == nil {
		return nil, ErrNilStation
	}
	if ts.IsZero() {
		return nil, ErrInvalidTimestamp
	}

	rng := rand.New(rand.NewSource(seed(st.ID, ts)))

	locationFactor := g.cfg.LocationFactors[st.Type]
	timeFactor := g.cfg.timeFactor(ts.Hour())

	pollutants := make(map[aqi.Species]float64, len(g.cfg.Baselines))
	// Species order is fixed so the RNG stream is consumed identically on
	// every call with the same seed.
	for _, species := range aqi.AllSpecies() {
		base := g.cfg.Baselines[species]
		jitter := 1 + (rng.Float64()*2-1)*g.cfg.JitterFraction
		value := base * locationFactor * timeFactor * jitter
		if value < 0 {
			value = 0
		}
		pollutants[species] = round2(value)
	}

	overall, err := aqi.ComputeOverall(pollutants)
	if err != nil {
		return nil, err
	}

	return &reading.Reading{
		StationID:   st.ID,
		StationName: st.Name,
		Lat:         st.Lat,
		Lon:         st.Lon,
		Timestamp:   ts,
		Pollutants:  pollutants,
		AQI:         overall.AQI,
		Category:    overall.Category,
		Dominant:    overall.Dominant,
	}, nil
}

// GenerateHistory produces one reading per hour for the given number of
// hours ending at end, oldest first. The sequence is re-derivable: each
// entry is an independent GenerateReading call.
func (g *Generator) GenerateHistory(st *station.Station, end time.Time, hours int) ([]*reading.Reading, error) {
	if st == nil {
		return nil, ErrNilStation
	}
	if end.IsZero() {
		return nil, ErrInvalidTimestamp
	}
	if hours < 1 || hours > g.cfg.MaxHistoryHours {
		return nil, ErrHorizonExceeded
	}

	readings := make([]*reading.Reading, 0, hours)
	for i := hours - 1; i >= 0; i-- {
		ts := end.Add(-time.Duration(i) * time.Hour)
		rd, err := g.GenerateReading(st, ts)
		if err != nil {
			return nil, err
		}
		readings = append(readings, rd)
	}
	return readings, nil
}

// GenerateForecast projects one reading per hour forward from start.
// Forecast entries carry a fixed ± confidence band per species.
func (g *Generator) GenerateForecast(st *station.Station, start time.Time, hours int) ([]*reading.Reading, error) {
	if st == nil {
		return nil, ErrNilStation
	}
	if start.IsZero() {
		return nil, ErrInvalidTimestamp
	}
	if hours < 1 || hours > g.cfg.MaxForecastHours {
		return nil, ErrHorizonExceeded
	}

	readings := make([]*reading.Reading, 0, hours)
	for i := 1; i <= hours; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		rd, err := g.GenerateReading(st, ts)
		if err != nil {
			return nil, err
		}

		rd.Forecast = true
		rd.Bands = make(map[aqi.Species]reading.Band, len(rd.Pollutants))
		for species, value := range rd.Pollutants {
			low := value * (1 - g.cfg.ConfidenceFraction)
			if low < 0 {
				low = 0
			}
			rd.Bands[species] = reading.Band{
				Low:  round2(low),
				High: round2(value * (1 + g.cfg.ConfidenceFraction)),
			}
		}
		readings = append(readings, rd)
	}
	return readings, nil
}

// seed derives a deterministic RNG seed from the station id and timestamp.
func seed(stationID string, ts time.Time) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(stationID))

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(ts.Unix()))
	_, _ = h.Write(buf[:])

	return int64(h.Sum64())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
