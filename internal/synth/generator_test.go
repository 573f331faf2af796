package synth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/synth"
)

func testGenerator(t *testing.T) *synth.Generator {
	t.Helper()
	gen, err := synth.NewGenerator(synth.DefaultConfig())
	require.NoError(t, err)
	return gen
}

func testStation() *station.Station {
	return &station.Station{
		ID:   "EKM001",
		Name: "Kochi City Center",
		Lat:  9.9312,
		Lon:  76.2673,
		Type: station.LocationUrban,
	}
}

func TestGenerateReading_Deterministic(t *testing.T) {
	gen := testGenerator(t)
	st := testStation()
	ts := time.Date(2026, 8, 26, 8, 0, 0, 0, time.UTC)

	first, err := gen.GenerateReading(st, ts)
	require.NoError(t, err)
	second, err := gen.GenerateReading(st, ts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateReading_VariesWithInputs(t *testing.T) {
	gen := testGenerator(t)
	st := testStation()
	ts := time.Date(2026, 8, 26, 8, 0, 0, 0, time.UTC)

	base, err := gen.GenerateReading(st, ts)
	require.NoError(t, err)

	later, err := gen.GenerateReading(st, ts.Add(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, base.Pollutants, later.Pollutants)

	other := testStation()
	other.ID = "EKM002"
	elsewhere, err := gen.GenerateReading(other, ts)
	require.NoError(t, err)
	assert.NotEqual(t, base.Pollutants, elsewhere.Pollutants)
}

func TestGenerateReading_AQIInvariant(t *testing.T) {
	gen := testGenerator(t)
	st := testStation()

	for hour := 0; hour < 24; hour++ {
		ts := time.Date(2026, 8, 26, hour, 0, 0, 0, time.UTC)
		rd, err := gen.GenerateReading(st, ts)
		require.NoError(t, err)

		require.Len(t, rd.Pollutants, 6)
		for species, value := range rd.Pollutants {
			assert.GreaterOrEqual(t, value, 0.0, "species %s", species)
		}

		overall, err := aqi.ComputeOverall(rd.Pollutants)
		require.NoError(t, err)
		assert.Equal(t, overall.AQI, rd.AQI, "hour %d", hour)
		assert.Equal(t, overall.Dominant, rd.Dominant)
		assert.Equal(t, overall.Category, rd.Category)
		assert.GreaterOrEqual(t, rd.AQI, 0)
		assert.LessOrEqual(t, rd.AQI, 500)
	}
}

func TestGenerateReading_TimeOfDayFactor(t *testing.T) {
	cfg := synth.DefaultConfig()
	cfg.JitterFraction = 0 // isolate the deterministic multipliers
	gen, err := synth.NewGenerator(cfg)
	require.NoError(t, err)

	st := testStation()
	peak, err := gen.GenerateReading(st, time.Date(2026, 8, 26, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	night, err := gen.GenerateReading(st, time.Date(2026, 8, 26, 3, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	neutral, err := gen.GenerateReading(st, time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	for _, species := range aqi.AllSpecies() {
		assert.Greater(t, peak.Pollutants[species], neutral.Pollutants[species])
		assert.Less(t, night.Pollutants[species], neutral.Pollutants[species])
	}
}

func TestGenerateReading_LocationFactor(t *testing.T) {
	cfg := synth.DefaultConfig()
	cfg.JitterFraction = 0
	gen, err := synth.NewGenerator(cfg)
	require.NoError(t, err)

	ts := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	coastal := testStation()
	coastal.Type = station.LocationCoastal
	traffic := testStation()
	traffic.Type = station.LocationTraffic

	clean, err := gen.GenerateReading(coastal, ts)
	require.NoError(t, err)
	dirty, err := gen.GenerateReading(traffic, ts)
	require.NoError(t, err)

	assert.Greater(t, dirty.Pollutants[aqi.SpeciesPM25], clean.Pollutants[aqi.SpeciesPM25])
	assert.Greater(t, dirty.AQI, clean.AQI)
}

func TestGenerateReading_Errors(t *testing.T) {
	gen := testGenerator(t)

	_, err := gen.GenerateReading(nil, time.Now())
	assert.ErrorIs(t, err, synth.ErrNilStation)

	_, err = gen.GenerateReading(testStation(), time.Time{})
	assert.ErrorIs(t, err, synth.ErrInvalidTimestamp)
}

func TestGenerateHistory(t *testing.T) {
	gen := testGenerator(t)
	st := testStation()
	end := time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)

	history, err := gen.GenerateHistory(st, end, 24)
	require.NoError(t, err)
	require.Len(t, history, 24)

	for i, rd := range history {
		if i > 0 {
			assert.True(t, rd.Timestamp.After(history[i-1].Timestamp),
				"timestamps must be strictly increasing")
			assert.Equal(t, time.Hour, rd.Timestamp.Sub(history[i-1].Timestamp))
		}

		overall, err := aqi.ComputeOverall(rd.Pollutants)
		require.NoError(t, err)
		assert.Equal(t, overall.AQI, rd.AQI)
		assert.False(t, rd.Forecast)
	}

	assert.True(t, history[23].Timestamp.Equal(end))

	// Restartable: a second derivation is identical.
	again, err := gen.GenerateHistory(st, end, 24)
	require.NoError(t, err)
	assert.Equal(t, history, again)
}

func TestGenerateHistory_HorizonBounds(t *testing.T) {
	gen := testGenerator(t)
	st := testStation()
	end := time.Now()

	_, err := gen.GenerateHistory(st, end, 1000)
	assert.ErrorIs(t, err, synth.ErrHorizonExceeded)

	_, err = gen.GenerateHistory(st, end, 0)
	assert.ErrorIs(t, err, synth.ErrHorizonExceeded)

	history, err := gen.GenerateHistory(st, end, 168)
	require.NoError(t, err)
	assert.Len(t, history, 168)
}

func TestGenerateForecast(t *testing.T) {
	gen := testGenerator(t)
	st := testStation()
	start := time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)

	forecast, err := gen.GenerateForecast(st, start, 12)
	require.NoError(t, err)
	require.Len(t, forecast, 12)

	assert.True(t, forecast[0].Timestamp.Equal(start.Add(time.Hour)))

	for _, rd := range forecast {
		assert.True(t, rd.Forecast)
		require.Len(t, rd.Bands, len(rd.Pollutants))
		for species, band := range rd.Bands {
			value := rd.Pollutants[species]
			assert.LessOrEqual(t, band.Low, value)
			assert.GreaterOrEqual(t, band.High, value)
			assert.GreaterOrEqual(t, band.Low, 0.0)
		}
	}

	_, err = gen.GenerateForecast(st, start, 100)
	assert.ErrorIs(t, err, synth.ErrHorizonExceeded)
}

func TestNewGenerator_ConfigValidation(t *testing.T) {
	cfg := synth.DefaultConfig()
	delete(cfg.Baselines, aqi.SpeciesCO)
	_, err := synth.NewGenerator(cfg)
	assert.ErrorIs(t, err, synth.ErrMissingBaseline)

	cfg = synth.DefaultConfig()
	delete(cfg.LocationFactors, station.LocationCoastal)
	_, err = synth.NewGenerator(cfg)
	assert.ErrorIs(t, err, synth.ErrMissingLocationFactor)

	cfg = synth.DefaultConfig()
	cfg.JitterFraction = 1.5
	_, err = synth.NewGenerator(cfg)
	assert.ErrorIs(t, err, synth.ErrInvalidJitter)

	cfg = synth.DefaultConfig()
	cfg.Windows = append(cfg.Windows, synth.TimeWindow{StartHour: 4, EndHour: 8, Factor: 1.1})
	_, err = synth.NewGenerator(cfg)
	assert.ErrorIs(t, err, synth.ErrInvalidWindow)

	cfg = synth.DefaultConfig()
	cfg.MaxHistoryHours = 0
	_, err = synth.NewGenerator(cfg)
	assert.ErrorIs(t, err, synth.ErrInvalidHorizon)
}
