package openaq_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/openaq"
	"github.com/aircast/aircast/internal/reading"
)

type fakeFetcher struct {
	means map[aqi.Species]float64
	err   error
	calls int
}

func (f *fakeFetcher) FetchLatest(_ context.Context, _, _ float64) (map[aqi.Species]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.means, nil
}

func syntheticReading() *reading.Reading {
	pollutants := map[aqi.Species]float64{
		aqi.SpeciesPM25: 20.0,
		aqi.SpeciesPM10: 40.0,
		aqi.SpeciesNO2:  25.0,
	}
	overall, err := aqi.ComputeOverall(pollutants)
	if err != nil {
		panic(err)
	}
	return &reading.Reading{
		StationID:   "EKM001",
		StationName: "Kochi City Center",
		Lat:         9.9312,
		Lon:         76.2673,
		Timestamp:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Pollutants:  pollutants,
		AQI:         overall.AQI,
		Category:    overall.Category,
		Dominant:    overall.Dominant,
	}
}

func TestOverlayMergesAndRecomputes(t *testing.T) {
	fetcher := &fakeFetcher{means: map[aqi.Species]float64{
		aqi.SpeciesPM25: 60.0,
		aqi.SpeciesSO2:  5.0,
	}}
	svc := openaq.NewService(openaq.ServiceConfig{Fetcher: fetcher, Logger: zerolog.Nop()})

	rd := syntheticReading()
	merged, applied := svc.Overlay(context.Background(), rd)

	require.True(t, applied)
	assert.Equal(t, 60.0, merged.Pollutants[aqi.SpeciesPM25])
	assert.Equal(t, 40.0, merged.Pollutants[aqi.SpeciesPM10])

	// SO2 is not in the generated reading and must not be introduced.
	_, hasSO2 := merged.Pollutants[aqi.SpeciesSO2]
	assert.False(t, hasSO2)

	recomputed, err := aqi.ComputeOverall(merged.Pollutants)
	require.NoError(t, err)
	assert.Equal(t, recomputed.AQI, merged.AQI)
	assert.Equal(t, recomputed.Dominant, merged.Dominant)

	// Original reading stays untouched.
	assert.Equal(t, 20.0, rd.Pollutants[aqi.SpeciesPM25])
}

func TestOverlayFetchErrorReturnsOriginal(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	svc := openaq.NewService(openaq.ServiceConfig{Fetcher: fetcher, Logger: zerolog.Nop()})

	rd := syntheticReading()
	merged, applied := svc.Overlay(context.Background(), rd)

	assert.False(t, applied)
	assert.Same(t, rd, merged)
}

func TestOverlayNoMatchingSpecies(t *testing.T) {
	fetcher := &fakeFetcher{means: map[aqi.Species]float64{aqi.SpeciesCO: 0.5}}
	svc := openaq.NewService(openaq.ServiceConfig{Fetcher: fetcher, Logger: zerolog.Nop()})

	rd := syntheticReading()
	merged, applied := svc.Overlay(context.Background(), rd)

	assert.False(t, applied)
	assert.Same(t, rd, merged)
}

func TestOverlayCachesPerStation(t *testing.T) {
	fetcher := &fakeFetcher{means: map[aqi.Species]float64{aqi.SpeciesPM25: 55.0}}
	svc := openaq.NewService(openaq.ServiceConfig{
		Fetcher:  fetcher,
		Logger:   zerolog.Nop(),
		CacheTTL: time.Hour,
	})

	rd := syntheticReading()
	_, applied := svc.Overlay(context.Background(), rd)
	require.True(t, applied)
	_, applied = svc.Overlay(context.Background(), rd)
	require.True(t, applied)

	assert.Equal(t, 1, fetcher.calls)

	svc.InvalidateCache()
	_, _ = svc.Overlay(context.Background(), rd)
	assert.Equal(t, 2, fetcher.calls)
}

func TestOverlayServesStaleOnError(t *testing.T) {
	fetcher := &fakeFetcher{means: map[aqi.Species]float64{aqi.SpeciesPM25: 55.0}}
	svc := openaq.NewService(openaq.ServiceConfig{
		Fetcher:         fetcher,
		Logger:          zerolog.Nop(),
		CacheTTL:        time.Nanosecond,
		StaleIfErrorTTL: time.Hour,
	})

	rd := syntheticReading()
	_, applied := svc.Overlay(context.Background(), rd)
	require.True(t, applied)

	// Cache has expired and the upstream now fails; stale means still apply.
	fetcher.err = errors.New("upstream down")
	time.Sleep(time.Millisecond)

	merged, applied := svc.Overlay(context.Background(), rd)
	require.True(t, applied)
	assert.Equal(t, 55.0, merged.Pollutants[aqi.SpeciesPM25])
}
