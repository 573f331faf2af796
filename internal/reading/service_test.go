package reading_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/reading"
)

func testReading(stationID string, ts time.Time) *reading.Reading {
	return &reading.Reading{
		StationID:   stationID,
		StationName: "Test Station",
		Timestamp:   ts,
		Pollutants:  map[aqi.Species]float64{aqi.SpeciesPM25: 42.0},
		AQI:         117,
		Category:    aqi.CategoryUnhealthySensitive,
		Dominant:    aqi.SpeciesPM25,
	}
}

func TestServiceArchiveAndLatest(t *testing.T) {
	svc := reading.NewService(reading.ServiceConfig{
		Repository: reading.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	batch := []*reading.Reading{
		testReading("EKM001", base),
		testReading("EKM001", base.Add(time.Hour)),
		testReading("EKM002", base),
	}

	archived, err := svc.Archive(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 3, archived)

	latest, err := svc.Latest(ctx, "EKM001")
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Hour), latest.Timestamp)

	size, err := svc.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestServiceArchiveUpsert(t *testing.T) {
	svc := reading.NewService(reading.ServiceConfig{
		Repository: reading.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := testReading("EKM003", ts)
	second := testReading("EKM003", ts)
	second.AQI = 200

	_, err := svc.Archive(ctx, []*reading.Reading{first, second})
	require.NoError(t, err)

	size, err := svc.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	latest, err := svc.Latest(ctx, "EKM003")
	require.NoError(t, err)
	assert.Equal(t, 200, latest.AQI)
}

func TestServiceRecentWindow(t *testing.T) {
	svc := reading.NewService(reading.ServiceConfig{
		Repository: reading.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	ctx := context.Background()
	now := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	var batch []*reading.Reading
	for i := 0; i < 48; i++ {
		batch = append(batch, testReading("EKM001", now.Add(-time.Duration(i)*time.Hour)))
	}
	_, err := svc.Archive(ctx, batch)
	require.NoError(t, err)

	recent, err := svc.Recent(ctx, "EKM001", now, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, recent, 25)

	for i := 1; i < len(recent); i++ {
		assert.True(t, recent[i-1].Timestamp.Before(recent[i].Timestamp))
	}
	assert.Equal(t, now, recent[len(recent)-1].Timestamp)
}

func TestLatestUnknownStation(t *testing.T) {
	repo := reading.NewInMemoryRepository()

	_, err := repo.Latest(context.Background(), "EKM999")
	assert.ErrorIs(t, err, reading.ErrReadingNotFound)
}

func TestRepositoryCloneIsolation(t *testing.T) {
	repo := reading.NewInMemoryRepository()
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	original := testReading("EKM001", ts)
	require.NoError(t, repo.Insert(ctx, original))

	original.Pollutants[aqi.SpeciesPM25] = 999

	stored, err := repo.Latest(ctx, "EKM001")
	require.NoError(t, err)
	assert.Equal(t, 42.0, stored.Pollutants[aqi.SpeciesPM25])

	stored.Pollutants[aqi.SpeciesPM25] = -1
	again, err := repo.Latest(ctx, "EKM001")
	require.NoError(t, err)
	assert.Equal(t, 42.0, again.Pollutants[aqi.SpeciesPM25])
}
