package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/alert"
	"github.com/aircast/aircast/internal/reading"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/synth"
	"github.com/aircast/aircast/internal/worker"
)

func TestDefaultRefreshConfig(t *testing.T) {
	cfg := worker.DefaultRefreshConfig()

	assert.Empty(t, cfg.StationIDs)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, time.Hour, cfg.Interval)
	assert.True(t, cfg.EvaluateAlerts)
}

func TestRefreshConfigFromEnv(t *testing.T) {
	t.Setenv("WORKER_STATION_IDS", "EKM001, EKM003")
	t.Setenv("WORKER_CONCURRENCY", "5")
	t.Setenv("WORKER_TIMEOUT", "10s")
	t.Setenv("WORKER_INTERVAL", "30m")
	t.Setenv("WORKER_EVALUATE_ALERTS", "false")

	cfg := worker.RefreshConfigFromEnv()

	assert.Equal(t, []string{"EKM001", "EKM003"}, cfg.StationIDs)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Interval)
	assert.False(t, cfg.EvaluateAlerts)
}

func TestRefreshConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_CONCURRENCY", "not-a-number")
	t.Setenv("WORKER_TIMEOUT", "-5s")

	cfg := worker.RefreshConfigFromEnv()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

type testEnv struct {
	stations *station.Registry
	readings *reading.Service
	alerts   *alert.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	stations := station.DefaultRegistry()
	readings := reading.NewService(reading.ServiceConfig{
		Repository: reading.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	alerts := alert.NewService(alert.ServiceConfig{
		Repository: alert.NewInMemoryRepository(),
		Stations:   stations,
		Logger:     zerolog.Nop(),
	})

	return &testEnv{stations: stations, readings: readings, alerts: alerts}
}

func newTestJob(t *testing.T, env *testEnv, cfg worker.RefreshConfig) *worker.RefreshJob {
	t.Helper()

	generator, err := synth.NewGenerator(synth.DefaultConfig())
	require.NoError(t, err)

	job, err := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    cfg,
		Logger:    zerolog.Nop(),
		Stations:  env.stations,
		Generator: generator,
		Readings:  env.readings,
		Alerts:    env.alerts,
	})
	require.NoError(t, err)
	return job
}

func TestNewRefreshJob_RequiresServices(t *testing.T) {
	generator, err := synth.NewGenerator(synth.DefaultConfig())
	require.NoError(t, err)

	_, err = worker.NewRefreshJob(worker.RefreshJobConfig{
		Generator: generator,
		Readings:  reading.NewService(reading.ServiceConfig{Repository: reading.NewInMemoryRepository(), Logger: zerolog.Nop()}),
	})
	assert.Error(t, err)

	_, err = worker.NewRefreshJob(worker.RefreshJobConfig{
		Stations: station.DefaultRegistry(),
		Readings: reading.NewService(reading.ServiceConfig{Repository: reading.NewInMemoryRepository(), Logger: zerolog.Nop()}),
	})
	assert.Error(t, err)
}

func TestRefreshJob_Run_ArchivesAllStations(t *testing.T) {
	env := newTestEnv(t)
	job := newTestJob(t, env, worker.DefaultRefreshConfig())
	ctx := context.Background()

	result, err := job.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, env.stations.Count(), result.TotalStations)
	assert.Equal(t, env.stations.Count(), result.Archived)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Errors)

	size, err := env.readings.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, env.stations.Count(), size)

	// The archived reading is pinned to the top of the current hour.
	latest, err := env.readings.Latest(ctx, "EKM001")
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Truncate(time.Hour), latest.Timestamp)
	assert.False(t, latest.Forecast)
}

func TestRefreshJob_Run_IsIdempotentWithinTheHour(t *testing.T) {
	env := newTestEnv(t)
	job := newTestJob(t, env, worker.DefaultRefreshConfig())
	ctx := context.Background()

	_, err := job.Run(ctx)
	require.NoError(t, err)
	_, err = job.Run(ctx)
	require.NoError(t, err)

	// Second run upserts the same hourly slots instead of duplicating them.
	size, err := env.readings.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, env.stations.Count(), size)
}

func TestRefreshJob_Run_StationSubset(t *testing.T) {
	env := newTestEnv(t)
	cfg := worker.DefaultRefreshConfig()
	cfg.StationIDs = []string{"EKM002"}
	job := newTestJob(t, env, cfg)

	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalStations)
	assert.Equal(t, 1, result.Archived)

	_, err = env.readings.Latest(context.Background(), "EKM001")
	assert.ErrorIs(t, err, reading.ErrReadingNotFound)
}

func TestRefreshJob_Run_UnknownStation(t *testing.T) {
	env := newTestEnv(t)
	cfg := worker.DefaultRefreshConfig()
	cfg.StationIDs = []string{"EKM999"}
	job := newTestJob(t, env, cfg)

	_, err := job.Run(context.Background())
	assert.ErrorIs(t, err, station.ErrStationNotFound)
}

func TestRefreshJob_Run_EvaluatesAlerts(t *testing.T) {
	env := newTestEnv(t)
	job := newTestJob(t, env, worker.DefaultRefreshConfig())
	ctx := context.Background()

	// A threshold of 1 on the overall AQI always triggers.
	_, err := env.alerts.Create(ctx, alert.CreateInput{
		StationID: "EKM001",
		Threshold: 1,
		Label:     "always fires",
	})
	require.NoError(t, err)

	result, err := job.Run(ctx)
	require.NoError(t, err)

	require.Len(t, result.Alerts, 1)
	assert.Equal(t, "EKM001", result.Alerts[0].StationID)
	assert.GreaterOrEqual(t, result.Alerts[0].Value, 1.0)
}

func TestRefreshJob_Run_AlertsDisabled(t *testing.T) {
	env := newTestEnv(t)
	cfg := worker.DefaultRefreshConfig()
	cfg.EvaluateAlerts = false
	job := newTestJob(t, env, cfg)
	ctx := context.Background()

	_, err := env.alerts.Create(ctx, alert.CreateInput{
		StationID: "EKM001",
		Threshold: 1,
		Label:     "never evaluated",
	})
	require.NoError(t, err)

	result, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Alerts)
}

func TestRefreshJob_Metrics(t *testing.T) {
	env := newTestEnv(t)
	job := newTestJob(t, env, worker.DefaultRefreshConfig())

	_, err := job.Run(context.Background())
	require.NoError(t, err)

	m := job.GetMetrics()
	assert.Equal(t, int64(1), m.TotalRuns)
	assert.Equal(t, int64(env.stations.Count()), m.ReadingsArchived)
	assert.Zero(t, m.StationFailures)
	assert.False(t, m.LastRunAt.IsZero())

	snapshot := job.MetricsSnapshot()
	assert.Equal(t, int64(1), snapshot["total_runs"])
	assert.Equal(t, int64(env.stations.Count()), snapshot["readings_archived"])
}
