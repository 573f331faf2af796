package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aircast/aircast/internal/alert"
	"github.com/aircast/aircast/internal/openaq"
	"github.com/aircast/aircast/internal/reading"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/synth"
)

const meterName = "github.com/aircast/aircast/internal/worker"

// RefreshJob generates the current reading for every configured station,
// archives the batch, and evaluates alert subscriptions against it.
type RefreshJob struct {
	config    RefreshConfig
	logger    zerolog.Logger
	stations  *station.Registry
	generator *synth.Generator
	readings  *reading.Service
	alerts    *alert.Service
	overlay   *openaq.Service

	metrics     *RefreshMetrics
	instruments *refreshInstruments
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns        int64
	ReadingsArchived int64
	StationFailures  int64
	AlertsTriggered  int64
	OverlayApplied   int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// refreshInstruments holds the OpenTelemetry instruments for the job.
type refreshInstruments struct {
	runDuration      metric.Float64Histogram
	readingsArchived metric.Int64Counter
	stationFailures  metric.Int64Counter
	alertsTriggered  metric.Int64Counter
}

func newRefreshInstruments() (*refreshInstruments, error) {
	meter := otel.Meter(meterName)

	runDuration, err := meter.Float64Histogram(
		"worker.refresh.duration",
		metric.WithDescription("Duration of refresh job runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	readingsArchived, err := meter.Int64Counter(
		"worker.readings.archived",
		metric.WithDescription("Number of readings written to the archive"),
		metric.WithUnit("{reading}"),
	)
	if err != nil {
		return nil, err
	}

	stationFailures, err := meter.Int64Counter(
		"worker.station.failures",
		metric.WithDescription("Number of stations that failed to refresh"),
		metric.WithUnit("{station}"),
	)
	if err != nil {
		return nil, err
	}

	alertsTriggered, err := meter.Int64Counter(
		"worker.alerts.triggered",
		metric.WithDescription("Number of alert subscriptions triggered"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return nil, err
	}

	return &refreshInstruments{
		runDuration:      runDuration,
		readingsArchived: readingsArchived,
		stationFailures:  stationFailures,
		alertsTriggered:  alertsTriggered,
	}, nil
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config    RefreshConfig
	Logger    zerolog.Logger
	Stations  *station.Registry
	Generator *synth.Generator
	Readings  *reading.Service

	// Alerts is optional; alert evaluation is skipped when nil.
	Alerts *alert.Service

	// Overlay is optional; readings stay fully synthetic when nil.
	Overlay *openaq.Service
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) (*RefreshJob, error) {
	if cfg.Stations == nil {
		return nil, fmt.Errorf("station registry is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("reading generator is required")
	}
	if cfg.Readings == nil {
		return nil, fmt.Errorf("reading service is required")
	}

	config := cfg.Config
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultRefreshConfig().Concurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultRefreshConfig().Timeout
	}

	instruments, err := newRefreshInstruments()
	if err != nil {
		return nil, fmt.Errorf("creating worker instruments: %w", err)
	}

	return &RefreshJob{
		config:      config,
		logger:      cfg.Logger.With().Str("component", "refresh_job").Logger(),
		stations:    cfg.Stations,
		generator:   cfg.Generator,
		readings:    cfg.Readings,
		alerts:      cfg.Alerts,
		overlay:     cfg.Overlay,
		metrics:     &RefreshMetrics{},
		instruments: instruments,
	}, nil
}

// RefreshResult contains the result of a refresh run.
type RefreshResult struct {
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	Timestamp     time.Time
	TotalStations int
	Archived      int
	Failed        int
	Measured      int
	Alerts        []*alert.Alert
	Errors        []RefreshError
}

// RefreshError records a single station failure during a run.
type RefreshError struct {
	StationID string
	Error     string
}

// Run executes one refresh: it generates the reading for the current hour
// at every target station, archives the batch, and evaluates alerts.
func (j *RefreshJob) Run(ctx context.Context) (*RefreshResult, error) {
	startTime := time.Now()
	timestamp := startTime.UTC().Truncate(time.Hour)

	targets, err := j.targetStations()
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{
		StartTime:     startTime,
		Timestamp:     timestamp,
		TotalStations: len(targets),
	}

	j.logger.Info().
		Time("timestamp", timestamp).
		Int("stations", len(targets)).
		Int("concurrency", j.config.Concurrency).
		Msg("starting station refresh")

	stationsChan := make(chan *station.Station, len(targets))
	resultsChan := make(chan stationResult, len(targets))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, timestamp, stationsChan, resultsChan)
		}()
	}

	for i := range targets {
		stationsChan <- &targets[i]
	}
	close(stationsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	var batch []*reading.Reading
	for sr := range resultsChan {
		if sr.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RefreshError{
				StationID: sr.stationID,
				Error:     sr.err.Error(),
			})
			continue
		}
		if sr.measured {
			result.Measured++
		}
		batch = append(batch, sr.reading)
	}

	archived, err := j.readings.Archive(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("archiving readings: %w", err)
	}
	result.Archived = archived

	if j.config.EvaluateAlerts && j.alerts != nil {
		alerts, err := j.alerts.Evaluate(ctx, batch)
		if err != nil {
			j.logger.Error().Err(err).Msg("alert evaluation failed")
		} else {
			result.Alerts = alerts
			j.logAlerts(alerts)
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(ctx, result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("archived", result.Archived).
		Int("failed", result.Failed).
		Int("measured", result.Measured).
		Int("alerts", len(result.Alerts)).
		Msg("station refresh completed")

	return result, nil
}

// targetStations resolves the configured station IDs against the registry,
// or returns every registered station when none are configured.
func (j *RefreshJob) targetStations() ([]station.Station, error) {
	if len(j.config.StationIDs) == 0 {
		return j.stations.List(), nil
	}

	targets := make([]station.Station, 0, len(j.config.StationIDs))
	for _, id := range j.config.StationIDs {
		st, err := j.stations.Get(id)
		if err != nil {
			return nil, fmt.Errorf("resolving station %q: %w", id, err)
		}
		targets = append(targets, *st)
	}
	return targets, nil
}

type stationResult struct {
	stationID string
	reading   *reading.Reading
	measured  bool
	err       error
}

func (j *RefreshJob) refreshWorker(ctx context.Context, ts time.Time, stations <-chan *station.Station, results chan<- stationResult) {
	for st := range stations {
		select {
		case <-ctx.Done():
			results <- stationResult{stationID: st.ID, err: ctx.Err()}
		default:
			results <- j.refreshStation(ctx, st, ts)
		}
	}
}

func (j *RefreshJob) refreshStation(ctx context.Context, st *station.Station, ts time.Time) stationResult {
	stationCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	rd, err := j.generator.GenerateReading(st, ts)
	if err != nil {
		return stationResult{stationID: st.ID, err: err}
	}

	measured := false
	if j.overlay != nil {
		rd, measured = j.overlay.Overlay(stationCtx, rd)
	}

	return stationResult{stationID: st.ID, reading: rd, measured: measured}
}

func (j *RefreshJob) logAlerts(alerts []*alert.Alert) {
	for _, a := range alerts {
		j.logger.Warn().
			Str("subscription_id", a.SubscriptionID).
			Str("station_id", a.StationID).
			Str("severity", string(a.Severity)).
			Float64("value", a.Value).
			Float64("threshold", a.Threshold).
			Msg(a.Message)
	}
}

func (j *RefreshJob) updateMetrics(ctx context.Context, result *RefreshResult) {
	j.metrics.mu.Lock()
	j.metrics.TotalRuns++
	j.metrics.ReadingsArchived += int64(result.Archived)
	j.metrics.StationFailures += int64(result.Failed)
	j.metrics.AlertsTriggered += int64(len(result.Alerts))
	j.metrics.OverlayApplied += int64(result.Measured)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
	j.metrics.mu.Unlock()

	attrs := metric.WithAttributes(attribute.String("job", "station_refresh"))
	j.instruments.runDuration.Record(ctx, result.Duration.Seconds(), attrs)
	j.instruments.readingsArchived.Add(ctx, int64(result.Archived), attrs)
	j.instruments.stationFailures.Add(ctx, int64(result.Failed), attrs)
	j.instruments.alertsTriggered.Add(ctx, int64(len(result.Alerts)), attrs)
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:        j.metrics.TotalRuns,
		ReadingsArchived: j.metrics.ReadingsArchived,
		StationFailures:  j.metrics.StationFailures,
		AlertsTriggered:  j.metrics.AlertsTriggered,
		OverlayApplied:   j.metrics.OverlayApplied,
		LastRunAt:        j.metrics.LastRunAt,
		LastRunDuration:  j.metrics.LastRunDuration,
		TotalDuration:    j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns the current metrics as a map for the health endpoint.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"readings_archived": m.ReadingsArchived,
		"station_failures":  m.StationFailures,
		"alerts_triggered":  m.AlertsTriggered,
		"overlay_applied":   m.OverlayApplied,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
