package reading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aircast/aircast/internal/aqi"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
//
// Expected schema:
//
//	CREATE TABLE air_quality_readings (
//	    station_id   TEXT        NOT NULL,
//	    station_name TEXT        NOT NULL,
//	    lat          DOUBLE PRECISION NOT NULL,
//	    lon          DOUBLE PRECISION NOT NULL,
//	    recorded_at  TIMESTAMPTZ NOT NULL,
//	    pollutants   JSONB       NOT NULL,
//	    aqi          INT         NOT NULL,
//	    category     TEXT        NOT NULL,
//	    dominant     TEXT        NOT NULL,
//	    PRIMARY KEY (station_id, recorded_at)
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL reading archive.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a reading, replacing any entry with the same timestamp.
func (r *PostgresRepository) Insert(ctx context.Context, rd *Reading) error {
	pollutants, err := json.Marshal(rd.Pollutants)
	if err != nil {
		return fmt.Errorf("encode pollutants: %w", err)
	}

	query := `
		INSERT INTO air_quality_readings
			(station_id, station_name, lat, lon, recorded_at, pollutants, aqi, category, dominant)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (station_id, recorded_at) DO UPDATE SET
			pollutants = EXCLUDED.pollutants,
			aqi = EXCLUDED.aqi,
			category = EXCLUDED.category,
			dominant = EXCLUDED.dominant
	`

	_, err = r.pool.Exec(ctx, query,
		rd.StationID,
		rd.StationName,
		rd.Lat,
		rd.Lon,
		rd.Timestamp,
		pollutants,
		rd.AQI,
		string(rd.Category),
		string(rd.Dominant),
	)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// Latest returns the most recent archived reading for a station.
func (r *PostgresRepository) Latest(ctx context.Context, stationID string) (*Reading, error) {
	query := `
		SELECT station_id, station_name, lat, lon, recorded_at, pollutants, aqi, category, dominant
		FROM air_quality_readings
		WHERE station_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	rd, err := scanReading(r.pool.QueryRow(ctx, query, stationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReadingNotFound
		}
		return nil, err
	}
	return rd, nil
}

// ListByStation returns archived readings within [from, to], oldest first.
func (r *PostgresRepository) ListByStation(ctx context.Context, stationID string, from, to time.Time) ([]*Reading, error) {
	query := `
		SELECT station_id, station_name, lat, lon, recorded_at, pollutants, aqi, category, dominant
		FROM air_quality_readings
		WHERE station_id = $1 AND recorded_at >= $2 AND recorded_at <= $3
		ORDER BY recorded_at ASC
	`

	rows, err := r.pool.Query(ctx, query, stationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []*Reading
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, rd)
	}
	return readings, rows.Err()
}

// Count returns the total number of archived readings.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM air_quality_readings`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (*Reading, error) {
	var (
		rd         Reading
		pollutants []byte
		category   string
		dominant   string
	)

	err := row.Scan(
		&rd.StationID,
		&rd.StationName,
		&rd.Lat,
		&rd.Lon,
		&rd.Timestamp,
		&pollutants,
		&rd.AQI,
		&category,
		&dominant,
	)
	if err != nil {
		return nil, err
	}

	rd.Category = aqi.Category(category)
	rd.Dominant = aqi.Species(dominant)
	if err := json.Unmarshal(pollutants, &rd.Pollutants); err != nil {
		return nil, fmt.Errorf("decode pollutants: %w", err)
	}
	return &rd, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
