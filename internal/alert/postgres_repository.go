package alert

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aircast/aircast/internal/aqi"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
//
// Expected schema:
//
//	CREATE TABLE alert_subscriptions (
//	    id         TEXT PRIMARY KEY,
//	    station_id TEXT NOT NULL,
//	    species    TEXT,
//	    threshold  DOUBLE PRECISION NOT NULL,
//	    label      TEXT NOT NULL DEFAULT '',
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL subscription repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const subscriptionColumns = `id, station_id, species, threshold, label, created_at, updated_at`

// Get retrieves a subscription by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM alert_subscriptions WHERE id = $1`

	sub, err := scanSubscription(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

// List retrieves all subscriptions ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM alert_subscriptions ORDER BY created_at ASC`
	return r.listQuery(ctx, query)
}

// ListByStation retrieves all subscriptions for a station.
func (r *PostgresRepository) ListByStation(ctx context.Context, stationID string) ([]*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM alert_subscriptions WHERE station_id = $1 ORDER BY created_at ASC`
	return r.listQuery(ctx, query, stationID)
}

func (r *PostgresRepository) listQuery(ctx context.Context, query string, args ...any) ([]*Subscription, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Create stores a new subscription.
func (r *PostgresRepository) Create(ctx context.Context, sub *Subscription) error {
	query := `
		INSERT INTO alert_subscriptions (id, station_id, species, threshold, label, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		sub.ID, sub.StationID, speciesText(sub.Species), sub.Threshold,
		sub.Label, sub.CreatedAt, sub.UpdatedAt,
	)
	return err
}

// Update updates an existing subscription.
func (r *PostgresRepository) Update(ctx context.Context, sub *Subscription) error {
	query := `
		UPDATE alert_subscriptions
		SET station_id = $2, species = $3, threshold = $4, label = $5, updated_at = $6
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		sub.ID, sub.StationID, speciesText(sub.Species), sub.Threshold,
		sub.Label, sub.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Delete deletes a subscription by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM alert_subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*Subscription, error) {
	var (
		sub     Subscription
		species *string
	)

	err := row.Scan(
		&sub.ID,
		&sub.StationID,
		&species,
		&sub.Threshold,
		&sub.Label,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if species != nil {
		s := aqi.Species(*species)
		sub.Species = &s
	}
	return &sub, nil
}

func speciesText(species *aqi.Species) *string {
	if species == nil {
		return nil
	}
	s := string(*species)
	return &s
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
