package reading

import (
	"context"
	"time"
)

// Repository defines the interface for the reading archive.
type Repository interface {
	// Insert stores a reading. Inserting the same (station, timestamp) pair
	// again replaces the earlier entry.
	Insert(ctx context.Context, r *Reading) error

	// Latest returns the most recent archived reading for a station.
	// Returns ErrReadingNotFound if the station has no archived readings.
	Latest(ctx context.Context, stationID string) (*Reading, error)

	// ListByStation returns archived readings for a station within
	// [from, to], ordered oldest first.
	ListByStation(ctx context.Context, stationID string, from, to time.Time) ([]*Reading, error)

	// Count returns the total number of archived readings.
	Count(ctx context.Context) (int, error)
}
