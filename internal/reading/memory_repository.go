package reading

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and single-node deployments without a
// database. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu        sync.RWMutex
	byStation map[string][]*Reading
}

// NewInMemoryRepository creates a new in-memory reading archive.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byStation: make(map[string][]*Reading),
	}
}

// Insert stores a reading, replacing any entry with the same timestamp.
func (r *InMemoryRepository) Insert(_ context.Context, rd *Reading) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.byStation[rd.StationID]
	for i, existing := range entries {
		if existing.Timestamp.Equal(rd.Timestamp) {
			entries[i] = rd.Clone()
			return nil
		}
	}

	entries = append(entries, rd.Clone())
	sort.Slice(entries, func(a, b int) bool {
		return entries[a].Timestamp.Before(entries[b].Timestamp)
	})
	r.byStation[rd.StationID] = entries
	return nil
}

// Latest returns the most recent archived reading for a station.
func (r *InMemoryRepository) Latest(_ context.Context, stationID string) (*Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byStation[stationID]
	if len(entries) == 0 {
		return nil, ErrReadingNotFound
	}
	return entries[len(entries)-1].Clone(), nil
}

// ListByStation returns archived readings within [from, to], oldest first.
func (r *InMemoryRepository) ListByStation(_ context.Context, stationID string, from, to time.Time) ([]*Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Reading
	for _, rd := range r.byStation[stationID] {
		if rd.Timestamp.Before(from) || rd.Timestamp.After(to) {
			continue
		}
		out = append(out, rd.Clone())
	}
	return out, nil
}

// Count returns the total number of archived readings.
func (r *InMemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, entries := range r.byStation {
		total += len(entries)
	}
	return total, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
