package alert

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and database-less deployments.
type InMemoryRepository struct {
	mu   sync.RWMutex
	subs map[string]*Subscription
}

// NewInMemoryRepository creates a new in-memory subscription repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		subs: make(map[string]*Subscription),
	}
}

// Get retrieves a subscription by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[id]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	cpy := *sub
	return &cpy, nil
}

// List retrieves all subscriptions ordered by creation time.
func (r *InMemoryRepository) List(_ context.Context) ([]*Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		cpy := *sub
		out = append(out, &cpy)
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out, nil
}

// ListByStation retrieves all subscriptions for a station.
func (r *InMemoryRepository) ListByStation(ctx context.Context, stationID string) ([]*Subscription, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []*Subscription
	for _, sub := range all {
		if sub.StationID == stationID {
			out = append(out, sub)
		}
	}
	return out, nil
}

// Create stores a new subscription.
func (r *InMemoryRepository) Create(_ context.Context, sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *sub
	r.subs[sub.ID] = &cpy
	return nil
}

// Update updates an existing subscription.
func (r *InMemoryRepository) Update(_ context.Context, sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[sub.ID]; !ok {
		return ErrSubscriptionNotFound
	}
	cpy := *sub
	r.subs[sub.ID] = &cpy
	return nil
}

// Delete deletes a subscription by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[id]; !ok {
		return ErrSubscriptionNotFound
	}
	delete(r.subs, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
