package alert

import "context"

// Repository defines the interface for alert subscription persistence.
type Repository interface {
	// Get retrieves a subscription by ID.
	Get(ctx context.Context, id string) (*Subscription, error)

	// List retrieves all subscriptions.
	List(ctx context.Context) ([]*Subscription, error)

	// ListByStation retrieves all subscriptions for a station.
	ListByStation(ctx context.Context, stationID string) ([]*Subscription, error)

	// Create stores a new subscription.
	Create(ctx context.Context, sub *Subscription) error

	// Update updates an existing subscription.
	Update(ctx context.Context, sub *Subscription) error

	// Delete deletes a subscription by ID.
	Delete(ctx context.Context, id string) error
}
