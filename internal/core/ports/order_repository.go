package ports

import (
	"context"
	"time"

	"shopping/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// FindByID returns the order with the given id, or an ObjectNotFoundError.
	// Implementations bound to a transaction lock the order row until commit.
	FindByID(ctx context.Context, id string) (*order.Order, error)

	// Save inserts or replaces the order together with its lines. An order without
	// an id is given one from NextID before it is written.
	Save(ctx context.Context, aggregate *order.Order) error

	// FindAll returns every order, oldest first.
	FindAll(ctx context.Context) ([]*order.Order, error)

	// FindByUserID returns the orders owned by userID, oldest first.
	FindByUserID(ctx context.Context, userID string) ([]*order.Order, error)

	// FindPendingPlacedBefore returns Pending orders placed strictly before cutoff.
	FindPendingPlacedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// NextID issues a fresh order identifier.
	NextID(ctx context.Context) (string, error)
}
