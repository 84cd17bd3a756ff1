package ports

import (
	"context"

	"shopping/internal/core/domain/model/cart"
)

// CartRepository persists one cart per user.
type CartRepository interface {
	// FindByUserID returns the user's cart, or an ObjectNotFoundError when none was saved.
	// Implementations bound to a transaction lock the cart until commit.
	FindByUserID(ctx context.Context, userID string) (*cart.Cart, error)

	// Save replaces the stored lines of the cart.
	Save(ctx context.Context, c *cart.Cart) error

	// DeleteByUserID removes the user's cart. Deleting a missing cart is not an error.
	DeleteByUserID(ctx context.Context, userID string) error
}
