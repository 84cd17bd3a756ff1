package memory

import (
	"context"

	"shopping/internal/core/domain/model/cart"
	"shopping/internal/pkg/errs"
)

// CartRepository implements ports.CartRepository. Carts are stored as copies so
// callers never share state with the store.
type CartRepository struct {
	uow *UnitOfWork
}

func (r *CartRepository) FindByUserID(_ context.Context, userID string) (*cart.Cart, error) {
	var found *cart.Cart
	err := r.uow.view(func(s *state) error {
		stored, ok := s.carts[userID]
		if !ok {
			return errs.NewObjectNotFoundError("cart", userID)
		}
		found = stored.Clone()
		return nil
	})
	return found, err
}

func (r *CartRepository) Save(_ context.Context, c *cart.Cart) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return r.uow.view(func(s *state) error {
		s.carts[c.UserID()] = c.Clone()
		return nil
	})
}

func (r *CartRepository) DeleteByUserID(_ context.Context, userID string) error {
	return r.uow.view(func(s *state) error {
		delete(s.carts, userID)
		return nil
	})
}
