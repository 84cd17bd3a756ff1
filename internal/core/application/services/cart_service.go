package services

import (
	"context"
	"errors"
	"strings"

	"shopping/internal/core/domain/model/cart"
	"shopping/internal/core/domain/model/kernel"
	"shopping/internal/pkg/errs"

	"go.uber.org/zap"
)

// CartService keeps a cart per user. Users manage their own cart; administrators
// may manage any cart. Changes to one cart are serialized on the cart lock that
// checkout also takes.
type CartService struct {
	uowFactory UoWFactory
	locker     Locker
	logger     *zap.Logger
}

// NewCartService creates a CartService. A nil logger is replaced by a no-op.
func NewCartService(uowFactory UoWFactory, locker Locker, logger *zap.Logger) (*CartService, error) {
	if uowFactory == nil {
		return nil, ErrUoWFactoryIsRequired
	}
	if locker == nil {
		return nil, ErrLockerIsRequired
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		uowFactory: uowFactory,
		locker:     locker,
		logger:     logger.Named("cart_service"),
	}, nil
}

// GetCart returns the user's cart. A user without a saved cart gets an empty one.
func (s *CartService) GetCart(ctx context.Context, actor kernel.Actor, userID string) (*cart.Cart, error) {
	if err := s.authorize(actor, userID); err != nil {
		return nil, err
	}
	return findOrNewCart(ctx, s.uowFactory.Create(), userID)
}

// AddToCart adds quantity units of productID at the current catalog name and price.
func (s *CartService) AddToCart(
	ctx context.Context,
	actor kernel.Actor,
	userID, productID string,
	quantity int,
) (*cart.Cart, error) {
	if err := s.authorize(actor, userID); err != nil {
		return nil, err
	}

	p, err := s.uowFactory.Create().Products().FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.edit(ctx, userID, func(c *cart.Cart) error {
		return c.AddProduct(p, quantity)
	})
}

// RemoveFromCart drops the line for productID. A product that is not in the cart
// is an ObjectNotFoundError.
func (s *CartService) RemoveFromCart(
	ctx context.Context,
	actor kernel.Actor,
	userID, productID string,
) (*cart.Cart, error) {
	if err := s.authorize(actor, userID); err != nil {
		return nil, err
	}

	return s.edit(ctx, userID, func(c *cart.Cart) error {
		if !c.RemoveProduct(productID) {
			return errs.NewObjectNotFoundError("productId", productID)
		}
		return nil
	})
}

// ClearCart deletes the user's cart.
func (s *CartService) ClearCart(ctx context.Context, actor kernel.Actor, userID string) error {
	if err := s.authorize(actor, userID); err != nil {
		return err
	}

	return s.locker.WithLock(ctx, cartLockKey(userID), func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		if err := uow.Carts().DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := uow.Commit(ctx); err != nil {
			return err
		}

		s.logger.Info("cart cleared", zap.String("user_id", userID), zap.String("actor_id", actor.ID()))
		return nil
	})
}

// edit loads or creates the cart under the cart lock, applies fn and saves it.
func (s *CartService) edit(ctx context.Context, userID string, fn func(c *cart.Cart) error) (edited *cart.Cart, err error) {
	err = s.locker.WithLock(ctx, cartLockKey(userID), func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		c, err := findOrNewCart(ctx, uow, userID)
		if err != nil {
			return err
		}
		if err = fn(c); err != nil {
			return err
		}
		if err = uow.Carts().Save(ctx, c); err != nil {
			return err
		}
		if err = uow.Commit(ctx); err != nil {
			return err
		}

		edited = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("cart updated",
		zap.String("user_id", userID),
		zap.Int("lines", len(edited.Items())),
		zap.Int64("total", edited.TotalPrice()),
	)
	return edited, nil
}

func (s *CartService) authorize(actor kernel.Actor, userID string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(userID) == "" {
		return errs.NewValueIsRequiredError("userId")
	}
	if !actor.CanAccess(userID) {
		return errs.NewAccessDeniedError(actor.ID(), "cart of user "+userID)
	}
	return nil
}

func findOrNewCart(ctx context.Context, uow UoW, userID string) (*cart.Cart, error) {
	c, err := uow.Carts().FindByUserID(ctx, userID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return cart.NewCart(userID)
	}
	return c, err
}

func cartLockKey(userID string) string {
	return "cart:" + userID
}
