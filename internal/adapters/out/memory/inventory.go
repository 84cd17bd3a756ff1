package memory

import (
	"context"

	"shopping/internal/pkg/errs"
)

// Inventory implements ports.Inventory over the product records.
type Inventory struct {
	uow *UnitOfWork
}

func (i *Inventory) HasStock(_ context.Context, productID string, quantity int) (bool, error) {
	var ok bool
	err := i.uow.view(func(s *state) error {
		rec, found := s.products[productID]
		ok = found && rec.stock >= quantity
		return nil
	})
	return ok, err
}

func (i *Inventory) DecreaseStock(_ context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	return i.uow.view(func(s *state) error {
		rec, found := s.products[productID]
		if !found || rec.stock < quantity {
			return errs.NewInsufficientStockError(productID, quantity)
		}
		rec.stock -= quantity
		s.products[productID] = rec
		return nil
	})
}

func (i *Inventory) IncreaseStock(_ context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	return i.uow.view(func(s *state) error {
		rec, found := s.products[productID]
		if !found {
			return errs.NewObjectNotFoundError("productId", productID)
		}
		rec.stock += quantity
		s.products[productID] = rec
		return nil
	})
}

func (i *Inventory) StockLevel(_ context.Context, productID string) (int, error) {
	var stock int
	err := i.uow.view(func(s *state) error {
		rec, found := s.products[productID]
		if !found {
			return errs.NewObjectNotFoundError("productId", productID)
		}
		stock = rec.stock
		return nil
	})
	return stock, err
}
