package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"shopping/internal/core/domain/model/order"
	"shopping/internal/pkg/errs"

	"github.com/google/uuid"
)

// OrderRepository implements ports.OrderRepository. It stores and returns copies,
// so callers never share an *order.Order with the store.
type OrderRepository struct {
	uow *UnitOfWork
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*order.Order, error) {
	var found *order.Order
	err := r.uow.view(func(s *state) error {
		rec, ok := s.orders[id]
		if !ok {
			return errs.NewObjectNotFoundError("orderId", id)
		}
		found = rec.order.Clone()
		return nil
	})
	return found, err
}

func (r *OrderRepository) Save(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.ID() == "" {
		id, err := r.NextID(ctx)
		if err != nil {
			return err
		}
		if err = aggregate.AssignID(id); err != nil {
			return err
		}
	}

	return r.uow.view(func(s *state) error {
		rec, ok := s.orders[aggregate.ID()]
		if !ok {
			s.seq++
			rec.seq = s.seq
		}
		rec.order = aggregate.Clone()
		s.orders[aggregate.ID()] = rec
		return nil
	})
}

func (r *OrderRepository) FindAll(_ context.Context) ([]*order.Order, error) {
	return r.collect(func(*order.Order) bool { return true })
}

func (r *OrderRepository) FindByUserID(_ context.Context, userID string) ([]*order.Order, error) {
	return r.collect(func(o *order.Order) bool { return o.UserID() == userID })
}

func (r *OrderRepository) FindPendingPlacedBefore(_ context.Context, cutoff time.Time) ([]*order.Order, error) {
	return r.collect(func(o *order.Order) bool {
		return o.Status() == order.Pending && o.OrderDate().Before(cutoff)
	})
}

func (r *OrderRepository) NextID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// collect returns matching orders in insertion order.
func (r *OrderRepository) collect(match func(*order.Order) bool) ([]*order.Order, error) {
	var records []orderRecord
	err := r.uow.view(func(s *state) error {
		for _, rec := range s.orders {
			if match(rec.order) {
				records = append(records, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b orderRecord) int {
		return cmp.Compare(a.seq, b.seq)
	})

	orders := make([]*order.Order, 0, len(records))
	for _, rec := range records {
		orders = append(orders, rec.order.Clone())
	}
	return orders, nil
}
