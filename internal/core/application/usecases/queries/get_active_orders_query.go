// Package queries holds read-side use cases that bypass the aggregates and read
// order data in the shape the API needs.
package queries

import (
	"errors"
	"time"

	"shopping/internal/core/domain/model/kernel"
	"shopping/internal/core/domain/model/order"
	"shopping/internal/pkg/errs"
	"shopping/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery lists the orders that have not reached a terminal status.
// Only administrators may run it.
//
// Example:
//
//	query, err := queries.NewGetActiveOrdersQuery(actor)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery checks that actor is an administrator.
func NewGetActiveOrdersQuery(actor kernel.Actor) (GetActiveOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetActiveOrdersQuery{}, err
	}
	if !actor.IsAdmin() {
		return GetActiveOrdersQuery{}, errs.NewAccessDeniedError(actor.ID(), "active orders")
	}
	return GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// GetActiveOrdersQueryResponse summarizes one active order.
type GetActiveOrdersQueryResponse struct {
	ID         string
	UserID     string
	Status     order.Status
	TotalPrice int64
	ItemCount  int
	OrderDate  time.Time
}

// activeStatuses returns every status an order can still leave.
func activeStatuses() []order.Status {
	return []order.Status{order.Pending, order.Confirmed, order.Shipping}
}
