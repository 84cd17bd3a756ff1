// Package services contains the order lifecycle use cases. Every mutating use case
// follows the same sequence: serialize on the order id, open a unit of work, load,
// authorize, apply the domain change, save, commit, then announce the change.
package services

import (
	"context"

	"shopping/internal/core/ports"
)

// Unit of Work interfaces narrowed to what the use cases need.
type (
	// TxManager handles transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides the order repository bound to a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// InventoryFactory provides the inventory bound to a transaction.
	InventoryFactory interface {
		Inventory() ports.Inventory
	}

	// ProductRepoFactory provides the product repository bound to a transaction.
	ProductRepoFactory interface {
		Products() ports.ProductRepository
	}

	// CartRepoFactory provides the cart repository bound to a transaction.
	CartRepoFactory interface {
		Carts() ports.CartRepository
	}

	// UoW spans orders and inventory so that stock changes and the order save
	// commit or roll back together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orders := uow.OrderRepository()
	//   stock := uow.Inventory()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		InventoryFactory
		ProductRepoFactory
		CartRepoFactory
	}

	// UoWFactory creates a unit of work per use case call.
	UoWFactory interface {
		Create() UoW
	}

	// Locker serializes work on a key with a bounded wait.
	Locker interface {
		WithLock(ctx context.Context, key string, fn func() error) error
	}
)
