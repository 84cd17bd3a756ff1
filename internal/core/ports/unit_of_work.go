package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. Every change made
// through its repositories becomes visible on Commit or is discarded on Rollback.
type UnitOfWork interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback discards the current transaction. Without an active transaction,
	// including after Commit, it returns an error that deferred callers ignore.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// Inventory returns an Inventory bound to the current transaction.
	Inventory() Inventory

	// Products returns a ProductRepository bound to the current transaction.
	Products() ProductRepository

	// Carts returns a CartRepository bound to the current transaction.
	Carts() CartRepository
}
