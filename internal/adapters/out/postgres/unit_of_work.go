// Package postgres provides a GORM-based Unit of Work over orders, order lines,
// products and carts.
//
// Repositories obtained from a GormUnitOfWork run inside its transaction when
// one is active and on the plain connection otherwise. Inside a transaction the
// order repository loads orders with SELECT ... FOR UPDATE, so two units of work
// changing the same order are serialized by the database as well as by the
// service's per-order lock.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	o, err := uow.OrderRepository().FindByID(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if err := uow.Inventory().DecreaseStock(ctx, "P1", 3); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Save(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
package postgres

import (
	"context"

	"shopping/internal/adapters/out/postgres/cartrepo"
	"shopping/internal/adapters/out/postgres/orderrepo"
	"shopping/internal/adapters/out/postgres/productrepo"
	"shopping/internal/core/ports"

	"gorm.io/gorm"
)

// Migrate creates or updates the tables used by this package.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&productrepo.ProductDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&cartrepo.CartDTO{},
		&cartrepo.CartItemDTO{},
	)
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Each business operation gets a fresh unit of work.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction across the order
// repository, the inventory, the product repository and the cart repository.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts a transaction. Calling Begin on an active unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction. It returns gorm.ErrInvalidTransaction when no
// transaction is active.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction when no
// transaction is active, which is the case after Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns an order repository bound to the current transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow.tx != nil)
}

// Inventory returns an inventory bound to the current transaction.
func (uow *GormUnitOfWork) Inventory() ports.Inventory {
	return productrepo.NewGormInventory(uow.conn())
}

// Products returns a product repository bound to the current transaction.
func (uow *GormUnitOfWork) Products() ports.ProductRepository {
	return productrepo.NewGormProductRepository(uow.conn(), uow.tx != nil)
}

// Carts returns a cart repository bound to the current transaction.
func (uow *GormUnitOfWork) Carts() ports.CartRepository {
	return cartrepo.NewGormCartRepository(uow.conn(), uow.tx != nil)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
