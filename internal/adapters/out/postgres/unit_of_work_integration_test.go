package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	postgres_adapter "shopping/internal/adapters/out/postgres"
	"shopping/internal/core/domain/model/cart"
	"shopping/internal/core/domain/model/order"
	"shopping/internal/core/domain/model/product"
	"shopping/internal/core/ports"
	"shopping/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the GORM unit of work against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest truncates all tables so tests do not see each other's rows.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE order_items, orders, products, cart_items, carts").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Begin on an active unit of work is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersistsOrderAndStock() {
	ctx := context.Background()
	suite.seedProduct("P1", 5)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder("U1", 3)
	suite.Require().NoError(uow.OrderRepository().Save(ctx, o))
	suite.Require().NoError(uow.Inventory().DecreaseStock(ctx, "P1", 3))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	found, err := reader.OrderRepository().FindByID(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(o.IsEqual(found))

	level, err := reader.Inventory().StockLevel(ctx, "P1")
	suite.Require().NoError(err)
	suite.Equal(2, level)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsOrderAndStock() {
	ctx := context.Background()
	suite.seedProduct("P1", 5)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder("U1", 3)
	suite.Require().NoError(uow.OrderRepository().Save(ctx, o))
	suite.Require().NoError(uow.Inventory().DecreaseStock(ctx, "P1", 3))
	suite.Require().NoError(uow.Rollback(ctx))

	reader := suite.factory.Create()
	_, err := reader.OrderRepository().FindByID(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	level, err := reader.Inventory().StockLevel(ctx, "P1")
	suite.Require().NoError(err)
	suite.Equal(5, level)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionIsolation() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder("U1", 1)
	suite.Require().NoError(uow.OrderRepository().Save(ctx, o))

	outside := suite.factory.Create()
	_, err := outside.OrderRepository().FindByID(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "uncommitted order must not be visible")

	suite.Require().NoError(uow.Commit(ctx))

	_, err = outside.OrderRepository().FindByID(ctx, o.ID())
	suite.Require().NoError(err)
}

// TestUnitOfWork_RowLockSerializesWriters checks that a second transaction loading
// the same order waits until the first one finishes.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RowLockSerializesWriters() {
	ctx := context.Background()
	o := suite.newOrder("U1", 1)
	suite.Require().NoError(suite.factory.Create().OrderRepository().Save(ctx, o))

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	locked, err := first.OrderRepository().FindByID(ctx, o.ID())
	suite.Require().NoError(err)

	loaded := make(chan order.Status, 1)
	go func() {
		second := suite.factory.Create()
		if beginErr := second.Begin(ctx); beginErr != nil {
			close(loaded)
			return
		}
		defer func() { _ = second.Rollback(ctx) }()
		found, findErr := second.OrderRepository().FindByID(ctx, o.ID())
		if findErr != nil {
			close(loaded)
			return
		}
		loaded <- found.Status()
	}()

	select {
	case <-loaded:
		suite.Fail("second transaction read a row locked by the first")
	case <-time.After(200 * time.Millisecond):
	}

	suite.Require().NoError(locked.ChangeStatus(order.Cancelled))
	suite.Require().NoError(first.OrderRepository().Save(ctx, locked))
	suite.Require().NoError(first.Commit(ctx))

	select {
	case status, ok := <-loaded:
		suite.Require().True(ok)
		suite.Equal(order.Cancelled, status)
	case <-time.After(5 * time.Second):
		suite.Fail("second transaction never acquired the row")
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestInventory_ConcurrentDecreasesNeverGoNegative() {
	ctx := context.Background()
	suite.seedProduct("P1", 5)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := suite.factory.Create()
			if err := uow.Begin(ctx); err != nil {
				return
			}
			defer func() { _ = uow.Rollback(ctx) }()
			if err := uow.Inventory().DecreaseStock(ctx, "P1", 1); err != nil {
				return
			}
			if err := uow.Commit(ctx); err != nil {
				return
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
		}()
	}
	wg.Wait()

	suite.Equal(5, succeeded)
	level, err := suite.factory.Create().Inventory().StockLevel(ctx, "P1")
	suite.Require().NoError(err)
	suite.Equal(0, level)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RestockKeepsConcurrentDecrease() {
	ctx := context.Background()
	suite.seedProduct("P1", 5)

	restock := suite.factory.Create()
	suite.Require().NoError(restock.Begin(ctx))
	defer func() { _ = restock.Rollback(ctx) }()
	p, err := restock.Products().FindByID(ctx, "P1")
	suite.Require().NoError(err)

	decreased := make(chan error, 1)
	go func() {
		confirm := suite.factory.Create()
		if beginErr := confirm.Begin(ctx); beginErr != nil {
			decreased <- beginErr
			return
		}
		defer func() { _ = confirm.Rollback(ctx) }()
		if decErr := confirm.Inventory().DecreaseStock(ctx, "P1", 3); decErr != nil {
			decreased <- decErr
			return
		}
		decreased <- confirm.Commit(ctx)
	}()

	select {
	case err = <-decreased:
		suite.Failf("decrease committed while the product was being restocked", "err: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	suite.Require().NoError(p.Restock(10))
	suite.Require().NoError(restock.Products().Save(ctx, p))
	suite.Require().NoError(restock.Commit(ctx))

	select {
	case err = <-decreased:
		suite.Require().NoError(err)
	case <-time.After(5 * time.Second):
		suite.Fail("decrease never acquired the row")
	}

	level, err := suite.factory.Create().Inventory().StockLevel(ctx, "P1")
	suite.Require().NoError(err)
	suite.Equal(12, level)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CheckoutCommitsOrderAndCartTogether() {
	ctx := context.Background()
	c, err := cart.NewCart("U1")
	suite.Require().NoError(err)
	p, err := product.NewProduct("P1", "Product P1", 100, 5)
	suite.Require().NoError(err)
	suite.Require().NoError(c.AddProduct(p, 2))
	suite.Require().NoError(suite.factory.Create().Carts().Save(ctx, c))

	failed := suite.factory.Create()
	suite.Require().NoError(failed.Begin(ctx))
	_, err = failed.Carts().FindByUserID(ctx, "U1")
	suite.Require().NoError(err)
	suite.Require().NoError(failed.OrderRepository().Save(ctx, suite.newOrder("U1", 2)))
	suite.Require().NoError(failed.Carts().DeleteByUserID(ctx, "U1"))
	suite.Require().NoError(failed.Rollback(ctx))

	_, err = suite.factory.Create().Carts().FindByUserID(ctx, "U1")
	suite.Require().NoError(err, "rolled back checkout keeps the cart")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	o := suite.newOrder("U1", 2)
	suite.Require().NoError(uow.OrderRepository().Save(ctx, o))
	suite.Require().NoError(uow.Carts().DeleteByUserID(ctx, "U1"))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	_, err = reader.Carts().FindByUserID(ctx, "U1")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	orders, err := reader.OrderRepository().FindByUserID(ctx, "U1")
	suite.Require().NoError(err)
	suite.Len(orders, 1)
}

func (suite *UnitOfWorkIntegrationTestSuite) seedProduct(id string, stock int) {
	p, err := product.NewProduct(id, "Product "+id, 100, stock)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().Products().Save(context.Background(), p))
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(userID string, quantity int) *order.Order {
	item, err := order.NewItem("P1", "Product P1", 100, quantity)
	suite.Require().NoError(err)
	o, err := order.NewOrder(userID, []order.Item{item}, time.Now())
	suite.Require().NoError(err)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
