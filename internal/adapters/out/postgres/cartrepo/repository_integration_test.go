package cartrepo_test

import (
	"context"
	"testing"

	"shopping/internal/adapters/out/postgres/cartrepo"
	"shopping/internal/core/domain/model/cart"
	"shopping/internal/core/domain/model/product"
	"shopping/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CartRepositoryIntegrationTestSuite covers cart persistence against PostgreSQL.
type CartRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *cartrepo.GormCartRepository
}

func (suite *CartRepositoryIntegrationTestSuite) SetupSuite() {
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

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&cartrepo.CartDTO{}, &cartrepo.CartItemDTO{}))
	suite.repository = cartrepo.NewGormCartRepository(db, false)
}

func (suite *CartRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE cart_items, carts").Error)
}

func (suite *CartRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *CartRepositoryIntegrationTestSuite) TestSave_ReplacesLinesInOrder() {
	ctx := context.Background()
	c := suite.cart("U1")
	suite.Require().NoError(c.AddProduct(suite.product("P2", 5000), 1))
	suite.Require().NoError(c.AddProduct(suite.product("P1", 10000), 2))
	suite.Require().NoError(suite.repository.Save(ctx, c))

	suite.True(c.RemoveProduct("P2"))
	suite.Require().NoError(c.AddProduct(suite.product("P3", 700), 3))
	suite.Require().NoError(suite.repository.Save(ctx, c))

	found, err := suite.repository.FindByUserID(ctx, "U1")
	suite.Require().NoError(err)
	items := found.Items()
	suite.Require().Len(items, 2)
	suite.Equal("P1", items[0].ProductID())
	suite.Equal("P3", items[1].ProductID())
	suite.Equal(int64(2*10000+3*700), found.TotalPrice())
}

func (suite *CartRepositoryIntegrationTestSuite) TestSave_EmptyCartIsKept() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Save(ctx, suite.cart("U1")))

	found, err := suite.repository.FindByUserID(ctx, "U1")
	suite.Require().NoError(err)
	suite.True(found.IsEmpty())
}

func (suite *CartRepositoryIntegrationTestSuite) TestDeleteByUserID() {
	ctx := context.Background()
	c := suite.cart("U1")
	suite.Require().NoError(c.AddProduct(suite.product("P1", 10000), 1))
	suite.Require().NoError(suite.repository.Save(ctx, c))
	suite.Require().NoError(suite.repository.Save(ctx, suite.cart("U2")))

	suite.Require().NoError(suite.repository.DeleteByUserID(ctx, "U1"))
	suite.Require().NoError(suite.repository.DeleteByUserID(ctx, "U1"))

	_, err := suite.repository.FindByUserID(ctx, "U1")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = suite.repository.FindByUserID(ctx, "U2")
	suite.Require().NoError(err)
}

func (suite *CartRepositoryIntegrationTestSuite) cart(userID string) *cart.Cart {
	c, err := cart.NewCart(userID)
	suite.Require().NoError(err)
	return c
}

func (suite *CartRepositoryIntegrationTestSuite) product(id string, price int64) *product.Product {
	p, err := product.NewProduct(id, "Product "+id, price, 10)
	suite.Require().NoError(err)
	return p
}

func TestCartRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CartRepositoryIntegrationTestSuite))
}
