package services_test

import (
	"errors"
	"testing"
	"time"

	"shopping/internal/adapters/out/memory"
	"shopping/internal/core/application/services"
	"shopping/internal/core/domain/model/cart"
	"shopping/internal/core/domain/model/kernel"
	"shopping/internal/core/domain/model/order"
	"shopping/internal/core/domain/model/product"
	"shopping/internal/pkg/errs"
	"shopping/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T, f fixture, locker services.Locker) *services.CartService {
	t.Helper()
	svc, err := services.NewCartService(memoryUoWFactory{inner: memory.NewUnitOfWorkFactory(f.store)}, locker, nil)
	require.NoError(t, err)
	return svc
}

func TestNewCartService_RequiresDependencies(t *testing.T) {
	_, err := services.NewCartService(nil, passthroughLocker{}, nil)
	require.ErrorIs(t, err, services.ErrUoWFactoryIsRequired)

	_, err = services.NewCartService(new(MockUoWFactory), nil, nil)
	require.ErrorIs(t, err, services.ErrLockerIsRequired)
}

func TestCartService_AddRemoveAndClear(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t, keylock.New(time.Second), map[string]int{"P1": 5, "P2": 5})
	carts := newCartService(t, f, keylock.New(time.Second))

	empty, err := carts.GetCart(ctx, f.user1, "U1")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = carts.AddToCart(ctx, f.user1, "U1", "P1", 2)
	require.NoError(t, err)
	_, err = carts.AddToCart(ctx, f.user1, "U1", "P2", 1)
	require.NoError(t, err)
	c, err := carts.AddToCart(ctx, f.user1, "U1", "P1", 1)
	require.NoError(t, err)
	require.Len(t, c.Items(), 2)
	assert.Equal(t, 3, c.Items()[0].Quantity())
	assert.Equal(t, int64(400), c.TotalPrice())

	c, err = carts.RemoveFromCart(ctx, f.user1, "U1", "P2")
	require.NoError(t, err)
	assert.Len(t, c.Items(), 1)

	_, err = carts.RemoveFromCart(ctx, f.user1, "U1", "P2")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	require.NoError(t, carts.ClearCart(ctx, f.user1, "U1"))
	c, err = carts.GetCart(ctx, f.user1, "U1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	assert.Equal(t, 5, f.stock(t, "P1"), "carts do not reserve stock")
}

func TestCartService_RejectsInvalidRequests(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t, keylock.New(time.Second), map[string]int{"P1": 5})
	carts := newCartService(t, f, keylock.New(time.Second))

	testCases := []struct {
		name     string
		call     func() error
		expected error
	}{
		{
			name: "unknown product",
			call: func() error {
				_, err := carts.AddToCart(ctx, f.user1, "U1", "P9", 1)
				return err
			},
			expected: errs.ErrObjectNotFound,
		},
		{
			name: "zero quantity",
			call: func() error {
				_, err := carts.AddToCart(ctx, f.user1, "U1", "P1", 0)
				return err
			},
			expected: errs.ErrValueIsOutOfRange,
		},
		{
			name: "foreign cart",
			call: func() error {
				_, err := carts.GetCart(ctx, f.user2, "U1")
				return err
			},
			expected: errs.ErrAccessDenied,
		},
		{
			name: "foreign clear",
			call: func() error {
				return carts.ClearCart(ctx, f.user2, "U1")
			},
			expected: errs.ErrAccessDenied,
		},
		{
			name: "blank user",
			call: func() error {
				_, err := carts.AddToCart(ctx, f.admin, " ", "P1", 1)
				return err
			},
			expected: errs.ErrValueIsRequired,
		},
		{
			name: "unconstructed actor",
			call: func() error {
				_, err := carts.GetCart(ctx, kernel.Actor{}, "U1")
				return err
			},
			expected: kernel.ErrActorIsNotConstructed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.call(), tc.expected)
		})
	}

	c, err := carts.GetCart(ctx, f.admin, "U1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestScenario_PlaceOrderFromCart(t *testing.T) {
	ctx := t.Context()
	locker := keylock.New(time.Second)
	f := newFixture(t, locker, map[string]int{"P1": 5, "P2": 5})
	carts := newCartService(t, f, locker)

	_, err := carts.AddToCart(ctx, f.user1, "U1", "P1", 2)
	require.NoError(t, err)
	_, err = carts.AddToCart(ctx, f.user1, "U1", "P2", 1)
	require.NoError(t, err)

	repriced, err := product.NewProduct("P1", "Keyboard", 250, 5)
	require.NoError(t, err)
	f.store.SeedProduct(repriced)

	placed, err := f.service.PlaceOrderFromCart(ctx, f.user1, "U1")

	require.NoError(t, err)
	assert.Equal(t, order.Pending, placed.Status())
	assert.Equal(t, "U1", placed.UserID())
	require.Len(t, placed.Items(), 2)
	assert.Equal(t, "Keyboard", placed.Items()[0].ProductName())
	assert.Equal(t, int64(2*250+100), placed.TotalPrice())
	assert.Equal(t, 5, f.stock(t, "P1"), "stock is reserved on confirm")

	c, err := carts.GetCart(ctx, f.user1, "U1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = f.service.PlaceOrderFromCart(ctx, f.user1, "U1")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestScenario_PlaceOrderFromCartRejections(t *testing.T) {
	ctx := t.Context()
	locker := keylock.New(time.Second)
	f := newFixture(t, locker, map[string]int{"P1": 5})
	carts := newCartService(t, f, locker)

	_, err := carts.AddToCart(ctx, f.user1, "U1", "P1", 1)
	require.NoError(t, err)

	_, err = f.service.PlaceOrderFromCart(ctx, f.user2, "U1")
	require.ErrorIs(t, err, errs.ErrAccessDenied)

	stale, err := cart.RestoreCart("U1", []order.Item{line(t, "P1", 100, 1), line(t, "P9", 100, 1)})
	require.NoError(t, err)
	require.NoError(t, memory.NewUnitOfWorkFactory(f.store).Create().Carts().Save(ctx, stale))

	_, err = f.service.PlaceOrderFromCart(ctx, f.user1, "U1")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	c, err := carts.GetCart(ctx, f.user1, "U1")
	require.NoError(t, err)
	assert.Len(t, c.Items(), 2, "a failed checkout keeps the cart")

	orders, err := f.service.ListOrders(ctx, f.user1)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestScenario_LockedCartReportsContention(t *testing.T) {
	locker := keylock.New(20 * time.Millisecond)
	f := newFixture(t, locker, map[string]int{"P1": 5})
	carts := newCartService(t, f, locker)

	unlock, err := locker.Lock(t.Context(), "cart:U1")
	require.NoError(t, err)
	defer unlock()

	_, err = carts.AddToCart(t.Context(), f.user1, "U1", "P1", 1)
	require.ErrorIs(t, err, errs.ErrContention)

	_, err = f.service.PlaceOrderFromCart(t.Context(), f.user1, "U1")
	require.ErrorIs(t, err, errs.ErrContention)
}

func TestOrderService_PlaceOrderFromCart_DeleteErrorRollsBack(t *testing.T) {
	ctx := t.Context()
	m := newMockSet()
	cartRepo := new(MockCartRepository)
	products := new(MockProductRepository)

	c, err := cart.NewCart("U1")
	require.NoError(t, err)
	p, err := product.NewProduct("P1", "Keyboard", 100, 5)
	require.NoError(t, err)
	require.NoError(t, c.AddProduct(p, 2))

	mock.InOrder(
		m.factory.On("Create").Return(m.uow).Once(),
		m.uow.On("Begin", ctx).Return(nil).Once(),
		m.uow.On("Carts").Return(cartRepo).Once(),
		cartRepo.On("FindByUserID", ctx, "U1").Return(c, nil).Once(),
		m.uow.On("Products").Return(products).Once(),
		products.On("FindByID", ctx, "P1").Return(p, nil).Once(),
		m.uow.On("OrderRepository").Return(m.repo).Once(),
		m.repo.On("Save", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		cartRepo.On("DeleteByUserID", ctx, "U1").Return(errors.New("delete error")).Once(),
		m.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	svc := newMockedService(t, m, nil, nil)
	_, err = svc.PlaceOrderFromCart(ctx, actorFor(t, "U1", kernel.RoleUser), "U1")

	require.EqualError(t, err, "delete error")
	m.uow.AssertNotCalled(t, "Commit", ctx)
	cartRepo.AssertExpectations(t)
	products.AssertExpectations(t)
	m.assert(t)
}
