// Package memory provides in-process implementations of the persistence ports.
// They back the service when no database is configured and are used by the
// application tests.
//
// A unit of work takes the store lock on Begin and holds it until Commit or
// Rollback, so transactions are serialized. Work happens on a private copy of
// the state; Commit publishes the copy and Rollback drops it.
package memory

import (
	"context"
	"errors"
	"sync"

	"shopping/internal/core/domain/model/cart"
	"shopping/internal/core/domain/model/order"
	"shopping/internal/core/domain/model/product"
	"shopping/internal/core/ports"
)

// ErrNoActiveTransaction is returned by Commit and Rollback without a prior Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

type orderRecord struct {
	order *order.Order
	seq   uint64
}

type productRecord struct {
	id    string
	name  string
	price int64
	stock int
}

type state struct {
	orders   map[string]orderRecord
	products map[string]productRecord
	carts    map[string]*cart.Cart
	seq      uint64
}

func newState() *state {
	return &state{
		orders:   make(map[string]orderRecord),
		products: make(map[string]productRecord),
		carts:    make(map[string]*cart.Cart),
	}
}

func (s *state) clone() *state {
	c := &state{
		orders:   make(map[string]orderRecord, len(s.orders)),
		products: make(map[string]productRecord, len(s.products)),
		carts:    make(map[string]*cart.Cart, len(s.carts)),
		seq:      s.seq,
	}
	for id, rec := range s.orders {
		c.orders[id] = orderRecord{order: rec.order.Clone(), seq: rec.seq}
	}
	for id, rec := range s.products {
		c.products[id] = rec
	}
	for userID, stored := range s.carts {
		c.carts[userID] = stored.Clone()
	}
	return c
}

// Store is the shared in-memory database.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// UnitOfWorkFactory creates units of work over a Store.
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a factory bound to store.
func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create returns a fresh unit of work.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork implements ports.UnitOfWork. Repositories obtained before Begin
// read and write the store directly, one call at a time.
type UnitOfWork struct {
	store *Store
	tx    *state
}

// Begin locks the store and starts working on a copy of it. Calling Begin twice is a no-op.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	u.tx = u.store.state.clone()
	return nil
}

// Commit publishes the working copy and releases the store.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil {
		return ErrNoActiveTransaction
	}
	u.store.state = u.tx
	u.tx = nil
	u.store.mu.Unlock()
	return nil
}

// Rollback drops the working copy and releases the store.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil {
		return ErrNoActiveTransaction
	}
	u.tx = nil
	u.store.mu.Unlock()
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: u}
}

func (u *UnitOfWork) Inventory() ports.Inventory {
	return &Inventory{uow: u}
}

func (u *UnitOfWork) Products() ports.ProductRepository {
	return &ProductRepository{uow: u}
}

func (u *UnitOfWork) Carts() ports.CartRepository {
	return &CartRepository{uow: u}
}

// view runs fn against the transaction copy, or against the store under its lock
// when no transaction is active.
func (u *UnitOfWork) view(fn func(s *state) error) error {
	if u.tx != nil {
		return fn(u.tx)
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(u.store.state)
}

// SeedProduct stores p directly, outside of any transaction.
func (s *Store) SeedProduct(p *product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.products[p.ID()] = toProductRecord(p)
}

// StockLevel reads the committed stock of a product; ok is false for an unknown product.
func (s *Store) StockLevel(productID string) (stock int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.state.products[productID]
	return rec.stock, ok
}
