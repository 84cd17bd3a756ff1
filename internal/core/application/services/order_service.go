package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"shopping/internal/core/domain/model/kernel"
	"shopping/internal/core/domain/model/order"
	"shopping/internal/core/ports"
	"shopping/internal/pkg/errs"
	"shopping/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Operation names used for metrics and logs.
const (
	OpPlaceOrder         = "place_order"
	OpPlaceOrderFromCart = "place_order_from_cart"
	OpConfirmOrder       = "confirm_order"
	OpShipOrder          = "ship_order"
	OpDeliverOrder       = "deliver_order"
	OpCancelOrder        = "cancel_order"
	OpAddItem            = "add_item"
	OpRemoveItem         = "remove_item"
	OpUpdateItemQuantity = "update_item_quantity"
	OpGetOrder           = "get_order"
	OpListOrders         = "list_orders"
	OpExpireOrders       = "expire_orders"
)

var (
	ErrUoWFactoryIsRequired = errors.New("order service requires a unit of work factory")
	ErrLockerIsRequired     = errors.New("order service requires a locker")
)

// OrderServiceDeps bundles the collaborators of OrderService.
// UoWFactory and Locker are required; the rest default to no-ops.
type OrderServiceDeps struct {
	UoWFactory UoWFactory
	Locker     Locker
	Events     ports.EventPublisher
	Clock      func() time.Time
	Logger     *zap.Logger
	Metrics    *metrics.OrderMetrics
}

// OrderService runs the order lifecycle use cases on behalf of an Actor.
//
// Users may act only on orders they own; administrators may act on any order.
// Each mutating call holds the per-order lock for its whole duration and commits
// stock changes and the order save in one unit of work, so a failed call leaves
// neither stock nor the order changed.
//
// Example:
//
//	svc, err := services.NewOrderService(services.OrderServiceDeps{
//	    UoWFactory: uowFactory,
//	    Locker:     keylock.New(3 * time.Second),
//	})
//	placed, err := svc.PlaceOrder(ctx, actor, actor.ID(), items)
//	confirmed, err := svc.ConfirmOrder(ctx, actor, placed.ID())
type OrderService struct {
	uowFactory UoWFactory
	locker     Locker
	events     ports.EventPublisher
	clock      func() time.Time
	logger     *zap.Logger
	metrics    *metrics.OrderMetrics
}

// NewOrderService validates deps and builds the service.
func NewOrderService(deps OrderServiceDeps) (*OrderService, error) {
	if deps.UoWFactory == nil {
		return nil, ErrUoWFactoryIsRequired
	}
	if deps.Locker == nil {
		return nil, ErrLockerIsRequired
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OrderService{
		uowFactory: deps.UoWFactory,
		locker:     deps.Locker,
		events:     deps.Events,
		clock:      clock,
		logger:     logger.Named("order_service"),
		metrics:    deps.Metrics,
	}, nil
}

// orderChange applies a domain change to a loaded, authorized order inside the
// caller's unit of work. Returning an error aborts the unit of work.
type orderChange func(ctx context.Context, uow UoW, o *order.Order) error

// PlaceOrder creates a Pending order for userID. A user may only place orders for
// themselves; an administrator may place orders for anyone. Lines for the same
// product are merged. Stock is not checked until the order is confirmed.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	actor kernel.Actor,
	userID string,
	items []order.Item,
) (placed *order.Order, err error) {
	defer func() { s.metrics.Observe(OpPlaceOrder, err) }()

	if err = actor.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errs.NewValueIsRequiredError("userId")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}
	if !actor.CanAccess(userID) {
		return nil, errs.NewAccessDeniedError(actor.ID(), "orders of user "+userID)
	}

	o, err := order.NewOrder(userID, items, s.now())
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Save(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", o.ID()),
		zap.String("user_id", o.UserID()),
		zap.String("actor_id", actor.ID()),
		zap.Int64("total", o.TotalPrice()),
	)
	return o, nil
}

// PlaceOrderFromCart turns the user's cart into a Pending order and empties the
// cart in the same unit of work. Lines are re-priced from the current catalog, so
// the order carries today's names and prices rather than those seen when the
// products were added. An empty or missing cart is rejected.
func (s *OrderService) PlaceOrderFromCart(
	ctx context.Context,
	actor kernel.Actor,
	userID string,
) (placed *order.Order, err error) {
	defer func() { s.metrics.Observe(OpPlaceOrderFromCart, err) }()

	if err = actor.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errs.NewValueIsRequiredError("userId")
	}
	if !actor.CanAccess(userID) {
		return nil, errs.NewAccessDeniedError(actor.ID(), "cart of user "+userID)
	}

	err = s.locker.WithLock(ctx, cartLockKey(userID), func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		carts := uow.Carts()
		c, err := carts.FindByUserID(ctx, userID)
		if errors.Is(err, errs.ErrObjectNotFound) || (err == nil && c.IsEmpty()) {
			return errs.NewValueIsRequiredError("cart")
		}
		if err != nil {
			return err
		}

		items, err := s.reprice(ctx, uow, c.Items())
		if err != nil {
			return err
		}

		o, err := order.NewOrder(userID, items, s.now())
		if err != nil {
			return err
		}
		if err = uow.OrderRepository().Save(ctx, o); err != nil {
			return err
		}
		if err = carts.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err = uow.Commit(ctx); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed from cart",
		zap.String("order_id", placed.ID()),
		zap.String("user_id", placed.UserID()),
		zap.String("actor_id", actor.ID()),
		zap.Int64("total", placed.TotalPrice()),
	)
	return placed, nil
}

// reprice snapshots each line again from the catalog. Products that left the
// catalog are reported together.
func (s *OrderService) reprice(ctx context.Context, uow UoW, lines []order.Item) ([]order.Item, error) {
	products := uow.Products()
	items := make([]order.Item, 0, len(lines))
	var lineErrs []error

	for _, line := range lines {
		p, err := products.FindByID(ctx, line.ProductID())
		if err != nil {
			lineErrs = append(lineErrs, err)
			continue
		}
		item, err := order.NewItemFromProduct(p, line.Quantity())
		if err != nil {
			lineErrs = append(lineErrs, err)
			continue
		}
		items = append(items, item)
	}

	if err := errors.Join(lineErrs...); err != nil {
		return nil, err
	}
	return items, nil
}

// ConfirmOrder reserves stock for every line and moves a Pending order to Confirmed.
//
// Stock is checked for all lines before any is decreased. If a line cannot be
// covered, an InsufficientStockError naming that product is returned and neither
// stock nor the order changes.
func (s *OrderService) ConfirmOrder(ctx context.Context, actor kernel.Actor, orderID string) (*order.Order, error) {
	return s.change(ctx, OpConfirmOrder, actor, orderID, func(ctx context.Context, uow UoW, o *order.Order) error {
		if o.Status() != order.Pending {
			return errs.NewInvalidStateError("confirm order", o.Status().String())
		}

		inventory := uow.Inventory()
		items := o.Items()

		for _, item := range items {
			ok, err := inventory.HasStock(ctx, item.ProductID(), item.Quantity())
			if err != nil {
				return err
			}
			if !ok {
				s.logger.Warn("insufficient stock to confirm order",
					zap.String("order_id", o.ID()),
					zap.String("actor_id", actor.ID()),
					zap.String("product_id", item.ProductID()),
					zap.Int("requested", item.Quantity()),
				)
				return errs.NewInsufficientStockError(item.ProductID(), item.Quantity())
			}
		}

		for _, item := range items {
			if err := inventory.DecreaseStock(ctx, item.ProductID(), item.Quantity()); err != nil {
				return err
			}
		}

		return o.ChangeStatus(order.Confirmed)
	})
}

// ShipOrder moves a Confirmed order to Shipping.
func (s *OrderService) ShipOrder(ctx context.Context, actor kernel.Actor, orderID string) (*order.Order, error) {
	return s.change(ctx, OpShipOrder, actor, orderID, func(_ context.Context, _ UoW, o *order.Order) error {
		if o.Status() != order.Confirmed {
			return errs.NewInvalidStateError("ship order", o.Status().String())
		}
		return o.ChangeStatus(order.Shipping)
	})
}

// DeliverOrder moves a Shipping order to Delivered.
func (s *OrderService) DeliverOrder(ctx context.Context, actor kernel.Actor, orderID string) (*order.Order, error) {
	return s.change(ctx, OpDeliverOrder, actor, orderID, func(_ context.Context, _ UoW, o *order.Order) error {
		if o.Status() != order.Shipping {
			return errs.NewInvalidStateError("deliver order", o.Status().String())
		}
		return o.ChangeStatus(order.Delivered)
	})
}

// CancelOrder cancels a Pending or Confirmed order. Cancelling a Confirmed order
// returns its reserved stock. Any other status, including Cancelled, is rejected,
// so a repeated cancel never restocks twice.
func (s *OrderService) CancelOrder(ctx context.Context, actor kernel.Actor, orderID string) (*order.Order, error) {
	return s.change(ctx, OpCancelOrder, actor, orderID, func(ctx context.Context, uow UoW, o *order.Order) error {
		return s.cancel(ctx, uow, o)
	})
}

// AddItem adds a line to a Pending order, merging with an existing line for the
// same product.
func (s *OrderService) AddItem(
	ctx context.Context,
	actor kernel.Actor,
	orderID string,
	item order.Item,
) (*order.Order, error) {
	return s.change(ctx, OpAddItem, actor, orderID, func(_ context.Context, _ UoW, o *order.Order) error {
		return o.AddItem(item)
	})
}

// RemoveItem removes the line for productID from a Pending order. Removing a
// product the order does not contain is an ObjectNotFoundError and saves nothing.
func (s *OrderService) RemoveItem(
	ctx context.Context,
	actor kernel.Actor,
	orderID, productID string,
) (*order.Order, error) {
	return s.change(ctx, OpRemoveItem, actor, orderID, func(_ context.Context, _ UoW, o *order.Order) error {
		removed, err := o.RemoveItemByProductID(productID)
		if err != nil {
			return err
		}
		if !removed {
			return errs.NewObjectNotFoundError("productId", productID)
		}
		return nil
	})
}

// UpdateItemQuantity sets the quantity of a line on a Pending order; zero or less
// removes it.
func (s *OrderService) UpdateItemQuantity(
	ctx context.Context,
	actor kernel.Actor,
	orderID, productID string,
	quantity int,
) (*order.Order, error) {
	return s.change(ctx, OpUpdateItemQuantity, actor, orderID, func(_ context.Context, _ UoW, o *order.Order) error {
		return o.UpdateItemQuantity(productID, quantity)
	})
}

// GetOrder returns the order if the actor may see it.
func (s *OrderService) GetOrder(ctx context.Context, actor kernel.Actor, orderID string) (found *order.Order, err error) {
	defer func() { s.metrics.Observe(OpGetOrder, err) }()

	if err = actor.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, errs.NewValueIsRequiredError("orderId")
	}

	uow := s.uowFactory.Create()
	return s.load(ctx, uow.OrderRepository(), actor, orderID)
}

// ListOrders returns every order for an administrator and only the actor's own
// orders for a user.
func (s *OrderService) ListOrders(ctx context.Context, actor kernel.Actor) (orders []*order.Order, err error) {
	defer func() { s.metrics.Observe(OpListOrders, err) }()

	if err = actor.Validate(); err != nil {
		return nil, err
	}

	repo := s.uowFactory.Create().OrderRepository()
	if actor.IsAdmin() {
		return repo.FindAll(ctx)
	}
	return repo.FindByUserID(ctx, actor.ID())
}

// ExpireStalePendingOrders cancels Pending orders placed more than olderThan ago.
// Only administrators may run it. Each order is cancelled in its own unit of work;
// an order that changed or is locked meanwhile is skipped. It returns the number
// of orders cancelled.
func (s *OrderService) ExpireStalePendingOrders(
	ctx context.Context,
	actor kernel.Actor,
	olderThan time.Duration,
) (expired int, err error) {
	defer func() { s.metrics.Observe(OpExpireOrders, err) }()

	if err = actor.Validate(); err != nil {
		return 0, err
	}
	if !actor.IsAdmin() {
		return 0, errs.NewAccessDeniedError(actor.ID(), "pending order expiry")
	}
	if olderThan <= 0 {
		return 0, errs.NewValueIsOutOfRangeError("olderThan", olderThan, time.Nanosecond, time.Duration(math.MaxInt64))
	}

	cutoff := s.now().Add(-olderThan)
	stale, err := s.uowFactory.Create().OrderRepository().FindPendingPlacedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	for _, candidate := range stale {
		_, cancelErr := s.change(ctx, OpCancelOrder, actor, candidate.ID(),
			func(ctx context.Context, uow UoW, o *order.Order) error {
				if o.Status() != order.Pending {
					return errs.NewInvalidStateError("expire order", o.Status().String())
				}
				return s.cancel(ctx, uow, o)
			})
		switch {
		case cancelErr == nil:
			expired++
		case errors.Is(cancelErr, errs.ErrInvalidState), errors.Is(cancelErr, errs.ErrContention):
			s.logger.Debug("skipping stale order", zap.String("order_id", candidate.ID()), zap.Error(cancelErr))
		default:
			return expired, cancelErr
		}
	}

	if expired > 0 {
		s.logger.Info("expired stale pending orders", zap.Int("count", expired), zap.Time("cutoff", cutoff))
	}
	return expired, nil
}

func (s *OrderService) cancel(ctx context.Context, uow UoW, o *order.Order) error {
	switch o.Status() {
	case order.Pending:
	case order.Confirmed:
		inventory := uow.Inventory()
		for _, item := range o.Items() {
			if err := inventory.IncreaseStock(ctx, item.ProductID(), item.Quantity()); err != nil {
				return err
			}
		}
	default:
		return errs.NewInvalidStateError("cancel order", o.Status().String())
	}
	return o.ChangeStatus(order.Cancelled)
}

// change is the shared mutating workflow: lock, begin, load, authorize, apply,
// save, commit. After a successful commit a status change is announced.
func (s *OrderService) change(
	ctx context.Context,
	op string,
	actor kernel.Actor,
	orderID string,
	apply orderChange,
) (changed *order.Order, err error) {
	defer func() { s.metrics.Observe(op, err) }()

	if err = actor.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, errs.NewValueIsRequiredError("orderId")
	}

	var from order.Status
	err = s.locker.WithLock(ctx, orderLockKey(orderID), func() error {
		uow := s.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		orders := uow.OrderRepository()
		o, err := s.load(ctx, orders, actor, orderID)
		if err != nil {
			return err
		}
		from = o.Status()

		if err = apply(ctx, uow, o); err != nil {
			return err
		}

		if err = orders.Save(ctx, o); err != nil {
			return err
		}

		if err = uow.Commit(ctx); err != nil {
			return err
		}

		changed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed.Status() != from {
		s.announce(ctx, actor, changed, from)
	}
	return changed, nil
}

func (s *OrderService) load(
	ctx context.Context,
	orders ports.OrderRepository,
	actor kernel.Actor,
	orderID string,
) (*order.Order, error) {
	o, err := orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(o.UserID()) {
		return nil, errs.NewAccessDeniedError(actor.ID(), "order "+orderID)
	}
	return o, nil
}

// announce records a committed status change. Publishing is best effort: the
// change is already durable, so a failure is only logged.
func (s *OrderService) announce(ctx context.Context, actor kernel.Actor, o *order.Order, from order.Status) {
	s.metrics.Transition(from.String(), o.Status().String())
	s.logger.Info("order status changed",
		zap.String("order_id", o.ID()),
		zap.String("actor_id", actor.ID()),
		zap.Stringer("from", from),
		zap.Stringer("to", o.Status()),
	)

	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, order.NewStatusChanged(o, from, s.now())); err != nil {
		s.logger.Error("failed to publish order status change",
			zap.String("order_id", o.ID()),
			zap.Error(err),
		)
	}
}

func (s *OrderService) now() time.Time {
	return s.clock().UTC()
}

func orderLockKey(orderID string) string {
	return "order:" + orderID
}
