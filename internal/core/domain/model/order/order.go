package order

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"shopping/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIDAlreadyAssigned is returned when AssignID is called on an order that has an id.
	ErrOrderIDAlreadyAssigned = errors.New("order id is already assigned")
)

// Order is the aggregate root for a customer purchase. It owns its lines, keeps the
// total in step with them and guards the lifecycle through Status.
//
// Order follows these invariants:
//   - userID is never blank and never changes
//   - lines are unique by product id
//   - totalPrice equals the sum of line totals after every mutation
//   - lines change only while the status is Pending
//   - status changes only along the transition table
//
// The id is empty until the repository assigns one on the first save.
type Order struct {
	// id is assigned once by the repository
	id string

	// userID is the owner of the order
	userID string

	// items keeps insertion order; product ids are unique
	items []Item

	// totalPrice is derived from items
	totalPrice int64

	// orderDate is the placement time
	orderDate time.Time

	// status is the current lifecycle state
	status Status

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a Pending order for userID from the given lines.
//
// Lines that share a product id are merged into the first one, summing quantities.
// A zero orderDate is replaced by the current time.
//
// Returns a validation error if userID is blank, no lines are given or any line
// was not built by NewItem.
//
// Example:
//
//	keyboard, _ := order.NewItem("P1", "Keyboard", 10000, 2)
//	more, _ := order.NewItem("P1", "Keyboard", 10000, 1)
//	mouse, _ := order.NewItem("P2", "Mouse", 5000, 3)
//	o, err := order.NewOrder("U1", []order.Item{keyboard, more, mouse}, time.Time{})
//	// o.Items() has two lines, o.TotalPrice() == 45000
func NewOrder(userID string, items []Item, orderDate time.Time) (*Order, error) {
	order := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setUserID(userID),
		order.setItems(items, true),
		order.setOrderDate(orderDate),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder rebuilds an order from persisted state. Unlike NewOrder it accepts an
// existing id, any valid status and an empty line list (all lines may have been removed
// while the order was pending).
func RestoreOrder(id, userID string, items []Item, orderDate time.Time, status Status) (*Order, error) {
	order := &Order{
		id:            id,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setUserID(userID),
		order.setItems(items, false),
		order.setOrderDate(orderDate),
		order.setStatus(status),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by id. Orders without an id are never equal.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id != "" && o.id == other.id
}

func (o *Order) ID() string {
	return o.id
}

func (o *Order) UserID() string {
	return o.userID
}

// Items returns a copy of the lines in insertion order.
func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

func (o *Order) TotalPrice() int64 {
	return o.totalPrice
}

func (o *Order) OrderDate() time.Time {
	return o.orderDate
}

func (o *Order) Status() Status {
	return o.status
}

// IsOwnedBy reports whether userID placed the order.
func (o *Order) IsOwnedBy(userID string) bool {
	return o.userID == userID
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	clone := *o
	clone.items = slices.Clone(o.items)
	return &clone
}

// AssignID sets the identifier. It can be called only once, by the repository.
func (o *Order) AssignID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValueIsRequiredError("orderId")
	}
	if o.id != "" {
		return ErrOrderIDAlreadyAssigned
	}
	o.id = id
	return nil
}

// AddItem appends a line, or merges its quantity into an existing line for the same
// product. The order must be Pending.
func (o *Order) AddItem(item Item) error {
	if err := o.requireModifiable(); err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return err
	}

	items, err := mergeItem(slices.Clone(o.items), item)
	if err != nil {
		return err
	}
	return o.replaceItems(items)
}

// RemoveItemByProductID removes the line for productID. It reports whether a line
// was removed. The order must be Pending.
func (o *Order) RemoveItemByProductID(productID string) (bool, error) {
	if err := o.requireModifiable(); err != nil {
		return false, err
	}

	if o.indexOf(productID) < 0 {
		return false, nil
	}

	items := slices.DeleteFunc(slices.Clone(o.items), func(i Item) bool {
		return i.productID == productID
	})
	if err := o.replaceItems(items); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateItemQuantity sets the quantity of the line for productID. A quantity of zero
// or less removes the line. The order must be Pending.
//
// Returns:
//   - nil on success, including removal of a line that was not present
//   - an ObjectNotFoundError when quantity is positive and no line matches
//   - an InvalidStateError when the order is not Pending
func (o *Order) UpdateItemQuantity(productID string, quantity int) error {
	if err := o.requireModifiable(); err != nil {
		return err
	}

	if quantity <= 0 {
		_, err := o.RemoveItemByProductID(productID)
		return err
	}

	idx := o.indexOf(productID)
	if idx < 0 {
		return errs.NewObjectNotFoundError("productId", productID)
	}

	updated, err := o.items[idx].withQuantity(quantity)
	if err != nil {
		return err
	}
	items := slices.Clone(o.items)
	items[idx] = updated
	return o.replaceItems(items)
}

// ChangeStatus moves the order to next.
//
// Behavior:
//   - an invalid next status is a validation error
//   - next equal to the current status succeeds without effect while idempotent
//     transitions are enabled, and is an InvalidStateError otherwise
//   - any other pair must appear in the transition table, else InvalidStateError
//
// Example:
//
//	if err := o.ChangeStatus(order.Confirmed); err != nil {
//	    // errors.Is(err, errs.ErrInvalidState)
//	}
func (o *Order) ChangeStatus(next Status) error {
	if err := next.Validate(); err != nil {
		return err
	}

	if !o.status.CanTransitionTo(next) {
		if o.status == next {
			return errs.NewInvalidStateErrorWithCause(
				"change status", o.status.String(),
				fmt.Errorf("repeating transition %s -> %s is not allowed", o.status, next),
			)
		}
		return errs.NewInvalidStateErrorWithCause(
			"change status", o.status.String(),
			fmt.Errorf("transition %s -> %s is not allowed", o.status, next),
		)
	}

	o.status = next
	return nil
}

func (o *Order) String() string {
	return fmt.Sprintf("Order[id=%s, user=%s, total=%d, date=%s, status=%s]",
		o.id, o.userID, o.totalPrice, o.orderDate.Format(time.RFC3339), o.status.DisplayName())
}

// requireModifiable rejects line changes outside of Pending.
func (o *Order) requireModifiable() error {
	if o.status != Pending {
		return errs.NewInvalidStateError("modify items", o.status.String())
	}
	return nil
}

func (o *Order) indexOf(productID string) int {
	return slices.IndexFunc(o.items, func(i Item) bool {
		return i.productID == productID
	})
}

// mergeItem appends item to items or adds its quantity to the line for the same product.
func mergeItem(items []Item, item Item) ([]Item, error) {
	idx := slices.IndexFunc(items, func(i Item) bool {
		return i.productID == item.productID
	})
	if idx < 0 {
		return append(items, item), nil
	}

	existing := items[idx].quantity
	if item.quantity > math.MaxInt-existing {
		return nil, errs.NewValueIsOutOfRangeError("quantity", item.quantity, 1, math.MaxInt-existing)
	}
	merged, err := items[idx].withQuantity(existing + item.quantity)
	if err != nil {
		return nil, err
	}
	items[idx] = merged
	return items, nil
}

// replaceItems installs items and their total together. An order total that would
// overflow int64 is rejected and leaves the order unchanged.
func (o *Order) replaceItems(items []Item) error {
	var total int64
	for _, item := range items {
		line := item.LineTotal()
		if total > math.MaxInt64-line {
			return errs.NewValueIsOutOfRangeError("totalPrice", "overflow", 0, int64(math.MaxInt64))
		}
		total += line
	}

	o.items = items
	o.totalPrice = total
	return nil
}

func (o *Order) setUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errs.NewValueIsRequiredError("userId")
	}
	o.userID = userID
	return nil
}

// setItems validates and merges the initial lines. requireLines rejects an empty list.
func (o *Order) setItems(items []Item, requireLines bool) error {
	if requireLines && len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	merged := make([]Item, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		var err error
		if merged, err = mergeItem(merged, item); err != nil {
			return err
		}
	}
	return o.replaceItems(merged)
}

func (o *Order) setOrderDate(orderDate time.Time) error {
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}
	o.orderDate = orderDate
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
