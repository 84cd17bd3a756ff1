package cart

import (
	"errors"
	"math"
	"slices"
	"strings"

	"shopping/internal/core/domain/model/order"
	"shopping/internal/pkg/errs"
)

// ErrCartIsNotConstructed is returned when a Cart was not created via NewCart or RestoreCart.
var ErrCartIsNotConstructed = errors.New("Cart must be created via NewCart constructor")

// Cart collects products a user intends to order. Lines are order.Item snapshots
// taken when a product is added.
type Cart struct {
	userID     string
	items      []order.Item
	totalPrice int64

	isConstructed bool
}

// NewCart creates an empty cart for userID.
func NewCart(userID string) (*Cart, error) {
	return RestoreCart(userID, nil)
}

// RestoreCart rebuilds a cart from persisted lines, merging duplicates.
func RestoreCart(userID string, items []order.Item) (*Cart, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errs.NewValueIsRequiredError("userId")
	}

	c := &Cart{userID: userID, isConstructed: true}
	lines := make([]order.Item, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		var err error
		if lines, err = merge(lines, item); err != nil {
			return nil, err
		}
	}
	if err := c.replaceItems(lines); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate ensures the Cart was built by a constructor.
func (c *Cart) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCartIsNotConstructed
	}
	return nil
}

func (c *Cart) UserID() string {
	return c.userID
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []order.Item {
	return slices.Clone(c.items)
}

func (c *Cart) TotalPrice() int64 {
	return c.totalPrice
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// AddProduct adds quantity units of p. A product already in the cart gets the
// quantities summed and its name and price refreshed from p.
func (c *Cart) AddProduct(p order.Product, quantity int) error {
	item, err := order.NewItemFromProduct(p, quantity)
	if err != nil {
		return err
	}

	items, err := merge(slices.Clone(c.items), item)
	if err != nil {
		return err
	}
	return c.replaceItems(items)
}

// RemoveProduct drops the line for productID and reports whether there was one.
func (c *Cart) RemoveProduct(productID string) bool {
	before := len(c.items)
	items := slices.DeleteFunc(slices.Clone(c.items), func(i order.Item) bool {
		return i.ProductID() == productID
	})
	if len(items) == before {
		return false
	}
	// Removing a line can only lower the total.
	_ = c.replaceItems(items)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
	c.totalPrice = 0
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.items = slices.Clone(c.items)
	return &clone
}

func (c *Cart) replaceItems(items []order.Item) error {
	var total int64
	for _, item := range items {
		line := item.LineTotal()
		if total > math.MaxInt64-line {
			return errs.NewValueIsOutOfRangeError("totalPrice", "overflow", 0, int64(math.MaxInt64))
		}
		total += line
	}
	c.items = items
	c.totalPrice = total
	return nil
}

func merge(items []order.Item, item order.Item) ([]order.Item, error) {
	idx := slices.IndexFunc(items, func(i order.Item) bool {
		return i.IsEqual(item)
	})
	if idx < 0 {
		return append(items, item), nil
	}

	existing := items[idx].Quantity()
	if item.Quantity() > math.MaxInt-existing {
		return nil, errs.NewValueIsOutOfRangeError("quantity", item.Quantity(), 1, math.MaxInt-existing)
	}
	merged, err := order.NewItem(item.ProductID(), item.ProductName(), item.UnitPrice(), existing+item.Quantity())
	if err != nil {
		return nil, err
	}
	items[idx] = merged
	return items, nil
}
