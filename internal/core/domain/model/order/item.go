package order

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"shopping/internal/pkg/errs"
	"shopping/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created via NewItem or NewItemFromProduct.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Product is the catalog view an Item is snapshotted from.
type Product interface {
	ID() string
	Name() string
	Price() int64
}

// Item is a single order line. Identity, name and unit price are fixed at order
// time; later catalog changes do not reach existing orders. Only the owning Order
// changes quantity.
//
// Two items are equal when they refer to the same product id.
type Item struct {
	productID   string
	productName string
	unitPrice   int64
	quantity    int
	guard       guard.ConstructorGuard
}

// NewItem validates and creates a line.
//
// Parameters:
//   - productID: catalog identifier, must not be blank
//   - productName: display name at order time, must not be blank
//   - unitPrice: price of one unit, must be positive
//   - quantity: number of units, must be at least 1
//
// Example:
//
//	item, err := order.NewItem("P1", "Keyboard", 10000, 2)
//	if err != nil {
//	    // Handle validation error
//	}
//	item.LineTotal() // 20000
func NewItem(productID, productName string, unitPrice int64, quantity int) (Item, error) {
	item := Item{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setProductID(productID),
		item.setProductName(productName),
		item.setUnitPrice(unitPrice),
		item.setQuantity(quantity),
	); err != nil {
		return Item{}, err
	}
	if err := item.checkLineTotal(); err != nil {
		return Item{}, err
	}

	return item, nil
}

// NewItemFromProduct snapshots the current name and price of a catalog product.
func NewItemFromProduct(product Product, quantity int) (Item, error) {
	if product == nil {
		return Item{}, errs.NewValueIsRequiredError("product")
	}
	return NewItem(product.ID(), product.Name(), product.Price(), quantity)
}

// Validate ensures the Item was built by a constructor.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) ProductID() string {
	return i.productID
}

func (i Item) ProductName() string {
	return i.productName
}

func (i Item) UnitPrice() int64 {
	return i.unitPrice
}

func (i Item) Quantity() int {
	return i.quantity
}

// LineTotal is unit price times quantity. Constructors reject lines whose total
// does not fit in an int64.
func (i Item) LineTotal() int64 {
	return i.unitPrice * int64(i.quantity)
}

// IsEqual compares lines by product id only.
func (i Item) IsEqual(other Item) bool {
	return i.productID == other.productID
}

func (i Item) String() string {
	return fmt.Sprintf("%s(%s) x%d @%d", i.productName, i.productID, i.quantity, i.unitPrice)
}

// withQuantity returns a copy of the line carrying a new quantity.
func (i Item) withQuantity(quantity int) (Item, error) {
	next := i
	if err := next.setQuantity(quantity); err != nil {
		return Item{}, err
	}
	if err := next.checkLineTotal(); err != nil {
		return Item{}, err
	}
	return next, nil
}

// checkLineTotal rejects a quantity whose line total would overflow int64.
func (i Item) checkLineTotal() error {
	maxQuantity := math.MaxInt64 / i.unitPrice
	if int64(i.quantity) > maxQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", i.quantity, 1, maxQuantity)
	}
	return nil
}

func (i *Item) setProductID(productID string) error {
	if strings.TrimSpace(productID) == "" {
		return errs.NewValueIsRequiredError("productId")
	}
	i.productID = productID
	return nil
}

func (i *Item) setProductName(productName string) error {
	if strings.TrimSpace(productName) == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	i.productName = productName
	return nil
}

func (i *Item) setUnitPrice(unitPrice int64) error {
	if unitPrice <= 0 {
		return errs.NewValueIsOutOfRangeError("unitPrice", unitPrice, 1, int64(math.MaxInt64))
	}
	i.unitPrice = unitPrice
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, math.MaxInt)
	}
	i.quantity = quantity
	return nil
}
