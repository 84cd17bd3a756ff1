package product

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"shopping/internal/pkg/errs"
	"shopping/internal/pkg/guard"
)

// MaxStock is the largest stock count a product may hold after a restock.
const MaxStock = 9999

// ErrProductIsNotConstructed is returned when a Product was not created via NewProduct.
var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Product is a catalog entry with its current stock.
//
// Example:
//
//	p, err := product.NewProduct("P1", "Keyboard", 10000, 5)
//	if err != nil {
//	    // Handle validation error
//	}
//	item, err := order.NewItemFromProduct(p, 2)
type Product struct {
	id    string
	name  string
	price int64
	stock int
	guard guard.ConstructorGuard
}

// NewProduct validates and creates a product.
func NewProduct(id, name string, price int64, stock int) (*Product, error) {
	p := &Product{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setPrice(price),
		p.setStock(stock),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreProduct rebuilds a product from persisted state. Stock only has to be
// non-negative: returning stock from a cancelled order may legitimately carry it
// past MaxStock.
func RestoreProduct(id, name string, price int64, stock int) (*Product, error) {
	p := &Product{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setPrice(price),
	); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, errs.NewValueIsOutOfRangeError("stock", stock, 0, math.MaxInt)
	}
	p.stock = stock

	return p, nil
}

// Validate ensures the Product was built by NewProduct.
func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

func (p *Product) ID() string {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Price() int64 {
	return p.price
}

func (p *Product) Stock() int {
	return p.stock
}

// Restock adds quantity units. The quantity must be positive and the result may
// not exceed MaxStock; on error the stock is unchanged.
func (p *Product) Restock(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxStock)
	}
	if p.stock+quantity > MaxStock {
		return errs.NewValueIsOutOfRangeErrorWithCause("stock", p.stock+quantity, 0, MaxStock,
			fmt.Errorf("restocking %s by %d exceeds the limit", p.id, quantity))
	}
	p.stock += quantity
	return nil
}

func (p *Product) setID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValueIsRequiredError("productId")
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("productName")
	}
	p.name = name
	return nil
}

func (p *Product) setPrice(price int64) error {
	if price <= 0 {
		return errs.NewValueIsOutOfRangeError("price", price, 1, int64(math.MaxInt64))
	}
	p.price = price
	return nil
}

func (p *Product) setStock(stock int) error {
	if stock < 0 || stock > MaxStock {
		return errs.NewValueIsOutOfRangeError("stock", stock, 0, MaxStock)
	}
	p.stock = stock
	return nil
}
