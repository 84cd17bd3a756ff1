package ports

import "context"

// Inventory is the stock-keeping contract used by order workflows.
type Inventory interface {
	// HasStock reports whether at least quantity units of productID are available.
	// An unknown product has no stock.
	HasStock(ctx context.Context, productID string, quantity int) (bool, error)

	// DecreaseStock removes quantity units. It fails with an InsufficientStockError
	// rather than let stock drop below zero.
	DecreaseStock(ctx context.Context, productID string, quantity int) error

	// IncreaseStock returns quantity units to stock.
	IncreaseStock(ctx context.Context, productID string, quantity int) error

	// StockLevel returns the units on hand, or an ObjectNotFoundError for an unknown product.
	StockLevel(ctx context.Context, productID string) (int, error)
}
