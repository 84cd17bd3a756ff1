package ports

import (
	"context"

	"shopping/internal/core/domain/model/product"
)

// ProductRepository persists catalog products and their stock.
type ProductRepository interface {
	// FindByID returns the product, or an ObjectNotFoundError.
	FindByID(ctx context.Context, id string) (*product.Product, error)

	// Save inserts or replaces the product.
	Save(ctx context.Context, p *product.Product) error
}
