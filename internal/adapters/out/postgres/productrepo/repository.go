package productrepo

import (
	"context"
	"errors"

	"shopping/internal/core/domain/model/product"
	"shopping/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ports.ProductRepository using GORM.
type GormProductRepository struct {
	db      *gorm.DB
	locking bool
}

// NewGormProductRepository creates a repository over db. With locking set, FindByID
// takes a row lock (SELECT ... FOR UPDATE) so a read-modify-Save cannot overwrite a
// concurrent stock update; only use it inside a transaction.
func NewGormProductRepository(db *gorm.DB, locking bool) *GormProductRepository {
	return &GormProductRepository{
		db:      db,
		locking: locking,
	}
}

// FindByID retrieves a product by ID.
func (r *GormProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	query := r.db.WithContext(ctx)
	if r.locking {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto ProductDTO
	if err := query.First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("productId", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Save inserts or replaces a product.
func (r *GormProductRepository) Save(ctx context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto := fromDomain(p)
	return r.db.WithContext(ctx).Save(&dto).Error
}
