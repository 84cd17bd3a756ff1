package cartrepo

import (
	"context"
	"errors"

	"shopping/internal/core/domain/model/cart"
	"shopping/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements ports.CartRepository using GORM.
type GormCartRepository struct {
	db      *gorm.DB
	locking bool
}

// NewGormCartRepository creates a repository over db. With locking set,
// FindByUserID locks the cart row; only use it inside a transaction.
func NewGormCartRepository(db *gorm.DB, locking bool) *GormCartRepository {
	return &GormCartRepository{
		db:      db,
		locking: locking,
	}
}

// FindByUserID retrieves the cart with its lines.
func (r *GormCartRepository) FindByUserID(ctx context.Context, userID string) (*cart.Cart, error) {
	query := r.db.WithContext(ctx)
	if r.locking {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto CartDTO
	if err := query.First(&dto, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("cart", userID)
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position").
		Find(&dto.Items).Error; err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// Save upserts the cart row and replaces its lines.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&dto).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", dto.UserID).Delete(&CartItemDTO{}).Error; err != nil {
			return err
		}
		if len(dto.Items) == 0 {
			return nil
		}
		return tx.Create(&dto.Items).Error
	})
}

// DeleteByUserID removes the cart and its lines.
func (r *GormCartRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&CartItemDTO{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&CartDTO{}).Error
	})
}
