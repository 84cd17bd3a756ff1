package productrepo

import (
	"context"
	"errors"

	"shopping/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormInventory implements ports.Inventory on the products table. Decrements are
// conditional updates, so stock cannot go negative even without a row lock.
type GormInventory struct {
	db *gorm.DB
}

// NewGormInventory creates an inventory over db.
func NewGormInventory(db *gorm.DB) *GormInventory {
	return &GormInventory{db: db}
}

// HasStock reports whether quantity units are on hand. Unknown products have none.
func (i *GormInventory) HasStock(ctx context.Context, productID string, quantity int) (bool, error) {
	var count int64
	err := i.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DecreaseStock removes quantity units or fails with an InsufficientStockError.
func (i *GormInventory) DecreaseStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}

	result := i.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewInsufficientStockError(productID, quantity)
	}
	return nil
}

// IncreaseStock returns quantity units to stock.
func (i *GormInventory) IncreaseStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}

	result := i.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("productId", productID)
	}
	return nil
}

// StockLevel returns the units on hand.
func (i *GormInventory) StockLevel(ctx context.Context, productID string) (int, error) {
	var dto ProductDTO
	err := i.db.WithContext(ctx).Select("stock").First(&dto, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errs.NewObjectNotFoundError("productId", productID)
		}
		return 0, err
	}
	return dto.Stock, nil
}
