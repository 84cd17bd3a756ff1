// Package cartrepo persists shopping carts with GORM. A cart is one row in
// "carts" keyed by user id and one row per line in "cart_items".
package cartrepo

import (
	"time"

	"shopping/internal/core/domain/model/cart"
	"shopping/internal/core/domain/model/order"
)

// CartDTO is the database shape of a cart. The row exists so that a cart can be
// locked even while it has no lines.
type CartDTO struct {
	UserID    string        `gorm:"type:varchar(64);primaryKey"`
	UpdatedAt time.Time     `gorm:"not null"`
	Items     []CartItemDTO `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default "cart_dtos".
func (CartDTO) TableName() string {
	return "carts"
}

// CartItemDTO is one cart line.
type CartItemDTO struct {
	UserID      string `gorm:"type:varchar(64);primaryKey"`
	ProductID   string `gorm:"type:varchar(64);primaryKey"`
	Position    int    `gorm:"not null"`
	ProductName string `gorm:"type:varchar(255);not null"`
	UnitPrice   int64  `gorm:"not null"`
	Quantity    int    `gorm:"not null"`
}

// TableName overrides GORM's default "cart_item_dtos".
func (CartItemDTO) TableName() string {
	return "cart_items"
}

func fromDomain(c *cart.Cart) CartDTO {
	items := c.Items()
	dtos := make([]CartItemDTO, 0, len(items))
	for i, item := range items {
		dtos = append(dtos, CartItemDTO{
			UserID:      c.UserID(),
			ProductID:   item.ProductID(),
			Position:    i,
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice(),
			Quantity:    item.Quantity(),
		})
	}
	return CartDTO{UserID: c.UserID(), Items: dtos}
}

func toDomain(dto CartDTO) (*cart.Cart, error) {
	items := make([]order.Item, 0, len(dto.Items))
	for _, line := range dto.Items {
		item, err := order.NewItem(line.ProductID, line.ProductName, line.UnitPrice, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return cart.RestoreCart(dto.UserID, items)
}
