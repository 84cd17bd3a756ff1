// Package orderrepo persists order aggregates with GORM. An order is stored as one
// row in "orders" and one row per line in "order_items".
package orderrepo

import (
	"time"

	"shopping/internal/core/domain/model/order"
)

// OrderDTO is the database shape of an order aggregate.
type OrderDTO struct {
	ID         string         `gorm:"type:varchar(64);primaryKey"`
	UserID     string         `gorm:"type:varchar(64);not null;index"`
	Status     int            `gorm:"type:smallint;not null;index"`
	TotalPrice int64          `gorm:"not null"`
	OrderDate  time.Time      `gorm:"not null;index"`
	Items      []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default "order_dtos".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one order line. Position keeps the lines in the order the
// aggregate holds them.
type OrderItemDTO struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	OrderID     string `gorm:"type:varchar(64);not null;index"`
	Position    int    `gorm:"not null"`
	ProductID   string `gorm:"type:varchar(64);not null"`
	ProductName string `gorm:"type:varchar(255);not null"`
	UnitPrice   int64  `gorm:"not null"`
	Quantity    int    `gorm:"not null"`
}

// TableName overrides GORM's default "order_item_dtos".
func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	items := aggregate.Items()
	dtos := make([]OrderItemDTO, 0, len(items))
	for i, item := range items {
		dtos = append(dtos, OrderItemDTO{
			OrderID:     aggregate.ID(),
			Position:    i,
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice(),
			Quantity:    item.Quantity(),
		})
	}

	return OrderDTO{
		ID:         aggregate.ID(),
		UserID:     aggregate.UserID(),
		Status:     int(aggregate.Status()),
		TotalPrice: aggregate.TotalPrice(),
		OrderDate:  aggregate.OrderDate().UTC(),
		Items:      dtos,
	}
}

// toDomain rebuilds the aggregate; the total is recomputed from the lines.
func toDomain(dto OrderDTO) (*order.Order, error) {
	items := make([]order.Item, 0, len(dto.Items))
	for _, line := range dto.Items {
		item, err := order.NewItem(line.ProductID, line.ProductName, line.UnitPrice, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.RestoreOrder(dto.ID, dto.UserID, items, dto.OrderDate.UTC(), order.Status(dto.Status))
}
