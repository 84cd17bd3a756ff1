// Package productrepo persists catalog products and serves stock reservations
// from the same "products" table.
package productrepo

import "shopping/internal/core/domain/model/product"

// ProductDTO is the database shape of a catalog product.
type ProductDTO struct {
	ID    string `gorm:"type:varchar(64);primaryKey"`
	Name  string `gorm:"type:varchar(255);not null"`
	Price int64  `gorm:"not null"`
	Stock int    `gorm:"not null;check:stock >= 0"`
}

// TableName overrides GORM's default "product_dtos".
func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		ID:    p.ID(),
		Name:  p.Name(),
		Price: p.Price(),
		Stock: p.Stock(),
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	return product.RestoreProduct(dto.ID, dto.Name, dto.Price, dto.Stock)
}
