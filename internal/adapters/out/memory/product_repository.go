package memory

import (
	"context"

	"shopping/internal/core/domain/model/product"
	"shopping/internal/pkg/errs"
)

// ProductRepository implements ports.ProductRepository.
type ProductRepository struct {
	uow *UnitOfWork
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*product.Product, error) {
	var found *product.Product
	err := r.uow.view(func(s *state) error {
		rec, ok := s.products[id]
		if !ok {
			return errs.NewObjectNotFoundError("productId", id)
		}
		p, err := product.RestoreProduct(rec.id, rec.name, rec.price, rec.stock)
		if err != nil {
			return err
		}
		found = p
		return nil
	})
	return found, err
}

func (r *ProductRepository) Save(_ context.Context, p *product.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return r.uow.view(func(s *state) error {
		s.products[p.ID()] = toProductRecord(p)
		return nil
	})
}

func toProductRecord(p *product.Product) productRecord {
	return productRecord{
		id:    p.ID(),
		name:  p.Name(),
		price: p.Price(),
		stock: p.Stock(),
	}
}
