package services

import (
	"context"
	"errors"

	"shopping/internal/core/domain/model/kernel"
	"shopping/internal/core/domain/model/order"
	"shopping/internal/core/domain/model/product"
	"shopping/internal/pkg/errs"

	"go.uber.org/zap"
)

// ProductQuantity asks for quantity units of a catalog product.
type ProductQuantity struct {
	ProductID string
	Quantity  int
}

// CatalogService manages catalog products and their stock, and turns product
// references into order lines priced at the current catalog price.
type CatalogService struct {
	uowFactory UoWFactory
	logger     *zap.Logger
}

// NewCatalogService creates a CatalogService. A nil logger is replaced by a no-op.
func NewCatalogService(uowFactory UoWFactory, logger *zap.Logger) (*CatalogService, error) {
	if uowFactory == nil {
		return nil, ErrUoWFactoryIsRequired
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		uowFactory: uowFactory,
		logger:     logger.Named("catalog_service"),
	}, nil
}

// RegisterProduct adds or replaces a catalog product. Administrators only.
func (s *CatalogService) RegisterProduct(
	ctx context.Context,
	actor kernel.Actor,
	id, name string,
	price int64,
	stock int,
) (*product.Product, error) {
	if err := s.requireAdmin(actor, "product catalog"); err != nil {
		return nil, err
	}

	p, err := product.NewProduct(id, name, price, stock)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.Products().Save(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("product registered", zap.String("product_id", p.ID()), zap.Int("stock", p.Stock()))
	return p, nil
}

// Restock adds quantity units to a product. Administrators only. The resulting
// stock may not exceed product.MaxStock. The product is locked for the whole unit
// of work, so concurrent stock changes are applied on top of the restock.
func (s *CatalogService) Restock(
	ctx context.Context,
	actor kernel.Actor,
	productID string,
	quantity int,
) (*product.Product, error) {
	if err := s.requireAdmin(actor, "product "+productID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	products := uow.Products()
	p, err := products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err = p.Restock(quantity); err != nil {
		return nil, err
	}

	if err = products.Save(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("product restocked",
		zap.String("product_id", p.ID()),
		zap.String("actor_id", actor.ID()),
		zap.Int("added", quantity),
		zap.Int("stock", p.Stock()),
	)
	return p, nil
}

// GetProduct returns a catalog product.
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*product.Product, error) {
	return s.uowFactory.Create().Products().FindByID(ctx, productID)
}

// ItemsFor snapshots each requested product at its current name and price.
// Unknown products are reported as ObjectNotFoundError; every invalid line is reported.
func (s *CatalogService) ItemsFor(ctx context.Context, lines []ProductQuantity) ([]order.Item, error) {
	if len(lines) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	products := s.uowFactory.Create().Products()
	items := make([]order.Item, 0, len(lines))
	var lineErrs []error

	for _, line := range lines {
		p, err := products.FindByID(ctx, line.ProductID)
		if err != nil {
			lineErrs = append(lineErrs, err)
			continue
		}
		item, err := order.NewItemFromProduct(p, line.Quantity)
		if err != nil {
			lineErrs = append(lineErrs, err)
			continue
		}
		items = append(items, item)
	}

	if err := errors.Join(lineErrs...); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *CatalogService) requireAdmin(actor kernel.Actor, resource string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return errs.NewAccessDeniedError(actor.ID(), resource)
	}
	return nil
}
