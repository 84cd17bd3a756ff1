package orderrepo

import (
	"context"
	"errors"
	"time"

	"shopping/internal/core/domain/model/order"
	"shopping/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	locking bool
}

// NewGormOrderRepository creates a repository over db. With locking set, FindByID
// takes a row lock (SELECT ... FOR UPDATE); only use it inside a transaction.
func NewGormOrderRepository(db *gorm.DB, locking bool) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		locking: locking,
	}
}

// FindByID retrieves an order with its lines.
func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	query := r.db.WithContext(ctx)
	if r.locking {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := query.First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id)
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("position").
		Find(&dto.Items).Error; err != nil {
		return nil, err
	}

	return toDomain(dto)
}

// Save upserts the order row and replaces its lines.
func (r *GormOrderRepository) Save(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.ID() == "" {
		id, err := r.NextID(ctx)
		if err != nil {
			return err
		}
		if err = aggregate.AssignID(id); err != nil {
			return err
		}
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&dto).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", dto.ID).Delete(&OrderItemDTO{}).Error; err != nil {
			return err
		}
		if len(dto.Items) == 0 {
			return nil
		}
		return tx.Create(&dto.Items).Error
	})
}

// FindAll returns every order, oldest first.
func (r *GormOrderRepository) FindAll(ctx context.Context) ([]*order.Order, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

// FindByUserID returns the orders owned by userID, oldest first.
func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

// FindPendingPlacedBefore returns Pending orders placed before cutoff.
func (r *GormOrderRepository) FindPendingPlacedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ? AND order_date < ?", int(order.Pending), cutoff.UTC())
	})
}

// NextID issues a random UUID.
func (r *GormOrderRepository) NextID(_ context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (r *GormOrderRepository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("order_date, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
