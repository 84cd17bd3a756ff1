package queries

import (
	"context"
	"slices"
	"time"

	"shopping/internal/core/domain/model/order"
	"shopping/internal/core/ports"

	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler reads active orders straight from the database.
//
// Example:
//
//	handler := NewGetActiveOrdersQueryHandler(db)
//	orders, err := handler.Handle(ctx, query)
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler over a GORM connection.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns active orders, oldest first.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses := make([]int, 0, len(activeStatuses()))
	for _, s := range activeStatuses() {
		statuses = append(statuses, int(s))
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.user_id,
			o.status,
			o.total_price,
			o.order_date,
			COUNT(i.id) AS item_count
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		WHERE o.status IN ?
		GROUP BY o.id, o.user_id, o.status, o.total_price, o.order_date
		ORDER BY o.order_date, o.id
	`, statuses).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp      GetActiveOrdersQueryResponse
			status    int
			orderDate time.Time
		)

		if err = rows.Scan(
			&resp.ID,
			&resp.UserID,
			&status,
			&resp.TotalPrice,
			&orderDate,
			&resp.ItemCount,
		); err != nil {
			return nil, err
		}

		resp.Status = order.Status(status)
		if err = resp.Status.Validate(); err != nil {
			return nil, err
		}
		resp.OrderDate = orderDate.UTC()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// RepositoryActiveOrdersQueryHandler answers the same query from an order
// repository. It serves deployments without a database.
type RepositoryActiveOrdersQueryHandler struct {
	orders ports.OrderRepository
}

// NewRepositoryActiveOrdersQueryHandler creates a handler over an order repository.
func NewRepositoryActiveOrdersQueryHandler(orders ports.OrderRepository) RepositoryActiveOrdersQueryHandler {
	return RepositoryActiveOrdersQueryHandler{orders: orders}
}

// Handle returns active orders in the repository's order.
func (h RepositoryActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	all, err := h.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	active := activeStatuses()
	orders := make([]GetActiveOrdersQueryResponse, 0, len(all))
	for _, o := range all {
		if !slices.Contains(active, o.Status()) {
			continue
		}
		orders = append(orders, GetActiveOrdersQueryResponse{
			ID:         o.ID(),
			UserID:     o.UserID(),
			Status:     o.Status(),
			TotalPrice: o.TotalPrice(),
			ItemCount:  len(o.Items()),
			OrderDate:  o.OrderDate(),
		})
	}

	return orders, nil
}
