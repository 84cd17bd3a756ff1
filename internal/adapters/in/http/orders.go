package http

import (
	"context"
	"net/http"

	"shopping/internal/core/application/services"
	"shopping/internal/core/application/usecases/queries"
	"shopping/internal/core/domain/model/kernel"
	"shopping/internal/core/domain/model/order"
	"shopping/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	orders, err := s.orders.ListOrders(c.Request().Context(), caller)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrders(orders))
}

// PlaceOrder handles POST /api/v1/orders. Lines are priced from the catalog.
func (s *Server) PlaceOrder(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	body, err := bind[NewOrder](c)
	if err != nil {
		return s.fail(c, err)
	}

	userID := body.UserID
	if userID == "" {
		userID = caller.ID()
	}
	if !caller.CanAccess(userID) {
		return s.fail(c, errs.NewAccessDeniedError(caller.ID(), "orders of user "+userID))
	}

	lines := make([]services.ProductQuantity, len(body.Items))
	for i, item := range body.Items {
		lines[i] = services.ProductQuantity{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	ctx := c.Request().Context()
	items, err := s.catalog.ItemsFor(ctx, lines)
	if err != nil {
		return s.fail(c, err)
	}

	placed, err := s.orders.PlaceOrder(ctx, caller, userID, items)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toOrder(placed))
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetActiveOrdersQuery(caller)
	if err != nil {
		return s.fail(c, err)
	}

	rows, err := s.activeOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrderSummaries(rows))
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(c echo.Context) error {
	return s.orderAction(c, s.orders.GetOrder)
}

// ConfirmOrder handles POST /api/v1/orders/:orderId/confirm.
func (s *Server) ConfirmOrder(c echo.Context) error {
	return s.orderAction(c, s.orders.ConfirmOrder)
}

// ShipOrder handles POST /api/v1/orders/:orderId/ship.
func (s *Server) ShipOrder(c echo.Context) error {
	return s.orderAction(c, s.orders.ShipOrder)
}

// DeliverOrder handles POST /api/v1/orders/:orderId/deliver.
func (s *Server) DeliverOrder(c echo.Context) error {
	return s.orderAction(c, s.orders.DeliverOrder)
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	return s.orderAction(c, s.orders.CancelOrder)
}

// AddOrderItem handles POST /api/v1/orders/:orderId/items.
func (s *Server) AddOrderItem(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	body, err := bind[ItemRequest](c)
	if err != nil {
		return s.fail(c, err)
	}

	ctx := c.Request().Context()
	items, err := s.catalog.ItemsFor(ctx, []services.ProductQuantity{
		{ProductID: body.ProductID, Quantity: body.Quantity},
	})
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.orders.AddItem(ctx, caller, c.Param("orderId"), items[0])
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(updated))
}

// UpdateOrderItemQuantity handles PUT /api/v1/orders/:orderId/items/:productId.
func (s *Server) UpdateOrderItemQuantity(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	body, err := bind[QuantityRequest](c)
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.orders.UpdateItemQuantity(
		c.Request().Context(), caller, c.Param("orderId"), c.Param("productId"), body.Quantity,
	)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(updated))
}

// RemoveOrderItem handles DELETE /api/v1/orders/:orderId/items/:productId.
func (s *Server) RemoveOrderItem(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	updated, err := s.orders.RemoveItem(c.Request().Context(), caller, c.Param("orderId"), c.Param("productId"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(updated))
}

type orderFunc func(ctx context.Context, actor kernel.Actor, orderID string) (*order.Order, error)

func (s *Server) orderAction(c echo.Context, fn orderFunc) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := fn(c.Request().Context(), caller, c.Param("orderId"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toOrder(result))
}
