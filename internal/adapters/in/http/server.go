// Package http exposes the order service over a JSON API built on echo. Callers
// identify themselves with the X-User-ID and X-User-Role headers.
package http

import (
	"context"

	"shopping/internal/core/application/services"
	"shopping/internal/core/application/usecases/queries"
	"shopping/internal/core/domain/model/kernel"
	"shopping/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// ActiveOrdersQueryHandler answers GetActiveOrdersQuery.
type ActiveOrdersQueryHandler interface {
	Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.GetActiveOrdersQueryResponse, error)
}

// Server handles the HTTP requests of the order API.
type Server struct {
	orders       *services.OrderService
	catalog      *services.CatalogService
	carts        *services.CartService
	activeOrders ActiveOrdersQueryHandler
	logger       *zap.Logger
}

// NewServer creates a new HTTP server over the application services.
func NewServer(
	orders *services.OrderService,
	catalog *services.CatalogService,
	carts *services.CartService,
	activeOrders ActiveOrdersQueryHandler,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		orders:       orders,
		catalog:      catalog,
		carts:        carts,
		activeOrders: activeOrders,
		logger:       logger.Named("http"),
	}
}

// Register mounts the API routes on e.
func (s *Server) Register(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.GET("/orders", s.ListOrders)
	v1.POST("/orders", s.PlaceOrder)
	v1.GET("/orders/active", s.GetActiveOrders)
	v1.GET("/orders/:orderId", s.GetOrder)
	v1.POST("/orders/:orderId/confirm", s.ConfirmOrder)
	v1.POST("/orders/:orderId/ship", s.ShipOrder)
	v1.POST("/orders/:orderId/deliver", s.DeliverOrder)
	v1.POST("/orders/:orderId/cancel", s.CancelOrder)
	v1.POST("/orders/:orderId/items", s.AddOrderItem)
	v1.PUT("/orders/:orderId/items/:productId", s.UpdateOrderItemQuantity)
	v1.DELETE("/orders/:orderId/items/:productId", s.RemoveOrderItem)

	v1.GET("/carts/:userId", s.GetCart)
	v1.DELETE("/carts/:userId", s.ClearCart)
	v1.POST("/carts/:userId/items", s.AddCartItem)
	v1.DELETE("/carts/:userId/items/:productId", s.RemoveCartItem)
	v1.POST("/carts/:userId/checkout", s.CheckoutCart)

	v1.POST("/products", s.RegisterProduct)
	v1.GET("/products/:productId", s.GetProduct)
	v1.POST("/products/:productId/stock", s.RestockProduct)
}

// actor builds the caller identity from the request headers.
func actor(c echo.Context) (kernel.Actor, error) {
	role, err := kernel.ParseRole(c.Request().Header.Get(HeaderUserRole))
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(c.Request().Header.Get(HeaderUserID), role)
}

func bind[T any](c echo.Context) (T, error) {
	var body T
	if err := c.Bind(&body); err != nil {
		return body, errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return body, nil
}
