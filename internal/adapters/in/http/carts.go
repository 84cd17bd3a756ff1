package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetCart handles GET /api/v1/carts/:userId.
func (s *Server) GetCart(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	cart, err := s.carts.GetCart(c.Request().Context(), caller, c.Param("userId"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toCart(cart))
}

// AddCartItem handles POST /api/v1/carts/:userId/items.
func (s *Server) AddCartItem(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	body, err := bind[ItemRequest](c)
	if err != nil {
		return s.fail(c, err)
	}

	cart, err := s.carts.AddToCart(c.Request().Context(), caller, c.Param("userId"), body.ProductID, body.Quantity)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toCart(cart))
}

// RemoveCartItem handles DELETE /api/v1/carts/:userId/items/:productId.
func (s *Server) RemoveCartItem(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	cart, err := s.carts.RemoveFromCart(c.Request().Context(), caller, c.Param("userId"), c.Param("productId"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toCart(cart))
}

// ClearCart handles DELETE /api/v1/carts/:userId.
func (s *Server) ClearCart(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.carts.ClearCart(c.Request().Context(), caller, c.Param("userId")); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// CheckoutCart handles POST /api/v1/carts/:userId/checkout.
func (s *Server) CheckoutCart(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	placed, err := s.orders.PlaceOrderFromCart(c.Request().Context(), caller, c.Param("userId"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toOrder(placed))
}
