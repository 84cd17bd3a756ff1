package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterProduct handles POST /api/v1/products.
func (s *Server) RegisterProduct(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	body, err := bind[NewProduct](c)
	if err != nil {
		return s.fail(c, err)
	}

	p, err := s.catalog.RegisterProduct(c.Request().Context(), caller, body.ID, body.Name, body.Price, body.Stock)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, toProduct(p))
}

// GetProduct handles GET /api/v1/products/:productId.
func (s *Server) GetProduct(c echo.Context) error {
	p, err := s.catalog.GetProduct(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toProduct(p))
}

// RestockProduct handles POST /api/v1/products/:productId/stock.
func (s *Server) RestockProduct(c echo.Context) error {
	caller, err := actor(c)
	if err != nil {
		return s.fail(c, err)
	}

	body, err := bind[QuantityRequest](c)
	if err != nil {
		return s.fail(c, err)
	}

	p, err := s.catalog.Restock(c.Request().Context(), caller, c.Param("productId"), body.Quantity)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, toProduct(p))
}
