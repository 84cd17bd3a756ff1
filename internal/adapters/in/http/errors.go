package http

import (
	"errors"
	"net/http"

	"shopping/internal/core/domain/model/kernel"
	"shopping/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errs.IsValidation(err), errors.Is(err, kernel.ErrActorIsNotConstructed):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidState), errors.Is(err, errs.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, errs.ErrContention):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		message = http.StatusText(status)
	}
	if status == http.StatusServiceUnavailable {
		c.Response().Header().Set("Retry-After", "1")
	}

	return c.JSON(status, Error{
		Code:    status,
		Message: message,
	})
}
