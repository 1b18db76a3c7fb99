package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"microlend-engine/internal/adapter/middleware"
	"microlend-engine/internal/domain/apperr"
	"microlend-engine/internal/domain/uow"
)

// bind decodes the body into dst and validates it. It writes the error
// response itself and reports whether the handler should continue.
func bind(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(dst); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func actor(c echo.Context) string { return middleware.ActorID(c) }

// statusFor maps a domain error kind to its HTTP status.
func statusFor(err error) int {
	switch apperr.Kind(err) {
	case apperr.ErrValidation:
		return http.StatusUnprocessableEntity
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrInvalidState, apperr.ErrConflict:
		return http.StatusConflict
	case apperr.ErrUnauthorized:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeError maps domain errors → HTTP codes. Unknown errors are logged and hidden.
func writeError(c echo.Context, log *slog.Logger, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "err", err)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	if errors.Is(err, uow.ErrLoanBusy) {
		middleware.MarkRetryable(c)
	}
	var ae *apperr.Error
	msg := err.Error()
	if errors.As(err, &ae) {
		msg = ae.Error()
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}
