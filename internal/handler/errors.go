package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/club-table-booking/internal/service"
)

// statusFor maps a service error onto an HTTP status.  Order matters for
// wrapped remote failures, which also carry their cause.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrDateUnavailable),
		errors.Is(err, service.ErrResourceAlreadyBooked),
		errors.Is(err, service.ErrEmailExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnknownResource), errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrCannotDeleteSelf):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrRemoteServiceFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes err as {"error": ...}.  Server-side failures are
// logged and their detail is not echoed to the client.
func handleError(c echo.Context, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err))
		msg = http.StatusText(status)
	}
	return c.JSON(status, echo.Map{"error": msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
