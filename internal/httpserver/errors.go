package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/flower_shop/internal/service"
)

// statusFor maps a service error onto an HTTP status. Zero means unknown.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrSignatureMismatch):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	}
	return 0
}

// upstreamMessage names the failing collaborator without its details.
func upstreamMessage(err error) string {
	for _, known := range []error{
		service.ErrShippingQuoteInvalid,
		service.ErrShippingQuoteFailed,
		service.ErrPaymentFailed,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return service.ErrUpstream.Error()
}

// respondError logs err under op and converts it to an echo error. Unknown
// errors become a bare 500.
func respondError(l *slog.Logger, op string, err error) error {
	status := statusFor(err)
	switch {
	case status == 0:
		l.Error(op+"_error", "status", http.StatusInternalServerError, "reason", "internal error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	case errors.Is(err, service.ErrSignatureMismatch):
		l.Warn(op+"_error", "status", status, "reason", "signature mismatch")
		return echo.NewHTTPError(status, "invalid signature")
	case status == http.StatusBadGateway:
		l.Error(op+"_error", "status", status, "reason", "upstream failure", "error", err)
		return echo.NewHTTPError(status, upstreamMessage(err))
	default:
		l.Warn(op+"_error", "status", status, "reason", err.Error())
		return echo.NewHTTPError(status, err.Error())
	}
}

func badRequest(l *slog.Logger, op, reason string, err error) error {
	l.Warn(op+"_error", "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}
