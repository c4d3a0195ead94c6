package httpserver

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/service"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

// VNPayReturn is where the gateway redirects the buyer after payment.
func (h *PaymentHTTP) VNPayReturn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.vnpay_return")

	res, err := h.Svc.HandleReturn(ctx, c.QueryParams())
	if err != nil {
		return respondError(l, "vnpay_return", err)
	}
	return c.JSON(http.StatusOK, res)
}

const maxWebhookBody = 64 << 10

// StripeWebhook receives payment intent events signed with the endpoint secret.
func (h *PaymentHTTP) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.stripe_webhook")

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		l.Warn("stripe_webhook_error", "status", 400, "reason", "read body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.HandleStripeWebhook(ctx, payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		return respondError(l, "stripe_webhook", err)
	}
	if res == nil {
		return c.JSON(http.StatusOK, map[string]bool{"received": true})
	}
	return c.JSON(http.StatusOK, res)
}
