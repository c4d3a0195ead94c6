package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/service"
)

type SellerHTTP struct {
	Svc *service.SellerService
}

// RegisterSeller opens a shop for the caller. The seller role shows up in
// tokens issued after this call.
func (h *SellerHTTP) RegisterSeller(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.register")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "register_seller", err)
	}
	s, err := h.Svc.RegisterSeller(ctx, caller.UserID, c.FormValue("shopName"), c.FormValue("address"))
	if err != nil {
		return respondError(l, "register_seller", err)
	}

	l.Info("register_seller_success", "seller_id", s.ID)
	return c.JSON(http.StatusCreated, s)
}

func (h *SellerHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.me")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "seller_me", err)
	}
	s, err := h.Svc.GetSellerProfile(ctx, caller.UserID)
	if err != nil {
		return respondError(l, "seller_me", err)
	}
	return c.JSON(http.StatusOK, s)
}
