package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/service"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "get_cart", err)
	}
	sum, err := h.Svc.GetCart(ctx, caller.UserID)
	if err != nil {
		return respondError(l, "get_cart", err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "add_to_cart", err)
	}
	flowerID, err := parseUint(c.QueryParam("flowerId"))
	if err != nil {
		return badRequest(l, "add_to_cart", "flowerId "+err.Error(), err)
	}
	quantity, err := strconv.Atoi(c.QueryParam("quantity"))
	if err != nil {
		return badRequest(l, "add_to_cart", "quantity must be an integer", err)
	}

	if _, err := h.Svc.AddToCart(ctx, caller.UserID, flowerID, quantity); err != nil {
		return respondError(l, "add_to_cart", err)
	}
	sum, err := h.Svc.GetCart(ctx, caller.UserID)
	if err != nil {
		return respondError(l, "add_to_cart", err)
	}

	l.Info("add_to_cart_success", "flower_id", flowerID, "quantity", quantity)
	return c.JSON(http.StatusOK, sum)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_from_cart")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "remove_from_cart", err)
	}
	flowerID, err := parseUint(c.Param("flowerId"))
	if err != nil {
		return badRequest(l, "remove_from_cart", "flowerId "+err.Error(), err)
	}

	item, err := h.Svc.RemoveFromCart(ctx, caller.UserID, flowerID)
	if err != nil {
		return respondError(l, "remove_from_cart", err)
	}
	return c.JSON(http.StatusOK, item)
}
