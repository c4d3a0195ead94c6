package httpserver

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/flower_shop/internal/export"
	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/service"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

type CreateOrderRequest struct {
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "create_order", err)
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order", "invalid body", err)
	}

	orders, err := h.Svc.CreateOrder(ctx, caller, req.PhoneNumber, c.RealIP())
	if err != nil {
		return respondError(l, "create_order", err)
	}

	l.Info("create_order_success", "orders", len(orders))
	return c.JSON(http.StatusCreated, orders)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "list_orders", err)
	}
	orders, err := h.Svc.ListOrders(ctx, caller.UserID)
	if err != nil {
		return respondError(l, "list_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ListSellerOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_seller_orders")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "list_seller_orders", err)
	}
	orders, err := h.Svc.ListSellerOrders(ctx, caller.UserID)
	if err != nil {
		return respondError(l, "list_seller_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) ExportSellerOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.export_seller_orders")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "export_seller_orders", err)
	}

	var buf bytes.Buffer
	if err := h.Svc.ExportSellerOrders(ctx, caller.UserID, &buf); err != nil {
		return respondError(l, "export_seller_orders", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "orders.xlsx"))
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *OrderHTTP) UpdateDetailStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_detail_status")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "update_detail_status", err)
	}
	id, err := parseUint(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_detail_status", "id "+err.Error(), err)
	}

	d, err := h.Svc.UpdateDetailStatus(ctx, caller.UserID, id, c.FormValue("status"))
	if err != nil {
		return respondError(l, "update_detail_status", err)
	}
	return c.JSON(http.StatusOK, d)
}

