package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/service"
)

const dateLayout = "2006-01-02"

type VoucherHTTP struct {
	Svc *service.VoucherService
}

func (h *VoucherHTTP) ListVouchers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "voucher.list_vouchers")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "list_vouchers", err)
	}
	vs, err := h.Svc.ListVouchers(ctx, caller.UserID)
	if err != nil {
		return respondError(l, "list_vouchers", err)
	}
	return c.JSON(http.StatusOK, vs)
}

func (h *VoucherHTTP) IssueVoucher(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "voucher.issue_voucher")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "issue_voucher", err)
	}

	discount, err := decimal.NewFromString(c.FormValue("discount"))
	if err != nil {
		return badRequest(l, "issue_voucher", "invalid discount", err)
	}
	start, err := time.Parse(dateLayout, c.FormValue("startDate"))
	if err != nil {
		return badRequest(l, "issue_voucher", "invalid startDate", err)
	}
	end, err := time.Parse(dateLayout, c.FormValue("endDate"))
	if err != nil {
		return badRequest(l, "issue_voucher", "invalid endDate", err)
	}
	limit, err := strconv.Atoi(c.FormValue("usageLimit"))
	if err != nil {
		return badRequest(l, "issue_voucher", "invalid usageLimit", err)
	}

	n, err := h.Svc.IssueVoucher(ctx, caller.UserID, service.VoucherInput{
		Code:       c.FormValue("code"),
		Discount:   discount,
		StartDate:  start,
		EndDate:    end,
		UsageLimit: limit,
	})
	if err != nil {
		return respondError(l, "issue_voucher", err)
	}

	l.Info("issue_voucher_success", "issued", n)
	return c.JSON(http.StatusCreated, map[string]int{"issued": n})
}

func (h *VoucherHTTP) DeleteVoucher(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "voucher.delete_voucher")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "delete_voucher", err)
	}
	n, err := h.Svc.DeleteVoucher(ctx, caller.UserID, c.Param("code"))
	if err != nil {
		return respondError(l, "delete_voucher", err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"deleted": n})
}
