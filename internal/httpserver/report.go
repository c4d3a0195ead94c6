package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/service"
)

type ReportHTTP struct {
	Svc *service.ReportService
}

func (h *ReportHTTP) CreateReport(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.create_report")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "create_report", err)
	}
	flowerID, err := parseUint(c.FormValue("flowerId"))
	if err != nil {
		return badRequest(l, "create_report", "flowerId "+err.Error(), err)
	}

	rep, err := h.Svc.CreateReport(ctx, caller.UserID, flowerID, c.FormValue("reason"), c.FormValue("description"))
	if err != nil {
		return respondError(l, "create_report", err)
	}
	return c.JSON(http.StatusCreated, rep)
}

func (h *ReportHTTP) UpdateReportStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.update_report_status")

	id, err := parseUint(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_report_status", "id "+err.Error(), err)
	}

	rep, err := h.Svc.UpdateReportStatus(ctx, id, c.FormValue("status"))
	if err != nil {
		return respondError(l, "update_report_status", err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *ReportHTTP) ListReports(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.list_reports")

	reps, err := h.Svc.ListReports(ctx, c.QueryParam("status"))
	if err != nil {
		return respondError(l, "list_reports", err)
	}
	return c.JSON(http.StatusOK, reps)
}
