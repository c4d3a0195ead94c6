package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/service"
)

type UserHTTP struct {
	Svc *service.UserService
}

// optional returns nil when the form field was not sent at all.
func optional(c echo.Context, name string) *string {
	if _, ok := c.Request().Form[name]; !ok {
		return nil
	}
	v := c.FormValue(name)
	return &v
}

func (h *UserHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_profile")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "get_profile", err)
	}
	info, err := h.Svc.GetProfile(ctx, caller.UserID)
	if err != nil {
		return respondError(l, "get_profile", err)
	}
	return c.JSON(http.StatusOK, info)
}

func (h *UserHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_profile")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "update_profile", err)
	}
	if _, err := c.FormParams(); err != nil {
		return badRequest(l, "update_profile", "invalid form", err)
	}

	in := service.ProfileInput{
		FullName: optional(c, "fullName"),
		Address:  optional(c, "address"),
		Sex:      optional(c, "sex"),
	}
	if raw := optional(c, "birthDate"); raw != nil && *raw != "" {
		d, err := time.Parse(dateLayout, *raw)
		if err != nil {
			return badRequest(l, "update_profile", "invalid birthDate", err)
		}
		in.BirthDate = &d
	}

	info, err := h.Svc.UpdateProfile(ctx, caller.UserID, in)
	if err != nil {
		return respondError(l, "update_profile", err)
	}
	return c.JSON(http.StatusOK, info)
}

func (h *UserHTTP) UploadAvatar(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.upload_avatar")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "upload_avatar", err)
	}
	img, closeImg, err := formImage(c, "avatar")
	if err != nil {
		return badRequest(l, "upload_avatar", "invalid avatar", err)
	}
	defer closeImg()
	if img == nil {
		return badRequest(l, "upload_avatar", "avatar is required", nil)
	}

	info, err := h.Svc.UploadAvatar(ctx, caller.UserID, *img)
	if err != nil {
		return respondError(l, "upload_avatar", err)
	}
	return c.JSON(http.StatusOK, info)
}

func (h *UserHTTP) ListAddresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list_addresses")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "list_addresses", err)
	}
	addrs, err := h.Svc.ListAddresses(ctx, caller.UserID)
	if err != nil {
		return respondError(l, "list_addresses", err)
	}
	return c.JSON(http.StatusOK, addrs)
}

func (h *UserHTTP) AddAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.add_address")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "add_address", err)
	}
	a, err := h.Svc.AddAddress(ctx, caller.UserID, c.FormValue("description"))
	if err != nil {
		return respondError(l, "add_address", err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_users")

	page, size := pageParams(c)
	res, err := h.Svc.ListUsers(ctx, page, size)
	if err != nil {
		return respondError(l, "list_users", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *UserHTTP) SetUserStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.set_user_status")

	id, err := parseUint(c.Param("id"))
	if err != nil {
		return badRequest(l, "set_user_status", "id "+err.Error(), err)
	}
	status := c.FormValue("status")
	if err := h.Svc.SetUserStatus(ctx, id, status); err != nil {
		return respondError(l, "set_user_status", err)
	}

	l.Info("set_user_status_success", "user_id", id, "status", status)
	return c.JSON(http.StatusOK, map[string]any{"id": id, "status": status})
}
