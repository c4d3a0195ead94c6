package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/flower_shop/internal/logging"
	"github.com/Skotchmaster/flower_shop/internal/service"
	"github.com/Skotchmaster/flower_shop/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func pageParams(c echo.Context) (int, int) {
	return util.ParseIntDefault(c.QueryParam("page"), 1), util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
}

func (h *CatalogHTTP) ListFlowers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_flowers")

	var categoryID uint
	if raw := c.QueryParam("categoryId"); raw != "" {
		id, err := parseUint(raw)
		if err != nil {
			return badRequest(l, "list_flowers", "categoryId "+err.Error(), err)
		}
		categoryID = id
	}

	page, size := pageParams(c)
	res, err := h.Svc.ListFlowers(ctx, categoryID, page, size)
	if err != nil {
		return respondError(l, "list_flowers", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) SearchFlowers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_flowers")

	page, size := pageParams(c)
	res, err := h.Svc.SearchFlowers(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return respondError(l, "search_flowers", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) GetFlower(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_flower")

	id, err := parseUint(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_flower", "id "+err.Error(), err)
	}
	f, err := h.Svc.GetFlower(ctx, id)
	if err != nil {
		return respondError(l, "get_flower", err)
	}
	return c.JSON(http.StatusOK, f)
}

func flowerInput(c echo.Context) (service.FlowerInput, error) {
	var in service.FlowerInput
	price, err := decimal.NewFromString(c.FormValue("price"))
	if err != nil {
		return in, err
	}
	qty, err := strconv.Atoi(c.FormValue("availableQuantity"))
	if err != nil {
		return in, err
	}
	if raw := c.FormValue("categoryId"); raw != "" {
		id, err := parseUint(raw)
		if err != nil {
			return in, err
		}
		in.CategoryID = id
	}
	in.Name = c.FormValue("name")
	in.Description = c.FormValue("description")
	in.Price = price
	in.AvailableQuantity = qty
	return in, nil
}

func (h *CatalogHTTP) CreateFlower(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_flower")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "create_flower", err)
	}
	in, err := flowerInput(c)
	if err != nil {
		return badRequest(l, "create_flower", "invalid flower form", err)
	}
	img, closeImg, err := formImage(c, "image")
	if err != nil {
		return badRequest(l, "create_flower", "invalid image", err)
	}
	defer closeImg()

	f, err := h.Svc.CreateFlower(ctx, caller, in, img)
	if err != nil {
		return respondError(l, "create_flower", err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *CatalogHTTP) UpdateFlower(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.update_flower")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "update_flower", err)
	}
	id, err := parseUint(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_flower", "id "+err.Error(), err)
	}
	in, err := flowerInput(c)
	if err != nil {
		return badRequest(l, "update_flower", "invalid flower form", err)
	}
	img, closeImg, err := formImage(c, "image")
	if err != nil {
		return badRequest(l, "update_flower", "invalid image", err)
	}
	defer closeImg()

	f, err := h.Svc.UpdateFlower(ctx, caller, id, in, img)
	if err != nil {
		return respondError(l, "update_flower", err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *CatalogHTTP) DeleteFlower(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_flower")

	caller, err := identity(c)
	if err != nil {
		return respondError(l, "delete_flower", err)
	}
	id, err := parseUint(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_flower", "id "+err.Error(), err)
	}
	if err := h.Svc.DeleteFlower(ctx, caller, id); err != nil {
		return respondError(l, "delete_flower", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return respondError(l, "list_categories", err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	cat, err := h.Svc.CreateCategory(ctx, c.FormValue("name"))
	if err != nil {
		return respondError(l, "create_category", err)
	}
	return c.JSON(http.StatusCreated, cat)
}
