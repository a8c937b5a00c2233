package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/logging"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/service"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/util"
)

type MenuHTTP struct {
	Svc *service.CatalogService
}

func (h *MenuHTTP) GetMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get_item")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_menu_item_failed", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.Svc.GetMenuItem(ctx, id)
	if err != nil {
		return serviceError(l, "get_menu_item_failed", err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) GetMenuItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get_items")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetMenuItems(ctx, offset, limit)
	if err != nil {
		return serviceError(l, "get_menu_items_failed", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.Meta(page, offset, limit, total),
	})
}

func (h *MenuHTTP) SearchMenuItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchMenuItems(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return serviceError(l, "search_menu_failed", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.Meta(page, offset, limit, total),
	})
}

func (h *MenuHTTP) CreateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.create_item")

	var req transport.CreateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_menu_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("create_menu_item_failed", "status", 400, "reason", "validation", "error", err)
		return err
	}

	item, err := h.Svc.CreateMenuItem(ctx, req)
	if err != nil {
		return serviceError(l, "create_menu_item_failed", err)
	}

	l.Info("create_menu_item_success", "menu_item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHTTP) UpdateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.update_item")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("update_menu_item_failed", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.UpdateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_menu_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_menu_item_failed", "status", 400, "reason", "validation", "error", err)
		return err
	}

	item, err := h.Svc.UpdateMenuItem(ctx, req, id)
	if err != nil {
		return serviceError(l, "update_menu_item_failed", err)
	}

	l.Info("update_menu_item_success", "menu_item_id", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) DeleteMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.delete_item")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("delete_menu_item_failed", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.DeleteMenuItem(ctx, id); err != nil {
		return serviceError(l, "delete_menu_item_failed", err)
	}

	l.Info("delete_menu_item_success", "menu_item_id", id)
	return c.NoContent(http.StatusNoContent)
}
