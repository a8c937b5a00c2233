package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/logging"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/service"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) ViewCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.view")

	userID, err := currentUser(c, l, "view_cart_error")
	if err != nil {
		return err
	}

	view, err := h.Svc.ViewCart(ctx, userID)
	if err != nil {
		return serviceError(l, "view_cart_error", err)
	}

	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID, err := currentUser(c, l, "add_to_cart_error")
	if err != nil {
		return err
	}

	menuItemID, err := parseID(c, "menu_item_id")
	if err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "bad menu item id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.Svc.AddItem(ctx, userID, menuItemID)
	if err != nil {
		return serviceError(l, "add_to_cart_error", err)
	}

	l.Info("add_to_cart_success", "menu_item_id", menuItemID)
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := currentUser(c, l, "remove_from_cart_error")
	if err != nil {
		return err
	}

	menuItemID, err := parseID(c, "menu_item_id")
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "reason", "bad menu item id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.Svc.RemoveItem(ctx, userID, menuItemID)
	if err != nil {
		return serviceError(l, "remove_from_cart_error", err)
	}

	l.Info("remove_from_cart_success", "menu_item_id", menuItemID, "line_deleted", res.Deleted)
	return c.JSON(http.StatusOK, res)
}
