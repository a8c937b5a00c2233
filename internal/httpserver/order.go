package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/export"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/logging"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/service"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/util"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) ConfirmOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.confirm")

	userID, err := currentUser(c, l, "confirm_order_error")
	if err != nil {
		return err
	}

	order, err := h.Svc.ConfirmOrder(ctx, userID)
	if err != nil {
		return serviceError(l, "confirm_order_error", err)
	}

	l.Info("confirm_order_success", "order_id", order.ID, "total_amount", order.TotalAmount.StringFixed(2))
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	userID, err := currentUser(c, l, "list_orders_error")
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListOrders(ctx, userID)
	if err != nil {
		return serviceError(l, "list_orders_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{"data": orders})
}

func (h *OrderHTTP) ListAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_all")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.ListAllOrders(ctx, offset, limit)
	if err != nil {
		return serviceError(l, "list_all_orders_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": util.Meta(page, offset, limit, total),
	})
}

func (h *OrderHTTP) ExportOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.export")

	rows, err := h.Svc.ExportAllOrders(ctx)
	if err != nil {
		return serviceError(l, "export_orders_error", err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.Filename))
	res.WriteHeader(http.StatusOK)

	if err := export.WriteOrdersCSV(res, rows); err != nil {
		// headers are already sent
		l.Error("export_orders_error", "status", 500, "reason", "cannot write csv", "error", err)
		return nil
	}

	l.Info("export_orders_success", "rows", len(rows))
	return nil
}

func (h *OrderHTTP) ClearOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.clear_all")

	adminID, err := currentUser(c, l, "clear_orders_error")
	if err != nil {
		return err
	}

	var req transport.ClearOrdersRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("clear_orders_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	removed, err := h.Svc.ClearAllOrders(ctx, adminID, req.Confirm)
	if err != nil {
		return serviceError(l, "clear_orders_error", err)
	}

	l.Info("clear_orders_success", "removed", removed)
	return c.JSON(http.StatusOK, echo.Map{"removed": removed})
}
