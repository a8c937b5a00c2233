package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/events"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/repo"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
	"gorm.io/gorm"
)

// OrderDateFormat is DD/MM/YY.
const OrderDateFormat = "02/01/06"

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func OrderToView(o models.Order) transport.OrderView {
	view := transport.OrderView{
		ID:           o.ID,
		CustomerName: o.User.Username,
		OrderDate:    o.OrderDate.Format(OrderDateFormat),
		TotalAmount:  o.TotalAmount,
	}
	for _, l := range o.Lines {
		view.Lines = append(view.Lines, transport.OrderLineView{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
		})
	}
	return view
}

func (s *OrderService) ConfirmOrder(ctx context.Context, userID uint) (*transport.OrderView, error) {
	order, err := s.Repo.ConfirmCart(ctx, userID, s.now())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("cart: %w", ErrNotFound)
		case errors.Is(err, repo.ErrEmptyCart):
			return nil, fmt.Errorf("cart is empty: %w", ErrValidation)
		default:
			return nil, err
		}
	}

	if user, err := s.Repo.GetUserByID(ctx, userID); err == nil {
		order.User = *user
	}

	lines := make([]map[string]any, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, map[string]any{
			"menu_item_id": l.MenuItemID,
			"quantity":     l.Quantity,
			"unit_price":   l.UnitPrice.StringFixed(2),
		})
	}
	publishEvent(ctx, s.Events, events.TopicOrder, userID, map[string]any{
		"type":         "order_confirmed",
		"order_id":     order.ID,
		"user_id":      userID,
		"total_amount": order.TotalAmount.StringFixed(2),
		"lines":        lines,
	})

	view := OrderToView(*order)
	return &view, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]transport.OrderView, error) {
	orders, err := s.Repo.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]transport.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, OrderToView(o))
	}
	return views, nil
}

func (s *OrderService) ListAllOrders(ctx context.Context, offset, limit int) (int64, []transport.OrderView, error) {
	total, orders, err := s.Repo.ListOrders(ctx, offset, limit)
	if err != nil {
		return 0, nil, err
	}

	views := make([]transport.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, OrderToView(o))
	}
	return total, views, nil
}

func (s *OrderService) ExportAllOrders(ctx context.Context) ([]transport.ExportRow, error) {
	orders, err := s.Repo.AllOrders(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]transport.ExportRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, transport.ExportRow{
			OrderID:      o.ID,
			CustomerName: o.User.Username,
			OrderDate:    o.OrderDate,
			TotalAmount:  o.TotalAmount,
		})
	}
	return rows, nil
}

// ClearAllOrders removes the whole ledger. The caller must pass confirm=true.
func (s *OrderService) ClearAllOrders(ctx context.Context, adminID uint, confirm bool) (int64, error) {
	if !confirm {
		return 0, fmt.Errorf("clearing the order history requires confirm=true: %w", ErrValidation)
	}

	removed, err := s.Repo.DeleteAllOrders(ctx)
	if err != nil {
		return 0, err
	}

	publishEvent(ctx, s.Events, events.TopicOrder, adminID, map[string]any{
		"type":     "orders_cleared",
		"admin_id": adminID,
		"removed":  removed,
	})
	return removed, nil
}
