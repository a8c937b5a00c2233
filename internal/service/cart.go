package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/events"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/repo"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func CartToView(cart *models.Cart) transport.CartView {
	view := transport.CartView{
		CartID:      cart.ID,
		Items:       make([]transport.CartLineView, 0, len(cart.Items)),
		TotalAmount: cart.TotalAmount,
	}
	for _, it := range cart.Items {
		view.Items = append(view.Items, transport.CartLineView{
			MenuItemID: it.MenuItemID,
			Name:       it.MenuItem.Name,
			UnitPrice:  it.MenuItem.Price,
			Quantity:   it.Quantity,
			LineTotal:  it.MenuItem.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}
	return view
}

func (s *CartService) AddItem(ctx context.Context, userID, menuItemID uint) (*transport.CartView, error) {
	if menuItemID == 0 {
		return nil, fmt.Errorf("menu item id is required: %w", ErrValidation)
	}

	cart, err := s.Repo.AddToCart(ctx, userID, menuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("menu item %d: %w", menuItemID, ErrNotFound)
		}
		return nil, err
	}

	view := CartToView(cart)
	publishEvent(ctx, s.Events, events.TopicCart, userID, map[string]any{
		"type":         "cart_item_added",
		"user_id":      userID,
		"menu_item_id": menuItemID,
		"total_amount": view.TotalAmount.StringFixed(2),
	})
	return &view, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, menuItemID uint) (*transport.RemoveItemResponse, error) {
	if menuItemID == 0 {
		return nil, fmt.Errorf("menu item id is required: %w", ErrValidation)
	}

	deleted, cart, err := s.Repo.DeleteOneFromCart(ctx, userID, menuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("menu item %d is not in the cart: %w", menuItemID, ErrNotFound)
		}
		return nil, err
	}

	view := CartToView(cart)
	publishEvent(ctx, s.Events, events.TopicCart, userID, map[string]any{
		"type":         "cart_item_removed",
		"user_id":      userID,
		"menu_item_id": menuItemID,
		"line_deleted": deleted,
		"total_amount": view.TotalAmount.StringFixed(2),
	})
	return &transport.RemoveItemResponse{
		MenuItemID: menuItemID,
		Deleted:    deleted,
		Cart:       view,
	}, nil
}

func (s *CartService) ViewCart(ctx context.Context, userID uint) (*transport.CartView, error) {
	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart: %w", ErrNotFound)
		}
		return nil, err
	}

	view := CartToView(cart)
	return &view, nil
}
