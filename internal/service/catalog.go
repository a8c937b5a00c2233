package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/events"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/logging"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/repo"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// numeric(10,2)
var maxPrice = decimal.New(1, 8)

type MenuSearcher interface {
	IndexItem(ctx context.Context, item models.MenuItem) error
	DeleteItem(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Search MenuSearcher
	Events events.Publisher
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if p.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("price is too large: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.Repo.GetMenuItem(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("menu item %d: %w", id, ErrNotFound)
	}
	return item, err
}

func (s *CatalogService) GetMenuItems(ctx context.Context, offset, limit int) (int64, []models.MenuItem, error) {
	return s.Repo.GetMenuItems(ctx, offset, limit)
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, req transport.CreateMenuItemRequest) (*models.MenuItem, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrValidation)
	}
	if category == "" {
		return nil, fmt.Errorf("category is required: %w", ErrValidation)
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}

	item, err := s.Repo.CreateMenuItem(ctx, &models.MenuItem{
		Name:     name,
		Category: category,
		Price:    req.Price.Round(2),
	})
	if err != nil {
		return nil, err
	}

	s.indexItem(ctx, *item)
	publishEvent(ctx, s.Events, events.TopicMenu, item.ID, map[string]any{
		"type":         "menu_item_created",
		"menu_item_id": item.ID,
		"name":         item.Name,
		"category":     item.Category,
		"price":        item.Price.StringFixed(2),
	})
	return item, nil
}

func (s *CatalogService) UpdateMenuItem(ctx context.Context, req transport.UpdateMenuItemRequest, id uint) (*models.MenuItem, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("name cannot be empty: %w", ErrValidation)
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		return nil, fmt.Errorf("category cannot be empty: %w", ErrValidation)
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		rounded := req.Price.Round(2)
		req.Price = &rounded
	}

	item, err := s.Repo.PatchMenuItem(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("menu item %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	s.indexItem(ctx, *item)
	publishEvent(ctx, s.Events, events.TopicMenu, item.ID, map[string]any{
		"type":         "menu_item_updated",
		"menu_item_id": item.ID,
		"name":         item.Name,
		"category":     item.Category,
		"price":        item.Price.StringFixed(2),
	})
	return item, nil
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteMenuItem(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("menu item %d: %w", id, ErrNotFound)
		case errors.Is(err, repo.ErrMenuItemInCart):
			return fmt.Errorf("menu item %d is in a cart: %w", id, ErrConflict)
		default:
			return err
		}
	}

	if s.Search != nil {
		if err := s.Search.DeleteItem(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "menu_item_id", id, "error", err)
		}
	}
	publishEvent(ctx, s.Events, events.TopicMenu, id, map[string]any{
		"type":         "menu_item_deleted",
		"menu_item_id": id,
	})
	return nil
}

// SearchMenuItems asks the search index first and falls back to a database
// match when no index is configured or the index is unavailable.
func (s *CatalogService) SearchMenuItems(ctx context.Context, q string, offset, limit int) (int64, []models.MenuItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("query is required: %w", ErrValidation)
	}

	if s.Search != nil {
		total, ids, err := s.Search.Search(ctx, q, offset, limit)
		if err == nil {
			items, err := s.Repo.GetMenuItemsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to database", "error", err)
	}

	return s.Repo.SearchMenuItems(ctx, q, offset, limit)
}

func (s *CatalogService) indexItem(ctx context.Context, item models.MenuItem) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexItem(ctx, item); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "menu_item_id", item.ID, "error", err)
	}
}
