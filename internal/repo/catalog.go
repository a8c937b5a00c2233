package repo

import (
	"context"
	"strings"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
	"gorm.io/gorm"
)

func (r *GormRepo) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item := models.MenuItem{}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) GetMenuItems(ctx context.Context, offset, limit int) (int64, []models.MenuItem, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.MenuItem, 0, limit)
	if err := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

// GetMenuItemsByIDs keeps the order of ids and skips ids that no longer exist.
func (r *GormRepo) GetMenuItemsByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return []models.MenuItem{}, nil
	}

	var found []models.MenuItem
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.MenuItem, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}
	items := make([]models.MenuItem, 0, len(found))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}

func (r *GormRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// PatchMenuItem writes only the changed columns so a concurrent quantity_sold
// increment is never overwritten. A price change is carried into every cart
// holding the item within the same transaction.
func (r *GormRepo) PatchMenuItem(ctx context.Context, req transport.UpdateMenuItemRequest, id uint) (*models.MenuItem, error) {
	var item models.MenuItem

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}

		updates := map[string]any{}
		if req.Name != nil {
			updates["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Category != nil {
			updates["category"] = strings.TrimSpace(*req.Category)
		}
		if req.Price != nil {
			updates["price"] = *req.Price
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&item).Updates(updates).Error; err != nil {
			return err
		}
		if req.Price != nil {
			if err := r.RecomputeCartsHolding(tx, id); err != nil {
				return err
			}
		}
		return tx.First(&item, id).Error
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// DeleteMenuItem refuses while any cart holds the item. Order lines keep their
// name and price snapshot and only lose the reference.
func (r *GormRepo) DeleteMenuItem(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}

		var inCarts int64
		if err := tx.Model(&models.CartItem{}).Where("menu_item_id = ?", id).Count(&inCarts).Error; err != nil {
			return err
		}
		if inCarts > 0 {
			return ErrMenuItemInCart
		}

		if err := tx.Model(&models.OrderLine{}).
			Where("menu_item_id = ?", id).
			Update("menu_item_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.MenuItem{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) SearchMenuItems(ctx context.Context, q string, offset, limit int) (int64, []models.MenuItem, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	where := "LOWER(name) LIKE ? OR LOWER(category) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where(where, pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.MenuItem, 0, limit)
	if err := r.DB.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where(where, pattern, pattern).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

// IncrementSold runs inside the caller's transaction.
func (r *GormRepo) IncrementSold(tx *gorm.DB, id uint, delta uint) error {
	res := tx.Model(&models.MenuItem{}).
		Where("id = ?", id).
		UpdateColumn("quantity_sold", gorm.Expr("quantity_sold + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
