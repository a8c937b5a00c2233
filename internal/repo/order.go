package repo

import (
	"context"
	"time"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConfirmCart turns the user's cart into an order. The order takes the stored
// cart total, lines are snapshotted, quantity_sold is bumped per item and the
// cart is emptied, all or nothing.
func (r *GormRepo) ConfirmCart(ctx context.Context, userID uint, now time.Time) (*models.Order, error) {
	var order *models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := r.LockCart(tx, userID)
		if err != nil {
			return err
		}

		items, err := r.CartLines(tx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		lines := make([]models.OrderLine, 0, len(items))
		for _, it := range items {
			menuItemID := it.MenuItemID
			lines = append(lines, models.OrderLine{
				MenuItemID: &menuItemID,
				Name:       it.MenuItem.Name,
				UnitPrice:  it.MenuItem.Price,
				Quantity:   it.Quantity,
			})
		}

		order = &models.Order{
			UserID:      userID,
			OrderDate:   now,
			TotalAmount: cart.TotalAmount,
			Lines:       lines,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, it := range items {
			if err := r.IncrementSold(tx, it.MenuItemID, it.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(cart).Update("total_amount", decimal.Zero).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, 0, limit)
	if err := r.DB.WithContext(ctx).
		Preload("User").
		Order("order_date DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) AllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("User").Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// DeleteAllOrders wipes the ledger and reports how many orders were removed.
func (r *GormRepo) DeleteAllOrders(ctx context.Context) (int64, error) {
	var removed int64

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		res := global.Delete(&models.Order{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
