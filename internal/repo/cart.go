package repo

import (
	"context"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.MenuItem").
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpsertCart creates the user's cart if it is missing and returns it locked.
func (r *GormRepo) UpsertCart(tx *gorm.DB, userID uint) (*models.Cart, error) {
	cart := models.Cart{UserID: userID, TotalAmount: decimal.Zero}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error; err != nil {
		return nil, err
	}
	return r.LockCart(tx, userID)
}

func (r *GormRepo) LockCart(tx *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// IncrementCartItem adds one unit, inserting the line when it does not exist.
func (r *GormRepo) IncrementCartItem(tx *gorm.DB, cartID, menuItemID uint) error {
	res := tx.Model(&models.CartItem{}).
		Where("cart_id = ? AND menu_item_id = ?", cartID, menuItemID).
		Update("quantity", gorm.Expr("quantity + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	return tx.Create(&models.CartItem{CartID: cartID, MenuItemID: menuItemID, Quantity: 1}).Error
}

// DecrementCartItem removes one unit and deletes the line when it reaches zero.
func (r *GormRepo) DecrementCartItem(tx *gorm.DB, cartID, menuItemID uint) (bool, error) {
	var item models.CartItem
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("cart_id = ? AND menu_item_id = ?", cartID, menuItemID).
		First(&item).Error; err != nil {
		return false, err
	}

	if item.Quantity > 1 {
		return false, tx.Model(&item).Update("quantity", gorm.Expr("quantity - 1")).Error
	}
	return true, tx.Delete(&item).Error
}

func (r *GormRepo) CartLines(tx *gorm.DB, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := tx.Preload("MenuItem").Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// RecomputeCartTotal is the only place a cart total is derived. It reloads the
// lines, sums price x quantity and persists the result on the cart.
func (r *GormRepo) RecomputeCartTotal(tx *gorm.DB, cart *models.Cart) error {
	items, err := r.CartLines(tx, cart.ID)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.MenuItem.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	if err := tx.Model(cart).Update("total_amount", total).Error; err != nil {
		return err
	}
	cart.TotalAmount = total
	cart.Items = items
	return nil
}

// RecomputeCartsHolding locks every cart with a line for menuItemID and
// refreshes its total.
func (r *GormRepo) RecomputeCartsHolding(tx *gorm.DB, menuItemID uint) error {
	var carts []models.Cart
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN (?)", tx.Model(&models.CartItem{}).Select("cart_id").Where("menu_item_id = ?", menuItemID)).
		Order("id ASC").
		Find(&carts).Error; err != nil {
		return err
	}

	for i := range carts {
		if err := r.RecomputeCartTotal(tx, &carts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormRepo) AddToCart(ctx context.Context, userID, menuItemID uint) (*models.Cart, error) {
	var cart *models.Cart

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.Select("id").First(&item, menuItemID).Error; err != nil {
			return err
		}

		var err error
		cart, err = r.UpsertCart(tx, userID)
		if err != nil {
			return err
		}
		if err := r.IncrementCartItem(tx, cart.ID, menuItemID); err != nil {
			return err
		}
		return r.RecomputeCartTotal(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *GormRepo) DeleteOneFromCart(ctx context.Context, userID, menuItemID uint) (bool, *models.Cart, error) {
	var cart *models.Cart
	deleted := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = r.LockCart(tx, userID)
		if err != nil {
			return err
		}
		deleted, err = r.DecrementCartItem(tx, cart.ID, menuItemID)
		if err != nil {
			return err
		}
		return r.RecomputeCartTotal(tx, cart)
	})
	if err != nil {
		return false, nil, err
	}
	return deleted, cart, nil
}
