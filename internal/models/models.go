package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type MenuItem struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"       json:"id"`
	Name         string          `gorm:"not null"                       json:"name"`
	Category     string          `gorm:"not null;index"                 json:"category"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null"    json:"price"`
	QuantitySold uint            `gorm:"not null;default:0"             json:"quantity_sold"`
	CreatedAt    time.Time       `                                      json:"created_at"`
	UpdatedAt    time.Time       `                                      json:"updated_at"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"            json:"id"`
	Token     string `gorm:"unique;not null"       json:"token"`
	UserID    uint   `gorm:"index;not null"        json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null"  json:"jti"`
	ExpiresAt int64  `gorm:"not null"              json:"expires_at"`
	Revoked   bool   `gorm:"default:false"         json:"revoked"`
}

type Cart struct {
	ID          uint            `gorm:"primaryKey"                           json:"id"`
	UserID      uint            `gorm:"uniqueIndex;not null"                 json:"user_id"`
	User        User            `gorm:"foreignKey:UserID"                    json:"-"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_amount"`
	Items       []CartItem      `gorm:"foreignKey:CartID"                    json:"items"`
	UpdatedAt   time.Time       `                                            json:"updated_at"`
}

type CartItem struct {
	ID         uint     `gorm:"primaryKey"                                          json:"id"`
	CartID     uint     `gorm:"uniqueIndex:idx_cart_menu_item;not null"             json:"cart_id"`
	MenuItemID uint     `gorm:"uniqueIndex:idx_cart_menu_item;not null"             json:"menu_item_id"`
	MenuItem   MenuItem `gorm:"foreignKey:MenuItemID;constraint:OnDelete:RESTRICT" json:"menu_item"`
	Quantity   uint     `gorm:"not null;default:1;check:quantity>0"                json:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

type Order struct {
	ID          uint            `gorm:"primaryKey"                    json:"id"`
	UserID      uint            `gorm:"index;not null"                json:"user_id"`
	User        User            `gorm:"foreignKey:UserID"             json:"-"`
	OrderDate   time.Time       `gorm:"not null;index"                json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(10,2);not null"   json:"total_amount"`
	Lines       []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// OrderLine keeps what was bought at confirmation time. MenuItemID is cleared
// when the menu item is deleted; Name and UnitPrice stay.
type OrderLine struct {
	ID         uint            `gorm:"primaryKey"                                          json:"id"`
	OrderID    uint            `gorm:"index;not null"                                      json:"order_id"`
	MenuItemID *uint           `gorm:"index"                                               json:"menu_item_id"`
	MenuItem   *MenuItem       `gorm:"foreignKey:MenuItemID;constraint:OnDelete:SET NULL" json:"-"`
	Name       string          `gorm:"not null"                                            json:"name"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null"                         json:"unit_price"`
	Quantity   uint            `gorm:"not null;check:quantity>0"                           json:"quantity"`
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&MenuItem{},
		&User{},
		&RefreshToken{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderLine{},
	}
}
