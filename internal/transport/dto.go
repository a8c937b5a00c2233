package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	UserID       uint
	Role         string
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

type CreateMenuItemRequest struct {
	Name     string          `json:"name"     validate:"required,max=100"`
	Category string          `json:"category" validate:"required,max=100"`
	Price    decimal.Decimal `json:"price"`
}

type UpdateMenuItemRequest struct {
	Name     *string          `json:"name"     validate:"omitempty,max=100"`
	Category *string          `json:"category" validate:"omitempty,max=100"`
	Price    *decimal.Decimal `json:"price"`
}

type ClearOrdersRequest struct {
	Confirm bool `json:"confirm"`
}

type CartLineView struct {
	MenuItemID uint            `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   uint            `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type CartView struct {
	CartID      uint            `json:"cart_id"`
	Items       []CartLineView  `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type RemoveItemResponse struct {
	MenuItemID uint     `json:"menu_item_id"`
	Deleted    bool     `json:"deleted"`
	Cart       CartView `json:"cart"`
}

type OrderLineView struct {
	MenuItemID *uint           `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   uint            `json:"quantity"`
}

type OrderView struct {
	ID           uint            `json:"id"`
	CustomerName string          `json:"customer_name"`
	OrderDate    string          `json:"order_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Lines        []OrderLineView `json:"lines,omitempty"`
}

// ExportRow is one line of the order history export.
type ExportRow struct {
	OrderID      uint
	CustomerName string
	OrderDate    time.Time
	TotalAmount  decimal.Decimal
}
