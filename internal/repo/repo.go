package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExist   = errors.New("user already exist")
	ErrTokenRevoked       = errors.New("token expired or revoked")
	ErrMenuItemInCart     = errors.New("menu item is in a cart")
	ErrEmptyCart          = errors.New("cart is empty")
)

type GormRepo struct {
	DB *gorm.DB
}
