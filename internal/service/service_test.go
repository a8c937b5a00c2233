package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/db/dbtest"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/events"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/repo"
)

type fixture struct {
	db      *gorm.DB
	repo    *repo.GormRepo
	events  *events.Recorder
	catalog *CatalogService
	cart    *CartService
	orders  *OrderService
	auth    *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := dbtest.Open(t)
	r := &repo.GormRepo{DB: gdb}
	rec := &events.Recorder{}

	return &fixture{
		db:      gdb,
		repo:    r,
		events:  rec,
		catalog: &CatalogService{Repo: r, Events: rec},
		cart:    &CartService{Repo: r, Events: rec},
		orders: &OrderService{Repo: r, Events: rec, Now: func() time.Time {
			return time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
		}},
		auth: &AuthService{
			Repo:          r,
			JWTSecret:     []byte("access-secret"),
			RefreshSecret: []byte("refresh-secret"),
			Events:        rec,
		},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var ctx = context.Background()
