package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/db/dbtest"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
)

func TestConfirmCart(t *testing.T) {
	gdb := dbtest.Open(t)
	r := &GormRepo{DB: gdb}
	ctx := context.Background()

	user := dbtest.CreateUser(t, gdb, "alice", models.RoleCustomer)
	a := dbtest.CreateMenuItem(t, gdb, "A", "Main", "5.00")
	b := dbtest.CreateMenuItem(t, gdb, "B", "Side", "3.00")

	for _, id := range []uint{a.ID, a.ID, b.ID} {
		_, err := r.AddToCart(ctx, user.ID, id)
		require.NoError(t, err)
	}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	order, err := r.ConfirmCart(ctx, user.ID, now)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.True(t, dec("13").Equal(order.TotalAmount), order.TotalAmount.String())
	require.Len(t, order.Lines, 2)

	got, err := r.GetMenuItem(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), got.QuantitySold)
	got, err = r.GetMenuItem(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.QuantitySold)

	cart, err := r.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalAmount.IsZero())

	orders, err := r.ListUserOrders(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "alice", orders[0].User.Username)
	assert.True(t, now.Equal(orders[0].OrderDate.UTC()))
	require.Len(t, orders[0].Lines, 2)
	assert.Equal(t, "A", orders[0].Lines[0].Name)
	assert.Equal(t, uint(2), orders[0].Lines[0].Quantity)
}

func TestConfirmCart_EmptyAndMissing(t *testing.T) {
	gdb := dbtest.Open(t)
	r := &GormRepo{DB: gdb}
	ctx := context.Background()

	user := dbtest.CreateUser(t, gdb, "alice", models.RoleCustomer)
	a := dbtest.CreateMenuItem(t, gdb, "A", "Main", "5.00")

	_, err := r.ConfirmCart(ctx, user.ID, time.Now())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = r.AddToCart(ctx, user.ID, a.ID)
	require.NoError(t, err)
	_, _, err = r.DeleteOneFromCart(ctx, user.ID, a.ID)
	require.NoError(t, err)

	_, err = r.ConfirmCart(ctx, user.ID, time.Now())
	assert.True(t, errors.Is(err, ErrEmptyCart))
}

func TestConfirmCart_RollsBackOnFailure(t *testing.T) {
	gdb := dbtest.Open(t)
	r := &GormRepo{DB: gdb}
	ctx := context.Background()

	user := dbtest.CreateUser(t, gdb, "alice", models.RoleCustomer)
	a := dbtest.CreateMenuItem(t, gdb, "A", "Main", "5.00")
	b := dbtest.CreateMenuItem(t, gdb, "B", "Side", "3.00")
	for _, id := range []uint{a.ID, b.ID} {
		_, err := r.AddToCart(ctx, user.ID, id)
		require.NoError(t, err)
	}

	// fail the second quantity_sold bump
	calls := 0
	boom := errors.New("boom")
	require.NoError(t, gdb.Callback().Update().Before("gorm:update").Register("test:fail_sold", func(tx *gorm.DB) {
		if tx.Statement.Table != "menu_items" {
			return
		}
		calls++
		if calls == 2 {
			_ = tx.AddError(boom)
		}
	}))

	_, err := r.ConfirmCart(ctx, user.ID, time.Now())
	require.ErrorIs(t, err, boom)

	require.NoError(t, gdb.Callback().Update().Remove("test:fail_sold"))

	var orders int64
	require.NoError(t, gdb.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var lines int64
	require.NoError(t, gdb.Model(&models.OrderLine{}).Count(&lines).Error)
	assert.Zero(t, lines)

	got, err := r.GetMenuItem(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, got.QuantitySold)

	cart, err := r.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.True(t, dec("8").Equal(cart.TotalAmount))
}

func TestAllOrdersAndDeleteAll(t *testing.T) {
	gdb := dbtest.Open(t)
	r := &GormRepo{DB: gdb}
	ctx := context.Background()

	a := dbtest.CreateMenuItem(t, gdb, "A", "Main", "5.00")
	for _, name := range []string{"alice", "bob", "carol"} {
		u := dbtest.CreateUser(t, gdb, name, models.RoleCustomer)
		_, err := r.AddToCart(ctx, u.ID, a.ID)
		require.NoError(t, err)
		_, err = r.ConfirmCart(ctx, u.ID, time.Now())
		require.NoError(t, err)
	}

	orders, err := r.AllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "alice", orders[0].User.Username)
	assert.Equal(t, "carol", orders[2].User.Username)
	assert.Less(t, orders[0].ID, orders[1].ID)

	total, page, err := r.ListOrders(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	removed, err := r.DeleteAllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	var lines int64
	require.NoError(t, gdb.Model(&models.OrderLine{}).Count(&lines).Error)
	assert.Zero(t, lines)

	got, err := r.GetMenuItem(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(3), got.QuantitySold, "clearing history keeps sold counters")
}
