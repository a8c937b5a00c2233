package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/db/dbtest"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/events"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/models"
	"github.com/SaiChaitanya436/Restauarant-Management-Application/internal/transport"
)

type fakeSearcher struct {
	indexed []uint
	deleted []uint
	ids     []uint
	err     error
}

func (f *fakeSearcher) IndexItem(_ context.Context, item models.MenuItem) error {
	f.indexed = append(f.indexed, item.ID)
	return nil
}

func (f *fakeSearcher) DeleteItem(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _, _ int) (int64, []uint, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.ids)), f.ids, nil
}

func TestCreateMenuItem_Validation(t *testing.T) {
	f := newFixture(t)

	cases := []transport.CreateMenuItemRequest{
		{Name: " ", Category: "Main", Price: dec("1")},
		{Name: "Pizza", Category: "", Price: dec("1")},
		{Name: "Pizza", Category: "Main", Price: dec("-0.01")},
		{Name: "Pizza", Category: "Main", Price: dec("100000000")},
	}
	for _, req := range cases {
		_, err := f.catalog.CreateMenuItem(ctx, req)
		assert.True(t, errors.Is(err, ErrValidation), "%+v", req)
	}
	assert.Empty(t, f.events.Events(""))
}

func TestCreateUpdateDeleteMenuItem(t *testing.T) {
	f := newFixture(t)
	idx := &fakeSearcher{}
	f.catalog.Search = idx

	item, err := f.catalog.CreateMenuItem(ctx, transport.CreateMenuItemRequest{Name: " Pizza ", Category: "Main", Price: dec("9.999")})
	require.NoError(t, err)
	assert.Equal(t, "Pizza", item.Name)
	assert.True(t, dec("10").Equal(item.Price))
	assert.Equal(t, []uint{item.ID}, idx.indexed)

	created, ok := f.events.Last(events.TopicMenu)
	require.True(t, ok)
	assert.Equal(t, "menu_item_created", created.Event["type"])
	assert.Equal(t, "10.00", created.Event["price"])

	zero := dec("0")
	updated, err := f.catalog.UpdateMenuItem(ctx, transport.UpdateMenuItemRequest{Price: &zero}, item.ID)
	require.NoError(t, err)
	assert.True(t, updated.Price.IsZero())

	empty := ""
	_, err = f.catalog.UpdateMenuItem(ctx, transport.UpdateMenuItemRequest{Name: &empty}, item.ID)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.catalog.UpdateMenuItem(ctx, transport.UpdateMenuItemRequest{Price: &zero}, 999)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, f.catalog.DeleteMenuItem(ctx, item.ID))
	assert.Equal(t, []uint{item.ID}, idx.deleted)

	_, err = f.catalog.GetMenuItem(ctx, item.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(f.catalog.DeleteMenuItem(ctx, item.ID), ErrNotFound))

	deleted, ok := f.events.Last(events.TopicMenu)
	require.True(t, ok)
	assert.Equal(t, "menu_item_deleted", deleted.Event["type"])
}

func TestDeleteMenuItem_InCartConflict(t *testing.T) {
	f := newFixture(t)

	user := dbtest.CreateUser(t, f.db, "alice", models.RoleCustomer)
	item := dbtest.CreateMenuItem(t, f.db, "Pizza", "Main", "10.00")
	_, err := f.cart.AddItem(ctx, user.ID, item.ID)
	require.NoError(t, err)

	err = f.catalog.DeleteMenuItem(ctx, item.ID)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestSearchMenuItems(t *testing.T) {
	f := newFixture(t)

	a := dbtest.CreateMenuItem(t, f.db, "Paneer Tikka", "Starter", "7.00")
	b := dbtest.CreateMenuItem(t, f.db, "Chicken Tikka", "Main", "9.00")

	_, _, err := f.catalog.SearchMenuItems(ctx, "  ", 0, 10)
	assert.True(t, errors.Is(err, ErrValidation))

	total, items, err := f.catalog.SearchMenuItems(ctx, "tikka", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	idx := &fakeSearcher{ids: []uint{b.ID, a.ID}}
	f.catalog.Search = idx
	total, items, err = f.catalog.SearchMenuItems(ctx, "tikka", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)

	idx.err = errors.New("cluster down")
	total, items, err = f.catalog.SearchMenuItems(ctx, "paneer", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)
}
