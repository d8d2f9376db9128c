package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
	"github.com/euthiagoalves10/TH-DRINKS/internal/store"
)

func testDrink(cost int) models.Drink {
	return models.Drink{
		ID:          "d1",
		Name:        "Neon Sunset",
		Ingredients: []string{"Vodka", "Orange Juice"},
		ImageURL:    "https://example.com/neon.png",
		Cost:        cost,
	}
}

func TestPlaceOrderDebitsCoins(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewOrderService(st)
	ctx := context.Background()

	user := &models.User{ID: "u1", Name: "Ana", Role: models.RoleGuest, Coins: 3}
	require.NoError(t, st.SetCurrentUser(ctx, *user))

	order, err := svc.PlaceOrder(ctx, user, testDrink(2))
	require.NoError(t, err)

	assert.Equal(t, 1, user.Coins)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "Neon Sunset", order.DrinkName)
	assert.Equal(t, "Ana", order.UserName)

	// The debit was persisted before the order.
	stored, err := st.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Coins)

	orders, err := st.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestPlaceOrderInsufficientCoins(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewOrderService(st)
	ctx := context.Background()

	user := &models.User{ID: "u1", Role: models.RoleGuest, Coins: 0}
	require.NoError(t, st.SetCurrentUser(ctx, *user))

	_, err := svc.PlaceOrder(ctx, user, testDrink(1))
	assert.ErrorIs(t, err, ErrInsufficientCoins)

	// Nothing was mutated.
	assert.Equal(t, 0, user.Coins)
	stored, err := st.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Coins)

	orders, err := st.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestAdvanceWalksThePipeline(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewOrderService(st)
	ctx := context.Background()

	user := &models.User{ID: "u1", Role: models.RoleGuest, Coins: 3}
	order, err := svc.PlaceOrder(ctx, user, testDrink(1))
	require.NoError(t, err)

	for _, want := range []models.OrderStatus{
		models.StatusPreparing,
		models.StatusReady,
		models.StatusDelivered,
	} {
		advanced, err := svc.Advance(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, want, advanced.Status)
	}

	// Delivered absorbs further advances.
	final, err := svc.Advance(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, final.Status)
}

func TestAdvanceUnknownOrder(t *testing.T) {
	svc := NewOrderService(store.NewMemoryStore())

	_, err := svc.Advance(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListForUserNewestFirst(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewOrderService(st)
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"o1", "o2", "o3"} {
		require.NoError(t, st.UpsertOrder(ctx, models.Order{
			ID:        id,
			UserID:    "u1",
			Status:    models.StatusPending,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, st.UpsertOrder(ctx, models.Order{
		ID:        "other",
		UserID:    "u2",
		Status:    models.StatusPending,
		Timestamp: base,
	}))

	orders, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "o3", orders[0].ID)
	assert.Equal(t, "o1", orders[2].ID)
}

func TestListActiveOldestFirstWithoutDelivered(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewOrderService(st)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, st.UpsertOrder(ctx, models.Order{ID: "late", UserID: "u1", Status: models.StatusPending, Timestamp: base.Add(time.Minute)}))
	require.NoError(t, st.UpsertOrder(ctx, models.Order{ID: "early", UserID: "u2", Status: models.StatusReady, Timestamp: base}))
	require.NoError(t, st.UpsertOrder(ctx, models.Order{ID: "done", UserID: "u3", Status: models.StatusDelivered, Timestamp: base.Add(-time.Minute)}))

	orders, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "early", orders[0].ID)
	assert.Equal(t, "late", orders[1].ID)
}
