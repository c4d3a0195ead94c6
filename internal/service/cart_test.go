package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/flower_shop/internal/dbtest"
	"github.com/Skotchmaster/flower_shop/internal/events"
	"github.com/Skotchmaster/flower_shop/internal/metrics"
	"github.com/Skotchmaster/flower_shop/internal/models"
	"github.com/Skotchmaster/flower_shop/internal/repo"
)

func TestCartService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gdb := dbtest.New(t)
	rec := &recorder{}
	svc := &CartService{Repo: repo.New(gdb), Events: rec, Metrics: metrics.New(), Now: clock}

	buyer, _ := dbtest.User(t, gdb, "buyer", models.RoleUser)
	_, seller := dbtest.Seller(t, gdb, "shop", "Hanoi")
	rose := dbtest.Flower(t, gdb, seller.ID, "rose", "10.00", 5)
	lily := dbtest.Flower(t, gdb, seller.ID, "lily", "2.50", 10)

	_, err := svc.GetCart(ctx, buyer.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.AddToCart(ctx, buyer.ID, rose.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddToCart(ctx, buyer.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddToCart(ctx, buyer.ID, rose.ID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.AddToCart(ctx, buyer.ID, rose.ID, 1)
	require.NoError(t, err)
	item, err := svc.AddToCart(ctx, buyer.ID, rose.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	_, err = svc.AddToCart(ctx, buyer.ID, lily.ID, 4)
	require.NoError(t, err)

	sum, err := svc.GetCart(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, sum.Items, 2)
	assert.Equal(t, "rose", sum.Items[0].Name)
	assert.Equal(t, 6, sum.TotalQuantity)
	assert.True(t, sum.TotalPrice.Equal(decimal.NewFromInt(30)), sum.TotalPrice.String())

	stock, err := svc.Repo.StockOf(ctx, rose.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stock)

	removed, err := svc.RemoveFromCart(ctx, buyer.ID, rose.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed.Quantity)

	stock, err = svc.Repo.StockOf(ctx, rose.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stock)

	_, err = svc.RemoveFromCart(ctx, buyer.ID, rose.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	stock, err = svc.Repo.StockOf(ctx, rose.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stock)

	for _, topic := range rec.topics() {
		assert.Equal(t, events.TopicCart, topic)
	}
	assert.Len(t, rec.topics(), 4)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.Metrics.CartReservations.WithLabelValues("add", "insufficient_stock")))
}

func TestCartService_PublishFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gdb := dbtest.New(t)
	svc := &CartService{Repo: repo.New(gdb), Events: &recorder{err: assert.AnError}}

	buyer, _ := dbtest.User(t, gdb, "buyer", models.RoleUser)
	_, seller := dbtest.Seller(t, gdb, "shop", "Hanoi")
	rose := dbtest.Flower(t, gdb, seller.ID, "rose", "10.00", 5)

	_, err := svc.AddToCart(ctx, buyer.ID, rose.ID, 1)
	require.NoError(t, err)
}
