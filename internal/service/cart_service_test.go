package service

import (
	"context"
	"errors"
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// failingDeleteCartRepo 删除操作固定失败，其余委托给真实仓储
type failingDeleteCartRepo struct {
	repository.CartRepository
	err error
}

func (r *failingDeleteCartRepo) DeleteByUserAndProduct(context.Context, uint, uint) error {
	return r.err
}

func TestCartServiceUpsertAndList(t *testing.T) {
	f := newPricingFixture(t)
	svc := NewCartService(repository.NewCartRepository(f.db), f.products)
	p := f.product(t, "TEAPOT", "40", constants.DiscountTypeFixed, "15", 0)
	ctx := context.Background()

	require.NoError(t, svc.UpsertItem(ctx, UpsertCartItemInput{UserID: 3, ProductID: p.ID, Quantity: 2}))
	require.NoError(t, svc.UpsertItem(ctx, UpsertCartItemInput{UserID: 3, ProductID: p.ID, Quantity: 5}))

	items, err := svc.ListByUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, 5, item.Quantity)
	require.NotNil(t, item.UnitPrice)
	require.NotNil(t, item.OriginalPrice)
	assert.Equal(t, "25.00", item.UnitPrice.String())
	assert.Equal(t, "40.00", item.OriginalPrice.String())
	assert.False(t, item.PriceHidden)
	assert.True(t, item.OutOfStock)

	require.NoError(t, svc.RemoveItem(ctx, 3, p.ID))
	require.NoError(t, svc.UpsertItem(ctx, UpsertCartItemInput{UserID: 3, ProductID: p.ID, Quantity: 1}))
}

func TestCartServiceListHidesInactivePrice(t *testing.T) {
	f := newPricingFixture(t)
	svc := NewCartService(repository.NewCartRepository(f.db), f.products)
	p := f.product(t, "SECRET", "70", constants.DiscountTypePercentage, "10", 2)
	ctx := context.Background()
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", p.ID).Update("is_price_active", false).Error)
	require.NoError(t, svc.UpsertItem(ctx, UpsertCartItemInput{UserID: 4, ProductID: p.ID, Quantity: 1}))

	items, err := svc.ListByUser(ctx, 4)
	require.NoError(t, err)
	require.Len(t, items, 1)
	item := items[0]
	assert.True(t, item.PriceHidden)
	assert.Nil(t, item.UnitPrice)
	assert.Nil(t, item.OriginalPrice)
	require.NotNil(t, item.Product)
	assert.True(t, item.Product.PriceAmount.IsZero())
	assert.True(t, item.Product.DiscountValue.IsZero())
	assert.Equal(t, constants.DiscountTypeNone, item.Product.DiscountType)
}

func TestCartServiceLogsFailedInactiveItemRemoval(t *testing.T) {
	f := newPricingFixture(t)
	carts := repository.NewCartRepository(f.db)
	svc := NewCartService(&failingDeleteCartRepo{CartRepository: carts, err: errors.New("database is locked")}, f.products)
	p := f.product(t, "RETIRED", "12", constants.DiscountTypeNone, "0", 1)
	require.NoError(t, svc.UpsertItem(context.Background(), UpsertCartItemInput{UserID: 6, ProductID: p.ID, Quantity: 1}))
	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", p.ID).Update("is_active", false).Error)

	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core).Sugar())

	items, err := svc.ListByUser(ctx, 6)
	require.NoError(t, err)
	assert.Empty(t, items)

	entries := logs.FilterMessage("cart_inactive_item_remove_failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 6, fields["user_id"])
	assert.EqualValues(t, p.ID, fields["product_id"])
	assert.Equal(t, "database is locked", fields["error"])
}

func TestCartServiceRejectsInvalidInput(t *testing.T) {
	f := newPricingFixture(t)
	svc := NewCartService(repository.NewCartRepository(f.db), f.products)
	p := f.product(t, "TRAY", "10", constants.DiscountTypeNone, "0", 1)
	ctx := context.Background()

	cases := []UpsertCartItemInput{
		{UserID: 0, ProductID: p.ID, Quantity: 1},
		{UserID: 1, ProductID: 0, Quantity: 1},
		{UserID: 1, ProductID: p.ID, Quantity: 0},
		{UserID: 1, ProductID: p.ID, Quantity: constants.CartMaxQuantity + 1},
	}
	for _, input := range cases {
		assert.ErrorIs(t, svc.UpsertItem(ctx, input), ErrInvalidCartItem, "input %+v", input)
	}

	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", p.ID).Update("is_active", false).Error)
	assert.ErrorIs(t, svc.UpsertItem(ctx, UpsertCartItemInput{UserID: 1, ProductID: p.ID, Quantity: 1}), ErrProductNotAvailable)
}

func TestCartServiceClear(t *testing.T) {
	f := newPricingFixture(t)
	svc := NewCartService(repository.NewCartRepository(f.db), f.products)
	a := f.product(t, "BOWL", "8", constants.DiscountTypeNone, "0", 3)
	b := f.product(t, "PLATE", "6", constants.DiscountTypeNone, "0", 3)
	ctx := context.Background()

	for _, p := range []models.Product{a, b} {
		require.NoError(t, svc.UpsertItem(ctx, UpsertCartItemInput{UserID: 9, ProductID: p.ID, Quantity: 1}))
	}
	require.NoError(t, svc.Clear(ctx, 9))
	items, err := svc.ListByUser(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.ErrorIs(t, svc.Clear(ctx, 0), ErrInvalidCartItem)
}
