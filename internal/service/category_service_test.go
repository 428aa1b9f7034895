package service

import (
	"context"
	"errors"
	"testing"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryServiceGetByIDAndCount(t *testing.T) {
	f := newPricingFixture(t)
	svc := NewCategoryService(repository.NewCategoryRepository(f.db))
	ctx := context.Background()

	category := models.Category{Slug: "kitchen", NameJSON: models.JSON{constants.LocaleEN: "Kitchen"}}
	require.NoError(t, f.db.Create(&category).Error)
	p := f.product(t, "PAN", "30", constants.DiscountTypeNone, "0", 2)
	require.NoError(t, f.db.Model(&p).Update("category_id", category.ID).Error)

	got, err := svc.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "kitchen", got.Slug)

	count, err := svc.CountActiveProducts(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = svc.GetByID(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
