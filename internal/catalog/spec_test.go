package catalog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decPtr(raw string) *decimal.Decimal {
	d := decimal.RequireFromString(raw)
	return &d
}

func uintPtr(v uint) *uint {
	return &v
}

func TestNormalizeDefaults(t *testing.T) {
	spec := QuerySpec{Page: 1, Limit: 10, Search: "  phone ", Brands: []string{"Zeta", " ", "Acme", "Zeta"}, Statuses: []string{"NEW", "new"}}.Normalize()

	assert.Equal(t, "phone", spec.Search)
	assert.Equal(t, SearchContains, spec.SearchMode)
	assert.Equal(t, StockAny, spec.Stock)
	assert.Equal(t, SortNewest, spec.SortBy)
	assert.Equal(t, []string{"Acme", "Zeta"}, spec.Brands)
	assert.Equal(t, []string{"new"}, spec.Statuses)
}

func TestValidate(t *testing.T) {
	valid := QuerySpec{Page: 1, Limit: 10}.Normalize()
	require.NoError(t, valid.Validate())

	cases := map[string]QuerySpec{
		"page zero":      {Page: 0, Limit: 10},
		"limit zero":     {Page: 1, Limit: 0},
		"negative limit": {Page: 1, Limit: -3},
		"min above max":  {Page: 1, Limit: 10, PriceRange: PriceRange{Min: decPtr("50"), Max: decPtr("10")}},
		"negative min":   {Page: 1, Limit: 10, PriceRange: PriceRange{Min: decPtr("-1")}},
		"unknown sort":   {Page: 1, Limit: 10, SortBy: "random"},
		"unknown stock":  {Page: 1, Limit: 10, Stock: "maybe"},
		"unknown mode":   {Page: 1, Limit: 10, SearchMode: "fuzzy"},
		"unknown status": {Page: 1, Limit: 10, Statuses: []string{"archived"}},
		"negative max":   {Page: 1, Limit: 10, PriceRange: PriceRange{Max: decPtr("-0.01")}},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			err := spec.Normalize().Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidQuery))
		})
	}

	equalBounds := QuerySpec{Page: 1, Limit: 10, PriceRange: PriceRange{Min: decPtr("10"), Max: decPtr("10")}}.Normalize()
	assert.NoError(t, equalBounds.Validate())
}

func TestOffsetAndTotalPages(t *testing.T) {
	assert.Equal(t, 0, QuerySpec{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, QuerySpec{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, QuerySpec{Page: 0, Limit: 10}.Offset())

	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(1), TotalPages(3, 10))
	assert.Equal(t, int64(2), TotalPages(11, 10))
	assert.Equal(t, int64(3), TotalPages(30, 10))
}

func TestCacheKeyCanonical(t *testing.T) {
	a := QuerySpec{Page: 1, Limit: 10, Search: "Phone", Brands: []string{"b", "a"}}
	b := QuerySpec{Page: 1, Limit: 10, Search: " phone", Brands: []string{"a", "b", "a"}, SearchMode: SearchContains, SortBy: SortNewest}
	assert.Equal(t, a.CacheKey(), b.CacheKey())

	c := a
	c.Page = 2
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())

	d := a
	d.IncludeInactive = true
	assert.NotEqual(t, a.CacheKey(), d.CacheKey())

	e := a
	e.CategoryID = uintPtr(4)
	assert.NotEqual(t, a.CacheKey(), e.CacheKey())
}

func TestCacheKeyEscapesSearchTerm(t *testing.T) {
	injected := QuerySpec{Page: 1, Limit: 10, Search: "phone:c=3"}
	categorized := QuerySpec{Page: 1, Limit: 10, Search: "phone", CategoryID: uintPtr(3)}
	assert.NotEqual(t, injected.CacheKey(), categorized.CacheKey())

	ampersand := QuerySpec{Page: 1, Limit: 10, Search: "phone&c=3"}
	assert.NotEqual(t, ampersand.CacheKey(), categorized.CacheKey())

	joined := QuerySpec{Page: 1, Limit: 10, Brands: []string{"a,b"}}
	split := QuerySpec{Page: 1, Limit: 10, Brands: []string{"a", "b"}}
	assert.NotEqual(t, joined.CacheKey(), split.CacheKey())
	assert.True(t, strings.HasPrefix(injected.CacheKey(), "catalog:"))
}

func catalogProduct(id uint, nameEN, brand, slug string) models.Product {
	return models.Product{
		ID:              id,
		Slug:            slug,
		Brand:           brand,
		NameJSON:        models.JSON{constants.LocaleEN: nameEN, constants.LocaleAR: "منتج"},
		PriceAmount:     models.MustMoney("25"),
		DiscountType:    constants.DiscountTypeNone,
		QuantityInStock: 3,
		Status:          constants.ProductStatusNormal,
		IsPriceActive:   true,
		IsActive:        true,
	}
}

func TestMatchesSearchModes(t *testing.T) {
	p := catalogProduct(1, "Smart Phone X", "Acme", "smart-phone-x")

	contains := QuerySpec{Search: "phone"}.Normalize()
	assert.True(t, contains.Matches(p))

	prefix := QuerySpec{Search: "phone", SearchMode: SearchPrefix}.Normalize()
	assert.False(t, prefix.Matches(p))

	prefixName := QuerySpec{Search: "SMART", SearchMode: SearchPrefix}.Normalize()
	assert.True(t, prefixName.Matches(p))

	brand := QuerySpec{Search: "acm", SearchMode: SearchPrefix}.Normalize()
	assert.True(t, brand.Matches(p))

	arabic := QuerySpec{Search: "منت", SearchMode: SearchPrefix}.Normalize()
	assert.True(t, arabic.Matches(p))
}

func TestMatchesFilters(t *testing.T) {
	p := catalogProduct(1, "Laptop", "Acme", "laptop")
	p.CategoryID = uintPtr(2)
	p.DiscountType = constants.DiscountTypeFixed

	assert.True(t, QuerySpec{CategoryID: uintPtr(2)}.Normalize().Matches(p))
	assert.False(t, QuerySpec{CategoryID: uintPtr(3)}.Normalize().Matches(p))
	assert.True(t, QuerySpec{PriceRange: PriceRange{Min: decPtr("25"), Max: decPtr("25")}}.Normalize().Matches(p))
	assert.False(t, QuerySpec{PriceRange: PriceRange{Min: decPtr("25.01")}}.Normalize().Matches(p))
	assert.True(t, QuerySpec{Stock: StockInStock}.Normalize().Matches(p))
	assert.False(t, QuerySpec{Stock: StockOutOfStock}.Normalize().Matches(p))
	assert.True(t, QuerySpec{OnSaleOnly: true}.Normalize().Matches(p))
	assert.True(t, QuerySpec{Brands: []string{"Other", "Acme"}}.Normalize().Matches(p))
	assert.False(t, QuerySpec{Brands: []string{"Other"}}.Normalize().Matches(p))
	assert.False(t, QuerySpec{Statuses: []string{constants.ProductStatusNew}}.Normalize().Matches(p))

	p.IsActive = false
	assert.False(t, QuerySpec{}.Normalize().Matches(p))
	assert.True(t, QuerySpec{IncludeInactive: true}.Normalize().Matches(p))
}

func TestLessBreaksTiesByID(t *testing.T) {
	now := time.Now()
	a := catalogProduct(1, "A", "", "a")
	b := catalogProduct(2, "B", "", "b")
	a.CreatedAt, b.CreatedAt = now, now

	for _, sortBy := range []SortBy{SortNewest, SortOldest, SortPriceLowHigh, SortPriceHighLow} {
		spec := QuerySpec{SortBy: sortBy}
		assert.True(t, spec.Less(a, b), "sort %s", sortBy)
		assert.False(t, spec.Less(b, a), "sort %s", sortBy)
	}

	b.PriceAmount = models.MustMoney("10")
	assert.True(t, QuerySpec{SortBy: SortPriceLowHigh}.Less(b, a))
	assert.True(t, QuerySpec{SortBy: SortPriceHighLow}.Less(a, b))
}

func TestPublicPriceQueriesIgnoreHiddenPrices(t *testing.T) {
	hidden := catalogProduct(1, "Hidden", "", "hidden")
	hidden.IsPriceActive = false
	hidden.PriceAmount = models.MustMoney("5")
	shown := catalogProduct(2, "Shown", "", "shown")

	ranged := QuerySpec{PriceRange: PriceRange{Min: decPtr("1"), Max: decPtr("10")}}.Normalize()
	assert.False(t, ranged.Matches(hidden))
	ranged.IncludeInactive = true
	assert.True(t, ranged.Matches(hidden))
	assert.True(t, QuerySpec{}.Normalize().Matches(hidden))

	for _, sortBy := range []SortBy{SortPriceLowHigh, SortPriceHighLow} {
		spec := QuerySpec{SortBy: sortBy}
		assert.True(t, spec.Less(shown, hidden), "sort %s", sortBy)
		assert.False(t, spec.Less(hidden, shown), "sort %s", sortBy)
	}

	cheaper := catalogProduct(3, "Cheaper", "", "cheaper")
	cheaper.IsPriceActive = false
	cheaper.PriceAmount = models.MustMoney("1")
	assert.True(t, QuerySpec{SortBy: SortPriceLowHigh}.Less(hidden, cheaper))
	assert.True(t, QuerySpec{SortBy: SortPriceLowHigh, IncludeInactive: true}.Less(cheaper, hidden))
}
