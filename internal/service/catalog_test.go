package service

import (
	"context"
	"testing"
	"time"

	"cafe_ordering/internal/testutil"
	"cafe_ordering/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ListCategoriesHidesInactiveAndUnavailable(t *testing.T) {
	gdb := testutil.DB(t)
	drinks := testutil.CreateCategory(t, gdb, "Drinks", true)
	hidden := testutil.CreateCategory(t, gdb, "Seasonal", false)
	testutil.CreateProduct(t, gdb, drinks.ID, "Latte", "4.75", true)
	testutil.CreateProduct(t, gdb, drinks.ID, "Mocha", "5.00", false)
	testutil.CreateProduct(t, gdb, hidden.ID, "Eggnog", "6.00", true)

	svc := NewCatalog(gdb, nil)
	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Drinks", categories[0].Name)
	require.Len(t, categories[0].Products, 1)
	assert.Equal(t, "Latte", categories[0].Products[0].Name)
}

func TestCatalog_ListProducts(t *testing.T) {
	gdb := testutil.DB(t)
	drinks := testutil.CreateCategory(t, gdb, "Drinks", true)
	food := testutil.CreateCategory(t, gdb, "Food", true)
	hidden := testutil.CreateCategory(t, gdb, "Seasonal", false)
	testutil.CreateProduct(t, gdb, drinks.ID, "Latte", "4.75", true)
	testutil.CreateProduct(t, gdb, food.ID, "Bagel", "2.00", true)
	testutil.CreateProduct(t, gdb, food.ID, "Scone", "2.10", false)
	testutil.CreateProduct(t, gdb, hidden.ID, "Eggnog", "6.00", true)

	svc := NewCatalog(gdb, nil)

	all, err := svc.ListProducts(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bagel", all[0].Name)
	assert.Equal(t, "Latte", all[1].Name)
	require.NotNil(t, all[0].Category)
	assert.Equal(t, "Food", all[0].Category.Name)

	onlyFood, err := svc.ListProducts(context.Background(), food.ID)
	require.NoError(t, err)
	require.Len(t, onlyFood, 1)
	assert.Equal(t, "Bagel", onlyFood[0].Name)

	none, err := svc.ListProducts(context.Background(), hidden.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalog_GetProduct(t *testing.T) {
	gdb := testutil.DB(t)
	drinks := testutil.CreateCategory(t, gdb, "Drinks", true)
	mocha := testutil.CreateProduct(t, gdb, drinks.ID, "Mocha", "5.00", false)

	svc := NewCatalog(gdb, nil)
	product, err := svc.GetProduct(context.Background(), mocha.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mocha", product.Name)
	assert.False(t, product.IsAvailable)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(5)))

	_, err = svc.GetProduct(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalog_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	rdb, mr := testutil.Redis(t)
	drinks := testutil.CreateCategory(t, gdb, "Drinks", true)
	testutil.CreateProduct(t, gdb, drinks.ID, "Latte", "4.75", true)

	svc := NewCatalog(gdb, rdb)
	first, err := svc.ListProducts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists(productsCacheKey+"0"))

	// A write behind the cache's back is not seen until invalidation
	testutil.CreateProduct(t, gdb, drinks.ID, "Americano", "3.25", true)
	cached, err := svc.ListProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, cached, 1)
	assert.Equal(t, "4.75", cached[0].Price.StringFixed(2))

	require.NoError(t, svc.Invalidate(ctx))
	assert.False(t, mr.Exists(productsCacheKey+"0"))

	fresh, err := svc.ListProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestCatalog_CacheTTL(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	rdb, mr := testutil.Redis(t)
	testutil.CreateCategory(t, gdb, "Drinks", true)

	svc := NewCatalog(gdb, rdb)
	_, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists(categoriesCacheKey))

	mr.FastForward(utils.CacheTTL + time.Second)
	assert.False(t, mr.Exists(categoriesCacheKey))
}
