package mysql_test

import (
	"context"
	"testing"

	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepo_FindItemsScopesToCart(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := mysqlrepo.NewCartRepository(db)
	p := testutil.SeedProduct(t, db, 100, 80, 10)

	mine := testutil.SeedCartItem(t, db, 1, p.ID, 2)
	theirs := testutil.SeedCartItem(t, db, 2, p.ID, 1)

	cart, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, cart)

	items, err := repo.FindItems(ctx, cart.ID, []uint64{mine.ID, theirs.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID, items[0].ID)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, int64(80), items[0].Product.SalePrice)
}

func TestCartRepo_DeleteItemsCountsRows(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := mysqlrepo.NewCartRepository(db)
	p := testutil.SeedProduct(t, db, 100, 0, 10)
	a := testutil.SeedCartItem(t, db, 1, p.ID, 1)
	b := testutil.SeedCartItem(t, db, 1, p.ID, 1)

	cart, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)

	n, err := repo.DeleteItems(ctx, cart.ID, []uint64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteItems(ctx, cart.ID, []uint64{a.ID})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCartRepo_FindByUserIDMissing(t *testing.T) {
	repo := mysqlrepo.NewCartRepository(testutil.NewDB(t))
	c, err := repo.FindByUserID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, c)
}
