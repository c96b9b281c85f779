package mysql_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/repository"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WithinTxRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProduct(t, db, 100, 0, 5)
	store := mysqlrepo.NewStore(db)
	boom := errors.New("boom")

	err := store.WithinTx(context.Background(), func(r repository.Repositories) error {
		n, err := r.Products.DecrementStock(context.Background(), []domain.StockLine{{ProductID: p.ID, Quantity: 3}})
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(5), testutil.ReloadProduct(t, db, p.ID).Stock)
}

func TestStore_WithinTxCommits(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProduct(t, db, 100, 0, 5)
	store := mysqlrepo.NewStore(db)

	err := store.WithinTx(context.Background(), func(r repository.Repositories) error {
		_, err := r.Products.DecrementStock(context.Background(), []domain.StockLine{{ProductID: p.ID, Quantity: 3}})
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), testutil.ReloadProduct(t, db, p.ID).Stock)
}
