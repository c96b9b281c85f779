package mysql_test

import (
	"context"
	"testing"

	"storefront/internal/domain"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressRepo_ClearAndSetDefault(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := mysqlrepo.NewAddressRepository(db)
	first := testutil.SeedAddress(t, db, 1, true)
	second := testutil.SeedAddress(t, db, 1, false)
	other := testutil.SeedAddress(t, db, 2, true)

	require.NoError(t, repo.ClearDefault(ctx, 1))
	require.NoError(t, repo.SetDefault(ctx, second.ID))

	assert.Equal(t, int64(1), testutil.Count(t, db, &domain.Address{}, "user_id = ? AND is_default = ?", 1, true))

	list, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	got, err := repo.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)
}

func TestAddressRepo_UpdateCanClearFlag(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := mysqlrepo.NewAddressRepository(db)
	a := testutil.SeedAddress(t, db, 1, true)

	a.City = "Hue"
	a.IsDefault = false
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hue", got.City)
	assert.False(t, got.IsDefault)
}

func TestAddressRepo_CountAndDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := mysqlrepo.NewAddressRepository(db)
	a := testutil.SeedAddress(t, db, 1, true)
	testutil.SeedAddress(t, db, 1, false)

	n, err := repo.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, repo.Delete(ctx, a.ID))
	n, err = repo.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
