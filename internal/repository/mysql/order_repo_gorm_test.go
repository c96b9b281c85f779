package mysql_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, userID uint64, status domain.OrderStatus) *domain.Order {
	t.Helper()
	o := &domain.Order{
		OrderNumber: "ORD-" + uuid.NewString(),
		UserID:      userID,
		Items: []domain.OrderItem{
			{ProductID: 1, Name: "Tee", SKU: "TEE", Price: 100, SalePrice: 80, Quantity: 2, Attributes: domain.Attributes{"size": "M"}},
		},
		ShippingAddress: domain.AddressSnapshot{FullName: "Jamie Doe", Line1: "1 Market Street", City: "Hanoi", Country: "VN"},
		Payment:         domain.Payment{Method: domain.PaymentCOD, Status: domain.PaymentPending},
		Status:          status,
		Shipping:        domain.Shipping{Method: "standard", Fee: 30000},
		Totals:          domain.NewTotals(200, 40, 30000),
	}
	require.NoError(t, mysqlrepo.NewOrderRepository(db).Create(context.Background(), o))
	return o
}

func TestOrderRepo_CreateAndFind(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysqlrepo.NewOrderRepository(db)
	o := seedOrder(t, db, 7, domain.StatusProcessing)

	got, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, o.OrderNumber, got.OrderNumber)
	assert.Equal(t, domain.StatusProcessing, got.Status)
	assert.Equal(t, int64(30160), got.Totals.GrandTotal)
	assert.Equal(t, "Hanoi", got.ShippingAddress.City)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "M", got.Items[0].Attributes["size"])
	assert.Equal(t, o.ID, got.Items[0].OrderID)
}

func TestOrderRepo_FindByIDMissing(t *testing.T) {
	repo := mysqlrepo.NewOrderRepository(testutil.NewDB(t))
	o, err := repo.FindByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, o)
}

func TestOrderRepo_TransitionStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := mysqlrepo.NewOrderRepository(db)
	o := seedOrder(t, db, 7, domain.StatusProcessing)

	ok, err := repo.TransitionStatus(ctx, o.ID, domain.StatusPending, domain.StatusShipped, "", time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "stale from status must not match")

	ok, err = repo.TransitionStatus(ctx, o.ID, domain.StatusProcessing, domain.StatusShipped, "TRK-1", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, got.Status)
	assert.Equal(t, "TRK-1", got.Shipping.TrackingNumber)
	assert.Nil(t, got.CancelledAt)
}

func TestOrderRepo_TransitionToCancelledStampsTime(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := mysqlrepo.NewOrderRepository(db)
	o := seedOrder(t, db, 7, domain.StatusProcessing)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	ok, err := repo.TransitionStatus(ctx, o.ID, domain.StatusProcessing, domain.StatusCancelled, "", at)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancelledAt)
	assert.True(t, at.Equal(*got.CancelledAt), "cancelled_at %v, want %v", got.CancelledAt, at)
}

func TestOrderRepo_UpdateShippingAddress(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := mysqlrepo.NewOrderRepository(db)
	processing := seedOrder(t, db, 7, domain.StatusProcessing)

	snap := domain.AddressSnapshot{FullName: "Alex Roe", Line1: "9 Harbour Road", City: "Da Nang", Country: "VN"}
	ok, err := repo.UpdateShippingAddress(ctx, processing.ID, snap)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(ctx, processing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Da Nang", got.ShippingAddress.City)
	assert.Equal(t, "Alex Roe", got.ShippingAddress.FullName)

	_, err = repo.TransitionStatus(ctx, processing.ID, domain.StatusProcessing, domain.StatusShipped, "", time.Now())
	require.NoError(t, err)
	ok, err = repo.UpdateShippingAddress(ctx, processing.ID, snap)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderRepo_ListByUserAndStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := mysqlrepo.NewOrderRepository(db)

	seedOrder(t, db, 1, domain.StatusProcessing)
	seedOrder(t, db, 1, domain.StatusDelivered)
	seedOrder(t, db, 2, domain.StatusProcessing)

	mine, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	processing, err := repo.List(ctx, domain.StatusProcessing)
	require.NoError(t, err)
	assert.Len(t, processing, 2)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
