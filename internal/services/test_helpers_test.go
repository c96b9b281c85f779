package services

import (
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	"storefront/internal/mocks"
	mysqlrepo "storefront/internal/repository/mysql"
	"storefront/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	TestUserID      = uint64(1)
	TestOtherUserID = uint64(2)
	TestCartID      = uint64(10)
	TestCartItemID  = uint64(100)
	TestAddressID   = uint64(5)
	TestProductID   = uint64(1)
	TestOrderID     = uint64(1)
	TestShippingFee = int64(30000)
)

var (
	testCustomer = domain.Actor{UserID: TestUserID}
	testStranger = domain.Actor{UserID: TestOtherUserID}
	testAdmin    = domain.Actor{UserID: 99, Role: domain.RoleAdmin}
	testOptions  = OrderOptions{ShippingFee: TestShippingFee, ShippingMethod: "standard"}
	testNow      = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
)

func CreateMockProduct(id uint64, price, salePrice, stock int64) *domain.Product {
	return &domain.Product{
		ID:        id,
		Slug:      "test-product",
		SKU:       "TP-1",
		Name:      "Test Product",
		Price:     price,
		SalePrice: salePrice,
		Stock:     stock,
	}
}

func CreateMockCartItem(id, productID uint64, qty int64, p *domain.Product) domain.CartItem {
	return domain.CartItem{
		ID:        id,
		CartID:    TestCartID,
		ProductID: productID,
		Product:   p,
		Quantity:  qty,
	}
}

func CreateMockAddress(id, userID uint64, isDefault bool) *domain.Address {
	return &domain.Address{
		ID:        id,
		UserID:    userID,
		FullName:  "Jamie Doe",
		Phone:     "+84 900 000 000",
		Line1:     "1 Market Street",
		City:      "Hanoi",
		Country:   "VN",
		IsDefault: isDefault,
	}
}

func CreateMockOrder(id, userID uint64, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:          id,
		OrderNumber: "ORD-TEST",
		UserID:      userID,
		Items: []domain.OrderItem{
			{ProductID: TestProductID, Name: "Test Product", Price: 100, SalePrice: 80, Quantity: 2},
			{ProductID: 2, Name: "Other Product", Price: 50, SalePrice: 50, Quantity: 1},
		},
		Status:    status,
		Totals:    domain.NewTotals(250, 40, TestShippingFee),
		CreatedAt: testNow,
	}
}

// newMockOrderService returns a service over mocks with deterministic clock
// and identifiers.
func newMockOrderService() (*OrderService, *mocks.MockStore, *mocks.MockPublisher) {
	store := mocks.NewMockStore()
	pub := new(mocks.MockPublisher)
	s := NewOrderService(store, pub, nil, testOptions)
	s.now = func() time.Time { return testNow }
	s.newOrderNumber = func() string { return "ORD-TEST" }
	s.newTransactionID = func() string { return "txn-test" }
	return s, store, pub
}

func newSQLiteStore(t *testing.T) (*gorm.DB, *OrderService) {
	t.Helper()
	db := testutil.NewDB(t)
	return db, NewOrderService(mysqlrepo.NewStore(db), nil, nil, testOptions)
}

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return cache.New(rdb, time.Minute), mr
}
