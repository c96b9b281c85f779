// Package testutil opens throwaway databases and seeds them for tests.
package testutil

import (
	"fmt"
	"testing"

	"storefront/internal/domain"
	inframysql "storefront/internal/infra/mysql"
	mysqlrepo "storefront/internal/repository/mysql"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
// It holds a single connection, so concurrent transactions run one at a time.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), inframysql.GormConfig("silent"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := mysqlrepo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func SeedUser(t testing.TB, db *gorm.DB, wallet int64) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:         uuid.NewString() + "@example.com",
		Name:          "Test User",
		Role:          "user",
		WalletBalance: wallet,
	}
	mustCreate(t, db, u)
	return u
}

func SeedProduct(t testing.TB, db *gorm.DB, price, salePrice, stock int64) *domain.Product {
	t.Helper()
	suffix := uuid.NewString()[:8]
	p := &domain.Product{
		Slug:      "product-" + suffix,
		SKU:       "SKU-" + suffix,
		Name:      "Product " + suffix,
		Image:     "https://img.example.com/" + suffix + ".png",
		Price:     price,
		SalePrice: salePrice,
		Stock:     stock,
		Tags:      []string{"test"},
	}
	mustCreate(t, db, p)
	return p
}

func SeedAddress(t testing.TB, db *gorm.DB, userID uint64, isDefault bool) *domain.Address {
	t.Helper()
	a := &domain.Address{
		UserID:     userID,
		FullName:   "Jamie Doe",
		Phone:      "+84 900 000 000",
		Line1:      "1 Market Street",
		City:       "Hanoi",
		PostalCode: "100000",
		Country:    "VN",
		IsDefault:  isDefault,
	}
	mustCreate(t, db, a)
	return a
}

// SeedCartItem adds a line to the user's cart, creating the cart if needed.
func SeedCartItem(t testing.TB, db *gorm.DB, userID, productID uint64, qty int64) *domain.CartItem {
	t.Helper()
	var cart domain.Cart
	if err := db.Where(domain.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	it := &domain.CartItem{CartID: cart.ID, ProductID: productID, Quantity: qty}
	mustCreate(t, db, it)
	return it
}

func ReloadProduct(t testing.TB, db *gorm.DB, id uint64) domain.Product {
	t.Helper()
	var p domain.Product
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("reload product %d: %v", id, err)
	}
	return p
}

func ReloadUser(t testing.TB, db *gorm.DB, id uint64) domain.User {
	t.Helper()
	var u domain.User
	if err := db.First(&u, id).Error; err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return u
}

func Count(t testing.TB, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func mustCreate(t testing.TB, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}
