package mysql

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Repos() repository.Repositories {
	return reposFor(s.db)
}

func (s *store) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func reposFor(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Products:  NewProductRepository(db),
		Carts:     NewCartRepository(db),
		Addresses: NewAddressRepository(db),
		Users:     NewUserRepository(db),
		Orders:    NewOrderRepository(db),
	}
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.ProductRating{},
		&domain.Cart{},
		&domain.CartItem{},
		&domain.Address{},
		&domain.Order{},
		&domain.OrderItem{},
	)
}
