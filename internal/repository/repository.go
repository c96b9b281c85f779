package repository

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// Lookups return (nil, nil) when the row does not exist.

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	ExistsSlugOrSKU(ctx context.Context, slug, sku string) (bool, error)
	// Update writes columns of p. When expectedStock is non-nil the write only
	// happens if the stored stock still equals it; the bool reports whether a row changed.
	Update(ctx context.Context, p *domain.Product, columns []string, expectedStock *int64) (bool, error)
	// DecrementStock takes each line out of stock only where enough is left and
	// returns how many products were modified.
	DecrementStock(ctx context.Context, lines []domain.StockLine) (int64, error)
	IncrementStock(ctx context.Context, lines []domain.StockLine) error
	UpsertRating(ctx context.Context, r *domain.ProductRating) error
	RatingHistogram(ctx context.Context, productID uint64) (domain.RatingHistogram, error)
	SetRatingSummary(ctx context.Context, productID uint64, s domain.RatingSummary) error
}

type CartRepository interface {
	FindByUserID(ctx context.Context, userID uint64) (*domain.Cart, error)
	Create(ctx context.Context, c *domain.Cart) error
	// FindItems returns the items of cartID among ids, each joined with its product.
	// Ids belonging to other carts are left out.
	FindItems(ctx context.Context, cartID uint64, ids []uint64) ([]domain.CartItem, error)
	ListItems(ctx context.Context, cartID uint64) ([]domain.CartItem, error)
	FindItem(ctx context.Context, cartID, itemID uint64) (*domain.CartItem, error)
	FindItemsByProduct(ctx context.Context, cartID, productID uint64) ([]domain.CartItem, error)
	CreateItem(ctx context.Context, it *domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uint64, qty int64) error
	DeleteItems(ctx context.Context, cartID uint64, ids []uint64) (int64, error)
}

type AddressRepository interface {
	Create(ctx context.Context, a *domain.Address) error
	Update(ctx context.Context, a *domain.Address) error
	FindByID(ctx context.Context, id uint64) (*domain.Address, error)
	ListByUser(ctx context.Context, userID uint64) ([]domain.Address, error)
	CountByUser(ctx context.Context, userID uint64) (int64, error)
	Delete(ctx context.Context, id uint64) error
	ClearDefault(ctx context.Context, userID uint64) error
	SetDefault(ctx context.Context, id uint64) error
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	// DebitWallet subtracts amount only if the balance covers it.
	DebitWallet(ctx context.Context, userID uint64, amount int64) (bool, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
	List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	// TransitionStatus moves the order from one status to another only if it is
	// still in from; the bool reports whether it did. at stamps cancelled_at
	// when to is cancelled.
	TransitionStatus(ctx context.Context, id uint64, from, to domain.OrderStatus, tracking string, at time.Time) (bool, error)
	// UpdateShippingAddress replaces the snapshot while the order is processing.
	UpdateShippingAddress(ctx context.Context, id uint64, addr domain.AddressSnapshot) (bool, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Products  ProductRepository
	Carts     CartRepository
	Addresses AddressRepository
	Users     UserRepository
	Orders    OrderRepository
}

// Store hands out repositories and runs units of work. Returning an error from
// fn rolls back every write fn made.
type Store interface {
	Repos() Repositories
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
