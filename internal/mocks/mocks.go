package mocks

import (
	"context"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockStore runs units of work directly against its mocked repositories. Set
// TxErr to make WithinTx fail before fn runs, as a failed BEGIN would.
type MockStore struct {
	Products  *MockProductRepository
	Carts     *MockCartRepository
	Addresses *MockAddressRepository
	Users     *MockUserRepository
	Orders    *MockOrderRepository
	TxErr     error
	TxCalls   int
}

func NewMockStore() *MockStore {
	return &MockStore{
		Products:  new(MockProductRepository),
		Carts:     new(MockCartRepository),
		Addresses: new(MockAddressRepository),
		Users:     new(MockUserRepository),
		Orders:    new(MockOrderRepository),
	}
}

func (m *MockStore) Repos() repository.Repositories {
	return repository.Repositories{
		Products:  m.Products,
		Carts:     m.Carts,
		Addresses: m.Addresses,
		Users:     m.Users,
		Orders:    m.Orders,
	}
}

func (m *MockStore) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	m.TxCalls++
	if m.TxErr != nil {
		return m.TxErr
	}
	return fn(m.Repos())
}

func (m *MockStore) AssertExpectations(t mock.TestingT) {
	m.Products.AssertExpectations(t)
	m.Carts.AssertExpectations(t)
	m.Addresses.AssertExpectations(t)
	m.Users.AssertExpectations(t)
	m.Orders.AssertExpectations(t)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message any) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsSlugOrSKU(ctx context.Context, slug, sku string) (bool, error) {
	args := m.Called(ctx, slug, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p *domain.Product, columns []string, expectedStock *int64) (bool, error) {
	args := m.Called(ctx, p, columns, expectedStock)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, lines []domain.StockLine) (int64, error) {
	args := m.Called(ctx, lines)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) IncrementStock(ctx context.Context, lines []domain.StockLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}

func (m *MockProductRepository) UpsertRating(ctx context.Context, r *domain.ProductRating) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockProductRepository) RatingHistogram(ctx context.Context, productID uint64) (domain.RatingHistogram, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.RatingHistogram), args.Error(1)
}

func (m *MockProductRepository) SetRatingSummary(ctx context.Context, productID uint64, s domain.RatingSummary) error {
	args := m.Called(ctx, productID, s)
	return args.Error(0)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUserID(ctx context.Context, userID uint64) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartRepository) Create(ctx context.Context, c *domain.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) FindItems(ctx context.Context, cartID uint64, ids []uint64) ([]domain.CartItem, error) {
	args := m.Called(ctx, cartID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *MockCartRepository) ListItems(ctx context.Context, cartID uint64) ([]domain.CartItem, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindItem(ctx context.Context, cartID, itemID uint64) (*domain.CartItem, error) {
	args := m.Called(ctx, cartID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindItemsByProduct(ctx context.Context, cartID, productID uint64) ([]domain.CartItem, error) {
	args := m.Called(ctx, cartID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *MockCartRepository) CreateItem(ctx context.Context, it *domain.CartItem) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateItemQuantity(ctx context.Context, itemID uint64, qty int64) error {
	args := m.Called(ctx, itemID, qty)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItems(ctx context.Context, cartID uint64, ids []uint64) (int64, error) {
	args := m.Called(ctx, cartID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) Create(ctx context.Context, a *domain.Address) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAddressRepository) Update(ctx context.Context, a *domain.Address) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uint64) (*domain.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *MockAddressRepository) ListByUser(ctx context.Context, userID uint64) ([]domain.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Address), args.Error(1)
}

func (m *MockAddressRepository) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAddressRepository) ClearDefault(ctx context.Context, userID uint64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAddressRepository) SetDefault(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) DebitWallet(ctx context.Context, userID uint64, amount int64) (bool, error) {
	args := m.Called(ctx, userID, amount)
	return args.Bool(0), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) TransitionStatus(ctx context.Context, id uint64, from, to domain.OrderStatus, tracking string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, from, to, tracking, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateShippingAddress(ctx context.Context, id uint64, addr domain.AddressSnapshot) (bool, error) {
	args := m.Called(ctx, id, addr)
	return args.Bool(0), args.Error(1)
}

var (
	_ repository.Store             = (*MockStore)(nil)
	_ repository.ProductRepository = (*MockProductRepository)(nil)
	_ repository.CartRepository    = (*MockCartRepository)(nil)
	_ repository.AddressRepository = (*MockAddressRepository)(nil)
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ repository.OrderRepository   = (*MockOrderRepository)(nil)
)
