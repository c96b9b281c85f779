package services

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// expectCheckout stubs the reads every successful placement makes: the cart,
// one selected item of product p and the caller's address.
func expectCheckout(store *mocks.MockStore, p *domain.Product, qty int64) {
	store.Carts.On("FindByUserID", mock.Anything, TestUserID).Return(&domain.Cart{ID: TestCartID, UserID: TestUserID}, nil)
	store.Carts.On("FindItems", mock.Anything, TestCartID, []uint64{TestCartItemID}).
		Return([]domain.CartItem{CreateMockCartItem(TestCartItemID, p.ID, qty, p)}, nil)
	store.Addresses.On("FindByID", mock.Anything, TestAddressID).Return(CreateMockAddress(TestAddressID, TestUserID, true), nil)
}

func expectCommit(store *mocks.MockStore, pub *mocks.MockPublisher, productID uint64, qty int64) {
	store.Products.On("DecrementStock", mock.Anything, []domain.StockLine{{ProductID: productID, Quantity: qty}}).Return(int64(1), nil)
	store.Orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
		order := args.Get(1).(*domain.Order)
		order.ID = TestOrderID
	})
	store.Carts.On("DeleteItems", mock.Anything, TestCartID, []uint64{TestCartItemID}).Return(int64(1), nil)
	pub.On("Publish", mock.Anything, domain.EventOrderCreated, mock.Anything).Return(nil).Maybe()
}

func TestOrderService_PlaceOrder(t *testing.T) {
	validInput := PlaceOrderInput{
		CartItemIDs:   []uint64{TestCartItemID},
		AddressID:     TestAddressID,
		PaymentMethod: "COD",
	}

	tests := []struct {
		name          string
		actor         domain.Actor
		input         PlaceOrderInput
		setupMocks    func(*mocks.MockStore, *mocks.MockPublisher)
		expectedError error
		check         func(*testing.T, *domain.Order)
	}{
		{
			name:  "cash on delivery",
			actor: testCustomer,
			input: validInput,
			setupMocks: func(store *mocks.MockStore, pub *mocks.MockPublisher) {
				p := CreateMockProduct(TestProductID, 100, 80, 3)
				expectCheckout(store, p, 2)
				expectCommit(store, pub, p.ID, 2)
			},
			check: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, TestOrderID, o.ID)
				assert.Equal(t, "ORD-TEST", o.OrderNumber)
				assert.Equal(t, domain.StatusProcessing, o.Status)
				assert.Equal(t, domain.PaymentCOD, o.Payment.Method)
				assert.Equal(t, domain.PaymentPending, o.Payment.Status)
				assert.Empty(t, o.Payment.TransactionID)
				assert.Equal(t, int64(200), o.Totals.Subtotal)
				assert.Equal(t, int64(40), o.Totals.Discount)
				assert.Equal(t, TestShippingFee, o.Totals.ShippingTotal)
				assert.Equal(t, int64(160)+TestShippingFee, o.Totals.GrandTotal)
				assert.True(t, o.Totals.Balanced())
				require.Len(t, o.Items, 1)
				assert.Equal(t, int64(80), o.Items[0].SalePrice)
				assert.Equal(t, "Hanoi", o.ShippingAddress.City)
				assert.Equal(t, testNow, o.CreatedAt)
			},
		},
		{
			name:  "credit card is paid with a transaction id",
			actor: testCustomer,
			input: PlaceOrderInput{CartItemIDs: []uint64{TestCartItemID, TestCartItemID, 0}, AddressID: TestAddressID, PaymentMethod: "CreditCard"},
			setupMocks: func(store *mocks.MockStore, pub *mocks.MockPublisher) {
				p := CreateMockProduct(TestProductID, 100, 0, 5)
				expectCheckout(store, p, 1)
				expectCommit(store, pub, p.ID, 1)
			},
			check: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, domain.PaymentPaid, o.Payment.Status)
				assert.Equal(t, "txn-test", o.Payment.TransactionID)
			},
		},
		{
			name:  "wallet is debited",
			actor: testCustomer,
			input: PlaceOrderInput{CartItemIDs: []uint64{TestCartItemID}, AddressID: TestAddressID, PaymentMethod: "wallet"},
			setupMocks: func(store *mocks.MockStore, pub *mocks.MockPublisher) {
				p := CreateMockProduct(TestProductID, 100, 0, 5)
				expectCheckout(store, p, 1)
				store.Users.On("FindByID", mock.Anything, TestUserID).Return(&domain.User{ID: TestUserID, WalletBalance: 50000}, nil)
				store.Users.On("DebitWallet", mock.Anything, TestUserID, int64(100)+TestShippingFee).Return(true, nil)
				expectCommit(store, pub, p.ID, 1)
			},
			check: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, domain.PaymentWallet, o.Payment.Method)
				assert.Equal(t, domain.PaymentPaid, o.Payment.Status)
			},
		},
		{
			name:          "unauthenticated",
			actor:         domain.Actor{},
			input:         validInput,
			setupMocks:    func(*mocks.MockStore, *mocks.MockPublisher) {},
			expectedError: domain.ErrUnauthenticated,
		},
		{
			name:          "empty selection",
			actor:         testCustomer,
			input:         PlaceOrderInput{CartItemIDs: []uint64{0}, AddressID: TestAddressID, PaymentMethod: "COD"},
			setupMocks:    func(*mocks.MockStore, *mocks.MockPublisher) {},
			expectedError: domain.ErrInvalidSelection,
		},
		{
			name:  "caller has no cart",
			actor: testCustomer,
			input: validInput,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				store.Carts.On("FindByUserID", mock.Anything, TestUserID).Return(nil, nil)
			},
			expectedError: domain.ErrInvalidSelection,
		},
		{
			name:  "selected items belong to someone else",
			actor: testCustomer,
			input: validInput,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				store.Carts.On("FindByUserID", mock.Anything, TestUserID).Return(&domain.Cart{ID: TestCartID, UserID: TestUserID}, nil)
				store.Carts.On("FindItems", mock.Anything, TestCartID, []uint64{TestCartItemID}).Return([]domain.CartItem{}, nil)
			},
			expectedError: domain.ErrInvalidSelection,
		},
		{
			name:  "address of another user",
			actor: testCustomer,
			input: validInput,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				p := CreateMockProduct(TestProductID, 100, 0, 5)
				store.Carts.On("FindByUserID", mock.Anything, TestUserID).Return(&domain.Cart{ID: TestCartID, UserID: TestUserID}, nil)
				store.Carts.On("FindItems", mock.Anything, TestCartID, []uint64{TestCartItemID}).
					Return([]domain.CartItem{CreateMockCartItem(TestCartItemID, p.ID, 1, p)}, nil)
				store.Addresses.On("FindByID", mock.Anything, TestAddressID).Return(CreateMockAddress(TestAddressID, TestOtherUserID, true), nil)
			},
			expectedError: domain.ErrInvalidAddress,
		},
		{
			name:  "missing address",
			actor: testCustomer,
			input: validInput,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				p := CreateMockProduct(TestProductID, 100, 0, 5)
				store.Carts.On("FindByUserID", mock.Anything, TestUserID).Return(&domain.Cart{ID: TestCartID, UserID: TestUserID}, nil)
				store.Carts.On("FindItems", mock.Anything, TestCartID, []uint64{TestCartItemID}).
					Return([]domain.CartItem{CreateMockCartItem(TestCartItemID, p.ID, 1, p)}, nil)
				store.Addresses.On("FindByID", mock.Anything, TestAddressID).Return(nil, nil)
			},
			expectedError: domain.ErrInvalidAddress,
		},
		{
			name:  "quantity above stock",
			actor: testCustomer,
			input: validInput,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				expectCheckout(store, CreateMockProduct(TestProductID, 100, 0, 1), 2)
			},
			expectedError: domain.ErrOutOfStock,
		},
		{
			name:  "unsupported payment method",
			actor: testCustomer,
			input: PlaceOrderInput{CartItemIDs: []uint64{TestCartItemID}, AddressID: TestAddressID, PaymentMethod: "bitcoin"},
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				expectCheckout(store, CreateMockProduct(TestProductID, 100, 0, 5), 1)
			},
			expectedError: domain.ErrUnsupportedPaymentMethod,
		},
		{
			name:  "wallet balance too low",
			actor: testCustomer,
			input: PlaceOrderInput{CartItemIDs: []uint64{TestCartItemID}, AddressID: TestAddressID, PaymentMethod: "wallet"},
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				expectCheckout(store, CreateMockProduct(TestProductID, 100, 0, 5), 1)
				store.Users.On("FindByID", mock.Anything, TestUserID).Return(&domain.User{ID: TestUserID, WalletBalance: 10}, nil)
			},
			expectedError: domain.ErrInsufficientBalance,
		},
		{
			name:  "wallet drained concurrently",
			actor: testCustomer,
			input: PlaceOrderInput{CartItemIDs: []uint64{TestCartItemID}, AddressID: TestAddressID, PaymentMethod: "wallet"},
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				expectCheckout(store, CreateMockProduct(TestProductID, 100, 0, 5), 1)
				store.Users.On("FindByID", mock.Anything, TestUserID).Return(&domain.User{ID: TestUserID, WalletBalance: 50000}, nil)
				store.Users.On("DebitWallet", mock.Anything, TestUserID, mock.AnythingOfType("int64")).Return(false, nil)
			},
			expectedError: domain.ErrInsufficientBalance,
		},
		{
			name:  "stock taken by a concurrent order",
			actor: testCustomer,
			input: validInput,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				expectCheckout(store, CreateMockProduct(TestProductID, 100, 0, 5), 1)
				store.Products.On("DecrementStock", mock.Anything, mock.Anything).Return(int64(0), nil)
			},
			expectedError: domain.ErrOutOfStock,
		},
		{
			name:  "cart items already consumed",
			actor: testCustomer,
			input: validInput,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				expectCheckout(store, CreateMockProduct(TestProductID, 100, 0, 5), 1)
				store.Products.On("DecrementStock", mock.Anything, mock.Anything).Return(int64(1), nil)
				store.Orders.On("Create", mock.Anything, mock.Anything).Return(nil)
				store.Carts.On("DeleteItems", mock.Anything, TestCartID, []uint64{TestCartItemID}).Return(int64(0), nil)
			},
			expectedError: domain.ErrInvalidSelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store, pub := newMockOrderService()
			tt.setupMocks(store, pub)

			result, err := service.PlaceOrder(context.Background(), tt.actor, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				tt.check(t, result)
			}

			store.AssertExpectations(t)
		})
	}
}

func TestOrderService_PlaceOrder_RepositoryError(t *testing.T) {
	service, store, _ := newMockOrderService()
	dbErr := errors.New("database error")
	store.Carts.On("FindByUserID", mock.Anything, TestUserID).Return(nil, dbErr)

	result, err := service.PlaceOrder(context.Background(), testCustomer, PlaceOrderInput{
		CartItemIDs:   []uint64{TestCartItemID},
		AddressID:     TestAddressID,
		PaymentMethod: "COD",
	})

	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, result)
	assert.False(t, domain.IsDomainError(err))
}

func TestOrderService_PlaceOrder_BeginFails(t *testing.T) {
	service, store, _ := newMockOrderService()
	store.TxErr = errors.New("connection refused")

	_, err := service.PlaceOrder(context.Background(), testCustomer, PlaceOrderInput{
		CartItemIDs:   []uint64{TestCartItemID},
		AddressID:     TestAddressID,
		PaymentMethod: "COD",
	})

	assert.EqualError(t, err, "connection refused")
	assert.Equal(t, 1, store.TxCalls)
}

func TestOrderService_CancelOrder(t *testing.T) {
	tests := []struct {
		name          string
		actor         domain.Actor
		setupMocks    func(*mocks.MockStore, *mocks.MockPublisher)
		expectedError error
	}{
		{
			name:  "owner cancels a processing order",
			actor: testCustomer,
			setupMocks: func(store *mocks.MockStore, pub *mocks.MockPublisher) {
				store.Orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, TestUserID, domain.StatusProcessing), nil)
				store.Orders.On("TransitionStatus", mock.Anything, TestOrderID, domain.StatusProcessing, domain.StatusCancelled, "", testNow).Return(true, nil)
				store.Products.On("IncrementStock", mock.Anything, []domain.StockLine{
					{ProductID: TestProductID, Quantity: 2},
					{ProductID: 2, Quantity: 1},
				}).Return(nil)
				pub.On("Publish", mock.Anything, domain.EventOrderCancelled, mock.Anything).Return(nil).Maybe()
			},
		},
		{
			name:  "admin cancels any order",
			actor: testAdmin,
			setupMocks: func(store *mocks.MockStore, pub *mocks.MockPublisher) {
				store.Orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, TestUserID, domain.StatusProcessing), nil)
				store.Orders.On("TransitionStatus", mock.Anything, TestOrderID, domain.StatusProcessing, domain.StatusCancelled, "", testNow).Return(true, nil)
				store.Products.On("IncrementStock", mock.Anything, mock.Anything).Return(nil)
				pub.On("Publish", mock.Anything, domain.EventOrderCancelled, mock.Anything).Return(nil).Maybe()
			},
		},
		{
			name:  "admin cancels a pending order",
			actor: testAdmin,
			setupMocks: func(store *mocks.MockStore, pub *mocks.MockPublisher) {
				store.Orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, TestUserID, domain.StatusPending), nil)
				store.Orders.On("TransitionStatus", mock.Anything, TestOrderID, domain.StatusPending, domain.StatusCancelled, "", testNow).Return(true, nil)
				store.Products.On("IncrementStock", mock.Anything, mock.Anything).Return(nil)
				pub.On("Publish", mock.Anything, domain.EventOrderCancelled, mock.Anything).Return(nil).Maybe()
			},
		},
		{
			name:  "owner may not cancel a pending order",
			actor: testCustomer,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				store.Orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, TestUserID, domain.StatusPending), nil)
			},
			expectedError: domain.ErrInvalidStateTransition,
		},
		{
			name:  "someone else's order looks missing",
			actor: testStranger,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				store.Orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, TestUserID, domain.StatusProcessing), nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:  "order not found",
			actor: testCustomer,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				store.Orders.On("FindByID", mock.Anything, TestOrderID).Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:  "shipped order cannot be cancelled",
			actor: testCustomer,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				store.Orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, TestUserID, domain.StatusShipped), nil)
			},
			expectedError: domain.ErrInvalidStateTransition,
		},
		{
			name:  "status changed under us",
			actor: testCustomer,
			setupMocks: func(store *mocks.MockStore, _ *mocks.MockPublisher) {
				store.Orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, TestUserID, domain.StatusProcessing), nil)
				store.Orders.On("TransitionStatus", mock.Anything, TestOrderID, domain.StatusProcessing, domain.StatusCancelled, "", testNow).Return(false, nil)
			},
			expectedError: domain.ErrInvalidStateTransition,
		},
		{
			name:          "unauthenticated",
			actor:         domain.Actor{},
			setupMocks:    func(*mocks.MockStore, *mocks.MockPublisher) {},
			expectedError: domain.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store, pub := newMockOrderService()
			tt.setupMocks(store, pub)

			result, err := service.CancelOrder(context.Background(), tt.actor, TestOrderID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.StatusCancelled, result.Status)
				require.NotNil(t, result.CancelledAt)
				assert.Equal(t, testNow, *result.CancelledAt)
			}

			store.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name          string
		actor         domain.Actor
		current       domain.OrderStatus
		update        OrderStatusUpdate
		setupMocks    func(*mocks.MockStore, *mocks.MockPublisher)
		expectedError error
		wantTracking  string
	}{
		{
			name:    "processing to shipped records tracking",
			actor:   testAdmin,
			current: domain.StatusProcessing,
			update:  OrderStatusUpdate{Status: "shipped", TrackingNumber: "TRK-1"},
			setupMocks: func(store *mocks.MockStore, pub *mocks.MockPublisher) {
				store.Orders.On("TransitionStatus", mock.Anything, TestOrderID, domain.StatusProcessing, domain.StatusShipped, "TRK-1", testNow).Return(true, nil)
				pub.On("Publish", mock.Anything, domain.EventOrderStatusChanged, mock.Anything).Return(nil).Maybe()
			},
			wantTracking: "TRK-1",
		},
		{
			name:    "tracking ignored outside shipping",
			actor:   testAdmin,
			current: domain.StatusShipped,
			update:  OrderStatusUpdate{Status: "delivered", TrackingNumber: "TRK-2"},
			setupMocks: func(store *mocks.MockStore, pub *mocks.MockPublisher) {
				store.Orders.On("TransitionStatus", mock.Anything, TestOrderID, domain.StatusShipped, domain.StatusDelivered, "", testNow).Return(true, nil)
				pub.On("Publish", mock.Anything, domain.EventOrderStatusChanged, mock.Anything).Return(nil).Maybe()
			},
		},
		{
			name:          "backwards move rejected",
			actor:         testAdmin,
			current:       domain.StatusShipped,
			update:        OrderStatusUpdate{Status: "processing"},
			setupMocks:    func(*mocks.MockStore, *mocks.MockPublisher) {},
			expectedError: domain.ErrInvalidStateTransition,
		},
		{
			name:          "cancelled order is final",
			actor:         testAdmin,
			current:       domain.StatusCancelled,
			update:        OrderStatusUpdate{Status: "shipped"},
			expectedError: domain.ErrInvalidStateTransition,
		},
		{
			name:          "returned order is final",
			actor:         testAdmin,
			current:       domain.StatusReturned,
			update:        OrderStatusUpdate{Status: "delivered"},
			expectedError: domain.ErrInvalidStateTransition,
		},
		{
			name:          "cancel goes through its own operation",
			actor:         testAdmin,
			current:       domain.StatusProcessing,
			update:        OrderStatusUpdate{Status: "cancelled"},
			expectedError: domain.ErrInvalidStateTransition,
		},
		{
			name:          "unknown status",
			actor:         testAdmin,
			current:       domain.StatusProcessing,
			update:        OrderStatusUpdate{Status: "lost"},
			expectedError: domain.ErrInvalidInput,
		},
		{
			name:          "customers may not change status",
			actor:         testCustomer,
			current:       domain.StatusProcessing,
			update:        OrderStatusUpdate{Status: "shipped"},
			expectedError: domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store, pub := newMockOrderService()
			store.Orders.On("FindByID", mock.Anything, TestOrderID).Return(CreateMockOrder(TestOrderID, TestUserID, tt.current), nil).Maybe()
			if tt.setupMocks != nil {
				tt.setupMocks(store, pub)
			}

			result, err := service.UpdateOrderStatus(context.Background(), tt.actor, TestOrderID, tt.update)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantTracking, result.Shipping.TrackingNumber)
			}

			store.AssertExpectations(t)
		})
	}
}

func TestOrderService_GetOrder(t *testing.T) {
	tests := []struct {
		name          string
		actor         domain.Actor
		found         *domain.Order
		expectedError error
	}{
		{name: "owner", actor: testCustomer, found: CreateMockOrder(TestOrderID, TestUserID, domain.StatusProcessing)},
		{name: "admin", actor: testAdmin, found: CreateMockOrder(TestOrderID, TestUserID, domain.StatusProcessing)},
		{name: "stranger", actor: testStranger, found: CreateMockOrder(TestOrderID, TestUserID, domain.StatusProcessing), expectedError: domain.ErrNotFound},
		{name: "missing", actor: testCustomer, expectedError: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store, _ := newMockOrderService()
			if tt.found != nil {
				store.Orders.On("FindByID", mock.Anything, TestOrderID).Return(tt.found, nil)
			} else {
				store.Orders.On("FindByID", mock.Anything, TestOrderID).Return(nil, nil)
			}

			result, err := service.GetOrder(context.Background(), tt.actor, TestOrderID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, TestOrderID, result.ID)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestOrderService_ListAllOrders(t *testing.T) {
	service, store, _ := newMockOrderService()
	store.Orders.On("List", mock.Anything, domain.StatusShipped).Return([]domain.Order{*CreateMockOrder(TestOrderID, TestUserID, domain.StatusShipped)}, nil)

	orders, err := service.ListAllOrders(context.Background(), testAdmin, "shipped")
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = service.ListAllOrders(context.Background(), testCustomer, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = service.ListAllOrders(context.Background(), testAdmin, "lost")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	store.AssertExpectations(t)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint64{3, 1}, uniqueIDs([]uint64{3, 0, 1, 3, 1}))
	assert.Empty(t, uniqueIDs(nil))
}
