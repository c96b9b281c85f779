package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type OrderOptions struct {
	ShippingFee    int64
	ShippingMethod string
}

type OrderService struct {
	store     repository.Store
	publisher rabbit.PublisherInterface
	cache     *cache.Cache
	opts      OrderOptions

	now              func() time.Time
	newOrderNumber   func() string
	newTransactionID func() string
}

func NewOrderService(store repository.Store, pub rabbit.PublisherInterface, c *cache.Cache, opts OrderOptions) *OrderService {
	if pub == nil {
		pub = rabbit.NopPublisher{}
	}
	return &OrderService{
		store:     store,
		publisher: pub,
		cache:     c,
		opts:      opts,
		now:       time.Now,
		newOrderNumber: func() string {
			return "ORD-" + ulid.Make().String()
		},
		newTransactionID: uuid.NewString,
	}
}

type PlaceOrderInput struct {
	CartItemIDs   []uint64
	AddressID     uint64
	PaymentMethod string
	Notes         string
}

type OrderStatusUpdate struct {
	Status         string
	TrackingNumber string
}

// PlaceOrder turns the selected cart items of the caller into an order. Every
// read and write happens in one transaction: on any failure nothing is
// charged, no stock moves and the cart is left as it was.
func (s *OrderService) PlaceOrder(ctx context.Context, actor domain.Actor, in PlaceOrderInput) (*domain.Order, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	ids := uniqueIDs(in.CartItemIDs)
	if len(ids) == 0 {
		return nil, domain.ErrInvalidSelection
	}

	var order *domain.Order
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		cart, err := r.Carts.FindByUserID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if cart == nil {
			return domain.ErrInvalidSelection
		}

		items, err := r.Carts.FindItems(ctx, cart.ID, ids)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrInvalidSelection
		}

		addr, err := r.Addresses.FindByID(ctx, in.AddressID)
		if err != nil {
			return err
		}
		if addr == nil || addr.UserID != actor.UserID {
			return domain.ErrInvalidAddress
		}

		o, lines, err := s.buildOrder(actor.UserID, items, *addr, in.Notes)
		if err != nil {
			return err
		}

		payment, err := s.settle(ctx, r, actor.UserID, in.PaymentMethod, o.Totals.GrandTotal)
		if err != nil {
			return err
		}
		o.Payment = payment

		modified, err := r.Products.DecrementStock(ctx, lines)
		if err != nil {
			return err
		}
		if modified < int64(len(lines)) {
			return fmt.Errorf("%w: stock ran out while placing the order, please retry", domain.ErrOutOfStock)
		}

		if err := r.Orders.Create(ctx, o); err != nil {
			return err
		}

		consumed := make([]uint64, 0, len(items))
		for _, it := range items {
			consumed = append(consumed, it.ID)
		}
		deleted, err := r.Carts.DeleteItems(ctx, cart.ID, consumed)
		if err != nil {
			return err
		}
		if deleted != int64(len(consumed)) {
			return fmt.Errorf("%w: cart items were already ordered", domain.ErrInvalidSelection)
		}

		order = o
		return nil
	})
	if err != nil {
		logUnexpected("place order", actor, err)
		return nil, err
	}
	s.invalidateProducts(ctx, order.StockLines())

	go s.publish(context.WithoutCancel(ctx), domain.EventOrderCreated, domain.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		GrandTotal:  order.Totals.GrandTotal,
		Payment:     order.Payment.Method,
		CreatedAt:   order.CreatedAt,
	})

	return order, nil
}

// buildOrder prices the items against their live products and freezes the
// snapshots. It returns the stock to take, merged per product.
func (s *OrderService) buildOrder(userID uint64, items []domain.CartItem, addr domain.Address, notes string) (*domain.Order, []domain.StockLine, error) {
	var subtotal, discount int64
	snapshots := make([]domain.OrderItem, 0, len(items))
	lines := make([]domain.StockLine, 0, len(items))

	for _, it := range items {
		if it.Product == nil {
			return nil, nil, fmt.Errorf("%w: product %d is no longer available", domain.ErrOutOfStock, it.ProductID)
		}
		p := *it.Product
		if p.Stock < it.Quantity {
			return nil, nil, fmt.Errorf("%w: %s has only %d left", domain.ErrOutOfStock, p.Name, p.Stock)
		}
		amount, off := domain.LineAmounts(p, it.Quantity)
		subtotal += amount
		discount += off
		snapshots = append(snapshots, domain.SnapshotItem(p, it.Quantity, it.Attributes))
		lines = append(lines, domain.StockLine{ProductID: p.ID, Quantity: it.Quantity})
	}

	now := s.now()
	return &domain.Order{
		OrderNumber:     s.newOrderNumber(),
		UserID:          userID,
		Items:           snapshots,
		ShippingAddress: addr.Snapshot(),
		Status:          domain.StatusProcessing,
		Shipping: domain.Shipping{
			Method: s.opts.ShippingMethod,
			Fee:    s.opts.ShippingFee,
		},
		Totals:    domain.NewTotals(subtotal, discount, s.opts.ShippingFee),
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}, domain.MergeStockLines(lines), nil
}

func (s *OrderService) settle(ctx context.Context, r repository.Repositories, userID uint64, method string, amount int64) (domain.Payment, error) {
	m, err := domain.ParsePaymentMethod(method)
	if err != nil {
		return domain.Payment{}, err
	}

	switch m {
	case domain.PaymentCOD:
		return domain.Payment{Method: m, Status: domain.PaymentPending}, nil

	case domain.PaymentCreditCard:
		return domain.Payment{Method: m, Status: domain.PaymentPaid, TransactionID: s.newTransactionID()}, nil

	case domain.PaymentWallet:
		user, err := r.Users.FindByID(ctx, userID)
		if err != nil {
			return domain.Payment{}, err
		}
		if user == nil {
			return domain.Payment{}, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
		}
		if user.WalletBalance < amount {
			return domain.Payment{}, domain.ErrInsufficientBalance
		}
		ok, err := r.Users.DebitWallet(ctx, userID, amount)
		if err != nil {
			return domain.Payment{}, err
		}
		if !ok {
			return domain.Payment{}, domain.ErrInsufficientBalance
		}
		return domain.Payment{Method: m, Status: domain.PaymentPaid}, nil
	}

	return domain.Payment{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedPaymentMethod, method)
}

// CancelOrder cancels an order and puts every item back into stock. Owners
// may cancel their own processing orders, admins any pending or processing one.
func (s *OrderService) CancelOrder(ctx context.Context, actor domain.Actor, orderID uint64) (*domain.Order, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	var order *domain.Order
	var from domain.OrderStatus
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		o, err := r.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil || !(actor.Owns(o.UserID) || actor.IsAdmin()) {
			return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
		}
		if !domain.Cancellable(o.Status, actor.IsAdmin()) {
			return fmt.Errorf("%w: order is %s", domain.ErrInvalidStateTransition, o.Status)
		}

		now := s.now()
		ok, err := r.Orders.TransitionStatus(ctx, o.ID, o.Status, domain.StatusCancelled, "", now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order changed concurrently", domain.ErrInvalidStateTransition)
		}

		if err := r.Products.IncrementStock(ctx, o.StockLines()); err != nil {
			return err
		}

		from = o.Status
		o.Status = domain.StatusCancelled
		o.CancelledAt = &now
		order = o
		return nil
	})
	if err != nil {
		logUnexpected("cancel order", actor, err)
		return nil, err
	}
	s.invalidateProducts(ctx, order.StockLines())

	go s.publish(context.WithoutCancel(ctx), domain.EventOrderCancelled, domain.OrderStatusChangedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		From:        from,
		To:          domain.StatusCancelled,
		ChangedAt:   *order.CancelledAt,
	})

	return order, nil
}

// UpdateOrderStatus moves an order along the fulfilment graph on behalf of an
// admin. It never touches stock or payment.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actor domain.Actor, orderID uint64, upd OrderStatusUpdate) (*domain.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	to, err := domain.ParseOrderStatus(upd.Status)
	if err != nil {
		return nil, err
	}
	if to == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: use cancel to cancel an order", domain.ErrInvalidStateTransition)
	}

	var order *domain.Order
	var from domain.OrderStatus
	changedAt := s.now()
	err = s.store.WithinTx(ctx, func(r repository.Repositories) error {
		o, err := r.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
		}
		if o.Status.Terminal() {
			return fmt.Errorf("%w: order is already %s", domain.ErrInvalidStateTransition, o.Status)
		}
		if !domain.CanTransition(o.Status, to) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStateTransition, o.Status, to)
		}

		tracking := ""
		if to == domain.StatusShipped {
			tracking = upd.TrackingNumber
		}
		ok, err := r.Orders.TransitionStatus(ctx, o.ID, o.Status, to, tracking, changedAt)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order changed concurrently", domain.ErrInvalidStateTransition)
		}

		from = o.Status
		o.Status = to
		if tracking != "" {
			o.Shipping.TrackingNumber = tracking
		}
		order = o
		return nil
	})
	if err != nil {
		logUnexpected("update order status", actor, err)
		return nil, err
	}

	go s.publish(context.WithoutCancel(ctx), domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		From:        from,
		To:          to,
		ChangedAt:   changedAt,
	})

	return order, nil
}

// UpdateShippingAddress re-snapshots one of the owner's addresses onto an
// order that has not shipped yet.
func (s *OrderService) UpdateShippingAddress(ctx context.Context, actor domain.Actor, orderID, addressID uint64) (*domain.Order, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	var order *domain.Order
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		o, err := r.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil || !actor.Owns(o.UserID) {
			return fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
		}
		if o.Status != domain.StatusProcessing {
			return fmt.Errorf("%w: order is %s", domain.ErrInvalidStateTransition, o.Status)
		}

		addr, err := r.Addresses.FindByID(ctx, addressID)
		if err != nil {
			return err
		}
		if addr == nil || addr.UserID != actor.UserID {
			return domain.ErrInvalidAddress
		}

		snap := addr.Snapshot()
		ok, err := r.Orders.UpdateShippingAddress(ctx, o.ID, snap)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order changed concurrently", domain.ErrInvalidStateTransition)
		}
		o.ShippingAddress = snap
		order = o
		return nil
	})
	if err != nil {
		logUnexpected("update shipping address", actor, err)
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, actor domain.Actor, orderID uint64) (*domain.Order, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	o, err := s.store.Repos().Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || !(actor.Owns(o.UserID) || actor.IsAdmin()) {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, orderID)
	}
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.store.Repos().Orders.ListByUser(ctx, actor.UserID)
}

func (s *OrderService) ListAllOrders(ctx context.Context, actor domain.Actor, status string) ([]domain.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	var st domain.OrderStatus
	if status != "" {
		parsed, err := domain.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		st = parsed
	}
	return s.store.Repos().Orders.List(ctx, st)
}

// invalidateProducts drops cached products whose stock an order just moved.
func (s *OrderService) invalidateProducts(ctx context.Context, lines []domain.StockLine) {
	keys := make([]string, 0, len(lines))
	for _, l := range lines {
		keys = append(keys, cache.ProductKey(l.ProductID))
	}
	s.cache.Invalidate(context.WithoutCancel(ctx), keys...)
}

func (s *OrderService) publish(ctx context.Context, pattern string, evt any) {
	log.Printf("Publishing %s event: %+v", pattern, evt)
	if err := s.publisher.Publish(ctx, pattern, evt); err != nil {
		log.Printf("Failed to publish %s event: %v", pattern, err)
	}
}
