package domain

import "time"

const (
	EventOrderCreated       = "order.created"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderCreatedEvent struct {
	OrderID     uint64        `json:"orderId"`
	OrderNumber string        `json:"orderNumber"`
	UserID      uint64        `json:"userId"`
	GrandTotal  int64         `json:"grandTotal"`
	Payment     PaymentMethod `json:"paymentMethod"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID     uint64      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	UserID      uint64      `json:"userId"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
	ChangedAt   time.Time   `json:"changedAt"`
}
