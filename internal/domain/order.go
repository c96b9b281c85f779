package domain

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusReturned   OrderStatus = "returned"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, s)
}

type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "cod"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentWallet     PaymentMethod = "wallet"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type Payment struct {
	Method        PaymentMethod `json:"method" gorm:"size:32;not null"`
	Status        PaymentStatus `json:"status" gorm:"size:32;not null"`
	TransactionID string        `json:"transactionId,omitempty" gorm:"size:64"`
}

type Shipping struct {
	Method         string `json:"method" gorm:"size:64"`
	Fee            int64  `json:"fee" gorm:"not null;default:0"`
	TrackingNumber string `json:"trackingNumber,omitempty" gorm:"size:128"`
}

type Totals struct {
	Subtotal      int64 `json:"subtotal" gorm:"not null"`
	ShippingTotal int64 `json:"shippingTotal" gorm:"not null"`
	Discount      int64 `json:"discount" gorm:"not null"`
	GrandTotal    int64 `json:"grandTotal" gorm:"not null"`
}

type Order struct {
	ID              uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber     string          `json:"orderId" gorm:"size:64;uniqueIndex;not null"`
	UserID          uint64          `json:"userId" gorm:"not null;index"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	ShippingAddress AddressSnapshot `json:"shippingAddress" gorm:"embedded;embeddedPrefix:ship_"`
	Payment         Payment         `json:"payment" gorm:"embedded;embeddedPrefix:payment_"`
	Status          OrderStatus     `json:"status" gorm:"size:32;not null;index"`
	Shipping        Shipping        `json:"shipping" gorm:"embedded;embeddedPrefix:shipping_"`
	Totals          Totals          `json:"totals" gorm:"embedded;embeddedPrefix:total_"`
	Notes           string          `json:"notes,omitempty" gorm:"size:1024"`
	CancelledAt     *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}

// OrderItem is a snapshot of a product line taken when the order was placed.
// It never follows later edits of the product.
type OrderItem struct {
	ID         uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID    uint64     `json:"-" gorm:"not null;index"`
	ProductID  uint64     `json:"productId" gorm:"not null;index"`
	Name       string     `json:"name" gorm:"size:255"`
	SKU        string     `json:"sku" gorm:"column:sku;size:64"`
	Image      string     `json:"image" gorm:"size:512"`
	Price      int64      `json:"price" gorm:"not null"`
	SalePrice  int64      `json:"salePrice" gorm:"not null"`
	Quantity   int64      `json:"quantity" gorm:"not null"`
	Attributes Attributes `json:"attributes,omitempty" gorm:"serializer:json;type:text"`
}

// StockLines returns the quantity of each product in the order.
func (o Order) StockLines() []StockLine {
	lines := make([]StockLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, StockLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return MergeStockLines(lines)
}

// StockLine is a quantity of one product to take out of, or put back into, stock.
type StockLine struct {
	ProductID uint64
	Quantity  int64
}

// MergeStockLines sums quantities per product, keeping first-seen order.
func MergeStockLines(lines []StockLine) []StockLine {
	idx := make(map[uint64]int, len(lines))
	out := make([]StockLine, 0, len(lines))
	for _, l := range lines {
		if i, ok := idx[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}
