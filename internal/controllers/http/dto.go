package http

import "storefront/internal/domain"

type PlaceOrderRequest struct {
	CartItemIDs       []uint64 `json:"cartItemIds"`
	ShippingAddressID uint64   `json:"shippingAddressId"`
	PaymentMethod     string   `json:"paymentMethod"`
	Notes             string   `json:"notes" binding:"max=1024"`
}

type PlaceOrderResponse struct {
	ID      uint64 `json:"id"`
	OrderID string `json:"orderId"`
}

type UpdateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber" binding:"max=128"`
}

type ShippingAddressRequest struct {
	AddressID uint64 `json:"addressId" binding:"required"`
}

type AddCartItemRequest struct {
	ProductID  uint64            `json:"productId" binding:"required"`
	Quantity   int64             `json:"quantity" binding:"required,min=1"`
	Attributes domain.Attributes `json:"attributes"`
}

type UpdateCartItemRequest struct {
	Quantity *int64 `json:"quantity" binding:"required"`
}

type AddressRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country" binding:"required"`
	IsDefault  bool   `json:"isDefault"`
}

type CreateProductRequest struct {
	Slug        string   `json:"slug" binding:"required"`
	SKU         string   `json:"sku" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Image       string   `json:"image"`
	Price       int64    `json:"price" binding:"min=0"`
	SalePrice   int64    `json:"salePrice" binding:"min=0"`
	Stock       int64    `json:"stock" binding:"min=0"`
	CategoryIDs []uint64 `json:"categoryIds"`
	Tags        []string `json:"tags"`
}

// UpdateProductRequest lists the fields an admin may edit. Any other field in
// the body is rejected.
type UpdateProductRequest struct {
	Name        *string   `json:"name"`
	Image       *string   `json:"image"`
	Price       *int64    `json:"price"`
	SalePrice   *int64    `json:"salePrice"`
	Stock       *int64    `json:"stock"`
	Tags        *[]string `json:"tags"`
	CategoryIDs *[]uint64 `json:"categoryIds"`
}

func (r UpdateProductRequest) Changes() []domain.ProductChange {
	var out []domain.ProductChange
	if r.Name != nil {
		out = append(out, domain.SetName{Name: *r.Name})
	}
	if r.Image != nil {
		out = append(out, domain.SetImage{URL: *r.Image})
	}
	if r.Price != nil {
		out = append(out, domain.SetPrice{Price: *r.Price})
	}
	if r.SalePrice != nil {
		out = append(out, domain.SetSalePrice{SalePrice: *r.SalePrice})
	}
	if r.Stock != nil {
		out = append(out, domain.SetStock{Stock: *r.Stock})
	}
	if r.Tags != nil {
		out = append(out, domain.SetTags{Tags: *r.Tags})
	}
	if r.CategoryIDs != nil {
		out = append(out, domain.SetCategories{CategoryIDs: *r.CategoryIDs})
	}
	return out
}

type RateProductRequest struct {
	Stars int `json:"stars" binding:"required,min=1,max=5"`
}
