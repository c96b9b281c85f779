package domain

// LineAmounts returns the list-price amount of a line and the discount the
// sale price grants on it.
func LineAmounts(p Product, qty int64) (amount, discount int64) {
	amount = p.Price * qty
	discount = (p.Price - p.EffectivePrice()) * qty
	return amount, discount
}

func NewTotals(subtotal, discount, shippingFee int64) Totals {
	return Totals{
		Subtotal:      subtotal,
		ShippingTotal: shippingFee,
		Discount:      discount,
		GrandTotal:    subtotal - discount + shippingFee,
	}
}

// Balanced reports whether the grand total agrees with its parts.
func (t Totals) Balanced() bool {
	return t.GrandTotal == t.Subtotal-t.Discount+t.ShippingTotal
}

// SnapshotItem freezes the product data of a cart line onto an order line.
func SnapshotItem(p Product, qty int64, attrs Attributes) OrderItem {
	return OrderItem{
		ProductID:  p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		Image:      p.Image,
		Price:      p.Price,
		SalePrice:  p.EffectivePrice(),
		Quantity:   qty,
		Attributes: attrs.Clone(),
	}
}
