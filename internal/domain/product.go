package domain

import "time"

type Product struct {
	ID          uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug        string        `json:"slug" gorm:"size:191;uniqueIndex;not null"`
	SKU         string        `json:"sku" gorm:"column:sku;size:64;uniqueIndex;not null"`
	Name        string        `json:"name" gorm:"size:255;not null"`
	Image       string        `json:"image" gorm:"size:512"`
	Price       int64         `json:"price" gorm:"not null"`
	SalePrice   int64         `json:"salePrice" gorm:"not null"`
	Stock       int64         `json:"stock" gorm:"not null;default:0"`
	CategoryIDs []uint64      `json:"categoryIds" gorm:"serializer:json;type:text"`
	Tags        []string      `json:"tags" gorm:"serializer:json;type:text"`
	Rating      RatingSummary `json:"rating" gorm:"embedded;embeddedPrefix:rating_"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `json:"updatedAt" gorm:"autoUpdateTime"`
}

// EffectivePrice is what a customer pays per unit. A sale price of zero, or one
// above the list price, is ignored.
func (p Product) EffectivePrice() int64 {
	if p.SalePrice > 0 && p.SalePrice <= p.Price {
		return p.SalePrice
	}
	return p.Price
}

// Validate checks the invariants an admin edit must preserve.
func (p Product) Validate() error {
	switch {
	case p.Slug == "" || p.SKU == "" || p.Name == "":
		return ErrInvalidInput
	case p.Price < 0 || p.SalePrice < 0:
		return ErrInvalidInput
	case p.SalePrice > p.Price:
		return ErrInvalidInput
	case p.Stock < 0:
		return ErrInvalidInput
	}
	return nil
}
