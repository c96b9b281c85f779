package domain

import (
	"maps"
	"time"
)

// Attributes holds the optional choices made for a line, such as color or size.
type Attributes map[string]string

func (a Attributes) Equal(other Attributes) bool {
	return maps.Equal(a, other)
}

func (a Attributes) Clone() Attributes {
	if len(a) == 0 {
		return nil
	}
	return maps.Clone(a)
}

type Cart struct {
	ID        uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64     `json:"userId" gorm:"not null;uniqueIndex"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID"`
	CreatedAt time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

type CartItem struct {
	ID         uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CartID     uint64     `json:"cartId" gorm:"not null;index"`
	ProductID  uint64     `json:"productId" gorm:"not null;index"`
	Product    *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity   int64      `json:"quantity" gorm:"not null"`
	Attributes Attributes `json:"attributes,omitempty" gorm:"serializer:json;type:text"`
	CreatedAt  time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}
