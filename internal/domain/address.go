package domain

import "time"

type Address struct {
	ID         uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `json:"userId" gorm:"not null;index"`
	FullName   string    `json:"fullName" gorm:"size:191;not null"`
	Phone      string    `json:"phone" gorm:"size:32;not null"`
	Line1      string    `json:"line1" gorm:"size:255;not null"`
	Line2      string    `json:"line2" gorm:"size:255"`
	City       string    `json:"city" gorm:"size:128;not null"`
	State      string    `json:"state" gorm:"size:128"`
	PostalCode string    `json:"postalCode" gorm:"size:32"`
	Country    string    `json:"country" gorm:"size:64;not null"`
	IsDefault  bool      `json:"isDefault" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// AddressSnapshot is the copy of an Address frozen onto an order.
type AddressSnapshot struct {
	FullName   string `json:"fullName" gorm:"size:191"`
	Phone      string `json:"phone" gorm:"size:32"`
	Line1      string `json:"line1" gorm:"size:255"`
	Line2      string `json:"line2" gorm:"size:255"`
	City       string `json:"city" gorm:"size:128"`
	State      string `json:"state" gorm:"size:128"`
	PostalCode string `json:"postalCode" gorm:"size:32"`
	Country    string `json:"country" gorm:"size:64"`
}

func (a Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		FullName:   a.FullName,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}
