package domain

import "time"

type User struct {
	ID            uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Email         string    `json:"email" gorm:"size:191;uniqueIndex;not null"`
	Name          string    `json:"name" gorm:"size:191"`
	Role          string    `json:"role" gorm:"size:32;default:'user'"`
	WalletBalance int64     `json:"walletBalance" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
