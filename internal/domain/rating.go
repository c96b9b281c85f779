package domain

import (
	"fmt"
	"time"
)

const (
	MinStars = 1
	MaxStars = 5
)

// ProductRating is a single user's score for a product.
type ProductRating struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID uint64    `json:"productId" gorm:"not null;uniqueIndex:idx_rating_product_user"`
	UserID    uint64    `json:"userId" gorm:"not null;uniqueIndex:idx_rating_product_user"`
	Stars     int       `json:"stars" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// RatingHistogram counts ratings per star; index 0 holds one-star ratings.
type RatingHistogram [MaxStars]int64

type RatingSummary struct {
	Average   float64         `json:"average" gorm:"not null;default:0"`
	Count     int64           `json:"count" gorm:"not null;default:0"`
	Histogram RatingHistogram `json:"histogram" gorm:"serializer:json;type:text"`
}

func ValidateStars(stars int) error {
	if stars < MinStars || stars > MaxStars {
		return fmt.Errorf("%w: stars must be between %d and %d", ErrInvalidInput, MinStars, MaxStars)
	}
	return nil
}

// Summarize derives count and mean from a histogram.
func Summarize(h RatingHistogram) RatingSummary {
	var count, total int64
	for i, n := range h {
		count += n
		total += n * int64(i+1)
	}
	s := RatingSummary{Count: count, Histogram: h}
	if count > 0 {
		s.Average = float64(total) / float64(count)
	}
	return s
}
