package mysql

import (
	"context"
	"errors"
	"log"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

// Create inserts the order together with its item snapshots.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		log.Printf("order create error: %v", result.Error)
		return result.Error
	}

	if order.ID == 0 {
		log.Printf("WARNING: order saved but ID is still 0. Rows affected: %d", result.RowsAffected)
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("order FindByID error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("order ListByUser error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.Order
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		log.Printf("order List error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) TransitionStatus(ctx context.Context, id uint64, from, to domain.OrderStatus, tracking string, at time.Time) (bool, error) {
	updates := map[string]any{"status": to}
	if tracking != "" {
		updates["shipping_tracking_number"] = tracking
	}
	if to == domain.StatusCancelled {
		updates["cancelled_at"] = at
	}

	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		log.Printf("order TransitionStatus error: %v", res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepo) UpdateShippingAddress(ctx context.Context, id uint64, a domain.AddressSnapshot) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, domain.StatusProcessing).
		Updates(map[string]any{
			"ship_full_name":   a.FullName,
			"ship_phone":       a.Phone,
			"ship_line1":       a.Line1,
			"ship_line2":       a.Line2,
			"ship_city":        a.City,
			"ship_state":       a.State,
			"ship_postal_code": a.PostalCode,
			"ship_country":     a.Country,
		})
	if res.Error != nil {
		log.Printf("order UpdateShippingAddress error: %v", res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
