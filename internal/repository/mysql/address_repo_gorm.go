package mysql

import (
	"context"
	"errors"
	"log"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

var addressColumns = []string{
	"full_name", "phone", "line1", "line2", "city", "state", "postal_code", "country", "is_default",
}

type addressRepo struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) repository.AddressRepository {
	return &addressRepo{db: db}
}

func (r *addressRepo) Create(ctx context.Context, a *domain.Address) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		log.Printf("address create error: %v", err)
		return err
	}
	return nil
}

func (r *addressRepo) Update(ctx context.Context, a *domain.Address) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Address{}).
		Where("id = ?", a.ID).
		Select(addressColumns).
		Updates(a).Error
	if err != nil {
		log.Printf("address update error: %v", err)
		return err
	}
	return nil
}

func (r *addressRepo) FindByID(ctx context.Context, id uint64) (*domain.Address, error) {
	var a domain.Address
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("address FindByID error: %v", err)
		return nil, err
	}
	return &a, nil
}

// ListByUser returns the default address first, then the newest.
func (r *addressRepo) ListByUser(ctx context.Context, userID uint64) ([]domain.Address, error) {
	var out []domain.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("address ListByUser error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *addressRepo) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Address{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		log.Printf("address CountByUser error: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *addressRepo) Delete(ctx context.Context, id uint64) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Address{}, id).Error; err != nil {
		log.Printf("address delete error: %v", err)
		return err
	}
	return nil
}

func (r *addressRepo) ClearDefault(ctx context.Context, userID uint64) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
	if err != nil {
		log.Printf("address ClearDefault error: %v", err)
		return err
	}
	return nil
}

func (r *addressRepo) SetDefault(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Address{}).
		Where("id = ?", id).
		Update("is_default", true).Error
	if err != nil {
		log.Printf("address SetDefault error: %v", err)
		return err
	}
	return nil
}
