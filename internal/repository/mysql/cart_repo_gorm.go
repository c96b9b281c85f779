package mysql

import (
	"context"
	"errors"
	"log"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) FindByUserID(ctx context.Context, userID uint64) (*domain.Cart, error) {
	var c domain.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("cart FindByUserID error: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) Create(ctx context.Context, c *domain.Cart) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		log.Printf("cart create error: %v", err)
		return err
	}
	return nil
}

func (r *cartRepo) FindItems(ctx context.Context, cartID uint64, ids []uint64) ([]domain.CartItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ? AND id IN ?", cartID, ids).
		Order("id").
		Find(&items).Error
	if err != nil {
		log.Printf("cart FindItems error: %v", err)
		return nil, err
	}
	return items, nil
}

func (r *cartRepo) ListItems(ctx context.Context, cartID uint64) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("id").
		Find(&items).Error
	if err != nil {
		log.Printf("cart ListItems error: %v", err)
		return nil, err
	}
	return items, nil
}

func (r *cartRepo) FindItem(ctx context.Context, cartID, itemID uint64) (*domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ? AND id = ?", cartID, itemID).
		First(&it).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("cart FindItem error: %v", err)
		return nil, err
	}
	return &it, nil
}

func (r *cartRepo) FindItemsByProduct(ctx context.Context, cartID, productID uint64) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Order("id").
		Find(&items).Error
	if err != nil {
		log.Printf("cart FindItemsByProduct error: %v", err)
		return nil, err
	}
	return items, nil
}

func (r *cartRepo) CreateItem(ctx context.Context, it *domain.CartItem) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(it).Error; err != nil {
		log.Printf("cart CreateItem error: %v", err)
		return err
	}
	return nil
}

func (r *cartRepo) UpdateItemQuantity(ctx context.Context, itemID uint64, qty int64) error {
	err := r.db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", qty).Error
	if err != nil {
		log.Printf("cart UpdateItemQuantity error: %v", err)
		return err
	}
	return nil
}

func (r *cartRepo) DeleteItems(ctx context.Context, cartID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND id IN ?", cartID, ids).
		Delete(&domain.CartItem{})
	if res.Error != nil {
		log.Printf("cart DeleteItems error: %v", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
