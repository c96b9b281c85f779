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

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		log.Printf("product create error: %v", err)
		return err
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("product FindByID error: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ExistsSlugOrSKU(ctx context.Context, slug, sku string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("slug = ? OR sku = ?", slug, sku).
		Count(&n).Error
	if err != nil {
		log.Printf("product ExistsSlugOrSKU error: %v", err)
		return false, err
	}
	return n > 0, nil
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product, columns []string, expectedStock *int64) (bool, error) {
	if len(columns) == 0 {
		return true, nil
	}
	q := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", p.ID)
	if expectedStock != nil {
		q = q.Where("stock = ?", *expectedStock)
	}
	res := q.Select(columns).Updates(p)
	if res.Error != nil {
		log.Printf("product Update error: %v", res.Error)
		return false, res.Error
	}
	if expectedStock == nil {
		return true, nil
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) DecrementStock(ctx context.Context, lines []domain.StockLine) (int64, error) {
	var modified int64
	for _, l := range lines {
		res := r.db.WithContext(ctx).
			Model(&domain.Product{}).
			Where("id = ? AND stock >= ?", l.ProductID, l.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", l.Quantity))
		if res.Error != nil {
			log.Printf("product DecrementStock error: %v", res.Error)
			return modified, res.Error
		}
		modified += res.RowsAffected
	}
	return modified, nil
}

func (r *productRepo) IncrementStock(ctx context.Context, lines []domain.StockLine) error {
	for _, l := range lines {
		err := r.db.WithContext(ctx).
			Model(&domain.Product{}).
			Where("id = ?", l.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", l.Quantity)).Error
		if err != nil {
			log.Printf("product IncrementStock error: %v", err)
			return err
		}
	}
	return nil
}

func (r *productRepo) UpsertRating(ctx context.Context, rating *domain.ProductRating) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stars", "updated_at"}),
		}).
		Create(rating).Error
	if err != nil {
		log.Printf("product UpsertRating error: %v", err)
		return err
	}
	return nil
}

func (r *productRepo) RatingHistogram(ctx context.Context, productID uint64) (domain.RatingHistogram, error) {
	var rows []struct {
		Stars int
		N     int64
	}
	var h domain.RatingHistogram
	err := r.db.WithContext(ctx).
		Model(&domain.ProductRating{}).
		Select("stars, COUNT(*) AS n").
		Where("product_id = ?", productID).
		Group("stars").
		Scan(&rows).Error
	if err != nil {
		log.Printf("product RatingHistogram error: %v", err)
		return h, err
	}
	for _, row := range rows {
		if row.Stars >= domain.MinStars && row.Stars <= domain.MaxStars {
			h[row.Stars-1] = row.N
		}
	}
	return h, nil
}

func (r *productRepo) SetRatingSummary(ctx context.Context, productID uint64, s domain.RatingSummary) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", productID).
		Select("rating_average", "rating_count", "rating_histogram").
		Updates(&domain.Product{Rating: s}).Error
	if err != nil {
		log.Printf("product SetRatingSummary error: %v", err)
		return err
	}
	return nil
}
