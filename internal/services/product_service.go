package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/infra/cache"
	"storefront/internal/repository"

	"golang.org/x/sync/errgroup"
)

const warmupConcurrency = 4

type ProductService struct {
	store repository.Store
	cache *cache.Cache
}

func NewProductService(store repository.Store, c *cache.Cache) *ProductService {
	return &ProductService{store: store, cache: c}
}

type ProductInput struct {
	Slug        string
	SKU         string
	Name        string
	Image       string
	Price       int64
	SalePrice   int64
	Stock       int64
	CategoryIDs []uint64
	Tags        []string
}

func (s *ProductService) CreateProduct(ctx context.Context, actor domain.Actor, in ProductInput) (*domain.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	p := &domain.Product{
		Slug:        strings.TrimSpace(in.Slug),
		SKU:         strings.TrimSpace(in.SKU),
		Name:        strings.TrimSpace(in.Name),
		Image:       in.Image,
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		Stock:       in.Stock,
		CategoryIDs: in.CategoryIDs,
		Tags:        in.Tags,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		exists, err := r.Products.ExistsSlugOrSKU(ctx, p.Slug, p.SKU)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: slug or sku already in use", domain.ErrConflict)
		}
		return r.Products.Create(ctx, p)
	})
	if err != nil {
		logUnexpected("create product", actor, err)
		return nil, err
	}
	return p, nil
}

// UpdateProduct applies admin edits. A stock edit only lands if no order moved
// the stock since it was read.
func (s *ProductService) UpdateProduct(ctx context.Context, actor domain.Actor, id uint64, changes ...domain.ProductChange) (*domain.Product, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}

	var out *domain.Product
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		p, err := r.Products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
		}

		updated, columns := domain.ApplyChanges(*p, changes...)
		if err := updated.Validate(); err != nil {
			return err
		}

		var expected *int64
		if updated.Stock != p.Stock {
			expected = &p.Stock
		}
		ok, err := r.Products.Update(ctx, &updated, columns, expected)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: stock changed, reload and retry", domain.ErrConflict)
		}
		out = &updated
		return nil
	})
	if err != nil {
		logUnexpected("update product", actor, err)
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.ProductKey(id))
	return out, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	return cache.Fetch(ctx, s.cache, cache.ProductKey(id), func(ctx context.Context) (*domain.Product, error) {
		return s.loadProduct(ctx, id)
	})
}

func (s *ProductService) loadProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.store.Repos().Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return p, nil
}

// RateProduct records the caller's score and rebuilds the product's rating
// summary from every stored score, in the same transaction.
func (s *ProductService) RateProduct(ctx context.Context, actor domain.Actor, productID uint64, stars int) (*domain.RatingSummary, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.ValidateStars(stars); err != nil {
		return nil, err
	}

	var summary domain.RatingSummary
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		p, err := r.Products.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
		}
		if err := r.Products.UpsertRating(ctx, &domain.ProductRating{
			ProductID: productID,
			UserID:    actor.UserID,
			Stars:     stars,
		}); err != nil {
			return err
		}
		h, err := r.Products.RatingHistogram(ctx, productID)
		if err != nil {
			return err
		}
		summary = domain.Summarize(h)
		return r.Products.SetRatingSummary(ctx, productID, summary)
	})
	if err != nil {
		logUnexpected("rate product", actor, err)
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.ProductKey(productID))
	return &summary, nil
}

// WarmupProductCache preloads products into the cache. Failures are logged and
// skipped.
func (s *ProductService) WarmupProductCache(ctx context.Context, ids []uint64) error {
	if s.cache == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmupConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			p, err := s.loadProduct(ctx, id)
			if err != nil {
				log.Printf("Failed to warm up cache for product %d: %v", id, err)
				return nil
			}
			s.cache.Set(ctx, cache.ProductKey(id), p)
			return nil
		})
	}
	return g.Wait()
}
