package services

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type CartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) *CartService {
	return &CartService{store: store}
}

type AddCartItemInput struct {
	ProductID  uint64
	Quantity   int64
	Attributes domain.Attributes
}

// GetCart returns the caller's cart with items joined to their live products.
// A caller without a cart gets an empty one; nothing is created.
func (s *CartService) GetCart(ctx context.Context, actor domain.Actor) (*domain.Cart, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	repos := s.store.Repos()
	cart, err := repos.Carts.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &domain.Cart{UserID: actor.UserID, Items: []domain.CartItem{}}, nil
	}
	items, err := repos.Carts.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

// AddItem puts a product into the caller's cart, creating the cart on first
// use. A line with the same product and attributes is topped up instead of
// duplicated.
func (s *CartService) AddItem(ctx context.Context, actor domain.Actor, in AddCartItemInput) (*domain.CartItem, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	var out *domain.CartItem
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		p, err := r.Products.FindByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: product %d", domain.ErrNotFound, in.ProductID)
		}

		cart, err := r.Carts.FindByUserID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if cart == nil {
			cart = &domain.Cart{UserID: actor.UserID}
			if err := r.Carts.Create(ctx, cart); err != nil {
				return err
			}
		}

		lines, err := r.Carts.FindItemsByProduct(ctx, cart.ID, p.ID)
		if err != nil {
			return err
		}
		var inCart int64
		var match *domain.CartItem
		for i := range lines {
			inCart += lines[i].Quantity
			if lines[i].Attributes.Equal(in.Attributes) {
				match = &lines[i]
			}
		}
		if inCart+in.Quantity > p.Stock {
			return fmt.Errorf("%w: %s has only %d left", domain.ErrOutOfStock, p.Name, p.Stock)
		}

		if match != nil {
			match.Quantity += in.Quantity
			if err := r.Carts.UpdateItemQuantity(ctx, match.ID, match.Quantity); err != nil {
				return err
			}
			out = match
		} else {
			it := &domain.CartItem{
				CartID:     cart.ID,
				ProductID:  p.ID,
				Quantity:   in.Quantity,
				Attributes: in.Attributes.Clone(),
			}
			if err := r.Carts.CreateItem(ctx, it); err != nil {
				return err
			}
			out = it
		}
		out.Product = p
		return nil
	})
	if err != nil {
		logUnexpected("add cart item", actor, err)
		return nil, err
	}
	return out, nil
}

// UpdateItemQuantity sets the quantity of a line; zero or less removes it and
// returns nil.
func (s *CartService) UpdateItemQuantity(ctx context.Context, actor domain.Actor, itemID uint64, qty int64) (*domain.CartItem, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	var out *domain.CartItem
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		cart, err := r.Carts.FindByUserID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if cart == nil {
			return fmt.Errorf("%w: cart item %d", domain.ErrNotFound, itemID)
		}
		it, err := r.Carts.FindItem(ctx, cart.ID, itemID)
		if err != nil {
			return err
		}
		if it == nil {
			return fmt.Errorf("%w: cart item %d", domain.ErrNotFound, itemID)
		}

		if qty <= 0 {
			_, err := r.Carts.DeleteItems(ctx, cart.ID, []uint64{it.ID})
			return err
		}

		if it.Product == nil {
			return fmt.Errorf("%w: product %d is no longer available", domain.ErrOutOfStock, it.ProductID)
		}
		lines, err := r.Carts.FindItemsByProduct(ctx, cart.ID, it.ProductID)
		if err != nil {
			return err
		}
		others := int64(0)
		for _, l := range lines {
			if l.ID != it.ID {
				others += l.Quantity
			}
		}
		if others+qty > it.Product.Stock {
			return fmt.Errorf("%w: %s has only %d left", domain.ErrOutOfStock, it.Product.Name, it.Product.Stock)
		}

		if err := r.Carts.UpdateItemQuantity(ctx, it.ID, qty); err != nil {
			return err
		}
		it.Quantity = qty
		out = it
		return nil
	})
	if err != nil {
		logUnexpected("update cart item", actor, err)
		return nil, err
	}
	return out, nil
}

func (s *CartService) RemoveItem(ctx context.Context, actor domain.Actor, itemID uint64) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthenticated
	}
	repos := s.store.Repos()
	cart, err := repos.Carts.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if cart == nil {
		return fmt.Errorf("%w: cart item %d", domain.ErrNotFound, itemID)
	}
	n, err := repos.Carts.DeleteItems(ctx, cart.ID, []uint64{itemID})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: cart item %d", domain.ErrNotFound, itemID)
	}
	return nil
}
