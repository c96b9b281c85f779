package services

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type AddressService struct {
	store repository.Store
}

func NewAddressService(store repository.Store) *AddressService {
	return &AddressService{store: store}
}

type AddressInput struct {
	FullName   string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

func (in AddressInput) validate() error {
	for name, v := range map[string]string{
		"fullName": in.FullName,
		"phone":    in.Phone,
		"line1":    in.Line1,
		"city":     in.City,
		"country":  in.Country,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, name)
		}
	}
	return nil
}

func (in AddressInput) applyTo(a *domain.Address) {
	a.FullName = strings.TrimSpace(in.FullName)
	a.Phone = strings.TrimSpace(in.Phone)
	a.Line1 = strings.TrimSpace(in.Line1)
	a.Line2 = strings.TrimSpace(in.Line2)
	a.City = strings.TrimSpace(in.City)
	a.State = strings.TrimSpace(in.State)
	a.PostalCode = strings.TrimSpace(in.PostalCode)
	a.Country = strings.TrimSpace(in.Country)
}

func (s *AddressService) ListAddresses(ctx context.Context, actor domain.Actor) ([]domain.Address, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.store.Repos().Addresses.ListByUser(ctx, actor.UserID)
}

// CreateAddress adds an address. The first address a user adds is always the
// default one.
func (s *AddressService) CreateAddress(ctx context.Context, actor domain.Actor, in AddressInput) (*domain.Address, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	a := &domain.Address{UserID: actor.UserID}
	in.applyTo(a)

	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		n, err := r.Addresses.CountByUser(ctx, actor.UserID)
		if err != nil {
			return err
		}
		a.IsDefault = in.IsDefault || n == 0
		if a.IsDefault {
			if err := r.Addresses.ClearDefault(ctx, actor.UserID); err != nil {
				return err
			}
		}
		return r.Addresses.Create(ctx, a)
	})
	if err != nil {
		logUnexpected("create address", actor, err)
		return nil, err
	}
	return a, nil
}

// UpdateAddress rewrites an address. The default flag can be moved onto it but
// not taken off it; pick another default instead.
func (s *AddressService) UpdateAddress(ctx context.Context, actor domain.Actor, id uint64, in AddressInput) (*domain.Address, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var out *domain.Address
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		a, err := s.owned(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if in.IsDefault && !a.IsDefault {
			if err := r.Addresses.ClearDefault(ctx, actor.UserID); err != nil {
				return err
			}
			a.IsDefault = true
		}
		in.applyTo(a)
		if err := r.Addresses.Update(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		logUnexpected("update address", actor, err)
		return nil, err
	}
	return out, nil
}

func (s *AddressService) SetDefaultAddress(ctx context.Context, actor domain.Actor, id uint64) (*domain.Address, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	var out *domain.Address
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		a, err := s.owned(ctx, r, actor, id)
		if err != nil {
			return err
		}
		if err := r.Addresses.ClearDefault(ctx, actor.UserID); err != nil {
			return err
		}
		if err := r.Addresses.SetDefault(ctx, a.ID); err != nil {
			return err
		}
		a.IsDefault = true
		out = a
		return nil
	})
	if err != nil {
		logUnexpected("set default address", actor, err)
		return nil, err
	}
	return out, nil
}

// DeleteAddress removes an address unless it is the user's last one. When the
// default goes, the newest remaining address takes over.
func (s *AddressService) DeleteAddress(ctx context.Context, actor domain.Actor, id uint64) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthenticated
	}

	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		a, err := s.owned(ctx, r, actor, id)
		if err != nil {
			return err
		}
		n, err := r.Addresses.CountByUser(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if n <= 1 {
			return domain.ErrCannotDeleteLastAddress
		}
		if err := r.Addresses.Delete(ctx, a.ID); err != nil {
			return err
		}
		if !a.IsDefault {
			return nil
		}
		rest, err := r.Addresses.ListByUser(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if len(rest) == 0 {
			return nil
		}
		return r.Addresses.SetDefault(ctx, rest[0].ID)
	})
	if err != nil {
		logUnexpected("delete address", actor, err)
		return err
	}
	return nil
}

func (s *AddressService) owned(ctx context.Context, r repository.Repositories, actor domain.Actor, id uint64) (*domain.Address, error) {
	a, err := r.Addresses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || !actor.Owns(a.UserID) {
		return nil, fmt.Errorf("%w: address %d", domain.ErrNotFound, id)
	}
	return a, nil
}
