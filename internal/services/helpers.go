package services

import (
	"log"

	"storefront/internal/domain"
)

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func logUnexpected(op string, actor domain.Actor, err error) {
	if domain.IsDomainError(err) {
		return
	}
	log.Printf("%s for user %d failed: %v", op, actor.UserID, err)
}

func requireAdmin(actor domain.Actor) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return domain.ErrUnauthorized
	}
	return nil
}
