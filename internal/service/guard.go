package service

import (
	"context"

	"mediashelf/internal/model"
	"mediashelf/internal/repository"
)

// OwnershipGuard confirms a list belongs to the acting user before any
// list- or media-scoped operation touches it. Every mutation in the list and
// media services runs through Verify first.
type OwnershipGuard struct {
	userRepo repository.UserRepository
	listRepo repository.ListRepository
}

func NewOwnershipGuard(userRepo repository.UserRepository, listRepo repository.ListRepository) *OwnershipGuard {
	return &OwnershipGuard{
		userRepo: userRepo,
		listRepo: listRepo,
	}
}

// Verify checks, in order: the user exists (model.ErrUserNotFound), the list
// exists (model.ErrListNotFound), and the list's owner is the user
// (model.ErrListNotOwned). The forbidden outcome carries a constant message
// and reveals nothing about the list itself. On success the loaded list is
// returned so callers need not refetch it.
func (g *OwnershipGuard) Verify(ctx context.Context, userID, listID int64) (*model.List, error) {
	if _, err := g.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	list, err := g.listRepo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	if list.UserID != userID {
		return nil, model.ErrListNotOwned
	}

	return list, nil
}
