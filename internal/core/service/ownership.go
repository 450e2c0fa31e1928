package service

import (
	"context"

	"github.com/fintrack/expense-api/internal/core/domain"
	"github.com/fintrack/expense-api/internal/core/ports"
)

// OwnershipGuard resolves a transaction and checks it belongs to the caller.
// It runs before every mutation.
type OwnershipGuard struct {
	repo ports.TransactionRepository
}

func NewOwnershipGuard(repo ports.TransactionRepository) OwnershipGuard {
	return OwnershipGuard{repo: repo}
}

// Authorize returns the transaction when callerID owns it. A malformed id is
// a validation error and never reaches the store; an unknown id is
// domain.ErrTransactionNotFound; someone else's record is domain.ErrForbidden.
func (g OwnershipGuard) Authorize(ctx context.Context, id, callerID string) (*domain.Transaction, error) {
	if err := domain.ValidateID("id", id); err != nil {
		return nil, err
	}

	t, err := g.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.OwnedBy(callerID) {
		return nil, domain.ErrForbidden
	}
	return t, nil
}
