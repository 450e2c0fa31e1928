package ports

import (
	"context"

	"github.com/fintrack/expense-api/internal/core/aggregate"
	"github.com/fintrack/expense-api/internal/core/domain"
)

// TransactionFilter scopes scans, counts and grouped sums. Zero values mean
// "no constraint".
type TransactionFilter struct {
	OwnerID string
	Type    domain.TransactionType
}

// Matches reports whether t satisfies the filter.
func (f TransactionFilter) Matches(t *domain.Transaction) bool {
	if f.OwnerID != "" && t.OwnerID != f.OwnerID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	return true
}

// TransactionRepository is the Record Store capability for transactions.
// Consistency of concurrent writes is left to the backend (last write wins).
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	// FindByID returns domain.ErrTransactionNotFound when id does not resolve.
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	// Update overwrites the stored record with t.
	Update(ctx context.Context, t *domain.Transaction) error
	Delete(ctx context.Context, id string) error
	// List returns matching transactions by date, newest first; equal dates
	// put the later insert first.
	List(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error)
	// Latest returns up to limit transactions by creation time, newest first.
	Latest(ctx context.Context, limit int) ([]*domain.Transaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int64, error)
	// GroupAndSum sums amounts of matching transactions per key. Groups are
	// returned in the order their key first appears in insertion order.
	GroupAndSum(ctx context.Context, filter TransactionFilter, key aggregate.GroupKey) ([]aggregate.Group, error)
}
