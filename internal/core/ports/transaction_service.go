package ports

import (
	"context"

	"github.com/fintrack/expense-api/internal/core/domain"
)

// CreateTransactionInput carries raw client fields. The owner is never part
// of it; it always comes from the authenticated caller.
type CreateTransactionInput struct {
	Title    string
	Amount   string
	Type     string
	Category string
	Date     string
	Notes    string
	// IdempotencyKey, when set, makes repeated creates return the first result.
	IdempotencyKey string
}

// TransactionPatch is a partial update. A nil field is left untouched; a
// non-nil field is validated and applied, so an empty Notes clears notes.
type TransactionPatch struct {
	Title    *string
	Amount   *string
	Type     *string
	Category *string
	Date     *string
	Notes    *string
}

// CreateResult reports whether the transaction was replayed from an
// earlier request with the same idempotency key.
type CreateResult struct {
	Transaction *domain.Transaction
	Replayed    bool
}

type TransactionService interface {
	Create(ctx context.Context, ownerID string, in CreateTransactionInput) (*CreateResult, error)
	Update(ctx context.Context, id, ownerID string, patch TransactionPatch) (*domain.Transaction, error)
	Delete(ctx context.Context, id, ownerID string) error
	ListForOwner(ctx context.Context, ownerID string) ([]*domain.Transaction, error)
}

// SummaryService computes the per-user analytics view.
type SummaryService interface {
	UserSummary(ctx context.Context, ownerID string) (*domain.UserSummary, error)
}

// OverviewService composes the admin-only global overview.
type OverviewService interface {
	AdminOverview(ctx context.Context, caller domain.Caller) (*domain.AdminOverview, error)
}
