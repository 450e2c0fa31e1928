package ports

import (
	"context"

	"github.com/fintrack/expense-api/internal/core/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create stores user, assigning an id when empty. Returns
	// domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, keyed by id.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
