package ports

import (
	"context"

	"github.com/fintrack/expense-api/internal/core/domain"
)

// AuthResult is returned by every sign-in flow.
type AuthResult struct {
	Token string
	User  *domain.User
}

// GoogleIdentity is the verified subset of a Google ID token.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// GoogleVerifier checks a Google ID token credential.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleIdentity, error)
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GoogleSignIn(ctx context.Context, credential string) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}
