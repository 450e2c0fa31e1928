package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fintrack/expense-api/internal/core/domain"
	"github.com/fintrack/expense-api/internal/core/ports"
)

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

// AuthOptions configures AuthService.
type AuthOptions struct {
	JWTSecret  string
	TokenTTL   time.Duration
	AdminEmail string
	// Google is nil when Google sign-in is not configured.
	Google ports.GoogleVerifier
}

// AuthService implements registration, password login, Google sign-in and
// token issuance.
type AuthService struct {
	repo       ports.UserRepository
	jwtSecret  string
	tokenTTL   time.Duration
	adminEmail string
	google     ports.GoogleVerifier
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(repo ports.UserRepository, opts AuthOptions, log zerolog.Logger) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:       repo,
		jwtSecret:  opts.JWTSecret,
		tokenTTL:   opts.TokenTTL,
		adminEmail: opts.AdminEmail,
		google:     opts.Google,
		log:        log,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.NewValidationError("", "name, email and password are required")
	}
	if len(password) > maxPasswordBytes {
		return nil, domain.NewValidationError("password", "password is too long")
	}

	user, err := s.createUser(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("", "email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

// GoogleSignIn verifies a Google ID token and signs the matching user in,
// creating the account on first use.
func (s *AuthService) GoogleSignIn(ctx context.Context, credential string) (*ports.AuthResult, error) {
	if s.google == nil {
		return nil, domain.ErrGoogleSignInDisabled
	}
	if strings.TrimSpace(credential) == "" {
		return nil, domain.NewValidationError("credential", "missing google credential")
	}

	identity, err := s.google.Verify(ctx, credential)
	if err != nil {
		s.log.Debug().Err(err).Msg("google credential rejected")
		return nil, domain.ErrInvalidCredentials
	}

	email := domain.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, domain.NewValidationError("credential", "google profile missing email")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound):
		name := strings.TrimSpace(identity.Name)
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		// The account never signs in with a password; store a random one.
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		user, err = s.createUser(ctx, name, email, identity.Subject+secret)
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created from google sign-in")
	default:
		return nil, fmt.Errorf("google sign-in: %w", err)
	}

	return s.issue(user)
}

// Me returns the caller's stored profile.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	if err := domain.ValidateID("id", userID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleForEmail(email, s.adminEmail),
		CreatedAt:    s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

// generateToken embeds the role at issuance time; it stays valid for
// tokenTTL regardless of later changes to the user.
func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func randomSecret() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
