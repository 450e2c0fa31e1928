// Package google verifies Google Sign-In ID tokens.
package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"github.com/fintrack/expense-api/internal/core/ports"
)

type tokenValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// Verifier checks ID tokens against Google's public keys and the configured
// OAuth client id.
type Verifier struct {
	validator tokenValidator
	clientID  string
}

func NewVerifier(ctx context.Context, clientID string, opts ...option.ClientOption) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("google client id is required")
	}
	v, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create id token validator: %w", err)
	}
	return &Verifier{validator: v, clientID: clientID}, nil
}

func (v *Verifier) Verify(ctx context.Context, credential string) (*ports.GoogleIdentity, error) {
	payload, err := v.validator.Validate(ctx, credential, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("validate id token: %w", err)
	}
	return identityFromPayload(payload), nil
}

func identityFromPayload(p *idtoken.Payload) *ports.GoogleIdentity {
	id := &ports.GoogleIdentity{Subject: p.Subject}
	if email, ok := p.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := p.Claims["name"].(string); ok {
		id.Name = name
	}
	return id
}
