package google

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/api/idtoken"
)

type fakeValidator struct {
	payload  *idtoken.Payload
	err      error
	audience string
}

func (f *fakeValidator) Validate(_ context.Context, _ string, audience string) (*idtoken.Payload, error) {
	f.audience = audience
	return f.payload, f.err
}

func TestVerifier_Verify(t *testing.T) {
	fake := &fakeValidator{payload: &idtoken.Payload{
		Subject: "1234",
		Claims:  map[string]interface{}{"email": "dana@example.com", "name": "Dana"},
	}}
	v := &Verifier{validator: fake, clientID: "client-id"}

	id, err := v.Verify(context.Background(), "token")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if fake.audience != "client-id" {
		t.Fatalf("expected audience client-id, got %q", fake.audience)
	}
	if id.Subject != "1234" || id.Email != "dana@example.com" || id.Name != "Dana" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerifier_MissingClaims(t *testing.T) {
	v := &Verifier{validator: &fakeValidator{payload: &idtoken.Payload{Subject: "s"}}, clientID: "c"}

	id, err := v.Verify(context.Background(), "token")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Email != "" || id.Name != "" {
		t.Fatalf("expected empty profile, got %+v", id)
	}
}

func TestVerifier_Rejected(t *testing.T) {
	v := &Verifier{validator: &fakeValidator{err: errors.New("token expired")}, clientID: "c"}
	if _, err := v.Verify(context.Background(), "token"); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestNewVerifier_RequiresClientID(t *testing.T) {
	if _, err := NewVerifier(context.Background(), ""); err == nil {
		t.Fatalf("expected an error for an empty client id")
	}
}
