package domain

import (
	"errors"
	"testing"
)

func TestParseTransactionType(t *testing.T) {
	if got, err := ParseTransactionType("income"); err != nil || got != TypeIncome {
		t.Fatalf("income: got %q, %v", got, err)
	}
	if got, err := ParseTransactionType(" expense "); err != nil || got != TypeExpense {
		t.Fatalf("expense: got %q, %v", got, err)
	}
	for _, bad := range []string{"", "Income", "transfer"} {
		if _, err := ParseTransactionType(bad); !errors.Is(err, ErrValidation) {
			t.Errorf("%q: expected validation error, got %v", bad, err)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("  "); got != DefaultCategory {
		t.Fatalf("blank: got %q", got)
	}
	if got := NormalizeCategory(" Food "); got != "Food" {
		t.Fatalf("trim: got %q", got)
	}
}

func TestRoleForEmail(t *testing.T) {
	if got := RoleForEmail("Boss@Example.com", "boss@example.com"); got != RoleAdmin {
		t.Fatalf("expected admin, got %s", got)
	}
	if got := RoleForEmail("someone@example.com", "boss@example.com"); got != RoleUser {
		t.Fatalf("expected user, got %s", got)
	}
	if got := RoleForEmail("someone@example.com", ""); got != RoleUser {
		t.Fatalf("empty admin address must never match, got %s", got)
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("id", NewID()); err != nil {
		t.Fatalf("fresh id rejected: %v", err)
	}
	var ve *ValidationError
	if err := ValidateID("id", "not-an-id"); !errors.As(err, &ve) || ve.Field != "id" {
		t.Fatalf("expected ValidationError for id, got %v", err)
	}
}
