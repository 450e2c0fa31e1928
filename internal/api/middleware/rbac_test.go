package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fintrack/expense-api/internal/core/domain"
)

func newRoleContext(role any) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if role != nil {
		c.Set(ContextRole, role)
	}
	return c
}

func TestRBAC_Allows(t *testing.T) {
	called := false
	handler := RBAC(domain.RoleUser, domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return nil
	})

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin} {
		called = false
		if err := handler(newRoleContext(role)); err != nil {
			t.Fatalf("role %s: unexpected error %v", role, err)
		}
		if !called {
			t.Fatalf("role %s: next handler not called", role)
		}
	}
}

func TestRBAC_Forbids(t *testing.T) {
	// A plain "admin" string is not a domain.Role and must not pass.
	for _, role := range []any{domain.RoleUser, nil, "admin"} {
		handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
			t.Fatalf("should not reach next handler")
			return nil
		})

		if err := handler(newRoleContext(role)); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("role %v: expected ErrForbidden, got %v", role, err)
		}
	}
}
