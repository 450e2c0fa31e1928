package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/fintrack/expense-api/internal/core/domain"
)

const testUserID = "65a1b2c3d4e5f6a7b8c9d0e1"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"id":   testUserID,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}
}

// runAuth executes the middleware with the given Authorization header and
// returns the recorder plus whether next was reached.
func runAuth(t *testing.T, header string, next echo.HandlerFunc) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret")(func(c echo.Context) error {
		called = true
		if next != nil {
			return next(c)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims())

	rec, called := runAuth(t, "Bearer "+token, func(c echo.Context) error {
		if c.Get(ContextUserID) != testUserID {
			t.Fatalf("user id not set")
		}
		if c.Get(ContextRole) != domain.RoleAdmin {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingRoleDefaultsToUser(t *testing.T) {
	claims := validClaims()
	delete(claims, "role")
	token := sign(t, jwt.SigningMethodHS256, []byte("secret"), claims)

	_, called := runAuth(t, "bearer "+token, func(c echo.Context) error {
		if c.Get(ContextRole) != domain.RoleUser {
			t.Fatalf("expected user role, got %v", c.Get(ContextRole))
		}
		return nil
	})
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	noExp := validClaims()
	delete(noExp, "exp")

	badID := validClaims()
	badID["id"] = "not-an-object-id"

	unknownRole := validClaims()
	unknownRole["role"] = "superuser"

	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token abc",
		"empty bearer":    "Bearer ",
		"garbage token":   "Bearer not-a-token",
		"wrong secret":    "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims()),
		"wrong algorithm": "Bearer " + sign(t, jwt.SigningMethodHS512, []byte("secret"), validClaims()),
		"expired":         "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), expired),
		"no expiry":       "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), noExp),
		"malformed id":    "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), badID),
		"unknown role":    "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), unknownRole),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, called := runAuth(t, header, nil)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid body: %v", err)
			}
			if body["message"] != "not authenticated" {
				t.Fatalf("expected uniform message, got %v", body)
			}
		})
	}
}
