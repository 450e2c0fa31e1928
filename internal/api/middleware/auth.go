package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/fintrack/expense-api/internal/core/domain"
)

// Context keys set by Auth.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Auth validates the bearer JWT and injects the caller id and role into the
// context. Every failure yields the same 401 so callers cannot tell a bad
// signature from an expired or malformed token.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	unauthenticated := echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return unauthenticated
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			}, jwt.WithExpirationRequired())
			if err != nil || !tkn.Valid {
				return unauthenticated
			}

			userID, _ := claims["id"].(string)
			if domain.ValidateID("id", userID) != nil {
				return unauthenticated
			}

			role := domain.RoleUser
			if raw, ok := claims["role"].(string); ok && raw != "" {
				role = domain.Role(raw)
			}
			if role != domain.RoleAdmin && role != domain.RoleUser {
				return unauthenticated
			}

			c.Set(ContextUserID, userID)
			c.Set(ContextRole, role)

			return next(c)
		}
	}
}
