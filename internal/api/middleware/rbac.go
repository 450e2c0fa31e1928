package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/fintrack/expense-api/internal/core/domain"
)

// RBAC admits callers whose role, as set by Auth, is one of allowedRoles.
// Anyone else gets domain.ErrForbidden, rendered by the central error handler.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextRole).(domain.Role)
			if !ok || !slices.Contains(allowedRoles, role) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
