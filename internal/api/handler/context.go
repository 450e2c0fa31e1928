package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fintrack/expense-api/internal/api/middleware"
	"github.com/fintrack/expense-api/internal/core/domain"
)

// ctxCaller extracts the identity injected by the Auth middleware. A missing
// id or role means the route was wired without Auth; reject with 401.
func ctxCaller(c echo.Context) (domain.Caller, error) {
	id, _ := c.Get(middleware.ContextUserID).(string)
	role, _ := c.Get(middleware.ContextRole).(domain.Role)
	if id == "" || role == "" {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
	}
	return domain.Caller{ID: id, Role: role}, nil
}
