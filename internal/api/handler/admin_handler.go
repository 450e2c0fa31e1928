package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fintrack/expense-api/internal/api/metrics"
	"github.com/fintrack/expense-api/internal/core/ports"
)

type AdminHandler struct {
	overview ports.OverviewService
}

func NewAdminHandler(overview ports.OverviewService) *AdminHandler {
	return &AdminHandler{overview: overview}
}

// Overview handles GET /api/admin/overview.
//
// @Summary      Global totals, top expense categories and the latest transactions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.AdminOverview
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /admin/overview [get]
func (h *AdminHandler) Overview(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	start := time.Now()
	ov, err := h.overview.AdminOverview(c.Request().Context(), caller)
	metrics.SummaryDuration.WithLabelValues("admin").Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ov)
}
