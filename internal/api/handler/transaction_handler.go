package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fintrack/expense-api/internal/api/metrics"
	"github.com/fintrack/expense-api/internal/core/domain"
	"github.com/fintrack/expense-api/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry a create without duplicating it.
const HeaderIdempotencyKey = "Idempotency-Key"

// TransactionHandler serves the caller-scoped transaction routes. The owner
// is always the authenticated caller; any owner field in a body is ignored.
type TransactionHandler struct {
	transactions ports.TransactionService
	summaries    ports.SummaryService
}

func NewTransactionHandler(transactions ports.TransactionService, summaries ports.SummaryService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, summaries: summaries}
}

// List handles GET /api/transactions.
//
// @Summary      List the caller's transactions
// @Description  Newest first by date; equal dates put the most recent insert first.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Transaction
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	txs, err := h.transactions.ListForOwner(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	if txs == nil {
		txs = []*domain.Transaction{}
	}
	return c.JSON(http.StatusOK, txs)
}

// Create handles POST /api/transactions.
//
// @Summary      Create a transaction
// @Description  Repeating a request with the same Idempotency-Key returns the first result with 200.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                    false  "Client-generated key for safe retries"
// @Param        body             body      createTransactionRequest  true   "Transaction"
// @Success      200              {object}  domain.Transaction
// @Success      201              {object}  domain.Transaction
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Router       /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}
	in.IdempotencyKey = strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))

	res, err := h.transactions.Create(c.Request().Context(), caller.ID, in)
	if err != nil {
		return err
	}

	if res.Replayed {
		metrics.IdempotentReplaysTotal.Inc()
		return c.JSON(http.StatusOK, res.Transaction)
	}
	metrics.TransactionsCreatedTotal.WithLabelValues(string(res.Transaction.Type)).Inc()
	return c.JSON(http.StatusCreated, res.Transaction)
}

// Update handles PUT /api/transactions/:id.
//
// @Summary      Update a transaction
// @Description  Only fields present in the body change.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Transaction id"
// @Param        body  body      updateTransactionRequest  true  "Fields to change"
// @Success      200   {object}  domain.Transaction
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req updateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	patch, err := req.toPatch()
	if err != nil {
		return err
	}

	updated, err := h.transactions.Update(c.Request().Context(), c.Param("id"), caller.ID, patch)
	if err != nil {
		return err
	}

	metrics.TransactionMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/transactions/:id.
//
// @Summary      Delete a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.transactions.Delete(c.Request().Context(), c.Param("id"), caller.ID); err != nil {
		return err
	}

	metrics.TransactionMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "transaction removed"})
}

// Summary handles GET /api/transactions/summary/overview.
//
// @Summary      Income, expense, balance and top expense categories of the caller
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserSummary
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /transactions/summary/overview [get]
func (h *TransactionHandler) Summary(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	start := time.Now()
	summary, err := h.summaries.UserSummary(c.Request().Context(), caller.ID)
	metrics.SummaryDuration.WithLabelValues("user").Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
