package domain

import (
	"strings"
	"time"
)

// TransactionType is the direction of money flow.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// DefaultCategory is applied when a transaction has no category.
const DefaultCategory = "General"

// ParseTransactionType accepts exactly "income" or "expense".
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.TrimSpace(s)); t {
	case TypeIncome, TypeExpense:
		return t, nil
	case "":
		return "", NewValidationError("type", "type is required")
	default:
		return "", NewValidationError("type", "type must be income or expense")
	}
}

// NormalizeCategory trims the label and falls back to DefaultCategory.
func NormalizeCategory(s string) string {
	if c := strings.TrimSpace(s); c != "" {
		return c
	}
	return DefaultCategory
}

// Transaction is a single income or expense record owned by one user.
// OwnerID never changes after creation.
type Transaction struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"userId"`
	Title     string          `json:"title"`
	Amount    Amount          `json:"amount"`
	Type      TransactionType `json:"type"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OwnedBy reports whether userID owns the transaction.
func (t *Transaction) OwnedBy(userID string) bool {
	return t.OwnerID == userID
}
