package ports

import (
	"context"
	"time"

	"github.com/fintrack/expense-api/internal/core/domain"
)

type EventKind string

const (
	EventTransactionCreated EventKind = "transaction.created"
	EventTransactionUpdated EventKind = "transaction.updated"
	EventTransactionDeleted EventKind = "transaction.deleted"
)

// TransactionEvent is emitted after a mutation has been persisted.
type TransactionEvent struct {
	Kind          EventKind           `json:"kind"`
	TransactionID string              `json:"transactionId"`
	OwnerID       string              `json:"userId"`
	Transaction   *domain.Transaction `json:"transaction,omitempty"`
	OccurredAt    time.Time           `json:"occurredAt"`
}

// EventPublisher ships transaction events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event TransactionEvent) error
}
