package ports

import "context"

// IdempotencyStore remembers which transaction an owner's idempotency key
// produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, ownerID, key string) (transactionID string, found bool, err error)
	Remember(ctx context.Context, ownerID, key, transactionID string) error
}
