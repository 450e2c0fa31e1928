package memory

import (
	"context"
	"sync"
	"time"
)

type idemEntry struct {
	transactionID string
	expires       time.Time
}

// IdempotencyStore keeps Idempotency-Key mappings in process when Redis is
// not configured. Entries expire after ttl; Remember sweeps expired ones at
// most once per ttl.
type IdempotencyStore struct {
	mu        sync.Mutex
	entries   map[string]idemEntry
	ttl       time.Duration
	nextSweep time.Time
	now       func() time.Time
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		entries: make(map[string]idemEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *IdempotencyStore) Lookup(_ context.Context, ownerID, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := ownerID + ":" + key
	e, ok := s.entries[k]
	if !ok {
		return "", false, nil
	}
	if s.now().After(e.expires) {
		delete(s.entries, k)
		return "", false, nil
	}
	return e.transactionID, true, nil
}

// Remember keeps the first live mapping for a key.
func (s *IdempotencyStore) Remember(_ context.Context, ownerID, key, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := ownerID + ":" + key
	now := s.now()
	if now.After(s.nextSweep) {
		s.sweep(now)
	}
	if e, ok := s.entries[k]; ok && !now.After(e.expires) {
		return nil
	}
	s.entries[k] = idemEntry{transactionID: transactionID, expires: now.Add(s.ttl)}
	return nil
}

func (s *IdempotencyStore) sweep(now time.Time) {
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
	s.nextSweep = now.Add(s.ttl)
}
