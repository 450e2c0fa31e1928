package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fintrack/expense-api/internal/core/domain"
	"github.com/fintrack/expense-api/internal/core/ports"
)

// TransactionOption customises a TransactionService.
type TransactionOption func(*TransactionService)

// WithIdempotency enables Idempotency-Key handling on Create.
func WithIdempotency(store ports.IdempotencyStore) TransactionOption {
	return func(s *TransactionService) { s.idem = store }
}

// WithEvents publishes an event after each persisted mutation.
func WithEvents(pub ports.EventPublisher) TransactionOption {
	return func(s *TransactionService) { s.events = pub }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TransactionOption {
	return func(s *TransactionService) { s.now = now }
}

// TransactionService validates and persists one owner's transactions.
type TransactionService struct {
	repo   ports.TransactionRepository
	guard  OwnershipGuard
	idem   ports.IdempotencyStore
	events ports.EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

func NewTransactionService(repo ports.TransactionRepository, log zerolog.Logger, opts ...TransactionOption) *TransactionService {
	s := &TransactionService{
		repo:  repo,
		guard: NewOwnershipGuard(repo),
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates in and stores a new transaction owned by ownerID. All
// validation happens before any store access.
func (s *TransactionService) Create(ctx context.Context, ownerID string, in ports.CreateTransactionInput) (*ports.CreateResult, error) {
	if err := domain.ValidateID("user id", ownerID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}
	typ, err := domain.ParseTransactionType(in.Type)
	if err != nil {
		return nil, err
	}
	amount, err := domain.ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	// Stores keep millisecond precision.
	now := s.now().UTC().Truncate(time.Millisecond)
	date := now
	if strings.TrimSpace(in.Date) != "" {
		if date, err = parseDate(in.Date); err != nil {
			return nil, err
		}
	}

	if replay := s.replay(ctx, ownerID, in.IdempotencyKey); replay != nil {
		return &ports.CreateResult{Transaction: replay, Replayed: true}, nil
	}

	t := &domain.Transaction{
		ID:        domain.NewID(),
		OwnerID:   ownerID,
		Title:     title,
		Amount:    amount,
		Type:      typ,
		Category:  domain.NormalizeCategory(in.Category),
		Date:      date,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, ownerID, in.IdempotencyKey, t.ID); err != nil {
			s.log.Warn().Err(err).Str("transaction_id", t.ID).Msg("failed to store idempotency key")
		}
	}

	s.log.Info().Str("transaction_id", t.ID).Str("user_id", ownerID).Str("type", string(t.Type)).Msg("transaction created")
	s.publish(ctx, ports.EventTransactionCreated, t)

	return &ports.CreateResult{Transaction: t}, nil
}

// replay returns the transaction an earlier request with the same key
// created, or nil. Lookup failures fall through to a normal create.
func (s *TransactionService) replay(ctx context.Context, ownerID, key string) *domain.Transaction {
	if key == "" || s.idem == nil {
		return nil
	}

	id, found, err := s.idem.Lookup(ctx, ownerID, key)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", ownerID).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil || !t.OwnedBy(ownerID) {
		return nil
	}
	s.log.Info().Str("transaction_id", id).Str("user_id", ownerID).Msg("idempotent replay")
	return t
}

// Update applies the fields present in patch after the ownership check.
// Absent fields are untouched; an empty patch rewrites the record as is.
func (s *TransactionService) Update(ctx context.Context, id, ownerID string, patch ports.TransactionPatch) (*domain.Transaction, error) {
	current, err := s.guard.Authorize(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if err := applyPatch(&updated, patch); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	s.log.Info().Str("transaction_id", id).Str("user_id", ownerID).Msg("transaction updated")
	s.publish(ctx, ports.EventTransactionUpdated, &updated)

	return &updated, nil
}

func applyPatch(t *domain.Transaction, p ports.TransactionPatch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return domain.NewValidationError("title", "title must not be empty")
		}
		t.Title = title
	}
	if p.Type != nil {
		typ, err := domain.ParseTransactionType(*p.Type)
		if err != nil {
			return err
		}
		t.Type = typ
	}
	if p.Amount != nil {
		amount, err := domain.ParseAmount(*p.Amount)
		if err != nil {
			return err
		}
		t.Amount = amount
	}
	if p.Category != nil {
		t.Category = domain.NormalizeCategory(*p.Category)
	}
	if p.Date != nil {
		date, err := parseDate(*p.Date)
		if err != nil {
			return err
		}
		t.Date = date
	}
	if p.Notes != nil {
		t.Notes = strings.TrimSpace(*p.Notes)
	}
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, id, ownerID string) error {
	t, err := s.guard.Authorize(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.log.Info().Str("transaction_id", id).Str("user_id", ownerID).Msg("transaction deleted")
	s.publish(ctx, ports.EventTransactionDeleted, t)
	return nil
}

// ListForOwner scopes the scan to ownerID at the store.
func (s *TransactionService) ListForOwner(ctx context.Context, ownerID string) ([]*domain.Transaction, error) {
	if err := domain.ValidateID("user id", ownerID); err != nil {
		return nil, err
	}

	txs, err := s.repo.List(ctx, ports.TransactionFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// publish never fails the request: the write has already happened.
func (s *TransactionService) publish(ctx context.Context, kind ports.EventKind, t *domain.Transaction) {
	if s.events == nil {
		return
	}
	event := ports.TransactionEvent{
		Kind:          kind,
		TransactionID: t.ID,
		OwnerID:       t.OwnerID,
		OccurredAt:    s.now().UTC(),
	}
	if kind != ports.EventTransactionDeleted {
		event.Transaction = t
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("transaction_id", t.ID).Str("kind", string(kind)).Msg("failed to publish transaction event")
	}
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

const (
	minDateYear = 0
	maxDateYear = 9999
)

// parseDate accepts RFC 3339, a bare calendar date, or epoch milliseconds.
// Results are truncated to the millisecond and must fall in years 0-9999.
func parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, domain.NewValidationError("date", "date must not be empty")
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return checkDateRange(time.UnixMilli(ms).UTC())
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return checkDateRange(t.UTC().Truncate(time.Millisecond))
		}
	}
	return time.Time{}, domain.NewValidationError("date", "date must be a valid ISO string or timestamp")
}

func checkDateRange(t time.Time) (time.Time, error) {
	if y := t.Year(); y < minDateYear || y > maxDateYear {
		return time.Time{}, domain.NewValidationError("date", "date is out of range")
	}
	return t, nil
}
