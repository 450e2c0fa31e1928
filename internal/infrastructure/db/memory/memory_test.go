package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fintrack/expense-api/internal/core/aggregate"
	"github.com/fintrack/expense-api/internal/core/domain"
	"github.com/fintrack/expense-api/internal/core/ports"
)

func newTx(owner, title, amount string, typ domain.TransactionType, category string, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		OwnerID:   owner,
		Title:     title,
		Amount:    mustAmount(amount),
		Type:      typ,
		Category:  category,
		Date:      date,
		CreatedAt: date,
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u, err := repo.Create(ctx, &domain.User{Name: "Ann", Email: "Ann@Example.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" || u.Email != "ann@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if _, err := repo.Create(ctx, &domain.User{Name: "Other", Email: "ANN@example.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if got, err := repo.FindByEmail(ctx, " ann@EXAMPLE.com "); err != nil || got.ID != u.ID {
		t.Fatalf("FindByEmail: %+v, %v", got, err)
	}
	if _, err := repo.FindByID(ctx, domain.NewID()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	found, err := repo.FindByIDs(ctx, []string{u.ID, domain.NewID()})
	if err != nil || len(found) != 1 || found[u.ID] == nil {
		t.Fatalf("FindByIDs: %v, %v", found, err)
	}

	// Returned values are copies.
	u.Name = "changed"
	if again, _ := repo.FindByID(ctx, u.ID); again.Name != "Ann" {
		t.Fatalf("store was mutated through a returned pointer")
	}
}

func TestTransactionRepository_ListOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()
	owner := domain.NewID()
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	a := newTx(owner, "a", "1", domain.TypeExpense, "Food", day)
	b := newTx(owner, "b", "2", domain.TypeExpense, "Food", day.Add(24*time.Hour))
	c := newTx(owner, "c", "3", domain.TypeExpense, "Food", day)
	for _, tx := range []*domain.Transaction{a, b, c} {
		if err := repo.Create(ctx, tx); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(ctx, newTx(domain.NewID(), "x", "9", domain.TypeIncome, "", day)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := repo.List(ctx, ports.TransactionFilter{OwnerID: owner})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"b", "c", "a"}
	if len(list) != len(want) {
		t.Fatalf("expected %d, got %d", len(want), len(list))
	}
	for i, title := range want {
		if list[i].Title != title {
			t.Fatalf("position %d: expected %s, got %s", i, title, list[i].Title)
		}
	}
}

func TestTransactionRepository_Mutations(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()
	tx := newTx(domain.NewID(), "t", "5", domain.TypeIncome, "Work", time.Now().UTC())
	if err := repo.Create(ctx, tx); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, tx); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}

	updated := *tx
	updated.Title = "renamed"
	if err := repo.Update(ctx, &updated); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, _ := repo.FindByID(ctx, tx.ID); got.Title != "renamed" {
		t.Fatalf("update not applied: %+v", got)
	}

	missing := updated
	missing.ID = domain.NewID()
	if err := repo.Update(ctx, &missing); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, tx.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTransactionRepository_GroupAndSum(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()
	owner := domain.NewID()
	now := time.Now().UTC()

	for _, tx := range []*domain.Transaction{
		newTx(owner, "1", "10", domain.TypeExpense, "Transport", now),
		newTx(owner, "2", "7.5", domain.TypeIncome, "Work", now),
		newTx(owner, "3", "2.5", domain.TypeExpense, "Food", now),
		newTx(owner, "4", "5", domain.TypeExpense, "Transport", now),
	} {
		if err := repo.Create(ctx, tx); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	groups, err := repo.GroupAndSum(ctx, ports.TransactionFilter{OwnerID: owner, Type: domain.TypeExpense}, aggregate.ByCategory)
	if err != nil {
		t.Fatalf("GroupAndSum: %v", err)
	}
	if len(groups) != 2 || groups[0].Key != "Transport" || groups[1].Key != "Food" {
		t.Fatalf("expected first-seen order [Transport Food], got %+v", groups)
	}
	if !groups[0].Total.Equal(mustAmount("15")) || !groups[1].Total.Equal(mustAmount("2.5")) {
		t.Fatalf("unexpected Transport group: %+v", groups[0])
	}

	n, _ := repo.Count(ctx, ports.TransactionFilter{Type: domain.TypeIncome})
	if n != 1 {
		t.Fatalf("expected 1 income, got %d", n)
	}
}

func TestIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	store := NewIdempotencyStore(time.Minute)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	if _, found, _ := store.Lookup(ctx, "u", "k"); found {
		t.Fatalf("unexpected hit on empty store")
	}
	_ = store.Remember(ctx, "u", "k", "t1")
	_ = store.Remember(ctx, "u", "k", "t2")
	if id, found, _ := store.Lookup(ctx, "u", "k"); !found || id != "t1" {
		t.Fatalf("expected first mapping t1, got %q found=%v", id, found)
	}
	if _, found, _ := store.Lookup(ctx, "other", "k"); found {
		t.Fatalf("keys must be scoped per owner")
	}

	clock = clock.Add(2 * time.Minute)
	if _, found, _ := store.Lookup(ctx, "u", "k"); found {
		t.Fatalf("expected entry to expire")
	}
}

func TestIdempotencyStore_SweepsKeysNeverLookedUpAgain(t *testing.T) {
	ctx := context.Background()
	store := NewIdempotencyStore(time.Minute)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	for _, key := range []string{"a", "b", "c"} {
		_ = store.Remember(ctx, "u", key, "t-"+key)
	}
	if len(store.entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(store.entries))
	}

	clock = clock.Add(30 * time.Second)
	_ = store.Remember(ctx, "u", "d", "t-d")
	if len(store.entries) != 4 {
		t.Fatalf("live entries must survive, got %d", len(store.entries))
	}

	clock = clock.Add(45 * time.Second)
	_ = store.Remember(ctx, "u", "e", "t-e")
	if len(store.entries) != 2 {
		t.Fatalf("expected expired keys to be swept, got %d entries", len(store.entries))
	}
	if id, found, _ := store.Lookup(ctx, "u", "d"); !found || id != "t-d" {
		t.Fatalf("expected d to survive the sweep, got %q found=%v", id, found)
	}
}

func mustAmount(s string) domain.Amount {
	a, err := domain.ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}
