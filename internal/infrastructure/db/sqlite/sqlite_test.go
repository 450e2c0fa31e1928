package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fintrack/expense-api/internal/core/aggregate"
	"github.com/fintrack/expense-api/internal/core/domain"
	"github.com/fintrack/expense-api/internal/core/ports"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Path: filepath.Join(t.TempDir(), "nested", "test.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		db, err := Open(context.Background(), Config{Path: path})
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		db.Close()
	}
}

func TestTimeFormatSortsChronologically(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	later := base.Add(500 * time.Millisecond)
	if !(formatTime(base) < formatTime(later)) {
		t.Fatalf("expected %s < %s", formatTime(base), formatTime(later))
	}
	back, err := parseTime(formatTime(later))
	if err != nil || !back.Equal(later) {
		t.Fatalf("round trip: %v, %v", back, err)
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	created, err := repo.Create(ctx, &domain.User{
		Name: "Ann", Email: "Ann@Example.com", PasswordHash: "hash", Role: domain.RoleAdmin,
		CreatedAt: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(ctx, &domain.User{Name: "Dup", Email: "ann@example.com", PasswordHash: "x", Role: domain.RoleUser}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	got, err := repo.FindByEmail(ctx, "ANN@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got.ID != created.ID || got.Role != domain.RoleAdmin || got.PasswordHash != "hash" || !got.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("unexpected user: %+v", got)
	}
	if _, err := repo.FindByID(ctx, domain.NewID()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	byID, err := repo.FindByIDs(ctx, []string{created.ID, domain.NewID()})
	if err != nil || len(byID) != 1 {
		t.Fatalf("FindByIDs: %v, %v", byID, err)
	}
	if n, err := repo.Count(ctx); err != nil || n != 1 {
		t.Fatalf("Count: %d, %v", n, err)
	}
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(openTestDB(t))
	owner := domain.NewID()
	day := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)

	mk := func(title, amount string, typ domain.TransactionType, category string, date time.Time, created int) *domain.Transaction {
		tx := &domain.Transaction{
			ID: domain.NewID(), OwnerID: owner, Title: title, Amount: mustAmount(amount),
			Type: typ, Category: category, Date: date, CreatedAt: day.Add(time.Duration(created) * time.Minute),
		}
		if err := repo.Create(ctx, tx); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
		return tx
	}

	first := mk("first", "0.10", domain.TypeExpense, "Food", day, 1)
	second := mk("second", "0.20", domain.TypeExpense, "Food", day, 2)
	income := mk("salary", "1000", domain.TypeIncome, "Work", day.Add(-48*time.Hour), 3)
	mk("rent", "400", domain.TypeExpense, "Housing", day.Add(-24*time.Hour), 4)

	list, err := repo.List(ctx, ports.TransactionFilter{OwnerID: owner})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 4 || list[0].ID != second.ID || list[1].ID != first.ID || list[3].ID != income.ID {
		t.Fatalf("unexpected list order: %v", titles(list))
	}

	groups, err := repo.GroupAndSum(ctx, ports.TransactionFilter{OwnerID: owner, Type: domain.TypeExpense}, aggregate.ByCategory)
	if err != nil {
		t.Fatalf("GroupAndSum: %v", err)
	}
	if len(groups) != 2 || groups[0].Key != "Food" || !groups[0].Total.Equal(mustAmount("0.3")) {
		t.Fatalf("expected exact Food=0.3 first, got %+v", groups)
	}

	latest, err := repo.Latest(ctx, 2)
	if err != nil || len(latest) != 2 || latest[0].Title != "rent" || latest[1].Title != "salary" {
		t.Fatalf("Latest: %v, %v", titles(latest), err)
	}

	first.Notes = "edited"
	first.Amount = mustAmount("0.15")
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.FindByID(ctx, first.ID)
	if err != nil || got.Notes != "edited" || !got.Amount.Equal(mustAmount("0.15")) {
		t.Fatalf("FindByID after update: %+v, %v", got, err)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	missing := *first
	missing.ID = domain.NewID()
	if err := repo.Update(ctx, &missing); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}

	if n, err := repo.Count(ctx, ports.TransactionFilter{Type: domain.TypeExpense}); err != nil || n != 2 {
		t.Fatalf("Count: %d, %v", n, err)
	}
}

func titles(txs []*domain.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.Title
	}
	return out
}

func mustAmount(s string) domain.Amount {
	a, err := domain.ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}
