package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fintrack/expense-api/internal/core/domain"
	"github.com/fintrack/expense-api/internal/core/ports"
	"github.com/fintrack/expense-api/internal/infrastructure/db/memory"
)

type overviewRig struct {
	users *memory.UserRepository
	txs   *TransactionService
	svc   *OverviewService
	admin domain.Caller
}

func newOverviewRig(t *testing.T) *overviewRig {
	t.Helper()
	users := memory.NewUserRepository()
	txSvc, txRepo := newTxService(t)
	return &overviewRig{
		users: users,
		txs:   txSvc,
		svc:   NewOverviewService(users, txRepo, discardLogger),
		admin: domain.Caller{ID: domain.NewID(), Role: domain.RoleAdmin},
	}
}

func (r *overviewRig) addUser(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := r.users.Create(context.Background(), &domain.User{
		Name: name, Email: name + "@example.com", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func TestOverviewService_Totals(t *testing.T) {
	rig := newOverviewRig(t)
	alice := rig.addUser(t, "alice")
	bob := rig.addUser(t, "bob")

	mustCreate(t, rig.txs, alice.ID, ports.CreateTransactionInput{Title: "Salary", Amount: "1000", Type: "income"})
	mustCreate(t, rig.txs, alice.ID, ports.CreateTransactionInput{Title: "Rent", Amount: "400", Type: "expense", Category: "Housing"})
	mustCreate(t, rig.txs, alice.ID, ports.CreateTransactionInput{Title: "Lunch", Amount: "12.5", Type: "expense", Category: "Food"})
	mustCreate(t, rig.txs, bob.ID, ports.CreateTransactionInput{Title: "Groceries", Amount: "80", Type: "expense", Category: "Food"})

	ov, err := rig.svc.AdminOverview(context.Background(), rig.admin)
	if err != nil {
		t.Fatalf("AdminOverview: %v", err)
	}

	if ov.Totals.Users != 2 || ov.Totals.Transactions != 4 {
		t.Fatalf("expected 2 users / 4 transactions, got %+v", ov.Totals)
	}
	if !ov.Totals.Income.Equal(mustAmount("1000")) || !ov.Totals.Expense.Equal(mustAmount("492.5")) {
		t.Fatalf("unexpected sums: %+v", ov.Totals)
	}
	if !ov.Totals.Balance.Equal(mustAmount("507.5")) {
		t.Fatalf("expected balance 507.5, got %s", ov.Totals.Balance)
	}
	if len(ov.Categories) != 2 || ov.Categories[0].Category != "Housing" || ov.Categories[1].Category != "Food" {
		t.Fatalf("unexpected categories: %+v", ov.Categories)
	}
	if !ov.Categories[1].Total.Equal(mustAmount("92.5")) {
		t.Fatalf("expected Food 92.5 across users, got %s", ov.Categories[1].Total)
	}

	if len(ov.LatestTransactions) != 4 {
		t.Fatalf("expected 4 feed entries, got %d", len(ov.LatestTransactions))
	}
	first := ov.LatestTransactions[0]
	if first.Title != "Groceries" || first.User == nil || first.User.Email != "bob@example.com" {
		t.Fatalf("expected bob's groceries first, got %+v user=%+v", first.Transaction, first.User)
	}
}

func TestOverviewService_RequiresAdmin(t *testing.T) {
	rig := newOverviewRig(t)
	caller := domain.Caller{ID: domain.NewID(), Role: domain.RoleUser}

	if _, err := rig.svc.AdminOverview(context.Background(), caller); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestOverviewService_OrphanOwner(t *testing.T) {
	rig := newOverviewRig(t)
	alice := rig.addUser(t, "alice")
	gone := rig.addUser(t, "gone")

	mustCreate(t, rig.txs, alice.ID, ports.CreateTransactionInput{Title: "Coffee", Amount: "3", Type: "expense"})
	mustCreate(t, rig.txs, gone.ID, ports.CreateTransactionInput{Title: "Ghost", Amount: "7", Type: "expense"})
	rig.users.Delete(gone.ID)

	ov, err := rig.svc.AdminOverview(context.Background(), rig.admin)
	if err != nil {
		t.Fatalf("AdminOverview: %v", err)
	}
	if len(ov.LatestTransactions) != 2 {
		t.Fatalf("expected 2 feed entries, got %d", len(ov.LatestTransactions))
	}
	ghost := ov.LatestTransactions[0]
	if ghost.Title != "Ghost" || ghost.User != nil {
		t.Fatalf("expected orphan entry with nil user, got %+v user=%+v", ghost.Transaction, ghost.User)
	}
	if ov.LatestTransactions[1].User == nil {
		t.Fatalf("expected alice's entry to keep its owner")
	}
	if ov.Totals.Users != 1 || ov.Totals.Transactions != 2 {
		t.Fatalf("unexpected totals: %+v", ov.Totals)
	}
}

func TestOverviewService_Limits(t *testing.T) {
	rig := newOverviewRig(t)
	owner := rig.addUser(t, "heavy")

	// 12 expenses over 7 categories; category i gets amount (i+1)*10.
	var created []*domain.Transaction
	for i := 0; i < 12; i++ {
		cat := i % 7
		created = append(created, mustCreate(t, rig.txs, owner.ID, ports.CreateTransactionInput{
			Title:    fmt.Sprintf("tx-%d", i),
			Amount:   fmt.Sprintf("%d", (cat+1)*10),
			Type:     "expense",
			Category: fmt.Sprintf("cat-%d", cat),
		}))
	}

	ov, err := rig.svc.AdminOverview(context.Background(), rig.admin)
	if err != nil {
		t.Fatalf("AdminOverview: %v", err)
	}

	if len(ov.Categories) != adminTopCategories {
		t.Fatalf("expected %d categories, got %d", adminTopCategories, len(ov.Categories))
	}
	// cat-0..cat-4 appear twice: cat-4=100, cat-3=80, cat-6=70, then the
	// cat-2/cat-5 tie at 60 keeps first-seen order.
	wantOrder := []string{"cat-4", "cat-3", "cat-6", "cat-2", "cat-5"}
	for i, want := range wantOrder {
		if ov.Categories[i].Category != want {
			t.Fatalf("rank %d: expected %s, got %+v", i, want, ov.Categories)
		}
	}

	if len(ov.LatestTransactions) != adminFeedSize {
		t.Fatalf("expected %d feed entries, got %d", adminFeedSize, len(ov.LatestTransactions))
	}
	for i, entry := range ov.LatestTransactions {
		want := created[len(created)-1-i]
		if entry.ID != want.ID {
			t.Fatalf("feed position %d: expected %s, got %s", i, want.Title, entry.Title)
		}
	}
}
