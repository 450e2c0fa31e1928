// Package aggregate holds the pure aggregation functions behind the per-user
// and admin summaries. Nothing here reads the clock or mutates its input, so
// the same transaction set always yields the same output.
package aggregate

import (
	"sort"

	"github.com/fintrack/expense-api/internal/core/domain"
)

// GroupKey selects the field transactions are grouped on.
type GroupKey string

const (
	ByType     GroupKey = "type"
	ByCategory GroupKey = "category"
)

// Group is one grouped-sum bucket.
type Group struct {
	Key   string
	Total domain.Amount
}

// KeyOf returns the group key of t for key. Blank categories fold into
// domain.DefaultCategory.
func KeyOf(t *domain.Transaction, key GroupKey) string {
	if key == ByCategory {
		return domain.NormalizeCategory(t.Category)
	}
	return string(t.Type)
}

// Fold groups txs by key and sums their amounts. Groups come back in the
// order their key was first encountered.
func Fold(txs []*domain.Transaction, key GroupKey) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, t := range txs {
		k := KeyOf(t, key)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k, Total: domain.ZeroAmount})
		}
		groups[i].Total = groups[i].Total.Add(t.Amount)
	}
	return groups
}

// TotalsFromGroups reads income and expense out of type groups. Missing
// types count as zero.
func TotalsFromGroups(groups []Group) domain.Totals {
	income, expense := domain.ZeroAmount, domain.ZeroAmount
	for _, g := range groups {
		switch domain.TransactionType(g.Key) {
		case domain.TypeIncome:
			income = income.Add(g.Total)
		case domain.TypeExpense:
			expense = expense.Add(g.Total)
		}
	}
	return domain.Totals{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// RankCategories sorts category groups by total, highest first. Equal totals
// keep their incoming order. limit <= 0 returns every category.
func RankCategories(groups []Group, limit int) []domain.CategoryTotal {
	ranked := make([]domain.CategoryTotal, len(groups))
	for i, g := range groups {
		ranked[i] = domain.CategoryTotal{Category: g.Key, Total: g.Total}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total.Cmp(ranked[j].Total) > 0
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Latest returns up to n transactions ordered by creation time, newest
// first. Equal timestamps keep the later-inserted transaction first, where
// txs is given in insertion order.
func Latest(txs []*domain.Transaction, n int) []*domain.Transaction {
	out := make([]*domain.Transaction, len(txs))
	for i := range txs {
		out[len(txs)-1-i] = txs[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Annotate attaches owner details to each transaction. Owners missing from
// owners leave User nil instead of failing the feed.
func Annotate(txs []*domain.Transaction, owners map[string]*domain.User) []domain.FeedEntry {
	feed := make([]domain.FeedEntry, 0, len(txs))
	for _, t := range txs {
		entry := domain.FeedEntry{Transaction: *t}
		if u, ok := owners[t.OwnerID]; ok && u != nil {
			entry.User = &domain.OwnerRef{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		feed = append(feed, entry)
	}
	return feed
}

// OwnerIDs returns the distinct owner ids of txs in first-seen order.
func OwnerIDs(txs []*domain.Transaction) []string {
	seen := make(map[string]struct{}, len(txs))
	ids := make([]string, 0, len(txs))
	for _, t := range txs {
		if _, ok := seen[t.OwnerID]; ok {
			continue
		}
		seen[t.OwnerID] = struct{}{}
		ids = append(ids, t.OwnerID)
	}
	return ids
}
