package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fintrack/expense-api/internal/core/aggregate"
	"github.com/fintrack/expense-api/internal/core/domain"
	"github.com/fintrack/expense-api/internal/core/ports"
)

const (
	adminTopCategories = 5
	adminFeedSize      = 10
)

// OverviewService assembles the admin overview from global-scope reads.
// The full transaction set is aggregated in one pass with no pagination.
type OverviewService struct {
	users ports.UserRepository
	txs   ports.TransactionRepository
	log   zerolog.Logger
}

func NewOverviewService(users ports.UserRepository, txs ports.TransactionRepository, log zerolog.Logger) *OverviewService {
	return &OverviewService{users: users, txs: txs, log: log}
}

// AdminOverview requires an admin caller and never mutates anything.
func (s *OverviewService) AdminOverview(ctx context.Context, caller domain.Caller) (*domain.AdminOverview, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	var (
		userCount, txCount int64
		byType, byCategory []aggregate.Group
		latest             []*domain.Transaction
	)
	all := ports.TransactionFilter{}
	expenses := ports.TransactionFilter{Type: domain.TypeExpense}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		userCount, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		txCount, err = s.txs.Count(gctx, all)
		return err
	})
	g.Go(func() (err error) {
		byType, err = s.txs.GroupAndSum(gctx, all, aggregate.ByType)
		return err
	})
	g.Go(func() (err error) {
		byCategory, err = s.txs.GroupAndSum(gctx, expenses, aggregate.ByCategory)
		return err
	})
	g.Go(func() (err error) {
		latest, err = s.txs.Latest(gctx, adminFeedSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("admin overview: %w", err)
	}

	owners, err := s.users.FindByIDs(ctx, aggregate.OwnerIDs(latest))
	if err != nil {
		s.log.Warn().Err(err).Msg("owner lookup failed, feed owners left unknown")
		owners = nil
	}

	totals := aggregate.TotalsFromGroups(byType)
	return &domain.AdminOverview{
		Totals: domain.OverviewTotals{
			Users:        userCount,
			Transactions: txCount,
			Income:       totals.Income,
			Expense:      totals.Expense,
			Balance:      totals.Balance,
		},
		Categories:         aggregate.RankCategories(byCategory, adminTopCategories),
		LatestTransactions: aggregate.Annotate(latest, owners),
	}, nil
}
