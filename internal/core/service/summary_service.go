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

// SummaryService computes the per-user analytics view on top of the store's
// grouped-sum capability.
type SummaryService struct {
	repo ports.TransactionRepository
	log  zerolog.Logger
}

func NewSummaryService(repo ports.TransactionRepository, log zerolog.Logger) *SummaryService {
	return &SummaryService{repo: repo, log: log}
}

// UserSummary returns income, expense, balance and the expense categories of
// ownerID ranked by total. An owner without transactions gets zeros.
func (s *SummaryService) UserSummary(ctx context.Context, ownerID string) (*domain.UserSummary, error) {
	if err := domain.ValidateID("user id", ownerID); err != nil {
		return nil, err
	}

	var byType, byCategory []aggregate.Group
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byType, err = s.repo.GroupAndSum(gctx, ports.TransactionFilter{OwnerID: ownerID}, aggregate.ByType)
		return err
	})
	g.Go(func() error {
		var err error
		byCategory, err = s.repo.GroupAndSum(gctx,
			ports.TransactionFilter{OwnerID: ownerID, Type: domain.TypeExpense}, aggregate.ByCategory)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("user summary: %w", err)
	}

	summary := &domain.UserSummary{
		Totals:        aggregate.TotalsFromGroups(byType),
		TopCategories: aggregate.RankCategories(byCategory, 0),
	}
	if len(summary.TopCategories) > 0 {
		top := summary.TopCategories[0]
		summary.TopCategory = &top
	}
	return summary, nil
}
